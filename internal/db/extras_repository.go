package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"inkmatch-backend/internal/models"
)

const (
	favoritesByClientCollection    = "favoritesByClient"
	favoritesSubcollection         = "favorites"
	appointmentsByArtistCollection = "appointmentsByArtist"
	appointmentsSubcollection      = "appointments"
	stencilsByUserCollection       = "stencilsByUser"
	stencilsSubcollection          = "stencils"
)

// firestoreFavoriteRepository implements FavoriteRepository using Firestore.
type firestoreFavoriteRepository struct {
	client *firestore.Client
}

// NewFirestoreFavoriteRepository creates a new instance of firestoreFavoriteRepository.
func NewFirestoreFavoriteRepository(client *firestore.Client) FavoriteRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for FavoriteRepository.")
	}
	return &firestoreFavoriteRepository{client: client}
}

func (r *firestoreFavoriteRepository) favRef(clientUID, artistUID string) *firestore.DocumentRef {
	return r.client.Collection(favoritesByClientCollection).Doc(clientUID).
		Collection(favoritesSubcollection).Doc(artistUID)
}

// Add saves an artist into the client's favorites. Idempotent: re-adding just
// rewrites the entry.
func (r *firestoreFavoriteRepository) Add(ctx context.Context, clientUID, artistUID string) error {
	if clientUID == "" || artistUID == "" {
		return errors.New("clientUID and artistUID cannot be empty for Add operation")
	}
	_, err := r.favRef(clientUID, artistUID).Set(ctx, map[string]interface{}{
		"createdAt": firestore.ServerTimestamp,
	})
	if err != nil {
		return fmt.Errorf("failed to add favorite '%s' for client '%s': %w", artistUID, clientUID, err)
	}
	return nil
}

// Remove drops an artist from the client's favorites.
func (r *firestoreFavoriteRepository) Remove(ctx context.Context, clientUID, artistUID string) error {
	if clientUID == "" || artistUID == "" {
		return errors.New("clientUID and artistUID cannot be empty for Remove operation")
	}
	if _, err := r.favRef(clientUID, artistUID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to remove favorite '%s' for client '%s': %w", artistUID, clientUID, err)
	}
	return nil
}

// List returns the client's saved artists.
func (r *firestoreFavoriteRepository) List(ctx context.Context, clientUID string) ([]*models.Favorite, error) {
	if clientUID == "" {
		return nil, errors.New("clientUID cannot be empty for List operation")
	}
	iter := r.client.Collection(favoritesByClientCollection).Doc(clientUID).
		Collection(favoritesSubcollection).Documents(ctx)
	defer iter.Stop()

	var favorites []*models.Favorite
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate favorites for client '%s': %w", clientUID, err)
		}

		var fav models.Favorite
		if err := doc.DataTo(&fav); err != nil {
			log.Printf("Error decoding favorite (ID: %s) for client '%s': %v. Skipping.", doc.Ref.ID, clientUID, err)
			continue
		}
		fav.ArtistUID = doc.Ref.ID
		favorites = append(favorites, &fav)
	}
	return favorites, nil
}

// firestoreAppointmentRepository implements AppointmentRepository using Firestore.
type firestoreAppointmentRepository struct {
	client *firestore.Client
}

// NewFirestoreAppointmentRepository creates a new instance of firestoreAppointmentRepository.
func NewFirestoreAppointmentRepository(client *firestore.Client) AppointmentRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for AppointmentRepository.")
	}
	return &firestoreAppointmentRepository{client: client}
}

// Create adds an appointment to the artist's calendar with an auto-generated ID.
func (r *firestoreAppointmentRepository) Create(ctx context.Context, appt *models.Appointment) (string, error) {
	if appt.ArtistUID == "" {
		return "", errors.New("appointment artistUID cannot be empty for Create operation")
	}
	docRef := r.client.Collection(appointmentsByArtistCollection).Doc(appt.ArtistUID).
		Collection(appointmentsSubcollection).NewDoc()
	appt.ID = docRef.ID

	if _, err := docRef.Create(ctx, appt); err != nil {
		return "", fmt.Errorf("failed to create appointment for artist '%s': %w", appt.ArtistUID, err)
	}
	return docRef.ID, nil
}

// ListByArtist returns the artist's appointments ordered by start time.
func (r *firestoreAppointmentRepository) ListByArtist(ctx context.Context, artistUID string) ([]*models.Appointment, error) {
	if artistUID == "" {
		return nil, errors.New("artistUID cannot be empty for ListByArtist operation")
	}
	iter := r.client.Collection(appointmentsByArtistCollection).Doc(artistUID).
		Collection(appointmentsSubcollection).
		OrderBy("startAt", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var appts []*models.Appointment
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate appointments for artist '%s': %w", artistUID, err)
		}

		var appt models.Appointment
		if err := doc.DataTo(&appt); err != nil {
			log.Printf("Error decoding appointment (ID: %s) for artist '%s': %v. Skipping.", doc.Ref.ID, artistUID, err)
			continue
		}
		appt.ID = doc.Ref.ID
		appts = append(appts, &appt)
	}
	return appts, nil
}

// Delete removes an appointment from the artist's calendar.
func (r *firestoreAppointmentRepository) Delete(ctx context.Context, artistUID, apptID string) error {
	if artistUID == "" || apptID == "" {
		return errors.New("artistUID and apptID cannot be empty for Delete operation")
	}
	_, err := r.client.Collection(appointmentsByArtistCollection).Doc(artistUID).
		Collection(appointmentsSubcollection).Doc(apptID).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete appointment '%s' for artist '%s': %w", apptID, artistUID, err)
	}
	return nil
}

// firestoreStencilRepository implements StencilRepository using Firestore.
type firestoreStencilRepository struct {
	client *firestore.Client
}

// NewFirestoreStencilRepository creates a new instance of firestoreStencilRepository.
func NewFirestoreStencilRepository(client *firestore.Client) StencilRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for StencilRepository.")
	}
	return &firestoreStencilRepository{client: client}
}

// Create records a generated stencil under its owner.
func (r *firestoreStencilRepository) Create(ctx context.Context, stencil *models.Stencil) (string, error) {
	if stencil.OwnerUID == "" {
		return "", errors.New("stencil ownerUID cannot be empty for Create operation")
	}
	docRef := r.client.Collection(stencilsByUserCollection).Doc(stencil.OwnerUID).
		Collection(stencilsSubcollection).NewDoc()
	stencil.ID = docRef.ID

	if _, err := docRef.Create(ctx, stencil); err != nil {
		return "", fmt.Errorf("failed to create stencil record for user '%s': %w", stencil.OwnerUID, err)
	}
	return docRef.ID, nil
}

// ListByUser returns a user's generated stencils, newest first.
func (r *firestoreStencilRepository) ListByUser(ctx context.Context, uid string) ([]*models.Stencil, error) {
	if uid == "" {
		return nil, errors.New("uid cannot be empty for ListByUser operation")
	}
	iter := r.client.Collection(stencilsByUserCollection).Doc(uid).
		Collection(stencilsSubcollection).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var stencils []*models.Stencil
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate stencils for user '%s': %w", uid, err)
		}

		var st models.Stencil
		if err := doc.DataTo(&st); err != nil {
			log.Printf("Error decoding stencil (ID: %s) for user '%s': %v. Skipping.", doc.Ref.ID, uid, err)
			continue
		}
		st.ID = doc.Ref.ID
		stencils = append(stencils, &st)
	}
	return stencils, nil
}
