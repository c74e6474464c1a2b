package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"inkmatch-backend/internal/models"
)

const (
	bookingsByArtistCollection = "bookingsByArtist"
	bookingsByClientCollection = "bookingsByClient"
	bookingsSubcollection      = "bookings"
)

// firestoreBookingRepository implements the BookingRepository interface using Firestore.
type firestoreBookingRepository struct {
	client *firestore.Client
}

// NewFirestoreBookingRepository creates a new instance of firestoreBookingRepository.
func NewFirestoreBookingRepository(client *firestore.Client) BookingRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for BookingRepository.")
	}
	return &firestoreBookingRepository{client: client}
}

func (r *firestoreBookingRepository) artistRef(artistUID, bookingID string) *firestore.DocumentRef {
	return r.client.Collection(bookingsByArtistCollection).Doc(artistUID).
		Collection(bookingsSubcollection).Doc(bookingID)
}

func (r *firestoreBookingRepository) clientRef(clientUID, bookingID string) *firestore.DocumentRef {
	return r.client.Collection(bookingsByClientCollection).Doc(clientUID).
		Collection(bookingsSubcollection).Doc(bookingID)
}

// Put writes identical copies of the booking to both mirrors in one batch.
// Both mirrors carry the same field values after any successful call; a
// failed commit leaves neither touched.
func (r *firestoreBookingRepository) Put(ctx context.Context, booking *models.Booking) error {
	if booking.ID == "" || booking.ArtistUID == "" || booking.ClientUID == "" {
		return errors.New("booking ID, artistUID and clientUID are required for Put operation")
	}

	batch := r.client.Batch()
	batch.Set(r.artistRef(booking.ArtistUID, booking.ID), booking)
	batch.Set(r.clientRef(booking.ClientUID, booking.ID), booking)
	if _, err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("failed to write booking '%s' mirrors: %w", booking.ID, err)
	}
	return nil
}

// GetByClient retrieves a booking from the client-keyed mirror.
func (r *firestoreBookingRepository) GetByClient(ctx context.Context, clientUID, bookingID string) (*models.Booking, error) {
	if clientUID == "" || bookingID == "" {
		return nil, errors.New("clientUID and bookingID cannot be empty for GetByClient operation")
	}
	return r.get(ctx, r.clientRef(clientUID, bookingID), bookingID)
}

// GetByArtist retrieves a booking from the artist-keyed mirror.
func (r *firestoreBookingRepository) GetByArtist(ctx context.Context, artistUID, bookingID string) (*models.Booking, error) {
	if artistUID == "" || bookingID == "" {
		return nil, errors.New("artistUID and bookingID cannot be empty for GetByArtist operation")
	}
	return r.get(ctx, r.artistRef(artistUID, bookingID), bookingID)
}

func (r *firestoreBookingRepository) get(ctx context.Context, ref *firestore.DocumentRef, bookingID string) (*models.Booking, error) {
	docSnap, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("booking with ID '%s' not found: %w", bookingID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get booking with ID '%s': %w", bookingID, err)
	}

	var booking models.Booking
	if err := docSnap.DataTo(&booking); err != nil {
		return nil, fmt.Errorf("failed to decode booking data for ID '%s': %w", bookingID, err)
	}
	return &booking, nil
}

// ListByClient returns a client's bookings, newest first.
func (r *firestoreBookingRepository) ListByClient(ctx context.Context, clientUID string) ([]*models.Booking, error) {
	if clientUID == "" {
		return nil, errors.New("clientUID cannot be empty for ListByClient operation")
	}
	iter := r.client.Collection(bookingsByClientCollection).Doc(clientUID).
		Collection(bookingsSubcollection).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	return r.collect(iter, "client", clientUID)
}

// ListByArtist returns an artist's bookings, newest first.
func (r *firestoreBookingRepository) ListByArtist(ctx context.Context, artistUID string) ([]*models.Booking, error) {
	if artistUID == "" {
		return nil, errors.New("artistUID cannot be empty for ListByArtist operation")
	}
	iter := r.client.Collection(bookingsByArtistCollection).Doc(artistUID).
		Collection(bookingsSubcollection).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	return r.collect(iter, "artist", artistUID)
}

func (r *firestoreBookingRepository) collect(iter *firestore.DocumentIterator, side, uid string) ([]*models.Booking, error) {
	defer iter.Stop()

	var bookings []*models.Booking
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate bookings for %s '%s': %w", side, uid, err)
		}

		var booking models.Booking
		if err := doc.DataTo(&booking); err != nil {
			log.Printf("Error decoding booking data (ID: %s) for %s '%s': %v. Skipping.", doc.Ref.ID, side, uid, err)
			continue
		}
		bookings = append(bookings, &booking)
	}
	return bookings, nil
}
