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
	aftercareByClientCollection = "aftercareByClient"
	aftercareByArtistCollection = "aftercareByArtist"
	aftercarePlansSubcollection = "plans"
)

// firestoreAftercareRepository implements the AftercareRepository interface using Firestore.
type firestoreAftercareRepository struct {
	client *firestore.Client
}

// NewFirestoreAftercareRepository creates a new instance of firestoreAftercareRepository.
func NewFirestoreAftercareRepository(client *firestore.Client) AftercareRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for AftercareRepository.")
	}
	return &firestoreAftercareRepository{client: client}
}

func (r *firestoreAftercareRepository) planRef(clientUID, planID string) *firestore.DocumentRef {
	return r.client.Collection(aftercareByClientCollection).Doc(clientUID).
		Collection(aftercarePlansSubcollection).Doc(planID)
}

func (r *firestoreAftercareRepository) indexRef(artistUID, planID string) *firestore.DocumentRef {
	return r.client.Collection(aftercareByArtistCollection).Doc(artistUID).
		Collection(aftercarePlansSubcollection).Doc(planID)
}

// Put writes the full plan under the client's namespace and the lightweight
// index entry under the artist's namespace in one batch.
func (r *firestoreAftercareRepository) Put(ctx context.Context, plan *models.AftercarePlan) error {
	if plan.ID == "" || plan.ArtistUID == "" || plan.ClientUID == "" {
		return errors.New("plan ID, artistUID and clientUID are required for Put operation")
	}

	batch := r.client.Batch()
	batch.Set(r.planRef(plan.ClientUID, plan.ID), plan)
	batch.Set(r.indexRef(plan.ArtistUID, plan.ID), plan.IndexEntry())
	if _, err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("failed to write aftercare plan '%s': %w", plan.ID, err)
	}
	return nil
}

// GetByClient retrieves the full plan record.
func (r *firestoreAftercareRepository) GetByClient(ctx context.Context, clientUID, planID string) (*models.AftercarePlan, error) {
	if clientUID == "" || planID == "" {
		return nil, errors.New("clientUID and planID cannot be empty for GetByClient operation")
	}
	docSnap, err := r.planRef(clientUID, planID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("aftercare plan with ID '%s' not found: %w", planID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get aftercare plan with ID '%s': %w", planID, err)
	}

	var plan models.AftercarePlan
	if err := docSnap.DataTo(&plan); err != nil {
		return nil, fmt.Errorf("failed to decode aftercare plan data for ID '%s': %w", planID, err)
	}
	plan.ID = docSnap.Ref.ID
	return &plan, nil
}

// ListByClient returns the client's full plans, newest first.
func (r *firestoreAftercareRepository) ListByClient(ctx context.Context, clientUID string) ([]*models.AftercarePlan, error) {
	if clientUID == "" {
		return nil, errors.New("clientUID cannot be empty for ListByClient operation")
	}
	iter := r.client.Collection(aftercareByClientCollection).Doc(clientUID).
		Collection(aftercarePlansSubcollection).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var plans []*models.AftercarePlan
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate aftercare plans for client '%s': %w", clientUID, err)
		}

		var plan models.AftercarePlan
		if err := doc.DataTo(&plan); err != nil {
			log.Printf("Error decoding aftercare plan (ID: %s) for client '%s': %v. Skipping.", doc.Ref.ID, clientUID, err)
			continue
		}
		plan.ID = doc.Ref.ID
		plans = append(plans, &plan)
	}
	return plans, nil
}

// ListByArtist returns the artist's index entries, newest first. These carry
// id, client, name, status and createdAt only, not the instruction set.
func (r *firestoreAftercareRepository) ListByArtist(ctx context.Context, artistUID string) ([]*models.AftercareIndexEntry, error) {
	if artistUID == "" {
		return nil, errors.New("artistUID cannot be empty for ListByArtist operation")
	}
	iter := r.client.Collection(aftercareByArtistCollection).Doc(artistUID).
		Collection(aftercarePlansSubcollection).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var entries []*models.AftercareIndexEntry
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate aftercare index for artist '%s': %w", artistUID, err)
		}

		var entry models.AftercareIndexEntry
		if err := doc.DataTo(&entry); err != nil {
			log.Printf("Error decoding aftercare index entry (ID: %s) for artist '%s': %v. Skipping.", doc.Ref.ID, artistUID, err)
			continue
		}
		entry.ID = doc.Ref.ID
		entries = append(entries, &entry)
	}
	return entries, nil
}
