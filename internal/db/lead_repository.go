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
	leadsByArtistCollection = "leadsByArtist"
	leadsSubcollection      = "leads"
)

// firestoreLeadRepository implements the LeadRepository interface using Firestore.
type firestoreLeadRepository struct {
	client *firestore.Client
}

// NewFirestoreLeadRepository creates a new instance of firestoreLeadRepository.
func NewFirestoreLeadRepository(client *firestore.Client) LeadRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for LeadRepository.")
	}
	return &firestoreLeadRepository{client: client}
}

func (r *firestoreLeadRepository) leadRef(artistUID, leadID string) *firestore.DocumentRef {
	return r.client.Collection(leadsByArtistCollection).Doc(artistUID).
		Collection(leadsSubcollection).Doc(leadID)
}

// CreateWithThreadLink writes the lead into the artist's inbox and sets the
// thread's leadId back-reference in one batch, so the "at most one lead per
// thread" guard can rely on the back-reference alone.
func (r *firestoreLeadRepository) CreateWithThreadLink(ctx context.Context, lead *models.Lead) error {
	if lead.ID == "" || lead.ArtistUID == "" || lead.ThreadID == "" {
		return errors.New("lead ID, artistUID and threadID are required for CreateWithThreadLink operation")
	}

	batch := r.client.Batch()
	batch.Set(r.leadRef(lead.ArtistUID, lead.ID), lead)
	batch.Set(r.client.Collection(threadsCollection).Doc(lead.ThreadID), map[string]interface{}{
		"leadId": lead.ID,
	}, firestore.MergeAll)
	if _, err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("failed to create lead '%s' for artist '%s': %w", lead.ID, lead.ArtistUID, err)
	}
	return nil
}

// Get retrieves one lead from an artist's inbox.
func (r *firestoreLeadRepository) Get(ctx context.Context, artistUID, leadID string) (*models.Lead, error) {
	if artistUID == "" || leadID == "" {
		return nil, errors.New("artistUID and leadID cannot be empty for Get operation")
	}
	docSnap, err := r.leadRef(artistUID, leadID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("lead with ID '%s' not found: %w", leadID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get lead with ID '%s': %w", leadID, err)
	}

	var lead models.Lead
	if err := docSnap.DataTo(&lead); err != nil {
		return nil, fmt.Errorf("failed to decode lead data for ID '%s': %w", leadID, err)
	}
	lead.ID = docSnap.Ref.ID
	return &lead, nil
}

// ListByArtist returns the artist's lead inbox, newest first.
func (r *firestoreLeadRepository) ListByArtist(ctx context.Context, artistUID string) ([]*models.Lead, error) {
	if artistUID == "" {
		return nil, errors.New("artistUID cannot be empty for ListByArtist operation")
	}
	iter := r.client.Collection(leadsByArtistCollection).Doc(artistUID).
		Collection(leadsSubcollection).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var leads []*models.Lead
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate leads for artist '%s': %w", artistUID, err)
		}

		var lead models.Lead
		if err := doc.DataTo(&lead); err != nil {
			log.Printf("Error decoding lead data (ID: %s) for artist '%s': %v. Skipping.", doc.Ref.ID, artistUID, err)
			continue
		}
		lead.ID = doc.Ref.ID
		leads = append(leads, &lead)
	}
	return leads, nil
}

// UpdateStatus moves a lead through its status lifecycle.
func (r *firestoreLeadRepository) UpdateStatus(ctx context.Context, artistUID, leadID string, leadStatus models.LeadStatus) error {
	if artistUID == "" || leadID == "" {
		return errors.New("artistUID and leadID cannot be empty for UpdateStatus operation")
	}
	_, err := r.leadRef(artistUID, leadID).Set(ctx, map[string]interface{}{
		"status":    string(leadStatus),
		"updatedAt": firestore.ServerTimestamp,
	}, firestore.MergeAll)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("lead with ID '%s' not found: %w", leadID, ErrNotFound)
		}
		return fmt.Errorf("failed to update lead '%s' status: %w", leadID, err)
	}
	return nil
}
