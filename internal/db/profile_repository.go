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

const publicProfilesCollection = "publicProfiles"

// firestoreProfileRepository implements the ProfileRepository interface using Firestore.
type firestoreProfileRepository struct {
	client *firestore.Client
}

// NewFirestoreProfileRepository creates a new instance of firestoreProfileRepository.
func NewFirestoreProfileRepository(client *firestore.Client) ProfileRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for ProfileRepository.")
	}
	return &firestoreProfileRepository{client: client}
}

// Get retrieves a public profile by UID.
func (r *firestoreProfileRepository) Get(ctx context.Context, uid string) (*models.PublicProfile, error) {
	if uid == "" {
		return nil, errors.New("uid cannot be empty for Get operation")
	}
	docSnap, err := r.client.Collection(publicProfilesCollection).Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("profile with UID '%s' not found: %w", uid, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get profile with UID '%s': %w", uid, err)
	}

	var profile models.PublicProfile
	if err := docSnap.DataTo(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile data for UID '%s': %w", uid, err)
	}
	profile.UID = docSnap.Ref.ID

	return &profile, nil
}

// Set writes the full profile document, creating it if absent. Profiles are
// soft-hidden via isPublic=false, never deleted, so upsert semantics fit
// every write path.
func (r *firestoreProfileRepository) Set(ctx context.Context, profile *models.PublicProfile) error {
	if profile.UID == "" {
		return errors.New("profile UID cannot be empty for Set operation")
	}
	_, err := r.client.Collection(publicProfilesCollection).Doc(profile.UID).Set(ctx, profile)
	if err != nil {
		return fmt.Errorf("failed to set profile with UID '%s': %w", profile.UID, err)
	}
	return nil
}

// ListPublicArtists returns all discoverable artist profiles.
func (r *firestoreProfileRepository) ListPublicArtists(ctx context.Context) ([]*models.PublicProfile, error) {
	query := r.client.Collection(publicProfilesCollection).
		Where("role", "==", string(models.RoleArtist)).
		Where("isPublic", "==", true)
	return r.collect(ctx, query.Documents(ctx))
}

// ListAll returns every profile, hidden ones included. Admin use only.
func (r *firestoreProfileRepository) ListAll(ctx context.Context) ([]*models.PublicProfile, error) {
	return r.collect(ctx, r.client.Collection(publicProfilesCollection).Documents(ctx))
}

// FindByStripeCustomerID scans profiles for a matching stored customer id.
// Firestore serves this as an unindexed equality query over the collection,
// which is the same full scan the original performed. Returns ErrNotFound
// when no profile carries the id.
func (r *firestoreProfileRepository) FindByStripeCustomerID(ctx context.Context, customerID string) (*models.PublicProfile, error) {
	if customerID == "" {
		return nil, errors.New("customerID cannot be empty for FindByStripeCustomerID operation")
	}
	iter := r.client.Collection(publicProfilesCollection).
		Where("stripeCustomerId", "==", customerID).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, fmt.Errorf("no profile with customer id '%s': %w", customerID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query profile by customer id '%s': %w", customerID, err)
	}

	var profile models.PublicProfile
	if err := doc.DataTo(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile data (ID: %s): %w", doc.Ref.ID, err)
	}
	profile.UID = doc.Ref.ID
	return &profile, nil
}

func (r *firestoreProfileRepository) collect(ctx context.Context, iter *firestore.DocumentIterator) ([]*models.PublicProfile, error) {
	defer iter.Stop()

	var profiles []*models.PublicProfile
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate profiles: %w", err)
		}

		var profile models.PublicProfile
		if err := doc.DataTo(&profile); err != nil {
			log.Printf("Error decoding profile data (ID: %s): %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		profile.UID = doc.Ref.ID
		profiles = append(profiles, &profile)
	}
	return profiles, nil
}
