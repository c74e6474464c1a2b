package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"inkmatch-backend/internal/db"
	"inkmatch-backend/internal/models"
)

// ErrInvalidRole is returned when a profile operation names an unknown role.
var ErrInvalidRole = errors.New("invalid role")

// DefaultSubscriptionTier is the tier assigned to every new profile.
const DefaultSubscriptionTier = "FREE"

// profileService implements the ProfileService interface.
type profileService struct {
	profileRepo db.ProfileRepository
	userRepo    db.UserRepository
	logger      *zap.Logger
}

// NewProfileService creates a new ProfileService instance.
func NewProfileService(pr db.ProfileRepository, ur db.UserRepository, logger *zap.Logger) ProfileService {
	return &profileService{
		profileRepo: pr,
		userRepo:    ur,
		logger:      logger,
	}
}

// InitializeProfile ensures both the private account record and the public
// profile exist after a client-side signup completes. Repeated calls are
// idempotent and return the existing profile.
func (s *profileService) InitializeProfile(ctx context.Context, uid, email, displayName, photoURL string, role models.Role) (*models.PublicProfile, bool, error) {
	if uid == "" {
		return nil, false, errors.New("uid is required")
	}
	if role == "" {
		role = models.RoleClient
	}
	if !role.Valid() || role == models.RoleAdmin {
		// Admin is granted via auth custom claims, never self-assigned at signup.
		return nil, false, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	// Private account record first.
	if _, err := s.userRepo.GetByID(ctx, uid); err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			return nil, false, fmt.Errorf("failed to load user '%s': %w", uid, err)
		}
		user := &models.User{
			ID:          uid,
			Email:       email,
			DisplayName: displayName,
			PhotoURL:    photoURL,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, false, fmt.Errorf("failed to create user '%s': %w", uid, err)
		}
	}

	profile, err := s.profileRepo.Get(ctx, uid)
	if err == nil {
		return profile, false, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to load profile '%s': %w", uid, err)
	}

	profile = &models.PublicProfile{
		UID:              uid,
		Role:             role,
		DisplayName:      displayName,
		PhotoURL:         photoURL,
		IsPublic:         role == models.RoleArtist,
		SubscriptionTier: DefaultSubscriptionTier,
	}
	if err := s.profileRepo.Set(ctx, profile); err != nil {
		return nil, false, fmt.Errorf("failed to create profile '%s': %w", uid, err)
	}

	s.logger.Info("Profile initialized", zap.String("uid", uid), zap.String("role", string(role)))
	return profile, true, nil
}

// GetProfile retrieves a public profile by UID.
func (s *profileService) GetProfile(ctx context.Context, uid string) (*models.PublicProfile, error) {
	profile, err := s.profileRepo.Get(ctx, uid)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile '%s': %w", uid, err)
	}
	return profile, nil
}

// UpdateProfile applies a self-service profile edit. Latitude/longitude
// writes keep the legacy lat/lng duplicates in sync in both directions.
func (s *profileService) UpdateProfile(ctx context.Context, uid string, req models.UpdateProfileRequest) (*models.PublicProfile, error) {
	profile, err := s.GetProfile(ctx, uid)
	if err != nil {
		return nil, err
	}

	applyProfileUpdate(profile, req)
	profile.UpdatedAt = time.Now().UTC()

	if err := s.profileRepo.Set(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile '%s': %w", uid, err)
	}
	return profile, nil
}

// applyProfileUpdate merges the set fields of req onto the profile. Nil
// pointers leave the stored value alone. The legacy lat/lng pair is kept in
// sync with latitude/longitude.
func applyProfileUpdate(profile *models.PublicProfile, req models.UpdateProfileRequest) {
	if req.DisplayName != nil {
		profile.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.PhotoURL != nil {
		profile.PhotoURL = *req.PhotoURL
	}
	if req.IsPublic != nil {
		profile.IsPublic = *req.IsPublic
	}
	if req.City != nil {
		profile.City = *req.City
	}
	if req.Country != nil {
		profile.Country = *req.Country
	}
	if req.Latitude != nil {
		profile.Latitude = *req.Latitude
		profile.Lat = *req.Latitude
	}
	if req.Longitude != nil {
		profile.Longitude = *req.Longitude
		profile.Lng = *req.Longitude
	}
	if req.Styles != nil {
		profile.Styles = *req.Styles
	}
}

// ListArtists returns all discoverable artist profiles.
func (s *profileService) ListArtists(ctx context.Context) ([]*models.PublicProfile, error) {
	artists, err := s.profileRepo.ListPublicArtists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list artists: %w", err)
	}
	return artists, nil
}
