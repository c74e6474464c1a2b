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

// ErrInvalidBookingSide is returned when an admin booking lookup names a
// side other than "artist" or "client".
var ErrInvalidBookingSide = errors.New("side must be 'artist' or 'client'")

// adminService implements the AdminService interface. It bypasses the
// ownership checks the self-service layer enforces; the route middleware is
// responsible for admitting only admin tokens. Every mutation is mirrored
// into the audit log.
type adminService struct {
	profileRepo  db.ProfileRepository
	userRepo     db.UserRepository
	leadRepo     db.LeadRepository
	bookingRepo  db.BookingRepository
	auditService AuditService
	logger       *zap.Logger
}

// NewAdminService creates a new AdminService instance.
func NewAdminService(pr db.ProfileRepository, ur db.UserRepository, lr db.LeadRepository, br db.BookingRepository, audit AuditService, logger *zap.Logger) AdminService {
	return &adminService{
		profileRepo:  pr,
		userRepo:     ur,
		leadRepo:     lr,
		bookingRepo:  br,
		auditService: audit,
		logger:       logger,
	}
}

// ListUsers returns every profile, public or not.
func (s *adminService) ListUsers(ctx context.Context) ([]*models.PublicProfile, error) {
	profiles, err := s.profileRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

// UpdateProfile applies an admin edit to any profile, including role changes.
func (s *adminService) UpdateProfile(ctx context.Context, actorUID, uid string, req models.AdminUpdateProfileRequest) (*models.PublicProfile, error) {
	profile, err := s.profileRepo.Get(ctx, uid)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile '%s': %w", uid, err)
	}

	if req.Role != nil {
		if !req.Role.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRole, *req.Role)
		}
		profile.Role = *req.Role
	}
	applyProfileUpdate(profile, req.UpdateProfileRequest)
	profile.UpdatedAt = time.Now().UTC()

	if err := s.profileRepo.Set(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to store profile '%s': %w", uid, err)
	}

	s.auditService.Record(ctx, actorUID, "profile.update", "profile", uid, map[string]interface{}{
		"roleChanged": req.Role != nil,
	})
	return profile, nil
}

// DisableUser soft-hides the profile and flags the private record. Users are
// never hard-deleted so threads and bookings keep resolving.
func (s *adminService) DisableUser(ctx context.Context, actorUID, uid string) error {
	profile, err := s.profileRepo.Get(ctx, uid)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("failed to load profile '%s': %w", uid, err)
	}

	profile.IsPublic = false
	profile.UpdatedAt = time.Now().UTC()
	if err := s.profileRepo.Set(ctx, profile); err != nil {
		return fmt.Errorf("failed to hide profile '%s': %w", uid, err)
	}

	if err := s.userRepo.Update(ctx, &models.User{ID: uid, Disabled: true}); err != nil {
		// Profile is already hidden; report the partial failure.
		return fmt.Errorf("profile hidden but failed to flag user record '%s': %w", uid, err)
	}

	s.auditService.Record(ctx, actorUID, "user.disable", "user", uid, nil)
	s.logger.Info("User disabled", zap.String("uid", uid), zap.String("actor", actorUID))
	return nil
}

// ListLeads returns any artist's inbound leads.
func (s *adminService) ListLeads(ctx context.Context, artistUID string) ([]*models.Lead, error) {
	leads, err := s.leadRepo.ListByArtist(ctx, artistUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads for artist '%s': %w", artistUID, err)
	}
	return leads, nil
}

// ListBookings returns a user's bookings from either mirror.
func (s *adminService) ListBookings(ctx context.Context, uid, side string) ([]*models.Booking, error) {
	switch side {
	case "artist":
		return s.bookingRepo.ListByArtist(ctx, uid)
	case "client":
		return s.bookingRepo.ListByClient(ctx, uid)
	}
	return nil, ErrInvalidBookingSide
}

// UpdateBookingStatus force-sets a booking's status, skipping the transition
// rules participants are held to. Both mirrors are rewritten together.
func (s *adminService) UpdateBookingStatus(ctx context.Context, actorUID, uid, bookingID string, status models.BookingStatus) (*models.Booking, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBookingStatus, status)
	}

	booking, err := s.bookingRepo.GetByClient(ctx, uid, bookingID)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("failed to load booking '%s': %w", bookingID, err)
		}
		booking, err = s.bookingRepo.GetByArtist(ctx, uid, bookingID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return nil, ErrBookingNotFound
			}
			return nil, fmt.Errorf("failed to load booking '%s': %w", bookingID, err)
		}
	}

	previous := booking.Status
	booking.Status = status
	booking.UpdatedAt = time.Now().UTC()
	if err := s.bookingRepo.Put(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to store booking '%s': %w", bookingID, err)
	}

	s.auditService.Record(ctx, actorUID, "booking.status", "booking", bookingID, map[string]interface{}{
		"from": string(previous),
		"to":   string(status),
	})
	return booking, nil
}

// ListAuditLogs returns the most recent audit entries.
func (s *adminService) ListAuditLogs(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	return s.auditService.ListAuditLogs(ctx, limit)
}
