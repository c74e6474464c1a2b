package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"inkmatch-backend/internal/db"
	"inkmatch-backend/internal/models"
)

// Custom errors for the BookingService
var (
	ErrBookingNotFound         = errors.New("booking not found")
	ErrInvalidBookingStatus    = errors.New("invalid booking status")
	ErrBookingTransitionDenied = errors.New("booking status transition not permitted")
	ErrNotAnArtist             = errors.New("target user is not an artist")
)

// defaultCurrency applies when a booking request omits one.
const defaultCurrency = "usd"

// bookingService implements the BookingService interface.
type bookingService struct {
	bookingRepo db.BookingRepository
	profileRepo db.ProfileRepository
	apptRepo    db.AppointmentRepository
	logger      *zap.Logger
}

// NewBookingService creates a new BookingService instance.
func NewBookingService(
	br db.BookingRepository,
	pr db.ProfileRepository,
	ar db.AppointmentRepository,
	logger *zap.Logger,
) BookingService {
	return &bookingService{
		bookingRepo: br,
		profileRepo: pr,
		apptRepo:    ar,
		logger:      logger,
	}
}

// RequestBooking creates a new booking request from the client to the artist
// and writes identical copies to both mirrors. The initial payment status is
// pending when a positive deposit was supplied, not_required otherwise.
func (s *bookingService) RequestBooking(ctx context.Context, clientUID string, req models.RequestBookingRequest) (*models.Booking, error) {
	artist, err := s.profileRepo.Get(ctx, req.ArtistUID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load artist profile '%s': %w", req.ArtistUID, err)
	}
	if artist.Role != models.RoleArtist {
		return nil, ErrNotAnArtist
	}

	paymentStatus := models.PaymentStatusNotRequired
	if req.DepositAmount > 0 {
		paymentStatus = models.PaymentStatusPending
	}
	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	now := time.Now().UTC()
	booking := &models.Booking{
		ID:            uuid.NewString(),
		ArtistUID:     req.ArtistUID,
		ClientUID:     clientUID,
		Status:        models.BookingStatusPending,
		PaymentStatus: paymentStatus,
		Description:   req.Description,
		Placement:     req.Placement,
		PreferredDate: req.PreferredDate,
		DepositAmount: req.DepositAmount,
		Currency:      currency,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.bookingRepo.Put(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to store booking '%s': %w", booking.ID, err)
	}

	s.logger.Info("Booking requested",
		zap.String("bookingId", booking.ID),
		zap.String("clientUid", clientUID),
		zap.String("artistUid", req.ArtistUID),
		zap.Int64("depositAmount", req.DepositAmount),
	)
	return booking, nil
}

// transitionAllowed encodes who may move a booking where. The artist answers
// the request (accept/decline) and closes finished work; either party may
// cancel before completion.
func transitionAllowed(b *models.Booking, uid string, next models.BookingStatus) bool {
	isArtist := uid == b.ArtistUID
	isClient := uid == b.ClientUID

	switch next {
	case models.BookingStatusAccepted, models.BookingStatusDeclined:
		return isArtist && b.Status == models.BookingStatusPending
	case models.BookingStatusCancelled:
		return (isArtist || isClient) &&
			(b.Status == models.BookingStatusPending || b.Status == models.BookingStatusAccepted)
	case models.BookingStatusCompleted:
		return isArtist && b.Status == models.BookingStatusAccepted
	}
	return false
}

// UpdateStatus applies a booking status transition on behalf of uid and
// rewrites both mirrors. Accepting a booking also drops an appointment onto
// the artist's calendar, best-effort.
func (s *bookingService) UpdateStatus(ctx context.Context, uid, bookingID string, next models.BookingStatus) (*models.Booking, error) {
	if !next.Valid() || next == models.BookingStatusPending {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBookingStatus, next)
	}

	booking, err := s.loadForParticipant(ctx, uid, bookingID)
	if err != nil {
		return nil, err
	}
	if !transitionAllowed(booking, uid, next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrBookingTransitionDenied, booking.Status, next)
	}

	booking.Status = next
	booking.UpdatedAt = time.Now().UTC()
	if err := s.bookingRepo.Put(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to update booking '%s': %w", bookingID, err)
	}

	if next == models.BookingStatusAccepted {
		s.createAppointment(ctx, booking)
	}
	return booking, nil
}

// createAppointment mirrors an accepted booking onto the artist's calendar.
// Failures are logged only; the acceptance itself has already committed.
func (s *bookingService) createAppointment(ctx context.Context, booking *models.Booking) {
	startAt := time.Time{}
	if booking.PreferredDate != "" {
		if parsed, err := time.Parse(time.RFC3339, booking.PreferredDate); err == nil {
			startAt = parsed
		} else if parsed, err := time.Parse("2006-01-02", booking.PreferredDate); err == nil {
			startAt = parsed
		}
	}

	appt := &models.Appointment{
		ArtistUID: booking.ArtistUID,
		ClientUID: booking.ClientUID,
		BookingID: booking.ID,
		StartAt:   startAt,
		Notes:     booking.Description,
	}
	if _, err := s.apptRepo.Create(ctx, appt); err != nil {
		s.logger.Warn("Failed to create appointment for accepted booking",
			zap.String("bookingId", booking.ID), zap.Error(err))
	}
}

// ListForArtist returns the artist-keyed booking mirror.
func (s *bookingService) ListForArtist(ctx context.Context, artistUID string) ([]*models.Booking, error) {
	bookings, err := s.bookingRepo.ListByArtist(ctx, artistUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for artist '%s': %w", artistUID, err)
	}
	return bookings, nil
}

// ListForClient returns the client-keyed booking mirror.
func (s *bookingService) ListForClient(ctx context.Context, clientUID string) ([]*models.Booking, error) {
	bookings, err := s.bookingRepo.ListByClient(ctx, clientUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for client '%s': %w", clientUID, err)
	}
	return bookings, nil
}

// ListAppointments returns the artist's calendar.
func (s *bookingService) ListAppointments(ctx context.Context, artistUID string) ([]*models.Appointment, error) {
	appts, err := s.apptRepo.ListByArtist(ctx, artistUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments for artist '%s': %w", artistUID, err)
	}
	return appts, nil
}

// DeleteAppointment drops an entry from the artist's calendar. The underlying
// booking keeps its status; only the calendar mirror goes away.
func (s *bookingService) DeleteAppointment(ctx context.Context, artistUID, apptID string) error {
	if err := s.apptRepo.Delete(ctx, artistUID, apptID); err != nil {
		return fmt.Errorf("failed to delete appointment '%s': %w", apptID, err)
	}
	return nil
}

// loadForParticipant finds the booking from whichever mirror uid owns.
func (s *bookingService) loadForParticipant(ctx context.Context, uid, bookingID string) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByClient(ctx, uid, bookingID)
	if err == nil {
		return booking, nil
	}
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
	return booking, nil
}
