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

// Custom errors for the PaymentService. These are user-correctable request
// mismatches, not system faults: every one leaves the booking unmutated.
var (
	ErrNoDepositRequired     = errors.New("no deposit is owed for this booking")
	ErrDepositAlreadyPaid    = errors.New("deposit has already been paid for this booking")
	ErrBookingArtistMismatch = errors.New("booking does not belong to the named artist")
	ErrPaymentIntentMismatch = errors.New("payment intent does not match this booking")
	ErrPaymentNotSucceeded   = errors.New("payment has not succeeded according to the processor")
)

// paymentService implements the PaymentService interface, bridging bookings
// to the external payment processor's intent lifecycle.
type paymentService struct {
	bookingRepo db.BookingRepository
	provider    PaymentProvider
	logger      *zap.Logger
}

// NewPaymentService creates a new PaymentService instance.
func NewPaymentService(br db.BookingRepository, provider PaymentProvider, logger *zap.Logger) PaymentService {
	return &paymentService{
		bookingRepo: br,
		provider:    provider,
		logger:      logger,
	}
}

// CreateDepositIntent creates a payment intent for the booking's deposit and
// writes the intent id/secret/status back to both mirrors. The booking is
// loaded from the client-keyed mirror and cross-checked against the request's
// artist before anything is created.
func (s *paymentService) CreateDepositIntent(ctx context.Context, clientUID, artistUID, bookingID string) (*models.Booking, error) {
	booking, err := s.loadByClient(ctx, clientUID, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.ArtistUID != artistUID {
		return nil, ErrBookingArtistMismatch
	}
	if booking.DepositAmount <= 0 {
		return nil, ErrNoDepositRequired
	}
	if booking.PaymentStatus == models.PaymentStatusSucceeded {
		return nil, ErrDepositAlreadyPaid
	}

	intent, err := s.provider.CreatePaymentIntent(ctx, booking.DepositAmount, booking.Currency, map[string]string{
		"bookingId": booking.ID,
		"artistUid": booking.ArtistUID,
		"clientUid": booking.ClientUID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent for booking '%s': %w", bookingID, err)
	}

	booking.PaymentIntentID = intent.ID
	booking.PaymentClientSecret = intent.ClientSecret
	booking.PaymentStatus = paymentStatusFromIntent(intent.Status)
	booking.UpdatedAt = time.Now().UTC()
	if err := s.bookingRepo.Put(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to store payment intent on booking '%s': %w", bookingID, err)
	}

	s.logger.Info("Deposit payment intent created",
		zap.String("bookingId", booking.ID),
		zap.String("paymentIntentId", intent.ID),
		zap.Int64("amount", booking.DepositAmount),
	)
	return booking, nil
}

// RecordDepositSuccess confirms a client-reported payment. The intent's
// status is always re-fetched from the processor; a client report alone never
// flips the booking to succeeded.
func (s *paymentService) RecordDepositSuccess(ctx context.Context, clientUID, bookingID, intentID string) (*models.Booking, error) {
	booking, err := s.loadByClient(ctx, clientUID, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.PaymentIntentID == "" || booking.PaymentIntentID != intentID {
		return nil, ErrPaymentIntentMismatch
	}
	if booking.PaymentStatus == models.PaymentStatusSucceeded {
		return nil, ErrDepositAlreadyPaid
	}

	intent, err := s.provider.GetPaymentIntent(ctx, intentID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve payment intent '%s': %w", intentID, err)
	}
	if intent.Status != "succeeded" {
		return nil, fmt.Errorf("%w: status %q", ErrPaymentNotSucceeded, intent.Status)
	}

	booking.PaymentStatus = models.PaymentStatusSucceeded
	booking.UpdatedAt = time.Now().UTC()
	if err := s.bookingRepo.Put(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to record payment success on booking '%s': %w", bookingID, err)
	}

	s.logger.Info("Deposit payment recorded",
		zap.String("bookingId", booking.ID),
		zap.String("paymentIntentId", intentID),
	)
	return booking, nil
}

// paymentStatusFromIntent maps a processor intent status onto the booking's
// payment status field.
func paymentStatusFromIntent(status string) models.PaymentStatus {
	switch status {
	case "succeeded":
		return models.PaymentStatusSucceeded
	case "requires_action", "requires_confirmation":
		return models.PaymentStatusRequiresAction
	case "canceled":
		return models.PaymentStatusCancelled
	default:
		return models.PaymentStatusPending
	}
}

func (s *paymentService) loadByClient(ctx context.Context, clientUID, bookingID string) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByClient(ctx, clientUID, bookingID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to load booking '%s': %w", bookingID, err)
	}
	return booking, nil
}
