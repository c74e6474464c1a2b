package core

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"inkmatch-backend/internal/models"
)

type providerStub struct {
	intent  *models.PaymentIntent
	session *models.CheckoutSession

	createdIntents  int
	createdMetadata map[string]string
}

func (s *providerStub) CreatePaymentIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*models.PaymentIntent, error) {
	s.createdIntents++
	s.createdMetadata = metadata
	if s.intent != nil {
		return s.intent, nil
	}
	return &models.PaymentIntent{ID: "pi_1", ClientSecret: "pi_1_secret", Status: "requires_payment_method", Amount: amount, Currency: currency}, nil
}

func (s *providerStub) GetPaymentIntent(ctx context.Context, intentID string) (*models.PaymentIntent, error) {
	if s.intent == nil || s.intent.ID != intentID {
		return nil, errors.New("no such payment intent")
	}
	return s.intent, nil
}

func (s *providerStub) CreateCheckoutSession(ctx context.Context, uid, priceID, successURL, cancelURL string) (*models.CheckoutSession, error) {
	if s.session != nil {
		return s.session, nil
	}
	return &models.CheckoutSession{ID: "cs_1", URL: "https://checkout.example/cs_1", PriceID: priceID, ClientReferenceID: uid}, nil
}

func (s *providerStub) GetCheckoutSession(ctx context.Context, sessionID string) (*models.CheckoutSession, error) {
	if s.session == nil || s.session.ID != sessionID {
		return nil, errors.New("no such checkout session")
	}
	return s.session, nil
}

func depositBooking(id string, amount int64) *models.Booking {
	return &models.Booking{
		ID:            id,
		ArtistUID:     "artist-1",
		ClientUID:     "client-1",
		Status:        models.BookingStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		DepositAmount: amount,
		Currency:      "usd",
	}
}

func TestCreateDepositIntent_StampsIntentOntoBooking(t *testing.T) {
	bookings := newBookingRepoStub(depositBooking("bk-1", 5000))
	provider := &providerStub{}
	svc := NewPaymentService(bookings, provider, zap.NewNop())

	booking, err := svc.CreateDepositIntent(context.Background(), "client-1", "artist-1", "bk-1")
	if err != nil {
		t.Fatalf("CreateDepositIntent: %v", err)
	}
	if booking.PaymentIntentID != "pi_1" || booking.PaymentClientSecret != "pi_1_secret" {
		t.Fatalf("intent not stamped: %+v", booking)
	}
	if booking.PaymentStatus != models.PaymentStatusPending {
		t.Fatalf("paymentStatus %q, want pending", booking.PaymentStatus)
	}
	if len(bookings.puts) != 1 {
		t.Fatalf("Put called %d times, want 1", len(bookings.puts))
	}
	if provider.createdMetadata["bookingId"] != "bk-1" {
		t.Fatalf("intent metadata missing booking id: %v", provider.createdMetadata)
	}
}

func TestCreateDepositIntent_ArtistMismatch(t *testing.T) {
	bookings := newBookingRepoStub(depositBooking("bk-1", 5000))
	provider := &providerStub{}
	svc := NewPaymentService(bookings, provider, zap.NewNop())

	_, err := svc.CreateDepositIntent(context.Background(), "client-1", "artist-2", "bk-1")
	if !errors.Is(err, ErrBookingArtistMismatch) {
		t.Fatalf("got %v, want ErrBookingArtistMismatch", err)
	}
	if provider.createdIntents != 0 {
		t.Fatal("mismatched request must not reach the processor")
	}
}

func TestCreateDepositIntent_NoDepositOwed(t *testing.T) {
	bookings := newBookingRepoStub(depositBooking("bk-1", 0))
	svc := NewPaymentService(bookings, &providerStub{}, zap.NewNop())

	_, err := svc.CreateDepositIntent(context.Background(), "client-1", "artist-1", "bk-1")
	if !errors.Is(err, ErrNoDepositRequired) {
		t.Fatalf("got %v, want ErrNoDepositRequired", err)
	}
}

func TestCreateDepositIntent_AlreadyPaid(t *testing.T) {
	booking := depositBooking("bk-1", 5000)
	booking.PaymentStatus = models.PaymentStatusSucceeded
	bookings := newBookingRepoStub(booking)
	provider := &providerStub{}
	svc := NewPaymentService(bookings, provider, zap.NewNop())

	_, err := svc.CreateDepositIntent(context.Background(), "client-1", "artist-1", "bk-1")
	if !errors.Is(err, ErrDepositAlreadyPaid) {
		t.Fatalf("got %v, want ErrDepositAlreadyPaid", err)
	}
	if provider.createdIntents != 0 {
		t.Fatal("paid booking must not get a second intent")
	}
}

func TestCreateDepositIntent_OnlyClientMirror(t *testing.T) {
	bookings := newBookingRepoStub(depositBooking("bk-1", 5000))
	svc := NewPaymentService(bookings, &providerStub{}, zap.NewNop())

	_, err := svc.CreateDepositIntent(context.Background(), "artist-1", "artist-1", "bk-1")
	if !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("got %v, want ErrBookingNotFound", err)
	}
}

func TestRecordDepositSuccess_VerifiesWithProcessor(t *testing.T) {
	booking := depositBooking("bk-1", 5000)
	booking.PaymentIntentID = "pi_1"
	bookings := newBookingRepoStub(booking)
	provider := &providerStub{intent: &models.PaymentIntent{ID: "pi_1", Status: "succeeded"}}
	svc := NewPaymentService(bookings, provider, zap.NewNop())

	updated, err := svc.RecordDepositSuccess(context.Background(), "client-1", "bk-1", "pi_1")
	if err != nil {
		t.Fatalf("RecordDepositSuccess: %v", err)
	}
	if updated.PaymentStatus != models.PaymentStatusSucceeded {
		t.Fatalf("paymentStatus %q, want succeeded", updated.PaymentStatus)
	}
	if len(bookings.puts) != 1 {
		t.Fatalf("Put called %d times, want 1", len(bookings.puts))
	}
}

func TestRecordDepositSuccess_ProcessorDisagrees(t *testing.T) {
	booking := depositBooking("bk-1", 5000)
	booking.PaymentIntentID = "pi_1"
	bookings := newBookingRepoStub(booking)
	provider := &providerStub{intent: &models.PaymentIntent{ID: "pi_1", Status: "requires_payment_method"}}
	svc := NewPaymentService(bookings, provider, zap.NewNop())

	_, err := svc.RecordDepositSuccess(context.Background(), "client-1", "bk-1", "pi_1")
	if !errors.Is(err, ErrPaymentNotSucceeded) {
		t.Fatalf("got %v, want ErrPaymentNotSucceeded", err)
	}
	if len(bookings.puts) != 0 {
		t.Fatal("client report alone must not flip the booking")
	}
	if booking.PaymentStatus != models.PaymentStatusPending {
		t.Fatalf("booking mutated to %q", booking.PaymentStatus)
	}
}

func TestRecordDepositSuccess_IntentMismatch(t *testing.T) {
	booking := depositBooking("bk-1", 5000)
	booking.PaymentIntentID = "pi_1"
	bookings := newBookingRepoStub(booking)
	svc := NewPaymentService(bookings, &providerStub{}, zap.NewNop())

	for _, intentID := range []string{"pi_other", ""} {
		if _, err := svc.RecordDepositSuccess(context.Background(), "client-1", "bk-1", intentID); !errors.Is(err, ErrPaymentIntentMismatch) {
			t.Errorf("RecordDepositSuccess(%q) = %v, want ErrPaymentIntentMismatch", intentID, err)
		}
	}
}

func TestRecordDepositSuccess_Idempotent(t *testing.T) {
	booking := depositBooking("bk-1", 5000)
	booking.PaymentIntentID = "pi_1"
	booking.PaymentStatus = models.PaymentStatusSucceeded
	bookings := newBookingRepoStub(booking)
	svc := NewPaymentService(bookings, &providerStub{}, zap.NewNop())

	_, err := svc.RecordDepositSuccess(context.Background(), "client-1", "bk-1", "pi_1")
	if !errors.Is(err, ErrDepositAlreadyPaid) {
		t.Fatalf("got %v, want ErrDepositAlreadyPaid", err)
	}
}
