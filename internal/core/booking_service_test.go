package core

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"inkmatch-backend/internal/db"
	"inkmatch-backend/internal/models"
)

type bookingRepoStub struct {
	db.BookingRepository

	byID map[string]*models.Booking
	puts []*models.Booking
}

func newBookingRepoStub(bookings ...*models.Booking) *bookingRepoStub {
	s := &bookingRepoStub{byID: map[string]*models.Booking{}}
	for _, b := range bookings {
		s.byID[b.ID] = b
	}
	return s
}

func (s *bookingRepoStub) Put(ctx context.Context, booking *models.Booking) error {
	s.puts = append(s.puts, booking)
	s.byID[booking.ID] = booking
	return nil
}

func (s *bookingRepoStub) GetByClient(ctx context.Context, clientUID, bookingID string) (*models.Booking, error) {
	if b, ok := s.byID[bookingID]; ok && b.ClientUID == clientUID {
		return b, nil
	}
	return nil, db.ErrNotFound
}

func (s *bookingRepoStub) GetByArtist(ctx context.Context, artistUID, bookingID string) (*models.Booking, error) {
	if b, ok := s.byID[bookingID]; ok && b.ArtistUID == artistUID {
		return b, nil
	}
	return nil, db.ErrNotFound
}

type apptRepoStub struct {
	db.AppointmentRepository

	created []*models.Appointment
	err     error
}

func (s *apptRepoStub) Create(ctx context.Context, appt *models.Appointment) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	appt.ID = "appt-1"
	s.created = append(s.created, appt)
	return appt.ID, nil
}

func newBookingFixture(bookings *bookingRepoStub, appts *apptRepoStub, profiles map[string]*models.PublicProfile) BookingService {
	return NewBookingService(bookings, &profileRepoStub{profiles: profiles}, appts, zap.NewNop())
}

func pendingBooking(id string, deposit int64) *models.Booking {
	return &models.Booking{
		ID:            id,
		ArtistUID:     "artist-1",
		ClientUID:     "client-1",
		Status:        models.BookingStatusPending,
		DepositAmount: deposit,
	}
}

func TestRequestBooking_DepositSetsPaymentPending(t *testing.T) {
	bookings := newBookingRepoStub()
	svc := newBookingFixture(bookings, &apptRepoStub{}, map[string]*models.PublicProfile{
		"artist-1": profileWithRole("artist-1", models.RoleArtist),
	})

	booking, err := svc.RequestBooking(context.Background(), "client-1", models.RequestBookingRequest{
		ArtistUID:     "artist-1",
		Description:   "forearm piece",
		DepositAmount: 5000,
	})
	if err != nil {
		t.Fatalf("RequestBooking: %v", err)
	}
	if booking.Status != models.BookingStatusPending {
		t.Fatalf("status %q, want pending", booking.Status)
	}
	if booking.PaymentStatus != models.PaymentStatusPending {
		t.Fatalf("paymentStatus %q, want pending", booking.PaymentStatus)
	}
	if booking.Currency != "usd" {
		t.Fatalf("currency %q, want default usd", booking.Currency)
	}
	if len(bookings.puts) != 1 {
		t.Fatalf("Put called %d times, want 1", len(bookings.puts))
	}
}

func TestRequestBooking_NoDepositSkipsPayment(t *testing.T) {
	svc := newBookingFixture(newBookingRepoStub(), &apptRepoStub{}, map[string]*models.PublicProfile{
		"artist-1": profileWithRole("artist-1", models.RoleArtist),
	})

	booking, err := svc.RequestBooking(context.Background(), "client-1", models.RequestBookingRequest{
		ArtistUID: "artist-1",
	})
	if err != nil {
		t.Fatalf("RequestBooking: %v", err)
	}
	if booking.PaymentStatus != models.PaymentStatusNotRequired {
		t.Fatalf("paymentStatus %q, want not_required", booking.PaymentStatus)
	}
}

func TestRequestBooking_TargetMustBeArtist(t *testing.T) {
	bookings := newBookingRepoStub()
	svc := newBookingFixture(bookings, &apptRepoStub{}, map[string]*models.PublicProfile{
		"client-2": profileWithRole("client-2", models.RoleClient),
	})

	_, err := svc.RequestBooking(context.Background(), "client-1", models.RequestBookingRequest{ArtistUID: "client-2"})
	if !errors.Is(err, ErrNotAnArtist) {
		t.Fatalf("got %v, want ErrNotAnArtist", err)
	}
	if len(bookings.puts) != 0 {
		t.Fatal("rejected request must not write")
	}
}

func TestRequestBooking_UnknownArtist(t *testing.T) {
	svc := newBookingFixture(newBookingRepoStub(), &apptRepoStub{}, nil)

	_, err := svc.RequestBooking(context.Background(), "client-1", models.RequestBookingRequest{ArtistUID: "ghost"})
	if !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("got %v, want ErrProfileNotFound", err)
	}
}

func TestUpdateStatus_ArtistAcceptsPending(t *testing.T) {
	bookings := newBookingRepoStub(pendingBooking("bk-1", 0))
	appts := &apptRepoStub{}
	svc := newBookingFixture(bookings, appts, nil)

	booking, err := svc.UpdateStatus(context.Background(), "artist-1", "bk-1", models.BookingStatusAccepted)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if booking.Status != models.BookingStatusAccepted {
		t.Fatalf("status %q, want accepted", booking.Status)
	}
	if len(appts.created) != 1 {
		t.Fatalf("created %d appointments, want 1", len(appts.created))
	}
	appt := appts.created[0]
	if appt.BookingID != "bk-1" || appt.ArtistUID != "artist-1" || appt.ClientUID != "client-1" {
		t.Fatalf("appointment mirrors wrong booking: %+v", appt)
	}
}

func TestUpdateStatus_ClientCannotAccept(t *testing.T) {
	bookings := newBookingRepoStub(pendingBooking("bk-1", 0))
	svc := newBookingFixture(bookings, &apptRepoStub{}, nil)

	_, err := svc.UpdateStatus(context.Background(), "client-1", "bk-1", models.BookingStatusAccepted)
	if !errors.Is(err, ErrBookingTransitionDenied) {
		t.Fatalf("got %v, want ErrBookingTransitionDenied", err)
	}
	if len(bookings.puts) != 0 {
		t.Fatal("denied transition must not write")
	}
}

func TestUpdateStatus_EitherPartyMayCancel(t *testing.T) {
	for _, uid := range []string{"artist-1", "client-1"} {
		bookings := newBookingRepoStub(pendingBooking("bk-1", 0))
		svc := newBookingFixture(bookings, &apptRepoStub{}, nil)

		booking, err := svc.UpdateStatus(context.Background(), uid, "bk-1", models.BookingStatusCancelled)
		if err != nil {
			t.Fatalf("cancel by %s: %v", uid, err)
		}
		if booking.Status != models.BookingStatusCancelled {
			t.Fatalf("cancel by %s left status %q", uid, booking.Status)
		}
	}
}

func TestUpdateStatus_CompleteRequiresAccepted(t *testing.T) {
	bookings := newBookingRepoStub(pendingBooking("bk-1", 0))
	svc := newBookingFixture(bookings, &apptRepoStub{}, nil)

	_, err := svc.UpdateStatus(context.Background(), "artist-1", "bk-1", models.BookingStatusCompleted)
	if !errors.Is(err, ErrBookingTransitionDenied) {
		t.Fatalf("completing a pending booking: got %v, want ErrBookingTransitionDenied", err)
	}

	booking := pendingBooking("bk-2", 0)
	booking.Status = models.BookingStatusAccepted
	bookings = newBookingRepoStub(booking)
	svc = newBookingFixture(bookings, &apptRepoStub{}, nil)

	updated, err := svc.UpdateStatus(context.Background(), "artist-1", "bk-2", models.BookingStatusCompleted)
	if err != nil {
		t.Fatalf("completing an accepted booking: %v", err)
	}
	if updated.Status != models.BookingStatusCompleted {
		t.Fatalf("status %q, want completed", updated.Status)
	}
}

func TestUpdateStatus_RejectsPendingAndUnknownTargets(t *testing.T) {
	bookings := newBookingRepoStub(pendingBooking("bk-1", 0))
	svc := newBookingFixture(bookings, &apptRepoStub{}, nil)

	for _, next := range []models.BookingStatus{models.BookingStatusPending, "finished"} {
		if _, err := svc.UpdateStatus(context.Background(), "artist-1", "bk-1", next); !errors.Is(err, ErrInvalidBookingStatus) {
			t.Errorf("UpdateStatus(%q) = %v, want ErrInvalidBookingStatus", next, err)
		}
	}
}

func TestUpdateStatus_NonParticipantSeesNotFound(t *testing.T) {
	bookings := newBookingRepoStub(pendingBooking("bk-1", 0))
	svc := newBookingFixture(bookings, &apptRepoStub{}, nil)

	_, err := svc.UpdateStatus(context.Background(), "stranger", "bk-1", models.BookingStatusCancelled)
	if !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("got %v, want ErrBookingNotFound", err)
	}
}

func TestUpdateStatus_AppointmentFailureDoesNotFailAccept(t *testing.T) {
	bookings := newBookingRepoStub(pendingBooking("bk-1", 0))
	appts := &apptRepoStub{err: errors.New("calendar write failed")}
	svc := newBookingFixture(bookings, appts, nil)

	booking, err := svc.UpdateStatus(context.Background(), "artist-1", "bk-1", models.BookingStatusAccepted)
	if err != nil {
		t.Fatalf("accept failed because of appointment side effect: %v", err)
	}
	if booking.Status != models.BookingStatusAccepted {
		t.Fatalf("status %q, want accepted", booking.Status)
	}
}
