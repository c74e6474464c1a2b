package core

import (
	"context"

	"inkmatch-backend/internal/models"
)

// ProfileService defines the interface for profile operations.
type ProfileService interface {
	// InitializeProfile ensures both the private account record and the
	// public profile exist after a client-side signup. Returns the profile
	// and whether it was newly created.
	InitializeProfile(ctx context.Context, uid, email, displayName, photoURL string, role models.Role) (*models.PublicProfile, bool, error)
	GetProfile(ctx context.Context, uid string) (*models.PublicProfile, error)
	UpdateProfile(ctx context.Context, uid string, req models.UpdateProfileRequest) (*models.PublicProfile, error)
	ListArtists(ctx context.Context) ([]*models.PublicProfile, error)
}

// ThreadService defines the interface for the thread registry.
type ThreadService interface {
	// EnsureOneToOneThread returns the stable dm thread between the two
	// users, creating it (plus both inbox entries) if needed. The thread id
	// is derived from the sorted uid pair so both sides converge on it.
	EnsureOneToOneThread(ctx context.Context, myUID, otherUID string) (*models.Thread, error)
	ListInbox(ctx context.Context, uid string) ([]*models.ThreadIndexEntry, error)
	// RemoveFromInbox drops the thread from the caller's index only.
	RemoveFromInbox(ctx context.Context, uid, threadID string) error
}

// MessageService defines the interface for the per-thread message log.
type MessageService interface {
	SendText(ctx context.Context, threadID, senderID, text string) (*models.Message, error)
	SendImage(ctx context.Context, threadID, senderID, imageURL string) (*models.Message, error)
	SendLocation(ctx context.Context, threadID, senderID string, lat, lng float64) (*models.Message, error)
	ListMessages(ctx context.Context, threadID, uid string) ([]*models.Message, error)
	// Subscribe verifies membership up front (so no-access is distinguishable
	// from an empty thread), then streams the complete ordered message list
	// on every change until stop is called or ctx ends.
	Subscribe(ctx context.Context, threadID, uid string, onChange func([]*models.Message)) (stop func(), err error)
}

// LeadService defines the interface for the artist lead inbox.
type LeadService interface {
	ListLeads(ctx context.Context, artistUID string) ([]*models.Lead, error)
	UpdateLeadStatus(ctx context.Context, artistUID, leadID string, status models.LeadStatus) (*models.Lead, error)
}

// BookingService defines the interface for booking requests and their
// mirrored records.
type BookingService interface {
	RequestBooking(ctx context.Context, clientUID string, req models.RequestBookingRequest) (*models.Booking, error)
	// UpdateStatus applies a booking status transition on behalf of uid, who
	// must be the booking's artist or client depending on the transition.
	UpdateStatus(ctx context.Context, uid, bookingID string, status models.BookingStatus) (*models.Booking, error)
	ListForArtist(ctx context.Context, artistUID string) ([]*models.Booking, error)
	ListForClient(ctx context.Context, clientUID string) ([]*models.Booking, error)
	ListAppointments(ctx context.Context, artistUID string) ([]*models.Appointment, error)
	// DeleteAppointment removes a calendar entry; the booking it mirrors is
	// untouched.
	DeleteAppointment(ctx context.Context, artistUID, apptID string) error
}

// PaymentService defines the interface for the deposit payment bridge.
type PaymentService interface {
	// CreateDepositIntent creates a payment intent for the booking's deposit
	// and writes the intent id/secret/status to both booking mirrors.
	CreateDepositIntent(ctx context.Context, clientUID, artistUID, bookingID string) (*models.Booking, error)
	// RecordDepositSuccess confirms a client-reported payment by re-fetching
	// the intent from the processor; the client report is never trusted
	// standalone.
	RecordDepositSuccess(ctx context.Context, clientUID, bookingID, intentID string) (*models.Booking, error)
}

// SubscriptionService defines the interface for subscription checkout and
// lifecycle reconciliation.
type SubscriptionService interface {
	CreateCheckout(ctx context.Context, uid, tier string) (*models.CheckoutSession, error)
	// ReconcileCheckout confirms a completed checkout session and stamps the
	// subscription fields on the buyer's profile.
	ReconcileCheckout(ctx context.Context, sessionID string) (*models.PublicProfile, error)
	// HandleEvent applies a processor subscription lifecycle event to the
	// matching profile, looked up by stored customer id.
	HandleEvent(ctx context.Context, event models.SubscriptionEvent) error
}

// StencilService defines the interface for AI stencil generation.
type StencilService interface {
	Generate(ctx context.Context, uid, prompt string) (*models.Stencil, error)
	ListStencils(ctx context.Context, uid string) ([]*models.Stencil, error)
}

// AftercareService defines the interface for care plan authoring and tracking.
type AftercareService interface {
	CreatePlan(ctx context.Context, artistUID string, req models.CreateAftercareRequest) (*models.AftercarePlan, error)
	GetPlan(ctx context.Context, clientUID, planID string) (*models.AftercarePlan, error)
	UpdatePlan(ctx context.Context, uid, clientUID, planID string, req models.UpdateAftercareRequest) (*models.AftercarePlan, error)
	ListForClient(ctx context.Context, clientUID string) ([]*models.AftercarePlan, error)
	ListForArtist(ctx context.Context, artistUID string) ([]*models.AftercareIndexEntry, error)
}

// FavoriteService defines the interface for a client's saved artists.
type FavoriteService interface {
	AddFavorite(ctx context.Context, clientUID, artistUID string) error
	RemoveFavorite(ctx context.Context, clientUID, artistUID string) error
	ListFavorites(ctx context.Context, clientUID string) ([]*models.Favorite, error)
}

// AdminService defines the interface for the admin surface. Every mutation
// is mirrored into the audit log.
type AdminService interface {
	ListUsers(ctx context.Context) ([]*models.PublicProfile, error)
	UpdateProfile(ctx context.Context, actorUID, uid string, req models.AdminUpdateProfileRequest) (*models.PublicProfile, error)
	// DisableUser soft-hides the profile and flags the private record; users
	// are never hard-deleted.
	DisableUser(ctx context.Context, actorUID, uid string) error
	ListLeads(ctx context.Context, artistUID string) ([]*models.Lead, error)
	ListBookings(ctx context.Context, uid, side string) ([]*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, actorUID, uid, bookingID string, status models.BookingStatus) (*models.Booking, error)
	ListAuditLogs(ctx context.Context, limit int) ([]*models.AuditLog, error)
}

// AuditService defines the interface for admin audit logging operations.
type AuditService interface {
	// Record is fire-and-forget: the audited mutation has already happened,
	// so failures are logged, never returned.
	Record(ctx context.Context, actor, action, targetType, target string, details map[string]interface{})
	ListAuditLogs(ctx context.Context, limit int) ([]*models.AuditLog, error)
}

// PaymentProvider abstracts the external payments processor. Implemented by
// the Stripe client in internal/payments; stubbed in tests.
type PaymentProvider interface {
	CreatePaymentIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*models.PaymentIntent, error)
	GetPaymentIntent(ctx context.Context, intentID string) (*models.PaymentIntent, error)
	CreateCheckoutSession(ctx context.Context, uid, priceID, successURL, cancelURL string) (*models.CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (*models.CheckoutSession, error)
}

// WebhookVerifier checks a signed processor webhook payload and extracts the
// subscription lifecycle event it carries, if any.
type WebhookVerifier interface {
	// ParseSubscriptionEvent returns nil, nil for valid payloads that carry
	// an event type this application does not track.
	ParseSubscriptionEvent(payload []byte, signature string) (*models.SubscriptionEvent, error)
}

// ImageGenerator abstracts the AI image generation API.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

// ObjectStore abstracts binary object storage for generated images.
type ObjectStore interface {
	// Save persists data under name and returns a public URL.
	Save(ctx context.Context, name string, contentType string, data []byte) (string, error)
}
