package db

import (
	"context"
	"time"

	"inkmatch-backend/internal/models"
)

// ProfileRepository defines the interface for public profile storage.
type ProfileRepository interface {
	Get(ctx context.Context, uid string) (*models.PublicProfile, error)
	// Set writes the full profile document, creating it if absent.
	Set(ctx context.Context, profile *models.PublicProfile) error
	// ListPublicArtists returns all artist profiles with isPublic set.
	ListPublicArtists(ctx context.Context) ([]*models.PublicProfile, error)
	ListAll(ctx context.Context) ([]*models.PublicProfile, error)
	// FindByStripeCustomerID scans profiles for a matching stored customer id.
	// This is a full-collection query, not an indexed point lookup; acceptable
	// at current volumes.
	FindByStripeCustomerID(ctx context.Context, customerID string) (*models.PublicProfile, error)
}

// UserRepository defines the interface for private account records.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
}

// ThreadRepository defines the interface for canonical thread records and the
// per-user userThreads inbox index. Writes that touch both are applied in a
// single batch so readers never observe a partial subset.
type ThreadRepository interface {
	Get(ctx context.Context, threadID string) (*models.Thread, error)
	// Create writes the canonical thread and one index entry per member
	// atomically.
	Create(ctx context.Context, thread *models.Thread) error
	// HasIndexEntry reports whether uid's inbox already references threadID.
	HasIndexEntry(ctx context.Context, uid, threadID string) (bool, error)
	ListIndex(ctx context.Context, uid string) ([]*models.ThreadIndexEntry, error)
	// TouchIndexes updates every listed member's index entry (preview +
	// updatedAt) in one batch.
	TouchIndexes(ctx context.Context, memberUIDs []string, threadID, preview string) error
	// RestoreIndexEntry re-adds one user's inbox entry for an existing
	// thread without touching the canonical record.
	RestoreIndexEntry(ctx context.Context, uid string, thread *models.Thread) error
	// RemoveIndexEntry deletes the thread from one user's inbox only; the
	// canonical thread and the other member's entry are untouched.
	RemoveIndexEntry(ctx context.Context, uid, threadID string) error
}

// MessageRepository defines the interface for a thread's append-only message
// log and its snapshot subscription.
type MessageRepository interface {
	// Append writes a new message with a server-assigned timestamp and
	// returns its id.
	Append(ctx context.Context, threadID string, msg *models.Message) (string, error)
	// List returns the complete message sequence ordered ascending by
	// createdAt.
	List(ctx context.Context, threadID string) ([]*models.Message, error)
	// Subscribe invokes onChange with the complete ordered message list on
	// every change until the returned stop function is called or ctx ends.
	Subscribe(ctx context.Context, threadID string, onChange func([]*models.Message)) (stop func(), err error)
}

// LeadRepository defines the interface for the artist lead inbox.
type LeadRepository interface {
	// CreateWithThreadLink writes the lead and back-links thread.leadId in
	// one batch, so a lead never exists without its thread reference.
	CreateWithThreadLink(ctx context.Context, lead *models.Lead) error
	Get(ctx context.Context, artistUID, leadID string) (*models.Lead, error)
	ListByArtist(ctx context.Context, artistUID string) ([]*models.Lead, error)
	UpdateStatus(ctx context.Context, artistUID, leadID string, status models.LeadStatus) error
}

// BookingRepository defines the interface for the mirrored booking records.
type BookingRepository interface {
	// Put writes identical copies to the artist-keyed and client-keyed
	// mirrors in one batch.
	Put(ctx context.Context, booking *models.Booking) error
	GetByClient(ctx context.Context, clientUID, bookingID string) (*models.Booking, error)
	GetByArtist(ctx context.Context, artistUID, bookingID string) (*models.Booking, error)
	ListByClient(ctx context.Context, clientUID string) ([]*models.Booking, error)
	ListByArtist(ctx context.Context, artistUID string) ([]*models.Booking, error)
}

// AftercareRepository defines the interface for care plans and their
// artist-side index mirror.
type AftercareRepository interface {
	// Put writes the full plan under the client and the index entry under
	// the artist in one batch.
	Put(ctx context.Context, plan *models.AftercarePlan) error
	GetByClient(ctx context.Context, clientUID, planID string) (*models.AftercarePlan, error)
	ListByClient(ctx context.Context, clientUID string) ([]*models.AftercarePlan, error)
	ListByArtist(ctx context.Context, artistUID string) ([]*models.AftercareIndexEntry, error)
}

// FavoriteRepository defines the interface for a client's saved artists.
type FavoriteRepository interface {
	Add(ctx context.Context, clientUID, artistUID string) error
	Remove(ctx context.Context, clientUID, artistUID string) error
	List(ctx context.Context, clientUID string) ([]*models.Favorite, error)
}

// AppointmentRepository defines the interface for an artist's calendar.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *models.Appointment) (string, error)
	ListByArtist(ctx context.Context, artistUID string) ([]*models.Appointment, error)
	Delete(ctx context.Context, artistUID, apptID string) error
}

// StencilRepository defines the interface for generated stencil records.
type StencilRepository interface {
	Create(ctx context.Context, stencil *models.Stencil) (string, error)
	ListByUser(ctx context.Context, uid string) ([]*models.Stencil, error)
}

// AuditRepository defines the interface for the append-only admin audit log.
type AuditRepository interface {
	Create(ctx context.Context, logEntry models.AuditLog) error
	List(ctx context.Context, limit int, since time.Time) ([]*models.AuditLog, error)
}
