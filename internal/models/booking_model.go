package models

import "time"

// BookingStatus is the scheduling state of a booking request.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusAccepted  BookingStatus = "accepted"
	BookingStatusDeclined  BookingStatus = "declined"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// Valid reports whether the status is one of the known values.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusAccepted, BookingStatusDeclined,
		BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// PaymentStatus tracks the deposit payment-intent lifecycle independently of
// the booking status. The payment processor is the source of truth for
// transitions triggered by its webhooks and intent lookups.
type PaymentStatus string

const (
	PaymentStatusNotRequired    PaymentStatus = "not_required"
	PaymentStatusPending        PaymentStatus = "pending"
	PaymentStatusRequiresAction PaymentStatus = "requires_action"
	PaymentStatusSucceeded      PaymentStatus = "succeeded"
	PaymentStatusCancelled      PaymentStatus = "cancelled"
)

// Booking is a scheduling request from a client to an artist. The record is
// duplicated verbatim under bookingsByArtist/{artistUid}/bookings/{id} and
// bookingsByClient/{clientUid}/bookings/{id}; every write rewrites both
// mirrors in one batch so they never diverge after a successful call.
type Booking struct {
	ID        string `json:"id" firestore:"id"` // Kept in the document body so both mirrors stay byte-identical
	ArtistUID string `json:"artistUid" firestore:"artistUid"`
	ClientUID string `json:"clientUid" firestore:"clientUid"`

	Status        BookingStatus `json:"status" firestore:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus" firestore:"paymentStatus"`

	Description   string `json:"description,omitempty" firestore:"description,omitempty"`
	Placement     string `json:"placement,omitempty" firestore:"placement,omitempty"`
	PreferredDate string `json:"preferredDate,omitempty" firestore:"preferredDate,omitempty"`

	DepositAmount int64  `json:"depositAmount,omitempty" firestore:"depositAmount,omitempty"` // Smallest currency unit
	Currency      string `json:"currency,omitempty" firestore:"currency,omitempty"`

	PaymentIntentID     string `json:"paymentIntentId,omitempty" firestore:"paymentIntentId,omitempty"`
	PaymentClientSecret string `json:"paymentClientSecret,omitempty" firestore:"paymentClientSecret,omitempty"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}
