package models

import "time"

// Appointment is a confirmed session on an artist's calendar, created when a
// booking is accepted. Stored at appointmentsByArtist/{artistUid}/appointments/{id}.
type Appointment struct {
	ID        string    `json:"id" firestore:"-"` // Document ID
	ArtistUID string    `json:"artistUid" firestore:"artistUid"`
	ClientUID string    `json:"clientUid" firestore:"clientUid"`
	BookingID string    `json:"bookingId,omitempty" firestore:"bookingId,omitempty"`
	StartAt   time.Time `json:"startAt" firestore:"startAt"`
	EndAt     time.Time `json:"endAt,omitempty" firestore:"endAt,omitempty"`
	Notes     string    `json:"notes,omitempty" firestore:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}

// Favorite marks an artist saved by a client, keyed by the artist's UID at
// favoritesByClient/{clientUid}/favorites/{artistUid}.
type Favorite struct {
	ArtistUID string    `json:"artistUid" firestore:"-"` // Document ID
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}

// Stencil records one AI-generated stencil image for a user, stored at
// stencilsByUser/{uid}/stencils/{id} with the rendered image in object storage.
type Stencil struct {
	ID        string    `json:"id" firestore:"-"` // Document ID
	OwnerUID  string    `json:"ownerUid" firestore:"ownerUid"`
	Prompt    string    `json:"prompt" firestore:"prompt"`
	ImageURL  string    `json:"imageUrl" firestore:"imageUrl"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}
