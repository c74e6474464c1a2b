package models

import "time"

// LeadStatus tracks an artist's handling of an inbound inquiry.
type LeadStatus string

const (
	LeadStatusNew      LeadStatus = "new"
	LeadStatusAccepted LeadStatus = "accepted"
	LeadStatusDeclined LeadStatus = "declined"
	LeadStatusArchived LeadStatus = "archived"
)

// Valid reports whether the status is one of the known values.
func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusAccepted, LeadStatusDeclined, LeadStatusArchived:
		return true
	}
	return false
}

// Lead is derived from a client's first inbound message to an artist: at most
// one per thread, guarded by the thread's LeadID back-reference. It lives in
// the artist's inbox at leadsByArtist/{artistUid}/leads/{leadId}.
type Lead struct {
	ID         string     `json:"id" firestore:"-"` // Document ID
	ArtistUID  string     `json:"artistUid" firestore:"artistUid"`
	ClientUID  string     `json:"clientUid" firestore:"clientUid"`
	ClientName string     `json:"clientName,omitempty" firestore:"clientName,omitempty"`
	ThreadID   string     `json:"threadId" firestore:"threadId"`
	Message    string     `json:"message" firestore:"message"`
	Status     LeadStatus `json:"status" firestore:"status"`
	CreatedAt  time.Time  `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt  time.Time  `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}
