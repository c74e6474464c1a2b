package models

import "time"

// AftercareStatus is the lifecycle state of a care plan.
type AftercareStatus string

const (
	AftercareStatusActive    AftercareStatus = "active"
	AftercareStatusCompleted AftercareStatus = "completed"
	AftercareStatusArchived  AftercareStatus = "archived"
)

// Valid reports whether the status is one of the known values.
func (s AftercareStatus) Valid() bool {
	switch s {
	case AftercareStatusActive, AftercareStatusCompleted, AftercareStatusArchived:
		return true
	}
	return false
}

// AftercareStep is one instruction in a care plan.
type AftercareStep struct {
	Day    int    `json:"day" firestore:"day"` // Days after the session this step applies from
	Title  string `json:"title" firestore:"title"`
	Detail string `json:"detail,omitempty" firestore:"detail,omitempty"`
	Done   bool   `json:"done" firestore:"done"`
}

// AftercarePlan is an artist-authored set of post-tattoo care instructions
// for a specific client. The full record lives under the client's namespace
// at aftercareByClient/{clientUid}/plans/{id}; the artist's namespace only
// carries the lightweight AftercareIndexEntry mirror.
type AftercarePlan struct {
	ID        string          `json:"id" firestore:"-"` // Document ID
	ArtistUID string          `json:"artistUid" firestore:"artistUid"`
	ClientUID string          `json:"clientUid" firestore:"clientUid"`
	Name      string          `json:"name" firestore:"name"`
	Status    AftercareStatus `json:"status" firestore:"status"`
	Steps     []AftercareStep `json:"steps" firestore:"steps"`
	CreatedAt time.Time       `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt" firestore:"updatedAt"`
}

// IndexEntry builds the artist-side mirror for the plan. It intentionally
// omits the instruction set.
func (p *AftercarePlan) IndexEntry() *AftercareIndexEntry {
	return &AftercareIndexEntry{
		ID:        p.ID,
		ClientUID: p.ClientUID,
		Name:      p.Name,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
	}
}

// AftercareIndexEntry is the artist-side mirror of a plan, stored at
// aftercareByArtist/{artistUid}/plans/{id}.
type AftercareIndexEntry struct {
	ID        string          `json:"id" firestore:"-"` // Document ID, same as the plan's
	ClientUID string          `json:"clientUid" firestore:"clientUid"`
	Name      string          `json:"name" firestore:"name"`
	Status    AftercareStatus `json:"status" firestore:"status"`
	CreatedAt time.Time       `json:"createdAt" firestore:"createdAt"`
}
