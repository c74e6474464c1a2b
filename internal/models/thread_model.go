package models

import "time"

// ThreadType distinguishes a direct conversation from a group one. Only dm
// threads are created today; the field exists so group support stays additive.
type ThreadType string

const (
	ThreadTypeDM    ThreadType = "dm"
	ThreadTypeGroup ThreadType = "group"
)

// Thread is the canonical conversation record. Membership is stored as a map
// of UID to true so Firestore queries and security-style checks stay cheap.
// The canonical record and every member's index entry must agree on
// membership; both are written in a single batch.
type Thread struct {
	ID        string          `json:"id" firestore:"-"` // Document ID, derived from the member pair for dm threads
	Type      ThreadType      `json:"type" firestore:"type"`
	Members   map[string]bool `json:"members" firestore:"members"`
	LeadID    string          `json:"leadId,omitempty" firestore:"leadId,omitempty"` // Back-reference set once a lead is derived
	CreatedAt time.Time       `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}

// MemberUIDs returns the thread's member ids in no particular order.
func (t *Thread) MemberUIDs() []string {
	uids := make([]string, 0, len(t.Members))
	for uid, ok := range t.Members {
		if ok {
			uids = append(uids, uid)
		}
	}
	return uids
}

// IsMember reports whether uid is a current member of the thread.
func (t *Thread) IsMember(uid string) bool {
	return t.Members[uid]
}

// ThreadIndexEntry is the per-user denormalized inbox entry mirroring a
// thread's membership plus a short preview of the latest message. It lives
// under userThreads/{uid}/threads/{threadId} and is updated on every send.
type ThreadIndexEntry struct {
	ThreadID    string          `json:"threadId" firestore:"-"` // Document ID
	Members     map[string]bool `json:"members" firestore:"members"`
	LastMessage string          `json:"lastMessage" firestore:"lastMessage"`
	UpdatedAt   time.Time       `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}
