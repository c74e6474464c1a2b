package models

import "time"

// AuditLog represents one append-only admin audit trail entry, stored under
// adminLogs/{id}. Every admin mutation is mirrored into one of these;
// writing it is best-effort and never blocks the mutation itself.
type AuditLog struct {
	ID         string                 `json:"id" firestore:"-"`
	Timestamp  time.Time              `json:"ts" firestore:"ts,serverTimestamp"`
	Actor      string                 `json:"actor" firestore:"actor"`   // UID of the admin who performed the action
	Action     string                 `json:"action" firestore:"action"` // e.g. "PROFILE_UPDATE", "USER_DISABLE", "BOOKING_STATUS"
	TargetType string                 `json:"targetType,omitempty" firestore:"targetType,omitempty"`
	Target     string                 `json:"target,omitempty" firestore:"target,omitempty"` // ID of the affected entity
	Details    map[string]interface{} `json:"details,omitempty" firestore:"details,omitempty"`
}
