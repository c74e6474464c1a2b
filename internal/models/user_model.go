package models

import "time"

// User is the private account record, keyed by the Firebase Auth UID. It is
// never exposed through public discovery endpoints.
type User struct {
	ID          string    `json:"id" firestore:"-"` // Firebase Auth UID, will be the document ID
	Email       string    `json:"email" firestore:"email"`
	DisplayName string    `json:"displayName,omitempty" firestore:"displayName,omitempty"`
	PhotoURL    string    `json:"photoURL,omitempty" firestore:"photoURL,omitempty"`
	Phone       string    `json:"phone,omitempty" firestore:"phone,omitempty"`
	Disabled    bool      `json:"disabled,omitempty" firestore:"disabled,omitempty"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt   time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}
