package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Role identifies what side of the marketplace a user is on.
type Role string

const (
	RoleArtist Role = "artist"
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleArtist || r == RoleClient || r == RoleAdmin
}

// StyleList is a list of tattoo style names. Historic profile records stored
// the field as either a single string or a list, so it unmarshals from both
// and always normalizes to a list. The union never propagates past decoding.
type StyleList []string

// UnmarshalJSON accepts either a JSON string or a JSON array of strings.
func (s *StyleList) UnmarshalJSON(data []byte) error {
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*s = many
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		if one == "" {
			*s = nil
		} else {
			*s = []string{one}
		}
		return nil
	}
	return fmt.Errorf("styles must be a string or a list of strings")
}

// PublicProfile is the discoverable identity record for a user, distinct from
// the private account data in the users collection. Profiles are never hard
// deleted; they are hidden by clearing IsPublic.
type PublicProfile struct {
	UID         string  `json:"uid" firestore:"-"` // Firebase Auth UID, the document ID
	Role        Role    `json:"role" firestore:"role"`
	DisplayName string  `json:"displayName" firestore:"displayName"`
	Bio         string  `json:"bio,omitempty" firestore:"bio,omitempty"`
	PhotoURL    string  `json:"photoURL,omitempty" firestore:"photoURL,omitempty"`
	IsPublic    bool    `json:"isPublic" firestore:"isPublic"`
	City        string  `json:"city,omitempty" firestore:"city,omitempty"`
	Country     string  `json:"country,omitempty" firestore:"country,omitempty"`
	Latitude    float64 `json:"latitude,omitempty" firestore:"latitude,omitempty"`
	Longitude   float64 `json:"longitude,omitempty" firestore:"longitude,omitempty"`
	// Lat/Lng duplicate Latitude/Longitude under the legacy field names that
	// older clients still read. Both pairs are kept in sync on every write.
	Lat    float64   `json:"lat,omitempty" firestore:"lat,omitempty"`
	Lng    float64   `json:"lng,omitempty" firestore:"lng,omitempty"`
	Styles StyleList `json:"styles,omitempty" firestore:"styles,omitempty"`

	SubscriptionTier     string `json:"subscriptionTier,omitempty" firestore:"subscriptionTier,omitempty"` // e.g. "FREE", "PRO", "STUDIO"
	SubscriptionStatus   string `json:"subscriptionStatus,omitempty" firestore:"subscriptionStatus,omitempty"`
	StripeCustomerID     string `json:"stripeCustomerId,omitempty" firestore:"stripeCustomerId,omitempty"`
	StripeSubscriptionID string `json:"stripeSubscriptionId,omitempty" firestore:"stripeSubscriptionId,omitempty"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}
