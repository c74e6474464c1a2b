package models

// UpdateProfileRequest represents the request body for editing one's profile.
// Pointers distinguish between clearing a field and not providing it.
type UpdateProfileRequest struct {
	DisplayName *string    `json:"displayName,omitempty"`
	Bio         *string    `json:"bio,omitempty"`
	PhotoURL    *string    `json:"photoURL,omitempty"`
	IsPublic    *bool      `json:"isPublic,omitempty"`
	City        *string    `json:"city,omitempty"`
	Country     *string    `json:"country,omitempty"`
	Latitude    *float64   `json:"latitude,omitempty"`
	Longitude   *float64   `json:"longitude,omitempty"`
	Styles      *StyleList `json:"styles,omitempty"` // Accepts a string or a list; normalized on decode
}

// CreateThreadRequest represents the request body for opening (or returning)
// the one-to-one thread with another user.
type CreateThreadRequest struct {
	OtherUID string `json:"otherUid" binding:"required"`
}

// SendMessageRequest represents the request body for posting a message to a
// thread. Kind defaults to text when omitted.
type SendMessageRequest struct {
	Kind      MessageKind `json:"kind,omitempty"`
	Text      string      `json:"text,omitempty"`
	ImageURL  string      `json:"imageUrl,omitempty"`
	Latitude  float64     `json:"latitude,omitempty"`
	Longitude float64     `json:"longitude,omitempty"`
}

// UpdateLeadRequest represents the request body for moving a lead through its
// status lifecycle.
type UpdateLeadRequest struct {
	Status LeadStatus `json:"status" binding:"required"`
}

// RequestBookingRequest represents the request body for a client's booking
// request to an artist. DepositAmount is in the smallest currency unit; zero
// means no deposit is owed.
type RequestBookingRequest struct {
	ArtistUID     string `json:"artistUid" binding:"required"`
	Description   string `json:"description,omitempty"`
	Placement     string `json:"placement,omitempty"`
	PreferredDate string `json:"preferredDate,omitempty"`
	DepositAmount int64  `json:"depositAmount,omitempty"`
	Currency      string `json:"currency,omitempty"`
}

// UpdateBookingRequest represents the request body for a booking status
// transition.
type UpdateBookingRequest struct {
	Status BookingStatus `json:"status" binding:"required"`
}

// CreateIntentRequest represents the request body for creating a deposit
// payment intent against a booking.
type CreateIntentRequest struct {
	BookingID string `json:"bookingId" binding:"required"`
	ArtistUID string `json:"artistUid" binding:"required"`
}

// RecordSuccessRequest represents the request body for confirming a deposit
// payment the client reports as completed. The intent is always re-verified
// with the processor before the booking is touched.
type RecordSuccessRequest struct {
	BookingID       string `json:"bookingId" binding:"required"`
	PaymentIntentID string `json:"paymentIntentId" binding:"required"`
}

// CreateCheckoutRequest represents the request body for starting a
// subscription checkout.
type CreateCheckoutRequest struct {
	Tier string `json:"tier" binding:"required"` // "PRO" or "STUDIO"
}

// GenerateStencilRequest represents the request body for AI stencil
// generation.
type GenerateStencilRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// CreateAftercareRequest represents the request body for an artist authoring
// a care plan for a client.
type CreateAftercareRequest struct {
	ClientUID string          `json:"clientUid" binding:"required"`
	Name      string          `json:"name" binding:"required"`
	Steps     []AftercareStep `json:"steps,omitempty"`
}

// UpdateAftercareRequest represents the request body for plan updates: a
// status transition, step completion toggles, or both.
type UpdateAftercareRequest struct {
	Status *AftercareStatus `json:"status,omitempty"`
	Steps  []AftercareStep  `json:"steps,omitempty"`
}

// AdminUpdateProfileRequest represents the request body for admin profile
// edits; unlike self-service edits it may also change the role.
type AdminUpdateProfileRequest struct {
	UpdateProfileRequest
	Role *Role `json:"role,omitempty"`
}
