package api

// ErrorResponse is a generic structure for returning errors via API.
type ErrorResponse struct {
	Error   string `json:"error"`             // A high-level error message or code
	Details string `json:"details,omitempty"` // More specific details about the error, if available
}

// SuccessResponse is a generic structure for simple success messages.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// InitializeProfileRequest represents the request body for POST
// /profiles/initialize. All fields are optional; identity claims from the
// verified token take precedence over anything sent here.
type InitializeProfileRequest struct {
	Role        string `json:"role,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty"`
}

// InitializeProfileResponse wraps the profile with whether this call created it.
type InitializeProfileResponse struct {
	Profile interface{} `json:"profile"`
	Created bool        `json:"created"`
}
