package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"inkmatch-backend/internal/core"
	"inkmatch-backend/internal/models"
)

// ProfileHandler handles API endpoints related to user profiles.
type ProfileHandler struct {
	profileService core.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(ps core.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: ps}
}

// mapProfileErrorToStatus maps errors from core.ProfileService to HTTP status codes.
func mapProfileErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrProfileNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrProfileNotFound.Error()}
	case errors.Is(err, core.ErrInvalidRole):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: "Invalid role", Details: err.Error()}
	default:
		log.Printf("Internal Server Error: %v", err)
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	c.JSON(statusCode, errResponse)
}

// InitializeProfile handles POST /profiles/initialize. Called after
// client-side Firebase login/signup to ensure the backend records exist.
func (h *ProfileHandler) InitializeProfile(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	// The body is optional; an empty POST initializes a client profile from
	// token claims alone.
	var req InitializeProfileRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
			return
		}
	}

	displayName := c.GetString("userDisplayName")
	if displayName == "" {
		displayName = req.DisplayName
	}
	photoURL := c.GetString("userPhotoURL")
	if photoURL == "" {
		photoURL = req.PhotoURL
	}

	profile, created, err := h.profileService.InitializeProfile(
		c.Request.Context(),
		userID.(string),
		c.GetString("userEmail"),
		displayName,
		photoURL,
		models.Role(req.Role),
	)
	if err != nil {
		mapProfileErrorToStatus(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, InitializeProfileResponse{Profile: profile, Created: created})
}

// GetMyProfile handles GET /profiles/me
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID.(string))
	if err != nil {
		mapProfileErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetProfile handles GET /profiles/:uid
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	uid := c.Param("uid")
	if uid == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "User ID is required"})
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), uid)
	if err != nil {
		mapProfileErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateMyProfile handles PATCH /profiles/me
func (h *ProfileHandler) UpdateMyProfile(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), userID.(string), req)
	if err != nil {
		mapProfileErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ListArtists handles GET /artists
func (h *ProfileHandler) ListArtists(c *gin.Context) {
	artists, err := h.profileService.ListArtists(c.Request.Context())
	if err != nil {
		mapProfileErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, artists)
}
