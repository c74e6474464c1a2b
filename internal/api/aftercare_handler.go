package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"inkmatch-backend/internal/core"
	"inkmatch-backend/internal/models"
)

// AftercareHandler handles API endpoints for post-tattoo care plans.
type AftercareHandler struct {
	aftercareService core.AftercareService
}

// NewAftercareHandler creates a new AftercareHandler.
func NewAftercareHandler(as core.AftercareService) *AftercareHandler {
	return &AftercareHandler{aftercareService: as}
}

// mapAftercareErrorToStatus maps errors from core.AftercareService to HTTP status codes.
func mapAftercareErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrAftercareNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrAftercareNotFound.Error()}
	case errors.Is(err, core.ErrProfileNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrProfileNotFound.Error()}
	case errors.Is(err, core.ErrNotAnArtist):
		statusCode = http.StatusForbidden
		errResponse = ErrorResponse{Error: core.ErrNotAnArtist.Error()}
	case errors.Is(err, core.ErrNotAftercareArtist), errors.Is(err, core.ErrNotAftercareParty):
		statusCode = http.StatusForbidden
		errResponse = ErrorResponse{Error: err.Error()}
	case errors.Is(err, core.ErrInvalidAftercareStatus):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: "Invalid aftercare status", Details: err.Error()}
	case errors.Is(err, core.ErrStepCountMismatch):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: core.ErrStepCountMismatch.Error()}
	default:
		log.Printf("Internal Server Error: %v", err)
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	c.JSON(statusCode, errResponse)
}

// CreatePlan handles POST /aftercare
func (h *AftercareHandler) CreatePlan(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	var req models.CreateAftercareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	plan, err := h.aftercareService.CreatePlan(c.Request.Context(), userID.(string), req)
	if err != nil {
		mapAftercareErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// GetPlan handles GET /aftercare/:planId. Plans live under the client's
// namespace, so an artist fetching one passes ?clientUid=.
func (h *AftercareHandler) GetPlan(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	planID := c.Param("planId")
	if planID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Plan ID is required"})
		return
	}
	clientUID := c.DefaultQuery("clientUid", userID.(string))

	plan, err := h.aftercareService.GetPlan(c.Request.Context(), clientUID, planID)
	if err != nil {
		mapAftercareErrorToStatus(c, err)
		return
	}
	if userID.(string) != plan.ArtistUID && userID.(string) != plan.ClientUID {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: core.ErrNotAftercareParty.Error()})
		return
	}
	c.JSON(http.StatusOK, plan)
}

// UpdatePlan handles PATCH /aftercare/:planId
func (h *AftercareHandler) UpdatePlan(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	planID := c.Param("planId")
	if planID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Plan ID is required"})
		return
	}
	clientUID := c.DefaultQuery("clientUid", userID.(string))

	var req models.UpdateAftercareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	plan, err := h.aftercareService.UpdatePlan(c.Request.Context(), userID.(string), clientUID, planID, req)
	if err != nil {
		mapAftercareErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// ListPlans handles GET /aftercare?side=artist|client. Clients see their full
// plans; artists see the lightweight index entries of plans they authored.
func (h *AftercareHandler) ListPlans(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	switch c.DefaultQuery("side", "client") {
	case "artist":
		entries, err := h.aftercareService.ListForArtist(c.Request.Context(), userID.(string))
		if err != nil {
			mapAftercareErrorToStatus(c, err)
			return
		}
		c.JSON(http.StatusOK, entries)
	case "client":
		plans, err := h.aftercareService.ListForClient(c.Request.Context(), userID.(string))
		if err != nil {
			mapAftercareErrorToStatus(c, err)
			return
		}
		c.JSON(http.StatusOK, plans)
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "side must be 'artist' or 'client'"})
	}
}
