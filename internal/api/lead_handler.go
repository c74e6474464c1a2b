package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"inkmatch-backend/internal/core"
	"inkmatch-backend/internal/models"
)

// LeadHandler handles API endpoints for the artist lead inbox. Leads are
// derived from first messages, never created through the API.
type LeadHandler struct {
	leadService core.LeadService
}

// NewLeadHandler creates a new LeadHandler.
func NewLeadHandler(ls core.LeadService) *LeadHandler {
	return &LeadHandler{leadService: ls}
}

// mapLeadErrorToStatus maps errors from core.LeadService to HTTP status codes.
func mapLeadErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrLeadNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrLeadNotFound.Error()}
	case errors.Is(err, core.ErrInvalidLeadStatus):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: "Invalid lead status", Details: err.Error()}
	default:
		log.Printf("Internal Server Error: %v", err)
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	c.JSON(statusCode, errResponse)
}

// ListLeads handles GET /leads
func (h *LeadHandler) ListLeads(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	leads, err := h.leadService.ListLeads(c.Request.Context(), userID.(string))
	if err != nil {
		mapLeadErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, leads)
}

// UpdateLead handles PATCH /leads/:leadId
func (h *LeadHandler) UpdateLead(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	leadID := c.Param("leadId")
	if leadID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Lead ID is required"})
		return
	}

	var req models.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	lead, err := h.leadService.UpdateLeadStatus(c.Request.Context(), userID.(string), leadID, req.Status)
	if err != nil {
		mapLeadErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}
