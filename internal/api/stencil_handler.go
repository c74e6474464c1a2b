package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"inkmatch-backend/internal/core"
	"inkmatch-backend/internal/models"
)

// StencilHandler handles API endpoints for AI stencil generation.
type StencilHandler struct {
	stencilService core.StencilService
}

// NewStencilHandler creates a new StencilHandler.
func NewStencilHandler(ss core.StencilService) *StencilHandler {
	return &StencilHandler{stencilService: ss}
}

// mapStencilErrorToStatus maps errors from core.StencilService to HTTP status codes.
func mapStencilErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrEmptyPrompt):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: core.ErrEmptyPrompt.Error()}
	case errors.Is(err, core.ErrPromptTooLong):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: core.ErrPromptTooLong.Error()}
	default:
		log.Printf("Internal Server Error: %v", err)
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	c.JSON(statusCode, errResponse)
}

// GenerateStencil handles POST /stencils/generate
func (h *StencilHandler) GenerateStencil(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	var req models.GenerateStencilRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	stencil, err := h.stencilService.Generate(c.Request.Context(), userID.(string), req.Prompt)
	if err != nil {
		mapStencilErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, stencil)
}

// ListStencils handles GET /stencils
func (h *StencilHandler) ListStencils(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	stencils, err := h.stencilService.ListStencils(c.Request.Context(), userID.(string))
	if err != nil {
		mapStencilErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, stencils)
}
