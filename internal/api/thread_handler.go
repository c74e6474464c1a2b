package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"inkmatch-backend/internal/core"
	"inkmatch-backend/internal/models"
)

// ThreadHandler handles API endpoints related to conversation threads.
type ThreadHandler struct {
	threadService core.ThreadService
}

// NewThreadHandler creates a new ThreadHandler.
func NewThreadHandler(ts core.ThreadService) *ThreadHandler {
	return &ThreadHandler{threadService: ts}
}

// mapThreadErrorToStatus maps errors from core.ThreadService to HTTP status codes.
func mapThreadErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrThreadNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrThreadNotFound.Error()}
	case errors.Is(err, core.ErrProfileNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrProfileNotFound.Error()}
	case errors.Is(err, core.ErrNotThreadMember):
		statusCode = http.StatusForbidden
		errResponse = ErrorResponse{Error: core.ErrNotThreadMember.Error()}
	case errors.Is(err, core.ErrMessagingNotAllowed):
		statusCode = http.StatusForbidden
		errResponse = ErrorResponse{Error: core.ErrMessagingNotAllowed.Error()}
	default:
		log.Printf("Internal Server Error: %v", err)
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	c.JSON(statusCode, errResponse)
}

// CreateThread handles POST /threads. Opening the same pair twice returns the
// same thread.
func (h *ThreadHandler) CreateThread(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	var req models.CreateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	if req.OtherUID == userID.(string) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Cannot open a thread with yourself"})
		return
	}

	thread, err := h.threadService.EnsureOneToOneThread(c.Request.Context(), userID.(string), req.OtherUID)
	if err != nil {
		mapThreadErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, thread)
}

// ListInbox handles GET /threads
func (h *ThreadHandler) ListInbox(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	entries, err := h.threadService.ListInbox(c.Request.Context(), userID.(string))
	if err != nil {
		mapThreadErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// RemoveFromInbox handles DELETE /threads/:threadId. Only the caller's index
// entry is removed; the conversation itself survives.
func (h *ThreadHandler) RemoveFromInbox(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	threadID := c.Param("threadId")
	if threadID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Thread ID is required"})
		return
	}

	if err := h.threadService.RemoveFromInbox(c.Request.Context(), userID.(string), threadID); err != nil {
		mapThreadErrorToStatus(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
