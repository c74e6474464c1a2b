package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"inkmatch-backend/internal/core"
	"inkmatch-backend/internal/models"
)

// defaultAuditLogLimit bounds GET /admin/audit-logs when no limit is given.
const defaultAuditLogLimit = 100

// AdminHandler handles the admin API surface. Routes using it must sit
// behind the RequireAdmin middleware.
type AdminHandler struct {
	adminService core.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(as core.AdminService) *AdminHandler {
	return &AdminHandler{adminService: as}
}

// mapAdminErrorToStatus maps errors from core.AdminService to HTTP status codes.
func mapAdminErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrProfileNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrProfileNotFound.Error()}
	case errors.Is(err, core.ErrBookingNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrBookingNotFound.Error()}
	case errors.Is(err, core.ErrInvalidRole):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: "Invalid role", Details: err.Error()}
	case errors.Is(err, core.ErrInvalidBookingStatus):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: "Invalid booking status", Details: err.Error()}
	case errors.Is(err, core.ErrInvalidBookingSide):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: core.ErrInvalidBookingSide.Error()}
	default:
		log.Printf("Internal Server Error: %v", err)
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	c.JSON(statusCode, errResponse)
}

// ListUsers handles GET /admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.adminService.ListUsers(c.Request.Context())
	if err != nil {
		mapAdminErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// UpdateProfile handles PATCH /admin/users/:uid
func (h *AdminHandler) UpdateProfile(c *gin.Context) {
	actorUID := c.GetString("userID")
	uid := c.Param("uid")
	if uid == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "User ID is required"})
		return
	}

	var req models.AdminUpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	profile, err := h.adminService.UpdateProfile(c.Request.Context(), actorUID, uid, req)
	if err != nil {
		mapAdminErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// DisableUser handles POST /admin/users/:uid/disable
func (h *AdminHandler) DisableUser(c *gin.Context) {
	actorUID := c.GetString("userID")
	uid := c.Param("uid")
	if uid == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "User ID is required"})
		return
	}

	if err := h.adminService.DisableUser(c.Request.Context(), actorUID, uid); err != nil {
		mapAdminErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "User disabled"})
}

// ListLeads handles GET /admin/users/:uid/leads
func (h *AdminHandler) ListLeads(c *gin.Context) {
	uid := c.Param("uid")
	if uid == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "User ID is required"})
		return
	}

	leads, err := h.adminService.ListLeads(c.Request.Context(), uid)
	if err != nil {
		mapAdminErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, leads)
}

// ListBookings handles GET /admin/users/:uid/bookings?side=artist|client
func (h *AdminHandler) ListBookings(c *gin.Context) {
	uid := c.Param("uid")
	if uid == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "User ID is required"})
		return
	}

	bookings, err := h.adminService.ListBookings(c.Request.Context(), uid, c.DefaultQuery("side", "client"))
	if err != nil {
		mapAdminErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// UpdateBookingStatus handles PATCH /admin/users/:uid/bookings/:bookingId
func (h *AdminHandler) UpdateBookingStatus(c *gin.Context) {
	actorUID := c.GetString("userID")
	uid := c.Param("uid")
	bookingID := c.Param("bookingId")
	if uid == "" || bookingID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "User ID and Booking ID are required"})
		return
	}

	var req models.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	booking, err := h.adminService.UpdateBookingStatus(c.Request.Context(), actorUID, uid, bookingID, req.Status)
	if err != nil {
		mapAdminErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// ListAuditLogs handles GET /admin/audit-logs?limit=
func (h *AdminHandler) ListAuditLogs(c *gin.Context) {
	limit := defaultAuditLogLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	logs, err := h.adminService.ListAuditLogs(c.Request.Context(), limit)
	if err != nil {
		mapAdminErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
