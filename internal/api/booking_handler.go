package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"inkmatch-backend/internal/core"
	"inkmatch-backend/internal/models"
)

// BookingHandler handles API endpoints for booking requests and the artist's
// appointment calendar.
type BookingHandler struct {
	bookingService core.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bs core.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bs}
}

// mapBookingErrorToStatus maps errors from core.BookingService to HTTP status codes.
func mapBookingErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrBookingNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrBookingNotFound.Error()}
	case errors.Is(err, core.ErrProfileNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrProfileNotFound.Error()}
	case errors.Is(err, core.ErrNotAnArtist):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: core.ErrNotAnArtist.Error()}
	case errors.Is(err, core.ErrInvalidBookingStatus):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: "Invalid booking status", Details: err.Error()}
	case errors.Is(err, core.ErrBookingTransitionDenied):
		statusCode = http.StatusForbidden
		errResponse = ErrorResponse{Error: core.ErrBookingTransitionDenied.Error()}
	default:
		log.Printf("Internal Server Error: %v", err)
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	c.JSON(statusCode, errResponse)
}

// RequestBooking handles POST /bookings
func (h *BookingHandler) RequestBooking(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	var req models.RequestBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	if req.DepositAmount < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Deposit amount cannot be negative"})
		return
	}

	booking, err := h.bookingService.RequestBooking(c.Request.Context(), userID.(string), req)
	if err != nil {
		mapBookingErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// UpdateBooking handles PATCH /bookings/:bookingId
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	bookingID := c.Param("bookingId")
	if bookingID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Booking ID is required"})
		return
	}

	var req models.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	booking, err := h.bookingService.UpdateStatus(c.Request.Context(), userID.(string), bookingID, req.Status)
	if err != nil {
		mapBookingErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// ListBookings handles GET /bookings?side=artist|client. The side defaults to
// client; artists pass side=artist for their inbound requests.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	var (
		bookings []*models.Booking
		err      error
	)
	switch c.DefaultQuery("side", "client") {
	case "artist":
		bookings, err = h.bookingService.ListForArtist(c.Request.Context(), userID.(string))
	case "client":
		bookings, err = h.bookingService.ListForClient(c.Request.Context(), userID.(string))
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "side must be 'artist' or 'client'"})
		return
	}
	if err != nil {
		mapBookingErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// ListAppointments handles GET /appointments
func (h *BookingHandler) ListAppointments(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	appointments, err := h.bookingService.ListAppointments(c.Request.Context(), userID.(string))
	if err != nil {
		mapBookingErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, appointments)
}

// DeleteAppointment handles DELETE /appointments/:apptId
func (h *BookingHandler) DeleteAppointment(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	apptID := c.Param("apptId")
	if apptID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Appointment ID is required"})
		return
	}

	if err := h.bookingService.DeleteAppointment(c.Request.Context(), userID.(string), apptID); err != nil {
		mapBookingErrorToStatus(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
