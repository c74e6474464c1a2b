package api

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"inkmatch-backend/internal/core"
	"inkmatch-backend/internal/models"
)

// PaymentHandler handles API endpoints for booking deposits and subscription
// billing, including the processor webhook.
type PaymentHandler struct {
	paymentService      core.PaymentService
	subscriptionService core.SubscriptionService
	webhookVerifier     core.WebhookVerifier
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(ps core.PaymentService, ss core.SubscriptionService, wv core.WebhookVerifier) *PaymentHandler {
	return &PaymentHandler{
		paymentService:      ps,
		subscriptionService: ss,
		webhookVerifier:     wv,
	}
}

// mapPaymentErrorToStatus maps errors from the payment and subscription
// services to HTTP status codes.
func mapPaymentErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrBookingNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrBookingNotFound.Error()}
	case errors.Is(err, core.ErrProfileNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrProfileNotFound.Error()}
	case errors.Is(err, core.ErrNoDepositRequired):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: core.ErrNoDepositRequired.Error()}
	case errors.Is(err, core.ErrDepositAlreadyPaid):
		statusCode = http.StatusConflict
		errResponse = ErrorResponse{Error: core.ErrDepositAlreadyPaid.Error()}
	case errors.Is(err, core.ErrBookingArtistMismatch):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: core.ErrBookingArtistMismatch.Error()}
	case errors.Is(err, core.ErrPaymentIntentMismatch):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: core.ErrPaymentIntentMismatch.Error()}
	case errors.Is(err, core.ErrPaymentNotSucceeded):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: core.ErrPaymentNotSucceeded.Error()}
	case errors.Is(err, core.ErrUnknownTier):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: "Unknown subscription tier", Details: err.Error()}
	case errors.Is(err, core.ErrCheckoutIncomplete):
		statusCode = http.StatusConflict
		errResponse = ErrorResponse{Error: core.ErrCheckoutIncomplete.Error()}
	default:
		log.Printf("Internal Server Error: %v", err)
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	c.JSON(statusCode, errResponse)
}

// CreateIntent handles POST /payments/create-intent
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	var req models.CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	booking, err := h.paymentService.CreateDepositIntent(c.Request.Context(), userID.(string), req.ArtistUID, req.BookingID)
	if err != nil {
		mapPaymentErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// RecordSuccess handles POST /payments/record-success. The reported intent is
// re-verified with the processor before anything is written.
func (h *PaymentHandler) RecordSuccess(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	var req models.RecordSuccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	booking, err := h.paymentService.RecordDepositSuccess(c.Request.Context(), userID.(string), req.BookingID, req.PaymentIntentID)
	if err != nil {
		mapPaymentErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// CreateCheckout handles POST /subscriptions/create-checkout
func (h *PaymentHandler) CreateCheckout(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	var req models.CreateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	session, err := h.subscriptionService.CreateCheckout(c.Request.Context(), userID.(string), req.Tier)
	if err != nil {
		mapPaymentErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// CheckoutSuccess handles GET /subscriptions/checkout-success?session_id=...
// Stripe redirects the buyer's browser here after a hosted checkout, so the
// request carries no bearer token or body; the buyer is identified by the
// session's client reference id, and the session itself is fetched from the
// processor before the profile is touched.
func (h *PaymentHandler) CheckoutSuccess(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "session_id query parameter is required"})
		return
	}

	profile, err := h.subscriptionService.ReconcileCheckout(c.Request.Context(), sessionID)
	if err != nil {
		mapPaymentErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// HandleWebhook handles POST /subscriptions/webhook. Authentication is the
// processor's payload signature, not a bearer token.
func (h *PaymentHandler) HandleWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<16))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Failed to read webhook payload"})
		return
	}

	event, err := h.webhookVerifier.ParseSubscriptionEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		log.Printf("Webhook rejected: %v", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid webhook payload or signature"})
		return
	}
	if event == nil {
		// Valid signature, untracked event type.
		c.JSON(http.StatusOK, SuccessResponse{Message: "Event ignored"})
		return
	}

	if err := h.subscriptionService.HandleEvent(c.Request.Context(), *event); err != nil {
		// Non-2xx prompts the processor to retry delivery later.
		log.Printf("Webhook processing failed: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to process event"})
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Event processed"})
}
