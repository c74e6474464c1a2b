package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"inkmatch-backend/internal/core"
	"inkmatch-backend/internal/models"
)

type subscriptionServiceStub struct {
	core.SubscriptionService

	reconciled []string
	profile    *models.PublicProfile
}

func (s *subscriptionServiceStub) ReconcileCheckout(ctx context.Context, sessionID string) (*models.PublicProfile, error) {
	s.reconciled = append(s.reconciled, sessionID)
	return s.profile, nil
}

func newCheckoutSuccessRouter(subs *subscriptionServiceStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewPaymentHandler(nil, subs, nil)
	router := gin.New()
	router.GET("/api/subscriptions/checkout-success", handler.CheckoutSuccess)
	return router
}

func TestCheckoutSuccess_RedirectNeedsNoToken(t *testing.T) {
	// Stripe's success-URL redirect is a bare browser GET: no Authorization
	// header, no body. The session id in the query must be enough.
	subs := &subscriptionServiceStub{profile: &models.PublicProfile{UID: "artist-1", SubscriptionTier: "PRO"}}
	router := newCheckoutSuccessRouter(subs)

	req := httptest.NewRequest(http.MethodGet, "/api/subscriptions/checkout-success?session_id=cs_1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	if len(subs.reconciled) != 1 || subs.reconciled[0] != "cs_1" {
		t.Fatalf("reconciled %v, want [cs_1]", subs.reconciled)
	}
}

func TestCheckoutSuccess_MissingSessionID(t *testing.T) {
	subs := &subscriptionServiceStub{}
	router := newCheckoutSuccessRouter(subs)

	req := httptest.NewRequest(http.MethodGet, "/api/subscriptions/checkout-success", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
	if len(subs.reconciled) != 0 {
		t.Fatal("missing session_id must not reach the service")
	}
}
