// Package payments wraps the Stripe SDK behind the neutral provider
// interfaces the core services depend on. No Stripe types leak out of this
// package.
package payments

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"github.com/stripe/stripe-go/v82/webhook"

	"inkmatch-backend/internal/models"
)

// StripeProvider implements core.PaymentProvider and core.WebhookVerifier
// against the Stripe API.
type StripeProvider struct {
	webhookSecret string
}

// NewStripeProvider configures the global Stripe client key and returns the
// provider.
func NewStripeProvider(secretKey, webhookSecret string) *StripeProvider {
	stripe.Key = secretKey
	return &StripeProvider{webhookSecret: webhookSecret}
}

// CreatePaymentIntent creates a payment intent for a one-off charge.
func (p *StripeProvider) CreatePaymentIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*models.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe payment intent create failed: %w", err)
	}
	return paymentIntentModel(intent), nil
}

// GetPaymentIntent retrieves the current state of a payment intent.
func (p *StripeProvider) GetPaymentIntent(ctx context.Context, intentID string) (*models.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	intent, err := paymentintent.Get(intentID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe payment intent get failed: %w", err)
	}
	return paymentIntentModel(intent), nil
}

// CreateCheckoutSession starts a hosted subscription checkout. The buyer's
// uid travels in ClientReferenceID so the completed session can be tied back
// to a profile.
func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, uid, priceID, successURL, cancelURL string) (*models.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(successURL),
		CancelURL:         stripe.String(cancelURL),
		ClientReferenceID: stripe.String(uid),
	}
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe checkout session create failed: %w", err)
	}
	return checkoutSessionModel(sess), nil
}

// GetCheckoutSession retrieves a checkout session with its line items, so
// the purchased price id is available for tier resolution.
func (p *StripeProvider) GetCheckoutSession(ctx context.Context, sessionID string) (*models.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("line_items")

	sess, err := session.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe checkout session get failed: %w", err)
	}
	return checkoutSessionModel(sess), nil
}

// ParseSubscriptionEvent verifies the webhook signature and maps the tracked
// Stripe event types onto the neutral SubscriptionEvent. Valid payloads for
// untracked event types return nil, nil.
func (p *StripeProvider) ParseSubscriptionEvent(payload []byte, signature string) (*models.SubscriptionEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, p.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	switch event.Type {
	case "customer.subscription.created", "customer.subscription.updated", "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("failed to decode subscription event: %w", err)
		}
		out := &models.SubscriptionEvent{
			Type:           string(event.Type),
			SubscriptionID: sub.ID,
			Status:         string(sub.Status),
		}
		if sub.Customer != nil {
			out.CustomerID = sub.Customer.ID
		}
		if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
			out.PriceID = sub.Items.Data[0].Price.ID
		}
		return out, nil

	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("failed to decode checkout event: %w", err)
		}
		out := &models.SubscriptionEvent{
			Type:   string(event.Type),
			Status: "active",
		}
		if sess.Customer != nil {
			out.CustomerID = sess.Customer.ID
		}
		if sess.Subscription != nil {
			out.SubscriptionID = sess.Subscription.ID
		}
		return out, nil
	}

	return nil, nil
}

func paymentIntentModel(intent *stripe.PaymentIntent) *models.PaymentIntent {
	return &models.PaymentIntent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       string(intent.Status),
		Amount:       intent.Amount,
		Currency:     string(intent.Currency),
	}
}

func checkoutSessionModel(sess *stripe.CheckoutSession) *models.CheckoutSession {
	out := &models.CheckoutSession{
		ID:                sess.ID,
		URL:               sess.URL,
		Status:            string(sess.Status),
		ClientReferenceID: sess.ClientReferenceID,
	}
	if sess.Customer != nil {
		out.CustomerID = sess.Customer.ID
	}
	if sess.Subscription != nil {
		out.SubscriptionID = sess.Subscription.ID
	}
	if sess.LineItems != nil && len(sess.LineItems.Data) > 0 && sess.LineItems.Data[0].Price != nil {
		out.PriceID = sess.LineItems.Data[0].Price.ID
	}
	return out
}
