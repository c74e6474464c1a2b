package models

// Processor-neutral views of the payment provider's objects. The core
// services only see these; the Stripe SDK types stay inside the payments
// package.

// PaymentIntent is the provider's deposit-payment object.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret,omitempty"`
	Status       string `json:"status"` // Provider status string, e.g. "succeeded", "requires_action"
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// CheckoutSession is the provider's hosted subscription-checkout object.
type CheckoutSession struct {
	ID                string `json:"id"`
	URL               string `json:"url,omitempty"`
	Status            string `json:"status,omitempty"`
	CustomerID        string `json:"customerId,omitempty"`
	SubscriptionID    string `json:"subscriptionId,omitempty"`
	PriceID           string `json:"priceId,omitempty"`           // First line item's price, identifies the tier
	ClientReferenceID string `json:"clientReferenceId,omitempty"` // Carries the initiating user's UID
}

// SubscriptionEvent is a provider webhook event reduced to the fields the
// subscription service acts on. Events that don't concern subscriptions map
// to an empty Type and are ignored.
type SubscriptionEvent struct {
	Type           string // e.g. "customer.subscription.updated"
	CustomerID     string
	SubscriptionID string
	Status         string // Provider subscription status, e.g. "active", "canceled"
	PriceID        string // Identifies the purchased tier
}
