package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"inkmatch-backend/internal/config"
	"inkmatch-backend/internal/db"
	"inkmatch-backend/internal/models"
)

// Custom errors for the SubscriptionService
var (
	ErrUnknownTier        = errors.New("unknown subscription tier")
	ErrCheckoutIncomplete = errors.New("checkout session is not complete")
)

// subscriptionService implements the SubscriptionService interface.
type subscriptionService struct {
	profileRepo db.ProfileRepository
	provider    PaymentProvider
	clientURL   string
	// priceByTier maps tier name to the processor price id; tierByPrice is
	// its inverse, used when reconciling webhook events.
	priceByTier map[string]string
	tierByPrice map[string]string
	logger      *zap.Logger
}

// NewSubscriptionService creates a new SubscriptionService instance. Tiers
// without a configured price id are simply not purchasable.
func NewSubscriptionService(pr db.ProfileRepository, provider PaymentProvider, cfg *config.Config, logger *zap.Logger) SubscriptionService {
	priceByTier := map[string]string{}
	if cfg.StripePriceIDPro != "" {
		priceByTier["PRO"] = cfg.StripePriceIDPro
	}
	if cfg.StripePriceIDStudio != "" {
		priceByTier["STUDIO"] = cfg.StripePriceIDStudio
	}
	tierByPrice := make(map[string]string, len(priceByTier))
	for tier, price := range priceByTier {
		tierByPrice[price] = tier
	}
	return &subscriptionService{
		profileRepo: pr,
		provider:    provider,
		clientURL:   cfg.ClientURL,
		priceByTier: priceByTier,
		tierByPrice: tierByPrice,
		logger:      logger,
	}
}

// CreateCheckout starts a hosted subscription checkout for the named tier.
func (s *subscriptionService) CreateCheckout(ctx context.Context, uid, tier string) (*models.CheckoutSession, error) {
	priceID, ok := s.priceByTier[strings.ToUpper(tier)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTier, tier)
	}

	successURL := s.clientURL + "/subscribe/success?session_id={CHECKOUT_SESSION_ID}"
	cancelURL := s.clientURL + "/subscribe"
	session, err := s.provider.CreateCheckoutSession(ctx, uid, priceID, successURL, cancelURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session for user '%s': %w", uid, err)
	}
	return session, nil
}

// ReconcileCheckout confirms a completed checkout session and stamps the
// subscription fields on the buyer's profile. Safe to call repeatedly: the
// write is idempotent.
func (s *subscriptionService) ReconcileCheckout(ctx context.Context, sessionID string) (*models.PublicProfile, error) {
	session, err := s.provider.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve checkout session '%s': %w", sessionID, err)
	}
	if session.Status != "complete" {
		return nil, fmt.Errorf("%w: status %q", ErrCheckoutIncomplete, session.Status)
	}
	if session.ClientReferenceID == "" {
		return nil, fmt.Errorf("checkout session '%s' carries no client reference", sessionID)
	}

	profile, err := s.profileRepo.Get(ctx, session.ClientReferenceID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile '%s': %w", session.ClientReferenceID, err)
	}

	profile.StripeCustomerID = session.CustomerID
	profile.StripeSubscriptionID = session.SubscriptionID
	profile.SubscriptionStatus = "active"
	if tier, ok := s.tierByPrice[session.PriceID]; ok {
		profile.SubscriptionTier = tier
	}
	profile.UpdatedAt = time.Now().UTC()

	if err := s.profileRepo.Set(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to store subscription on profile '%s': %w", profile.UID, err)
	}

	s.logger.Info("Checkout reconciled",
		zap.String("uid", profile.UID),
		zap.String("tier", profile.SubscriptionTier),
		zap.String("sessionId", sessionID),
	)
	return profile, nil
}

// HandleEvent applies a processor subscription lifecycle event to the
// matching profile. The profile is looked up by scanning for the stored
// customer id; events for unknown customers are logged and dropped rather
// than failing the webhook delivery.
func (s *subscriptionService) HandleEvent(ctx context.Context, event models.SubscriptionEvent) error {
	switch event.Type {
	case "customer.subscription.created", "customer.subscription.updated", "customer.subscription.deleted":
	default:
		return nil
	}
	if event.CustomerID == "" {
		return nil
	}

	profile, err := s.profileRepo.FindByStripeCustomerID(ctx, event.CustomerID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.logger.Warn("Subscription event for unknown customer",
				zap.String("type", event.Type), zap.String("customerId", event.CustomerID))
			return nil
		}
		return fmt.Errorf("failed to find profile for customer '%s': %w", event.CustomerID, err)
	}

	profile.StripeSubscriptionID = event.SubscriptionID
	profile.SubscriptionStatus = event.Status

	switch {
	case event.Type == "customer.subscription.deleted":
		profile.SubscriptionTier = DefaultSubscriptionTier
	case event.Status == "active" || event.Status == "trialing":
		if tier, ok := s.tierByPrice[event.PriceID]; ok {
			profile.SubscriptionTier = tier
		}
	case event.Status == "canceled" || event.Status == "unpaid":
		profile.SubscriptionTier = DefaultSubscriptionTier
	}
	profile.UpdatedAt = time.Now().UTC()

	if err := s.profileRepo.Set(ctx, profile); err != nil {
		return fmt.Errorf("failed to apply subscription event to profile '%s': %w", profile.UID, err)
	}

	s.logger.Info("Subscription event applied",
		zap.String("type", event.Type),
		zap.String("uid", profile.UID),
		zap.String("tier", profile.SubscriptionTier),
		zap.String("status", event.Status),
	)
	return nil
}
