package controllers

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/watchhubtv/watchhub/app/repository"
	"github.com/watchhubtv/watchhub/internal/pkg/entitlements"
	"github.com/watchhubtv/watchhub/internal/pkg/env"
	"github.com/watchhubtv/watchhub/internal/pkg/subscriptions"
	"github.com/watchhubtv/watchhub/internal/pkg/usercontext"
)

var subscriptionService *subscriptions.Service

// SetSubscriptionService wires the lifecycle service used by the
// subscription endpoints.
func SetSubscriptionService(svc *subscriptions.Service) {
	subscriptionService = svc
}

// HandleCheckSubscription verifies the caller's locally-active
// subscriptions against the provider and returns the ones still live.
func HandleCheckSubscription(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	result, err := subscriptionService.Check(c.Context(), userID)
	if err != nil {
		if errors.Is(err, subscriptions.ErrProviderUnavailable) {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "provider_unavailable", "message": "Payment provider is unavailable"})
		}
		log.Printf("subscription check for user %d failed: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Subscription check failed"})
	}

	return c.JSON(result)
}

// HandleCreateSubscription starts a checkout and returns the approval URL.
func HandleCreateSubscription(c *fiber.Ctx) error {
	var req struct {
		Plan string `json:"plan"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	origin := strings.TrimSpace(c.Get("Origin"))
	if origin == "" {
		origin = strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", "http://localhost:8080"), "/")
	}

	userID := usercontext.GetUserID(c)
	result, err := subscriptionService.Create(c.Context(), userID, req.Plan, origin)
	if err != nil {
		switch {
		case errors.Is(err, subscriptions.ErrInvalidPlan):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Unknown plan"})
		case errors.Is(err, subscriptions.ErrProviderUnavailable):
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "provider_unavailable", "message": "Payment provider is unavailable"})
		default:
			log.Printf("subscription create for user %d failed: %v", userID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not start checkout"})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// HandleConfirmSubscription activates a pending subscription after the
// user approved the payment.
func HandleConfirmSubscription(c *fiber.Ctx) error {
	var req struct {
		OrderID string `json:"order_id"`
		Plan    string `json:"plan"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	if strings.TrimSpace(req.OrderID) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Missing order id"})
	}

	userID := usercontext.GetUserID(c)
	if err := subscriptionService.Confirm(c.Context(), userID, strings.TrimSpace(req.OrderID), req.Plan); err != nil {
		if errors.Is(err, subscriptions.ErrInvalidPlan) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Unknown plan"})
		}
		log.Printf("subscription confirm for user %d failed: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not confirm subscription"})
	}

	return c.JSON(fiber.Map{"message": "Subscription activated"})
}

// HandleCancelSubscription revokes the subscription at the provider and
// mirrors the cancellation locally.
func HandleCancelSubscription(c *fiber.Ctx) error {
	var req struct {
		SubscriptionID string `json:"subscriptionId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	userID := usercontext.GetUserID(c)
	if err := subscriptionService.Cancel(c.Context(), userID, req.SubscriptionID); err != nil {
		switch {
		case errors.Is(err, subscriptions.ErrMissingSubscriptionID):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Missing subscription id"})
		case errors.Is(err, subscriptions.ErrProviderUnavailable):
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "provider_unavailable", "message": "Payment provider is unavailable"})
		default:
			log.Printf("subscription cancel for user %d failed: %v", userID, err)
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "provider_rejected", "message": "Provider rejected the cancellation"})
		}
	}

	return c.JSON(fiber.Map{"success": true, "message": "Subscription cancelled"})
}

// HandleListSubscriptions returns the caller's full subscription history.
func HandleListSubscriptions(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	subs, err := repository.GetGlobalRepositories().Subscription.GetByUserID(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load subscriptions"})
	}
	return c.JSON(fiber.Map{"subscriptions": subs})
}

// HandleGetSubscriber returns the caller's entitlement record plus the
// plan limits derived from the current tier.
func HandleGetSubscriber(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	sub, err := repository.GetGlobalRepositories().Subscriber.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(fiber.Map{"subscribed": false, "subscription_tier": nil})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load subscriber"})
	}

	tier := ""
	if sub.SubscriptionTier != nil {
		tier = *sub.SubscriptionTier
	}
	plan := entitlements.Normalize(tier)

	return c.JSON(fiber.Map{
		"subscribed":        sub.HasActiveEntitlement(),
		"subscription_tier": sub.SubscriptionTier,
		"subscription_end":  sub.SubscriptionEnd,
		"entitlements": fiber.Map{
			"max_profiles": entitlements.MaxProfiles(plan),
			"max_streams":  entitlements.MaxStreams(plan),
			"max_quality":  entitlements.MaxQuality(plan),
			"can_download": entitlements.CanDownload(plan),
		},
	})
}

// HandleListPlans returns the purchasable plans with pricing.
func HandleListPlans(c *fiber.Ctx) error {
	plans := subscriptions.Plans()
	out := make([]fiber.Map, 0, len(plans))
	for _, p := range plans {
		out = append(out, fiber.Map{
			"plan":     string(p.Plan),
			"name":     p.DisplayName,
			"price":    p.Amount.StringFixed(2),
			"currency": p.Currency,
		})
	}
	return c.JSON(fiber.Map{"plans": out})
}
