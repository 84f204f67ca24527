package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/watchhubtv/watchhub/internal/pkg/usercontext"
)

// RequireAuth ensures an authenticated bearer token and returns JSON 401 otherwise.
func RequireAuth(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "authentication required",
		})
	}
	return c.Next()
}

// RequireAdmin ensures an authenticated admin and returns JSON 401/403 otherwise.
func RequireAdmin(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "authentication required",
		})
	}
	if !usercontext.IsAdmin(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "forbidden",
			"message": "admin access required",
		})
	}
	return c.Next()
}

// RequireSubscription ensures the caller holds an active entitlement.
// Playback and catalog-detail routes sit behind this guard.
func RequireSubscription(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "authentication required",
		})
	}
	if !usercontext.GetUserContext(c).Subscribed {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "subscription_required",
			"message": "an active subscription is required",
		})
	}
	return c.Next()
}
