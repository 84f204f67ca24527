package middleware

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/watchhubtv/watchhub/app/models"
	"github.com/watchhubtv/watchhub/app/repository"
	"github.com/watchhubtv/watchhub/internal/pkg/token"
	"github.com/watchhubtv/watchhub/internal/pkg/usercontext"
)

// UserContextMiddleware resolves the bearer token on every request and
// sets up the complete user context. Requests without a token, or with a
// token the store rejects, continue as anonymous; the route guards decide
// whether that is acceptable.
func UserContextMiddleware(store *token.Store) fiber.Handler {
	anonymous := usercontext.UserContext{IsLoggedIn: false, IsAdmin: false}

	return func(c *fiber.Ctx) error {
		bearer := extractBearerToken(c)
		if bearer == "" {
			c.Locals(usercontext.KeyUserContext, anonymous)
			return c.Next()
		}

		userID, err := store.Introspect(c.Context(), bearer)
		if err != nil {
			if !errors.Is(err, token.ErrInvalidToken) {
				log.Printf("token introspection failed: %v", err)
			}
			c.Locals(usercontext.KeyUserContext, anonymous)
			return c.Next()
		}

		repos := repository.GetGlobalRepositories()
		user, err := repos.User.GetByID(userID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("user lookup for token failed: %v", err)
			}
			c.Locals(usercontext.KeyUserContext, anonymous)
			return c.Next()
		}

		if user.Status != models.STATUS_ACTIVE {
			c.Locals(usercontext.KeyUserContext, anonymous)
			return c.Next()
		}

		userCtx := usercontext.UserContext{
			UserID:     user.ID,
			Username:   user.Name,
			Email:      user.Email,
			IsLoggedIn: true,
			IsAdmin:    user.Role == models.ROLE_ADMIN,
		}

		// Entitlement is read per request so a cancellation takes effect
		// without re-login.
		if subscriber, err := repos.Subscriber.GetByUserID(user.ID); err == nil {
			userCtx.Subscribed = subscriber.HasActiveEntitlement()
			if subscriber.SubscriptionTier != nil {
				userCtx.Tier = *subscriber.SubscriptionTier
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("subscriber lookup for user %d failed: %v", user.ID, err)
		}

		c.Locals(usercontext.KeyUserContext, userCtx)
		c.Locals(usercontext.KeyFromProtected, true)
		c.Locals(usercontext.KeyUserID, user.ID)
		c.Locals(usercontext.KeyUsername, user.Name)
		c.Locals(usercontext.KeyIsAdmin, userCtx.IsAdmin)

		return c.Next()
	}
}

func extractBearerToken(c *fiber.Ctx) string {
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
