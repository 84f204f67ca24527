package controllers

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchhubtv/watchhub/app/models"
	"github.com/watchhubtv/watchhub/internal/pkg/middleware"
	"github.com/watchhubtv/watchhub/internal/pkg/paypal"
	"github.com/watchhubtv/watchhub/internal/pkg/subscriptions"
	"github.com/watchhubtv/watchhub/internal/pkg/token"
	"github.com/watchhubtv/watchhub/internal/pkg/usercontext"
)

type recordingProvider struct {
	tokenCalls   int
	cancelledIDs []string
}

func (p *recordingProvider) GetAccessToken(ctx context.Context) (string, error) {
	p.tokenCalls++
	return "test-token", nil
}

func (p *recordingProvider) GetSubscription(ctx context.Context, accessToken, subscriptionID string) (*paypal.Subscription, error) {
	return nil, errors.New("not expected in this test")
}

func (p *recordingProvider) CancelSubscription(ctx context.Context, accessToken, subscriptionID, reason string) error {
	p.cancelledIDs = append(p.cancelledIDs, subscriptionID)
	return nil
}

func (p *recordingProvider) CreateOrder(ctx context.Context, accessToken string, in paypal.OrderRequest) (*paypal.Order, error) {
	return nil, errors.New("not expected in this test")
}

type recordingRepo struct {
	cancelled []string
}

func (r *recordingRepo) ListActiveByUser(userID uint) ([]models.PayPalSubscription, error) {
	return nil, nil
}

func (r *recordingRepo) ListUserIDsWithActive() ([]uint, error) { return nil, nil }

func (r *recordingRepo) CreatePending(sub *models.PayPalSubscription) error { return nil }

func (r *recordingRepo) UpdateStatus(id uint, status string) error { return nil }

func (r *recordingRepo) ActivateByProviderID(providerID string, userID uint) error { return nil }

func (r *recordingRepo) MarkCancelled(providerID string, userID uint) error {
	r.cancelled = append(r.cancelled, providerID)
	return nil
}

func (r *recordingRepo) SetSubscriberEntitlement(userID uint, subscribed bool, tier *string, end *time.Time) error {
	return nil
}

func (r *recordingRepo) SubscriberEmail(userID uint) (string, error) {
	return "", errors.New("no subscriber row")
}

func (r *recordingRepo) InsertNotification(userID uint, notifType, title, message string) error {
	return nil
}

func asUser(id uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(usercontext.KeyUserContext, usercontext.UserContext{UserID: id, IsLoggedIn: true})
		return c.Next()
	}
}

func TestHandleCancelSubscriptionBindsProviderID(t *testing.T) {
	provider := &recordingProvider{}
	repo := &recordingRepo{}
	SetSubscriptionService(subscriptions.NewService(repo, provider))

	app := fiber.New()
	app.Post("/billing/subscriptions/cancel", asUser(42), middleware.RequireAuth, HandleCancelSubscription)

	req := httptest.NewRequest("POST", "/billing/subscriptions/cancel",
		strings.NewReader(`{"subscriptionId":"I-123"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, provider.cancelledIDs, 1)
	assert.Equal(t, "I-123", provider.cancelledIDs[0])
	assert.Equal(t, []string{"I-123"}, repo.cancelled)
}

func TestHandleCancelSubscriptionMissingID(t *testing.T) {
	provider := &recordingProvider{}
	SetSubscriptionService(subscriptions.NewService(&recordingRepo{}, provider))

	app := fiber.New()
	app.Post("/billing/subscriptions/cancel", asUser(42), middleware.RequireAuth, HandleCancelSubscription)

	req := httptest.NewRequest("POST", "/billing/subscriptions/cancel", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 0, provider.tokenCalls)
}

func TestBillingRejectsAnonymousCallers(t *testing.T) {
	provider := &recordingProvider{}
	repo := &recordingRepo{}
	SetSubscriptionService(subscriptions.NewService(repo, provider))

	app := fiber.New()
	app.Use(middleware.UserContextMiddleware(token.NewStoreWithClient(nil, time.Hour)))
	billing := app.Group("/billing", middleware.RequireAuth)
	billing.Post("/subscriptions/cancel", HandleCancelSubscription)

	req := httptest.NewRequest("POST", "/billing/subscriptions/cancel",
		strings.NewReader(`{"subscriptionId":"I-123"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 0, provider.tokenCalls, "no provider call without authentication")
	assert.Empty(t, repo.cancelled, "no persistence call without authentication")
}

func TestPreflightAnsweredBeforeAuth(t *testing.T) {
	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	app.Use(middleware.UserContextMiddleware(token.NewStoreWithClient(nil, time.Hour)))
	billing := app.Group("/billing", middleware.RequireAuth)
	billing.Post("/subscriptions/cancel", HandleCancelSubscription)

	req := httptest.NewRequest("OPTIONS", "/billing/subscriptions/cancel", nil)
	req.Header.Set("Origin", "https://watchhub.example")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
}
