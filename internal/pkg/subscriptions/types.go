package subscriptions

import (
	"context"
	"time"

	"github.com/watchhubtv/watchhub/app/models"
	"github.com/watchhubtv/watchhub/internal/pkg/paypal"
)

// ProviderClient is the capability surface the lifecycle needs from the
// payment provider. Implemented by paypal.Client; faked in tests.
type ProviderClient interface {
	GetAccessToken(ctx context.Context) (string, error)
	GetSubscription(ctx context.Context, accessToken, subscriptionID string) (*paypal.Subscription, error)
	CancelSubscription(ctx context.Context, accessToken, subscriptionID, reason string) error
	CreateOrder(ctx context.Context, accessToken string, in paypal.OrderRequest) (*paypal.Order, error)
}

// CheckedSubscription is a locally-recorded subscription confirmed live
// by the provider, enriched with the provider's billing data.
type CheckedSubscription struct {
	models.PayPalSubscription
	PayPalStatus    string     `json:"paypal_status"`
	NextBillingTime *time.Time `json:"next_billing_time,omitempty"`
}

// CheckResult is the response shape of the check-status operation.
type CheckResult struct {
	HasActiveSubscription bool                  `json:"hasActiveSubscription"`
	Subscriptions         []CheckedSubscription `json:"subscriptions"`
}

// CreateResult carries the provider approval link for a new checkout.
type CreateResult struct {
	OrderID     string `json:"order_id"`
	Plan        string `json:"plan"`
	ApprovalURL string `json:"approval_url"`
}
