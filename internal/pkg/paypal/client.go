package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/watchhubtv/watchhub/internal/pkg/config"
	"github.com/watchhubtv/watchhub/internal/pkg/env"
)

const defaultBaseURL = "https://api-m.sandbox.paypal.com"

// CancelReasonUserRequested is the fixed reason sent on user cancellation.
const CancelReasonUserRequested = "User requested cancellation"

type Client struct {
	ClientID     string
	ClientSecret string
	BaseURL      string

	HTTPClient *http.Client
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Subscription is the provider-side view of a billing subscription.
type Subscription struct {
	ID          string      `json:"id"`
	PlanID      string      `json:"plan_id"`
	Status      string      `json:"status"`
	BillingInfo BillingInfo `json:"billing_info"`
}

type BillingInfo struct {
	NextBillingTime *time.Time `json:"next_billing_time,omitempty"`
}

// Order is a provider checkout order carrying the approval link the
// client is redirected to.
type Order struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []Link `json:"links"`
}

type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

// OrderRequest describes a one-time checkout for a subscription plan.
type OrderRequest struct {
	Amount      string
	Currency    string
	Description string
	ReturnURL   string
	CancelURL   string
}

// NewClient creates a provider client from resolved configuration.
func NewClient(cfg config.PayPalConfig) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		ClientID:     strings.TrimSpace(cfg.ClientID),
		ClientSecret: strings.TrimSpace(cfg.ClientSecret),
		BaseURL:      base,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// NewClientFromEnv builds a client straight from environment variables.
func NewClientFromEnv() *Client {
	return NewClient(config.PayPalConfig{
		ClientID:     env.GetEnv("PAYPAL_CLIENT_ID", ""),
		ClientSecret: env.GetEnv("PAYPAL_CLIENT_SECRET", ""),
		BaseURL:      env.GetEnv("PAYPAL_BASE_URL", defaultBaseURL),
	})
}

// GetAccessToken performs the client-credentials exchange and returns a
// short-lived bearer token for subsequent API calls.
func (c *Client) GetAccessToken(ctx context.Context) (string, error) {
	if c.ClientID == "" || c.ClientSecret == "" {
		return "", errors.New("PayPal credentials not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/oauth2/token",
		strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.ClientID, c.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("paypal token exchange failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var out TokenResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.AccessToken) == "" {
		return "", errors.New("paypal token exchange returned empty access_token")
	}
	return out.AccessToken, nil
}

// GetSubscription fetches live status for a provider subscription id.
func (c *Client) GetSubscription(ctx context.Context, accessToken, subscriptionID string) (*Subscription, error) {
	if strings.TrimSpace(subscriptionID) == "" {
		return nil, errors.New("subscription id is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.BaseURL+"/v1/billing/subscriptions/"+subscriptionID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("paypal subscription lookup failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var out Subscription
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.Status) == "" {
		return nil, errors.New("paypal subscription response missing status")
	}
	return &out, nil
}

// CancelSubscription cancels a provider subscription. The provider
// answers 204 on success; any non-2xx aborts the operation.
func (c *Client) CancelSubscription(ctx context.Context, accessToken, subscriptionID, reason string) error {
	if strings.TrimSpace(subscriptionID) == "" {
		return errors.New("subscription id is required")
	}
	if strings.TrimSpace(reason) == "" {
		reason = CancelReasonUserRequested
	}

	payload, err := json.Marshal(map[string]string{"reason": reason})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/v1/billing/subscriptions/"+subscriptionID+"/cancel", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return fmt.Errorf("paypal cancellation failed: status=%d body=%s", resp.StatusCode, string(body))
	}
	return nil
}

// CreateOrder creates a one-time checkout order and returns it with the
// approval link the caller should redirect to.
func (c *Client) CreateOrder(ctx context.Context, accessToken string, in OrderRequest) (*Order, error) {
	if in.Amount == "" {
		return nil, errors.New("order amount is required")
	}
	currency := in.Currency
	if currency == "" {
		currency = "USD"
	}

	payload := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{
			{
				"amount": map[string]string{
					"currency_code": currency,
					"value":         in.Amount,
				},
				"description": in.Description,
			},
		},
		"application_context": map[string]string{
			"brand_name":  "WatchHub",
			"user_action": "PAY_NOW",
			"return_url":  in.ReturnURL,
			"cancel_url":  in.CancelURL,
		},
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v2/checkout/orders", bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("paypal order creation failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var out Order
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ApprovalLink extracts the approve/payer-action link from an order.
func (o *Order) ApprovalLink() string {
	for _, l := range o.Links {
		if l.Rel == "approve" || l.Rel == "payer-action" {
			return l.Href
		}
	}
	return ""
}
