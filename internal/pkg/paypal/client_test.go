package paypal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/watchhubtv/watchhub/internal/pkg/config"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.PayPalConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		BaseURL:      baseURL,
	})
}

func TestGetAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/oauth2/token" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-id" || pass != "client-secret" {
			t.Fatalf("expected basic auth with client credentials")
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		if got := r.FormValue("grant_type"); got != "client_credentials" {
			t.Fatalf("grant_type = %q, want client_credentials", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "token-123",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	defer srv.Close()

	tok, err := newTestClient(srv.URL).GetAccessToken(context.Background())
	if err != nil {
		t.Fatalf("GetAccessToken returned error: %v", err)
	}
	if tok != "token-123" {
		t.Fatalf("access token = %q, want token-123", tok)
	}
}

func TestGetAccessToken_MissingCredentials(t *testing.T) {
	c := NewClient(config.PayPalConfig{})
	if _, err := c.GetAccessToken(context.Background()); err == nil {
		t.Fatalf("expected error for missing credentials")
	}
}

func TestGetAccessToken_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).GetAccessToken(context.Background()); err == nil {
		t.Fatalf("expected error on non-2xx token exchange")
	}
}

func TestGetSubscription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/billing/subscriptions/I-ABC123" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token-123" {
			t.Fatalf("Authorization = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "I-ABC123",
			"status": "ACTIVE",
			"billing_info": map[string]interface{}{
				"next_billing_time": "2026-10-01T10:00:00Z",
			},
		})
	}))
	defer srv.Close()

	sub, err := newTestClient(srv.URL).GetSubscription(context.Background(), "token-123", "I-ABC123")
	if err != nil {
		t.Fatalf("GetSubscription returned error: %v", err)
	}
	if sub.Status != "ACTIVE" {
		t.Fatalf("status = %q, want ACTIVE", sub.Status)
	}
	if sub.BillingInfo.NextBillingTime == nil {
		t.Fatalf("expected next_billing_time to be set")
	}
}

func TestCancelSubscription(t *testing.T) {
	var gotReason string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/billing/subscriptions/I-ABC123/cancel" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode cancel body: %v", err)
		}
		gotReason = body["reason"]
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	if err := newTestClient(srv.URL).CancelSubscription(context.Background(), "token-123", "I-ABC123", ""); err != nil {
		t.Fatalf("CancelSubscription returned error: %v", err)
	}
	if gotReason != CancelReasonUserRequested {
		t.Fatalf("reason = %q, want %q", gotReason, CancelReasonUserRequested)
	}
}

func TestCancelSubscription_UpstreamRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"name": "UNPROCESSABLE_ENTITY"})
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).CancelSubscription(context.Background(), "token-123", "I-ABC123", "test")
	if err == nil {
		t.Fatalf("expected error on provider rejection")
	}
}

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/checkout/orders" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode order body: %v", err)
		}
		if body["intent"] != "CAPTURE" {
			t.Fatalf("intent = %v, want CAPTURE", body["intent"])
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "ORDER-1",
			"status": "CREATED",
			"links": []map[string]string{
				{"href": "https://paypal.test/approve/ORDER-1", "rel": "approve", "method": "GET"},
			},
		})
	}))
	defer srv.Close()

	order, err := newTestClient(srv.URL).CreateOrder(context.Background(), "token-123", OrderRequest{
		Amount:      "14.99",
		Description: "WatchHub Plan Estándar - Suscripción Mensual",
		ReturnURL:   "https://watchhub.test/payment-success",
		CancelURL:   "https://watchhub.test/payment-canceled",
	})
	if err != nil {
		t.Fatalf("CreateOrder returned error: %v", err)
	}
	if order.ApprovalLink() != "https://paypal.test/approve/ORDER-1" {
		t.Fatalf("approval link = %q", order.ApprovalLink())
	}
}

func TestToLocalStatus(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "ACTIVE", want: "active"},
		{in: "SUSPENDED", want: "suspended"},
		{in: "CANCELLED", want: "cancelled"},
		{in: " Expired ", want: "expired"},
	}

	for _, tt := range tests {
		if got := ToLocalStatus(tt.in); got != tt.want {
			t.Fatalf("ToLocalStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsActive(t *testing.T) {
	if !IsActive("ACTIVE") {
		t.Fatalf("expected ACTIVE to be active")
	}
	for _, status := range []string{"SUSPENDED", "CANCELLED", "EXPIRED", ""} {
		if IsActive(status) {
			t.Fatalf("expected %q to be inactive", status)
		}
	}
}
