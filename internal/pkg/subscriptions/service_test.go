package subscriptions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchhubtv/watchhub/app/models"
	"github.com/watchhubtv/watchhub/internal/pkg/paypal"
)

type fakeProvider struct {
	tokenErr   error
	tokenCalls int

	subs    map[string]*paypal.Subscription
	subErrs map[string]error

	cancelErr     error
	cancelledIDs  []string
	cancelReasons []string

	order     *paypal.Order
	orderErr  error
	orderReqs []paypal.OrderRequest
}

func (f *fakeProvider) GetAccessToken(ctx context.Context) (string, error) {
	f.tokenCalls++
	if f.tokenErr != nil {
		return "", f.tokenErr
	}
	return "test-token", nil
}

func (f *fakeProvider) GetSubscription(ctx context.Context, token, id string) (*paypal.Subscription, error) {
	if err, ok := f.subErrs[id]; ok {
		return nil, err
	}
	sub, ok := f.subs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return sub, nil
}

func (f *fakeProvider) CancelSubscription(ctx context.Context, token, id, reason string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelledIDs = append(f.cancelledIDs, id)
	f.cancelReasons = append(f.cancelReasons, reason)
	return nil
}

func (f *fakeProvider) CreateOrder(ctx context.Context, token string, in paypal.OrderRequest) (*paypal.Order, error) {
	f.orderReqs = append(f.orderReqs, in)
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	return f.order, nil
}

type statusUpdate struct {
	id     uint
	status string
}

type entitlementUpdate struct {
	subscribed bool
	tier       *string
	end        *time.Time
}

type notification struct {
	notifType string
	title     string
	message   string
}

type fakeRepo struct {
	active    []models.PayPalSubscription
	activeErr error
	userIDs   []uint

	markCancelledErr error
	entitlementErr   error
	notificationErr  error

	statusUpdates      []statusUpdate
	cancelled          []string
	activated          []string
	entitlementUpdates []entitlementUpdate
	notifications      []notification
	pending            []models.PayPalSubscription
}

func (f *fakeRepo) ListActiveByUser(userID uint) ([]models.PayPalSubscription, error) {
	return f.active, f.activeErr
}

func (f *fakeRepo) ListUserIDsWithActive() ([]uint, error) {
	return f.userIDs, nil
}

func (f *fakeRepo) CreatePending(sub *models.PayPalSubscription) error {
	sub.Status = models.SubscriptionStatusPending
	f.pending = append(f.pending, *sub)
	return nil
}

func (f *fakeRepo) UpdateStatus(id uint, status string) error {
	f.statusUpdates = append(f.statusUpdates, statusUpdate{id: id, status: status})
	return nil
}

func (f *fakeRepo) ActivateByProviderID(providerID string, userID uint) error {
	f.activated = append(f.activated, providerID)
	return nil
}

func (f *fakeRepo) MarkCancelled(providerID string, userID uint) error {
	if f.markCancelledErr != nil {
		return f.markCancelledErr
	}
	f.cancelled = append(f.cancelled, providerID)
	return nil
}

func (f *fakeRepo) SetSubscriberEntitlement(userID uint, subscribed bool, tier *string, end *time.Time) error {
	if f.entitlementErr != nil {
		return f.entitlementErr
	}
	f.entitlementUpdates = append(f.entitlementUpdates, entitlementUpdate{subscribed: subscribed, tier: tier, end: end})
	return nil
}

func (f *fakeRepo) SubscriberEmail(userID uint) (string, error) {
	return "user@example.com", nil
}

func (f *fakeRepo) InsertNotification(userID uint, notifType, title, message string) error {
	if f.notificationErr != nil {
		return f.notificationErr
	}
	f.notifications = append(f.notifications, notification{notifType: notifType, title: title, message: message})
	return nil
}

// newTestService stubs the cancellation mailer so tests never dial SMTP.
func newTestService(repo Repository, provider ProviderClient) *Service {
	svc := NewService(repo, provider)
	svc.sendCancellationMail = func(to, subscriptionID string) error { return nil }
	return svc
}

func localSub(id uint, providerID string, plan string) models.PayPalSubscription {
	return models.PayPalSubscription{
		ID:                   id,
		PayPalSubscriptionID: providerID,
		UserID:               42,
		Plan:                 plan,
		Status:               models.SubscriptionStatusActive,
	}
}

func TestCheckWithoutLocalRowsSkipsProvider(t *testing.T) {
	provider := &fakeProvider{}
	svc := newTestService(&fakeRepo{}, provider)

	result, err := svc.Check(context.Background(), 42)
	require.NoError(t, err)

	assert.False(t, result.HasActiveSubscription)
	assert.NotNil(t, result.Subscriptions)
	assert.Empty(t, result.Subscriptions)
	assert.Equal(t, 0, provider.tokenCalls, "provider must not be contacted without local rows")
}

func TestCheckConfirmsLiveSubscription(t *testing.T) {
	next := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	provider := &fakeProvider{
		subs: map[string]*paypal.Subscription{
			"I-LIVE": {ID: "I-LIVE", Status: paypal.StatusActive, BillingInfo: paypal.BillingInfo{NextBillingTime: &next}},
		},
	}
	repo := &fakeRepo{active: []models.PayPalSubscription{localSub(1, "I-LIVE", "premium")}}
	svc := newTestService(repo, provider)

	result, err := svc.Check(context.Background(), 42)
	require.NoError(t, err)

	assert.True(t, result.HasActiveSubscription)
	require.Len(t, result.Subscriptions, 1)
	assert.Equal(t, "I-LIVE", result.Subscriptions[0].PayPalSubscriptionID)
	assert.Equal(t, paypal.StatusActive, result.Subscriptions[0].PayPalStatus)
	require.NotNil(t, result.Subscriptions[0].NextBillingTime)
	assert.Equal(t, next, *result.Subscriptions[0].NextBillingTime)
	assert.Empty(t, repo.statusUpdates, "a live subscription must not be rewritten locally")
	assert.Equal(t, 1, provider.tokenCalls, "one token exchange per check")
}

func TestCheckSyncsStaleLocalStatus(t *testing.T) {
	provider := &fakeProvider{
		subs: map[string]*paypal.Subscription{
			"I-DEAD": {ID: "I-DEAD", Status: paypal.StatusCancelled},
		},
	}
	repo := &fakeRepo{active: []models.PayPalSubscription{localSub(7, "I-DEAD", "basic")}}
	svc := newTestService(repo, provider)

	result, err := svc.Check(context.Background(), 42)
	require.NoError(t, err)

	assert.False(t, result.HasActiveSubscription)
	assert.Empty(t, result.Subscriptions)
	require.Len(t, repo.statusUpdates, 1)
	assert.Equal(t, uint(7), repo.statusUpdates[0].id)
	assert.Equal(t, models.SubscriptionStatusCancelled, repo.statusUpdates[0].status)
}

func TestCheckSkipsRowsTheProviderCannotAnswer(t *testing.T) {
	next := time.Now().Add(24 * time.Hour)
	provider := &fakeProvider{
		subs: map[string]*paypal.Subscription{
			"I-OK": {ID: "I-OK", Status: paypal.StatusActive, BillingInfo: paypal.BillingInfo{NextBillingTime: &next}},
		},
		subErrs: map[string]error{"I-BROKEN": errors.New("upstream 500")},
	}
	repo := &fakeRepo{active: []models.PayPalSubscription{
		localSub(1, "I-BROKEN", "basic"),
		localSub(2, "I-OK", "standard"),
	}}
	svc := newTestService(repo, provider)

	result, err := svc.Check(context.Background(), 42)
	require.NoError(t, err, "a single failing row must not fail the check")

	assert.True(t, result.HasActiveSubscription)
	require.Len(t, result.Subscriptions, 1)
	assert.Equal(t, "I-OK", result.Subscriptions[0].PayPalSubscriptionID)
	assert.Empty(t, repo.statusUpdates, "an unanswerable row keeps its local status")
}

func TestCheckFailsWhenTokenExchangeFails(t *testing.T) {
	provider := &fakeProvider{tokenErr: errors.New("401")}
	repo := &fakeRepo{active: []models.PayPalSubscription{localSub(1, "I-LIVE", "basic")}}
	svc := newTestService(repo, provider)

	_, err := svc.Check(context.Background(), 42)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestCancelRequiresSubscriptionID(t *testing.T) {
	provider := &fakeProvider{}
	svc := newTestService(&fakeRepo{}, provider)

	err := svc.Cancel(context.Background(), 42, "   ")
	assert.ErrorIs(t, err, ErrMissingSubscriptionID)
	assert.Equal(t, 0, provider.tokenCalls)
}

func TestCancelAbortsWhenProviderRejects(t *testing.T) {
	provider := &fakeProvider{cancelErr: errors.New("422 from provider")}
	repo := &fakeRepo{}
	svc := newTestService(repo, provider)

	err := svc.Cancel(context.Background(), 42, "I-LIVE")
	require.Error(t, err)

	assert.Empty(t, repo.cancelled, "no local write when the provider refused")
	assert.Empty(t, repo.entitlementUpdates)
	assert.Empty(t, repo.notifications)
}

func TestCancelMirrorsLocallyAfterProviderSuccess(t *testing.T) {
	provider := &fakeProvider{}
	repo := &fakeRepo{}
	svc := newTestService(repo, provider)

	require.NoError(t, svc.Cancel(context.Background(), 42, "I-LIVE"))

	require.Len(t, provider.cancelReasons, 1)
	assert.Equal(t, "User requested cancellation", provider.cancelReasons[0])

	require.Len(t, repo.cancelled, 1)
	assert.Equal(t, "I-LIVE", repo.cancelled[0])

	require.Len(t, repo.entitlementUpdates, 1)
	assert.False(t, repo.entitlementUpdates[0].subscribed)
	assert.Nil(t, repo.entitlementUpdates[0].tier)

	require.Len(t, repo.notifications, 1)
	assert.Equal(t, models.NotificationTypeSubscriptionCancelled, repo.notifications[0].notifType)
	assert.Equal(t, "Suscripción cancelada", repo.notifications[0].title)
	assert.Equal(t, "Tu suscripción de PayPal ha sido cancelada exitosamente.", repo.notifications[0].message)
}

func TestCancelMailsTheSubscriber(t *testing.T) {
	provider := &fakeProvider{}
	repo := &fakeRepo{}
	svc := newTestService(repo, provider)

	var mailedTo, mailedSub string
	svc.sendCancellationMail = func(to, subscriptionID string) error {
		mailedTo = to
		mailedSub = subscriptionID
		return nil
	}

	require.NoError(t, svc.Cancel(context.Background(), 42, "I-LIVE"))
	assert.Equal(t, "user@example.com", mailedTo)
	assert.Equal(t, "I-LIVE", mailedSub)
}

func TestCancelSurvivesFailedLocalMirrors(t *testing.T) {
	provider := &fakeProvider{}
	repo := &fakeRepo{markCancelledErr: errors.New("db down")}
	svc := newTestService(repo, provider)

	err := svc.Cancel(context.Background(), 42, "I-LIVE")
	require.NoError(t, err, "a failed mirror must not fail the cancel")

	// The remaining mirrors still ran.
	assert.Len(t, repo.entitlementUpdates, 1)
	assert.Len(t, repo.notifications, 1)
}

func TestCreateRejectsUnknownPlan(t *testing.T) {
	svc := newTestService(&fakeRepo{}, &fakeProvider{})

	_, err := svc.Create(context.Background(), 42, "platinum", "https://watchhub.tv")
	assert.ErrorIs(t, err, ErrInvalidPlan)
}

func TestCreateRecordsPendingRowAndReturnsApproval(t *testing.T) {
	provider := &fakeProvider{
		order: &paypal.Order{
			ID:     "ORDER-9",
			Status: "CREATED",
			Links: []paypal.Link{
				{Rel: "self", Href: "https://api-m.sandbox.paypal.com/v2/checkout/orders/ORDER-9"},
				{Rel: "approve", Href: "https://www.sandbox.paypal.com/checkoutnow?token=ORDER-9"},
			},
		},
	}
	repo := &fakeRepo{}
	svc := newTestService(repo, provider)

	result, err := svc.Create(context.Background(), 42, "Premium", "https://watchhub.tv")
	require.NoError(t, err)

	assert.Equal(t, "ORDER-9", result.OrderID)
	assert.Equal(t, "premium", result.Plan)
	assert.Equal(t, "https://www.sandbox.paypal.com/checkoutnow?token=ORDER-9", result.ApprovalURL)

	require.Len(t, provider.orderReqs, 1)
	assert.Equal(t, "19.99", provider.orderReqs[0].Amount)
	assert.Equal(t, "USD", provider.orderReqs[0].Currency)
	assert.Contains(t, provider.orderReqs[0].Description, "Plan Premium")
	assert.Contains(t, provider.orderReqs[0].ReturnURL, "plan=premium")

	require.Len(t, repo.pending, 1)
	assert.Equal(t, "ORDER-9", repo.pending[0].PayPalSubscriptionID)
	assert.Equal(t, models.SubscriptionStatusPending, repo.pending[0].Status)
}

func TestConfirmActivatesAndGrantsEntitlement(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakeProvider{})

	require.NoError(t, svc.Confirm(context.Background(), 42, "ORDER-9", "standard"))

	require.Len(t, repo.activated, 1)
	assert.Equal(t, "ORDER-9", repo.activated[0])

	require.Len(t, repo.entitlementUpdates, 1)
	assert.True(t, repo.entitlementUpdates[0].subscribed)
	require.NotNil(t, repo.entitlementUpdates[0].tier)
	assert.Equal(t, "standard", *repo.entitlementUpdates[0].tier)
	require.NotNil(t, repo.entitlementUpdates[0].end)
	assert.True(t, repo.entitlementUpdates[0].end.After(time.Now()))

	require.Len(t, repo.notifications, 1)
	assert.Equal(t, models.NotificationTypeSubscriptionActive, repo.notifications[0].notifType)
}

func TestReconcileUserClearsEntitlementWhenNothingLive(t *testing.T) {
	provider := &fakeProvider{
		subs: map[string]*paypal.Subscription{
			"I-DEAD": {ID: "I-DEAD", Status: paypal.StatusExpired},
		},
	}
	repo := &fakeRepo{active: []models.PayPalSubscription{localSub(1, "I-DEAD", "basic")}}
	svc := newTestService(repo, provider)

	require.NoError(t, svc.ReconcileUser(context.Background(), 42))

	require.Len(t, repo.entitlementUpdates, 1)
	assert.False(t, repo.entitlementUpdates[0].subscribed)
	assert.Nil(t, repo.entitlementUpdates[0].tier)
}

func TestReconcileUserKeepsBestLivePlan(t *testing.T) {
	next := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
	provider := &fakeProvider{
		subs: map[string]*paypal.Subscription{
			"I-A": {ID: "I-A", Status: paypal.StatusActive, BillingInfo: paypal.BillingInfo{NextBillingTime: &next}},
			"I-B": {ID: "I-B", Status: paypal.StatusActive},
		},
	}
	repo := &fakeRepo{active: []models.PayPalSubscription{
		localSub(1, "I-A", "basic"),
		localSub(2, "I-B", "premium"),
	}}
	svc := newTestService(repo, provider)

	require.NoError(t, svc.ReconcileUser(context.Background(), 42))

	require.Len(t, repo.entitlementUpdates, 1)
	assert.True(t, repo.entitlementUpdates[0].subscribed)
	require.NotNil(t, repo.entitlementUpdates[0].tier)
	assert.Equal(t, "premium", *repo.entitlementUpdates[0].tier)
	require.NotNil(t, repo.entitlementUpdates[0].end)
	assert.Equal(t, next, *repo.entitlementUpdates[0].end)
}

func TestPriceForNormalizesIdentifier(t *testing.T) {
	tests := []struct {
		in     string
		amount string
		ok     bool
	}{
		{"basic", "9.99", true},
		{"Standard", "14.99", true},
		{" PREMIUM ", "19.99", true},
		{"free", "", false},
	}
	for _, tt := range tests {
		price, ok := PriceFor(tt.in)
		if ok != tt.ok {
			t.Fatalf("PriceFor(%q) ok = %v, want %v", tt.in, ok, tt.ok)
		}
		if ok && price.Amount.StringFixed(2) != tt.amount {
			t.Fatalf("PriceFor(%q) amount = %s, want %s", tt.in, price.Amount.StringFixed(2), tt.amount)
		}
	}
}

func TestMonthlyRevenue(t *testing.T) {
	total := MonthlyRevenue(map[string]int64{
		"basic":    10, // 99.90
		"premium":  2,  // 39.98
		"sideload": 5,  // ignored
	})
	assert.Equal(t, "139.88", total.StringFixed(2))
}
