package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/watchhubtv/watchhub/app/models"
	"github.com/watchhubtv/watchhub/internal/pkg/entitlements"
	"github.com/watchhubtv/watchhub/internal/pkg/mail"
	"github.com/watchhubtv/watchhub/internal/pkg/paypal"
)

var (
	// ErrMissingSubscriptionID rejects cancel calls without a provider id.
	ErrMissingSubscriptionID = errors.New("subscription id is required")
	// ErrInvalidPlan rejects checkout for an unknown plan identifier.
	ErrInvalidPlan = errors.New("invalid plan")
	// ErrProviderUnavailable wraps token exchange failures.
	ErrProviderUnavailable = errors.New("payment provider unavailable")
)

const (
	cancelledNotificationTitle   = "Suscripción cancelada"
	cancelledNotificationMessage = "Tu suscripción de PayPal ha sido cancelada exitosamente."
	activatedNotificationTitle   = "Suscripción activa"
	activatedNotificationMessage = "Tu suscripción de WatchHub ha sido activada. ¡Disfruta del contenido!"

	// billingPeriod is how far a confirmed payment extends the entitlement.
	billingPeriod = 30 * 24 * time.Hour
)

// Service runs the subscription lifecycle: checkout, status sync against
// the provider, cancellation and periodic reconciliation.
type Service struct {
	repo     Repository
	provider ProviderClient

	// sendCancellationMail defaults to mail.SendCancellationMail.
	sendCancellationMail func(to, subscriptionID string) error
}

func NewService(repo Repository, provider ProviderClient) *Service {
	return &Service{repo: repo, provider: provider, sendCancellationMail: mail.SendCancellationMail}
}

// NewServiceFromDB wires the default GORM repository.
func NewServiceFromDB(db *gorm.DB, provider ProviderClient) *Service {
	return NewService(NewRepository(db), provider)
}

// Check verifies every locally-active subscription of the user against the
// provider. Rows the provider no longer reports as live get their local
// status overwritten with the provider's, lower-cased. Provider errors on a
// single row are logged and that row skipped; they never fail the whole
// check. When no locally-active rows exist the provider is not contacted.
func (s *Service) Check(ctx context.Context, userID uint) (*CheckResult, error) {
	subs, err := s.repo.ListActiveByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("loading subscriptions: %w", err)
	}

	result := &CheckResult{Subscriptions: []CheckedSubscription{}}
	if len(subs) == 0 {
		return result, nil
	}

	token, err := s.provider.GetAccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	for _, sub := range subs {
		remote, err := s.provider.GetSubscription(ctx, token, sub.PayPalSubscriptionID)
		if err != nil {
			log.Printf("[Subscriptions] check of %s failed: %v", sub.PayPalSubscriptionID, err)
			continue
		}

		if paypal.IsActive(remote.Status) {
			result.Subscriptions = append(result.Subscriptions, CheckedSubscription{
				PayPalSubscription: sub,
				PayPalStatus:       remote.Status,
				NextBillingTime:    remote.BillingInfo.NextBillingTime,
			})
			continue
		}

		local := paypal.ToLocalStatus(remote.Status)
		if err := s.repo.UpdateStatus(sub.ID, local); err != nil {
			log.Printf("[Subscriptions] status sync of %s to %s failed: %v", sub.PayPalSubscriptionID, local, err)
		}
	}

	result.HasActiveSubscription = len(result.Subscriptions) > 0
	return result, nil
}

// Cancel revokes the subscription at the provider, then mirrors the
// cancellation locally. The provider call is the gate: if it fails nothing
// local changes. The three local writes after a successful revocation are
// each best-effort, so a failed mirror never resurrects the provider-side
// subscription; the reconcile job catches the drift.
func (s *Service) Cancel(ctx context.Context, userID uint, subscriptionID string) error {
	subscriptionID = strings.TrimSpace(subscriptionID)
	if subscriptionID == "" {
		return ErrMissingSubscriptionID
	}

	token, err := s.provider.GetAccessToken(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	if err := s.provider.CancelSubscription(ctx, token, subscriptionID, paypal.CancelReasonUserRequested); err != nil {
		return fmt.Errorf("cancelling subscription %s: %w", subscriptionID, err)
	}

	if err := s.repo.MarkCancelled(subscriptionID, userID); err != nil {
		log.Printf("[Subscriptions] marking %s cancelled failed: %v", subscriptionID, err)
	}
	if err := s.repo.SetSubscriberEntitlement(userID, false, nil, nil); err != nil {
		log.Printf("[Subscriptions] clearing entitlement of user %d failed: %v", userID, err)
	}
	if err := s.repo.InsertNotification(userID, models.NotificationTypeSubscriptionCancelled,
		cancelledNotificationTitle, cancelledNotificationMessage); err != nil {
		log.Printf("[Subscriptions] cancel notification for user %d failed: %v", userID, err)
	}
	if email, err := s.repo.SubscriberEmail(userID); err != nil {
		log.Printf("[Subscriptions] loading email of user %d failed: %v", userID, err)
	} else if err := s.sendCancellationMail(email, subscriptionID); err != nil {
		log.Printf("[Subscriptions] cancellation mail to %s failed: %v", email, err)
	}

	return nil
}

// Create starts a checkout for the given plan and records a pending
// subscription row keyed by the provider order id. The caller redirects the
// user to the returned approval URL.
func (s *Service) Create(ctx context.Context, userID uint, plan, origin string) (*CreateResult, error) {
	price, ok := PriceFor(plan)
	if !ok {
		return nil, ErrInvalidPlan
	}

	token, err := s.provider.GetAccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	order, err := s.provider.CreateOrder(ctx, token, paypal.OrderRequest{
		Amount:      price.Amount.StringFixed(2),
		Currency:    price.Currency,
		Description: fmt.Sprintf("WatchHub %s - Suscripción Mensual", price.DisplayName),
		ReturnURL:   buildReturnURL(origin, string(price.Plan)),
		CancelURL:   origin + "/payment-canceled",
	})
	if err != nil {
		return nil, fmt.Errorf("creating order: %w", err)
	}

	approval := order.ApprovalLink()
	if approval == "" {
		return nil, fmt.Errorf("order %s has no approval link", order.ID)
	}

	if err := s.repo.CreatePending(&models.PayPalSubscription{
		PayPalSubscriptionID: order.ID,
		UserID:               userID,
		Plan:                 string(price.Plan),
	}); err != nil {
		return nil, fmt.Errorf("recording pending subscription: %w", err)
	}

	return &CreateResult{
		OrderID:     order.ID,
		Plan:        string(price.Plan),
		ApprovalURL: approval,
	}, nil
}

// Confirm activates a pending subscription after the user approved the
// payment and grants the subscriber entitlement for one billing period.
func (s *Service) Confirm(ctx context.Context, userID uint, orderID, plan string) error {
	price, ok := PriceFor(plan)
	if !ok {
		return ErrInvalidPlan
	}

	if err := s.repo.ActivateByProviderID(orderID, userID); err != nil {
		return fmt.Errorf("activating subscription %s: %w", orderID, err)
	}

	tier := string(price.Plan)
	end := time.Now().Add(billingPeriod)
	if err := s.repo.SetSubscriberEntitlement(userID, true, &tier, &end); err != nil {
		return fmt.Errorf("granting entitlement: %w", err)
	}

	if err := s.repo.InsertNotification(userID, models.NotificationTypeSubscriptionActive,
		activatedNotificationTitle, activatedNotificationMessage); err != nil {
		log.Printf("[Subscriptions] activation notification for user %d failed: %v", userID, err)
	}

	return nil
}

// ReconcileUser re-runs the provider check for one user and realigns the
// subscriber entitlement with what the provider still reports as live.
func (s *Service) ReconcileUser(ctx context.Context, userID uint) error {
	result, err := s.Check(ctx, userID)
	if err != nil {
		return err
	}

	if !result.HasActiveSubscription {
		return s.repo.SetSubscriberEntitlement(userID, false, nil, nil)
	}

	best := bestPlan(result.Subscriptions)
	tier := string(best)
	var end *time.Time
	for _, sub := range result.Subscriptions {
		if sub.NextBillingTime != nil && (end == nil || sub.NextBillingTime.After(*end)) {
			end = sub.NextBillingTime
		}
	}
	return s.repo.SetSubscriberEntitlement(userID, true, &tier, end)
}

// ReconcileAll walks every user holding a locally-active subscription.
// Per-user failures are logged and do not stop the sweep.
func (s *Service) ReconcileAll(ctx context.Context) error {
	ids, err := s.repo.ListUserIDsWithActive()
	if err != nil {
		return fmt.Errorf("listing users to reconcile: %w", err)
	}
	for _, id := range ids {
		if err := s.ReconcileUser(ctx, id); err != nil {
			log.Printf("[Subscriptions] reconcile of user %d failed: %v", id, err)
		}
	}
	return nil
}

func bestPlan(subs []CheckedSubscription) entitlements.Plan {
	best := entitlements.Plan("")
	for _, sub := range subs {
		plan := entitlements.Normalize(sub.Plan)
		if entitlements.Rank(plan) > entitlements.Rank(best) {
			best = plan
		}
	}
	return best
}

func buildReturnURL(origin, plan string) string {
	q := url.Values{}
	q.Set("provider", "paypal")
	q.Set("type", "subscription")
	q.Set("plan", plan)
	return origin + "/payment-success?" + q.Encode()
}
