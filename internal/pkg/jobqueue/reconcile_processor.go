package jobqueue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/watchhubtv/watchhub/app/repository"
	"github.com/watchhubtv/watchhub/internal/pkg/subscriptions"
)

var (
	subscriptionSvc   *subscriptions.Service
	subscriptionSvcMu sync.RWMutex
)

// SetSubscriptionService wires the subscription service used by reconcile jobs.
// Must be called during startup before the queue starts processing.
func SetSubscriptionService(svc *subscriptions.Service) {
	subscriptionSvcMu.Lock()
	defer subscriptionSvcMu.Unlock()
	subscriptionSvc = svc
}

func getSubscriptionService() *subscriptions.Service {
	subscriptionSvcMu.RLock()
	defer subscriptionSvcMu.RUnlock()
	return subscriptionSvc
}

// processSubscriptionReconcileJob re-checks subscriptions with the payment
// provider and syncs the local rows and entitlements. A payload with user_id 0
// reconciles every user that still has a locally active subscription.
func (q *Queue) processSubscriptionReconcileJob(ctx context.Context, job *Job) error {
	svc := getSubscriptionService()
	if svc == nil {
		return fmt.Errorf("subscription service not configured")
	}

	payload, err := SubscriptionReconcileJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid reconcile payload: %w", err)
	}

	if payload.UserID > 0 {
		log.Infof("[JobQueue] Reconciling subscriptions for user %d", payload.UserID)
		return svc.ReconcileUser(ctx, payload.UserID)
	}

	log.Info("[JobQueue] Reconciling subscriptions for all active users")
	return svc.ReconcileAll(ctx)
}

// processSubscriberExpiryJob clears the entitlement of subscribers whose paid
// period has lapsed without a renewal being recorded.
func (q *Queue) processSubscriberExpiryJob(ctx context.Context, job *Job) error {
	repos := repository.GetGlobalRepositories()
	expired, err := repos.Subscriber.ExpireLapsed(time.Now())
	if err != nil {
		return fmt.Errorf("subscriber expiry sweep failed: %w", err)
	}

	if expired > 0 {
		log.Infof("[JobQueue] Expired %d lapsed subscribers", expired)
	}
	return nil
}
