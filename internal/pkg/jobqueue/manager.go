package jobqueue

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/watchhubtv/watchhub/internal/pkg/env"
	"github.com/watchhubtv/watchhub/internal/pkg/metrics/counter"
)

// Manager manages the global job queue and background tasks
type Manager struct {
	queue              *Queue
	reconcileTicker    *time.Ticker
	expiryTicker       *time.Ticker
	counterFlushTicker *time.Ticker
	stopCh             chan struct{}
	wg                 sync.WaitGroup
	mu                 sync.Mutex
	running            bool
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// GetManager returns the global job queue manager (singleton)
func GetManager() *Manager {
	managerOnce.Do(func() {
		workerCount := envInt("JOBQUEUE_WORKER_COUNT", 3)

		globalManager = &Manager{
			queue:  NewQueue(workerCount),
			stopCh: make(chan struct{}),
		}
	})
	return globalManager
}

// GetQueue returns the managed job queue
func (m *Manager) GetQueue() *Queue {
	return m.queue
}

// Start starts the job queue and background tasks
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	// Recreate stop channel for each start cycle so manager can be restarted safely.
	m.stopCh = make(chan struct{})
	m.running = true
	log.Info("[JobQueue Manager] Starting job queue and background tasks")

	// Start the job queue
	m.queue.Start()

	reconcileInterval := time.Duration(envInt("SUBSCRIPTION_RECONCILE_INTERVAL_MINUTES", 360)) * time.Minute
	expiryInterval := time.Duration(envInt("SUBSCRIBER_EXPIRY_INTERVAL_MINUTES", 60)) * time.Minute

	// Periodic provider re-check for subscriptions that are still locally active
	m.reconcileTicker = time.NewTicker(reconcileInterval)
	m.wg.Add(1)
	go m.reconcileWorker(reconcileInterval)

	// Periodic sweep clearing entitlements whose paid period has lapsed
	m.expiryTicker = time.NewTicker(expiryInterval)
	m.wg.Add(1)
	go m.expiryWorker(expiryInterval)

	// Start counter flush worker (Redis -> DB) every 5 seconds
	m.counterFlushTicker = time.NewTicker(5 * time.Second)
	m.wg.Add(1)
	go m.counterFlushWorker()

	log.Info("[JobQueue Manager] Started successfully")
}

// Stop stops the job queue and background tasks
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	log.Info("[JobQueue Manager] Stopping job queue and background tasks...")

	if m.reconcileTicker != nil {
		m.reconcileTicker.Stop()
	}
	if m.expiryTicker != nil {
		m.expiryTicker.Stop()
	}
	if m.counterFlushTicker != nil {
		m.counterFlushTicker.Stop()
	}

	// Signal workers to stop
	close(m.stopCh)
	m.stopCh = nil
	m.running = false

	// Wait for background workers to finish
	m.wg.Wait()

	// Stop the job queue
	m.queue.Stop()

	log.Info("[JobQueue Manager] Stopped successfully")
}

// reconcileWorker periodically enqueues a full subscription reconcile job
func (m *Manager) reconcileWorker(interval time.Duration) {
	defer m.wg.Done()
	log.Infof("[JobQueue Manager] Started reconcile worker (interval: %s)", interval)

	for {
		select {
		case <-m.stopCh:
			log.Info("[JobQueue Manager] Reconcile worker stopping")
			return
		case <-m.reconcileTicker.C:
			log.Debug("[JobQueue Manager] Enqueuing subscription reconcile job")
			payload := SubscriptionReconcileJobPayload{UserID: 0}
			if _, err := m.queue.EnqueueJob(JobTypeSubscriptionReconcile, payload.ToMap()); err != nil {
				log.Errorf("[JobQueue Manager] Error enqueuing reconcile job: %v", err)
			}
		}
	}
}

// expiryWorker periodically enqueues a subscriber expiry sweep job
func (m *Manager) expiryWorker(interval time.Duration) {
	defer m.wg.Done()
	log.Infof("[JobQueue Manager] Started expiry worker (interval: %s)", interval)

	for {
		select {
		case <-m.stopCh:
			log.Info("[JobQueue Manager] Expiry worker stopping")
			return
		case <-m.expiryTicker.C:
			log.Debug("[JobQueue Manager] Enqueuing subscriber expiry job")
			if _, err := m.queue.EnqueueJob(JobTypeSubscriberExpiry, map[string]interface{}{}); err != nil {
				log.Errorf("[JobQueue Manager] Error enqueuing expiry job: %v", err)
			}
		}
	}
}

// counterFlushWorker periodically flushes buffered view counters from Redis to DB
func (m *Manager) counterFlushWorker() {
	defer m.wg.Done()
	for {
		select {
		case <-m.stopCh:
			log.Info("[JobQueue Manager] Counter flush worker stopping")
			return
		case <-m.counterFlushTicker.C:
			if err := counter.FlushAll(); err != nil {
				log.Errorf("[JobQueue Manager] Counter flush error: %v", err)
			}
		}
	}
}

// EnqueueUserReconcile schedules an immediate reconcile for a single user.
func (m *Manager) EnqueueUserReconcile(userID uint) (*Job, error) {
	payload := SubscriptionReconcileJobPayload{UserID: userID}
	return m.queue.EnqueueJob(JobTypeSubscriptionReconcile, payload.ToMap())
}

// IsRunning returns whether the manager is currently running
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func envInt(key string, def int) int {
	raw := env.GetEnv(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	return v
}
