package models

import "time"

// Local mirror states for a provider subscription. Provider states other
// than ACTIVE are stored lower-cased as reported (suspended, expired, ...).
const (
	SubscriptionStatusPending   = "pending"
	SubscriptionStatusActive    = "active"
	SubscriptionStatusCancelled = "cancelled"
	SubscriptionStatusSuspended = "suspended"
	SubscriptionStatusExpired   = "expired"
)

// PayPalSubscription mirrors a provider subscription for one user.
// Rows are never hard-deleted by the lifecycle; status moves
// active -> cancelled (cancel) or active -> <provider status> (check)
// and never out of cancelled.
type PayPalSubscription struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	PayPalSubscriptionID string    `gorm:"type:varchar(191);not null;uniqueIndex" json:"paypal_subscription_id"`
	UserID               uint      `gorm:"not null;index:idx_paypal_subscriptions_user_status,priority:1" json:"user_id"`
	Plan                 string    `gorm:"type:varchar(50);not null;default:'basic'" json:"plan"`
	Status               string    `gorm:"type:varchar(32);not null;default:'pending';index:idx_paypal_subscriptions_user_status,priority:2" json:"status"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsCancelled reports whether the subscription reached its terminal state.
func (s *PayPalSubscription) IsCancelled() bool {
	return s.Status == SubscriptionStatusCancelled
}
