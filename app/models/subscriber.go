package models

import "time"

// Subscriber is the denormalized per-user entitlement record. It mirrors
// the latest known subscription state; the per-subscription rows stay the
// source of local truth and the reconcile job re-converges drift.
type Subscriber struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	UserID           uint       `gorm:"not null;uniqueIndex" json:"user_id"`
	Email            string     `gorm:"type:varchar(200);not null" json:"email"`
	StripeCustomerID *string    `gorm:"type:varchar(191);default:null" json:"stripe_customer_id,omitempty"`
	Subscribed       bool       `gorm:"default:false" json:"subscribed"`
	SubscriptionTier *string    `gorm:"type:varchar(50);default:null" json:"subscription_tier"`
	SubscriptionEnd  *time.Time `gorm:"type:timestamp;default:null" json:"subscription_end"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// HasActiveEntitlement reports whether the subscriber currently has access.
func (s *Subscriber) HasActiveEntitlement() bool {
	if !s.Subscribed {
		return false
	}
	if s.SubscriptionEnd != nil && s.SubscriptionEnd.Before(time.Now()) {
		return false
	}
	return true
}
