package repository

import (
	"gorm.io/gorm"

	"github.com/watchhubtv/watchhub/app/models"
)

// subscriptionRepository implements the SubscriptionRepository interface
type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository instance
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// GetByUserID retrieves every subscription the user ever held, newest first
func (r *subscriptionRepository) GetByUserID(userID uint) ([]models.PayPalSubscription, error) {
	var subs []models.PayPalSubscription
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&subs).Error
	return subs, err
}

// List retrieves a page of all subscriptions, newest first
func (r *subscriptionRepository) List(offset, limit int) ([]models.PayPalSubscription, error) {
	var subs []models.PayPalSubscription
	err := r.db.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&subs).Error
	return subs, err
}

// Count returns the total number of subscription rows
func (r *subscriptionRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.PayPalSubscription{}).Count(&count).Error
	return count, err
}

// CountByStatus returns how many rows currently carry the given status
func (r *subscriptionRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.PayPalSubscription{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
