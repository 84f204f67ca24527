package subscriptions

import (
	"time"

	"gorm.io/gorm"

	"github.com/watchhubtv/watchhub/app/models"
)

// Repository abstracts the persistence the lifecycle touches so the
// service can be tested without a database.
type Repository interface {
	ListActiveByUser(userID uint) ([]models.PayPalSubscription, error)
	ListUserIDsWithActive() ([]uint, error)
	CreatePending(sub *models.PayPalSubscription) error
	UpdateStatus(id uint, status string) error
	ActivateByProviderID(providerID string, userID uint) error
	MarkCancelled(providerID string, userID uint) error
	SetSubscriberEntitlement(userID uint, subscribed bool, tier *string, end *time.Time) error
	SubscriberEmail(userID uint) (string, error)
	InsertNotification(userID uint, notifType, title, message string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository returns the GORM-backed repository.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) ListActiveByUser(userID uint) ([]models.PayPalSubscription, error) {
	var subs []models.PayPalSubscription
	err := r.db.Where("user_id = ? AND status = ?", userID, models.SubscriptionStatusActive).
		Order("created_at DESC").
		Find(&subs).Error
	return subs, err
}

func (r *gormRepository) ListUserIDsWithActive() ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.PayPalSubscription{}).
		Where("status = ?", models.SubscriptionStatusActive).
		Distinct("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *gormRepository) CreatePending(sub *models.PayPalSubscription) error {
	sub.Status = models.SubscriptionStatusPending
	return r.db.Create(sub).Error
}

func (r *gormRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.PayPalSubscription{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *gormRepository) ActivateByProviderID(providerID string, userID uint) error {
	return r.db.Model(&models.PayPalSubscription{}).
		Where("paypal_subscription_id = ? AND user_id = ?", providerID, userID).
		Update("status", models.SubscriptionStatusActive).Error
}

func (r *gormRepository) MarkCancelled(providerID string, userID uint) error {
	return r.db.Model(&models.PayPalSubscription{}).
		Where("paypal_subscription_id = ? AND user_id = ?", providerID, userID).
		Update("status", models.SubscriptionStatusCancelled).Error
}

func (r *gormRepository) SetSubscriberEntitlement(userID uint, subscribed bool, tier *string, end *time.Time) error {
	return r.db.Model(&models.Subscriber{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"subscribed":        subscribed,
			"subscription_tier": tier,
			"subscription_end":  end,
		}).Error
}

func (r *gormRepository) SubscriberEmail(userID uint) (string, error) {
	var sub models.Subscriber
	if err := r.db.Where("user_id = ?", userID).First(&sub).Error; err != nil {
		return "", err
	}
	return sub.Email, nil
}

func (r *gormRepository) InsertNotification(userID uint, notifType, title, message string) error {
	return models.CreateNotification(r.db, userID, notifType, title, message)
}
