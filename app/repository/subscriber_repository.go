package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/watchhubtv/watchhub/app/models"
)

// subscriberRepository implements the SubscriberRepository interface
type subscriberRepository struct {
	db *gorm.DB
}

// NewSubscriberRepository creates a new subscriber repository instance
func NewSubscriberRepository(db *gorm.DB) SubscriberRepository {
	return &subscriberRepository{db: db}
}

// GetByUserID retrieves the entitlement row for a user
func (r *subscriberRepository) GetByUserID(userID uint) (*models.Subscriber, error) {
	var subscriber models.Subscriber
	err := r.db.Where("user_id = ?", userID).First(&subscriber).Error
	if err != nil {
		return nil, err
	}
	return &subscriber, nil
}

// Upsert creates the entitlement row or overwrites the existing one for
// the same user.
func (r *subscriberRepository) Upsert(subscriber *models.Subscriber) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"email", "subscribed", "subscription_tier", "subscription_end", "updated_at",
		}),
	}).Create(subscriber).Error
}

// CountSubscribed returns how many users currently hold an entitlement
func (r *subscriberRepository) CountSubscribed() (int64, error) {
	var count int64
	err := r.db.Model(&models.Subscriber{}).
		Where("subscribed = ?", true).
		Count(&count).Error
	return count, err
}

// TierCounts returns subscriber counts grouped by tier
func (r *subscriberRepository) TierCounts() (map[string]int64, error) {
	var rows []struct {
		Tier  string
		Count int64
	}
	err := r.db.Model(&models.Subscriber{}).
		Select("subscription_tier AS tier, COUNT(*) AS count").
		Where("subscribed = ? AND subscription_tier IS NOT NULL", true).
		Group("subscription_tier").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Tier] = row.Count
	}
	return counts, nil
}

// ExpireLapsed clears the entitlement of subscribers whose period ended
// before now. Returns how many rows were downgraded.
func (r *subscriberRepository) ExpireLapsed(now time.Time) (int64, error) {
	result := r.db.Model(&models.Subscriber{}).
		Where("subscribed = ? AND subscription_end IS NOT NULL AND subscription_end < ?", true, now).
		Updates(map[string]interface{}{
			"subscribed":        false,
			"subscription_tier": nil,
		})
	return result.RowsAffected, result.Error
}
