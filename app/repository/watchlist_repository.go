package repository

import (
	"gorm.io/gorm"

	"github.com/watchhubtv/watchhub/app/models"
)

// watchlistRepository implements the WatchlistRepository interface
type watchlistRepository struct {
	db *gorm.DB
}

// NewWatchlistRepository creates a new watchlist repository instance
func NewWatchlistRepository(db *gorm.DB) WatchlistRepository {
	return &watchlistRepository{db: db}
}

// Add saves a title to the user's list. Re-adding an existing title is a
// no-op thanks to the unique (user_id, imdb_id) index.
func (r *watchlistRepository) Add(item *models.WatchlistItem) error {
	err := r.db.Create(item).Error
	if err == gorm.ErrDuplicatedKey {
		return nil
	}
	return err
}

// Remove deletes a title from the user's list
func (r *watchlistRepository) Remove(userID uint, imdbID string) error {
	return r.db.Where("user_id = ? AND imdb_id = ?", userID, imdbID).
		Delete(&models.WatchlistItem{}).Error
}

// GetByUserID retrieves the user's list, newest additions first
func (r *watchlistRepository) GetByUserID(userID uint) ([]models.WatchlistItem, error) {
	var items []models.WatchlistItem
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

// Exists reports whether a title is already on the user's list
func (r *watchlistRepository) Exists(userID uint, imdbID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.WatchlistItem{}).
		Where("user_id = ? AND imdb_id = ?", userID, imdbID).
		Count(&count).Error
	return count > 0, err
}

// CountByUserID returns the size of the user's list
func (r *watchlistRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.WatchlistItem{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
