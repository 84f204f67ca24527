package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/watchhubtv/watchhub/app/models"
)

// progressRepository implements the ProgressRepository interface
type progressRepository struct {
	db *gorm.DB
}

// NewProgressRepository creates a new playback-progress repository instance
func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

// Upsert saves a playback position, overwriting the existing row for the
// same (user, profile, video) triple.
func (r *progressRepository) Upsert(progress *models.VideoProgress) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "profile_id"}, {Name: "video_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"position_seconds", "duration_seconds", "completed", "last_watched",
		}),
	}).Create(progress).Error
}

// Get retrieves the saved position for one video
func (r *progressRepository) Get(userID, profileID uint, videoID string) (*models.VideoProgress, error) {
	var progress models.VideoProgress
	err := r.db.Where("user_id = ? AND profile_id = ? AND video_id = ?", userID, profileID, videoID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// GetContinueWatching retrieves resumable rows for the profile, most
// recently watched first. Rows below the resume threshold or already
// finished are excluded.
func (r *progressRepository) GetContinueWatching(userID, profileID uint, limit int) ([]models.VideoProgress, error) {
	var rows []models.VideoProgress
	err := r.db.Where("user_id = ? AND profile_id = ? AND position_seconds > 30 AND completed = ?", userID, profileID, false).
		Order("last_watched DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// Delete removes the saved position for one video
func (r *progressRepository) Delete(userID, profileID uint, videoID string) error {
	return r.db.Where("user_id = ? AND profile_id = ? AND video_id = ?", userID, profileID, videoID).
		Delete(&models.VideoProgress{}).Error
}
