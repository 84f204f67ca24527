package repository

import (
	"gorm.io/gorm"

	"github.com/watchhubtv/watchhub/app/models"
)

// profileRepository implements the ProfileRepository interface
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new viewing-profile repository instance
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// Create creates a new viewing profile
func (r *profileRepository) Create(profile *models.UserProfile) error {
	return r.db.Create(profile).Error
}

// GetByID retrieves a profile by its ID
func (r *profileRepository) GetByID(id uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.db.First(&profile, id).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetByUserID retrieves all profiles belonging to a user, main first
func (r *profileRepository) GetByUserID(userID uint) ([]models.UserProfile, error) {
	var profiles []models.UserProfile
	err := r.db.Where("user_id = ?", userID).
		Order("is_main DESC, created_at ASC").
		Find(&profiles).Error
	return profiles, err
}

// GetMain retrieves the account's main profile
func (r *profileRepository) GetMain(userID uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.db.Where("user_id = ? AND is_main = ?", userID, true).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// CountByUserID returns how many profiles the account already has
func (r *profileRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.UserProfile{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// Update updates an existing profile
func (r *profileRepository) Update(profile *models.UserProfile) error {
	return r.db.Save(profile).Error
}

// Delete removes a profile, scoped to its owner
func (r *profileRepository) Delete(id uint, userID uint) error {
	return r.db.Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.UserProfile{}).Error
}
