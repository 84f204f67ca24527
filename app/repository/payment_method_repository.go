package repository

import (
	"gorm.io/gorm"

	"github.com/watchhubtv/watchhub/app/models"
)

// paymentMethodRepository implements the PaymentMethodRepository interface
type paymentMethodRepository struct {
	db *gorm.DB
}

// NewPaymentMethodRepository creates a new payment method repository instance
func NewPaymentMethodRepository(db *gorm.DB) PaymentMethodRepository {
	return &paymentMethodRepository{db: db}
}

// Create stores a new payment method. The account's first method becomes
// the default automatically.
func (r *paymentMethodRepository) Create(method *models.PaymentMethod) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.PaymentMethod{}).
			Where("user_id = ?", method.UserID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			method.IsDefault = true
		}
		return tx.Create(method).Error
	})
}

// GetByUserID retrieves the user's payment methods, default first
func (r *paymentMethodRepository) GetByUserID(userID uint) ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	err := r.db.Where("user_id = ?", userID).
		Order("is_default DESC, created_at ASC").
		Find(&methods).Error
	return methods, err
}

// GetDefault retrieves the user's default payment method
func (r *paymentMethodRepository) GetDefault(userID uint) (*models.PaymentMethod, error) {
	var method models.PaymentMethod
	err := r.db.Where("user_id = ? AND is_default = ?", userID, true).First(&method).Error
	if err != nil {
		return nil, err
	}
	return &method, nil
}

// SetDefault makes one method the default and clears the flag on the rest
func (r *paymentMethodRepository) SetDefault(id uint, userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.PaymentMethod{}).
			Where("id = ? AND user_id = ?", id, userID).
			Update("is_default", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&models.PaymentMethod{}).
			Where("user_id = ? AND id <> ?", userID, id).
			Update("is_default", false).Error
	})
}

// Delete removes a payment method, scoped to its owner
func (r *paymentMethodRepository) Delete(id uint, userID uint) error {
	return r.db.Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.PaymentMethod{}).Error
}
