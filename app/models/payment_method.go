package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	PaymentProviderPayPal = "paypal"
	PaymentProviderCard   = "card"
)

// PaymentMethod is a saved payment option shown in the account settings.
// Only display metadata is stored; the provider holds the real instrument.
type PaymentMethod struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Provider  string         `gorm:"type:varchar(20);not null" json:"provider" validate:"oneof=paypal card"`
	Label     string         `gorm:"type:varchar(100)" json:"label" validate:"max=100"`
	Brand     string         `gorm:"type:varchar(50)" json:"brand"`
	Last4     string         `gorm:"type:varchar(4)" json:"last4" validate:"max=4"`
	IsDefault bool           `gorm:"default:false" json:"is_default"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (m *PaymentMethod) Validate() error {
	v := validator.New()

	return v.Struct(m)
}
