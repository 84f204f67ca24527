package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	ProfileTypeAdult = "adult"
	ProfileTypeTeen  = "teen"
	ProfileTypeKids  = "kids"
)

// MaxProfilesPerAccount is the hard cap; entitlements may lower it per plan.
const MaxProfilesPerAccount = 4

// UserProfile is a viewing profile within one account, Netflix-style.
type UserProfile struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"-"`
	Name      string         `gorm:"type:varchar(100);not null" json:"name" validate:"required,min=1,max=100"`
	AvatarID  string         `gorm:"type:varchar(50)" json:"avatar_id"`
	Type      string         `gorm:"type:varchar(10);not null;default:'adult'" json:"type" validate:"oneof=adult teen kids"`
	IsMain    bool           `gorm:"default:false" json:"is_main"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *UserProfile) Validate() error {
	v := validator.New()

	return v.Struct(p)
}
