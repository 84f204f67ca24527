package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	MovieStatusPublished = "published"
	MovieStatusDraft     = "draft"
)

// Movie is an admin-managed catalog entry. Video and poster assets are
// external URLs; no binary content is stored locally.
type Movie struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Title     string         `gorm:"type:varchar(255);not null;index" json:"title" validate:"required,max=255"`
	Genre     string         `gorm:"type:varchar(100)" json:"genre"`
	Status    string         `gorm:"type:varchar(20);not null;default:'draft';index" json:"status" validate:"oneof=published draft"`
	Views     int64          `gorm:"default:0" json:"views"`
	Rating    float64        `gorm:"default:0" json:"rating" validate:"min=0,max=10"`
	PosterURL string         `gorm:"type:varchar(500)" json:"poster_url"`
	VideoURL  string         `gorm:"type:varchar(500)" json:"video_url"`
	ImdbID    string         `gorm:"type:varchar(20);index" json:"imdb_id"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (m *Movie) Validate() error {
	v := validator.New()

	return v.Struct(m)
}

// IsPublished reports whether the movie is visible in the catalog.
func (m *Movie) IsPublished() bool {
	return m.Status == MovieStatusPublished
}
