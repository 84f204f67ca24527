package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	NotificationTypeSystem                = "system"
	NotificationTypeSubscriptionCancelled = "subscription_cancelled"
	NotificationTypeSubscriptionActive    = "subscription_active"
	NotificationTypePayment               = "payment"
)

type Notification struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"index" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"-"`
	Title     string         `gorm:"type:varchar(200)" json:"title"`
	Message   string         `gorm:"type:text" json:"message"`
	Type      string         `gorm:"type:varchar(50)" json:"type"`
	IsRead    bool           `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// MarkAsRead marks a notification as read
func (n *Notification) MarkAsRead(db *gorm.DB) error {
	n.IsRead = true
	return db.Model(n).Update("is_read", true).Error
}

// CreateNotification inserts a new notification row for a user
func CreateNotification(db *gorm.DB, userID uint, notificationType string, title string, message string) error {
	notification := Notification{
		UserID:  userID,
		Type:    notificationType,
		Title:   title,
		Message: message,
		IsRead:  false,
	}

	return db.Create(&notification).Error
}
