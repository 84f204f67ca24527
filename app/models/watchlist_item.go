package models

import "time"

// WatchlistItem is one saved title in a user's list. Titles come from the
// OMDb catalog and are referenced by their IMDb id.
type WatchlistItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:ux_watchlist_user_imdb,unique,priority:1" json:"user_id"`
	ImdbID    string    `gorm:"type:varchar(20);not null;index:ux_watchlist_user_imdb,unique,priority:2" json:"imdb_id"`
	Title     string    `gorm:"type:varchar(255)" json:"title"`
	PosterURL string    `gorm:"type:varchar(500)" json:"poster_url"`
	Genre     string    `gorm:"type:varchar(100)" json:"genre"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
