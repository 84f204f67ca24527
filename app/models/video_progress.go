package models

import "time"

// completedThreshold marks a title as finished once 90% has been watched.
const completedThreshold = 0.9

// VideoProgress stores playback position per profile and title, backing
// the continue-watching row on the home screen.
type VideoProgress struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"not null;index:ux_progress_user_profile_video,unique,priority:1" json:"user_id"`
	ProfileID       uint      `gorm:"not null;index:ux_progress_user_profile_video,unique,priority:2" json:"profile_id"`
	VideoID         string    `gorm:"type:varchar(64);not null;index:ux_progress_user_profile_video,unique,priority:3" json:"video_id"`
	PositionSeconds float64   `gorm:"not null;default:0" json:"current_time"`
	DurationSeconds float64   `gorm:"not null;default:0" json:"duration"`
	Completed       bool      `gorm:"default:false" json:"completed"`
	LastWatched     time.Time `gorm:"autoUpdateTime" json:"last_watched"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Percentage returns how much of the title has been watched (0-100).
func (p *VideoProgress) Percentage() float64 {
	if p.DurationSeconds <= 0 {
		return 0
	}
	pct := p.PositionSeconds / p.DurationSeconds * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// ShouldResume reports whether playback should offer to resume: some real
// progress exists and the title is not finished yet.
func (p *VideoProgress) ShouldResume() bool {
	return p.PositionSeconds > 30 && !p.Completed
}

// UpdatePosition records a new playback position and recomputes Completed.
func (p *VideoProgress) UpdatePosition(position, duration float64) {
	p.PositionSeconds = position
	p.DurationSeconds = duration
	p.Completed = duration > 0 && position >= duration*completedThreshold
}
