package models

import (
	"time"
)

// Generated post statuses
const (
	PostStatusDraft     = "draft"
	PostStatusScheduled = "scheduled"
	PostStatusPublished = "published"
)

type GeneratedPost struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	EventID     *uint      `gorm:"index" json:"event_id"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	Platform    string     `gorm:"size:50" json:"platform"`
	Status      string     `gorm:"size:20;default:'draft'" json:"status"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
