package models

import (
	"time"
)

type Event struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null;size:255" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Date        time.Time `gorm:"not null;index" json:"date"`
	Location    string    `gorm:"not null;size:255" json:"location"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	MediaItems     []MediaItem     `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"media_items,omitempty"`
	GeneratedPosts []GeneratedPost `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"generated_posts,omitempty"`
	Tags           []Tag           `gorm:"many2many:event_tag;constraint:OnDelete:CASCADE" json:"tags,omitempty"`
}

// IsUpcoming reports whether the event date is in the future.
func (e *Event) IsUpcoming() bool {
	return e.Date.After(time.Now())
}

// IsPast reports whether the event date has already passed.
func (e *Event) IsPast() bool {
	return e.Date.Before(time.Now())
}

// IsToday reports whether the event falls on the current calendar day.
func (e *Event) IsToday() bool {
	y1, m1, d1 := e.Date.Date()
	y2, m2, d2 := time.Now().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
