package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/eventline/eventline/internal/models"
)

// Seeder populates the store with demo data: tags, a spread of past/today/
// upcoming events with attached media and posts, and standalone media items.
type Seeder struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewSeeder(db *gorm.DB, logger *zap.Logger) *Seeder {
	return &Seeder{
		db:     db,
		logger: logger,
	}
}

var seedTagNames = []string{
	// Event types
	"conference", "workshop", "webinar", "meetup", "launch",
	"networking", "seminar", "exhibition", "fundraiser", "celebration",
	// Content categories
	"marketing", "technology", "business", "design", "education",
	"health", "finance", "entertainment", "travel", "food",
	// Content types
	"announcement", "update", "tutorial", "guide", "review",
	"interview", "case-study", "behind-the-scenes", "tips", "insights",
	// Engagement tags
	"trending", "mustread", "featured", "exclusive", "breaking",
	"popular", "viral", "spotlight", "recommended", "top-picks",
}

var seedPlatforms = []string{"twitter", "linkedin", "facebook", "instagram"}

var seedFileTypes = []string{"image", "document", "video"}

func (s *Seeder) Run(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.seedTags(tx); err != nil {
			return err
		}

		events, err := s.seedEvents(tx)
		if err != nil {
			return err
		}

		for i := range events {
			if err := s.seedEventMedia(tx, &events[i]); err != nil {
				return err
			}
			if err := s.seedEventPosts(tx, &events[i]); err != nil {
				return err
			}
		}

		// Standalone media items, unaffected by any event deletion
		for i := 0; i < 10; i++ {
			if err := tx.Create(s.newMediaItem(nil)).Error; err != nil {
				return fmt.Errorf("failed to seed standalone media item: %w", err)
			}
		}

		s.logger.Info("Seed completed", zap.Int("events", len(events)), zap.Int("tags", len(seedTagNames)))
		return nil
	})
}

func (s *Seeder) seedTags(tx *gorm.DB) error {
	for _, name := range seedTagNames {
		if err := tx.Create(&models.Tag{Name: name}).Error; err != nil {
			return fmt.Errorf("failed to seed tag %q: %w", name, err)
		}
	}
	return nil
}

func (s *Seeder) seedEvents(tx *gorm.DB) ([]models.Event, error) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var dates []time.Time
	for i := 0; i < 5; i++ {
		dates = append(dates, now.AddDate(0, 0, -(1 + rand.Intn(30))))
	}
	for i := 0; i < 2; i++ {
		dates = append(dates, today.Add(time.Duration(1+rand.Intn(23))*time.Hour))
	}
	for i := 0; i < 8; i++ {
		dates = append(dates, now.AddDate(0, 0, 1+rand.Intn(60)))
	}

	events := make([]models.Event, 0, len(dates))
	for i, date := range dates {
		event := models.Event{
			Title:       fmt.Sprintf("Seed event %d", i+1),
			Description: "Automatically generated demo event.",
			Date:        date,
			Location:    fmt.Sprintf("Venue %d, Demo City", i+1),
		}
		if err := tx.Create(&event).Error; err != nil {
			return nil, fmt.Errorf("failed to seed event: %w", err)
		}
		events = append(events, event)
	}
	return events, nil
}

func (s *Seeder) seedEventMedia(tx *gorm.DB, event *models.Event) error {
	count := 1 + rand.Intn(5)
	for i := 0; i < count; i++ {
		if err := tx.Create(s.newMediaItem(&event.ID)).Error; err != nil {
			return fmt.Errorf("failed to seed media item: %w", err)
		}
	}
	return nil
}

func (s *Seeder) seedEventPosts(tx *gorm.DB, event *models.Event) error {
	// Past events are more likely to have posts
	count := rand.Intn(3)
	if event.IsPast() {
		count = 1 + rand.Intn(3)
	}

	for i := 0; i < count; i++ {
		post := models.GeneratedPost{
			EventID:  &event.ID,
			Content:  fmt.Sprintf("Generated post for %s", event.Title),
			Platform: seedPlatforms[rand.Intn(len(seedPlatforms))],
			Status:   seedPostStatus(event),
		}
		if event.IsUpcoming() {
			// Posts are scheduled ahead of the event date
			scheduled := event.Date.AddDate(0, 0, -(1 + rand.Intn(7)))
			post.ScheduledAt = &scheduled
		}
		if post.Status == models.PostStatusPublished {
			published := time.Now().Add(-time.Duration(rand.Intn(48)) * time.Hour)
			post.PublishedAt = &published
		}
		if err := tx.Create(&post).Error; err != nil {
			return fmt.Errorf("failed to seed generated post: %w", err)
		}
	}
	return nil
}

func seedPostStatus(event *models.Event) string {
	switch {
	case event.IsPast():
		return models.PostStatusPublished
	case event.IsToday():
		if rand.Intn(2) == 0 {
			return models.PostStatusPublished
		}
		return models.PostStatusScheduled
	default:
		if rand.Intn(2) == 0 {
			return models.PostStatusDraft
		}
		return models.PostStatusScheduled
	}
}

func (s *Seeder) newMediaItem(eventID *uint) *models.MediaItem {
	ext := []string{"jpg", "png", "pdf"}[rand.Intn(3)]
	return &models.MediaItem{
		EventID:  eventID,
		Filename: fmt.Sprintf("upload-%d.%s", rand.Intn(100000), ext),
		Path:     "media/" + uuid.NewString(),
		Type:     seedFileTypes[rand.Intn(len(seedFileTypes))],
		Size:     int64(1000 + rand.Intn(10000000)),
		Metadata: models.JSONMap{"width": 1920, "height": 1080},
	}
}
