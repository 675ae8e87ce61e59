package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/eventline/eventline/internal/models"
)

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("record not found")

type EventService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewEventService(db *gorm.DB, logger *zap.Logger) *EventService {
	return &EventService{
		db:     db,
		logger: logger,
	}
}

type CreateEventInput struct {
	Title       string
	Description string
	Date        time.Time
	Location    string
	Tags        []uint
}

// UpdateEventInput carries partial updates. Nil fields are left unchanged;
// a non-nil Tags slice replaces the full association set.
type UpdateEventInput struct {
	Title       *string
	Description *string
	Date        *time.Time
	Location    *string
	Tags        []uint
}

func (s *EventService) List(ctx context.Context, filter EventFilter, page PageParams) ([]models.Event, PageMeta, error) {
	order, err := page.orderClause()
	if err != nil {
		return nil, PageMeta{}, err
	}

	query := filter.apply(s.db.WithContext(ctx).Model(&models.Event{}))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, PageMeta{}, fmt.Errorf("failed to count events: %w", err)
	}

	var events []models.Event
	if err := query.Order(order).Limit(page.PerPage).Offset(page.offset()).Find(&events).Error; err != nil {
		return nil, PageMeta{}, fmt.Errorf("failed to list events: %w", err)
	}

	return events, newPageMeta(total, page, len(events)), nil
}

func (s *EventService) Create(ctx context.Context, in CreateEventInput) (*models.Event, error) {
	event := &models.Event{
		Title:       in.Title,
		Description: in.Description,
		Date:        in.Date,
		Location:    in.Location,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return err
		}
		if len(in.Tags) > 0 {
			var tags []models.Tag
			if err := tx.Find(&tags, in.Tags).Error; err != nil {
				return err
			}
			if err := tx.Model(event).Association("Tags").Append(&tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.logger.Info("Event created", zap.Uint("id", event.ID), zap.String("title", event.Title))
	return event, nil
}

func (s *EventService) Get(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	err := s.db.WithContext(ctx).
		Preload("MediaItems").
		Preload("GeneratedPosts").
		Preload("Tags").
		First(&event, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	return &event, nil
}

func (s *EventService) Update(ctx context.Context, id uint, in UpdateEventInput) (*models.Event, error) {
	var event models.Event
	if err := s.db.WithContext(ctx).First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		updates["title"] = *in.Title
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Date != nil {
		updates["date"] = *in.Date
	}
	if in.Location != nil {
		updates["location"] = *in.Location
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&event).Updates(updates).Error; err != nil {
				return err
			}
		}
		if in.Tags != nil {
			if len(in.Tags) == 0 {
				if err := tx.Model(&event).Association("Tags").Clear(); err != nil {
					return err
				}
			} else {
				var tags []models.Tag
				if err := tx.Find(&tags, in.Tags).Error; err != nil {
					return err
				}
				if err := tx.Model(&event).Association("Tags").Replace(&tags); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	return &event, nil
}

func (s *EventService) Delete(ctx context.Context, id uint) error {
	// Associated media items, generated posts and join rows are removed by
	// the store's cascade constraints.
	result := s.db.WithContext(ctx).Delete(&models.Event{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Info("Event deleted", zap.Uint("id", id))
	return nil
}

// SyncTags replaces the event's tag set with exactly the given tags. An empty
// list detaches everything.
func (s *EventService) SyncTags(ctx context.Context, id uint, tagIDs []uint) ([]models.Tag, error) {
	var event models.Event
	if err := s.db.WithContext(ctx).First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}

	assoc := s.db.WithContext(ctx).Model(&event).Association("Tags")

	if len(tagIDs) == 0 {
		if err := assoc.Clear(); err != nil {
			return nil, fmt.Errorf("failed to sync tags: %w", err)
		}
		return []models.Tag{}, nil
	}

	var tags []models.Tag
	if err := s.db.WithContext(ctx).Find(&tags, tagIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}
	if err := assoc.Replace(&tags); err != nil {
		return nil, fmt.Errorf("failed to sync tags: %w", err)
	}

	return tags, nil
}

func (s *EventService) ListMedia(ctx context.Context, eventID uint, page PageParams) ([]models.MediaItem, PageMeta, error) {
	if err := s.ensureEventExists(ctx, eventID); err != nil {
		return nil, PageMeta{}, err
	}

	query := s.db.WithContext(ctx).Model(&models.MediaItem{}).Where("event_id = ?", eventID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, PageMeta{}, fmt.Errorf("failed to count media items: %w", err)
	}

	var items []models.MediaItem
	if err := query.Order("id asc").Limit(page.PerPage).Offset(page.offset()).Find(&items).Error; err != nil {
		return nil, PageMeta{}, fmt.Errorf("failed to list media items: %w", err)
	}

	return items, newPageMeta(total, page, len(items)), nil
}

func (s *EventService) ListPosts(ctx context.Context, eventID uint, page PageParams) ([]models.GeneratedPost, PageMeta, error) {
	if err := s.ensureEventExists(ctx, eventID); err != nil {
		return nil, PageMeta{}, err
	}

	query := s.db.WithContext(ctx).Model(&models.GeneratedPost{}).Where("event_id = ?", eventID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, PageMeta{}, fmt.Errorf("failed to count generated posts: %w", err)
	}

	var posts []models.GeneratedPost
	if err := query.Order("id asc").Limit(page.PerPage).Offset(page.offset()).Find(&posts).Error; err != nil {
		return nil, PageMeta{}, fmt.Errorf("failed to list generated posts: %w", err)
	}

	return posts, newPageMeta(total, page, len(posts)), nil
}

// ExistingTagIDs reports which of the given tag IDs are present in the store.
func (s *EventService) ExistingTagIDs(ctx context.Context, ids []uint) (map[uint]bool, error) {
	existing := map[uint]bool{}
	if len(ids) == 0 {
		return existing, nil
	}

	var found []uint
	err := s.db.WithContext(ctx).Model(&models.Tag{}).Where("id IN ?", ids).Pluck("id", &found).Error
	if err != nil {
		return nil, fmt.Errorf("failed to look up tags: %w", err)
	}

	for _, id := range found {
		existing[id] = true
	}
	return existing, nil
}

func (s *EventService) ensureEventExists(ctx context.Context, id uint) error {
	var event models.Event
	err := s.db.WithContext(ctx).Select("id").First(&event, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load event: %w", err)
	}
	return nil
}
