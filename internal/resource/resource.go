// Package resource maps store entities to their canonical JSON wire shapes.
// Relation fields are driven by explicit projection flags instead of
// inspecting what happened to be fetched; a relation that was not requested
// still appears in the output as an empty collection, never as an omitted
// key.
package resource

import (
	"fmt"
	"time"

	"github.com/eventline/eventline/internal/models"
	"github.com/eventline/eventline/internal/service"
)

// nativeTimeFormat is the store's own timestamp rendering. Generated posts
// keep it on the wire instead of ISO-8601 (see DESIGN.md).
const nativeTimeFormat = "2006-01-02 15:04:05"

// Include selects which event relations are serialized.
type Include struct {
	Media bool
	Posts bool
	Tags  bool
}

// IncludeAll requests every relation, as the show endpoint does.
var IncludeAll = Include{Media: true, Posts: true, Tags: true}

type Event struct {
	ID             uint            `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Date           string          `json:"date"`
	Location       string          `json:"location"`
	CreatedAt      string          `json:"created_at"`
	UpdatedAt      string          `json:"updated_at"`
	MediaItems     []MediaItem     `json:"media_items"`
	GeneratedPosts []GeneratedPost `json:"generated_posts"`
	Tags           []Tag           `json:"tags"`
}

type MediaItem struct {
	ID             uint            `json:"id"`
	EventID        *uint           `json:"event_id"`
	FilePath       string          `json:"file_path"`
	FileType       string          `json:"file_type"`
	FileSize       int64           `json:"file_size"`
	CreatedAt      string          `json:"created_at"`
	UpdatedAt      string          `json:"updated_at"`
	Event          *Event          `json:"event"`
	GeneratedPosts []GeneratedPost `json:"generated_posts"`
}

type GeneratedPost struct {
	ID          uint    `json:"id"`
	EventID     *uint   `json:"event_id"`
	Content     string  `json:"content"`
	Platform    string  `json:"platform"`
	Status      string  `json:"status"`
	ScheduledAt *string `json:"scheduled_at"`
	PublishedAt *string `json:"published_at"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type Tag struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func NewEvent(e *models.Event, inc Include) Event {
	r := Event{
		ID:             e.ID,
		Title:          e.Title,
		Description:    e.Description,
		Date:           e.Date.Format(time.RFC3339),
		Location:       e.Location,
		CreatedAt:      e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      e.UpdatedAt.Format(time.RFC3339),
		MediaItems:     []MediaItem{},
		GeneratedPosts: []GeneratedPost{},
		Tags:           []Tag{},
	}

	if inc.Media {
		for i := range e.MediaItems {
			r.MediaItems = append(r.MediaItems, NewMediaItem(&e.MediaItems[i], false))
		}
	}
	if inc.Posts {
		for i := range e.GeneratedPosts {
			r.GeneratedPosts = append(r.GeneratedPosts, NewGeneratedPost(&e.GeneratedPosts[i]))
		}
	}
	if inc.Tags {
		for _, t := range e.Tags {
			r.Tags = append(r.Tags, NewTag(&t))
		}
	}
	return r
}

func NewMediaItem(m *models.MediaItem, includeEvent bool) MediaItem {
	r := MediaItem{
		ID:             m.ID,
		EventID:        m.EventID,
		FilePath:       m.Path,
		FileType:       m.Type,
		FileSize:       m.Size,
		CreatedAt:      m.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      m.UpdatedAt.Format(time.RFC3339),
		GeneratedPosts: []GeneratedPost{},
	}

	if includeEvent && m.Event != nil {
		event := NewEvent(m.Event, Include{})
		r.Event = &event
	}
	return r
}

func NewGeneratedPost(p *models.GeneratedPost) GeneratedPost {
	return GeneratedPost{
		ID:          p.ID,
		EventID:     p.EventID,
		Content:     p.Content,
		Platform:    p.Platform,
		Status:      p.Status,
		ScheduledAt: nativeTime(p.ScheduledAt),
		PublishedAt: nativeTime(p.PublishedAt),
		CreatedAt:   p.CreatedAt.Format(nativeTimeFormat),
		UpdatedAt:   p.UpdatedAt.Format(nativeTimeFormat),
	}
}

func NewTag(t *models.Tag) Tag {
	return Tag{
		ID:   t.ID,
		Name: t.Name,
	}
}

func nativeTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(nativeTimeFormat)
	return &s
}

// Links carries the standard pagination navigation URLs.
type Links struct {
	First string  `json:"first"`
	Last  string  `json:"last"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
}

type Meta struct {
	CurrentPage int    `json:"current_page"`
	From        *int   `json:"from"`
	LastPage    int    `json:"last_page"`
	Path        string `json:"path"`
	PerPage     int    `json:"per_page"`
	To          *int   `json:"to"`
	Total       int64  `json:"total"`
}

// Collection is the pagination envelope wrapping every list response.
type Collection struct {
	Data  interface{} `json:"data"`
	Links Links       `json:"links"`
	Meta  Meta        `json:"meta"`
}

func NewCollection(data interface{}, meta service.PageMeta, path string) Collection {
	links := Links{
		First: pageURL(path, 1),
		Last:  pageURL(path, meta.LastPage),
	}
	if meta.CurrentPage > 1 {
		prev := pageURL(path, meta.CurrentPage-1)
		links.Prev = &prev
	}
	if meta.CurrentPage < meta.LastPage {
		next := pageURL(path, meta.CurrentPage+1)
		links.Next = &next
	}

	m := Meta{
		CurrentPage: meta.CurrentPage,
		LastPage:    meta.LastPage,
		Path:        path,
		PerPage:     meta.PerPage,
		Total:       meta.Total,
	}
	if meta.From > 0 {
		from, to := meta.From, meta.To
		m.From = &from
		m.To = &to
	}

	return Collection{
		Data:  data,
		Links: links,
		Meta:  m,
	}
}

func pageURL(path string, page int) string {
	return fmt.Sprintf("%s?page=%d", path, page)
}

// Events serializes a page of events without relations.
func Events(events []models.Event) []Event {
	out := make([]Event, 0, len(events))
	for i := range events {
		out = append(out, NewEvent(&events[i], Include{}))
	}
	return out
}

func MediaItems(items []models.MediaItem) []MediaItem {
	out := make([]MediaItem, 0, len(items))
	for i := range items {
		out = append(out, NewMediaItem(&items[i], false))
	}
	return out
}

func GeneratedPosts(posts []models.GeneratedPost) []GeneratedPost {
	out := make([]GeneratedPost, 0, len(posts))
	for i := range posts {
		out = append(out, NewGeneratedPost(&posts[i]))
	}
	return out
}

func Tags(tags []models.Tag) []Tag {
	out := make([]Tag, 0, len(tags))
	for i := range tags {
		out = append(out, NewTag(&tags[i]))
	}
	return out
}
