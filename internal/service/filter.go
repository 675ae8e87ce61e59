package service

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ErrInvalidSort is returned when sort_by is not an allow-listed column.
var ErrInvalidSort = errors.New("invalid sort field")

// sortableColumns is the allow-list of columns the events listing may order
// by. Unknown values are rejected instead of being forwarded into the query.
var sortableColumns = map[string]string{
	"id":         "id",
	"date":       "date",
	"title":      "title",
	"location":   "location",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// EventFilter narrows the events listing. The date interval only activates
// when both ends are present and is inclusive on both ends. All filters are
// AND-composed; the search term matches title or description.
type EventFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Location  string
	Search    string
}

func (f EventFilter) apply(db *gorm.DB) *gorm.DB {
	if f.StartDate != nil && f.EndDate != nil {
		db = db.Where("date BETWEEN ? AND ?", *f.StartDate, *f.EndDate)
	}
	if f.Location != "" {
		db = db.Where("location ILIKE ?", "%"+f.Location+"%")
	}
	if f.Search != "" {
		term := "%" + f.Search + "%"
		db = db.Where("title ILIKE ? OR description ILIKE ?", term, term)
	}
	return db
}

type PageParams struct {
	Page      int
	PerPage   int
	SortBy    string
	SortOrder string
}

// Normalize fills defaults and clamps per_page.
func (p *PageParams) Normalize(defaultPerPage, maxPerPage int) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = defaultPerPage
	}
	if p.PerPage > maxPerPage {
		p.PerPage = maxPerPage
	}
	if p.SortBy == "" {
		p.SortBy = "date"
	}
	if p.SortOrder != "desc" {
		p.SortOrder = "asc"
	}
}

func (p PageParams) offset() int {
	return (p.Page - 1) * p.PerPage
}

func (p PageParams) orderClause() (string, error) {
	col, ok := sortableColumns[p.SortBy]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrInvalidSort, p.SortBy)
	}
	return col + " " + p.SortOrder, nil
}

// PageMeta describes one page of a paginated listing.
type PageMeta struct {
	Total       int64
	CurrentPage int
	LastPage    int
	PerPage     int
	From        int
	To          int
}

func newPageMeta(total int64, p PageParams, count int) PageMeta {
	last := int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
	if last < 1 {
		last = 1
	}

	meta := PageMeta{
		Total:       total,
		CurrentPage: p.Page,
		LastPage:    last,
		PerPage:     p.PerPage,
	}
	if count > 0 {
		meta.From = p.offset() + 1
		meta.To = p.offset() + count
	}
	return meta
}
