package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eventline/eventline/internal/resource"
	"github.com/eventline/eventline/internal/service"
	"github.com/eventline/eventline/internal/validation"
)

func (s *Server) handleListEvents(c *gin.Context) {
	filter := s.parseEventFilter(c)
	page := s.parsePageParams(c)

	events, meta, err := s.EventService.List(c.Request.Context(), filter, page)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSort) {
			s.validationFailed(c, validation.Errors{
				"sort_by": {"The selected sort_by is invalid."},
			})
			return
		}
		s.serverError(c, "Failed to list events", err)
		return
	}

	c.JSON(http.StatusOK, resource.NewCollection(resource.Events(events), meta, c.Request.URL.Path))
}

func (s *Server) handleCreateEvent(c *gin.Context) {
	var in validation.CreateEventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid JSON payload"})
		return
	}

	errs, err := validation.ValidateCreate(c.Request.Context(), in, s.EventService.ExistingTagIDs)
	if err != nil {
		s.serverError(c, "Failed to validate event", err)
		return
	}
	if errs.Any() {
		s.validationFailed(c, errs)
		return
	}

	date, err := validation.ParseDate(in.Date)
	if err != nil {
		s.validationFailed(c, validation.Errors{"date": {"The date field must be a valid date."}})
		return
	}

	event, err := s.EventService.Create(c.Request.Context(), service.CreateEventInput{
		Title:       in.Title,
		Description: in.Description,
		Date:        date,
		Location:    in.Location,
		Tags:        in.Tags,
	})
	if err != nil {
		s.serverError(c, "Failed to create event", err)
		return
	}

	c.JSON(http.StatusCreated, resource.NewEvent(event, resource.Include{}))
}

func (s *Server) handleShowEvent(c *gin.Context) {
	id, ok := s.parseID(c)
	if !ok {
		return
	}

	event, err := s.EventService.Get(c.Request.Context(), id)
	if err != nil {
		s.eventError(c, "Failed to load event", err)
		return
	}

	c.JSON(http.StatusOK, resource.NewEvent(event, resource.IncludeAll))
}

func (s *Server) handleUpdateEvent(c *gin.Context) {
	id, ok := s.parseID(c)
	if !ok {
		return
	}

	var in validation.UpdateEventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid JSON payload"})
		return
	}

	errs, err := validation.ValidateUpdate(c.Request.Context(), in, s.EventService.ExistingTagIDs)
	if err != nil {
		s.serverError(c, "Failed to validate event", err)
		return
	}
	if errs.Any() {
		s.validationFailed(c, errs)
		return
	}

	update := service.UpdateEventInput{
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Tags:        in.Tags,
	}
	if in.Date != nil {
		date, err := validation.ParseDate(*in.Date)
		if err != nil {
			s.validationFailed(c, validation.Errors{"date": {"The date field must be a valid date."}})
			return
		}
		update.Date = &date
	}

	event, err := s.EventService.Update(c.Request.Context(), id, update)
	if err != nil {
		s.eventError(c, "Failed to update event", err)
		return
	}

	c.JSON(http.StatusOK, resource.NewEvent(event, resource.Include{}))
}

func (s *Server) handleDeleteEvent(c *gin.Context) {
	id, ok := s.parseID(c)
	if !ok {
		return
	}

	if err := s.EventService.Delete(c.Request.Context(), id); err != nil {
		s.eventError(c, "Failed to delete event", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) handleListEventMedia(c *gin.Context) {
	id, ok := s.parseID(c)
	if !ok {
		return
	}
	page := s.parsePageParams(c)

	items, meta, err := s.EventService.ListMedia(c.Request.Context(), id, page)
	if err != nil {
		s.eventError(c, "Failed to list event media", err)
		return
	}

	c.JSON(http.StatusOK, resource.NewCollection(resource.MediaItems(items), meta, c.Request.URL.Path))
}

func (s *Server) handleListEventPosts(c *gin.Context) {
	id, ok := s.parseID(c)
	if !ok {
		return
	}
	page := s.parsePageParams(c)

	posts, meta, err := s.EventService.ListPosts(c.Request.Context(), id, page)
	if err != nil {
		s.eventError(c, "Failed to list event posts", err)
		return
	}

	c.JSON(http.StatusOK, resource.NewCollection(resource.GeneratedPosts(posts), meta, c.Request.URL.Path))
}

type syncTagsRequest struct {
	Tags *[]uint `json:"tags"`
}

func (s *Server) handleSyncTags(c *gin.Context) {
	id, ok := s.parseID(c)
	if !ok {
		return
	}

	var req syncTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid JSON payload"})
		return
	}
	if req.Tags == nil {
		s.validationFailed(c, validation.Errors{"tags": {"The tags field is required."}})
		return
	}

	existing, err := s.EventService.ExistingTagIDs(c.Request.Context(), *req.Tags)
	if err != nil {
		s.serverError(c, "Failed to look up tags", err)
		return
	}
	errs := validation.Errors{}
	for i, tagID := range *req.Tags {
		if !existing[tagID] {
			errs.Add("tags."+strconv.Itoa(i), "One or more selected tags are invalid.")
		}
	}
	if errs.Any() {
		s.validationFailed(c, errs)
		return
	}

	tags, err := s.EventService.SyncTags(c.Request.Context(), id, *req.Tags)
	if err != nil {
		s.eventError(c, "Failed to sync tags", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Tags synchronized successfully",
		"tags":    resource.Tags(tags),
	})
}

func (s *Server) parseEventFilter(c *gin.Context) service.EventFilter {
	filter := service.EventFilter{
		Location: c.Query("location"),
		Search:   c.Query("search"),
	}

	// The date interval only activates when both ends parse
	if startRaw, endRaw := c.Query("start_date"), c.Query("end_date"); startRaw != "" && endRaw != "" {
		start, errStart := validation.ParseDate(startRaw)
		end, errEnd := validation.ParseDate(endRaw)
		if errStart == nil && errEnd == nil {
			filter.StartDate = &start
			filter.EndDate = &end
		}
	}

	return filter
}

func (s *Server) parsePageParams(c *gin.Context) service.PageParams {
	page, _ := strconv.Atoi(c.Query("page"))
	perPage, _ := strconv.Atoi(c.Query("per_page"))

	params := service.PageParams{
		Page:      page,
		PerPage:   perPage,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	params.Normalize(s.Config.Pagination.DefaultPerPage, s.Config.Pagination.MaxPerPage)
	return params
}

// parseID reads the :id route parameter; a malformed id behaves like an
// unknown one.
func (s *Server) parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		s.notFound(c)
		return 0, false
	}
	return uint(id), true
}

func (s *Server) eventError(c *gin.Context, msg string, err error) {
	if errors.Is(err, service.ErrNotFound) {
		s.notFound(c)
		return
	}
	s.serverError(c, msg, err)
}

func (s *Server) notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
}

func (s *Server) validationFailed(c *gin.Context, errs validation.Errors) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"message": "The given data was invalid.",
		"errors":  errs,
	})
}

func (s *Server) serverError(c *gin.Context, msg string, err error) {
	s.Logger.Error(msg, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}
