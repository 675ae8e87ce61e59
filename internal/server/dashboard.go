package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eventline/eventline/internal/models"
	"github.com/eventline/eventline/internal/service"
)

type loginRequest struct {
	Code string `json:"code"`
}

// handleAuthSetup generates a fresh TOTP secret for first-run provisioning.
func (s *Server) handleAuthSetup(c *gin.Context) {
	secret, err := s.AuthService.GenerateSecret()
	if err != nil {
		s.serverError(c, "Failed to generate TOTP secret", err)
		return
	}

	url, err := s.AuthService.GenerateQRCode("Eventline Dashboard", "admin", secret)
	if err != nil {
		s.serverError(c, "Failed to generate otpauth URL", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"secret": secret,
		"url":    url,
	})
}

func (s *Server) handleAuthLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid JSON payload"})
		return
	}

	token, err := s.AuthService.Login(req.Code)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCode) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid authentication code"})
			return
		}
		s.serverError(c, "Failed to log in", err)
		return
	}

	c.SetCookie("auth_token", token, int((24 * time.Hour).Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Login successful"})
}

func (s *Server) handleAuthLogout(c *gin.Context) {
	c.SetCookie("auth_token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// handleDashboardSummary reports entity totals and the upcoming/past/today
// split, computed on request.
func (s *Server) handleDashboardSummary(c *gin.Context) {
	ctx := c.Request.Context()
	db := s.DB.WithContext(ctx)
	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.AddDate(0, 0, 1)

	var totalEvents, upcoming, past, today int64
	var mediaItems, generatedPosts, tags int64

	if err := db.Model(&models.Event{}).Count(&totalEvents).Error; err != nil {
		s.serverError(c, "Failed to build dashboard summary", err)
		return
	}
	if err := db.Model(&models.Event{}).Where("date > ?", now).Count(&upcoming).Error; err != nil {
		s.serverError(c, "Failed to build dashboard summary", err)
		return
	}
	if err := db.Model(&models.Event{}).Where("date < ?", now).Count(&past).Error; err != nil {
		s.serverError(c, "Failed to build dashboard summary", err)
		return
	}
	if err := db.Model(&models.Event{}).Where("date >= ? AND date < ?", todayStart, todayEnd).Count(&today).Error; err != nil {
		s.serverError(c, "Failed to build dashboard summary", err)
		return
	}
	if err := db.Model(&models.MediaItem{}).Count(&mediaItems).Error; err != nil {
		s.serverError(c, "Failed to build dashboard summary", err)
		return
	}
	if err := db.Model(&models.GeneratedPost{}).Count(&generatedPosts).Error; err != nil {
		s.serverError(c, "Failed to build dashboard summary", err)
		return
	}
	if err := db.Model(&models.Tag{}).Count(&tags).Error; err != nil {
		s.serverError(c, "Failed to build dashboard summary", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_events":    totalEvents,
		"upcoming_events": upcoming,
		"past_events":     past,
		"today_events":    today,
		"media_items":     mediaItems,
		"generated_posts": generatedPosts,
		"tags":            tags,
	})
}
