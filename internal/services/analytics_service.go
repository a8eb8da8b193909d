package services

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"nurture/internal/logger"
	"nurture/internal/models"
)

const maxPageLength = 255

// analyticsService records page views and served requests. Write failures
// are logged and swallowed.
type analyticsService struct {
	db *gorm.DB
}

// NewAnalyticsService creates a new AnalyticsServicer.
func NewAnalyticsService(db *gorm.DB) AnalyticsServicer {
	return &analyticsService{db: db}
}

// RecordPageView stores a page visit for the user.
func (s *analyticsService) RecordPageView(userID string, sessionID *string, page string) {
	page = strings.TrimSpace(page)
	if page == "" {
		page = "/"
	}
	page = Truncate(page, maxPageLength)

	visit := &models.UserAnalytics{
		UserID:    userID,
		SessionID: sessionID,
		Page:      page,
		VisitedAt: time.Now(),
	}
	if err := s.db.Create(visit).Error; err != nil {
		logger.Get().Errorw("failed to record page view", "error", err, "user_id", userID, "page", page)
	}
}

// RecordAccess stores one access log row.
func (s *analyticsService) RecordAccess(entry *models.AccessLog) {
	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to record access log", "error", err, "path", entry.Path)
	}
}
