package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"nurture/internal/logger"
	"nurture/internal/metrics"
	"nurture/internal/models"
	"nurture/internal/notifier"
)

// ConsultationReminderWindow is how far ahead consultations are reminded.
const ConsultationReminderWindow = 24 * time.Hour

// notificationService decides who gets reminded and hands messages to the
// notifier.
type notificationService struct {
	db       *gorm.DB
	notifier notifier.Notifier
	loc      *time.Location
	metrics  *metrics.Metrics
}

// NewNotificationService creates a new NotificationServicer. loc decides
// what "today" means for the daily reminder; m may be nil.
func NewNotificationService(db *gorm.DB, n notifier.Notifier, loc *time.Location, m *metrics.Metrics) NotificationServicer {
	if loc == nil {
		loc = time.UTC
	}
	return &notificationService{db: db, notifier: n, loc: loc, metrics: m}
}

// GetUsersToNotify returns the ids of users who have not visited any page
// today.
func (s *notificationService) GetUsersToNotify(ctx context.Context, now time.Time) ([]string, error) {
	start, end := DayRange(now, s.loc)

	var ids []string
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Select("users.id").
		Joins("LEFT JOIN user_analytics ua ON ua.user_id = users.id AND ua.visited_at >= ? AND ua.visited_at < ?", start, end).
		Where("ua.id IS NULL").
		Group("users.id").
		Order("users.id").
		Pluck("users.id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// SendNotificationToUser delivers one message. Failures are logged and
// counted, never retried here.
func (s *notificationService) SendNotificationToUser(ctx context.Context, userID, message string) bool {
	err := s.notifier.Notify(ctx, userID, message)
	s.metrics.RecordNotification(s.notifier.Name(), err == nil)
	if err != nil {
		logger.Named("notifications").Warnw("notification delivery failed",
			"user_id", userID,
			"notifier", s.notifier.Name(),
			"error", err,
		)
		return false
	}
	return true
}

// GetDueConsultationReminders lists open consultations starting within the
// next ConsultationReminderWindow whose reminder has not been claimed.
func (s *notificationService) GetDueConsultationReminders(ctx context.Context, now time.Time) ([]ConsultationReminder, error) {
	var due []models.Consultation
	err := s.db.WithContext(ctx).
		Where("date >= ? AND date < ? AND completed = ? AND reminder_sent_at IS NULL",
			now, now.Add(ConsultationReminderWindow), false).
		Order("date ASC").
		Find(&due).Error
	if err != nil {
		return nil, err
	}

	reminders := make([]ConsultationReminder, 0, len(due))
	for _, c := range due {
		reminders = append(reminders, ConsultationReminder{
			ConsultationID: c.ID,
			UserID:         c.UserID,
			Title:          c.Title,
			Date:           c.Date,
			Location:       c.Location,
		})
	}
	return reminders, nil
}

// ClaimConsultationReminder marks a reminder as sent. It reports false when
// another run claimed it first.
func (s *notificationService) ClaimConsultationReminder(ctx context.Context, consultationID string, now time.Time) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&models.Consultation{}).
		Where("id = ? AND reminder_sent_at IS NULL", consultationID).
		UpdateColumn("reminder_sent_at", now)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ReleaseConsultationReminder undoes a claim so the next run retries.
func (s *notificationService) ReleaseConsultationReminder(ctx context.Context, consultationID string) error {
	return s.db.WithContext(ctx).
		Model(&models.Consultation{}).
		Where("id = ?", consultationID).
		UpdateColumn("reminder_sent_at", nil).Error
}
