package services

import (
	"time"

	"gorm.io/gorm"

	apperrors "nurture/internal/errors"
	"nurture/internal/models"
)

// kickCountService handles kick counting sessions.
type kickCountService struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

// NewKickCountService creates a new KickCountServicer. loc decides where a
// calendar day starts for the daily total.
func NewKickCountService(db *gorm.DB, loc *time.Location) KickCountServicer {
	if loc == nil {
		loc = time.UTC
	}
	return &kickCountService{db: db, loc: loc, now: time.Now}
}

// KickCountInput holds the fields for a kick counting session.
type KickCountInput struct {
	Count           int
	Date            time.Time
	DurationMinutes *int
	Notes           *string
}

// CreateKickCount records a session against one of the user's pregnancies.
func (s *kickCountService) CreateKickCount(userID, pregnancyID string, in KickCountInput) (*models.KickCount, error) {
	if in.Count <= 0 {
		return nil, apperrors.WithFields(apperrors.ErrValidation, map[string]string{"count": "must be greater than 0"})
	}
	pregnancy, err := findOwnedPregnancy(s.db, userID, pregnancyID)
	if err != nil {
		return nil, err
	}

	date := in.Date
	if date.IsZero() {
		date = s.now()
	}

	kc := &models.KickCount{
		PregnancyID:     pregnancy.ID,
		Count:           in.Count,
		Date:            date,
		DurationMinutes: in.DurationMinutes,
		Notes:           nullable(in.Notes),
	}
	if err := s.db.Create(kc).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return kc, nil
}

// GetKickCounts lists sessions newest first.
func (s *kickCountService) GetKickCounts(userID, pregnancyID string, r DateRange) ([]models.KickCount, error) {
	if _, err := findOwnedPregnancy(s.db, userID, pregnancyID); err != nil {
		return nil, err
	}
	var counts []models.KickCount
	if err := s.db.Where("pregnancy_id = ?", pregnancyID).
		Scopes(r.scope("date")).
		Order("date DESC").
		Find(&counts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return counts, nil
}

// GetTodaysKickCount sums the sessions dated within today's calendar day.
func (s *kickCountService) GetTodaysKickCount(userID, pregnancyID string) (int, error) {
	if _, err := findOwnedPregnancy(s.db, userID, pregnancyID); err != nil {
		return 0, err
	}
	start, end := DayRange(s.now(), s.loc)

	var total int64
	if err := s.db.Model(&models.KickCount{}).
		Select("COALESCE(SUM(count), 0)").
		Where("pregnancy_id = ? AND date >= ? AND date < ?", pregnancyID, start, end).
		Scan(&total).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return int(total), nil
}

// DeleteKickCount removes a session.
func (s *kickCountService) DeleteKickCount(userID, kickCountID string) error {
	return deleteOwnedChild[models.KickCount](s.db, "kick_counts", userID, kickCountID, apperrors.ErrKickCountNotFound)
}
