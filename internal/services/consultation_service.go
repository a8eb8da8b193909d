package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "nurture/internal/errors"
	"nurture/internal/models"
)

// consultationService handles prenatal consultations.
type consultationService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewConsultationService creates a new ConsultationServicer.
func NewConsultationService(db *gorm.DB) ConsultationServicer {
	return &consultationService{db: db, now: time.Now}
}

// ConsultationInput holds the fields for a new consultation.
type ConsultationInput struct {
	Title      string
	Date       time.Time
	Location   *string
	DoctorName *string
	Notes      *string
}

// ConsultationUpdate holds a partial consultation update. Moving the date
// re-arms the reminder.
type ConsultationUpdate struct {
	Title      *string
	Date       *time.Time
	Location   Field[string]
	DoctorName Field[string]
	Notes      Field[string]
	Completed  *bool
}

// CreateConsultation schedules a consultation.
func (s *consultationService) CreateConsultation(userID, pregnancyID string, in ConsultationInput) (*models.Consultation, error) {
	fields := map[string]string{}
	if trimmed(in.Title) == "" {
		fields["title"] = "is required"
	}
	if in.Date.IsZero() {
		fields["date"] = "is required"
	}
	if len(fields) > 0 {
		return nil, apperrors.WithFields(apperrors.ErrValidation, fields)
	}

	pregnancy, err := findOwnedPregnancy(s.db, userID, pregnancyID)
	if err != nil {
		return nil, err
	}

	c := &models.Consultation{
		UserID:      userID,
		PregnancyID: pregnancy.ID,
		Title:       trimmed(in.Title),
		Date:        in.Date,
		Location:    nullable(in.Location),
		DoctorName:  nullable(in.DoctorName),
		Notes:       nullable(in.Notes),
	}
	if err := s.db.Create(c).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return c, nil
}

// GetConsultations lists a pregnancy's consultations in date order.
func (s *consultationService) GetConsultations(userID, pregnancyID string) ([]models.Consultation, error) {
	if _, err := findOwnedPregnancy(s.db, userID, pregnancyID); err != nil {
		return nil, err
	}
	var list []models.Consultation
	if err := s.db.Where("pregnancy_id = ?", pregnancyID).
		Order("date ASC").
		Find(&list).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return list, nil
}

// GetUpcomingConsultations lists the pregnancy's future, not yet completed
// consultations, soonest first.
func (s *consultationService) GetUpcomingConsultations(userID, pregnancyID string) ([]models.Consultation, error) {
	if _, err := findOwnedPregnancy(s.db, userID, pregnancyID); err != nil {
		return nil, err
	}
	var list []models.Consultation
	if err := s.db.Where("pregnancy_id = ? AND date > ? AND completed = ?", pregnancyID, s.now(), false).
		Order("date ASC").
		Find(&list).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return list, nil
}

// GetNextConsultation returns the user's earliest upcoming consultation
// across all of their pregnancies.
func (s *consultationService) GetNextConsultation(userID string) (*models.Consultation, error) {
	var c models.Consultation
	err := s.db.Where("user_id = ? AND date > ? AND completed = ?", userID, s.now(), false).
		Order("date ASC").
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WithMessage(apperrors.ErrConsultationNotFound, "No upcoming consultation")
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &c, nil
}

// UpdateConsultation applies a partial update to a consultation the user owns.
func (s *consultationService) UpdateConsultation(userID, consultationID string, in ConsultationUpdate) (*models.Consultation, error) {
	c, err := s.findForMutation(userID, consultationID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if in.Title != nil {
		if trimmed(*in.Title) == "" {
			return nil, apperrors.WithFields(apperrors.ErrValidation, map[string]string{"title": "must not be empty"})
		}
		updates["title"] = trimmed(*in.Title)
	}
	if in.Date != nil {
		updates["date"] = *in.Date
		if !in.Date.Equal(c.Date) {
			updates["reminder_sent_at"] = nil
		}
	}
	setIfPresent(updates, "completed", in.Completed)
	nullableField(in.Location).apply(updates, "location")
	nullableField(in.DoctorName).apply(updates, "doctor_name")
	nullableField(in.Notes).apply(updates, "notes")
	if len(updates) == 0 {
		return c, nil
	}

	if err := s.db.Model(c).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.findForMutation(userID, consultationID)
}

// DeleteConsultation removes a consultation the user owns.
func (s *consultationService) DeleteConsultation(userID, consultationID string) error {
	c, err := s.findForMutation(userID, consultationID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(c).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// findForMutation loads a consultation by id. A consultation that exists but
// belongs to another user yields ErrForbidden rather than not found.
func (s *consultationService) findForMutation(userID, consultationID string) (*models.Consultation, error) {
	if !models.IsValidID(consultationID) {
		return nil, apperrors.ErrConsultationNotFound
	}
	var c models.Consultation
	if err := s.db.Where("id = ?", consultationID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrConsultationNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if c.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	return &c, nil
}
