package services

import (
	"time"

	"gorm.io/gorm"

	apperrors "nurture/internal/errors"
	"nurture/internal/models"
)

// symptomService handles symptom tracking.
type symptomService struct {
	db *gorm.DB
}

// NewSymptomService creates a new SymptomServicer.
func NewSymptomService(db *gorm.DB) SymptomServicer {
	return &symptomService{db: db}
}

// SymptomInput holds the fields for a symptom occurrence.
type SymptomInput struct {
	Name     string
	Severity models.SymptomSeverity
	Date     time.Time
	Notes    *string
}

// ValidSeverity reports whether s is a known severity.
func ValidSeverity(s models.SymptomSeverity) bool {
	switch s {
	case models.SeverityMild, models.SeverityModerate, models.SeveritySevere:
		return true
	}
	return false
}

// CreateSymptom records a symptom.
func (s *symptomService) CreateSymptom(userID, pregnancyID string, in SymptomInput) (*models.Symptom, error) {
	fields := map[string]string{}
	if trimmed(in.Name) == "" {
		fields["name"] = "is required"
	}
	if !ValidSeverity(in.Severity) {
		fields["severity"] = "must be one of: mild moderate severe"
	}
	if len(fields) > 0 {
		return nil, apperrors.WithFields(apperrors.ErrValidation, fields)
	}

	pregnancy, err := findOwnedPregnancy(s.db, userID, pregnancyID)
	if err != nil {
		return nil, err
	}

	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}

	symptom := &models.Symptom{
		PregnancyID: pregnancy.ID,
		Name:        trimmed(in.Name),
		Severity:    in.Severity,
		Date:        date,
		Notes:       nullable(in.Notes),
	}
	if err := s.db.Create(symptom).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return symptom, nil
}

// GetSymptoms lists symptoms newest first.
func (s *symptomService) GetSymptoms(userID, pregnancyID string, r DateRange) ([]models.Symptom, error) {
	if _, err := findOwnedPregnancy(s.db, userID, pregnancyID); err != nil {
		return nil, err
	}
	var symptoms []models.Symptom
	if err := s.db.Where("pregnancy_id = ?", pregnancyID).
		Scopes(r.scope("date")).
		Order("date DESC").
		Find(&symptoms).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return symptoms, nil
}

// DeleteSymptom removes a symptom.
func (s *symptomService) DeleteSymptom(userID, symptomID string) error {
	return deleteOwnedChild[models.Symptom](s.db, "symptoms", userID, symptomID, apperrors.ErrSymptomNotFound)
}
