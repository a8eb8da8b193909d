package services

import (
	"time"

	"gorm.io/gorm"

	apperrors "nurture/internal/errors"
	"nurture/internal/models"
)

// medicationService handles medication tracking.
type medicationService struct {
	db *gorm.DB
}

// NewMedicationService creates a new MedicationServicer.
func NewMedicationService(db *gorm.DB) MedicationServicer {
	return &medicationService{db: db}
}

// MedicationInput holds the fields for a medication regimen. IsActive
// defaults to true when nil.
type MedicationInput struct {
	Name      string
	Dosage    string
	Frequency string
	StartDate time.Time
	EndDate   *time.Time
	Notes     *string
	IsActive  *bool
}

// MedicationUpdate holds a partial medication update.
type MedicationUpdate struct {
	Name      *string
	Dosage    *string
	Frequency *string
	StartDate *time.Time
	EndDate   Field[time.Time]
	Notes     Field[string]
	IsActive  *bool
}

// CreateMedication records a medication.
func (s *medicationService) CreateMedication(userID, pregnancyID string, in MedicationInput) (*models.Medication, error) {
	fields := map[string]string{}
	if trimmed(in.Name) == "" {
		fields["name"] = "is required"
	}
	if trimmed(in.Dosage) == "" {
		fields["dosage"] = "is required"
	}
	if trimmed(in.Frequency) == "" {
		fields["frequency"] = "is required"
	}
	if in.StartDate.IsZero() {
		fields["start_date"] = "is required"
	}
	if in.EndDate != nil && !in.StartDate.IsZero() && in.EndDate.Before(in.StartDate) {
		fields["end_date"] = "must not be before start_date"
	}
	if len(fields) > 0 {
		return nil, apperrors.WithFields(apperrors.ErrValidation, fields)
	}

	pregnancy, err := findOwnedPregnancy(s.db, userID, pregnancyID)
	if err != nil {
		return nil, err
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	med := &models.Medication{
		PregnancyID: pregnancy.ID,
		Name:        trimmed(in.Name),
		Dosage:      trimmed(in.Dosage),
		Frequency:   trimmed(in.Frequency),
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Notes:       nullable(in.Notes),
		IsActive:    active,
	}
	if err := s.db.Create(med).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return med, nil
}

// GetMedications lists medications by start date, newest first.
func (s *medicationService) GetMedications(userID, pregnancyID string, activeOnly bool) ([]models.Medication, error) {
	if _, err := findOwnedPregnancy(s.db, userID, pregnancyID); err != nil {
		return nil, err
	}
	q := s.db.Where("pregnancy_id = ?", pregnancyID)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var meds []models.Medication
	if err := q.Order("start_date DESC").Find(&meds).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return meds, nil
}

// UpdateMedication applies a partial update.
func (s *medicationService) UpdateMedication(userID, medicationID string, in MedicationUpdate) (*models.Medication, error) {
	med, err := findOwnedChild[models.Medication](s.db, "medications", userID, medicationID, apperrors.ErrMedicationNotFound)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	fields := map[string]string{}
	for column, v := range map[string]*string{"name": in.Name, "dosage": in.Dosage, "frequency": in.Frequency} {
		if v == nil {
			continue
		}
		if trimmed(*v) == "" {
			fields[column] = "must not be empty"
			continue
		}
		updates[column] = trimmed(*v)
	}
	if len(fields) > 0 {
		return nil, apperrors.WithFields(apperrors.ErrValidation, fields)
	}

	setIfPresent(updates, "start_date", in.StartDate)
	setIfPresent(updates, "is_active", in.IsActive)
	in.EndDate.apply(updates, "end_date")
	nullableField(in.Notes).apply(updates, "notes")
	if len(updates) == 0 {
		return med, nil
	}

	if err := s.db.Model(med).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return findOwnedChild[models.Medication](s.db, "medications", userID, medicationID, apperrors.ErrMedicationNotFound)
}

// DeleteMedication removes a medication.
func (s *medicationService) DeleteMedication(userID, medicationID string) error {
	return deleteOwnedChild[models.Medication](s.db, "medications", userID, medicationID, apperrors.ErrMedicationNotFound)
}
