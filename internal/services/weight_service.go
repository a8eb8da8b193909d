package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "nurture/internal/errors"
	"nurture/internal/models"
)

// weightService handles weight tracking.
type weightService struct {
	db *gorm.DB
}

// NewWeightService creates a new WeightServicer.
func NewWeightService(db *gorm.DB) WeightServicer {
	return &weightService{db: db}
}

// WeightInput holds the fields for a weight entry. Weight is in kilograms.
type WeightInput struct {
	Weight float64
	Date   time.Time
	Notes  *string
}

// WeightUpdate holds a partial weight entry update.
type WeightUpdate struct {
	Weight *float64
	Date   *time.Time
	Notes  Field[string]
}

// CreateWeightEntry records a weight measurement.
func (s *weightService) CreateWeightEntry(userID, pregnancyID string, in WeightInput) (*models.WeightEntry, error) {
	if !finite(in.Weight) || in.Weight <= 0 {
		return nil, apperrors.WithFields(apperrors.ErrValidation, map[string]string{"weight": "must be greater than 0"})
	}
	pregnancy, err := findOwnedPregnancy(s.db, userID, pregnancyID)
	if err != nil {
		return nil, err
	}

	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}

	entry := &models.WeightEntry{
		PregnancyID: pregnancy.ID,
		Weight:      round2(in.Weight),
		Date:        date,
		Notes:       nullable(in.Notes),
	}
	if err := s.db.Create(entry).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entry, nil
}

// GetWeightEntries lists entries newest first.
func (s *weightService) GetWeightEntries(userID, pregnancyID string, r DateRange) ([]models.WeightEntry, error) {
	if _, err := findOwnedPregnancy(s.db, userID, pregnancyID); err != nil {
		return nil, err
	}
	var entries []models.WeightEntry
	if err := s.db.Where("pregnancy_id = ?", pregnancyID).
		Scopes(r.scope("date")).
		Order("date DESC").
		Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entries, nil
}

// GetLatestWeight returns the most recent entry by date.
func (s *weightService) GetLatestWeight(userID, pregnancyID string) (*models.WeightEntry, error) {
	if _, err := findOwnedPregnancy(s.db, userID, pregnancyID); err != nil {
		return nil, err
	}
	var entry models.WeightEntry
	err := s.db.Where("pregnancy_id = ?", pregnancyID).
		Order("date DESC").Order("created_at DESC").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrWeightEntryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &entry, nil
}

// UpdateWeightEntry applies a partial update.
func (s *weightService) UpdateWeightEntry(userID, entryID string, in WeightUpdate) (*models.WeightEntry, error) {
	entry, err := findOwnedChild[models.WeightEntry](s.db, "weight_entries", userID, entryID, apperrors.ErrWeightEntryNotFound)
	if err != nil {
		return nil, err
	}
	if in.Weight != nil {
		if !finite(*in.Weight) || *in.Weight <= 0 {
			return nil, apperrors.WithFields(apperrors.ErrValidation, map[string]string{"weight": "must be greater than 0"})
		}
		w := round2(*in.Weight)
		in.Weight = &w
	}

	updates := map[string]any{}
	setIfPresent(updates, "weight", in.Weight)
	setIfPresent(updates, "date", in.Date)
	nullableField(in.Notes).apply(updates, "notes")
	if len(updates) == 0 {
		return entry, nil
	}

	if err := s.db.Model(entry).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return findOwnedChild[models.WeightEntry](s.db, "weight_entries", userID, entryID, apperrors.ErrWeightEntryNotFound)
}

// DeleteWeightEntry removes an entry.
func (s *weightService) DeleteWeightEntry(userID, entryID string) error {
	return deleteOwnedChild[models.WeightEntry](s.db, "weight_entries", userID, entryID, apperrors.ErrWeightEntryNotFound)
}
