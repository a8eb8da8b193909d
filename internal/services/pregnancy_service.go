package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "nurture/internal/errors"
	"nurture/internal/models"
)

// pregnancyService handles pregnancy records.
type pregnancyService struct {
	db *gorm.DB
}

// NewPregnancyService creates a new PregnancyServicer.
func NewPregnancyService(db *gorm.DB) PregnancyServicer {
	return &pregnancyService{db: db}
}

// PregnancyInput holds the fields for a new pregnancy.
type PregnancyInput struct {
	DueDate        time.Time
	LastPeriodDate *time.Time
	BabyName       *string
	Notes          *string
	IsActive       bool
}

// PregnancyUpdate holds a partial pregnancy update.
type PregnancyUpdate struct {
	DueDate        *time.Time
	LastPeriodDate Field[time.Time]
	BabyName       Field[string]
	Notes          Field[string]
	IsActive       *bool
}

// CreatePregnancy records a pregnancy. When it is active, any other active
// pregnancy of the user is deactivated in the same transaction.
func (s *pregnancyService) CreatePregnancy(userID string, in PregnancyInput) (*models.Pregnancy, error) {
	if in.DueDate.IsZero() {
		return nil, apperrors.WithFields(apperrors.ErrValidation, map[string]string{"due_date": "is required"})
	}

	pregnancy := &models.Pregnancy{
		UserID:         userID,
		DueDate:        in.DueDate,
		LastPeriodDate: in.LastPeriodDate,
		IsActive:       in.IsActive,
		BabyName:       nullable(in.BabyName),
		Notes:          nullable(in.Notes),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if in.IsActive {
			if err := deactivateOthers(tx, userID, ""); err != nil {
				return err
			}
		}
		return tx.Create(pregnancy).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	pregnancy.ComputeProgress(time.Now())
	return pregnancy, nil
}

// GetUserPregnancies lists the user's pregnancies, active first, then newest.
func (s *pregnancyService) GetUserPregnancies(userID string) ([]models.Pregnancy, error) {
	var pregnancies []models.Pregnancy
	if err := s.db.Where("user_id = ?", userID).
		Order("is_active DESC").Order("created_at DESC").
		Find(&pregnancies).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return pregnancies, nil
}

// GetPregnancy returns one of the user's pregnancies.
func (s *pregnancyService) GetPregnancy(userID, pregnancyID string) (*models.Pregnancy, error) {
	return findOwnedPregnancy(s.db, userID, pregnancyID)
}

// GetActivePregnancy returns the user's single active pregnancy.
func (s *pregnancyService) GetActivePregnancy(userID string) (*models.Pregnancy, error) {
	var pregnancy models.Pregnancy
	err := s.db.Where("user_id = ? AND is_active = ?", userID, true).First(&pregnancy).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WithMessage(apperrors.ErrPregnancyNotFound, "No active pregnancy")
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &pregnancy, nil
}

// UpdatePregnancy applies a partial update. Reactivating a pregnancy
// deactivates the user's other active one.
func (s *pregnancyService) UpdatePregnancy(userID, pregnancyID string, in PregnancyUpdate) (*models.Pregnancy, error) {
	pregnancy, err := findOwnedPregnancy(s.db, userID, pregnancyID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	setIfPresent(updates, "due_date", in.DueDate)
	setIfPresent(updates, "is_active", in.IsActive)
	in.LastPeriodDate.apply(updates, "last_period_date")
	nullableField(in.BabyName).apply(updates, "baby_name")
	nullableField(in.Notes).apply(updates, "notes")

	if len(updates) == 0 {
		return pregnancy, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if in.IsActive != nil && *in.IsActive && !pregnancy.IsActive {
			if err := deactivateOthers(tx, userID, pregnancy.ID); err != nil {
				return err
			}
		}
		return tx.Model(pregnancy).Updates(updates).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return findOwnedPregnancy(s.db, userID, pregnancyID)
}

// DeactivatePregnancy marks a pregnancy inactive. Its history is kept.
func (s *pregnancyService) DeactivatePregnancy(userID, pregnancyID string) (*models.Pregnancy, error) {
	inactive := false
	return s.UpdatePregnancy(userID, pregnancyID, PregnancyUpdate{IsActive: &inactive})
}

func deactivateOthers(tx *gorm.DB, userID, keepID string) error {
	q := tx.Model(&models.Pregnancy{}).Where("user_id = ? AND is_active = ?", userID, true)
	if keepID != "" {
		q = q.Where("id <> ?", keepID)
	}
	return q.Update("is_active", false).Error
}
