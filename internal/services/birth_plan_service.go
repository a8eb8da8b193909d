package services

import (
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "nurture/internal/errors"
	"nurture/internal/models"
)

// birthPlanService handles birth plans.
type birthPlanService struct {
	db *gorm.DB
}

// NewBirthPlanService creates a new BirthPlanServicer.
func NewBirthPlanService(db *gorm.DB) BirthPlanServicer {
	return &birthPlanService{db: db}
}

// GetBirthPlan returns the plan of one of the user's pregnancies.
func (s *birthPlanService) GetBirthPlan(userID, pregnancyID string) (*models.BirthPlan, error) {
	if _, err := findOwnedPregnancy(s.db, userID, pregnancyID); err != nil {
		return nil, err
	}
	var plan models.BirthPlan
	if err := s.db.Where("pregnancy_id = ?", pregnancyID).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBirthPlanNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &plan, nil
}

// CreateOrUpdateBirthPlan replaces the preferences of the pregnancy's plan,
// creating the plan if it does not exist yet. The row is locked for the
// duration of the transaction so concurrent saves serialize.
func (s *birthPlanService) CreateOrUpdateBirthPlan(userID, pregnancyID string, prefs models.BirthPreferences) (*models.BirthPlan, error) {
	pregnancy, err := findOwnedPregnancy(s.db, userID, pregnancyID)
	if err != nil {
		return nil, err
	}
	prefs.Normalize()

	var plan models.BirthPlan
	err = s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("pregnancy_id = ?", pregnancy.ID).
			First(&plan).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			plan = models.BirthPlan{
				PregnancyID: pregnancy.ID,
				Preferences: datatypes.NewJSONType(prefs),
			}
			return tx.Create(&plan).Error
		case err != nil:
			return err
		}

		plan.Preferences = datatypes.NewJSONType(prefs)
		return tx.Model(&plan).Update("preferences", plan.Preferences).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			// Lost a create race against another save; the winner's row now
			// exists, so apply this save as an update.
			return s.CreateOrUpdateBirthPlan(userID, pregnancyID, prefs)
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &plan, nil
}

// DeleteBirthPlan removes a plan.
func (s *birthPlanService) DeleteBirthPlan(userID, birthPlanID string) error {
	return deleteOwnedChild[models.BirthPlan](s.db, "birth_plans", userID, birthPlanID, apperrors.ErrBirthPlanNotFound)
}
