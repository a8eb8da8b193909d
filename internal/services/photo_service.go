package services

import (
	"time"

	"gorm.io/gorm"

	apperrors "nurture/internal/errors"
	"nurture/internal/models"
)

// photoService handles the photo album.
type photoService struct {
	db *gorm.DB
}

// NewPhotoService creates a new PhotoServicer.
func NewPhotoService(db *gorm.DB) PhotoServicer {
	return &photoService{db: db}
}

// PhotoInput holds the fields for a new album photo.
type PhotoInput struct {
	ObjectPath string
	Week       *int
	Caption    *string
	Date       time.Time
	IsFavorite bool
	Milestone  *string
}

// PhotoUpdate holds a partial photo update.
type PhotoUpdate struct {
	Week       Field[int]
	Caption    Field[string]
	Date       *time.Time
	IsFavorite *bool
	Milestone  Field[string]
}

func validWeek(w *int) bool {
	return w == nil || (*w >= 1 && *w <= 42)
}

// CreatePhoto adds a photo to the album.
func (s *photoService) CreatePhoto(userID, pregnancyID string, in PhotoInput) (*models.Photo, error) {
	fields := map[string]string{}
	if trimmed(in.ObjectPath) == "" {
		fields["object_path"] = "is required"
	}
	if !validWeek(in.Week) {
		fields["week"] = "must be between 1 and 42"
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

	photo := &models.Photo{
		PregnancyID: pregnancy.ID,
		ObjectPath:  trimmed(in.ObjectPath),
		Week:        in.Week,
		Caption:     nullable(in.Caption),
		Date:        date,
		IsFavorite:  in.IsFavorite,
		Milestone:   nullable(in.Milestone),
	}
	if err := s.db.Create(photo).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return photo, nil
}

// GetPhotos lists photos newest first.
func (s *photoService) GetPhotos(userID, pregnancyID string, favoritesOnly bool) ([]models.Photo, error) {
	if _, err := findOwnedPregnancy(s.db, userID, pregnancyID); err != nil {
		return nil, err
	}
	q := s.db.Where("pregnancy_id = ?", pregnancyID)
	if favoritesOnly {
		q = q.Where("is_favorite = ?", true)
	}
	var photos []models.Photo
	if err := q.Order("date DESC").Find(&photos).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return photos, nil
}

// UpdatePhoto applies a partial update.
func (s *photoService) UpdatePhoto(userID, photoID string, in PhotoUpdate) (*models.Photo, error) {
	photo, err := findOwnedChild[models.Photo](s.db, "photos", userID, photoID, apperrors.ErrPhotoNotFound)
	if err != nil {
		return nil, err
	}
	if in.Week.Set && !validWeek(in.Week.Value) {
		return nil, apperrors.WithFields(apperrors.ErrValidation, map[string]string{"week": "must be between 1 and 42"})
	}

	updates := map[string]any{}
	in.Week.apply(updates, "week")
	nullableField(in.Caption).apply(updates, "caption")
	nullableField(in.Milestone).apply(updates, "milestone")
	setIfPresent(updates, "date", in.Date)
	setIfPresent(updates, "is_favorite", in.IsFavorite)
	if len(updates) == 0 {
		return photo, nil
	}

	if err := s.db.Model(photo).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return findOwnedChild[models.Photo](s.db, "photos", userID, photoID, apperrors.ErrPhotoNotFound)
}

// DeletePhoto removes a photo record. The stored object is left in place.
func (s *photoService) DeletePhoto(userID, photoID string) error {
	return deleteOwnedChild[models.Photo](s.db, "photos", userID, photoID, apperrors.ErrPhotoNotFound)
}
