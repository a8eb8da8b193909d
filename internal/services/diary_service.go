package services

import (
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	apperrors "nurture/internal/errors"
	"nurture/internal/models"
)

// diaryService handles diary entries and their attachments.
type diaryService struct {
	db *gorm.DB
}

// NewDiaryService creates a new DiaryServicer.
func NewDiaryService(db *gorm.DB) DiaryServicer {
	return &diaryService{db: db}
}

// DiaryEntryInput holds the fields for a new diary entry.
type DiaryEntryInput struct {
	Title     string
	Content   string
	Week      *int
	Mood      *int
	Emotions  []string
	Milestone *string
	Prompts   []string
	Date      time.Time
	ImagePath *string
}

// DiaryEntryUpdate holds a partial diary entry update. A nil slice leaves
// emotions or prompts untouched.
type DiaryEntryUpdate struct {
	Title     *string
	Content   *string
	Week      Field[int]
	Mood      Field[int]
	Emotions  []string
	Milestone Field[string]
	Prompts   []string
	Date      *time.Time
	ImagePath Field[string]
}

// AttachmentInput describes an uploaded file.
type AttachmentInput struct {
	ObjectPath string
	MimeType   string
	FileName   string
	FileSize   int64
}

func validMood(m *int) bool {
	return m == nil || (*m >= 1 && *m <= 5)
}

// CreateDiaryEntry writes a diary entry.
func (s *diaryService) CreateDiaryEntry(userID, pregnancyID string, in DiaryEntryInput) (*models.DiaryEntry, error) {
	fields := map[string]string{}
	if trimmed(in.Title) == "" {
		fields["title"] = "is required"
	}
	if trimmed(in.Content) == "" {
		fields["content"] = "is required"
	}
	if !validWeek(in.Week) {
		fields["week"] = "must be between 1 and 42"
	}
	if !validMood(in.Mood) {
		fields["mood"] = "must be between 1 and 5"
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

	entry := &models.DiaryEntry{
		PregnancyID: pregnancy.ID,
		Title:       trimmed(in.Title),
		Content:     in.Content,
		Week:        in.Week,
		Mood:        in.Mood,
		Emotions:    compact(in.Emotions),
		Milestone:   nullable(in.Milestone),
		Prompts:     compact(in.Prompts),
		Date:        date,
		ImagePath:   nullable(in.ImagePath),
	}
	if err := s.db.Create(entry).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entry, nil
}

// GetDiaryEntries lists entries newest first, with their attachments.
func (s *diaryService) GetDiaryEntries(userID, pregnancyID string, r DateRange) ([]models.DiaryEntry, error) {
	if _, err := findOwnedPregnancy(s.db, userID, pregnancyID); err != nil {
		return nil, err
	}
	var entries []models.DiaryEntry
	if err := s.db.Preload("Attachments", orderAttachments).
		Where("pregnancy_id = ?", pregnancyID).
		Scopes(r.scope("date")).
		Order("date DESC").
		Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entries, nil
}

// GetDiaryEntry returns one entry with its attachments.
func (s *diaryService) GetDiaryEntry(userID, entryID string) (*models.DiaryEntry, error) {
	return s.find(s.db.Preload("Attachments", orderAttachments), userID, entryID)
}

// UpdateDiaryEntry applies a partial update.
func (s *diaryService) UpdateDiaryEntry(userID, entryID string, in DiaryEntryUpdate) (*models.DiaryEntry, error) {
	entry, err := s.find(s.db, userID, entryID)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}
	if in.Title != nil && trimmed(*in.Title) == "" {
		fields["title"] = "must not be empty"
	}
	if in.Content != nil && trimmed(*in.Content) == "" {
		fields["content"] = "must not be empty"
	}
	if in.Week.Set && !validWeek(in.Week.Value) {
		fields["week"] = "must be between 1 and 42"
	}
	if in.Mood.Set && !validMood(in.Mood.Value) {
		fields["mood"] = "must be between 1 and 5"
	}
	if len(fields) > 0 {
		return nil, apperrors.WithFields(apperrors.ErrValidation, fields)
	}

	updates := map[string]any{}
	if in.Title != nil {
		updates["title"] = trimmed(*in.Title)
	}
	setIfPresent(updates, "content", in.Content)
	setIfPresent(updates, "date", in.Date)
	in.Week.apply(updates, "week")
	in.Mood.apply(updates, "mood")
	nullableField(in.Milestone).apply(updates, "milestone")
	nullableField(in.ImagePath).apply(updates, "image_path")
	if in.Emotions != nil {
		updates["emotions"] = datatypes.JSONSlice[string](compact(in.Emotions))
	}
	if in.Prompts != nil {
		updates["prompts"] = datatypes.JSONSlice[string](compact(in.Prompts))
	}

	if len(updates) > 0 {
		if err := s.db.Model(entry).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return s.GetDiaryEntry(userID, entryID)
}

// DeleteDiaryEntry removes an entry together with its attachments.
func (s *diaryService) DeleteDiaryEntry(userID, entryID string) error {
	entry, err := s.find(s.db, userID, entryID)
	if err != nil {
		return err
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("diary_entry_id = ?", entry.ID).Delete(&models.DiaryAttachment{}).Error; err != nil {
			return err
		}
		return tx.Delete(entry).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// AddAttachment records an uploaded file on an entry.
func (s *diaryService) AddAttachment(userID, entryID string, in AttachmentInput) (*models.DiaryAttachment, error) {
	fields := map[string]string{}
	if trimmed(in.ObjectPath) == "" {
		fields["object_path"] = "is required"
	}
	if trimmed(in.MimeType) == "" {
		fields["mime_type"] = "is required"
	}
	if trimmed(in.FileName) == "" {
		fields["file_name"] = "is required"
	}
	if in.FileSize < 0 {
		fields["file_size"] = "must not be negative"
	}
	if len(fields) > 0 {
		return nil, apperrors.WithFields(apperrors.ErrValidation, fields)
	}

	entry, err := s.find(s.db, userID, entryID)
	if err != nil {
		return nil, err
	}

	att := &models.DiaryAttachment{
		DiaryEntryID: entry.ID,
		ObjectPath:   trimmed(in.ObjectPath),
		MimeType:     trimmed(in.MimeType),
		FileName:     trimmed(in.FileName),
		FileSize:     in.FileSize,
	}
	if err := s.db.Create(att).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return att, nil
}

// DeleteAttachment removes an attachment from one of the user's entries.
func (s *diaryService) DeleteAttachment(userID, attachmentID string) error {
	if !models.IsValidID(attachmentID) {
		return apperrors.ErrAttachmentNotFound
	}
	pregnancies := s.db.Session(&gorm.Session{NewDB: true}).
		Model(&models.Pregnancy{}).Select("id").Where("user_id = ?", userID)
	owned := s.db.Session(&gorm.Session{NewDB: true}).
		Model(&models.DiaryEntry{}).Select("id").Where("pregnancy_id IN (?)", pregnancies)

	var att models.DiaryAttachment
	err := s.db.Where("id = ? AND diary_entry_id IN (?)", attachmentID, owned).First(&att).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrAttachmentNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Delete(&att).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *diaryService) find(db *gorm.DB, userID, entryID string) (*models.DiaryEntry, error) {
	return findOwnedChild[models.DiaryEntry](db, "diary_entries", userID, entryID, apperrors.ErrDiaryEntryNotFound)
}

func orderAttachments(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = trimmed(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
