package models

import (
	"time"

	"gorm.io/datatypes"
)

// Photo is an album entry; ObjectPath points at the uploaded object.
type Photo struct {
	Base
	PregnancyID string    `gorm:"type:uuid;not null;index" json:"pregnancy_id"`
	ObjectPath  string    `gorm:"not null" json:"object_path"`
	Week        *int      `json:"week"`
	Caption     *string   `json:"caption"`
	Date        time.Time `gorm:"not null" json:"date"`
	IsFavorite  bool      `gorm:"not null" json:"is_favorite"`
	Milestone   *string   `json:"milestone"`
}

// DiaryEntry is a journal entry with mood tracking.
type DiaryEntry struct {
	Base
	PregnancyID string                      `gorm:"type:uuid;not null;index" json:"pregnancy_id"`
	Title       string                      `gorm:"not null" json:"title"`
	Content     string                      `gorm:"not null" json:"content"`
	Week        *int                        `json:"week"`
	Mood        *int                        `json:"mood"`
	Emotions    datatypes.JSONSlice[string] `json:"emotions"`
	Milestone   *string                     `json:"milestone"`
	Prompts     datatypes.JSONSlice[string] `json:"prompts"`
	Date        time.Time                   `gorm:"not null" json:"date"`
	ImagePath   *string                     `json:"image_path"`
	Attachments []DiaryAttachment           `gorm:"foreignKey:DiaryEntryID;constraint:OnDelete:CASCADE" json:"attachments,omitempty"`
}

// DiaryAttachment is a file uploaded alongside a diary entry.
type DiaryAttachment struct {
	Base
	DiaryEntryID string `gorm:"type:uuid;not null;index" json:"diary_entry_id"`
	ObjectPath   string `gorm:"not null" json:"object_path"`
	MimeType     string `gorm:"not null" json:"mime_type"`
	FileName     string `gorm:"not null" json:"file_name"`
	FileSize     int64  `gorm:"not null" json:"file_size"`
}
