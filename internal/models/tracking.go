package models

import "time"

// KickCount records a fetal-movement counting session.
type KickCount struct {
	Base
	PregnancyID     string    `gorm:"type:uuid;not null;index" json:"pregnancy_id"`
	Count           int       `gorm:"not null" json:"count"`
	Date            time.Time `gorm:"not null;index" json:"date"`
	DurationMinutes *int      `json:"duration_minutes"`
	Notes           *string   `json:"notes"`
}

// WeightEntry records the mother's weight in kilograms.
type WeightEntry struct {
	Base
	PregnancyID string    `gorm:"type:uuid;not null;index" json:"pregnancy_id"`
	Weight      float64   `gorm:"not null" json:"weight"`
	Date        time.Time `gorm:"not null;index" json:"date"`
	Notes       *string   `json:"notes"`
}

// SymptomSeverity grades a symptom.
type SymptomSeverity string

const (
	SeverityMild     SymptomSeverity = "mild"
	SeverityModerate SymptomSeverity = "moderate"
	SeveritySevere   SymptomSeverity = "severe"
)

// Symptom records a symptom occurrence.
type Symptom struct {
	Base
	PregnancyID string          `gorm:"type:uuid;not null;index" json:"pregnancy_id"`
	Name        string          `gorm:"not null" json:"name"`
	Severity    SymptomSeverity `gorm:"not null" json:"severity"`
	Date        time.Time       `gorm:"not null" json:"date"`
	Notes       *string         `json:"notes"`
}

// Medication records a medication or supplement regimen.
type Medication struct {
	Base
	PregnancyID string     `gorm:"type:uuid;not null;index" json:"pregnancy_id"`
	Name        string     `gorm:"not null" json:"name"`
	Dosage      string     `gorm:"not null" json:"dosage"`
	Frequency   string     `gorm:"not null" json:"frequency"`
	StartDate   time.Time  `gorm:"not null" json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Notes       *string    `json:"notes"`
	IsActive    bool       `gorm:"not null" json:"is_active"`
}
