package models

import "time"

// Consultation is a scheduled prenatal appointment. ReminderSentAt marks a
// consultation whose reminder has already been claimed by the scheduler.
type Consultation struct {
	Base
	UserID         string     `gorm:"type:uuid;not null;index" json:"user_id"`
	PregnancyID    string     `gorm:"type:uuid;not null;index" json:"pregnancy_id"`
	Title          string     `gorm:"not null" json:"title"`
	Date           time.Time  `gorm:"not null;index" json:"date"`
	Location       *string    `json:"location"`
	DoctorName     *string    `json:"doctor_name"`
	Notes          *string    `json:"notes"`
	Completed      bool       `gorm:"not null" json:"completed"`
	ReminderSentAt *time.Time `json:"-"`
}
