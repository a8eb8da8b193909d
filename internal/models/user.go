package models

import "time"

// User represents an account holder. Email is stored trimmed and lower-cased.
type User struct {
	Base
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	Password     string     `gorm:"not null" json:"-"`
	Name         string     `gorm:"not null" json:"name"`
	ProfilePhoto *string    `json:"profile_photo"`
	BirthDate    *time.Time `json:"birth_date"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}
