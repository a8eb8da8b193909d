package models

import "time"

// PasswordResetToken is an issued reset code. Only the SHA-256 of the code is
// stored. A token is usable while ConsumedAt is nil and ExpiresAt is ahead.
type PasswordResetToken struct {
	Base
	UserID     string     `gorm:"type:uuid;not null;index" json:"-"`
	TokenHash  string     `gorm:"size:64;not null;index" json:"-"`
	ExpiresAt  time.Time  `gorm:"not null" json:"expires_at"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty"`
}
