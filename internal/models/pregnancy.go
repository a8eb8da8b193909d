package models

import (
	"time"

	"gorm.io/gorm"
)

// GestationDays is the length of a full-term pregnancy counted from the
// first day of the last menstrual period.
const GestationDays = 280

// ActivePregnancyIndexSQL enforces at most one active pregnancy per user.
// The same index is created by the SQL migrations; AutoMigrate-based test
// databases execute it directly.
const ActivePregnancyIndexSQL = `CREATE UNIQUE INDEX IF NOT EXISTS idx_pregnancies_one_active ON pregnancies (user_id) WHERE is_active`

// Pregnancy represents a tracked pregnancy. Deactivated pregnancies are kept
// for history; every tracking table hangs off a pregnancy.
type Pregnancy struct {
	Base
	UserID         string     `gorm:"type:uuid;not null;index" json:"user_id"`
	DueDate        time.Time  `gorm:"not null" json:"due_date"`
	LastPeriodDate *time.Time `json:"last_period_date"`
	IsActive       bool       `gorm:"not null" json:"is_active"`
	BabyName       *string    `json:"baby_name"`
	Notes          *string    `json:"notes"`

	CurrentWeek  int `gorm:"-" json:"current_week"`
	DaysUntilDue int `gorm:"-" json:"days_until_due"`
}

// AfterFind fills in the derived progress fields.
func (p *Pregnancy) AfterFind(tx *gorm.DB) error {
	p.ComputeProgress(time.Now())
	return nil
}

// ComputeProgress derives the gestational week and days until the due date
// as of now. The week is counted from the last period when known, otherwise
// from due date minus 280 days, and is clamped to [0, 42].
func (p *Pregnancy) ComputeProgress(now time.Time) {
	start := p.DueDate.AddDate(0, 0, -GestationDays)
	if p.LastPeriodDate != nil {
		start = *p.LastPeriodDate
	}

	week := int(now.Sub(start).Hours()/24) / 7
	switch {
	case week < 0:
		week = 0
	case week > 42:
		week = 42
	}
	p.CurrentWeek = week

	days := int(p.DueDate.Sub(now).Hours() / 24)
	if days < 0 {
		days = 0
	}
	p.DaysUntilDue = days
}
