package models

import "time"

// ShoppingPriority ranks shopping list items.
type ShoppingPriority string

const (
	PriorityHigh   ShoppingPriority = "high"
	PriorityMedium ShoppingPriority = "medium"
	PriorityLow    ShoppingPriority = "low"
)

// ShoppingItem is an entry on the baby shopping list. PurchaseDate is
// maintained by the service: set when the item becomes purchased, cleared
// when it is un-purchased.
type ShoppingItem struct {
	Base
	PregnancyID  string           `gorm:"type:uuid;not null;index" json:"pregnancy_id"`
	Name         string           `gorm:"not null" json:"name"`
	Price        *float64         `json:"price"`
	Purchased    bool             `gorm:"not null" json:"purchased"`
	Category     string           `gorm:"not null" json:"category"`
	Priority     ShoppingPriority `gorm:"not null" json:"priority"`
	Essential    bool             `gorm:"not null" json:"essential"`
	PurchaseDate *time.Time       `json:"purchase_date"`
	Notes        *string          `json:"notes"`
}
