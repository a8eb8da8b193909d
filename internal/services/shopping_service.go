package services

import (
	"time"

	"gorm.io/gorm"

	apperrors "nurture/internal/errors"
	"nurture/internal/models"
)

const shoppingOrder = "purchased ASC, " +
	"CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END ASC, " +
	"created_at ASC, id ASC"

// shoppingService handles the baby shopping list.
type shoppingService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewShoppingService creates a new ShoppingServicer.
func NewShoppingService(db *gorm.DB) ShoppingServicer {
	return &shoppingService{db: db, now: time.Now}
}

// ShoppingItemInput holds the fields for a new shopping item. An empty
// priority defaults to medium.
type ShoppingItemInput struct {
	Name      string
	Price     *float64
	Purchased bool
	Category  string
	Priority  models.ShoppingPriority
	Essential bool
	Notes     *string
}

// ShoppingItemUpdate holds a partial shopping item update.
type ShoppingItemUpdate struct {
	Name      *string
	Price     Field[float64]
	Purchased *bool
	Category  *string
	Priority  *models.ShoppingPriority
	Essential *bool
	Notes     Field[string]
}

// ValidPriority reports whether p is a known priority.
func ValidPriority(p models.ShoppingPriority) bool {
	switch p {
	case models.PriorityHigh, models.PriorityMedium, models.PriorityLow:
		return true
	}
	return false
}

func checkPrice(p float64) string {
	switch {
	case !finite(p):
		return "must be a number"
	case p < 0:
		return "must not be negative"
	case p > MaxPrice:
		return "must be at most 99999999.99"
	}
	return ""
}

// CreateShoppingItem adds an item to the list.
func (s *shoppingService) CreateShoppingItem(userID, pregnancyID string, in ShoppingItemInput) (*models.ShoppingItem, error) {
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	fields := map[string]string{}
	if trimmed(in.Name) == "" {
		fields["name"] = "is required"
	}
	if trimmed(in.Category) == "" {
		fields["category"] = "is required"
	}
	if !ValidPriority(in.Priority) {
		fields["priority"] = "must be one of: high medium low"
	}
	if in.Price != nil {
		if reason := checkPrice(*in.Price); reason != "" {
			fields["price"] = reason
		} else {
			p := round2(*in.Price)
			in.Price = &p
		}
	}
	if len(fields) > 0 {
		return nil, apperrors.WithFields(apperrors.ErrValidation, fields)
	}

	pregnancy, err := findOwnedPregnancy(s.db, userID, pregnancyID)
	if err != nil {
		return nil, err
	}

	item := &models.ShoppingItem{
		PregnancyID: pregnancy.ID,
		Name:        trimmed(in.Name),
		Price:       in.Price,
		Purchased:   in.Purchased,
		Category:    trimmed(in.Category),
		Priority:    in.Priority,
		Essential:   in.Essential,
		Notes:       nullable(in.Notes),
	}
	if in.Purchased {
		now := s.now()
		item.PurchaseDate = &now
	}
	if err := s.db.Create(item).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return item, nil
}

// GetShoppingItems lists outstanding items first, then by priority, then in
// the order they were added.
func (s *shoppingService) GetShoppingItems(userID, pregnancyID string) ([]models.ShoppingItem, error) {
	if _, err := findOwnedPregnancy(s.db, userID, pregnancyID); err != nil {
		return nil, err
	}
	var items []models.ShoppingItem
	if err := s.db.Where("pregnancy_id = ?", pregnancyID).
		Order(shoppingOrder).
		Find(&items).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return items, nil
}

// UpdateShoppingItem applies a partial update. Marking an item purchased
// stamps purchase_date unless it was already purchased; un-purchasing clears
// it. The stamp is computed inside the UPDATE itself.
func (s *shoppingService) UpdateShoppingItem(userID, itemID string, in ShoppingItemUpdate) (*models.ShoppingItem, error) {
	fields := map[string]string{}
	if in.Name != nil && trimmed(*in.Name) == "" {
		fields["name"] = "must not be empty"
	}
	if in.Category != nil && trimmed(*in.Category) == "" {
		fields["category"] = "must not be empty"
	}
	if in.Priority != nil && !ValidPriority(*in.Priority) {
		fields["priority"] = "must be one of: high medium low"
	}
	if in.Price.Set && in.Price.Value != nil {
		if reason := checkPrice(*in.Price.Value); reason != "" {
			fields["price"] = reason
		} else {
			p := round2(*in.Price.Value)
			in.Price.Value = &p
		}
	}
	if len(fields) > 0 {
		return nil, apperrors.WithFields(apperrors.ErrValidation, fields)
	}

	var item *models.ShoppingItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		found, err := findOwnedChild[models.ShoppingItem](tx, "shopping_items", userID, itemID, apperrors.ErrShoppingItemNotFound)
		if err != nil {
			return err
		}

		updates := map[string]any{}
		if in.Name != nil {
			updates["name"] = trimmed(*in.Name)
		}
		if in.Category != nil {
			updates["category"] = trimmed(*in.Category)
		}
		setIfPresent(updates, "priority", in.Priority)
		setIfPresent(updates, "essential", in.Essential)
		in.Price.apply(updates, "price")
		nullableField(in.Notes).apply(updates, "notes")
		if in.Purchased != nil {
			updates["purchased"] = *in.Purchased
			if *in.Purchased {
				updates["purchase_date"] = gorm.Expr("CASE WHEN purchased THEN purchase_date ELSE ? END", s.now())
			} else {
				updates["purchase_date"] = nil
			}
		}

		if len(updates) > 0 {
			if err := tx.Model(found).Updates(updates).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		item, err = findOwnedChild[models.ShoppingItem](tx, "shopping_items", userID, itemID, apperrors.ErrShoppingItemNotFound)
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteShoppingItem removes an item.
func (s *shoppingService) DeleteShoppingItem(userID, itemID string) error {
	return deleteOwnedChild[models.ShoppingItem](s.db, "shopping_items", userID, itemID, apperrors.ErrShoppingItemNotFound)
}
