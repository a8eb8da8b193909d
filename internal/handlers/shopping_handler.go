package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nurture/internal/models"
	"nurture/internal/services"
	"nurture/internal/validator"
)

// ShoppingHandler handles shopping list requests.
type ShoppingHandler struct {
	shoppingService services.ShoppingServicer
}

// NewShoppingHandler creates a new ShoppingHandler.
func NewShoppingHandler(shoppingService services.ShoppingServicer) *ShoppingHandler {
	return &ShoppingHandler{shoppingService: shoppingService}
}

// CreateShoppingItemRequest represents a list item. priority defaults to medium.
type CreateShoppingItemRequest struct {
	Name      string           `json:"name" binding:"required,notblank,max=200"`
	Price     validator.Number `json:"price" swaggertype:"number" example:"129.99"`
	Purchased bool             `json:"purchased"`
	Category  string           `json:"category" binding:"required,notblank,max=100"`
	Priority  string           `json:"priority" binding:"omitempty,shopping_priority"`
	Essential bool             `json:"essential"`
	Notes     *string          `json:"notes" binding:"omitempty,max=1000"`
}

// Validate implements validator.SelfValidator.
func (r *CreateShoppingItemRequest) Validate(errs validator.FieldErrors) {
	validator.CheckNumber(errs, "price", r.Price)
	validator.NumberRange(errs, "price", r.Price, 0, services.MaxPrice)
}

// UpdateShoppingItemRequest represents a partial item update. Marking an
// item purchased stamps its purchase date; unmarking clears it.
type UpdateShoppingItemRequest struct {
	Name      *string                    `json:"name" binding:"omitempty,notblank,max=200"`
	Price     validator.Number           `json:"price" swaggertype:"number"`
	Purchased *bool                      `json:"purchased"`
	Category  *string                    `json:"category" binding:"omitempty,notblank,max=100"`
	Priority  *string                    `json:"priority" binding:"omitempty,shopping_priority"`
	Essential *bool                      `json:"essential"`
	Notes     validator.Optional[string] `json:"notes" swaggertype:"string"`
}

// Validate implements validator.SelfValidator.
func (r *UpdateShoppingItemRequest) Validate(errs validator.FieldErrors) {
	validator.CheckNumber(errs, "price", r.Price)
	validator.NumberRange(errs, "price", r.Price, 0, services.MaxPrice)
	validator.MaxLength(errs, "notes", r.Notes, 1000)
}

// CreateShoppingItem adds an item to the list
// @Summary     Add a shopping item
// @Tags        shopping
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                    true "Pregnancy ID"
// @Param       request body CreateShoppingItemRequest true "Item"
// @Success     201 {object} map[string]models.ShoppingItem
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pregnancy not found"
// @Router      /pregnancies/{id}/shopping-items [post]
func (h *ShoppingHandler) CreateShoppingItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateShoppingItemRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	item, err := h.shoppingService.CreateShoppingItem(userID, c.Param("id"), services.ShoppingItemInput{
		Name:      req.Name,
		Price:     req.Price.Ptr(),
		Purchased: req.Purchased,
		Category:  req.Category,
		Priority:  models.ShoppingPriority(req.Priority),
		Essential: req.Essential,
		Notes:     req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"shopping_item": item})
}

// GetShoppingItems lists the shopping list
// @Summary     List shopping items
// @Description Outstanding items first, then by priority, then in the order added
// @Tags        shopping
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Pregnancy ID"
// @Success     200 {object} map[string][]models.ShoppingItem
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pregnancy not found"
// @Router      /pregnancies/{id}/shopping-items [get]
func (h *ShoppingHandler) GetShoppingItems(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	items, err := h.shoppingService.GetShoppingItems(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"shopping_items": items})
}

// UpdateShoppingItem updates a list item
// @Summary     Update a shopping item
// @Tags        shopping
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                    true "Shopping item ID"
// @Param       request body UpdateShoppingItemRequest true "Fields to change"
// @Success     200 {object} map[string]models.ShoppingItem
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Shopping item not found"
// @Router      /shopping-items/{id} [put]
func (h *ShoppingHandler) UpdateShoppingItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateShoppingItemRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	update := services.ShoppingItemUpdate{
		Name:      req.Name,
		Price:     floatField(req.Price),
		Purchased: req.Purchased,
		Category:  req.Category,
		Essential: req.Essential,
		Notes:     stringField(req.Notes),
	}
	if req.Priority != nil {
		priority := models.ShoppingPriority(*req.Priority)
		update.Priority = &priority
	}

	item, err := h.shoppingService.UpdateShoppingItem(userID, c.Param("id"), update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"shopping_item": item})
}

// DeleteShoppingItem removes an item from the list
// @Summary     Delete a shopping item
// @Tags        shopping
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Shopping item ID"
// @Success     200 {object} MessageResponse
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Shopping item not found"
// @Router      /shopping-items/{id} [delete]
func (h *ShoppingHandler) DeleteShoppingItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.shoppingService.DeleteShoppingItem(userID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Shopping item deleted successfully"})
}
