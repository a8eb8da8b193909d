package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nurture/internal/services"
	"nurture/internal/validator"
)

// WeightHandler handles weight tracking requests.
type WeightHandler struct {
	weightService services.WeightServicer
}

// NewWeightHandler creates a new WeightHandler.
func NewWeightHandler(weightService services.WeightServicer) *WeightHandler {
	return &WeightHandler{weightService: weightService}
}

// CreateWeightEntryRequest represents a weigh-in. weight is in kilograms and
// may be sent as a number or a numeric string.
type CreateWeightEntryRequest struct {
	Weight validator.Number `json:"weight" swaggertype:"number" example:"64.5"`
	Date   validator.Date   `json:"date" swaggertype:"string" example:"2025-03-14"`
	Notes  *string          `json:"notes" binding:"omitempty,max=1000"`
}

// Validate implements validator.SelfValidator.
func (r *CreateWeightEntryRequest) Validate(errs validator.FieldErrors) {
	validator.RequireNumber(errs, "weight", r.Weight)
	validator.Positive(errs, "weight", r.Weight)
	validator.NumberRange(errs, "weight", r.Weight, 0, 500)
	validator.CheckDate(errs, "date", r.Date)
}

// UpdateWeightEntryRequest represents a partial weigh-in update.
type UpdateWeightEntryRequest struct {
	Weight validator.Number           `json:"weight" swaggertype:"number"`
	Date   validator.Date             `json:"date" swaggertype:"string"`
	Notes  validator.Optional[string] `json:"notes" swaggertype:"string"`
}

// Validate implements validator.SelfValidator.
func (r *UpdateWeightEntryRequest) Validate(errs validator.FieldErrors) {
	validator.RejectNull(errs, "weight", r.Weight.Null)
	validator.CheckNumber(errs, "weight", r.Weight)
	validator.Positive(errs, "weight", r.Weight)
	validator.NumberRange(errs, "weight", r.Weight, 0, 500)
	validator.RejectNull(errs, "date", r.Date.Null)
	validator.CheckDate(errs, "date", r.Date)
	validator.MaxLength(errs, "notes", r.Notes, 1000)
}

// CreateWeightEntry records a weigh-in
// @Summary     Record weight
// @Tags        weight
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                   true "Pregnancy ID"
// @Param       request body CreateWeightEntryRequest true "Weight entry"
// @Success     201 {object} map[string]models.WeightEntry
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pregnancy not found"
// @Router      /pregnancies/{id}/weight-entries [post]
func (h *WeightHandler) CreateWeightEntry(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateWeightEntryRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.weightService.CreateWeightEntry(userID, c.Param("id"), services.WeightInput{
		Weight: req.Weight.Value,
		Date:   req.Date.Value,
		Notes:  req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"weight_entry": entry})
}

// GetWeightEntries lists weigh-ins
// @Summary     List weight entries
// @Tags        weight
// @Produce     json
// @Security    BearerAuth
// @Param       id   path  string true  "Pregnancy ID"
// @Param       from query string false "Earliest date (inclusive)"
// @Param       to   query string false "Latest date (inclusive)"
// @Success     200 {object} map[string][]models.WeightEntry
// @Failure     400 {object} ErrorResponse "Invalid date range"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pregnancy not found"
// @Router      /pregnancies/{id}/weight-entries [get]
func (h *WeightHandler) GetWeightEntries(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dates, err := parseDateRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entries, err := h.weightService.GetWeightEntries(userID, c.Param("id"), dates)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"weight_entries": entries})
}

// GetLatestWeight returns the most recent weigh-in
// @Summary     Latest weight
// @Tags        weight
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Pregnancy ID"
// @Success     200 {object} map[string]models.WeightEntry
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No weight recorded"
// @Router      /pregnancies/{id}/weight-entries/latest [get]
func (h *WeightHandler) GetLatestWeight(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.weightService.GetLatestWeight(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"weight_entry": entry})
}

// UpdateWeightEntry updates a weigh-in
// @Summary     Update a weight entry
// @Tags        weight
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                   true "Weight entry ID"
// @Param       request body UpdateWeightEntryRequest true "Fields to change"
// @Success     200 {object} map[string]models.WeightEntry
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Weight entry not found"
// @Router      /weight-entries/{id} [put]
func (h *WeightHandler) UpdateWeightEntry(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateWeightEntryRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.weightService.UpdateWeightEntry(userID, c.Param("id"), services.WeightUpdate{
		Weight: req.Weight.Ptr(),
		Date:   req.Date.Ptr(),
		Notes:  stringField(req.Notes),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"weight_entry": entry})
}

// DeleteWeightEntry deletes a weigh-in
// @Summary     Delete a weight entry
// @Tags        weight
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Weight entry ID"
// @Success     200 {object} MessageResponse
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Weight entry not found"
// @Router      /weight-entries/{id} [delete]
func (h *WeightHandler) DeleteWeightEntry(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.weightService.DeleteWeightEntry(userID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Weight entry deleted successfully"})
}
