package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nurture/internal/models"
	"nurture/internal/services"
	"nurture/internal/validator"
)

// SymptomHandler handles symptom tracking requests.
type SymptomHandler struct {
	symptomService services.SymptomServicer
}

// NewSymptomHandler creates a new SymptomHandler.
func NewSymptomHandler(symptomService services.SymptomServicer) *SymptomHandler {
	return &SymptomHandler{symptomService: symptomService}
}

// CreateSymptomRequest represents a logged symptom.
type CreateSymptomRequest struct {
	Name     string         `json:"name" binding:"required,notblank,max=100"`
	Severity string         `json:"severity" binding:"required,symptom_severity"`
	Date     validator.Date `json:"date" swaggertype:"string" example:"2025-03-14"`
	Notes    *string        `json:"notes" binding:"omitempty,max=1000"`
}

// Validate implements validator.SelfValidator.
func (r *CreateSymptomRequest) Validate(errs validator.FieldErrors) {
	validator.CheckDate(errs, "date", r.Date)
}

// CreateSymptom logs a symptom
// @Summary     Log a symptom
// @Tags        symptoms
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Pregnancy ID"
// @Param       request body CreateSymptomRequest true "Symptom"
// @Success     201 {object} map[string]models.Symptom
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pregnancy not found"
// @Router      /pregnancies/{id}/symptoms [post]
func (h *SymptomHandler) CreateSymptom(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateSymptomRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	symptom, err := h.symptomService.CreateSymptom(userID, c.Param("id"), services.SymptomInput{
		Name:     req.Name,
		Severity: models.SymptomSeverity(req.Severity),
		Date:     req.Date.Value,
		Notes:    req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"symptom": symptom})
}

// GetSymptoms lists logged symptoms
// @Summary     List symptoms
// @Tags        symptoms
// @Produce     json
// @Security    BearerAuth
// @Param       id   path  string true  "Pregnancy ID"
// @Param       from query string false "Earliest date (inclusive)"
// @Param       to   query string false "Latest date (inclusive)"
// @Success     200 {object} map[string][]models.Symptom
// @Failure     400 {object} ErrorResponse "Invalid date range"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pregnancy not found"
// @Router      /pregnancies/{id}/symptoms [get]
func (h *SymptomHandler) GetSymptoms(c *gin.Context) {
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

	symptoms, err := h.symptomService.GetSymptoms(userID, c.Param("id"), dates)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"symptoms": symptoms})
}

// DeleteSymptom deletes a logged symptom
// @Summary     Delete a symptom
// @Tags        symptoms
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Symptom ID"
// @Success     200 {object} MessageResponse
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Symptom not found"
// @Router      /symptoms/{id} [delete]
func (h *SymptomHandler) DeleteSymptom(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.symptomService.DeleteSymptom(userID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Symptom deleted successfully"})
}
