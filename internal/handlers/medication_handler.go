package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nurture/internal/services"
	"nurture/internal/validator"
)

// MedicationHandler handles medication tracking requests.
type MedicationHandler struct {
	medicationService services.MedicationServicer
}

// NewMedicationHandler creates a new MedicationHandler.
func NewMedicationHandler(medicationService services.MedicationServicer) *MedicationHandler {
	return &MedicationHandler{medicationService: medicationService}
}

// CreateMedicationRequest represents a medication. is_active defaults to true.
type CreateMedicationRequest struct {
	Name      string         `json:"name" binding:"required,notblank,max=100"`
	Dosage    string         `json:"dosage" binding:"required,notblank,max=100"`
	Frequency string         `json:"frequency" binding:"required,notblank,max=100"`
	StartDate validator.Date `json:"start_date" swaggertype:"string" example:"2025-01-10"`
	EndDate   validator.Date `json:"end_date" swaggertype:"string"`
	Notes     *string        `json:"notes" binding:"omitempty,max=1000"`
	IsActive  *bool          `json:"is_active"`
}

// Validate implements validator.SelfValidator.
func (r *CreateMedicationRequest) Validate(errs validator.FieldErrors) {
	validator.RequireDate(errs, "start_date", r.StartDate)
	validator.CheckDate(errs, "end_date", r.EndDate)
}

// UpdateMedicationRequest represents a partial medication update.
type UpdateMedicationRequest struct {
	Name      *string                    `json:"name" binding:"omitempty,notblank,max=100"`
	Dosage    *string                    `json:"dosage" binding:"omitempty,notblank,max=100"`
	Frequency *string                    `json:"frequency" binding:"omitempty,notblank,max=100"`
	StartDate validator.Date             `json:"start_date" swaggertype:"string"`
	EndDate   validator.Date             `json:"end_date" swaggertype:"string"`
	Notes     validator.Optional[string] `json:"notes" swaggertype:"string"`
	IsActive  *bool                      `json:"is_active"`
}

// Validate implements validator.SelfValidator.
func (r *UpdateMedicationRequest) Validate(errs validator.FieldErrors) {
	validator.RejectNull(errs, "start_date", r.StartDate.Null)
	validator.CheckDate(errs, "start_date", r.StartDate)
	validator.CheckDate(errs, "end_date", r.EndDate)
	validator.MaxLength(errs, "notes", r.Notes, 1000)
}

// CreateMedication records a medication
// @Summary     Add a medication
// @Tags        medications
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                  true "Pregnancy ID"
// @Param       request body CreateMedicationRequest true "Medication"
// @Success     201 {object} map[string]models.Medication
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pregnancy not found"
// @Router      /pregnancies/{id}/medications [post]
func (h *MedicationHandler) CreateMedication(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateMedicationRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	medication, err := h.medicationService.CreateMedication(userID, c.Param("id"), services.MedicationInput{
		Name:      req.Name,
		Dosage:    req.Dosage,
		Frequency: req.Frequency,
		StartDate: req.StartDate.Value,
		EndDate:   req.EndDate.Ptr(),
		Notes:     req.Notes,
		IsActive:  req.IsActive,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"medication": medication})
}

// GetMedications lists medications
// @Summary     List medications
// @Tags        medications
// @Produce     json
// @Security    BearerAuth
// @Param       id     path  string true  "Pregnancy ID"
// @Param       active query bool   false "Only medications currently taken"
// @Success     200 {object} map[string][]models.Medication
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pregnancy not found"
// @Router      /pregnancies/{id}/medications [get]
func (h *MedicationHandler) GetMedications(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	activeOnly := c.Query("active") == "true"
	medications, err := h.medicationService.GetMedications(userID, c.Param("id"), activeOnly)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"medications": medications})
}

// UpdateMedication updates a medication
// @Summary     Update a medication
// @Tags        medications
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                  true "Medication ID"
// @Param       request body UpdateMedicationRequest true "Fields to change"
// @Success     200 {object} map[string]models.Medication
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Medication not found"
// @Router      /medications/{id} [put]
func (h *MedicationHandler) UpdateMedication(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateMedicationRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	medication, err := h.medicationService.UpdateMedication(userID, c.Param("id"), services.MedicationUpdate{
		Name:      req.Name,
		Dosage:    req.Dosage,
		Frequency: req.Frequency,
		StartDate: req.StartDate.Ptr(),
		EndDate:   dateField(req.EndDate),
		Notes:     stringField(req.Notes),
		IsActive:  req.IsActive,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"medication": medication})
}

// DeleteMedication deletes a medication
// @Summary     Delete a medication
// @Tags        medications
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Medication ID"
// @Success     200 {object} MessageResponse
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Medication not found"
// @Router      /medications/{id} [delete]
func (h *MedicationHandler) DeleteMedication(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.medicationService.DeleteMedication(userID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Medication deleted successfully"})
}
