package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nurture/internal/services"
	"nurture/internal/validator"
)

// ConsultationHandler handles prenatal consultation requests.
type ConsultationHandler struct {
	consultationService services.ConsultationServicer
	auditService        services.AuditServicer
}

// NewConsultationHandler creates a new ConsultationHandler.
func NewConsultationHandler(consultationService services.ConsultationServicer, auditService services.AuditServicer) *ConsultationHandler {
	return &ConsultationHandler{consultationService: consultationService, auditService: auditService}
}

// CreateConsultationRequest represents an appointment.
type CreateConsultationRequest struct {
	Title      string         `json:"title" binding:"required,notblank,max=200"`
	Date       validator.Date `json:"date" swaggertype:"string" example:"2025-04-02T14:00:00Z"`
	Location   *string        `json:"location" binding:"omitempty,max=200"`
	DoctorName *string        `json:"doctor_name" binding:"omitempty,max=100"`
	Notes      *string        `json:"notes" binding:"omitempty,max=2000"`
}

// Validate implements validator.SelfValidator.
func (r *CreateConsultationRequest) Validate(errs validator.FieldErrors) {
	validator.RequireDate(errs, "date", r.Date)
}

// UpdateConsultationRequest represents a partial appointment update.
// Changing the date re-arms the reminder.
type UpdateConsultationRequest struct {
	Title      *string                    `json:"title" binding:"omitempty,notblank,max=200"`
	Date       validator.Date             `json:"date" swaggertype:"string"`
	Location   validator.Optional[string] `json:"location" swaggertype:"string"`
	DoctorName validator.Optional[string] `json:"doctor_name" swaggertype:"string"`
	Notes      validator.Optional[string] `json:"notes" swaggertype:"string"`
	Completed  *bool                      `json:"completed"`
}

// Validate implements validator.SelfValidator.
func (r *UpdateConsultationRequest) Validate(errs validator.FieldErrors) {
	validator.RejectNull(errs, "date", r.Date.Null)
	validator.CheckDate(errs, "date", r.Date)
	validator.MaxLength(errs, "location", r.Location, 200)
	validator.MaxLength(errs, "doctor_name", r.DoctorName, 100)
	validator.MaxLength(errs, "notes", r.Notes, 2000)
}

// CreateConsultation schedules an appointment
// @Summary     Add a consultation
// @Tags        consultations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                    true "Pregnancy ID"
// @Param       request body CreateConsultationRequest true "Consultation"
// @Success     201 {object} map[string]models.Consultation
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pregnancy not found"
// @Router      /pregnancies/{id}/consultations [post]
func (h *ConsultationHandler) CreateConsultation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateConsultationRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	consultation, err := h.consultationService.CreateConsultation(userID, c.Param("id"), services.ConsultationInput{
		Title:      req.Title,
		Date:       req.Date.Value,
		Location:   req.Location,
		DoctorName: req.DoctorName,
		Notes:      req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_CONSULTATION", "consultation", consultation.ID, c.ClientIP(),
		map[string]any{"date": consultation.Date})

	c.JSON(http.StatusCreated, gin.H{"consultation": consultation})
}

// GetConsultations lists a pregnancy's appointments
// @Summary     List consultations
// @Tags        consultations
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Pregnancy ID"
// @Success     200 {object} map[string][]models.Consultation
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pregnancy not found"
// @Router      /pregnancies/{id}/consultations [get]
func (h *ConsultationHandler) GetConsultations(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	consultations, err := h.consultationService.GetConsultations(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"consultations": consultations})
}

// GetUpcomingConsultations lists future appointments not yet completed
// @Summary     List upcoming consultations
// @Tags        consultations
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Pregnancy ID"
// @Success     200 {object} map[string][]models.Consultation
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pregnancy not found"
// @Router      /pregnancies/{id}/consultations/upcoming [get]
func (h *ConsultationHandler) GetUpcomingConsultations(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	consultations, err := h.consultationService.GetUpcomingConsultations(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"consultations": consultations})
}

// GetNextConsultation returns the user's next appointment
// @Summary     Next consultation
// @Description Earliest upcoming consultation across all of the user's pregnancies
// @Tags        consultations
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]models.Consultation
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Nothing scheduled"
// @Router      /consultations/next [get]
func (h *ConsultationHandler) GetNextConsultation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	consultation, err := h.consultationService.GetNextConsultation(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"consultation": consultation})
}

// UpdateConsultation updates an appointment
// @Summary     Update a consultation
// @Tags        consultations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                    true "Consultation ID"
// @Param       request body UpdateConsultationRequest true "Fields to change"
// @Success     200 {object} map[string]models.Consultation
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Belongs to another user"
// @Failure     404 {object} ErrorResponse "Consultation not found"
// @Router      /consultations/{id} [put]
func (h *ConsultationHandler) UpdateConsultation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateConsultationRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	consultationID := c.Param("id")
	consultation, err := h.consultationService.UpdateConsultation(userID, consultationID, services.ConsultationUpdate{
		Title:      req.Title,
		Date:       req.Date.Ptr(),
		Location:   stringField(req.Location),
		DoctorName: stringField(req.DoctorName),
		Notes:      stringField(req.Notes),
		Completed:  req.Completed,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_CONSULTATION", "consultation", consultationID, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"consultation": consultation})
}

// DeleteConsultation deletes an appointment
// @Summary     Delete a consultation
// @Tags        consultations
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Consultation ID"
// @Success     200 {object} MessageResponse
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Belongs to another user"
// @Failure     404 {object} ErrorResponse "Consultation not found"
// @Router      /consultations/{id} [delete]
func (h *ConsultationHandler) DeleteConsultation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	consultationID := c.Param("id")
	if err := h.consultationService.DeleteConsultation(userID, consultationID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_CONSULTATION", "consultation", consultationID, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Consultation deleted successfully"})
}
