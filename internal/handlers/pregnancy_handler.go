package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nurture/internal/services"
	"nurture/internal/validator"
)

// PregnancyHandler handles pregnancy-related requests.
type PregnancyHandler struct {
	pregnancyService services.PregnancyServicer
	auditService     services.AuditServicer
}

// NewPregnancyHandler creates a new PregnancyHandler.
func NewPregnancyHandler(pregnancyService services.PregnancyServicer, auditService services.AuditServicer) *PregnancyHandler {
	return &PregnancyHandler{pregnancyService: pregnancyService, auditService: auditService}
}

// CreatePregnancyRequest represents the request payload for creating a pregnancy.
// is_active defaults to true.
type CreatePregnancyRequest struct {
	DueDate        validator.Date `json:"due_date" swaggertype:"string" example:"2025-09-01"`
	LastPeriodDate validator.Date `json:"last_period_date" swaggertype:"string" example:"2024-11-25"`
	BabyName       *string        `json:"baby_name" binding:"omitempty,max=100"`
	Notes          *string        `json:"notes" binding:"omitempty,max=2000"`
	IsActive       *bool          `json:"is_active"`
}

// Validate implements validator.SelfValidator.
func (r *CreatePregnancyRequest) Validate(errs validator.FieldErrors) {
	validator.RequireDate(errs, "due_date", r.DueDate)
	validator.CheckDate(errs, "last_period_date", r.LastPeriodDate)
}

// UpdatePregnancyRequest represents a partial pregnancy update.
type UpdatePregnancyRequest struct {
	DueDate        validator.Date             `json:"due_date" swaggertype:"string"`
	LastPeriodDate validator.Date             `json:"last_period_date" swaggertype:"string"`
	BabyName       validator.Optional[string] `json:"baby_name" swaggertype:"string"`
	Notes          validator.Optional[string] `json:"notes" swaggertype:"string"`
	IsActive       *bool                      `json:"is_active"`
}

// Validate implements validator.SelfValidator.
func (r *UpdatePregnancyRequest) Validate(errs validator.FieldErrors) {
	validator.RejectNull(errs, "due_date", r.DueDate.Null)
	validator.CheckDate(errs, "due_date", r.DueDate)
	validator.CheckDate(errs, "last_period_date", r.LastPeriodDate)
	validator.MaxLength(errs, "baby_name", r.BabyName, 100)
	validator.MaxLength(errs, "notes", r.Notes, 2000)
}

// CreatePregnancy handles the creation of a pregnancy
// @Summary     Create a pregnancy
// @Description Create a pregnancy. A new active pregnancy deactivates the previous one.
// @Tags        pregnancies
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreatePregnancyRequest true "Pregnancy data"
// @Success     201 {object} map[string]models.Pregnancy
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /pregnancies [post]
func (h *PregnancyHandler) CreatePregnancy(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreatePregnancyRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	pregnancy, err := h.pregnancyService.CreatePregnancy(userID, services.PregnancyInput{
		DueDate:        req.DueDate.Value,
		LastPeriodDate: req.LastPeriodDate.Ptr(),
		BabyName:       req.BabyName,
		Notes:          req.Notes,
		IsActive:       req.IsActive == nil || *req.IsActive,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_PREGNANCY", "pregnancy", pregnancy.ID, c.ClientIP(),
		map[string]any{"is_active": pregnancy.IsActive})

	c.JSON(http.StatusCreated, gin.H{"pregnancy": pregnancy})
}

// GetPregnancies lists the user's pregnancies
// @Summary     List pregnancies
// @Tags        pregnancies
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]models.Pregnancy
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /pregnancies [get]
func (h *PregnancyHandler) GetPregnancies(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	pregnancies, err := h.pregnancyService.GetUserPregnancies(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pregnancies": pregnancies})
}

// GetActivePregnancy returns the user's active pregnancy
// @Summary     Get the active pregnancy
// @Tags        pregnancies
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]models.Pregnancy
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No active pregnancy"
// @Router      /pregnancies/active [get]
func (h *PregnancyHandler) GetActivePregnancy(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	pregnancy, err := h.pregnancyService.GetActivePregnancy(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pregnancy": pregnancy})
}

// GetPregnancy returns one pregnancy
// @Summary     Get a pregnancy
// @Tags        pregnancies
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Pregnancy ID"
// @Success     200 {object} map[string]models.Pregnancy
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pregnancy not found"
// @Router      /pregnancies/{id} [get]
func (h *PregnancyHandler) GetPregnancy(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	pregnancy, err := h.pregnancyService.GetPregnancy(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pregnancy": pregnancy})
}

// UpdatePregnancy updates a pregnancy
// @Summary     Update a pregnancy
// @Description Partially update a pregnancy. Setting is_active to true deactivates the others.
// @Tags        pregnancies
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                 true "Pregnancy ID"
// @Param       request body UpdatePregnancyRequest true "Fields to change"
// @Success     200 {object} map[string]models.Pregnancy
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pregnancy not found"
// @Router      /pregnancies/{id} [put]
func (h *PregnancyHandler) UpdatePregnancy(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePregnancyRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	pregnancyID := c.Param("id")
	pregnancy, err := h.pregnancyService.UpdatePregnancy(userID, pregnancyID, services.PregnancyUpdate{
		DueDate:        req.DueDate.Ptr(),
		LastPeriodDate: dateField(req.LastPeriodDate),
		BabyName:       stringField(req.BabyName),
		Notes:          stringField(req.Notes),
		IsActive:       req.IsActive,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_PREGNANCY", "pregnancy", pregnancyID, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"pregnancy": pregnancy})
}

// DeactivatePregnancy marks a pregnancy inactive
// @Summary     Deactivate a pregnancy
// @Description Mark a pregnancy inactive. The record and its history are kept.
// @Tags        pregnancies
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Pregnancy ID"
// @Success     200 {object} map[string]models.Pregnancy
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pregnancy not found"
// @Router      /pregnancies/{id}/deactivate [post]
func (h *PregnancyHandler) DeactivatePregnancy(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	pregnancyID := c.Param("id")
	pregnancy, err := h.pregnancyService.DeactivatePregnancy(userID, pregnancyID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DEACTIVATE_PREGNANCY", "pregnancy", pregnancyID, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"pregnancy": pregnancy})
}
