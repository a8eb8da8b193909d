package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nurture/internal/services"
	"nurture/internal/validator"
)

// KickCountHandler handles kick counting sessions.
type KickCountHandler struct {
	kickCountService services.KickCountServicer
}

// NewKickCountHandler creates a new KickCountHandler.
func NewKickCountHandler(kickCountService services.KickCountServicer) *KickCountHandler {
	return &KickCountHandler{kickCountService: kickCountService}
}

// CreateKickCountRequest represents one counting session. date defaults to now.
type CreateKickCountRequest struct {
	Count           validator.Number `json:"count" swaggertype:"number" example:"10"`
	Date            validator.Date   `json:"date" swaggertype:"string" example:"2025-03-14T09:30:00Z"`
	DurationMinutes validator.Number `json:"duration_minutes" swaggertype:"number" example:"25"`
	Notes           *string          `json:"notes" binding:"omitempty,max=1000"`
}

// Validate implements validator.SelfValidator.
func (r *CreateKickCountRequest) Validate(errs validator.FieldErrors) {
	validator.RequireNumber(errs, "count", r.Count)
	validator.WholeNumber(errs, "count", r.Count)
	validator.Positive(errs, "count", r.Count)
	validator.CheckDate(errs, "date", r.Date)
	validator.CheckNumber(errs, "duration_minutes", r.DurationMinutes)
	validator.WholeNumber(errs, "duration_minutes", r.DurationMinutes)
	validator.Positive(errs, "duration_minutes", r.DurationMinutes)
}

// TodaysKickCountResponse is the number of kicks counted today.
type TodaysKickCountResponse struct {
	Total int `json:"total"`
}

// CreateKickCount records a kick counting session
// @Summary     Record kicks
// @Tags        kick-counts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                 true "Pregnancy ID"
// @Param       request body CreateKickCountRequest true "Kick count"
// @Success     201 {object} map[string]models.KickCount
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pregnancy not found"
// @Router      /pregnancies/{id}/kick-counts [post]
func (h *KickCountHandler) CreateKickCount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateKickCountRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	kickCount, err := h.kickCountService.CreateKickCount(userID, c.Param("id"), services.KickCountInput{
		Count:           req.Count.Int(),
		Date:            req.Date.Value,
		DurationMinutes: req.DurationMinutes.IntPtr(),
		Notes:           req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"kick_count": kickCount})
}

// GetKickCounts lists kick counting sessions
// @Summary     List kick counts
// @Description List sessions newest first, optionally bounded by date
// @Tags        kick-counts
// @Produce     json
// @Security    BearerAuth
// @Param       id   path  string true  "Pregnancy ID"
// @Param       from query string false "Earliest date (inclusive)"
// @Param       to   query string false "Latest date (inclusive)"
// @Success     200 {object} map[string][]models.KickCount
// @Failure     400 {object} ErrorResponse "Invalid date range"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pregnancy not found"
// @Router      /pregnancies/{id}/kick-counts [get]
func (h *KickCountHandler) GetKickCounts(c *gin.Context) {
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

	kickCounts, err := h.kickCountService.GetKickCounts(userID, c.Param("id"), dates)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"kick_counts": kickCounts})
}

// GetTodaysKickCount sums today's kicks
// @Summary     Today's kick total
// @Description Sum of kicks recorded during the current calendar day in the app time zone
// @Tags        kick-counts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Pregnancy ID"
// @Success     200 {object} TodaysKickCountResponse
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pregnancy not found"
// @Router      /pregnancies/{id}/kick-counts/today [get]
func (h *KickCountHandler) GetTodaysKickCount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	total, err := h.kickCountService.GetTodaysKickCount(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, TodaysKickCountResponse{Total: total})
}

// DeleteKickCount deletes a kick counting session
// @Summary     Delete a kick count
// @Tags        kick-counts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Kick count ID"
// @Success     200 {object} MessageResponse
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Kick count not found"
// @Router      /kick-counts/{id} [delete]
func (h *KickCountHandler) DeleteKickCount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.kickCountService.DeleteKickCount(userID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Kick count deleted successfully"})
}
