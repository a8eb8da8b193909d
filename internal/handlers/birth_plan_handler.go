package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nurture/internal/models"
	"nurture/internal/services"
)

// BirthPlanHandler handles birth plan requests.
type BirthPlanHandler struct {
	birthPlanService services.BirthPlanServicer
	auditService     services.AuditServicer
}

// NewBirthPlanHandler creates a new BirthPlanHandler.
func NewBirthPlanHandler(birthPlanService services.BirthPlanServicer, auditService services.AuditServicer) *BirthPlanHandler {
	return &BirthPlanHandler{birthPlanService: birthPlanService, auditService: auditService}
}

// BirthPlanRequest replaces the plan's preferences document.
type BirthPlanRequest struct {
	Preferences models.BirthPreferences `json:"preferences"`
}

// GetBirthPlan returns a pregnancy's birth plan
// @Summary     Get the birth plan
// @Tags        birth-plans
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Pregnancy ID"
// @Success     200 {object} map[string]models.BirthPlan
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No birth plan yet"
// @Router      /pregnancies/{id}/birth-plan [get]
func (h *BirthPlanHandler) GetBirthPlan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	plan, err := h.birthPlanService.GetBirthPlan(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"birth_plan": plan})
}

// SaveBirthPlan creates or replaces a pregnancy's birth plan
// @Summary     Save the birth plan
// @Description Create the plan or replace its preferences. There is one plan per pregnancy.
// @Tags        birth-plans
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string           true "Pregnancy ID"
// @Param       request body BirthPlanRequest true "Birth preferences"
// @Success     200 {object} map[string]models.BirthPlan
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pregnancy not found"
// @Router      /pregnancies/{id}/birth-plan [put]
func (h *BirthPlanHandler) SaveBirthPlan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BirthPlanRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	plan, err := h.birthPlanService.CreateOrUpdateBirthPlan(userID, c.Param("id"), req.Preferences)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "SAVE_BIRTH_PLAN", "birth_plan", plan.ID, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"birth_plan": plan})
}

// DeleteBirthPlan deletes a birth plan
// @Summary     Delete a birth plan
// @Tags        birth-plans
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Birth plan ID"
// @Success     200 {object} MessageResponse
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Birth plan not found"
// @Router      /birth-plans/{id} [delete]
func (h *BirthPlanHandler) DeleteBirthPlan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	birthPlanID := c.Param("id")
	if err := h.birthPlanService.DeleteBirthPlan(userID, birthPlanID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_BIRTH_PLAN", "birth_plan", birthPlanID, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Birth plan deleted successfully"})
}
