package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "nurture/internal/errors"
	"nurture/internal/services"
)

// BabyDevelopmentHandler serves the weekly development reference data.
type BabyDevelopmentHandler struct {
	babyDevelopmentService services.BabyDevelopmentServicer
}

// NewBabyDevelopmentHandler creates a new BabyDevelopmentHandler.
func NewBabyDevelopmentHandler(babyDevelopmentService services.BabyDevelopmentServicer) *BabyDevelopmentHandler {
	return &BabyDevelopmentHandler{babyDevelopmentService: babyDevelopmentService}
}

// GetAll lists every week
// @Summary     List baby development data
// @Tags        baby-development
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]models.BabyDevelopment
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /baby-development [get]
func (h *BabyDevelopmentHandler) GetAll(c *gin.Context) {
	weeks, err := h.babyDevelopmentService.GetAll()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"weeks": weeks})
}

// GetByWeek returns one week
// @Summary     Baby development for a week
// @Tags        baby-development
// @Produce     json
// @Security    BearerAuth
// @Param       week path int true "Gestational week (1-42)"
// @Success     200 {object} map[string]models.BabyDevelopment
// @Failure     400 {object} ErrorResponse "Week out of range"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No data for this week"
// @Router      /baby-development/{week} [get]
func (h *BabyDevelopmentHandler) GetByWeek(c *gin.Context) {
	week, err := strconv.Atoi(c.Param("week"))
	if err != nil {
		respondWithError(c, apperrors.WithFields(apperrors.ErrValidation,
			map[string]string{"week": "must be a whole number"}))
		return
	}

	development, err := h.babyDevelopmentService.GetByWeek(week)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"baby_development": development})
}
