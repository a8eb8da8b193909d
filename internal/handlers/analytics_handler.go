package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nurture/internal/middleware"
	"nurture/internal/services"
)

// AnalyticsHandler records client page views.
type AnalyticsHandler struct {
	analyticsService services.AnalyticsServicer
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService services.AnalyticsServicer) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// PageViewRequest names the page the client is showing.
type PageViewRequest struct {
	Page string `json:"page" binding:"max=1024"`
}

// RecordPageView stores a page visit
// @Summary     Record a page view
// @Description Visits feed the daily reminder, which skips users already active today.
// @Tags        analytics
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body PageViewRequest true "Page"
// @Success     200 {object} SuccessResponse
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /analytics/page-view [post]
func (h *AnalyticsHandler) RecordPageView(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PageViewRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	var sessionID *string
	if id := middleware.SessionID(c); id != "" {
		sessionID = &id
	}
	h.analyticsService.RecordPageView(userID, sessionID, req.Page)

	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}
