package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"nurture/internal/models"
	"nurture/internal/services"
)

const maxUserAgentLen = 512

// AccessLog stores one row per API request once the response is written.
// Health checks and metrics scrapes are skipped.
func AccessLog(analytics services.AnalyticsServicer) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.Request.URL.Path
		if !strings.HasPrefix(path, "/api/v1/") {
			return
		}

		entry := &models.AccessLog{
			Method:    c.Request.Method,
			Path:      path,
			Status:    c.Writer.Status(),
			LatencyMs: time.Since(start).Milliseconds(),
			IPAddress: c.ClientIP(),
			UserAgent: services.Truncate(c.Request.UserAgent(), maxUserAgentLen),
			RequestID: RequestID(c),
		}
		if userID := UserID(c); userID != "" {
			entry.UserID = &userID
		}
		analytics.RecordAccess(entry)
	}
}
