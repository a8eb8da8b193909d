package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"nurture/internal/metrics"
)

// Metrics records request counts and latency per route template, so
// /pregnancies/:id is one series regardless of the id.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
