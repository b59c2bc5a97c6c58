package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopswift/backend/metrics"
)

// Metrics records request count and duration per method, route and status.
func Metrics(m *metrics.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		m.RecordRequest(c.Request.Context(), c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
