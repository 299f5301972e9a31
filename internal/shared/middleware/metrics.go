package middleware

import (
	"time"

	"oneshot-backend/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request count and latency per route template.
// Unmatched routes share one label to keep cardinality bounded.
func Metrics(m *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		m.RecordHTTPRequest(endpoint, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
