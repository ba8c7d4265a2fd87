package middleware

import (
	"time"

	"github.com/bizsuite/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// unmatchedRoute labels requests no route matched, keeping raw paths out
// of metric attributes.
const unmatchedRoute = "unmatched"

// HTTPMetrics records request counts and latency per route. A nil
// instruments set records nothing.
func HTTPMetrics(instruments *telemetry.Instruments) gin.HandlerFunc {
	if instruments == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		instruments.RecordHTTPRequest(c.Request.Context(), c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
