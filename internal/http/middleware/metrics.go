package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/vitality-backend/internal/observability"
)

// Metrics records request counts and latency per route template, so
// /health-records/:id is one series regardless of the user addressed.
// Scrapes of the metrics endpoint itself are not counted.
func Metrics(m *observability.Metrics, skip ...string) gin.HandlerFunc {
	skipped := make(map[string]bool, len(skip))
	for _, p := range skip {
		skipped[p] = true
	}
	return func(c *gin.Context) {
		if m == nil || skipped[c.Request.URL.Path] {
			c.Next()
			return
		}
		done := m.BeginRequest()
		c.Next()
		done(c.Request.Method, c.FullPath(), c.Writer.Status())
	}
}
