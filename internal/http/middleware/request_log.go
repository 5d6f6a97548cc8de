package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/vitality-backend/internal/platform/ctxutil"
	"github.com/yungbote/vitality-backend/internal/platform/logger"
)

// RequestLogger writes one line per request. Probe paths (health checks,
// metric scrapes) only log at debug unless they fail.
func RequestLogger(log *logger.Logger, quiet ...string) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	log = log.With("component", "http")
	probes := make(map[string]bool, len(quiet))
	for _, p := range quiet {
		probes[p] = true
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := firstNonEmpty(c.FullPath(), c.Request.URL.Path)
		fields := []interface{}{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
			fields = append(fields, "trace_id", td.TraceID, "request_id", td.RequestID)
		}
		if userID, ok := AuthUserID(c); ok {
			fields = append(fields, "user_id", userID.String())
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "error", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Error("request failed", fields...)
		case status >= 400:
			log.Warn("request rejected", fields...)
		case probes[route]:
			log.Debug("probe", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}
