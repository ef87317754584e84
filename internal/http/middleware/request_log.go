package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/dayplanner-backend/internal/platform/ctxutil"
	"github.com/yungbote/dayplanner-backend/internal/platform/logger"
)

// RequestLogger writes one line per request after the handler chain ran.
// Successful probes on quiet paths are logged at debug.
func RequestLogger(log *logger.Logger, quiet ...string) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	skip := make(map[string]struct{}, len(quiet))
	for _, p := range quiet {
		skip[p] = struct{}{}
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := routeLabel(c)
		fields := append([]interface{}{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"bytes", c.Writer.Size(),
			"duration_ms", time.Since(start).Milliseconds(),
		}, ctxutil.LogFields(c.Request.Context())...)
		if len(c.Errors) > 0 {
			fields = append(fields, "gin_errors", c.Errors.String())
		}

		switch _, isQuiet := skip[route]; {
		case status >= 500:
			log.Error("request", fields...)
		case status >= 400:
			log.Warn("request", fields...)
		case isQuiet:
			log.Debug("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

// routeLabel is the matched route template, or "unmatched" so raw paths of
// unknown URLs never reach logs or metric labels.
func routeLabel(c *gin.Context) string {
	if r := c.FullPath(); r != "" {
		return r
	}
	return "unmatched"
}
