package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/dayplanner-backend/internal/observability"
)

// Metrics records API counters and latency per route template. Paths in skip
// (the scrape endpoint, probes) are not counted toward the API SLO.
func Metrics(m *observability.Metrics, skip ...string) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	ignored := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		ignored[p] = struct{}{}
	}
	return func(c *gin.Context) {
		if _, ok := ignored[c.Request.URL.Path]; ok {
			c.Next()
			return
		}
		start := time.Now()
		m.ApiInflightInc()
		c.Next()
		m.ApiInflightDec()
		m.ObserveAPI(c.Request.Method, routeLabel(c), c.Writer.Status(), time.Since(start))
	}
}
