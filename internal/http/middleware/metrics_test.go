package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/dayplanner-backend/internal/observability"
)

func TestMetricsLabelsRouteTemplates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := observability.Init(nil, observability.MetricsConfig{Enabled: true})
	if m == nil {
		t.Fatalf("metrics not enabled")
	}

	r := gin.New()
	r.Use(Metrics(m, "/healthcheck"))
	r.GET("/api/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/healthcheck", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/api/items/one", "/api/items/two", "/healthcheck", "/nope/abc"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `route="/api/items/:id",status="200"} 2`) {
		t.Fatalf("templated route missing:\n%s", out)
	}
	if strings.Contains(out, `route="/healthcheck"`) {
		t.Fatalf("skipped path was counted:\n%s", out)
	}
	if strings.Contains(out, "/nope/abc") || !strings.Contains(out, `route="unmatched"`) {
		t.Fatalf("unknown path must be labeled unmatched:\n%s", out)
	}
}
