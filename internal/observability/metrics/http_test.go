package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestGinMiddlewareServesRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)

	m, err := NewHTTPMetrics(Config{}, noop.NewMeterProvider())
	if err != nil {
		t.Fatalf("new http metrics: %v", err)
	}

	for _, instruments := range []*HTTPMetrics{m, nil} {
		r := gin.New()
		r.Use(GinMiddleware(instruments))
		r.GET("/api/quotations/:id", func(c *gin.Context) { c.Status(http.StatusAccepted) })

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/quotations/7", nil))
		if rec.Code != http.StatusAccepted {
			t.Fatalf("expected 202, got %d", rec.Code)
		}
	}
}

func TestRouteLabel(t *testing.T) {
	if got := routeLabel(" /api/quotations/:id "); got != "/api/quotations/:id" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := routeLabel(""); got != "unmatched" {
		t.Fatalf("expected unmatched, got %q", got)
	}
}
