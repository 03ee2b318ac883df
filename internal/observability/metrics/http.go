package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HTTPMetrics records API latency and concurrency per route template.
type HTTPMetrics struct {
	duration metric.Float64Histogram
	active   metric.Int64UpDownCounter
}

// NewHTTPMetrics registers the HTTP instruments on a meter named after the service.
func NewHTTPMetrics(cfg Config, provider metric.MeterProvider) (*HTTPMetrics, error) {
	meter := provider.Meter(cfg.serviceName() + "/http")

	duration, err := meter.Float64Histogram("http.server.duration_ms",
		metric.WithUnit("ms"),
		metric.WithDescription("API request latency by route and status."),
	)
	if err != nil {
		return nil, err
	}
	active, err := meter.Int64UpDownCounter("http.server.in_flight",
		metric.WithDescription("API requests currently being served."),
	)
	if err != nil {
		return nil, err
	}
	return &HTTPMetrics{duration: duration, active: active}, nil
}

// GinMiddleware measures every request under its route template, so
// /api/quotations/:id stays one series regardless of the id.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		route := metric.WithAttributes(FilterAttributes(
			attribute.String("endpoint", routeLabel(c.FullPath())),
			attribute.String("method", c.Request.Method),
		)...)

		m.active.Add(ctx, 1, route)
		start := time.Now()
		defer func() {
			m.active.Add(ctx, -1, route)
			m.duration.Record(ctx, float64(time.Since(start).Milliseconds()),
				route,
				metric.WithAttributes(FilterAttributes(
					attribute.String("status_code", strconv.Itoa(c.Writer.Status())),
				)...),
			)
		}()
		c.Next()
	}
}

func routeLabel(path string) string {
	if path = strings.TrimSpace(path); path != "" {
		return path
	}
	return "unmatched"
}
