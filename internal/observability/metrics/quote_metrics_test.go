package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel/attribute"
)

func TestQuoteMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewQuoteMetrics(reg, Config{ServiceName: "quotely-test", Environment: "test"})

	m.IncRecompute("create")
	m.IncRecompute("create")
	m.IncDiscountClamped()
	m.IncTemplateCache("hit")
	m.IncExport("PDF", true)
	m.ObserveRender("html", "success", 5*time.Millisecond)

	if got := testutil.ToFloat64(m.recomputes.WithLabelValues("create")); got != 2 {
		t.Fatalf("expected 2 recomputes, got %v", got)
	}
	if got := testutil.ToFloat64(m.discountClamped); got != 1 {
		t.Fatalf("expected 1 clamp, got %v", got)
	}
	if got := testutil.ToFloat64(m.exports.WithLabelValues("pdf", "true")); got != 1 {
		t.Fatalf("expected 1 archived pdf export, got %v", got)
	}
	if got := testutil.CollectAndCount(m.renderDuration); got != 1 {
		t.Fatalf("expected 1 render series, got %d", got)
	}
}

func TestNilQuoteMetricsIsSafe(t *testing.T) {
	var m *QuoteMetrics
	m.IncRecompute("create")
	m.IncDiscountClamped()
	m.ObserveRender("html", "success", time.Millisecond)
	m.IncTemplateCache("miss")
	m.IncExport("html", false)
}

func TestFilterAttributes(t *testing.T) {
	got := FilterAttributes(
		attribute.String("endpoint", "/api/quotations"),
		attribute.String("org_id", "123"),
		attribute.String("status_code", "200"),
	)
	if len(got) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(got))
	}
}
