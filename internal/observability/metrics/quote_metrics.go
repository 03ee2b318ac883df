package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type QuoteMetrics struct {
	recomputes      *prometheus.CounterVec
	discountClamped prometheus.Counter
	renderDuration  *prometheus.HistogramVec
	templateCache   *prometheus.CounterVec
	exports         *prometheus.CounterVec
}

var (
	quoteMetricsOnce sync.Once
	quoteMetrics     *QuoteMetrics
)

func Quote() *QuoteMetrics {
	return QuoteWithConfig(Config{})
}

func QuoteWithConfig(cfg Config) *QuoteMetrics {
	quoteMetricsOnce.Do(func() {
		quoteMetrics = NewQuoteMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return quoteMetrics
}

func ResetQuoteMetricsForTest() {
	quoteMetricsOnce = sync.Once{}
	quoteMetrics = nil
}

// NewQuoteMetrics registers the quotation instruments on registerer.
func NewQuoteMetrics(registerer prometheus.Registerer, cfg Config) *QuoteMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	constLabels := prometheus.Labels{
		"service": cfg.serviceName(),
		"env":     cfg.environment(),
	}

	recomputes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "quotely_quotation_recompute_total",
			Help:        "Quotation total recomputations by triggering operation.",
			ConstLabels: constLabels,
		},
		[]string{"operation"}, // create | update | preview | item_add | item_update | item_remove
	)

	discountClamped := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name:        "quotely_item_discount_clamped_total",
			Help:        "Line item discounts reduced to the product max discount.",
			ConstLabels: constLabels,
		},
	)

	renderDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:        "quotely_render_duration_seconds",
			Help:        "Quotation render latency by output format.",
			Buckets:     []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			ConstLabels: constLabels,
		},
		[]string{"format", "result"}, // html|pdf, success|template_not_found|failed
	)

	templateCache := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "quotely_template_cache_total",
			Help:        "Template lookups served from or missing the cache.",
			ConstLabels: constLabels,
		},
		[]string{"result"}, // hit | miss
	)

	exports := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "quotely_quotation_export_total",
			Help:        "Quotation exports by format and whether they were archived.",
			ConstLabels: constLabels,
		},
		[]string{"format", "archived"},
	)

	registerer.MustRegister(recomputes, discountClamped, renderDuration, templateCache, exports)

	return &QuoteMetrics{
		recomputes:      recomputes,
		discountClamped: discountClamped,
		renderDuration:  renderDuration,
		templateCache:   templateCache,
		exports:         exports,
	}
}

func (m *QuoteMetrics) IncRecompute(operation string) {
	if m == nil {
		return
	}
	m.recomputes.WithLabelValues(operation).Inc()
}

func (m *QuoteMetrics) IncDiscountClamped() {
	if m == nil {
		return
	}
	m.discountClamped.Inc()
}

func (m *QuoteMetrics) ObserveRender(format, result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.renderDuration.WithLabelValues(format, result).Observe(duration.Seconds())
}

func (m *QuoteMetrics) IncTemplateCache(result string) {
	if m == nil {
		return
	}
	m.templateCache.WithLabelValues(result).Inc()
}

func (m *QuoteMetrics) IncExport(format string, archived bool) {
	if m == nil {
		return
	}
	label := "false"
	if archived {
		label = "true"
	}
	m.exports.WithLabelValues(strings.ToLower(format), label).Inc()
}
