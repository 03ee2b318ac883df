package observability

import (
	"github.com/smallbiznis/quotely/internal/config"
	"github.com/smallbiznis/quotely/internal/observability/logger"
	"github.com/smallbiznis/quotely/internal/observability/metrics"
	"github.com/smallbiznis/quotely/internal/observability/tracing"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("observability",
	fx.Provide(NewLogger),
	fx.Provide(tracingConfig),
	fx.Provide(metricsConfig),
	fx.Provide(tracing.NewProvider),
	fx.Provide(metrics.QuoteWithConfig),
	fx.Provide(func(cfg metrics.Config) (*metrics.HTTPMetrics, error) {
		return metrics.NewHTTPMetrics(cfg, otel.GetMeterProvider())
	}),
	fx.Invoke(func(*sdktrace.TracerProvider) {}),
)

func NewLogger(cfg config.Config) (*zap.Logger, error) {
	return logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Environment,
		ServiceName: cfg.AppName,
		Version:     cfg.AppVersion,
	})
}

func tracingConfig(cfg config.Config) tracing.Config {
	return tracing.Config{
		Enabled:          cfg.Otel.Enabled,
		ServiceName:      cfg.AppName,
		ServiceVersion:   cfg.AppVersion,
		Environment:      cfg.Environment,
		ExporterEndpoint: cfg.Otel.Endpoint,
		ExporterProtocol: cfg.Otel.Protocol,
		SamplingRatio:    cfg.Otel.SamplingRatio,
	}
}

func metricsConfig(cfg config.Config) metrics.Config {
	return metrics.Config{
		ServiceName: cfg.AppName,
		Environment: cfg.Environment,
	}
}
