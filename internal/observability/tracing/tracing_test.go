package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	orig := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(orig) })
	return recorder
}

func TestSafeAttributesDropsContactData(t *testing.T) {
	got := SafeAttributes(
		attribute.String("quotation.id", "1"),
		attribute.String("client.email", "jane@acme.com"),
		attribute.String("storage.access_key", "minio"),
	)
	if len(got) != 1 || got[0].Key != "quotation.id" {
		t.Fatalf("unexpected attributes: %v", got)
	}
}

func TestStartAndEndRecordsError(t *testing.T) {
	recorder := withRecorder(t)

	_, span := Start(context.Background(), "quotely/test", "render", attribute.String("format", "html"))
	End(span, errors.New("template_not_found"))

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Status().Code != codes.Error {
		t.Fatalf("expected error status")
	}
}

func TestGinMiddlewareStartsServerSpan(t *testing.T) {
	recorder := withRecorder(t)
	InstallPropagator()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/api/quotations/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/quotations/1", nil))

	spans := recorder.Ended()
	if len(spans) != 1 || spans[0].Name() != "GET /api/quotations/:id" {
		t.Fatalf("unexpected spans: %v", spans)
	}
}
