package tracing

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// headerPropagator carries W3C trace context and baggage in HTTP headers.
var headerPropagator = propagation.NewCompositeTextMapPropagator(
	propagation.TraceContext{},
	propagation.Baggage{},
)

// InstallPropagator makes headerPropagator the global text map propagator.
func InstallPropagator() {
	otel.SetTextMapPropagator(headerPropagator)
}

// ContinueTrace returns ctx joined to the remote span described by header.
// Without trace headers ctx is returned unchanged.
func ContinueTrace(ctx context.Context, header http.Header) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, propagation.HeaderCarrier(header))
}

// PropagateTrace writes the span of ctx into header for an outgoing request.
func PropagateTrace(ctx context.Context, header http.Header) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(header))
}
