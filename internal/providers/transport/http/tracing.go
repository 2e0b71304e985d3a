package http

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/crmarques/shopctl/internal/providers/transport/http"

func newTracer(provider trace.TracerProvider) trace.Tracer {
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return provider.Tracer(tracerName)
}

func (g *AdminGateway) startSpan(ctx context.Context, method string, path string, requestID string) (context.Context, trace.Span) {
	return g.tracer.Start(
		ctx,
		"shopify.admin "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
			attribute.String("server.address", g.shopDomain),
			attribute.String("shopctl.request_id", requestID),
		),
	)
}

func finishSpan(span trace.Span, statusCode int, attempts int, err error) {
	if statusCode > 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", statusCode))
	}
	span.SetAttributes(attribute.Int("shopctl.attempts", attempts))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
