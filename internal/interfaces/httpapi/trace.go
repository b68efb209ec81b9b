package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Only handler methods open spans here; helpers such as writeJSON run inside them.
const handlerSpanPrefix = "httpapi.Handler."

const (
	attrMatchday  = attribute.Key("league.matchday")
	attrMatchdays = attribute.Key("league.matchdays")
	attrFormat    = attribute.Key("report.format")
)

var (
	apiTracer = otel.Tracer("github.com/riskibarqy/league-results/internal/interfaces/httpapi")
	noopSpan  = trace.SpanFromContext(context.Background())
)

// startSpan returns a no-op span for helper names and for requests the
// tracing middleware filtered out, such as /healthz.
func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if !isHandlerSpan(name) || !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, noopSpan
	}
	return apiTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func isHandlerSpan(name string) bool {
	return strings.HasPrefix(name, handlerSpanPrefix)
}
