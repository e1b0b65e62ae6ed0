package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer wraps an OpenTelemetry tracer with query-specific span creation methods.
type Tracer struct {
	tracer      trace.Tracer
	serviceName string
}

// NewTracer creates a new Tracer using the given TracerProvider.
func NewTracer(tp trace.TracerProvider, serviceName string) *Tracer {
	return &Tracer{
		tracer:      tp.Tracer(TracerName),
		serviceName: serviceName,
	}
}

// StartSpan starts a new span with the given name and attributes.
func (t *Tracer) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// StartParse starts a span for parsing a query.
func (t *Tracer) StartParse(ctx context.Context, text string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "contactql.parse", trace.WithAttributes(
		OperationAttr(OpParse),
		QueryTextAttr(text),
	))
}

// StartCompile starts a span for compiling a query to a store predicate.
func (t *Tracer) StartCompile(ctx context.Context, canonical string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "contactql.compile", trace.WithAttributes(
		OperationAttr(OpCompile),
		QueryCanonicalAttr(canonical),
	))
}

// StartEvaluate starts a span for evaluating a query against one contact.
func (t *Tracer) StartEvaluate(ctx context.Context, canonical string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "contactql.evaluate", trace.WithAttributes(
		OperationAttr(OpEvaluate),
		QueryCanonicalAttr(canonical),
	))
}

// StartSearch starts a span for a full parse-and-compile search.
func (t *Tracer) StartSearch(ctx context.Context, text string, anon bool) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "contactql.search", trace.WithAttributes(
		OperationAttr(OpSearch),
		QueryTextAttr(text),
		OrgAnonAttr(anon),
	))
}

// StartMemberOf starts a span for checking a contact against a set of group queries.
func (t *Tracer) StartMemberOf(ctx context.Context, groupCount int) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "contactql.member_of", trace.WithAttributes(
		OperationAttr(OpMemberOf),
		GroupCountAttr(groupCount),
	))
}

// RecordError records an error on the span.
func (t *Tracer) RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// LoggerWithTrace returns a logger enriched with trace context.
func LoggerWithTrace(ctx context.Context, logger *slog.Logger) *slog.Logger {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return logger
	}
	return logger.With(
		slog.String(LogFieldTraceID, span.SpanContext().TraceID().String()),
		slog.String(LogFieldSpanID, span.SpanContext().SpanID().String()),
	)
}
