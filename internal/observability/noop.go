package observability

import (
	"go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// NewNoopTracer creates a tracer that does nothing.
func NewNoopTracer() *Tracer {
	return &Tracer{
		tracer:      tracenoop.NewTracerProvider().Tracer(""),
		serviceName: "",
	}
}

// NewNoopMetrics creates metrics that do nothing.
func NewNoopMetrics() *Metrics {
	meter := noop.NewMeterProvider().Meter("")
	m := &Metrics{}

	// Note: noop meter never returns errors, but we must check them to satisfy the linter.
	m.parseDuration, _ = meter.Float64Histogram("contactql.parse.duration") //nolint:errcheck
	m.queryCount, _ = meter.Int64Counter("contactql.query.count")           //nolint:errcheck
	m.evaluateCount, _ = meter.Int64Counter("contactql.evaluate.count")     //nolint:errcheck
	m.resultCount, _ = meter.Int64Histogram("contactql.result.count")       //nolint:errcheck
	m.errorCount, _ = meter.Int64Counter("contactql.error.count")           //nolint:errcheck
	m.cacheHitCount, _ = meter.Int64Counter("contactql.cache.hits")         //nolint:errcheck
	m.cacheMissCount, _ = meter.Int64Counter("contactql.cache.misses")      //nolint:errcheck

	return m
}
