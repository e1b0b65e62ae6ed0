package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the query-specific metric instruments.
type Metrics struct {
	parseDuration  metric.Float64Histogram
	queryCount     metric.Int64Counter
	evaluateCount  metric.Int64Counter
	resultCount    metric.Int64Histogram
	errorCount     metric.Int64Counter
	cacheHitCount  metric.Int64Counter
	cacheMissCount metric.Int64Counter
}

// NewMetrics creates a new Metrics instance with the given MeterProvider.
func NewMetrics(mp metric.MeterProvider) *Metrics {
	meter := mp.Meter(MeterName)
	m := &Metrics{}

	// Note: errors from meter instrument creation are unlikely in practice
	// and would only occur with invalid parameters. We use explicit checks
	// to satisfy the linter while continuing with partial metrics on error.
	var err error

	m.parseDuration, err = meter.Float64Histogram(
		"contactql.parse.duration",
		metric.WithDescription("Duration of query parsing in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		m.parseDuration, _ = meter.Float64Histogram("contactql.parse.duration")
	}

	m.queryCount, err = meter.Int64Counter(
		"contactql.query.count",
		metric.WithDescription("Total number of queries processed"),
		metric.WithUnit("{query}"),
	)
	if err != nil {
		m.queryCount, _ = meter.Int64Counter("contactql.query.count")
	}

	m.evaluateCount, err = meter.Int64Counter(
		"contactql.evaluate.count",
		metric.WithDescription("Total number of in-memory contact evaluations"),
		metric.WithUnit("{evaluation}"),
	)
	if err != nil {
		m.evaluateCount, _ = meter.Int64Counter("contactql.evaluate.count")
	}

	m.resultCount, err = meter.Int64Histogram(
		"contactql.result.count",
		metric.WithDescription("Number of contacts returned by compiled searches"),
		metric.WithUnit("{contact}"),
	)
	if err != nil {
		m.resultCount, _ = meter.Int64Histogram("contactql.result.count")
	}

	m.errorCount, err = meter.Int64Counter(
		"contactql.error.count",
		metric.WithDescription("Total number of query errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		m.errorCount, _ = meter.Int64Counter("contactql.error.count")
	}

	m.cacheHitCount, err = meter.Int64Counter(
		"contactql.cache.hits",
		metric.WithDescription("Parsed query cache hits"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		m.cacheHitCount, _ = meter.Int64Counter("contactql.cache.hits")
	}

	m.cacheMissCount, err = meter.Int64Counter(
		"contactql.cache.misses",
		metric.WithDescription("Parsed query cache misses"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		m.cacheMissCount, _ = meter.Int64Counter("contactql.cache.misses")
	}

	return m
}

// RecordParse records metrics for a completed parse.
func (m *Metrics) RecordParse(ctx context.Context, operation string, duration time.Duration) {
	attrs := metric.WithAttributes(OperationAttr(operation))
	m.parseDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	m.queryCount.Add(ctx, 1, attrs)
}

// RecordEvaluation records an in-memory contact evaluation.
func (m *Metrics) RecordEvaluation(ctx context.Context, matched bool) {
	m.evaluateCount.Add(ctx, 1, metric.WithAttributes(MatchedAttr(matched)))
}

// RecordResultCount records the number of contacts returned by a search.
func (m *Metrics) RecordResultCount(ctx context.Context, count int64) {
	m.resultCount.Record(ctx, count)
}

// RecordError records an error occurrence.
func (m *Metrics) RecordError(ctx context.Context, operation, errorCode string) {
	m.errorCount.Add(ctx, 1, metric.WithAttributes(
		OperationAttr(operation),
		attribute.String(AttrErrorCode, errorCode),
	))
}

// RecordCacheHit records a parsed query cache hit.
func (m *Metrics) RecordCacheHit(ctx context.Context) {
	m.cacheHitCount.Add(ctx, 1)
}

// RecordCacheMiss records a parsed query cache miss.
func (m *Metrics) RecordCacheMiss(ctx context.Context) {
	m.cacheMissCount.Add(ctx, 1)
}
