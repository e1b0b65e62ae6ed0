// Package observability provides OpenTelemetry-based instrumentation for
// contact query processing.
//
// It supports distributed tracing, metrics collection, and enhanced
// structured logging.
//
// All observability features are opt-in. When not configured, no-op
// implementations are used with zero performance overhead.
package observability

import "go.opentelemetry.io/otel/attribute"

// Instrumentation identity constants
const (
	// TracerName is the instrumentation name for tracing.
	TracerName = "github.com/nlstn/go-contactql"
	// MeterName is the instrumentation name for metrics.
	MeterName = "github.com/nlstn/go-contactql"
)

// Semantic attribute keys following OpenTelemetry conventions.
const (
	// Query attributes
	AttrQueryText      = "contactql.query.text"
	AttrQueryCanonical = "contactql.query.canonical"
	AttrQueryCached    = "contactql.query.cached"
	AttrOperation      = "contactql.operation"

	// Org attributes
	AttrOrgAnon = "contactql.org.anon"

	// Result attributes
	AttrResultCount = "contactql.result.count"
	AttrMatched     = "contactql.matched"
	AttrGroupCount  = "contactql.group.count"

	// Error attributes
	AttrErrorCode    = "contactql.error.code"
	AttrErrorMessage = "contactql.error.message"
)

// Operation types for the contactql.operation attribute.
const (
	OpParse    = "parse"
	OpCompile  = "compile"
	OpEvaluate = "evaluate"
	OpSearch   = "search"
	OpMemberOf = "member_of"
)

// Log field keys for structured logging with trace context.
const (
	LogFieldQuery     = "contactql.query"
	LogFieldOperation = "contactql.operation"
	LogFieldTraceID   = "trace_id"
	LogFieldSpanID    = "span_id"
	LogFieldDuration  = "duration_ms"
	LogFieldError     = "error"
)

// QueryTextAttr creates an attribute for the raw query text.
func QueryTextAttr(text string) attribute.KeyValue {
	return attribute.String(AttrQueryText, text)
}

// QueryCanonicalAttr creates an attribute for the canonical query text.
func QueryCanonicalAttr(text string) attribute.KeyValue {
	return attribute.String(AttrQueryCanonical, text)
}

// QueryCachedAttr creates an attribute recording a parse cache hit or miss.
func QueryCachedAttr(hit bool) attribute.KeyValue {
	return attribute.Bool(AttrQueryCached, hit)
}

// OperationAttr creates an attribute for the operation type.
func OperationAttr(op string) attribute.KeyValue {
	return attribute.String(AttrOperation, op)
}

// ResultCountAttr creates an attribute for the result count.
func ResultCountAttr(count int64) attribute.KeyValue {
	return attribute.Int64(AttrResultCount, count)
}

// MatchedAttr creates an attribute for an evaluation outcome.
func MatchedAttr(matched bool) attribute.KeyValue {
	return attribute.Bool(AttrMatched, matched)
}

// GroupCountAttr creates an attribute for the number of groups checked.
func GroupCountAttr(count int) attribute.KeyValue {
	return attribute.Int(AttrGroupCount, count)
}

// OrgAnonAttr creates an attribute for the org's anonymity flag.
func OrgAnonAttr(anon bool) attribute.KeyValue {
	return attribute.Bool(AttrOrgAnon, anon)
}

// ErrorCodeAttr creates an attribute for the error code.
func ErrorCodeAttr(code string) attribute.KeyValue {
	return attribute.String(AttrErrorCode, code)
}
