// Package contactql implements the contact query language: a small boolean
// DSL used both to search contacts in a store and to decide dynamic group
// membership without one.
//
// A query like
//
//	name ~ "Bob" AND age > 18
//
// parses once into an immutable expression tree with two independent
// consumers: Compile lowers the tree to a GORM predicate executed by the
// database, and Evaluate walks it against a single contact snapshot in
// memory. Both consumers share one resolver and one comparator table, so a
// contact matches a compiled search exactly when its snapshot matches the
// same query.
package contactql

import (
	"context"
	"log/slog"
	"time"

	"github.com/nlstn/go-contactql/internal/observability"
	"github.com/nlstn/go-contactql/internal/query"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

// DefaultMaxQueryLength bounds the length of accepted query strings.
const DefaultMaxQueryLength = 1024

// ObservabilityConfig configures optional tracing and metrics for an Engine.
type ObservabilityConfig struct {
	// TracerProvider enables tracing when set.
	TracerProvider trace.TracerProvider

	// MeterProvider enables metrics collection when set.
	MeterProvider metric.MeterProvider

	// ServiceName identifies this service in traces and metrics.
	ServiceName string

	// ServiceVersion is the version of this service.
	ServiceVersion string

	// EnableDetailedDBTracing traces the individual database queries issued
	// by compiled searches.
	EnableDetailedDBTracing bool
}

// Engine is the entry point for parsing, compiling and evaluating contact
// queries. It holds only process-wide configuration; all per-call context
// (the org, the database handle, the contact) is passed explicitly, so one
// Engine is safe for concurrent use across orgs.
type Engine struct {
	logger         *slog.Logger
	obs            *observability.Config
	cache          *query.Cache
	maxQueryLength int
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger used for debug logging of query processing.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithObservability enables tracing and metrics.
func WithObservability(cfg ObservabilityConfig) EngineOption {
	return func(e *Engine) {
		opts := []observability.Option{
			observability.WithServiceName(cfg.ServiceName),
			observability.WithServiceVersion(cfg.ServiceVersion),
		}
		if cfg.TracerProvider != nil {
			opts = append(opts, observability.WithTracerProvider(cfg.TracerProvider))
		}
		if cfg.MeterProvider != nil {
			opts = append(opts, observability.WithMeterProvider(cfg.MeterProvider))
		}
		if cfg.EnableDetailedDBTracing {
			opts = append(opts, observability.WithDetailedDBTracing())
		}
		e.obs = observability.NewConfig(opts...)
	}
}

// WithQueryCacheSize sets the capacity of the parsed query cache. Zero
// disables caching.
func WithQueryCacheSize(size int) EngineOption {
	return func(e *Engine) {
		e.cache = query.NewCache(size)
	}
}

// WithMaxQueryLength sets the maximum accepted query string length.
func WithMaxQueryLength(length int) EngineOption {
	return func(e *Engine) {
		e.maxQueryLength = length
	}
}

// NewEngine creates an Engine with the given options.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger:         slog.Default(),
		cache:          query.NewCache(query.DefaultCacheSize),
		maxQueryLength: DefaultMaxQueryLength,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.obs == nil {
		e.obs = observability.NewConfig()
	}
	_ = e.obs.Initialize()

	return e
}

// RegisterDBTracing registers GORM callbacks that trace the database queries
// issued by compiled searches. Call once after opening the database; it is a
// no-op unless detailed DB tracing is enabled.
func (e *Engine) RegisterDBTracing(db *gorm.DB) error {
	return observability.RegisterGORMCallbacks(db, e.obs)
}

// ParseQuery parses a query string into its simplified expression tree,
// consulting the parse cache first. The returned tree is shared and must not
// be mutated.
func (e *Engine) ParseQuery(ctx context.Context, org Org, text string) (*ParsedQuery, error) {
	ctx, span := e.obs.Tracer().StartParse(ctx, text)
	defer span.End()

	if e.maxQueryLength > 0 && len(text) > e.maxQueryLength {
		err := &QueryError{Code: ErrorCodeSyntax, Message: "query is too long"}
		e.recordError(ctx, span, observability.OpParse, err)
		return nil, err
	}

	if cached := e.cache.Get(org, text); cached != nil {
		span.SetAttributes(observability.QueryCachedAttr(true))
		e.obs.Metrics().RecordCacheHit(ctx)
		return cached, nil
	}
	e.obs.Metrics().RecordCacheMiss(ctx)

	start := time.Now()
	parsed, err := query.Parse(org, text)
	if err != nil {
		e.recordError(ctx, span, observability.OpParse, err)
		return nil, err
	}
	e.obs.Metrics().RecordParse(ctx, observability.OpParse, time.Since(start))

	observability.LoggerWithTrace(ctx, e.logger).DebugContext(ctx, "parsed contact query",
		slog.String(observability.LogFieldQuery, text),
		slog.String("canonical", parsed.String()))

	e.cache.Put(org, text, parsed)
	return parsed, nil
}

// CompileQuery lowers a parsed query to a filtered GORM query over the
// contacts table. The input db is used as the base of a new chain and is
// never mutated.
func (e *Engine) CompileQuery(ctx context.Context, org Org, parsed *ParsedQuery, db *gorm.DB) (*gorm.DB, error) {
	ctx, span := e.obs.Tracer().StartCompile(ctx, parsed.String())
	defer span.End()

	compiled, err := query.Compile(org, parsed.Root, db)
	if err != nil {
		e.recordError(ctx, span, observability.OpCompile, err)
		return nil, err
	}
	return compiled, nil
}

// SearchContacts parses text and returns a GORM query selecting the active
// contacts of the org that match. Callers chain their own Find, Count or
// pagination onto the result.
func (e *Engine) SearchContacts(ctx context.Context, org Org, db *gorm.DB, text string) (*gorm.DB, error) {
	ctx, span := e.obs.Tracer().StartSearch(ctx, text, org.IsAnon())
	defer span.End()

	parsed, err := e.ParseQuery(ctx, org, text)
	if err != nil {
		e.recordError(ctx, span, observability.OpSearch, err)
		return nil, err
	}

	base := db.WithContext(ctx).Model(&Contact{}).Where(`"contacts"."is_active" = ?`, true)
	compiled, err := e.CompileQuery(ctx, org, parsed, base)
	if err != nil {
		e.recordError(ctx, span, observability.OpSearch, err)
		return nil, err
	}
	return compiled, nil
}

// EvaluateContact reports whether a single contact snapshot matches a parsed
// query, without touching any store.
func (e *Engine) EvaluateContact(ctx context.Context, org Org, parsed *ParsedQuery, contact *ContactSnapshot) (bool, error) {
	ctx, span := e.obs.Tracer().StartEvaluate(ctx, parsed.String())
	defer span.End()

	matched, err := query.Evaluate(org, parsed.Root, contact)
	if err != nil {
		e.recordError(ctx, span, observability.OpEvaluate, err)
		return false, err
	}

	span.SetAttributes(observability.MatchedAttr(matched))
	e.obs.Metrics().RecordEvaluation(ctx, matched)
	return matched, nil
}

// Group is a dynamic group: a saved query whose membership is the live set
// of contacts matching it.
type Group struct {
	// ID identifies the group.
	ID int64

	// Name is the group's display name.
	Name string

	// Query is the group's parsed membership query.
	Query *ParsedQuery
}

// MemberOf evaluates a contact snapshot against a set of dynamic groups and
// returns the IDs of the groups the contact belongs to, in input order.
// Evaluation errors in one group abort the whole check: group membership
// must never be silently partial.
func (e *Engine) MemberOf(ctx context.Context, org Org, groups []*Group, contact *ContactSnapshot) ([]int64, error) {
	ctx, span := e.obs.Tracer().StartMemberOf(ctx, len(groups))
	defer span.End()

	var memberships []int64
	for _, group := range groups {
		matched, err := e.EvaluateContact(ctx, org, group.Query, contact)
		if err != nil {
			e.recordError(ctx, span, observability.OpMemberOf, err)
			return nil, err
		}
		if matched {
			memberships = append(memberships, group.ID)
		}
	}
	return memberships, nil
}

// recordError records an error on the active span and the error counter, and
// logs it at debug level. Errors here are user errors in query text, not
// operational failures, so they never log above debug.
func (e *Engine) recordError(ctx context.Context, span trace.Span, operation string, err error) {
	e.obs.Tracer().RecordError(span, err)

	code := "unknown"
	if qerr := AsQueryError(err); qerr != nil {
		code = string(qerr.Code)
	}
	e.obs.Metrics().RecordError(ctx, operation, code)

	observability.LoggerWithTrace(ctx, e.logger).DebugContext(ctx, "contact query failed",
		slog.String(observability.LogFieldOperation, operation),
		slog.String(observability.LogFieldError, err.Error()))
}
