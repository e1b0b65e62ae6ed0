package observability

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const gormSpanKey = "contactql:gorm:span"

// RegisterGORMCallbacks registers GORM callbacks that trace the database
// queries issued by compiled searches. This should be called after GORM is
// initialized and observability is configured. Only read paths are
// instrumented; this library never writes to the store.
func RegisterGORMCallbacks(db *gorm.DB, cfg *Config) error {
	if cfg == nil || cfg.TracerProvider == nil || !cfg.EnableDetailedDBTracing {
		return nil
	}

	tracer := cfg.Tracer()

	if err := db.Callback().Query().Before("gorm:query").Register("contactql:before_query", beforeQuery(tracer)); err != nil {
		return err
	}
	if err := db.Callback().Query().After("gorm:query").Register("contactql:after_query", afterQuery()); err != nil {
		return err
	}

	if err := db.Callback().Row().Before("gorm:row").Register("contactql:before_row", beforeQuery(tracer)); err != nil {
		return err
	}
	if err := db.Callback().Row().After("gorm:row").Register("contactql:after_row", afterQuery()); err != nil {
		return err
	}

	return nil
}

// beforeQuery starts a span for a database query.
func beforeQuery(tracer *Tracer) func(*gorm.DB) {
	return func(db *gorm.DB) {
		ctx, span := tracer.StartSpan(db.Statement.Context, "contactql.db.query",
			attribute.String("db.table", db.Statement.Table),
		)
		db.Statement.Context = ctx
		db.InstanceSet(gormSpanKey, span)
	}
}

// afterQuery ends the span started by beforeQuery, recording the executed
// SQL and any error.
func afterQuery() func(*gorm.DB) {
	return func(db *gorm.DB) {
		value, ok := db.InstanceGet(gormSpanKey)
		if !ok {
			return
		}
		span, ok := value.(trace.Span)
		if !ok {
			return
		}

		span.SetAttributes(
			attribute.String("db.statement", db.Statement.SQL.String()),
			attribute.Int64("db.rows_affected", db.Statement.RowsAffected),
		)
		if db.Error != nil {
			span.RecordError(db.Error)
			span.SetStatus(codes.Error, db.Error.Error())
		}
		span.End()
	}
}
