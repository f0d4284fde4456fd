package tracing

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const maxStatementLen = 512

// QueryTracer is a pgx.QueryTracer that opens one client span per query.
// A nil Provider uses the global tracer provider at query time.
type QueryTracer struct {
	Provider trace.TracerProvider
}

var _ pgx.QueryTracer = QueryTracer{}

func (q QueryTracer) tracer() trace.Tracer {
	tp := q.Provider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return tp.Tracer(instrumentationName)
}

// TraceQueryStart implements pgx.QueryTracer.
func (q QueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	stmt := data.SQL
	if len(stmt) > maxStatementLen {
		stmt = stmt[:maxStatementLen]
	}
	ctx, _ = q.tracer().Start(ctx, "db.query",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			semconv.DBSystemKey.String("postgresql"),
			semconv.DBStatementKey.String(stmt),
		),
	)
	return ctx
}

// TraceQueryEnd implements pgx.QueryTracer.
func (q QueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	span := trace.SpanFromContext(ctx)
	if data.Err != nil {
		span.RecordError(data.Err)
		span.SetStatus(codes.Error, data.Err.Error())
	}
	span.End()
}
