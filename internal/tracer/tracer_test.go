package tracer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func recordingTracer() (*OtelTracer, *tracetest.SpanRecorder) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	return NewOtelTracer(tp.Tracer("test")), sr
}

func TestDetectOperation(t *testing.T) {
	tests := map[string]string{
		"SELECT * FROM users":               "SELECT",
		"  select 1":                        "SELECT",
		"WITH cte_0 AS (SELECT 1) SELECT *": "SELECT",
		"INSERT INTO t VALUES (1)":          "INSERT",
		"UPDATE t SET a = 1":                "UPDATE",
		"DELETE FROM t":                     "DELETE",
		"TRUNCATE t":                        "UNKNOWN",
	}
	for sql, want := range tests {
		assert.Equal(t, want, DetectOperation(sql), sql)
	}
}

func TestNoopTracer(t *testing.T) {
	tr := &NoopTracer{}
	ctx := context.Background()

	outCtx, span := tr.StartSpan(ctx, "noop")
	assert.Equal(t, ctx, outCtx)
	require.NotNil(t, span)

	// All span operations are safe no-ops.
	span.SetAttributes(attribute.String("k", "v"))
	span.RecordError(errors.New("boom"))
	span.SetStatus(codes.Error, "boom")
	span.End()
}

func TestAddStatementAttributes_Success(t *testing.T) {
	tr, sr := recordingTracer()

	_, span := tr.StartSpan(context.Background(), "dmlkit.statement.execute")
	AddStatementAttributes(span, &StatementMetadata{
		SQL:          `DELETE FROM "users" WHERE "id"=$1`,
		Duration:     3 * time.Millisecond,
		RowsAffected: 2,
		Database:     "postgres",
		Operation:    "DELETE",
		Table:        "users",
	})
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)

	attrs := make(map[attribute.Key]attribute.Value)
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "postgres", attrs["db.system"].AsString())
	assert.Equal(t, "DELETE", attrs["db.operation"].AsString())
	assert.Equal(t, "users", attrs["db.table"].AsString())
	assert.Equal(t, int64(2), attrs["db.rows_affected"].AsInt64())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
}

func TestAddStatementAttributes_Error(t *testing.T) {
	tr, sr := recordingTracer()

	_, span := tr.StartSpan(context.Background(), "dmlkit.statement.execute")
	AddStatementAttributes(span, &StatementMetadata{
		SQL:       "DELETE FROM t",
		Database:  "sqlite",
		Operation: "DELETE",
		Error:     errors.New("constraint violation"),
	})
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	require.NotEmpty(t, spans[0].Events())
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}

func TestAddStatementAttributes_OmitsEmptyTable(t *testing.T) {
	tr, sr := recordingTracer()

	_, span := tr.StartSpan(context.Background(), "dmlkit.statement.keys")
	AddStatementAttributes(span, &StatementMetadata{
		SQL:       "SELECT 1",
		Database:  "sqlite",
		Operation: "SELECT",
	})
	span.End()

	for _, kv := range sr.Ended()[0].Attributes() {
		assert.NotEqual(t, attribute.Key("db.table"), kv.Key)
	}
}
