package core

import (
	"context"
	"database/sql"
	"time"

	"github.com/coregx/dmlkit/internal/tracer"
)

// Query is a compiled statement: SQL text plus ordered parameters, bound to
// the DB (or transaction) it executes against. Execution modes mirror what
// the engines need: ExecCount for affected-row counts, Keys to materialize a
// single-column projection, NoResult for fire-and-discard.
type Query struct {
	sql    string
	params []interface{}
	kind   string
	table  string
	db     *DB
	tx     *sql.Tx // nil for non-transactional statements
	ctx    context.Context
}

// SQL returns the compiled statement text.
func (q *Query) SQL() string {
	return q.sql
}

// Params returns the bound parameters in placeholder order.
func (q *Query) Params() []interface{} {
	return q.params
}

// prepareStatement prepares the SQL, using the transaction or the statement
// cache. Transactions bypass the cache to avoid cross-connection conflicts.
func (q *Query) prepareStatement(ctx context.Context) (*sql.Stmt, bool, error) {
	if q.tx != nil {
		stmt, err := q.tx.PrepareContext(ctx, q.sql)
		if err != nil {
			return nil, false, err
		}
		return stmt, true, nil // true = needs close
	}

	if stmt, ok := q.db.stmtCache.Get(q.sql); ok {
		return stmt, false, nil
	}

	stmt, err := q.db.sqlDB.PrepareContext(ctx, q.sql)
	if err != nil {
		return nil, false, err
	}
	q.db.stmtCache.Set(q.sql, stmt)
	return stmt, false, nil // cached, don't close
}

func (q *Query) context() context.Context {
	if q.ctx != nil {
		return q.ctx
	}
	return context.Background()
}

// logResult logs an execution outcome if a logger is configured.
func (q *Query) logResult(rowsAffected int64, err error, elapsed time.Duration) {
	if q.db.logger == nil {
		return
	}

	maskedParams := q.db.sanitizer.FormatParams(q.db.sanitizer.MaskParams(q.sql, q.params))

	if err != nil {
		q.db.logger.Error("statement execution failed",
			"sql", q.sql,
			"params", maskedParams,
			"duration_ms", elapsed.Milliseconds(),
			"database", q.db.driverName,
			"error", err,
		)
		return
	}

	q.db.logger.Info("statement executed",
		"sql", q.sql,
		"params", maskedParams,
		"duration_ms", elapsed.Milliseconds(),
		"rows_affected", rowsAffected,
		"database", q.db.driverName,
	)
}

func (q *Query) record(span tracer.Span, rowsAffected int64, err error, elapsed time.Duration) {
	q.logResult(rowsAffected, err, elapsed)
	if span == nil {
		return
	}
	tracer.AddStatementAttributes(span, &tracer.StatementMetadata{
		SQL:          q.sql,
		Args:         q.params,
		Duration:     elapsed,
		RowsAffected: rowsAffected,
		Error:        err,
		Database:     q.db.driverName,
		Operation:    q.kind,
		Table:        q.table,
	})
}

// Execute runs the statement and returns the driver result.
func (q *Query) Execute() (sql.Result, error) {
	ctx := q.context()

	var span tracer.Span
	if q.db.tracer != nil {
		ctx, span = q.db.tracer.StartSpan(ctx, "dmlkit.statement.execute")
		defer span.End()
	}

	start := time.Now()

	stmt, needsClose, err := q.prepareStatement(ctx)
	if err != nil {
		q.record(span, 0, err, time.Since(start))
		return nil, err
	}
	if needsClose {
		defer func() { _ = stmt.Close() }()
	}

	result, err := stmt.ExecContext(ctx, q.params...)
	elapsed := time.Since(start)

	var rowsAffected int64
	if result != nil {
		rowsAffected, _ = result.RowsAffected()
	}
	q.record(span, rowsAffected, err, elapsed)

	return result, err
}

// ExecCount runs the statement and returns the affected-row count. A nil
// driver result counts as zero rows, not an error.
func (q *Query) ExecCount() (int64, error) {
	result, err := q.Execute()
	if err != nil {
		return 0, err
	}
	if result == nil {
		return 0, nil
	}
	return result.RowsAffected()
}

// NoResult runs the statement and discards the outcome except for errors.
func (q *Query) NoResult() error {
	_, err := q.Execute()
	return err
}

// Keys runs the statement and materializes its first output column as a
// concrete value list. An empty result set yields an empty (nil) list.
func (q *Query) Keys() ([]interface{}, error) {
	ctx := q.context()

	var span tracer.Span
	if q.db.tracer != nil {
		ctx, span = q.db.tracer.StartSpan(ctx, "dmlkit.statement.keys")
		defer span.End()
	}

	start := time.Now()

	stmt, needsClose, err := q.prepareStatement(ctx)
	if err != nil {
		q.record(span, 0, err, time.Since(start))
		return nil, err
	}
	if needsClose {
		defer func() { _ = stmt.Close() }()
	}

	rows, err := stmt.QueryContext(ctx, q.params...)
	if err != nil {
		q.record(span, 0, err, time.Since(start))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var keys []interface{}
	for rows.Next() {
		var key interface{}
		if err := rows.Scan(&key); err != nil {
			q.record(span, 0, err, time.Since(start))
			return nil, err
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		q.record(span, 0, err, time.Since(start))
		return nil, err
	}

	q.record(span, int64(len(keys)), nil, time.Since(start))
	return keys, nil
}
