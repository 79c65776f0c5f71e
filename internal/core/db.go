// Package core provides the statement-construction engines for dmlkit:
// DELETE, UPDATE, INSERT, aggregate-over-subquery, CTE composition and
// literal projection, plus key-chunked batching of large mutations.
package core

import (
	"context"
	"database/sql"

	"github.com/coregx/dmlkit/internal/cache"
	"github.com/coregx/dmlkit/internal/dialects"
	"github.com/coregx/dmlkit/internal/logger"
	"github.com/coregx/dmlkit/internal/meta"
	"github.com/coregx/dmlkit/internal/tracer"
)

// DB represents the database connection the compiled statements execute
// against, with prepared-statement caching, logging, and tracing.
type DB struct {
	sqlDB      *sql.DB
	driverName string
	stmtCache  *cache.StmtCache
	dialect    dialects.Dialect
	logger     logger.Logger
	sanitizer  *logger.Sanitizer
	tracer     tracer.Tracer
	ctx        context.Context
}

// Tx represents a database transaction. Statements built through a Tx
// execute on the transaction's connection; batched mutations that need
// atomicity across chunks must run inside one.
type Tx struct {
	tx  *sql.Tx
	db  *DB
	ctx context.Context
}

// TxOptions represents transaction options including isolation level.
type TxOptions struct {
	Isolation sql.IsolationLevel
	ReadOnly  bool
}

// Option is a functional option for configuring DB.
type Option func(*DB)

// WithMaxOpenConns sets the maximum number of open connections.
func WithMaxOpenConns(n int) Option {
	return func(db *DB) {
		db.sqlDB.SetMaxOpenConns(n)
	}
}

// WithMaxIdleConns sets the maximum number of idle connections.
func WithMaxIdleConns(n int) Option {
	return func(db *DB) {
		db.sqlDB.SetMaxIdleConns(n)
	}
}

// WithStmtCacheCapacity sets the prepared statement cache capacity.
func WithStmtCacheCapacity(capacity int) Option {
	return func(db *DB) {
		db.stmtCache = cache.NewStmtCacheWithCapacity(capacity)
	}
}

// WithLogger sets the statement logger. Parameters are masked by the
// sanitizer before they reach the logger.
func WithLogger(l logger.Logger) Option {
	return func(db *DB) {
		db.logger = l
	}
}

// WithTracer sets the tracer used to emit spans around statement execution.
func WithTracer(t tracer.Tracer) Option {
	return func(db *DB) {
		db.tracer = t
	}
}

// NewDB creates a new DB instance for the given driver and DSN.
func NewDB(driverName, dsn string) (*DB, error) {
	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	return WrapDB(sqlDB, driverName), nil
}

// WrapDB wraps an existing *sql.DB. The driverName selects the dialect; it
// does not need to match the driver the pool was opened with, which lets
// callers pair mock drivers with a real dialect in tests.
func WrapDB(sqlDB *sql.DB, driverName string) *DB {
	return &DB{
		sqlDB:      sqlDB,
		driverName: driverName,
		stmtCache:  cache.NewStmtCache(),
		dialect:    dialects.GetDialect(driverName),
		sanitizer:  logger.NewSanitizer(nil),
		tracer:     &tracer.NoopTracer{},
	}
}

// Open creates a new DB instance with options.
func Open(driverName, dsn string, opts ...Option) (*DB, error) {
	db, err := NewDB(driverName, dsn)
	if err != nil {
		return nil, err
	}

	for _, opt := range opts {
		opt(db)
	}

	return db, nil
}

// Close releases all database resources.
func (db *DB) Close() error {
	db.stmtCache.Clear()
	return db.sqlDB.Close()
}

// WithContext returns a new DB with the given context.
func (db *DB) WithContext(ctx context.Context) *DB {
	newDB := *db
	newDB.ctx = ctx
	return &newDB
}

// Dialect exposes the dialect the DB compiles statements for.
func (db *DB) Dialect() dialects.Dialect {
	return db.dialect
}

// Exec runs raw SQL directly against the pool, bypassing statement
// construction and the prepared-statement cache. Intended for DDL and
// schema migrations.
func (db *DB) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return db.sqlDB.ExecContext(ctx, query, args...)
}

// Begin starts a transaction with default options.
func (db *DB) Begin(ctx context.Context) (*Tx, error) {
	return db.BeginTx(ctx, nil)
}

// BeginTx starts a transaction with specified options.
func (db *DB) BeginTx(ctx context.Context, opts *TxOptions) (*Tx, error) {
	var sqlOpts *sql.TxOptions
	if opts != nil {
		sqlOpts = &sql.TxOptions{
			Isolation: opts.Isolation,
			ReadOnly:  opts.ReadOnly,
		}
	}

	tx, err := db.sqlDB.BeginTx(ctx, sqlOpts)
	if err != nil {
		return nil, err
	}

	return &Tx{tx: tx, db: db, ctx: ctx}, nil
}

// Commit commits the transaction.
func (tx *Tx) Commit() error {
	return tx.tx.Commit()
}

// Rollback rolls back the transaction.
func (tx *Tx) Rollback() error {
	return tx.tx.Rollback()
}

// Builder returns a statement builder for this database.
func (db *DB) Builder() *StatementBuilder {
	return &StatementBuilder{db: db}
}

// Builder returns a statement builder whose statements execute within the
// transaction.
func (tx *Tx) Builder() *StatementBuilder {
	return &StatementBuilder{db: tx.db, tx: tx.tx, ctx: tx.ctx}
}

// StatementBuilder is the entry point for constructing mutation statements.
// When tx is not nil, all statements execute within that transaction.
type StatementBuilder struct {
	db  *DB
	tx  *sql.Tx
	ctx context.Context
}

// WithContext sets the context for all statements built by this builder.
func (sb *StatementBuilder) WithContext(ctx context.Context) *StatementBuilder {
	sb.ctx = ctx
	return sb
}

// DeleteFrom starts a DELETE statement against the model's table.
func (sb *StatementBuilder) DeleteFrom(model *meta.Model) *DeleteStatement {
	return &DeleteStatement{Statement: sb.newStatement(kindDelete, model)}
}

// Update starts an UPDATE statement against the model's table.
func (sb *StatementBuilder) Update(model *meta.Model) *UpdateStatement {
	return &UpdateStatement{
		Statement:      sb.newStatement(kindUpdate, model),
		relatedUpdates: make(map[*meta.Model][]Assignment),
	}
}

// InsertInto starts an INSERT statement against the model's table.
func (sb *StatementBuilder) InsertInto(model *meta.Model) *InsertStatement {
	return &InsertStatement{Statement: sb.newStatement(kindInsert, model)}
}

// Select starts the minimal SELECT statement the mutation engines compose
// with (key materialization, subquery embedding, CTE children).
func (sb *StatementBuilder) Select(model *meta.Model, cols ...string) *SelectStatement {
	return &SelectStatement{Statement: sb.newStatement(kindSelect, model), columns: cols}
}

// Aggregate starts an aggregate statement selecting the given output columns
// from a wrapped subquery.
func (sb *StatementBuilder) Aggregate(cols ...string) *AggregateStatement {
	return &AggregateStatement{Statement: sb.newStatement(kindAggregate, nil), columns: cols}
}

// With starts a CTE composition around the given base statement.
func (sb *StatementBuilder) With(base Node) *WithStatement {
	return &WithStatement{base: base}
}

// Literal starts a literal-value projection with the given output columns.
func (sb *StatementBuilder) Literal(fields ...string) *LiteralStatement {
	return &LiteralStatement{Statement: sb.newStatement(kindLiteral, nil), fields: fields}
}

func (sb *StatementBuilder) newStatement(kind string, model *meta.Model) Statement {
	s := Statement{
		db:    sb.db,
		tx:    sb.tx,
		ctx:   sb.ctx,
		kind:  kind,
		model: model,
	}
	if model != nil {
		s.tables = []string{model.Table}
	}
	return s
}
