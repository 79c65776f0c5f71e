// Package dmlkit provides SQL mutation-statement construction for Go with
// support for PostgreSQL, MySQL, and SQLite: DELETE, UPDATE and INSERT
// builders with key-chunked batching, aggregate-over-subquery statements, CTE
// composition, and literal-value projections. It offers reflection-based
// model metadata, prepared statement caching, and OpenTelemetry tracing out
// of the box.
package dmlkit

import (
	"github.com/coregx/dmlkit/internal/core"
	"github.com/coregx/dmlkit/internal/meta"
)

type (
	// DB represents the main database connection with caching and tracing capabilities.
	DB = core.DB
	// Option is a functional option for configuring DB.
	Option = core.Option
	// Query is a compiled statement bound to its connection.
	Query = core.Query
	// StatementBuilder is the entry point for constructing mutation statements.
	StatementBuilder = core.StatementBuilder
	// Tx represents a database transaction.
	Tx = core.Tx
	// TxOptions represents transaction options including isolation level.
	TxOptions = core.TxOptions

	// Node is the composable statement surface accepted by CTE composition.
	Node = core.Node
	// DeleteStatement builds DELETE statements.
	DeleteStatement = core.DeleteStatement
	// UpdateStatement builds UPDATE statements with related-update routing.
	UpdateStatement = core.UpdateStatement
	// InsertStatement builds multi-row INSERT statements with upsert support.
	InsertStatement = core.InsertStatement
	// SelectStatement is the minimal SELECT form the mutation engines compose with.
	SelectStatement = core.SelectStatement
	// AggregateStatement computes aggregates over a frozen subquery.
	AggregateStatement = core.AggregateStatement
	// WithStatement composes a base statement with common table expressions.
	WithStatement = core.WithStatement
	// LiteralStatement projects in-memory value rows as a query result.
	LiteralStatement = core.LiteralStatement
	// Assignment is one column assignment of an UPDATE statement.
	Assignment = core.Assignment

	// Expression represents a filter condition for WHERE clauses.
	Expression = core.Expression
	// HashExp represents a hash-based condition using column-value pairs.
	HashExp = core.HashExp
	// Value is a tagged update value, either a Literal or an Expr.
	Value = core.Value
	// Literal is an opaque driver value bound through a placeholder.
	Literal = core.Literal
	// Expr is a computed update value referencing a column of the updated row.
	Expr = core.Expr

	// Model describes a database-backed model.
	Model = meta.Model
	// Field describes a single model field.
	Field = meta.Field
)

// ChunkSize is the key-list chunk size used by batched mutations.
const ChunkSize = core.ChunkSize

// Re-export core functions.
var (
	Open             = core.Open
	NewDB            = core.NewDB
	WrapDB           = core.WrapDB
	WithMaxOpenConns = core.WithMaxOpenConns
	WithMaxIdleConns = core.WithMaxIdleConns
	WithLogger       = core.WithLogger
	WithTracer       = core.WithTracer

	// Model metadata
	ModelOf  = meta.Of
	NewModel = meta.New

	// Expression builders
	NewExp      = core.NewExp
	Eq          = core.Eq
	NotEq       = core.NotEq
	GreaterThan = core.GreaterThan
	LessThan    = core.LessThan
	In          = core.In
	NotIn       = core.NotIn
	InSubquery  = core.InSubquery
	And         = core.And
	Or          = core.Or
	Not         = core.Not

	// Update value builders
	Lit = core.Lit
	Inc = core.Inc
	Dec = core.Dec
	Mul = core.Mul
)

// Errors surfaced by statement construction.
var (
	ErrFieldConflict    = core.ErrFieldConflict
	ErrJoinedExpression = core.ErrJoinedExpression
	ErrNoInsertFields   = core.ErrNoInsertFields
	ErrRowWidthMismatch = core.ErrRowWidthMismatch
)
