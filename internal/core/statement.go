package core

import (
	"context"
	"database/sql"
	"strings"

	"github.com/coregx/dmlkit/internal/meta"
)

// Statement kinds, one per engine. Used for span naming and debugging.
const (
	kindDelete    = "DELETE"
	kindUpdate    = "UPDATE"
	kindInsert    = "INSERT"
	kindSelect    = "SELECT"
	kindAggregate = "AGGREGATE"
	kindWith      = "WITH"
	kindLiteral   = "LITERAL"
)

// Node is the capability surface shared by every composable statement.
// WithStatement implements it by explicit delegation to its base statement,
// so a CTE composition can stand in for the statement it wraps.
type Node interface {
	// Build compiles the statement into an executable Query.
	Build() *Query
	// compile renders the statement with "?" placeholders for embedding.
	compile() (string, []interface{})
	// Tables returns the tables the statement references.
	Tables() []string
	// WithAlias returns the alias assigned when the statement is embedded as
	// a CTE, or "".
	WithAlias() string
	// SetWithAlias assigns the CTE alias.
	SetWithAlias(alias string)
	// AddExtraTables registers alias names as available FROM-clause sources.
	AddExtraTables(names ...string)
}

// Statement is the mutable descriptor shared by all statement kinds: target
// model and tables, filter condition, compiler-kind tag, CTE aliasing state.
// Statements are cheap to clone and are discarded after compilation; they
// hold no resources requiring release.
//
// A Statement must not be mutated concurrently from multiple goroutines;
// cloning is the prescribed way to give each logical operation its own copy.
type Statement struct {
	db  *DB
	tx  *sql.Tx
	ctx context.Context

	kind        string
	model       *meta.Model
	tables      []string
	where       Expression
	extraTables []string
	withAlias   string
	subquery    bool
}

// Model returns the statement's target model (nil for model-less kinds).
func (s *Statement) Model() *meta.Model {
	return s.model
}

// Tables returns the tables the statement references.
func (s *Statement) Tables() []string {
	return s.tables
}

// WithAlias returns the CTE alias assigned to this statement, or "".
func (s *Statement) WithAlias() string {
	return s.withAlias
}

// IsSubquery reports whether the statement has been embedded as a subquery of
// another statement. Embedded statements are compiled eagerly; mutating one
// afterwards does not reach the embedding statement.
func (s *Statement) IsSubquery() bool {
	return s.subquery
}

// SetWithAlias assigns the CTE alias used when the statement is embedded.
func (s *Statement) SetWithAlias(alias string) {
	s.withAlias = alias
}

// AddExtraTables registers alias names as available FROM-clause sources,
// skipping names already present.
func (s *Statement) AddExtraTables(names ...string) {
	for _, name := range names {
		known := false
		for _, have := range s.extraTables {
			if have == name {
				known = true
				break
			}
		}
		if !known {
			s.extraTables = append(s.extraTables, name)
		}
	}
}

// ExtraTables returns the registered CTE alias names.
func (s *Statement) ExtraTables() []string {
	return s.extraTables
}

// WithContext sets the context for this statement's execution.
func (s *Statement) WithContext(ctx context.Context) {
	s.ctx = ctx
}

// addWhere ANDs a condition onto the current filter.
func (s *Statement) addWhere(cond Expression) {
	if s.where == nil {
		s.where = cond
		return
	}
	s.where = And(s.where, cond)
}

// replaceWhere swaps the filter condition outright. Batched mutations use
// this between chunks so no condition leaks from one chunk to the next.
func (s *Statement) replaceWhere(cond Expression) {
	s.where = cond
}

// clone returns a copy of the statement that owns independent copies of its
// mutable containers.
func (s *Statement) clone() Statement {
	c := *s
	c.tables = append([]string(nil), s.tables...)
	c.extraTables = append([]string(nil), s.extraTables...)
	return c
}

// compileWhere renders the filter as " WHERE ..." with "?" placeholders, or
// "" when no filter is set.
func (s *Statement) compileWhere() (string, []interface{}) {
	if s.where == nil {
		return "", nil
	}
	sql, args := s.where.Build(s.db.dialect)
	if sql == "" {
		return "", nil
	}
	return " WHERE " + sql, args
}

// newQuery binds compiled SQL to the statement's DB/Tx, renumbering "?"
// placeholders into the dialect's format.
func (s *Statement) newQuery(sqlText string, params []interface{}) *Query {
	ctx := s.ctx
	if ctx == nil {
		ctx = s.db.ctx
	}
	return &Query{
		sql:    renumberPlaceholders(s.db, sqlText, len(params)),
		params: params,
		kind:   s.kind,
		table:  s.primaryTable(),
		db:     s.db,
		tx:     s.tx,
		ctx:    ctx,
	}
}

func (s *Statement) primaryTable() string {
	if len(s.tables) > 0 {
		return s.tables[0]
	}
	return ""
}

// renumberPlaceholders rewrites "?" placeholders into the dialect-specific
// format ($1, $2, ... for PostgreSQL). Dialects using "?" are left untouched.
func renumberPlaceholders(db *DB, sqlText string, nparams int) string {
	if db.dialect.Placeholder(1) == "?" {
		return sqlText
	}
	for i := 0; i < nparams; i++ {
		sqlText = strings.Replace(sqlText, "?", db.dialect.Placeholder(i+1), 1)
	}
	return sqlText
}
