package core

import (
	"strings"
)

// AggregateStatement computes aggregate output columns over a wrapped inner
// query: SELECT <aggregates> FROM (<inner>) AS "subquery". The inner query is
// compiled eagerly when attached, so later mutation of it does not leak into
// the aggregate.
type AggregateStatement struct {
	Statement

	columns   []string
	subSQL    string
	subParams []interface{}
}

// AddSubquery freezes the inner statement as this aggregate's source. The
// inner projection is compiled with every column aliased to its bare name so
// the aggregate columns can reference them uniformly.
func (as *AggregateStatement) AddSubquery(inner *SelectStatement) *AggregateStatement {
	inner.subquery = true
	as.subSQL, as.subParams = inner.compileAliased()
	return as
}

// SetSubquery attaches pre-compiled SQL as the aggregate's source. The text
// must use "?" placeholders.
func (as *AggregateStatement) SetSubquery(sqlText string, params ...interface{}) *AggregateStatement {
	as.subSQL = sqlText
	as.subParams = params
	return as
}

// Columns returns the aggregate output columns.
func (as *AggregateStatement) Columns() []string {
	return as.columns
}

// Clone returns a copy owning independent containers. The frozen subquery is
// shared text and copied parameters.
func (as *AggregateStatement) Clone() *AggregateStatement {
	return &AggregateStatement{
		Statement: as.Statement.clone(),
		columns:   append([]string(nil), as.columns...),
		subSQL:    as.subSQL,
		subParams: append([]interface{}(nil), as.subParams...),
	}
}

// compile renders the statement with "?" placeholders.
func (as *AggregateStatement) compile() (string, []interface{}) {
	cols := "*"
	if len(as.columns) > 0 {
		cols = strings.Join(as.columns, ", ")
	}
	sqlText := "SELECT " + cols + " FROM (" + as.subSQL + ") AS " +
		as.db.dialect.QuoteIdentifier("subquery")
	return sqlText, append([]interface{}(nil), as.subParams...)
}

// Build compiles the statement into an executable Query.
func (as *AggregateStatement) Build() *Query {
	sqlText, params := as.compile()
	return as.newQuery(sqlText, params)
}

// Row runs the aggregate and scans its single result row into dest.
func (as *AggregateStatement) Row(dest ...interface{}) error {
	q := as.Build()
	ctx := q.context()

	stmt, needsClose, err := q.prepareStatement(ctx)
	if err != nil {
		return err
	}
	if needsClose {
		defer func() { _ = stmt.Close() }()
	}
	return stmt.QueryRowContext(ctx, q.params...).Scan(dest...)
}
