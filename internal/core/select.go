package core

import (
	"strings"
)

// SelectStatement is the minimal SELECT form the mutation engines compose
// with: a projection over the model's table with a filter. It exists so
// DELETE/UPDATE can absorb another query's filter, materialize its key set,
// or embed it as a subquery or CTE child; the full SELECT builder with joins
// and ordering lives in the query layer.
type SelectStatement struct {
	Statement
	columns []string
}

// From overrides the table list.
func (ss *SelectStatement) From(tables ...string) *SelectStatement {
	ss.tables = tables
	return ss
}

// Where ANDs a condition onto the statement's filter.
func (ss *SelectStatement) Where(cond Expression) *SelectStatement {
	ss.addWhere(cond)
	return ss
}

// SelectOnly discards the current projection and selects only the given
// columns.
func (ss *SelectStatement) SelectOnly(cols ...string) *SelectStatement {
	ss.columns = cols
	return ss
}

// Columns returns the current projection.
func (ss *SelectStatement) Columns() []string {
	return ss.columns
}

// Clone returns a copy owning independent containers.
func (ss *SelectStatement) Clone() *SelectStatement {
	return &SelectStatement{
		Statement: ss.Statement.clone(),
		columns:   append([]string(nil), ss.columns...),
	}
}

// compile renders the statement with "?" placeholders.
func (ss *SelectStatement) compile() (string, []interface{}) {
	return ss.compileCols(ss.projection(false))
}

// compileAliased renders the statement with every output column aliased to
// its bare name, as required when the statement is embedded as a subquery
// whose columns are referenced by alias from the outer statement.
func (ss *SelectStatement) compileAliased() (string, []interface{}) {
	return ss.compileCols(ss.projection(true))
}

func (ss *SelectStatement) projection(aliased bool) string {
	if len(ss.columns) == 0 {
		return "*"
	}
	if !aliased {
		return strings.Join(ss.columns, ", ")
	}

	parts := make([]string, len(ss.columns))
	for i, col := range ss.columns {
		alias := col
		if idx := strings.LastIndex(alias, "."); idx >= 0 {
			alias = alias[idx+1:]
		}
		parts[i] = col + " AS " + ss.db.dialect.QuoteIdentifier(alias)
	}
	return strings.Join(parts, ", ")
}

func (ss *SelectStatement) compileCols(cols string) (string, []interface{}) {
	tables := make([]string, 0, len(ss.tables)+len(ss.extraTables))
	for _, t := range ss.tables {
		tables = append(tables, ss.db.dialect.QuoteIdentifier(t))
	}
	// CTE aliases registered on this statement join the FROM clause unquoted,
	// matching the alias text emitted in the WITH clause.
	tables = append(tables, ss.extraTables...)

	whereClause, params := ss.compileWhere()
	return "SELECT " + cols + " FROM " + strings.Join(tables, ", ") + whereClause, params
}

// Build compiles the statement into an executable Query.
func (ss *SelectStatement) Build() *Query {
	sqlText, params := ss.compile()
	return ss.newQuery(sqlText, params)
}

// pkProjection returns a clone selecting only the model's primary key,
// discarding the existing projection.
func (ss *SelectStatement) pkProjection() *SelectStatement {
	clone := ss.Clone()
	clone.columns = []string{ss.model.PK.Column}
	return clone
}

// Keys materializes the statement's primary-key projection as a concrete
// value list.
func (ss *SelectStatement) Keys() ([]interface{}, error) {
	return ss.pkProjection().Build().Keys()
}
