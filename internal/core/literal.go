package core

import (
	"strings"
)

// LiteralStatement projects in-memory value rows as a query result without
// touching any table: one SELECT per row, chained with UNION ALL. Its main
// use is feeding fixed rows into CTE compositions and set operations.
type LiteralStatement struct {
	Statement

	fields []string
	rows   [][]interface{}
}

// SetFields replaces the output column names and discards any value rows,
// since their widths are no longer guaranteed to match.
func (ls *LiteralStatement) SetFields(fields ...string) *LiteralStatement {
	ls.fields = fields
	ls.rows = nil
	return ls
}

// ReturnFields returns the output column names.
func (ls *LiteralStatement) ReturnFields() []string {
	return ls.fields
}

// AppendValues appends value rows. Each row must match the field list in
// width.
func (ls *LiteralStatement) AppendValues(rows ...[]interface{}) error {
	for _, row := range rows {
		if len(row) != len(ls.fields) {
			return ErrRowWidthMismatch
		}
		ls.rows = append(ls.rows, row)
	}
	return nil
}

// ClearValues discards all value rows, keeping the field list.
func (ls *LiteralStatement) ClearValues() *LiteralStatement {
	ls.rows = nil
	return ls
}

// Clone returns a copy owning independent containers.
func (ls *LiteralStatement) Clone() *LiteralStatement {
	clone := &LiteralStatement{
		Statement: ls.Statement.clone(),
		fields:    append([]string(nil), ls.fields...),
		rows:      make([][]interface{}, len(ls.rows)),
	}
	for i, row := range ls.rows {
		clone.rows[i] = append([]interface{}(nil), row...)
	}
	return clone
}

// compile renders the statement with "?" placeholders. The first row carries
// the column aliases; later rows rely on UNION ALL column matching. With no
// rows the projection still names every column but yields an empty result.
func (ls *LiteralStatement) compile() (string, []interface{}) {
	aliased := make([]string, len(ls.fields))
	for i, name := range ls.fields {
		aliased[i] = "? AS " + ls.db.dialect.QuoteIdentifier(name)
	}

	if len(ls.rows) == 0 {
		nulls := make([]string, len(ls.fields))
		for i, name := range ls.fields {
			nulls[i] = "NULL AS " + ls.db.dialect.QuoteIdentifier(name)
		}
		return "SELECT " + strings.Join(nulls, ", ") + ls.db.dialect.FromDual() +
			" WHERE 1 = 0", nil
	}

	var params []interface{}
	selects := make([]string, len(ls.rows))
	for i, row := range ls.rows {
		if i == 0 {
			selects[i] = "SELECT " + strings.Join(aliased, ", ")
		} else {
			cells := make([]string, len(row))
			for j := range row {
				cells[j] = "?"
			}
			selects[i] = "SELECT " + strings.Join(cells, ", ")
		}
		params = append(params, row...)
	}
	return strings.Join(selects, " UNION ALL "), params
}

// Build compiles the statement into an executable Query.
func (ls *LiteralStatement) Build() *Query {
	sqlText, params := ls.compile()
	return ls.newQuery(sqlText, params)
}
