package core

import (
	"strings"

	"github.com/coregx/dmlkit/internal/meta"
)

// InsertStatement builds and executes multi-row INSERT statements, with
// optional conflict handling (upsert) and RETURNING support where the dialect
// provides it.
type InsertStatement struct {
	Statement

	fields []*meta.Field
	rows   [][]interface{}

	// raw marks value lists that are trusted SQL fragments rather than bound
	// parameters. Only string values are meaningful in raw mode.
	raw bool

	returning    []string
	conflictCols []string
	updateCols   []string
	upsert       bool
}

// Clone returns a copy owning independent containers. Row value slices are
// copied so appending to the clone never aliases the original.
func (is *InsertStatement) Clone() *InsertStatement {
	clone := &InsertStatement{
		Statement:    is.Statement.clone(),
		fields:       append([]*meta.Field(nil), is.fields...),
		rows:         make([][]interface{}, len(is.rows)),
		raw:          is.raw,
		returning:    append([]string(nil), is.returning...),
		conflictCols: append([]string(nil), is.conflictCols...),
		updateCols:   append([]string(nil), is.updateCols...),
		upsert:       is.upsert,
	}
	for i, row := range is.rows {
		clone.rows[i] = append([]interface{}(nil), row...)
	}
	return clone
}

// InsertValues sets the column list and appends one value row per entry of
// rows. Each row must match the field list in length. Calling it again with
// the same field names appends more rows; a different field list replaces
// fields and rows both.
func (is *InsertStatement) InsertValues(fieldNames []string, rows ...[]interface{}) error {
	if len(fieldNames) == 0 {
		return ErrNoInsertFields
	}

	fields := make([]*meta.Field, len(fieldNames))
	for i, name := range fieldNames {
		field, err := is.model.Field(name)
		if err != nil {
			return err
		}
		fields[i] = field
	}

	if !sameFields(is.fields, fields) {
		is.fields = fields
		is.rows = nil
	}
	for _, row := range rows {
		if len(row) != len(fields) {
			return ErrRowWidthMismatch
		}
		is.rows = append(is.rows, row)
	}
	return nil
}

func sameFields(a, b []*meta.Field) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Raw switches the statement into raw-value mode: row values are emitted as
// SQL text instead of bound parameters. Callers own escaping.
func (is *InsertStatement) Raw() *InsertStatement {
	is.raw = true
	return is
}

// Returning requests that the given columns of the inserted rows be reported
// back. On dialects without a RETURNING clause the request is silently
// dropped and callers fall back to LastInsertId.
func (is *InsertStatement) Returning(cols ...string) *InsertStatement {
	is.returning = cols
	return is
}

// ReturnFields returns the requested RETURNING columns.
func (is *InsertStatement) ReturnFields() []string {
	return is.returning
}

// OnConflict declares the conflict target columns for upsert handling.
// Follow with DoUpdate or DoNothing; OnConflict alone implies DoNothing.
func (is *InsertStatement) OnConflict(cols ...string) *InsertStatement {
	is.conflictCols = cols
	is.upsert = true
	return is
}

// DoUpdate resolves conflicts by updating the given columns from the
// incoming row.
func (is *InsertStatement) DoUpdate(cols ...string) *InsertStatement {
	is.updateCols = cols
	is.upsert = true
	return is
}

// DoNothing resolves conflicts by skipping the conflicting row.
func (is *InsertStatement) DoNothing() *InsertStatement {
	is.updateCols = nil
	is.upsert = true
	return is
}

// compile renders the statement with "?" placeholders.
func (is *InsertStatement) compile() (string, []interface{}) {
	cols := make([]string, len(is.fields))
	for i, f := range is.fields {
		cols[i] = is.db.dialect.QuoteIdentifier(f.Column)
	}

	var params []interface{}
	rowClauses := make([]string, len(is.rows))
	for i, row := range is.rows {
		cells := make([]string, len(row))
		for j, v := range row {
			if is.raw {
				if s, ok := v.(string); ok {
					cells[j] = s
					continue
				}
			}
			cells[j] = "?"
			params = append(params, v)
		}
		rowClauses[i] = "(" + strings.Join(cells, ", ") + ")"
	}

	table := is.db.dialect.QuoteIdentifier(is.primaryTable())
	sqlText := "INSERT INTO " + table +
		" (" + strings.Join(cols, ", ") + ") VALUES " + strings.Join(rowClauses, ", ")

	if is.upsert {
		sqlText += is.db.dialect.UpsertSQL(is.primaryTable(), is.conflictCols, is.updateCols)
	}
	if len(is.returning) > 0 {
		sqlText += is.db.dialect.Returning(is.returning)
	}
	return sqlText, params
}

// Build compiles the statement into an executable Query. Building with no
// rows is a programming error surfaced at execution time by the backend;
// callers should check HasRows first when rows come from dynamic input.
func (is *InsertStatement) Build() *Query {
	sqlText, params := is.compile()
	return is.newQuery(sqlText, params)
}

// HasRows reports whether any value rows have been added.
func (is *InsertStatement) HasRows() bool {
	return len(is.rows) > 0
}

// Execute runs the INSERT and returns the number of rows inserted.
func (is *InsertStatement) Execute() (int64, error) {
	return is.Build().ExecCount()
}

// ExecuteReturning runs the INSERT and materializes the first RETURNING
// column of every inserted row. It requires a prior Returning call and a
// dialect with RETURNING support.
func (is *InsertStatement) ExecuteReturning() ([]interface{}, error) {
	return is.Build().Keys()
}
