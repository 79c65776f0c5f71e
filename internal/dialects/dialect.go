// Package dialects provides database-specific SQL dialect implementations for
// PostgreSQL, MySQL, and SQLite: identifier quoting, placeholder styles, upsert
// and RETURNING syntax, and the capability flags that drive statement planning.
package dialects

// Dialect defines database-specific behaviors.
type Dialect interface {
	QuoteIdentifier(string) string
	Placeholder(int) string
	UpsertSQL(string, []string, []string) string

	// Returning produces the clause appended to INSERT/UPDATE statements to
	// report generated values, or "" when the backend has no such clause.
	Returning(cols []string) string

	// FromDual returns the FROM clause a table-less SELECT needs before it can
	// carry a WHERE clause, or "" when the backend accepts the bare form.
	FromDual() string

	// SupportsUpdateSelfSelect reports whether the backend allows an
	// UPDATE/DELETE statement to reference its own target table inside a
	// correlated subquery. Backends without it force key materialization on
	// the client side.
	SupportsUpdateSelfSelect() bool
}

var dialects = make(map[string]Dialect)

// RegisterDialect registers a database dialect by driver name.
func RegisterDialect(name string, d Dialect) {
	dialects[name] = d
}

// GetDialect retrieves a registered dialect by driver name, panics if not found.
func GetDialect(name string) Dialect {
	if d, ok := dialects[name]; ok {
		return d
	}
	panic("unsupported dialect: " + name)
}
