package dialects

import (
	"fmt"
	"strings"
)

// MySQLDialect implements MySQL-specific SQL dialect.
type MySQLDialect struct{}

// QuoteIdentifier quotes a MySQL identifier using backticks.
func (d *MySQLDialect) QuoteIdentifier(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}

// Placeholder returns MySQL placeholder format (always "?").
func (d *MySQLDialect) Placeholder(_ int) string {
	return "?"
}

// UpsertSQL generates MySQL UPSERT syntax using ON DUPLICATE KEY UPDATE.
func (d *MySQLDialect) UpsertSQL(_ string, _, updateCols []string) string {
	if updateCols == nil {
		// MySQL has no DO NOTHING clause; plain INSERT will fail on duplicate.
		// Users should use DoUpdate() for MySQL.
		return ""
	}

	updates := make([]string, len(updateCols))
	for i, col := range updateCols {
		updates[i] = fmt.Sprintf("%s = VALUES(%s)", col, col)
	}

	return fmt.Sprintf(" ON DUPLICATE KEY UPDATE %s",
		strings.Join(updates, ", "))
}

// Returning returns "" since MySQL has no RETURNING clause; generated values
// must be read back through LastInsertId.
func (d *MySQLDialect) Returning(_ []string) string {
	return ""
}

// FromDual returns the DUAL pseudo-table clause; MySQL rejects a WHERE clause
// on a SELECT without a FROM.
func (d *MySQLDialect) FromDual() string {
	return " FROM DUAL"
}

// SupportsUpdateSelfSelect reports that MySQL rejects an UPDATE/DELETE whose
// subquery selects from the table being modified (ERROR 1093). Statement
// planning must materialize keys on the client instead.
func (d *MySQLDialect) SupportsUpdateSelfSelect() bool {
	return false
}

func init() {
	RegisterDialect("mysql", &MySQLDialect{})
}
