package dialects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDialect_Registered(t *testing.T) {
	for _, name := range []string{"postgres", "postgresql", "mysql", "sqlite", "sqlite3"} {
		assert.NotNil(t, GetDialect(name), name)
	}
}

func TestGetDialect_UnknownPanics(t *testing.T) {
	assert.Panics(t, func() { GetDialect("oracle") })
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, `"users"`, GetDialect("postgres").QuoteIdentifier("users"))
	assert.Equal(t, "`users`", GetDialect("mysql").QuoteIdentifier("users"))
	assert.Equal(t, `"users"`, GetDialect("sqlite").QuoteIdentifier("users"))

	// Embedded quote characters are doubled.
	assert.Equal(t, `"a""b"`, GetDialect("postgres").QuoteIdentifier(`a"b`))
	assert.Equal(t, "`a``b`", GetDialect("mysql").QuoteIdentifier("a`b"))
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "$1", GetDialect("postgres").Placeholder(1))
	assert.Equal(t, "$5", GetDialect("postgres").Placeholder(5))
	assert.Equal(t, "?", GetDialect("mysql").Placeholder(3))
	assert.Equal(t, "?", GetDialect("sqlite").Placeholder(3))
}

func TestReturning(t *testing.T) {
	pg := GetDialect("postgres")
	assert.Equal(t, ` RETURNING "id", "name"`, pg.Returning([]string{"id", "name"}))
	assert.Empty(t, pg.Returning(nil))

	// MySQL has no RETURNING clause at all.
	assert.Empty(t, GetDialect("mysql").Returning([]string{"id"}))

	assert.Equal(t, ` RETURNING "id"`, GetDialect("sqlite").Returning([]string{"id"}))
}

func TestFromDual(t *testing.T) {
	// Only MySQL needs the DUAL pseudo-table for a table-less WHERE.
	assert.Equal(t, " FROM DUAL", GetDialect("mysql").FromDual())
	assert.Empty(t, GetDialect("postgres").FromDual())
	assert.Empty(t, GetDialect("sqlite").FromDual())
}

func TestSupportsUpdateSelfSelect(t *testing.T) {
	assert.True(t, GetDialect("postgres").SupportsUpdateSelfSelect())
	assert.True(t, GetDialect("sqlite").SupportsUpdateSelfSelect())
	assert.False(t, GetDialect("mysql").SupportsUpdateSelfSelect())
}

func TestUpsertSQL_Postgres(t *testing.T) {
	pg := GetDialect("postgres")

	sql := pg.UpsertSQL("users", []string{"id"}, []string{"name"})
	assert.Equal(t, " ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name", sql)

	assert.Equal(t, " ON CONFLICT (id) DO NOTHING", pg.UpsertSQL("users", []string{"id"}, nil))
	assert.Equal(t, " ON CONFLICT DO NOTHING", pg.UpsertSQL("users", nil, nil))
}

func TestUpsertSQL_MySQL(t *testing.T) {
	my := GetDialect("mysql")

	sql := my.UpsertSQL("users", []string{"id"}, []string{"name", "email"})
	assert.Equal(t, " ON DUPLICATE KEY UPDATE name = VALUES(name), email = VALUES(email)", sql)

	// No DO NOTHING equivalent.
	assert.Empty(t, my.UpsertSQL("users", []string{"id"}, nil))
}

func TestUpsertSQL_SQLite(t *testing.T) {
	sq := GetDialect("sqlite")

	sql := sq.UpsertSQL("users", []string{"id"}, []string{"name"})
	assert.Equal(t, " ON CONFLICT (id) DO UPDATE SET name = excluded.name", sql)
}

func TestRegisterDialect_Custom(t *testing.T) {
	custom := &SQLiteDialect{}
	RegisterDialect("custom-test", custom)
	require.Same(t, Dialect(custom), GetDialect("custom-test"))
}
