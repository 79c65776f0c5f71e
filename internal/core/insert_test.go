package core

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertStatement_SQL_SingleRow(t *testing.T) {
	db := mockDB("postgres")
	sb := &StatementBuilder{db: db}

	is := sb.InsertInto(userModel())
	err := is.InsertValues([]string{"name", "email"}, []interface{}{"alice", "alice@example.com"})
	require.NoError(t, err)

	q := is.Build()
	assert.Equal(t, `INSERT INTO "users" ("name", "email") VALUES ($1, $2)`, q.sql)
	assert.Equal(t, []interface{}{"alice", "alice@example.com"}, q.params)
}

func TestInsertStatement_SQL_MultiRow(t *testing.T) {
	db := mockDB("sqlite")
	sb := &StatementBuilder{db: db}

	is := sb.InsertInto(userModel())
	err := is.InsertValues([]string{"name", "views"},
		[]interface{}{"alice", 1},
		[]interface{}{"bob", 2},
		[]interface{}{"carol", 3},
	)
	require.NoError(t, err)

	q := is.Build()
	assert.Equal(t, `INSERT INTO "users" ("name", "views") VALUES (?, ?), (?, ?), (?, ?)`, q.sql)
	assert.Equal(t, []interface{}{"alice", 1, "bob", 2, "carol", 3}, q.params)
}

func TestInsertStatement_AppendsRowsAcrossCalls(t *testing.T) {
	db := mockDB("sqlite")
	sb := &StatementBuilder{db: db}

	is := sb.InsertInto(userModel())
	require.NoError(t, is.InsertValues([]string{"name"}, []interface{}{"alice"}))
	require.NoError(t, is.InsertValues([]string{"name"}, []interface{}{"bob"}))

	q := is.Build()
	assert.Equal(t, `INSERT INTO "users" ("name") VALUES (?), (?)`, q.sql)
}

func TestInsertStatement_FieldListChangeResetsRows(t *testing.T) {
	db := mockDB("sqlite")
	sb := &StatementBuilder{db: db}

	is := sb.InsertInto(userModel())
	require.NoError(t, is.InsertValues([]string{"name"}, []interface{}{"alice"}))
	require.NoError(t, is.InsertValues([]string{"name", "views"}, []interface{}{"bob", 2}))

	q := is.Build()
	assert.Equal(t, `INSERT INTO "users" ("name", "views") VALUES (?, ?)`, q.sql)
	assert.Equal(t, []interface{}{"bob", 2}, q.params)
}

func TestInsertStatement_NoFields(t *testing.T) {
	db := mockDB("sqlite")
	sb := &StatementBuilder{db: db}

	err := sb.InsertInto(userModel()).InsertValues(nil, []interface{}{"alice"})
	assert.ErrorIs(t, err, ErrNoInsertFields)
}

func TestInsertStatement_RowWidthMismatch(t *testing.T) {
	db := mockDB("sqlite")
	sb := &StatementBuilder{db: db}

	err := sb.InsertInto(userModel()).InsertValues([]string{"name", "views"}, []interface{}{"alice"})
	assert.ErrorIs(t, err, ErrRowWidthMismatch)
}

func TestInsertStatement_UnknownField(t *testing.T) {
	db := mockDB("sqlite")
	sb := &StatementBuilder{db: db}

	err := sb.InsertInto(userModel()).InsertValues([]string{"nope"}, []interface{}{1})
	assert.Error(t, err)
}

func TestInsertStatement_Returning_Postgres(t *testing.T) {
	db := mockDB("postgres")
	sb := &StatementBuilder{db: db}

	is := sb.InsertInto(userModel()).Returning("id")
	require.NoError(t, is.InsertValues([]string{"name"}, []interface{}{"alice"}))

	q := is.Build()
	assert.Equal(t, `INSERT INTO "users" ("name") VALUES ($1) RETURNING "id"`, q.sql)
	assert.Equal(t, []string{"id"}, is.ReturnFields())
}

func TestInsertStatement_Returning_MySQLDropsClause(t *testing.T) {
	db := mockDB("mysql")
	sb := &StatementBuilder{db: db}

	is := sb.InsertInto(userModel()).Returning("id")
	require.NoError(t, is.InsertValues([]string{"name"}, []interface{}{"alice"}))

	// MySQL has no RETURNING; callers read LastInsertId instead.
	assert.Equal(t, "INSERT INTO `users` (`name`) VALUES (?)", is.Build().sql)
}

func TestInsertStatement_Upsert_DoUpdate(t *testing.T) {
	db := mockDB("postgres")
	sb := &StatementBuilder{db: db}

	is := sb.InsertInto(userModel()).OnConflict("id").DoUpdate("name", "email")
	require.NoError(t, is.InsertValues([]string{"id", "name", "email"},
		[]interface{}{1, "alice", "alice@example.com"}))

	sql := is.Build().sql
	assert.Contains(t, sql, `INSERT INTO "users"`)
	assert.Contains(t, sql, "ON CONFLICT (id) DO UPDATE SET")
	assert.Contains(t, sql, "name = EXCLUDED.name")
	assert.Contains(t, sql, "email = EXCLUDED.email")
}

func TestInsertStatement_Upsert_DoNothing(t *testing.T) {
	db := mockDB("sqlite")
	sb := &StatementBuilder{db: db}

	is := sb.InsertInto(userModel()).OnConflict("id").DoNothing()
	require.NoError(t, is.InsertValues([]string{"id", "name"}, []interface{}{1, "alice"}))

	assert.Contains(t, is.Build().sql, "ON CONFLICT (id) DO NOTHING")
}

func TestInsertStatement_Upsert_MySQL(t *testing.T) {
	db := mockDB("mysql")
	sb := &StatementBuilder{db: db}

	is := sb.InsertInto(userModel()).OnConflict("id").DoUpdate("name")
	require.NoError(t, is.InsertValues([]string{"id", "name"}, []interface{}{1, "alice"}))

	sql := is.Build().sql
	assert.Contains(t, sql, "ON DUPLICATE KEY UPDATE")
	assert.Contains(t, sql, "name = VALUES(name)")
}

func TestInsertStatement_RawValues(t *testing.T) {
	db := mockDB("sqlite")
	sb := &StatementBuilder{db: db}

	is := sb.InsertInto(userModel()).Raw()
	require.NoError(t, is.InsertValues([]string{"name", "views"},
		[]interface{}{"'alice'", "views + 1"}))

	q := is.Build()
	assert.Equal(t, `INSERT INTO "users" ("name", "views") VALUES ('alice', views + 1)`, q.sql)
	assert.Empty(t, q.params)
}

func TestInsertStatement_Execute(t *testing.T) {
	db, mock := execDB(t, "sqlite")
	sb := &StatementBuilder{db: db}

	p := mock.ExpectPrepare(`INSERT INTO "users"`)
	p.ExpectExec().WithArgs("alice", "bob").WillReturnResult(sqlmock.NewResult(2, 2))

	is := sb.InsertInto(userModel())
	require.NoError(t, is.InsertValues([]string{"name"}, []interface{}{"alice"}, []interface{}{"bob"}))

	n, err := is.Execute()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertStatement_ExecuteReturning(t *testing.T) {
	db, mock := execDB(t, "postgres")
	sb := &StatementBuilder{db: db}

	p := mock.ExpectPrepare(`INSERT INTO "users"`)
	p.ExpectQuery().WithArgs("alice", "bob").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(10)).AddRow(int64(11)))

	is := sb.InsertInto(userModel()).Returning("id")
	require.NoError(t, is.InsertValues([]string{"name"}, []interface{}{"alice"}, []interface{}{"bob"}))

	ids, err := is.ExecuteReturning()
	require.NoError(t, err)
	assert.Equal(t, []interface{}{int64(10), int64(11)}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertStatement_HasRows(t *testing.T) {
	db := mockDB("sqlite")
	sb := &StatementBuilder{db: db}

	is := sb.InsertInto(userModel())
	assert.False(t, is.HasRows())
	require.NoError(t, is.InsertValues([]string{"name"}, []interface{}{"alice"}))
	assert.True(t, is.HasRows())
}

func TestInsertStatement_Clone_Independent(t *testing.T) {
	db := mockDB("sqlite")
	sb := &StatementBuilder{db: db}

	orig := sb.InsertInto(userModel())
	require.NoError(t, orig.InsertValues([]string{"name"}, []interface{}{"alice"}))

	clone := orig.Clone()
	require.NoError(t, clone.InsertValues([]string{"name"}, []interface{}{"bob"}))

	assert.Equal(t, `INSERT INTO "users" ("name") VALUES (?)`, orig.Build().sql)
	assert.Equal(t, `INSERT INTO "users" ("name") VALUES (?), (?)`, clone.Build().sql)
}
