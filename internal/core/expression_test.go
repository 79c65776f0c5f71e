package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coregx/dmlkit/internal/dialects"
)

func pgDialect() dialects.Dialect {
	return dialects.GetDialect("postgres")
}

func TestEq_Basic(t *testing.T) {
	sql, args := Eq("name", "alice").Build(pgDialect())
	assert.Equal(t, `"name"=?`, sql)
	assert.Equal(t, []interface{}{"alice"}, args)
}

func TestEq_NilBecomesIsNull(t *testing.T) {
	sql, args := Eq("deleted_at", nil).Build(pgDialect())
	assert.Equal(t, `"deleted_at" IS NULL`, sql)
	assert.Empty(t, args)
}

func TestNotEq_NilBecomesIsNotNull(t *testing.T) {
	sql, _ := NotEq("deleted_at", nil).Build(pgDialect())
	assert.Equal(t, `"deleted_at" IS NOT NULL`, sql)
}

func TestIn_Empty_AlwaysFalse(t *testing.T) {
	sql, args := In("id").Build(pgDialect())
	assert.Equal(t, "0=1", sql)
	assert.Empty(t, args)
}

func TestNotIn_Empty_AlwaysTrue(t *testing.T) {
	sql, _ := NotIn("id").Build(pgDialect())
	assert.Equal(t, "", sql)
}

func TestIn_SingleValueCollapses(t *testing.T) {
	sql, args := In("id", 7).Build(pgDialect())
	assert.Equal(t, `"id"=?`, sql)
	assert.Equal(t, []interface{}{7}, args)
}

func TestIn_MultipleValues(t *testing.T) {
	sql, args := In("id", 1, 2, 3).Build(pgDialect())
	assert.Equal(t, `"id" IN (?, ?, ?)`, sql)
	assert.Equal(t, []interface{}{1, 2, 3}, args)
}

func TestIn_NilValueBecomesNull(t *testing.T) {
	sql, args := In("id", 1, nil).Build(pgDialect())
	assert.Equal(t, `"id" IN (?, NULL)`, sql)
	assert.Equal(t, []interface{}{1}, args)
}

func TestInSubquery_EmbedsFragment(t *testing.T) {
	sql, args := InSubquery("id", "SELECT id FROM sessions WHERE ttl > ?", 60).Build(pgDialect())
	assert.Equal(t, `"id" IN (SELECT id FROM sessions WHERE ttl > ?)`, sql)
	assert.Equal(t, []interface{}{60}, args)
}

func TestHashExp_SortedKeys(t *testing.T) {
	sql, args := HashExp{
		"status": "active",
		"age":    30,
		"email":  nil,
	}.Build(pgDialect())

	assert.Equal(t, `"age"=? AND "email" IS NULL AND "status"=?`, sql)
	assert.Equal(t, []interface{}{30, "active"}, args)
}

func TestHashExp_SliceBecomesIn(t *testing.T) {
	sql, args := HashExp{"id": []interface{}{1, 2}}.Build(pgDialect())
	assert.Equal(t, `"id" IN (?, ?)`, sql)
	assert.Equal(t, []interface{}{1, 2}, args)
}

func TestAnd_WrapsParts(t *testing.T) {
	sql, args := And(Eq("a", 1), Eq("b", 2)).Build(pgDialect())
	assert.Equal(t, `("a"=?) AND ("b"=?)`, sql)
	assert.Equal(t, []interface{}{1, 2}, args)
}

func TestOr_SkipsNilAndEmpty(t *testing.T) {
	sql, args := Or(Eq("a", 1), nil, NotIn("b")).Build(pgDialect())
	assert.Equal(t, `"a"=?`, sql)
	assert.Equal(t, []interface{}{1}, args)
}

func TestNot_WrapsCondition(t *testing.T) {
	sql, args := Not(Eq("a", 1)).Build(pgDialect())
	assert.Equal(t, `NOT ("a"=?)`, sql)
	assert.Equal(t, []interface{}{1}, args)
}

func TestNewExp_RawPassthrough(t *testing.T) {
	sql, args := NewExp("views > ? AND views < ?", 1, 10).Build(pgDialect())
	assert.Equal(t, "views > ? AND views < ?", sql)
	assert.Equal(t, []interface{}{1, 10}, args)
}
