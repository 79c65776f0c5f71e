// Copyright (c) 2025 COREGX. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/coregx/dmlkit/internal/dialects"
)

// Expression represents a filter condition that can be embedded in a
// statement's WHERE clause. The full condition DSL lives in the query layer;
// this is the subset the mutation engines consume and produce.
type Expression interface {
	// Build converts the expression into a SQL fragment and returns parameter
	// values. The dialect parameter is used for identifier quoting. Returns
	// SQL with "?" placeholders; renumbering to dialect-specific placeholders
	// happens when the owning statement is compiled.
	Build(dialect dialects.Dialect) (sql string, args []interface{})
}

// RawExp represents a raw SQL condition with optional parameter bindings.
type RawExp struct {
	SQL  string
	Args []interface{}
}

// NewExp creates a raw SQL condition with optional parameter bindings.
func NewExp(sql string, args ...interface{}) Expression {
	return &RawExp{
		SQL:  sql,
		Args: args,
	}
}

// Build returns the raw SQL as-is with args passed through unchanged.
func (e *RawExp) Build(_ dialects.Dialect) (string, []interface{}) {
	return e.SQL, e.Args
}

// HashExp represents a hash-based condition using a map of column-value
// pairs, combined with AND. nil values become IS NULL; slice values become
// IN lists.
type HashExp map[string]interface{}

// Build converts a HashExp into a SQL fragment. Map keys are sorted to keep
// the generated SQL deterministic.
func (e HashExp) Build(dialect dialects.Dialect) (string, []interface{}) {
	if len(e) == 0 {
		return "", nil
	}

	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	var args []interface{}

	for _, key := range keys {
		col := dialect.QuoteIdentifier(key)
		switch v := e[key].(type) {
		case nil:
			parts = append(parts, col+" IS NULL")
		case Expression:
			sql, subArgs := v.Build(dialect)
			if sql != "" {
				parts = append(parts, "("+sql+")")
				args = append(args, subArgs...)
			}
		case []interface{}:
			sql, subArgs := In(key, v...).Build(dialect)
			parts = append(parts, sql)
			args = append(args, subArgs...)
		default:
			parts = append(parts, col+"=?")
			args = append(args, v)
		}
	}

	if len(parts) == 0 {
		return "", nil
	}
	return strings.Join(parts, " AND "), args
}

// CompareExp represents a comparison condition (=, <>, >, <, >=, <=).
type CompareExp struct {
	Col      string
	Operator string
	Value    interface{}
}

// Eq generates an equality condition (column = value).
// If value is nil, generates "column IS NULL" instead.
func Eq(col string, value interface{}) Expression {
	return &CompareExp{Col: col, Operator: "=", Value: value}
}

// NotEq generates an inequality condition (column <> value).
// If value is nil, generates "column IS NOT NULL" instead.
func NotEq(col string, value interface{}) Expression {
	return &CompareExp{Col: col, Operator: "<>", Value: value}
}

// GreaterThan generates a greater-than condition (column > value).
func GreaterThan(col string, value interface{}) Expression {
	return &CompareExp{Col: col, Operator: ">", Value: value}
}

// LessThan generates a less-than condition (column < value).
func LessThan(col string, value interface{}) Expression {
	return &CompareExp{Col: col, Operator: "<", Value: value}
}

// Build converts a comparison condition into a SQL fragment.
func (e *CompareExp) Build(dialect dialects.Dialect) (string, []interface{}) {
	col := dialect.QuoteIdentifier(e.Col)

	if e.Value == nil {
		if e.Operator == "=" {
			return col + " IS NULL", nil
		}
		if e.Operator == "<>" {
			return col + " IS NOT NULL", nil
		}
	}

	if expr, ok := e.Value.(Expression); ok {
		sql, args := expr.Build(dialect)
		return col + e.Operator + "(" + sql + ")", args
	}

	return col + e.Operator + "?", []interface{}{e.Value}
}

// InExp represents an IN or NOT IN condition over a value list.
type InExp struct {
	Col    string
	Values []interface{}
	Not    bool
}

// In generates an IN condition (column IN (value1, value2, ...)).
// If values is empty, generates "0=1" (always false).
// A single value collapses to "column = value".
func In(col string, values ...interface{}) Expression {
	return &InExp{Col: col, Values: values, Not: false}
}

// NotIn generates a NOT IN condition (column NOT IN (value1, value2, ...)).
// If values is empty, generates "" (always true).
func NotIn(col string, values ...interface{}) Expression {
	return &InExp{Col: col, Values: values, Not: true}
}

// Build converts an IN condition into a SQL fragment.
func (e *InExp) Build(dialect dialects.Dialect) (string, []interface{}) {
	if len(e.Values) == 0 {
		if e.Not {
			return "", nil // NOT IN () -> always true
		}
		return "0=1", nil // IN () -> always false
	}

	col := dialect.QuoteIdentifier(e.Col)

	if len(e.Values) == 1 {
		val := e.Values[0]
		if val == nil {
			if e.Not {
				return col + " IS NOT NULL", nil
			}
			return col + " IS NULL", nil
		}
		if e.Not {
			return col + "<>?", []interface{}{val}
		}
		return col + "=?", []interface{}{val}
	}

	placeholders := make([]string, 0, len(e.Values))
	var args []interface{}
	for _, val := range e.Values {
		if val == nil {
			placeholders = append(placeholders, "NULL")
		} else {
			placeholders = append(placeholders, "?")
			args = append(args, val)
		}
	}

	op := "IN"
	if e.Not {
		op = "NOT IN"
	}

	return fmt.Sprintf("%s %s (%s)", col, op, strings.Join(placeholders, ", ")), args
}

// SubqueryExp represents a "column IN (subquery)" condition. The subquery is
// captured as a compiled fragment so the embedded statement can no longer
// influence the condition after embedding.
type SubqueryExp struct {
	Col  string
	SQL  string
	Args []interface{}
	Not  bool
}

// InSubquery generates a "column IN (subquery)" condition from a compiled
// subquery fragment.
func InSubquery(col, sql string, args ...interface{}) Expression {
	return &SubqueryExp{Col: col, SQL: sql, Args: args}
}

// Build converts the subquery condition into a SQL fragment.
func (e *SubqueryExp) Build(dialect dialects.Dialect) (string, []interface{}) {
	op := "IN"
	if e.Not {
		op = "NOT IN"
	}
	return fmt.Sprintf("%s %s (%s)", dialect.QuoteIdentifier(e.Col), op, e.SQL), e.Args
}

// AndOrExp represents an AND or OR combination of conditions.
type AndOrExp struct {
	Exps []Expression
	Op   string // "AND" or "OR"
}

// And concatenates multiple conditions with AND, filtering out nils.
func And(exps ...Expression) Expression {
	return &AndOrExp{Exps: exps, Op: "AND"}
}

// Or concatenates multiple conditions with OR, filtering out nils.
func Or(exps ...Expression) Expression {
	return &AndOrExp{Exps: exps, Op: "OR"}
}

// Build converts an AND/OR condition into a SQL fragment.
func (e *AndOrExp) Build(dialect dialects.Dialect) (string, []interface{}) {
	var parts []string
	var args []interface{}

	for _, exp := range e.Exps {
		if exp == nil {
			continue
		}
		sql, subArgs := exp.Build(dialect)
		if sql != "" {
			parts = append(parts, sql)
			args = append(args, subArgs...)
		}
	}

	if len(parts) == 0 {
		return "", nil
	}
	if len(parts) == 1 {
		return parts[0], args
	}

	// Wrap each part in parentheses for correct precedence
	return "(" + strings.Join(parts, ") "+e.Op+" (") + ")", args
}

// NotExp represents a negated condition.
type NotExp struct {
	Exp Expression
}

// Not prefixes "NOT" to the specified condition.
func Not(exp Expression) Expression {
	return &NotExp{Exp: exp}
}

// Build converts a NOT condition into a SQL fragment.
func (e *NotExp) Build(dialect dialects.Dialect) (string, []interface{}) {
	if e.Exp == nil {
		return "", nil
	}

	sql, args := e.Exp.Build(dialect)
	if sql == "" {
		return "", nil
	}

	return "NOT (" + sql + ")", args
}
