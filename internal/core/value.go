package core

import (
	"strings"
)

// Value is a tagged update value: either a Literal bound as a driver value,
// or an Expr computed by the database from a column on the updated row.
// The explicit variant keeps resolution a type switch instead of a
// capability probe.
type Value interface {
	isValue()
}

// Literal is an opaque driver value bound through a placeholder.
type Literal struct {
	V interface{}
}

func (Literal) isValue() {}

// Lit wraps a plain Go value as an update Literal.
func Lit(v interface{}) Literal {
	return Literal{V: v}
}

// Expr is a computed update value referencing a column of the updated row,
// e.g. "views" = "views" + 1. Expressions must be resolved against the owning
// statement before compilation; resolution validates the column reference in
// a write context where joins are not allowed.
type Expr struct {
	Column  string
	Op      string // "+", "-", "*", "/"
	Operand interface{}

	resolved bool
	column   string // resolved column name
}

func (*Expr) isValue() {}

// Inc builds an increment expression: column = column + n.
func Inc(column string, n interface{}) *Expr {
	return &Expr{Column: column, Op: "+", Operand: n}
}

// Dec builds a decrement expression: column = column - n.
func Dec(column string, n interface{}) *Expr {
	return &Expr{Column: column, Op: "-", Operand: n}
}

// Mul builds a scaling expression: column = column * n.
func Mul(column string, n interface{}) *Expr {
	return &Expr{Column: column, Op: "*", Operand: n}
}

// resolve validates the expression's column reference against the statement's
// model. Resolution is idempotent; a second call is a no-op. Join paths are
// rejected since update expressions execute in a write context.
func (e *Expr) resolve(s *Statement) error {
	if e.resolved {
		return nil
	}
	if strings.ContainsAny(e.Column, ".") || strings.Contains(e.Column, "__") {
		return WrapError(ErrJoinedExpression, e.Column)
	}

	field, err := s.model.Field(e.Column)
	if err != nil {
		return err
	}
	if !field.Updatable() {
		return WrapError(ErrFieldConflict, e.Column)
	}

	e.column = field.Column
	e.resolved = true
	return nil
}

// compile renders the assignment's right-hand side with "?" placeholders.
func (e *Expr) compile(s *Statement) (string, []interface{}) {
	col := e.column
	if col == "" {
		col = e.Column
	}
	quoted := s.db.dialect.QuoteIdentifier(col)
	return quoted + " " + e.Op + " ?", []interface{}{e.Operand}
}
