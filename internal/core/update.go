package core

import (
	"sort"
	"strings"

	"github.com/coregx/dmlkit/internal/meta"
)

// Assignment is one column assignment of an UPDATE statement: the field
// descriptor, the concrete model owning the column, and the assigned value.
type Assignment struct {
	Field *meta.Field
	Model *meta.Model
	Value Value
}

// UpdateStatement builds and executes UPDATE statements. Assignments
// targeting ancestor models (multi-table inheritance) are routed into a
// per-ancestor related-update map and coalesced so each ancestor table is
// updated by exactly one statement.
type UpdateStatement struct {
	Statement

	values []Assignment

	// relatedIDs is the concrete key set the parent update resolved, used to
	// filter the per-ancestor statements. nil means not resolved.
	relatedIDs []interface{}

	// relatedUpdates never contains the statement's own model as a key.
	// relatedOrder tracks first-seen ancestor order since map iteration is
	// unordered.
	relatedUpdates map[*meta.Model][]Assignment
	relatedOrder   []*meta.Model

	returning []string
}

// Where ANDs a condition onto the statement's filter.
func (us *UpdateStatement) Where(cond Expression) *UpdateStatement {
	us.addWhere(cond)
	return us
}

// Clone returns a copy whose value list and related-update map are owned
// independently, so clone and original can diverge.
func (us *UpdateStatement) Clone() *UpdateStatement {
	clone := &UpdateStatement{
		Statement:      us.Statement.clone(),
		values:         append([]Assignment(nil), us.values...),
		relatedIDs:     append([]interface{}(nil), us.relatedIDs...),
		relatedUpdates: make(map[*meta.Model][]Assignment, len(us.relatedUpdates)),
		relatedOrder:   append([]*meta.Model(nil), us.relatedOrder...),
		returning:      append([]string(nil), us.returning...),
	}
	for model, assignments := range us.relatedUpdates {
		clone.relatedUpdates[model] = append([]Assignment(nil), assignments...)
	}
	return clone
}

// SetValues converts a map of field name to value into column assignments.
// This is the entry point for the public update path.
//
// Only plain columns and foreign-key columns are updatable; a many-to-many
// or otherwise non-concrete field fails with ErrFieldConflict and leaves the
// statement unchanged. Fields owned by an ancestor model are routed to the
// related-update map instead of the local value list. Map keys are processed
// in sorted order to keep the generated SQL deterministic.
func (us *UpdateStatement) SetValues(values map[string]interface{}) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	// Resolve everything before mutating so a conflict leaves no trace.
	resolved := make([]Assignment, 0, len(names))
	for _, name := range names {
		field, err := us.model.Field(name)
		if err != nil {
			return err
		}
		if !field.Updatable() {
			return WrapError(ErrFieldConflict, name)
		}

		value, err := us.toValue(values[name])
		if err != nil {
			return err
		}
		resolved = append(resolved, Assignment{Field: field, Model: field.Model, Value: value})
	}

	for _, a := range resolved {
		if a.Model != us.model {
			us.addRelatedUpdate(a)
			continue
		}
		us.values = append(us.values, a)
	}
	return nil
}

// toValue normalizes a raw value into the tagged Value variant, resolving
// expressions against this statement before they are stored. Resolution is
// idempotent and happens exactly once per expression.
func (us *UpdateStatement) toValue(raw interface{}) (Value, error) {
	switch v := raw.(type) {
	case Value:
		if expr, ok := v.(*Expr); ok {
			if err := expr.resolve(&us.Statement); err != nil {
				return nil, err
			}
		}
		return v, nil
	default:
		return Lit(raw), nil
	}
}

// addRelatedUpdate routes an assignment to the update for an ancestor model.
// Updates are coalesced so only one statement per ancestor is run.
func (us *UpdateStatement) addRelatedUpdate(a Assignment) {
	if _, seen := us.relatedUpdates[a.Model]; !seen {
		us.relatedOrder = append(us.relatedOrder, a.Model)
	}
	us.relatedUpdates[a.Model] = append(us.relatedUpdates[a.Model], a)
}

// Values returns the local column assignments in the order they were added.
func (us *UpdateStatement) Values() []Assignment {
	return us.values
}

// Returning requests that the given columns of the updated rows be reported
// back. On dialects without a RETURNING clause the request is silently
// dropped; related ancestor statements never carry it.
func (us *UpdateStatement) Returning(cols ...string) *UpdateStatement {
	us.returning = cols
	return us
}

// ReturnFields returns the requested RETURNING columns.
func (us *UpdateStatement) ReturnFields() []string {
	return us.returning
}

// SetRelatedIDs records the concrete key set the update applies to, used to
// filter the per-ancestor related statements.
func (us *UpdateStatement) SetRelatedIDs(keys []interface{}) {
	us.relatedIDs = keys
}

// RelatedStatements returns one UPDATE statement per ancestor model touched
// by earlier SetValues calls, in first-seen order. Each statement carries
// exactly that ancestor's assignments and, if the parent resolved a concrete
// key set, the same primary-key restriction.
func (us *UpdateStatement) RelatedStatements() []*UpdateStatement {
	if len(us.relatedUpdates) == 0 {
		return nil
	}

	result := make([]*UpdateStatement, 0, len(us.relatedOrder))
	for _, model := range us.relatedOrder {
		stmt := &UpdateStatement{
			Statement: Statement{
				db:     us.db,
				tx:     us.tx,
				ctx:    us.ctx,
				kind:   kindUpdate,
				model:  model,
				tables: []string{model.Table},
			},
			values:         append([]Assignment(nil), us.relatedUpdates[model]...),
			relatedUpdates: make(map[*meta.Model][]Assignment),
		}
		if us.relatedIDs != nil {
			stmt.addWhere(In(model.PK.Column, us.relatedIDs...))
		}
		result = append(result, stmt)
	}
	return result
}

// UpdateBatch applies the given values to the rows for all keys in pkList,
// issuing one physical UPDATE per key chunk. Row counts are discarded on
// this path; only total application is guaranteed. Like DeleteBatch, the
// chunks are not atomic as a group.
func (us *UpdateStatement) UpdateBatch(pkList []interface{}, values map[string]interface{}) error {
	if err := us.SetValues(values); err != nil {
		return err
	}

	pk := us.model.PK.Column
	for _, chunk := range chunkKeys(pkList, ChunkSize) {
		us.replaceWhere(In(pk, chunk...))
		if err := us.Build().NoResult(); err != nil {
			return err
		}
	}
	return nil
}

// compile renders the statement with "?" placeholders.
func (us *UpdateStatement) compile() (string, []interface{}) {
	setClauses := make([]string, 0, len(us.values))
	params := make([]interface{}, 0, len(us.values))

	for _, a := range us.values {
		col := us.db.dialect.QuoteIdentifier(a.Field.Column)
		switch v := a.Value.(type) {
		case Literal:
			setClauses = append(setClauses, col+" = ?")
			params = append(params, v.V)
		case *Expr:
			rhs, args := v.compile(&us.Statement)
			setClauses = append(setClauses, col+" = "+rhs)
			params = append(params, args...)
		}
	}

	whereClause, whereParams := us.compileWhere()
	params = append(params, whereParams...)

	sqlText := "UPDATE " + us.db.dialect.QuoteIdentifier(us.primaryTable()) +
		" SET " + strings.Join(setClauses, ", ") + whereClause
	if len(us.returning) > 0 {
		sqlText += us.db.dialect.Returning(us.returning)
	}
	return sqlText, params
}

// Build compiles the statement into an executable Query.
func (us *UpdateStatement) Build() *Query {
	sqlText, params := us.compile()
	return us.newQuery(sqlText, params)
}

// Execute runs the UPDATE with the current filter and returns the number of
// rows updated.
func (us *UpdateStatement) Execute() (int64, error) {
	return us.Build().ExecCount()
}

// ExecuteReturning runs the UPDATE and materializes the first RETURNING
// column of every updated row. It requires a prior Returning call and a
// dialect with RETURNING support.
func (us *UpdateStatement) ExecuteReturning() ([]interface{}, error) {
	return us.Build().Keys()
}
