package core

// DeleteStatement builds and executes DELETE statements: direct deletes with
// a filter, key-chunked batch deletes, and deletes absorbing another query's
// filter with a backend-capability-driven fallback chain.
type DeleteStatement struct {
	Statement
}

// Where ANDs a condition onto the statement's filter.
func (ds *DeleteStatement) Where(cond Expression) *DeleteStatement {
	ds.addWhere(cond)
	return ds
}

// Clone returns a copy owning independent containers.
func (ds *DeleteStatement) Clone() *DeleteStatement {
	return &DeleteStatement{Statement: ds.Statement.clone()}
}

// compile renders the statement with "?" placeholders.
func (ds *DeleteStatement) compile() (string, []interface{}) {
	whereClause, params := ds.compileWhere()
	return "DELETE FROM " + ds.db.dialect.QuoteIdentifier(ds.primaryTable()) + whereClause, params
}

// Build compiles the statement into an executable Query.
func (ds *DeleteStatement) Build() *Query {
	sqlText, params := ds.compile()
	return ds.newQuery(sqlText, params)
}

// Execute runs the DELETE with the current filter and returns the number of
// rows deleted. A backend that reports no result counts as zero rows.
func (ds *DeleteStatement) Execute() (int64, error) {
	return ds.Build().ExecCount()
}

// DeleteBatch deletes the rows for all keys in pkList, issuing one physical
// DELETE per key chunk and summing the deleted-row counts. The filter is
// replaced for each chunk, never merged. An empty key list deletes nothing
// and returns 0.
//
// Batching is not atomic: a failure mid-batch aborts with the error and rows
// deleted by prior chunks stay deleted.
func (ds *DeleteStatement) DeleteBatch(pkList []interface{}) (int64, error) {
	var deleted int64
	pk := ds.model.PK.Column

	for _, chunk := range chunkKeys(pkList, ChunkSize) {
		ds.replaceWhere(In(pk, chunk...))
		n, err := ds.Build().ExecCount()
		if err != nil {
			return 0, err
		}
		deleted += n
	}
	return deleted, nil
}

// DeleteWhere deletes the rows selected by another query, in one SQL
// statement when possible. The strategy is chosen in order:
//
//  1. The other query references no tables beyond this statement's own base
//     tables: copy its filter directly and execute once.
//  2. The backend cannot self-reference the target table inside a DELETE
//     subquery: materialize the other query's primary keys and fall back to
//     DeleteBatch; an empty key set is a no-op returning 0.
//  3. Otherwise: rewrite the other query to select only the primary key and
//     embed it as a "pk IN (subquery)" filter, executed once.
func (ds *DeleteStatement) DeleteWhere(other *SelectStatement) (int64, error) {
	if tablesWithin(other.Tables(), ds.tables) {
		// Only the base table is in use; the filter transfers as-is.
		ds.replaceWhere(other.where)
		return ds.Build().ExecCount()
	}

	if !ds.db.dialect.SupportsUpdateSelfSelect() {
		keys, err := other.Keys()
		if err != nil {
			return 0, err
		}
		if len(keys) == 0 {
			return 0, nil
		}
		return ds.DeleteBatch(keys)
	}

	sub := other.pkProjection()
	sub.subquery = true
	subSQL, subParams := sub.compile()
	ds.replaceWhere(InSubquery(ds.model.PK.Column, subSQL, subParams...))
	return ds.Build().ExecCount()
}

// tablesWithin reports whether every table in have is present in allowed.
func tablesWithin(have, allowed []string) bool {
	for _, t := range have {
		found := false
		for _, a := range allowed {
			if t == a {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
