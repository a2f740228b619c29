package compiler

// Result is a compiled statement together with the hints the caller must act
// on before or after executing it.
type Result struct {
	// SQL is the statement text.
	SQL string
	// InjectedNumberingColumn reports that paging added the synthetic
	// NumberingColumn to the result set. Callers exclude it from the columns
	// they expose (see Session.VisibleColumns).
	InjectedNumberingColumn bool
	// LastInsertTable is the table an insert targeted, for dialects where
	// fetching the generated identifier requires it.
	LastInsertTable string
	// OutputBinding is the name of the output parameter the statement
	// returns the generated row identifier into.
	OutputBinding string
	// RowLimitPredicate is the conjunct synthesized to limit the rows an
	// UPDATE or DELETE touches. It is already part of SQL.
	RowLimitPredicate string
	// InjectedOrderBy is the ordering added because native paging requires
	// one. It is already part of SQL.
	InjectedOrderBy string
	// SuppressConstraintErrors asks the execution layer to treat constraint
	// violations as no-ops, for dialects without an ignore modifier.
	SuppressConstraintErrors bool
}

// String returns the SQL text.
func (r *Result) String() string {
	return r.SQL
}
