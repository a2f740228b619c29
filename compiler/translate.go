package compiler

import (
	"github.com/syssam/stmtc/dialect"
)

// translator holds the dialect-specific pieces of statement translation.
// Everything else is derived from the dialect's capabilities.
type translator struct {
	// aliasSep separates an expression from its alias.
	aliasSep string
	// ignoreSuffix is appended to an INSERT to ignore conflicts, for
	// dialects without an ignore modifier.
	ignoreSuffix string
	// rowID is the pseudo-column an INSERT returns into the output binding.
	rowID string
	// onConflict appends the upsert clause to a plain INSERT, for servers
	// without MERGE. Nil if the dialect has none.
	onConflict func(b *builder, p *upsertPlan)
	// rowLimit returns the predicate restricting an UPDATE or DELETE to its
	// first limit rows. Nil if the dialect cannot express one.
	rowLimit func(caps *dialect.Capabilities, table, where, orderBy string, limit int) string
	// numberRows pages inner on servers without native paging. Nil if the
	// dialect cannot emulate it.
	numberRows func(b *builder, inner string, limit, offset int)
}

var translators = map[string]*translator{
	dialect.Oracle: {
		aliasSep:   " ",
		rowID:      "ROWID",
		rowLimit:   rownumLimit,
		numberRows: rownumPage,
	},
	dialect.Postgres: {
		aliasSep:     " AS ",
		ignoreSuffix: " ON CONFLICT DO NOTHING",
		onConflict:   onConflictFirst,
		rowLimit:     identityLimit,
	},
	dialect.SQLite: {
		aliasSep:   " AS ",
		onConflict: onConflictEach,
		rowLimit:   identityLimit,
	},
	dialect.MySQL: {
		aliasSep:   " AS ",
		onConflict: onDuplicateKey,
	},
}

// translatorFor returns the translator of a registered dialect, or one
// derived from the capabilities of a custom dialect.
func translatorFor(caps *dialect.Capabilities) *translator {
	if t, ok := translators[caps.Name]; ok {
		return t
	}
	t := &translator{aliasSep: " AS ", rowID: "ROWID"}
	if caps.RowIdentity != "" {
		t.rowLimit = identityLimit
	}
	return t
}
