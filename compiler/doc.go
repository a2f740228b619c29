// Package compiler translates dialect-neutral statement descriptors into SQL
// text for one target dialect.
//
// A Compiler is configured once with a dialect, an optional server version
// and an optional index introspector, and is then safe for concurrent use:
//
//	c, err := compiler.New(
//	    compiler.WithDialect(dialect.Oracle),
//	    compiler.WithServerVersion("11.2.0.4"),
//	    compiler.WithIntrospector(schema.NewOracleInspector(drv, "")),
//	)
//	if err != nil {
//	    return err
//	}
//	res, err := c.Compile(ctx, &compiler.Descriptor{
//	    Kind:   compiler.Select,
//	    Select: `SELECT "ID" FROM "USERS"`,
//	    Limit:  10,
//	    Offset: 20,
//	})
//
// Results carry the SQL text together with the hints a caller must act on,
// such as an injected numbering column or the table targeted by an insert.
// Callers that track those hints across statements keep them in a Session.
//
// Only Upsert and, for dialects that emulate multi-row inserts, BatchInsert
// read index metadata. Callers that must not block while compiling can
// pre-fetch metadata with schema.Prefetch and configure the returned
// schema.Static.
//
// WithPolicy installs a check every valid descriptor passes before it is
// compiled (see package policy). Exec runs a compiled statement and honors
// its SuppressConstraintErrors hint; ExecTx runs several in one transaction.
package compiler
