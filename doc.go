// Package stmtc compiles dialect-neutral statement descriptors into SQL text
// for a specific target database.
//
// The query-building framework that owns clause accumulation, parameter
// binding and execution builds a compiler.Descriptor and hands it to a
// compiler.Compiler configured for one dialect. The compiler returns the
// statement text together with post-processing hints (an injected numbering
// column, the table targeted by an insert, an output bind name, ...).
//
// # Packages
//
//   - dialect: capability table, identifier quoting and the version gate
//   - dialect/sql: database/sql driver used by catalog introspection
//   - dialect/sql/schema: index metadata and schema introspectors
//   - dialect/sql/sqlerr: execution-time constraint error classification
//   - compiler: statement descriptors, translators, sessions and Exec
//   - policy: rule chains restricting which descriptors compile
//   - cmd/stmtc: command line front end (compile, inspect, dialects)
//
// # Usage
//
//	c, err := compiler.New(
//	    compiler.WithDialect(dialect.Oracle),
//	    compiler.WithServerVersion("19.0.0.0.0"),
//	    compiler.WithIntrospector(schema.NewOracleInspector(drv, "APP")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := c.Compile(ctx, &compiler.Descriptor{
//	    Kind:    compiler.Insert,
//	    Table:   `"USERS"`,
//	    Columns: []string{"ID", "NAME"},
//	    Values:  []string{"1", "'Bob'"},
//	})
//
// # Errors
//
// ErrInvalidDescriptor is the only error kind a descriptor itself can cause.
// Introspector failures are returned wrapped in an IntrospectionError whose
// Unwrap yields the collaborator's original error. Misconfiguration is
// reported by compiler.ConfigError and policy rejections by
// compiler.PolicyError.
package stmtc
