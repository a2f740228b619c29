// Package dialect describes the target databases the statement compiler
// emits SQL for.
//
// # Supported Dialects
//
//	dialect.Oracle   = "oracle"
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//
// # Capability Table
//
// Every dialect is described by an immutable Capabilities record: the
// identifier quote character, the paging syntax and the first server version
// supporting it, MERGE and TRUNCATE availability, row-limited writes and the
// multi-row INSERT style.
//
//	caps, err := dialect.Lookup(dialect.Oracle)
//	if !caps.SupportsTruncate {
//	    // issue an unconditional DELETE instead
//	}
//
// Custom dialects are added with Register.
//
// # Version Gate
//
// Some syntax depends on the connected server version. A Gate resolves those
// branches from the version string reported by the connection layer:
//
//	g, _ := dialect.NewGate(caps, "Oracle Database 11g Release 11.2.0.4.0")
//	g.NativePagination() // false: ROWNUM emulation
//
// # Driver Interface
//
// Driver, Tx and ExecQuerier are the connection contracts used by catalog
// introspection (see dialect/sql and dialect/sql/schema).
package dialect
