// Package sql provides the database/sql driver used to read catalog
// metadata and the server version.
//
// The statement compiler itself never touches a connection. Index metadata
// (dialect/sql/schema) and the version string fed to dialect.Gate are the
// only things read from the database, and both go through this package:
//
//	drv, err := sql.Open("godror", dsn)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//
//	v, err := drv.ServerVersion(ctx) // e.g. "19.0.0.0.0"
//	c, err := compiler.New(
//	    compiler.WithDialect(drv.Dialect()),
//	    compiler.WithServerVersion(v),
//	    compiler.WithIntrospector(schema.NewOracleInspector(drv, "")),
//	)
package sql
