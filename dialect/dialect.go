package dialect

import (
	"context"
)

// Dialect names for supported database engines.
const (
	Oracle   = "oracle"
	Postgres = "postgres"
	MySQL    = "mysql"
	SQLite   = "sqlite"
)

// ExecQuerier wraps the two database operations the introspection layer needs.
type ExecQuerier interface {
	// Exec executes a statement. v, when non-nil, receives the driver result.
	Exec(ctx context.Context, query string, args, v any) error
	// Query executes a query and scans the rows handle into v.
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the interface that wraps all necessary operations for a
// database connection used by catalog introspection and by running
// compiled statements.
type Driver interface {
	ExecQuerier
	// Tx starts and returns a new transaction.
	Tx(context.Context) (Tx, error)
	// Close closes the underlying connection.
	Close() error
	// Dialect returns the dialect name of the driver.
	Dialect() string
}

// Tx wraps the Exec and Query operations in a transaction.
type Tx interface {
	ExecQuerier
	Commit() error
	Rollback() error
}
