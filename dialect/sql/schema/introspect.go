package schema

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Introspector returns the indexes defined on a table. Table names are
// passed without identifier quotes; a qualified name keeps its owner or
// schema before the last dot ("HR.USERS"). Implementations must be safe for
// concurrent use; returned slices must not be modified by callers.
type Introspector interface {
	Indexes(ctx context.Context, table string) ([]*Index, error)
}

// The IntrospectorFunc type is an adapter to allow the use of ordinary
// functions as Introspector.
type IntrospectorFunc func(ctx context.Context, table string) ([]*Index, error)

// Indexes calls f(ctx, table).
func (f IntrospectorFunc) Indexes(ctx context.Context, table string) ([]*Index, error) {
	return f(ctx, table)
}

// Static is an Introspector over pre-fetched metadata, keyed by table name.
// Callers that must not block during compilation fetch metadata ahead of
// time (see Prefetch) and compile against a Static.
type Static map[string][]*Index

// Indexes returns the pre-fetched indexes of the table.
func (s Static) Indexes(_ context.Context, table string) ([]*Index, error) {
	idx, ok := s[table]
	if !ok {
		return nil, &NotFoundError{Table: table}
	}
	return idx, nil
}

// NotFoundError is returned when an introspector does not know a table.
type NotFoundError struct {
	Table string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("schema: table %q not found", e.Table)
}

// IsNotFound reports if err is a NotFoundError.
func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

var (
	_ Introspector = IntrospectorFunc(nil)
	_ Introspector = Static(nil)
)

// splitTable separates the owner or schema prefix of a qualified table name.
func splitTable(table string) (qualifier, name string) {
	if i := strings.LastIndexByte(table, '.'); i > 0 {
		return table[:i], table[i+1:]
	}
	return "", table
}
