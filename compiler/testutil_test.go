package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/stmtc/dialect/sql/schema"
)

// newTestCompiler returns a compiler for the dialect and server version,
// reading index metadata from idx when it is not nil.
func newTestCompiler(t *testing.T, name, version string, idx schema.Static) *Compiler {
	t.Helper()
	opts := []Option{WithDialect(name), WithServerVersion(version)}
	if idx != nil {
		opts = append(opts, WithIntrospector(idx))
	}
	c, err := New(opts...)
	require.NoError(t, err)
	return c
}

func primary(fields ...string) *schema.Index {
	return &schema.Index{Name: "PK", Type: schema.Primary, Fields: fields}
}

func unique(name string, fields ...string) *schema.Index {
	return &schema.Index{Name: name, Type: schema.Unique, Fields: fields}
}

func plain(name string, fields ...string) *schema.Index {
	return &schema.Index{Name: name, Type: schema.Plain, Fields: fields}
}
