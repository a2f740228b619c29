package schema

import (
	"context"
	stdsql "database/sql"
	"testing"

	atlas "ariga.io/atlas/sql/schema"

	"github.com/syssam/stmtc/dialect"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestAtlasInspector_SQLite(t *testing.T) {
	db, err := stdsql.Open("sqlite", "file:atlas?mode=memory")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		"CREATE TABLE `users` (`id` integer NOT NULL PRIMARY KEY, `email` text NOT NULL, `tenant` integer, `code` text)",
		"CREATE UNIQUE INDEX `users_email` ON `users` (`email`)",
		"CREATE UNIQUE INDEX `users_tenant_code` ON `users` (`tenant`, `code`)",
		"CREATE INDEX `users_code` ON `users` (`code`)",
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	in, err := OpenAtlas(dialect.SQLite, db, "")
	require.NoError(t, err)
	got, err := in.Indexes(context.Background(), "users")
	require.NoError(t, err)

	byName := make(map[string]*Index)
	for _, idx := range got {
		byName[idx.Name] = idx
	}
	require.NotEmpty(t, got)
	assert.Equal(t, Primary, got[0].Type)
	assert.Equal(t, []string{"id"}, got[0].Fields)
	require.Contains(t, byName, "users_email")
	assert.Equal(t, Unique, byName["users_email"].Type)
	require.Contains(t, byName, "users_tenant_code")
	assert.Equal(t, []string{"tenant", "code"}, byName["users_tenant_code"].Fields)
	require.Contains(t, byName, "users_code")
	assert.Equal(t, Plain, byName["users_code"].Type)

	_, err = in.Indexes(context.Background(), "missing")
	require.Error(t, err)
}

func TestAtlasInspector_SQLiteExpressionIndex(t *testing.T) {
	db, err := stdsql.Open("sqlite", "file:atlas_expr?mode=memory")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		"CREATE TABLE `t` (`id` integer NOT NULL PRIMARY KEY, `tenant` integer NOT NULL, `email` text NOT NULL)",
		"CREATE UNIQUE INDEX `t_tenant_email` ON `t` (`tenant`, lower(`email`))",
		"CREATE UNIQUE INDEX `t_tenant_id` ON `t` (`tenant`, `id`)",
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	in, err := OpenAtlas(dialect.SQLite, db, "")
	require.NoError(t, err)
	got, err := in.Indexes(context.Background(), "t")
	require.NoError(t, err)

	names := make([]string, 0, len(got))
	for _, idx := range got {
		names = append(names, idx.Name)
		assert.NotEqual(t, []string{"tenant"}, idx.Fields, "index %s", idx.Name)
	}
	assert.NotContains(t, names, "t_tenant_email")
	assert.Contains(t, names, "t_tenant_id")
}

func TestPartColumns(t *testing.T) {
	cols, ok := partColumns([]*atlas.IndexPart{{C: &atlas.Column{Name: "a"}}, {C: &atlas.Column{Name: "b"}}})
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, cols)

	_, ok = partColumns([]*atlas.IndexPart{{C: &atlas.Column{Name: "a"}}, {X: &atlas.RawExpr{X: "lower(email)"}}})
	assert.False(t, ok)
}

func TestOpenAtlas_Unsupported(t *testing.T) {
	_, err := OpenAtlas(dialect.Oracle, nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no atlas inspector")
}
