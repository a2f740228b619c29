package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/stmtc/compiler"
	"github.com/syssam/stmtc/policy"
)

func TestPolicyConfig_Build(t *testing.T) {
	p, err := PolicyConfig{}.Build()
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = PolicyConfig{
		DenyKinds:    []string{"truncate", "replace"},
		DenyTables:   []string{"audit_log"},
		RequireWhere: true,
		MaxLimit:     100,
	}.Build()
	require.NoError(t, err)
	assert.Len(t, p, 4)

	ctx := context.Background()
	tests := []struct {
		d    *compiler.Descriptor
		deny bool
	}{
		{&compiler.Descriptor{Kind: compiler.Truncate, Table: "t"}, true},
		{&compiler.Descriptor{Kind: compiler.Upsert, Table: "t"}, true},
		{&compiler.Descriptor{Kind: compiler.Insert, Table: "AUDIT_LOG"}, true},
		{&compiler.Descriptor{Kind: compiler.Delete, Table: "t"}, true},
		{&compiler.Descriptor{Kind: compiler.Select, Limit: 500}, true},
		{&compiler.Descriptor{Kind: compiler.Delete, Table: "t", Where: "id = 1", Limit: 10}, false},
		{&compiler.Descriptor{Kind: compiler.Insert, Table: "t"}, false},
	}
	for _, tt := range tests {
		err := p.EvalDescriptor(ctx, tt.d)
		if tt.deny {
			assert.ErrorIs(t, err, policy.Deny, "%s %s", tt.d.Kind, tt.d.Table)
		} else {
			assert.NoError(t, err, "%s %s", tt.d.Kind, tt.d.Table)
		}
	}

	_, err = PolicyConfig{DenyKinds: []string{"merge"}}.Build()
	assert.Error(t, err)
	_, err = PolicyConfig{MaxLimit: -1}.Build()
	assert.Error(t, err)
}

func TestLoadConfig_Policy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stmtc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
policy:
  deny_kinds: [truncate]
  require_where: true
  max_limit: 1000
`), 0o644))

	cfg, _, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"truncate"}, cfg.Policy.DenyKinds)
	assert.True(t, cfg.Policy.RequireWhere)
	assert.Equal(t, 1000, cfg.Policy.MaxLimit)
	assert.Empty(t, cfg.Policy.DenyTables)
}
