package policy_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/stmtc/compiler"
	"github.com/syssam/stmtc/dialect"
	"github.com/syssam/stmtc/policy"
)

func TestDecisionErrors(t *testing.T) {
	tests := []struct {
		name     string
		decision error
		want     error
	}{
		{"allowf", policy.Allowf("ok %d", 1), policy.Allow},
		{"denyf", policy.Denyf("no %s", "way"), policy.Deny},
		{"skipf", policy.Skipf("pass"), policy.Skip},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.decision, tt.want)
		})
	}
	assert.Equal(t, "no way: stmtc/policy: deny rule", policy.Denyf("no %s", "way").Error())
}

func TestPolicy_EvalDescriptor(t *testing.T) {
	ctx := context.Background()
	d := &compiler.Descriptor{Kind: compiler.Delete, Table: "t"}
	custom := errors.New("custom")

	tests := []struct {
		name string
		p    policy.Policy
		want error
	}{
		{"empty", nil, nil},
		{"all skip", policy.Policy{policy.ContextRule(func(context.Context) error { return nil })}, nil},
		{"allow stops", policy.Policy{policy.AlwaysAllowRule(), policy.AlwaysDenyRule()}, nil},
		{"deny stops", policy.Policy{policy.AlwaysDenyRule(), policy.AlwaysAllowRule()}, policy.Deny},
		{"custom error", policy.Policy{policy.RuleFunc(func(context.Context, *compiler.Descriptor) error { return custom })}, custom},
		{"skip then deny", policy.Policy{policy.OnKinds(policy.AlwaysAllowRule(), compiler.Insert), policy.AlwaysDenyRule()}, policy.Deny},
		{"kind match", policy.Policy{policy.OnKinds(policy.AlwaysAllowRule(), compiler.Delete), policy.AlwaysDenyRule()}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.EvalDescriptor(ctx, d)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecisionContext(t *testing.T) {
	p := policy.Policy{policy.AlwaysDenyRule()}
	d := &compiler.Descriptor{Kind: compiler.Truncate, Table: "t"}

	ctx := policy.DecisionContext(context.Background(), policy.Allow)
	assert.NoError(t, p.EvalDescriptor(ctx, d))

	ctx = policy.DecisionContext(context.Background(), policy.Skip)
	_, ok := policy.DecisionFromContext(ctx)
	assert.False(t, ok)
	assert.ErrorIs(t, p.EvalDescriptor(ctx, d), policy.Deny)

	ctx = policy.DecisionContext(context.Background(), policy.Denyf("maintenance"))
	assert.ErrorIs(t, policy.Policy{policy.AlwaysAllowRule()}.EvalDescriptor(ctx, d), policy.Deny)
}

func TestRules(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		rule policy.Rule
		d    *compiler.Descriptor
		want error
	}{
		{"deny kind", policy.DenyKindsRule(compiler.Truncate), &compiler.Descriptor{Kind: compiler.Truncate, Table: "t"}, policy.Deny},
		{"deny other kind", policy.DenyKindsRule(compiler.Truncate), &compiler.Descriptor{Kind: compiler.Delete, Table: "t"}, policy.Skip},
		{"allow kind", policy.AllowKindsRule(compiler.Select), &compiler.Descriptor{Kind: compiler.Select}, policy.Allow},
		{"where missing", policy.RequireWhereRule(), &compiler.Descriptor{Kind: compiler.Delete, Table: "t"}, policy.Deny},
		{"where blank", policy.RequireWhereRule(), &compiler.Descriptor{Kind: compiler.Update, Table: "t", Where: "  "}, policy.Deny},
		{"where present", policy.RequireWhereRule(), &compiler.Descriptor{Kind: compiler.Delete, Table: "t", Where: "id = 1"}, policy.Skip},
		{"where on insert", policy.RequireWhereRule(), &compiler.Descriptor{Kind: compiler.Insert, Table: "t"}, policy.Skip},
		{"limit exceeded", policy.MaxLimitRule(100), &compiler.Descriptor{Kind: compiler.Select, Limit: 101}, policy.Deny},
		{"limit ok", policy.MaxLimitRule(100), &compiler.Descriptor{Kind: compiler.Delete, Limit: 100}, policy.Skip},
		{"no limit", policy.MaxLimitRule(100), &compiler.Descriptor{Kind: compiler.Update}, policy.Skip},
		{"table denied", policy.DenyTablesRule("AUDIT_LOG"), &compiler.Descriptor{Kind: compiler.Delete, Table: `"audit_log"`}, policy.Deny},
		{"table backticks", policy.DenyTablesRule("`audit_log`"), &compiler.Descriptor{Kind: compiler.Insert, Table: "AUDIT_LOG"}, policy.Deny},
		{"table select", policy.DenyTablesRule("audit_log"), &compiler.Descriptor{Kind: compiler.Select, Table: "audit_log"}, policy.Skip},
		{"other table", policy.DenyTablesRule("audit_log"), &compiler.Descriptor{Kind: compiler.Delete, Table: "users"}, policy.Skip},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.rule.EvalDescriptor(ctx, tt.d), tt.want)
		})
	}
}

func TestCompilerWithPolicy(t *testing.T) {
	c, err := compiler.New(
		compiler.WithDialect(dialect.Postgres),
		compiler.WithPolicy(policy.Policy{
			policy.DenyKindsRule(compiler.Truncate),
			policy.RequireWhereRule(),
		}),
	)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = c.Truncate(ctx, &compiler.Descriptor{Table: `"events"`})
	require.Error(t, err)
	assert.ErrorIs(t, err, policy.Deny)
	assert.True(t, compiler.IsPolicyError(err))

	_, err = c.Delete(ctx, &compiler.Descriptor{Table: `"events"`}, 10)
	assert.ErrorIs(t, err, policy.Deny)

	r, err := c.Delete(ctx, &compiler.Descriptor{Table: `"events"`, Where: `"id" = 1`}, 0)
	require.NoError(t, err)
	assert.Equal(t, `DELETE FROM "events" WHERE "id" = 1`, r.SQL)

	r, err = c.Truncate(policy.DecisionContext(ctx, policy.Allow), &compiler.Descriptor{Table: `"events"`})
	require.NoError(t, err)
	assert.Equal(t, `TRUNCATE TABLE "events"`, r.SQL)
}
