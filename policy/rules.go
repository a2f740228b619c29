package policy

import (
	"context"
	"slices"
	"strings"

	"github.com/syssam/stmtc/compiler"
)

// DenyKindsRule returns a rule denying descriptors of the given kinds.
//
// Example:
//
//	policy.Policy{
//	    policy.DenyKindsRule(compiler.Truncate),
//	}
func DenyKindsRule(kinds ...compiler.Kind) Rule {
	rule := RuleFunc(func(_ context.Context, d *compiler.Descriptor) error {
		return Denyf("stmtc/policy: %s statements are not allowed", d.Kind)
	})
	return OnKinds(rule, kinds...)
}

// AllowKindsRule returns a rule allowing descriptors of the given kinds.
// Combine it with AlwaysDenyRule to allow nothing else.
func AllowKindsRule(kinds ...compiler.Kind) Rule {
	rule := RuleFunc(func(context.Context, *compiler.Descriptor) error {
		return Allow
	})
	return OnKinds(rule, kinds...)
}

// RequireWhereRule returns a rule denying updates and deletes without a
// WHERE fragment, which would touch every row of the table.
func RequireWhereRule() Rule {
	rule := RuleFunc(func(_ context.Context, d *compiler.Descriptor) error {
		if strings.TrimSpace(d.Where) == "" {
			return Denyf("stmtc/policy: %s on %s has no WHERE", d.Kind, d.Table)
		}
		return Skip
	})
	return OnKinds(rule, compiler.Update, compiler.Delete)
}

// MaxLimitRule returns a rule denying selects, updates and deletes whose
// row limit exceeds n. Descriptors without a limit are not checked.
func MaxLimitRule(n int) Rule {
	rule := RuleFunc(func(_ context.Context, d *compiler.Descriptor) error {
		if d.Limit > n {
			return Denyf("stmtc/policy: limit %d exceeds %d", d.Limit, n)
		}
		return Skip
	})
	return OnKinds(rule, compiler.Select, compiler.Update, compiler.Delete)
}

// DenyTablesRule returns a rule denying writes to the given tables. Names
// are compared case-insensitively, ignoring identifier quotes.
func DenyTablesRule(tables ...string) Rule {
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = bareName(t)
	}
	return RuleFunc(func(_ context.Context, d *compiler.Descriptor) error {
		if d.Kind == compiler.Select {
			return Skip
		}
		table := bareName(d.Table)
		if slices.ContainsFunc(names, func(n string) bool { return strings.EqualFold(n, table) }) {
			return Denyf("stmtc/policy: writes to %s are not allowed", d.Table)
		}
		return Skip
	})
}

func bareName(s string) string {
	return strings.Trim(strings.TrimSpace(s), "\"`[]")
}
