package cli

import (
	"fmt"

	"github.com/syssam/stmtc/compiler"
	"github.com/syssam/stmtc/policy"
)

// PolicyConfig restricts the descriptors "stmtc compile" accepts.
type PolicyConfig struct {
	// DenyKinds lists statement kinds that are rejected, e.g. "truncate".
	DenyKinds []string `mapstructure:"deny_kinds"`
	// DenyTables lists tables that must not be written to.
	DenyTables []string `mapstructure:"deny_tables"`
	// RequireWhere rejects updates and deletes without a WHERE fragment.
	RequireWhere bool `mapstructure:"require_where"`
	// MaxLimit rejects row limits above it. Zero disables the check.
	MaxLimit int `mapstructure:"max_limit"`
}

// Build returns the configured rule chain, or nil if nothing is restricted.
func (c PolicyConfig) Build() (policy.Policy, error) {
	var p policy.Policy
	if len(c.DenyKinds) > 0 {
		kinds := make([]compiler.Kind, len(c.DenyKinds))
		for i, name := range c.DenyKinds {
			if err := kinds[i].UnmarshalText([]byte(name)); err != nil {
				return nil, fmt.Errorf("policy.deny_kinds: %w", err)
			}
		}
		p = append(p, policy.DenyKindsRule(kinds...))
	}
	if len(c.DenyTables) > 0 {
		p = append(p, policy.DenyTablesRule(c.DenyTables...))
	}
	if c.RequireWhere {
		p = append(p, policy.RequireWhereRule())
	}
	switch {
	case c.MaxLimit < 0:
		return nil, fmt.Errorf("policy.max_limit: must not be negative")
	case c.MaxLimit > 0:
		p = append(p, policy.MaxLimitRule(c.MaxLimit))
	}
	return p, nil
}
