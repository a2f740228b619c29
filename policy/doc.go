// Package policy provides rule chains that decide which statement
// descriptors a compiler accepts.
//
// A Policy is passed to compiler.WithPolicy and evaluated with every valid
// descriptor before it is compiled:
//
//	p := policy.Policy{
//	    policy.DenyKindsRule(compiler.Truncate),
//	    policy.RequireWhereRule(),
//	    policy.MaxLimitRule(10_000),
//	}
//	c, err := compiler.New(compiler.WithDialect("oracle"), compiler.WithPolicy(p))
//
// # Rule Evaluation
//
// Rules are evaluated in order until one returns a final decision:
//
//   - Allow: accepts the descriptor and stops evaluation
//   - Deny (or any other error): rejects it and stops evaluation
//   - Skip or nil: continues with the next rule
//
// A descriptor no rule decides on is accepted. End the chain with
// AlwaysDenyRule for an allow-list.
//
// A decision attached to the context with DecisionContext overrides the
// rules, e.g. to let a migration tool bypass them.
package policy
