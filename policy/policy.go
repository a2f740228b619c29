package policy

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/syssam/stmtc/compiler"
)

// Policy decision sentinel errors.
//
// Rules return these to steer evaluation. Use errors.Is() to check for
// them:
//
//	if errors.Is(err, policy.Deny) { ... }
var (
	// Allow may be returned by rules to indicate that the policy
	// evaluation should terminate with an allow decision.
	Allow = errors.New("stmtc/policy: allow rule")

	// Deny may be returned by rules to indicate that the policy
	// evaluation should terminate with a deny decision.
	Deny = errors.New("stmtc/policy: deny rule")

	// Skip may be returned by rules to indicate that the policy
	// evaluation should continue to the next rule in the chain.
	Skip = errors.New("stmtc/policy: skip rule")
)

// Allowf returns a formatted wrapped Allow decision.
func Allowf(format string, a ...any) error {
	return fmt.Errorf(format+": %w", append(a, Allow)...)
}

// Denyf returns a formatted wrapped Deny decision.
func Denyf(format string, a ...any) error {
	return fmt.Errorf(format+": %w", append(a, Deny)...)
}

// Skipf returns a formatted wrapped Skip decision.
func Skipf(format string, a ...any) error {
	return fmt.Errorf(format+": %w", append(a, Skip)...)
}

// Rule decides on a single descriptor.
type Rule interface {
	EvalDescriptor(context.Context, *compiler.Descriptor) error
}

// RuleFunc type is an adapter which allows the use of
// ordinary functions as rules.
type RuleFunc func(context.Context, *compiler.Descriptor) error

// EvalDescriptor returns f(ctx, d).
func (f RuleFunc) EvalDescriptor(ctx context.Context, d *compiler.Descriptor) error {
	return f(ctx, d)
}

// Policy combines multiple rules into a single compiler.Policy.
type Policy []Rule

var _ compiler.Policy = Policy(nil)

// EvalDescriptor evaluates the rules in order. If the Allow error is
// returned by one of them, it stops the evaluation with a nil error.
func (p Policy) EvalDescriptor(ctx context.Context, d *compiler.Descriptor) error {
	if decision, ok := DecisionFromContext(ctx); ok {
		return decision
	}
	for _, rule := range p {
		switch decision := rule.EvalDescriptor(ctx, d); {
		case decision == nil || errors.Is(decision, Skip):
		case errors.Is(decision, Allow):
			return nil
		default:
			return decision
		}
	}
	return nil
}

// AlwaysAllowRule returns a rule that always returns an Allow decision.
func AlwaysAllowRule() Rule {
	return fixedDecision{Allow}
}

// AlwaysDenyRule returns a rule that always returns a Deny decision.
func AlwaysDenyRule() Rule {
	return fixedDecision{Deny}
}

// ContextRule creates a rule from a context evaluation function.
// Returning nil is equivalent to returning Skip.
func ContextRule(eval func(context.Context) error) Rule {
	return RuleFunc(func(ctx context.Context, _ *compiler.Descriptor) error {
		return eval(ctx)
	})
}

// OnKinds evaluates the given rule only on descriptors of the given kinds.
func OnKinds(rule Rule, kinds ...compiler.Kind) Rule {
	return RuleFunc(func(ctx context.Context, d *compiler.Descriptor) error {
		if slices.Contains(kinds, d.Kind) {
			return rule.EvalDescriptor(ctx, d)
		}
		return Skip
	})
}

type decisionCtxKey struct{}

// DecisionContext creates a new context from the given parent context with
// a policy decision attached to it.
func DecisionContext(parent context.Context, decision error) context.Context {
	if decision == nil || errors.Is(decision, Skip) {
		return parent
	}
	return context.WithValue(parent, decisionCtxKey{}, decision)
}

// DecisionFromContext retrieves the policy decision from the context.
func DecisionFromContext(ctx context.Context) (error, bool) {
	decision, ok := ctx.Value(decisionCtxKey{}).(error)
	if ok && errors.Is(decision, Allow) {
		decision = nil
	}
	return decision, ok
}

type fixedDecision struct {
	decision error
}

func (f fixedDecision) EvalDescriptor(context.Context, *compiler.Descriptor) error {
	return f.decision
}
