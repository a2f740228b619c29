package compiler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/syssam/stmtc/dialect"
	"github.com/syssam/stmtc/dialect/sql/schema"
)

// Config holds the compiler configuration.
type Config struct {
	// Capabilities describes the target dialect.
	Capabilities *dialect.Capabilities
	// ServerVersion is the connected server's version string. Empty means
	// unknown; version-gated syntax then takes its legacy branch.
	ServerVersion string
	// Introspector supplies index metadata for upserts and emulated batch
	// inserts.
	Introspector schema.Introspector
	// Policy is consulted with every valid descriptor before it is compiled.
	Policy Policy
	// Logger receives a debug record per compiled statement.
	Logger *slog.Logger
}

// Policy decides whether a descriptor may be compiled. A nil error permits
// it; any other error rejects it.
type Policy interface {
	EvalDescriptor(ctx context.Context, d *Descriptor) error
}

// PolicyFunc adapts an ordinary function to a Policy.
type PolicyFunc func(ctx context.Context, d *Descriptor) error

// EvalDescriptor returns f(ctx, d).
func (f PolicyFunc) EvalDescriptor(ctx context.Context, d *Descriptor) error {
	return f(ctx, d)
}

// Option configures the compiler.
type Option func(*Config) error

// WithDialect selects a registered dialect by name.
func WithDialect(name string) Option {
	return func(c *Config) error {
		caps, err := dialect.Lookup(name)
		if err != nil {
			return NewConfigError("Dialect", name, "unsupported dialect; use one of "+strings.Join(dialect.Names(), ", "))
		}
		c.Capabilities = caps
		return nil
	}
}

// WithCapabilities sets the dialect capabilities directly, for dialects that
// are not registered.
func WithCapabilities(caps *dialect.Capabilities) Option {
	return func(c *Config) error {
		switch {
		case caps == nil:
			return NewConfigError("Capabilities", nil, "capabilities cannot be nil")
		case caps.Name == "":
			return NewConfigError("Capabilities", nil, "dialect name cannot be empty")
		case caps.QuoteChar == 0:
			return NewConfigError("Capabilities", caps.Name, "identifier quote character is required")
		}
		c.Capabilities = caps.Clone()
		return nil
	}
}

// WithServerVersion sets the server version used by the version gate.
// Banners such as "PostgreSQL 15.4 on x86_64" are accepted.
func WithServerVersion(v string) Option {
	return func(c *Config) error {
		if v != "" {
			if _, err := dialect.ParseVersion(v); err != nil {
				return NewConfigError("ServerVersion", v, err.Error())
			}
		}
		c.ServerVersion = v
		return nil
	}
}

// WithIntrospector sets the index metadata source.
func WithIntrospector(in schema.Introspector) Option {
	return func(c *Config) error {
		if in == nil {
			return NewConfigError("Introspector", nil, "introspector cannot be nil")
		}
		c.Introspector = in
		return nil
	}
}

// WithPolicy sets the policy descriptors are checked against.
func WithPolicy(p Policy) Option {
	return func(c *Config) error {
		if p == nil {
			return NewConfigError("Policy", nil, "policy cannot be nil")
		}
		c.Policy = p
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}
