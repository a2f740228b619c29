package compiler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/syssam/stmtc"
	"github.com/syssam/stmtc/dialect"
	"github.com/syssam/stmtc/dialect/sql/schema"
)

// Compiler translates descriptors into SQL for one dialect. A Compiler holds
// no mutable state and is safe for concurrent use.
type Compiler struct {
	caps *dialect.Capabilities
	gate *dialect.Gate
	in   schema.Introspector
	pol  Policy
	log  *slog.Logger
	tr   *translator
}

// New returns a compiler configured by the options. A dialect, given by
// WithDialect or WithCapabilities, is required.
func New(opts ...Option) (*Compiler, error) {
	cfg := &Config{}
	var errs []error
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if cfg.Capabilities == nil {
		return nil, NewConfigError("Dialect", nil, "a dialect is required")
	}
	gate, err := dialect.NewGate(cfg.Capabilities, cfg.ServerVersion)
	if err != nil {
		return nil, NewConfigError("ServerVersion", cfg.ServerVersion, err.Error())
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Compiler{
		caps: cfg.Capabilities,
		gate: gate,
		in:   cfg.Introspector,
		pol:  cfg.Policy,
		log:  logger,
		tr:   translatorFor(cfg.Capabilities),
	}, nil
}

// Capabilities returns a copy of the target dialect's capabilities.
func (c *Compiler) Capabilities() *dialect.Capabilities {
	return c.caps.Clone()
}

// Gate returns the version gate the compiler resolves syntax branches with.
func (c *Compiler) Gate() *dialect.Gate {
	return c.gate
}

// Compile translates the descriptor according to its kind.
func (c *Compiler) Compile(ctx context.Context, d *Descriptor) (*Result, error) {
	if d == nil {
		return nil, stmtc.NewDescriptorError("", "", "nil descriptor")
	}
	switch d.Kind {
	case Insert:
		return c.Insert(ctx, d)
	case BatchInsert:
		return c.BatchInsert(ctx, d)
	case Upsert:
		return c.Upsert(ctx, d)
	case Update:
		return c.Update(ctx, d)
	case Delete:
		return c.Delete(ctx, d, 0)
	case Truncate:
		return c.Truncate(ctx, d)
	case Select:
		return c.Paginate(ctx, d)
	default:
		return nil, d.Validate()
	}
}

// prepare validates a copy of d for the given kind and submits it to the
// policy. A descriptor without a kind takes the kind of the entry point it is
// passed to.
func (c *Compiler) prepare(ctx context.Context, d *Descriptor, kind Kind) (*Descriptor, error) {
	if d == nil {
		return nil, stmtc.NewDescriptorError(kind.String(), "", "nil descriptor")
	}
	cp := *d
	switch {
	case cp.Kind == 0:
		cp.Kind = kind
	case cp.Kind != kind:
		return nil, stmtc.NewDescriptorError(kind.String(), "Kind",
			fmt.Sprintf("%s descriptor passed to %s", cp.Kind, kind))
	}
	if err := cp.Validate(); err != nil {
		return nil, err
	}
	if c.pol != nil {
		if err := c.pol.EvalDescriptor(ctx, &cp); err != nil {
			return nil, &PolicyError{Kind: cp.Kind, Table: cp.Table, Err: err}
		}
	}
	return &cp, nil
}

// indexes loads the index metadata of the descriptor's table.
func (c *Compiler) indexes(ctx context.Context, d *Descriptor) ([]*schema.Index, error) {
	if c.in == nil {
		return nil, NewConfigError("Introspector", nil,
			fmt.Sprintf("index metadata is required to compile %s for %s", d.Kind, c.caps.Name))
	}
	table := strings.Join(c.caps.Parts(d.Table), ".")
	indexes, err := c.in.Indexes(ctx, table)
	if err != nil {
		return nil, stmtc.NewIntrospectionError(table, err)
	}
	return indexes, nil
}

func (c *Compiler) logCompiled(ctx context.Context, d *Descriptor, branch string) {
	c.log.DebugContext(ctx, "compiled statement",
		"dialect", c.caps.Name,
		"kind", d.Kind.String(),
		"table", d.Table,
		"branch", branch,
	)
}

// fragment strips the optional leading keyword from an opaque clause. The
// keyword matches case-insensitively when followed by whitespace or an
// opening parenthesis, with any whitespace run between its words. A bare
// keyword is returned as is.
func fragment(s, keyword string) string {
	s = strings.TrimSpace(s)
	rest := s
	for i, word := range strings.Fields(keyword) {
		if i > 0 {
			trimmed := strings.TrimLeftFunc(rest, unicode.IsSpace)
			if len(trimmed) == len(rest) {
				return s
			}
			rest = trimmed
		}
		if len(rest) <= len(word) || !strings.EqualFold(rest[:len(word)], word) {
			return s
		}
		rest = rest[len(word):]
		if r, _ := utf8.DecodeRuneInString(rest); r != '(' && !unicode.IsSpace(r) {
			return s
		}
	}
	return strings.TrimSpace(rest)
}

// conjoin adds pred to the where fragment.
func conjoin(where, pred string) string {
	if where == "" {
		return pred
	}
	return "(" + where + ") AND " + pred
}
