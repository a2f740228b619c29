package compiler

import (
	"context"
	"strconv"

	"github.com/syssam/stmtc"
	"github.com/syssam/stmtc/dialect"
)

// Update compiles an UPDATE. A limit on a dialect without row-limited writes
// becomes an extra WHERE conjunct, reported in RowLimitPredicate.
func (c *Compiler) Update(ctx context.Context, d *Descriptor) (*Result, error) {
	d, err := c.prepare(ctx, d, Update)
	if err != nil {
		return nil, err
	}
	r := &Result{}
	b := newBuilder(c.caps)
	b.WriteString("UPDATE ")
	if d.IgnoreOnConflict {
		if c.caps.UpdateIgnore != "" {
			b.WriteString(c.caps.UpdateIgnore).Byte(' ')
		} else {
			r.SuppressConstraintErrors = true
		}
	}
	b.WriteString(d.Table).WriteString(" SET ").Join(len(d.Assignments), ", ", func(i int) {
		b.Ident(d.Assignments[i].Column).WriteString(" = ").WriteString(d.Assignments[i].Value)
	})
	branch, err := c.writeFilter(b, d, d.Limit, r)
	if err != nil {
		return nil, err
	}
	r.SQL = b.String()
	c.logCompiled(ctx, d, branch)
	return r, nil
}

// Delete compiles a DELETE. A positive limit overrides the descriptor's
// limit for this call; zero or a negative limit leaves it unchanged.
func (c *Compiler) Delete(ctx context.Context, d *Descriptor, limit int) (*Result, error) {
	if limit > 0 && d != nil {
		cp := *d
		cp.Limit = limit
		d = &cp
	}
	d, err := c.prepare(ctx, d, Delete)
	if err != nil {
		return nil, err
	}
	r := &Result{}
	b := newBuilder(c.caps)
	b.WriteString("DELETE FROM ").WriteString(d.Table)
	branch, err := c.writeFilter(b, d, d.Limit, r)
	if err != nil {
		return nil, err
	}
	r.SQL = b.String()
	c.logCompiled(ctx, d, branch)
	return r, nil
}

// writeFilter writes the WHERE, ORDER BY and LIMIT of an UPDATE or DELETE.
// ORDER BY is dropped by dialects that reject it on writes; it still orders
// the rows a synthesized row-limit predicate selects.
func (c *Compiler) writeFilter(b *builder, d *Descriptor, limit int, r *Result) (string, error) {
	where, orderBy := fragment(d.Where, "WHERE"), fragment(d.OrderBy, "ORDER BY")
	branch := "unlimited"
	native := limit > 0 && c.caps.RowLimitedWrites
	if limit > 0 && !native {
		if c.tr.rowLimit == nil {
			return "", stmtc.NewDescriptorError(d.Kind.String(), "Limit",
				"dialect "+c.caps.Name+" cannot limit the rows of a write")
		}
		branch = "row-limit-predicate"
		r.RowLimitPredicate = c.tr.rowLimit(c.caps, d.Table, where, orderBy, limit)
		where = conjoin(where, r.RowLimitPredicate)
	}
	if where != "" {
		b.WriteString(" WHERE ").WriteString(where)
	}
	if orderBy != "" && c.caps.OrderedWrites {
		b.WriteString(" ORDER BY ").WriteString(orderBy)
	}
	if native {
		branch = "native-limit"
		b.WriteString(" LIMIT ").Int(limit)
	}
	return branch, nil
}

// rownumLimit bounds the write by the row counter.
func rownumLimit(_ *dialect.Capabilities, _, _, _ string, limit int) string {
	return "rownum <= " + strconv.Itoa(limit)
}

// identityLimit selects the physical identities of the first limit rows.
func identityLimit(caps *dialect.Capabilities, table, where, orderBy string, limit int) string {
	b := newBuilder(caps)
	id := caps.RowIdentity
	b.WriteString(id).WriteString(" IN ").Wrap(func(b *builder) {
		b.WriteString("SELECT ").WriteString(id).WriteString(" FROM ").WriteString(table)
		if where != "" {
			b.WriteString(" WHERE ").WriteString(where)
		}
		if orderBy != "" {
			b.WriteString(" ORDER BY ").WriteString(orderBy)
		}
		b.WriteString(" LIMIT ").Int(limit)
	})
	return b.String()
}

// Truncate compiles TRUNCATE TABLE. Dialects without it fail with an
// invalid descriptor error; callers consult Capabilities().SupportsTruncate
// and issue an unconditional DELETE instead.
func (c *Compiler) Truncate(ctx context.Context, d *Descriptor) (*Result, error) {
	d, err := c.prepare(ctx, d, Truncate)
	if err != nil {
		return nil, err
	}
	if !c.caps.SupportsTruncate {
		return nil, stmtc.NewDescriptorError(d.Kind.String(), "Kind",
			"dialect "+c.caps.Name+" has no TRUNCATE; issue an unconditional DELETE")
	}
	r := &Result{SQL: "TRUNCATE TABLE " + d.Table}
	c.logCompiled(ctx, d, "truncate")
	return r, nil
}
