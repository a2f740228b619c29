package compiler

import (
	"context"

	"github.com/syssam/stmtc/dialect"
	"github.com/syssam/stmtc/dialect/sql/schema"
)

// BatchInsert compiles a multi-row INSERT.
//
// Dialects with a multi-row VALUES list use it directly. Dialects that
// emulate batches read the table's indexes: a table with a primary key gets
// its rows as a derived table of UNION ALL selects, so the batch is computed
// as one row set; other tables get INSERT ALL (or a bare UNION ALL select
// where INSERT ALL does not exist). Row count is not bounded here; callers
// chunk batches to stay within the server's statement limits.
func (c *Compiler) BatchInsert(ctx context.Context, d *Descriptor) (*Result, error) {
	d, err := c.prepare(ctx, d, BatchInsert)
	if err != nil {
		return nil, err
	}
	r := &Result{}
	b := newBuilder(c.caps)
	var branch string
	switch c.caps.BatchStyle {
	case dialect.InsertAll, dialect.UnionSelect:
		indexes, err := c.indexes(ctx, d)
		if err != nil {
			return nil, err
		}
		switch {
		case schema.HasPrimaryKey(indexes):
			branch = "derived-union"
			c.insertHead(b, d, r)
			b.WriteString(" SELECT * FROM ").Wrap(func(b *builder) { c.unionRows(b, d.Rows) })
		case c.caps.BatchStyle == dialect.InsertAll:
			branch = "insert-all"
			if d.IgnoreOnConflict {
				r.SuppressConstraintErrors = true
			}
			b.WriteString("INSERT ALL")
			for _, row := range d.Rows {
				b.WriteString(" INTO ").WriteString(d.Table).Byte(' ').Wrap(func(b *builder) {
					b.IdentComma(d.Columns...)
				})
				b.WriteString(" VALUES ").WriteString(trimRow(row))
			}
			b.WriteString(" SELECT * FROM ").WriteString(c.rowSource())
		default:
			branch = "union"
			c.insertHead(b, d, r)
			b.Byte(' ')
			c.unionRows(b, d.Rows)
		}
	default:
		branch = "values"
		c.insertHead(b, d, r)
		b.WriteString(" VALUES ").Join(len(d.Rows), ", ", func(i int) {
			b.WriteString(trimRow(d.Rows[i]))
		})
	}
	c.insertTail(b, d)
	r.SQL = b.String()
	c.logCompiled(ctx, d, branch)
	return r, nil
}

// unionRows writes one "SELECT row FROM source" per row, joined by UNION ALL.
func (c *Compiler) unionRows(b *builder, rows []string) {
	b.Join(len(rows), " UNION ALL ", func(i int) {
		inner, _ := unwrapRow(rows[i])
		b.WriteString("SELECT ").WriteString(inner)
		if c.caps.EmptyRowSource != "" {
			b.WriteString(" FROM ").WriteString(c.caps.EmptyRowSource)
		}
	})
}

// rowSource returns the one-row table INSERT ALL selects from.
func (c *Compiler) rowSource() string {
	if c.caps.EmptyRowSource != "" {
		return c.caps.EmptyRowSource
	}
	return "DUAL"
}

func trimRow(row string) string {
	inner, _ := unwrapRow(row)
	return "(" + inner + ")"
}
