package compiler

import (
	"context"
)

// Insert compiles a single-row INSERT. Dialects that track the inserted
// table report it in LastInsertTable, and dialects returning the generated
// row identifier through an output parameter report its name in
// OutputBinding.
func (c *Compiler) Insert(ctx context.Context, d *Descriptor) (*Result, error) {
	d, err := c.prepare(ctx, d, Insert)
	if err != nil {
		return nil, err
	}
	r := &Result{}
	b := newBuilder(c.caps)
	c.insertHead(b, d, r)
	b.WriteString(" VALUES ").Wrap(func(b *builder) {
		b.Join(len(d.Values), ", ", func(i int) { b.WriteString(d.Values[i]) })
	})
	c.insertTail(b, d)
	if binding := c.caps.InsertOutputBinding; binding != "" {
		b.WriteString(" RETURNING ").WriteString(c.tr.rowID).WriteString(" INTO :").WriteString(binding)
		r.OutputBinding = binding
	}
	if c.caps.TracksInsertTable {
		r.LastInsertTable = d.Table
	}
	r.SQL = b.String()
	c.logCompiled(ctx, d, "values")
	return r, nil
}

// insertHead writes "INSERT [modifier] INTO table (columns)".
func (c *Compiler) insertHead(b *builder, d *Descriptor, r *Result) {
	b.WriteString("INSERT ")
	if d.IgnoreOnConflict {
		switch {
		case c.caps.InsertIgnore != "":
			b.WriteString(c.caps.InsertIgnore).Byte(' ')
		case c.tr.ignoreSuffix == "":
			r.SuppressConstraintErrors = true
		}
	}
	b.WriteString("INTO ").WriteString(d.Table).Byte(' ').Wrap(func(b *builder) {
		b.IdentComma(d.Columns...)
	})
}

// insertTail writes the conflict-ignoring suffix of dialects that have one.
func (c *Compiler) insertTail(b *builder, d *Descriptor) {
	if d.IgnoreOnConflict && c.caps.InsertIgnore == "" {
		b.WriteString(c.tr.ignoreSuffix)
	}
}
