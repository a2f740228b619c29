package compiler

import (
	"context"

	"github.com/syssam/stmtc"
	"github.com/syssam/stmtc/dialect"
)

// defaultOrder is the ordering added when native paging requires one.
const defaultOrder = "1"

// Paginate wraps the descriptor's inner query to return Limit rows after
// skipping Offset rows. A zero Limit leaves the query unchanged.
//
// Servers with OFFSET/FETCH get it appended, preceded by ORDER BY 1 when the
// descriptor reports no ordering of its own. Older servers get the query
// wrapped in a row-numbering subquery that adds the NumberingColumn to the
// result set, reported by InjectedNumberingColumn.
func (c *Compiler) Paginate(ctx context.Context, d *Descriptor) (*Result, error) {
	d, err := c.prepare(ctx, d, Select)
	if err != nil {
		return nil, err
	}
	r := &Result{SQL: d.Select}
	if d.Limit == 0 {
		c.logCompiled(ctx, d, "unpaged")
		return r, nil
	}
	b := newBuilder(c.caps)
	var branch string
	switch {
	case c.gate.NativePagination() && c.caps.Pagination == dialect.OffsetFetch:
		branch = "offset-fetch"
		b.WriteString(d.Select)
		if fragment(d.OrderBy, "ORDER BY") == "" {
			b.WriteString(" ORDER BY ").WriteString(defaultOrder)
			r.InjectedOrderBy = defaultOrder
		}
		b.WriteString(" OFFSET ").Int(d.Offset).WriteString(" ROWS FETCH NEXT ").Int(d.Limit).WriteString(" ROWS ONLY")
	case c.gate.NativePagination():
		branch = "limit-offset"
		b.WriteString(d.Select).WriteString(" LIMIT ").Int(d.Limit)
		if d.Offset > 0 {
			b.WriteString(" OFFSET ").Int(d.Offset)
		}
	case c.tr.numberRows != nil:
		branch = "row-numbering"
		c.tr.numberRows(b, d.Select, d.Limit, d.Offset)
		r.InjectedNumberingColumn = true
	default:
		return nil, stmtc.NewDescriptorError(d.Kind.String(), "Limit",
			"dialect "+c.caps.Name+" cannot page rows on this server version")
	}
	r.SQL = b.String()
	c.logCompiled(ctx, d, branch)
	return r, nil
}

// rownumPage writes:
//
//	SELECT * FROM (SELECT inner_query.*, rownum rnum FROM (inner) inner_query
//	WHERE rownum < offset+limit+1) WHERE rnum >= offset+1
//
// The outer WHERE is omitted without an offset.
func rownumPage(b *builder, inner string, limit, offset int) {
	b.WriteString("SELECT * FROM ").Wrap(func(b *builder) {
		b.WriteString("SELECT inner_query.*, rownum ").WriteString(NumberingColumn).
			WriteString(" FROM ").Wrap(func(b *builder) { b.WriteString(inner) }).
			WriteString(" inner_query WHERE rownum < ").Int(offset + limit + 1)
	})
	if offset > 0 {
		b.WriteString(" WHERE ").WriteString(NumberingColumn).WriteString(" >= ").Int(offset + 1)
	}
}
