package compiler

import (
	"context"
	"slices"

	"github.com/syssam/stmtc"
	"github.com/syssam/stmtc/dialect/sql/schema"
)

// mergeAlias names the source row of a MERGE.
const mergeAlias = "_replace"

// upsertPlan is the outcome of matching a row against the table's indexes.
type upsertPlan struct {
	d *Descriptor
	// matching holds, per matching index, its columns as spelled in the
	// descriptor.
	matching [][]string
	// keys are the columns of any matching index; updatable are the rest.
	keys      []string
	updatable []string
}

// planUpsert selects the primary and unique indexes whose fields are all
// among the inserted columns, and partitions the columns into keys and
// updatable columns. Key columns are never updated.
func (c *Compiler) planUpsert(d *Descriptor, indexes []*schema.Index) *upsertPlan {
	p := &upsertPlan{d: d}
	column := func(field string) (string, bool) {
		for _, col := range d.Columns {
			if c.caps.SameIdent(col, field) {
				return col, true
			}
		}
		return "", false
	}
	isKey := make(map[string]bool)
	for _, idx := range indexes {
		if idx == nil || !idx.IsKey() || !idx.Covers(func(f string) bool { _, ok := column(f); return ok }) {
			continue
		}
		cols := make([]string, 0, len(idx.Fields))
		for _, f := range idx.Fields {
			col, _ := column(f)
			cols = append(cols, col)
			isKey[col] = true
		}
		p.matching = append(p.matching, cols)
	}
	for _, col := range d.Columns {
		if isKey[col] {
			p.keys = append(p.keys, col)
		} else {
			p.updatable = append(p.updatable, col)
		}
	}
	return p
}

// Upsert compiles an insert that updates the existing row instead when the
// row matches one of the table's primary or unique indexes.
//
// Servers with MERGE get a MERGE statement whose join is an OR over the
// matching indexes. When no index matches, the join is the contradiction
// "1 != 1": the statement then only ever inserts. This insert-only
// degradation is intended; a row that cannot be matched is never updated.
// When every column belongs to a matching index, the MATCHED branch is
// omitted and the statement inserts the row only if it is absent.
//
// Other dialects append their conflict clause to a plain INSERT, targeting
// the matching indexes; with no matching index the INSERT is left plain.
func (c *Compiler) Upsert(ctx context.Context, d *Descriptor) (*Result, error) {
	d, err := c.prepare(ctx, d, Upsert)
	if err != nil {
		return nil, err
	}
	merge := c.gate.NativeMerge()
	if !merge && c.tr.onConflict == nil {
		return nil, stmtc.NewDescriptorError(d.Kind.String(), "Kind",
			"dialect "+c.caps.Name+" has no upsert syntax")
	}
	indexes, err := c.indexes(ctx, d)
	if err != nil {
		return nil, err
	}
	p := c.planUpsert(d, indexes)
	r := &Result{}
	b := newBuilder(c.caps)
	branch := "merge"
	if merge {
		c.merge(b, p)
	} else {
		branch = "on-conflict"
		c.insertHead(b, &Descriptor{Table: d.Table, Columns: d.Columns}, r)
		b.WriteString(" VALUES ").Wrap(func(b *builder) {
			b.Join(len(d.Values), ", ", func(i int) { b.WriteString(d.Values[i]) })
		})
		if len(p.matching) > 0 {
			c.tr.onConflict(b, p)
		}
	}
	r.SQL = b.String()
	c.log.DebugContext(ctx, "compiled statement",
		"dialect", c.caps.Name,
		"kind", d.Kind.String(),
		"table", d.Table,
		"branch", branch,
		"matching_indexes", len(p.matching),
	)
	return r, nil
}

// merge writes:
//
//	MERGE INTO t USING (SELECT v1 c1, ...) src ON (...)
//	WHEN MATCHED THEN UPDATE SET u = src.u, ...
//	WHEN NOT MATCHED THEN INSERT (c1, ...) VALUES (src.c1, ...)
func (c *Compiler) merge(b *builder, p *upsertPlan) {
	d, sep := p.d, c.tr.aliasSep
	b.WriteString("MERGE INTO ").WriteString(d.Table).WriteString(" USING ").Wrap(func(b *builder) {
		b.WriteString("SELECT ").Join(len(d.Columns), ", ", func(i int) {
			b.WriteString(d.Values[i]).WriteString(sep).Ident(d.Columns[i])
		})
		if c.caps.EmptyRowSource != "" {
			b.WriteString(" FROM ").WriteString(c.caps.EmptyRowSource)
		}
	})
	b.WriteString(sep).Ident(mergeAlias).WriteString(" ON ").Wrap(func(b *builder) {
		switch len(p.matching) {
		case 0:
			b.WriteString("1 != 1")
		case 1:
			c.matchIndex(b, d.Table, p.matching[0])
		default:
			b.Join(len(p.matching), " OR ", func(i int) {
				b.Wrap(func(b *builder) { c.matchIndex(b, d.Table, p.matching[i]) })
			})
		}
	})
	if len(p.updatable) > 0 {
		b.WriteString(" WHEN MATCHED THEN UPDATE SET ").Join(len(p.updatable), ", ", func(i int) {
			b.Ident(p.updatable[i]).WriteString(" = ").Ident(mergeAlias).Byte('.').Ident(p.updatable[i])
		})
	}
	b.WriteString(" WHEN NOT MATCHED THEN INSERT ").Wrap(func(b *builder) {
		b.IdentComma(d.Columns...)
	})
	b.WriteString(" VALUES ").Wrap(func(b *builder) {
		b.Join(len(d.Columns), ", ", func(i int) {
			b.Ident(mergeAlias).Byte('.').Ident(d.Columns[i])
		})
	})
}

// matchIndex writes "t.c1 = src.c1 AND ..." for the columns of one index.
func (c *Compiler) matchIndex(b *builder, table string, cols []string) {
	b.Join(len(cols), " AND ", func(i int) {
		b.WriteString(table).Byte('.').Ident(cols[i]).
			WriteString(" = ").Ident(mergeAlias).Byte('.').Ident(cols[i])
	})
}

// onConflictFirst targets the first matching index, as a conflict target
// can name only one.
func onConflictFirst(b *builder, p *upsertPlan) {
	conflictClause(b, p.matching[0], p.updatable, "EXCLUDED")
}

// onConflictEach writes one conflict clause per matching index.
func onConflictEach(b *builder, p *upsertPlan) {
	for _, cols := range p.matching {
		conflictClause(b, cols, p.updatable, "excluded")
	}
}

func conflictClause(b *builder, target, updatable []string, excluded string) {
	b.WriteString(" ON CONFLICT ").Wrap(func(b *builder) { b.IdentComma(target...) })
	if len(updatable) == 0 {
		b.WriteString(" DO NOTHING")
		return
	}
	b.WriteString(" DO UPDATE SET ").Join(len(updatable), ", ", func(i int) {
		b.Ident(updatable[i]).WriteString(" = ").WriteString(excluded).Byte('.').Ident(updatable[i])
	})
}

// onDuplicateKey writes the MySQL clause. It has no DO NOTHING form, so a
// row made only of key columns assigns a key column to itself.
func onDuplicateKey(b *builder, p *upsertPlan) {
	b.WriteString(" ON DUPLICATE KEY UPDATE ")
	set := p.updatable
	if len(set) == 0 {
		set = slices.Clone(p.keys[:1])
	}
	b.Join(len(set), ", ", func(i int) {
		if len(p.updatable) == 0 {
			b.Ident(set[i]).WriteString(" = ").Ident(set[i])
			return
		}
		b.Ident(set[i]).WriteString(" = VALUES(").Ident(set[i]).Byte(')')
	})
}
