package compiler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/stmtc"
	"github.com/syssam/stmtc/dialect"
)

func TestPaginate(t *testing.T) {
	const inner = `SELECT * FROM "USERS"`
	tests := []struct {
		name      string
		dialect   string
		version   string
		d         *Descriptor
		want      string
		numbering bool
		orderBy   string
	}{
		{
			name:    "oracle 19 injects order",
			dialect: dialect.Oracle,
			version: "19.0.0.0.0",
			d:       &Descriptor{Select: inner, Limit: 10, Offset: 20},
			want:    `SELECT * FROM "USERS" ORDER BY 1 OFFSET 20 ROWS FETCH NEXT 10 ROWS ONLY`,
			orderBy: "1",
		},
		{
			name:    "oracle 12.1 ordered",
			dialect: dialect.Oracle,
			version: "12.1.0.2",
			d:       &Descriptor{Select: inner + ` ORDER BY "ID"`, OrderBy: `"ID"`, Limit: 10},
			want:    `SELECT * FROM "USERS" ORDER BY "ID" OFFSET 0 ROWS FETCH NEXT 10 ROWS ONLY`,
		},
		{
			name:      "oracle 11 with offset",
			dialect:   dialect.Oracle,
			version:   "11.2.0.4",
			d:         &Descriptor{Select: inner, Limit: 10, Offset: 20},
			want:      `SELECT * FROM (SELECT inner_query.*, rownum rnum FROM (SELECT * FROM "USERS") inner_query WHERE rownum < 31) WHERE rnum >= 21`,
			numbering: true,
		},
		{
			name:      "oracle unknown version without offset",
			dialect:   dialect.Oracle,
			d:         &Descriptor{Select: inner, Limit: 10},
			want:      `SELECT * FROM (SELECT inner_query.*, rownum rnum FROM (SELECT * FROM "USERS") inner_query WHERE rownum < 11)`,
			numbering: true,
		},
		{
			name:    "no limit",
			dialect: dialect.Oracle,
			d:       &Descriptor{Select: inner, Offset: 5},
			want:    inner,
		},
		{
			name:    "postgres",
			dialect: dialect.Postgres,
			d:       &Descriptor{Select: `SELECT * FROM "users"`, Limit: 10, Offset: 20},
			want:    `SELECT * FROM "users" LIMIT 10 OFFSET 20`,
		},
		{
			name:    "mysql",
			dialect: dialect.MySQL,
			d:       &Descriptor{Select: "SELECT * FROM `users`", Limit: 3},
			want:    "SELECT * FROM `users` LIMIT 3",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCompiler(t, tt.dialect, tt.version, nil)
			r, err := c.Paginate(context.Background(), tt.d)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.SQL)
			assert.Equal(t, tt.numbering, r.InjectedNumberingColumn)
			assert.Equal(t, tt.orderBy, r.InjectedOrderBy)
		})
	}
}

func TestPaginate_Session(t *testing.T) {
	c := newTestCompiler(t, dialect.Oracle, "11.2", nil)
	s := NewSession()
	r, err := c.Compile(context.Background(), &Descriptor{Kind: Select, Select: `SELECT "ID" FROM "USERS"`, Limit: 1})
	require.NoError(t, err)
	s.Record(r)
	assert.Equal(t, []string{"ID"}, s.VisibleColumns([]string{"ID", "RNUM"}))
	s.ResetSelect()
	assert.Equal(t, []string{"ID", "RNUM"}, s.VisibleColumns([]string{"ID", "RNUM"}))
}

func TestPaginate_Unsupported(t *testing.T) {
	c, err := New(WithCapabilities(&dialect.Capabilities{Name: "custom", QuoteChar: '"'}))
	require.NoError(t, err)
	_, err = c.Paginate(context.Background(), &Descriptor{Select: "SELECT 1", Limit: 1})
	require.Error(t, err)
	assert.True(t, stmtc.IsInvalidDescriptor(err))
}
