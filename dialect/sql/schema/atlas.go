package schema

import (
	"context"
	stdsql "database/sql"
	"fmt"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	atlas "ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	"github.com/syssam/stmtc/dialect"
)

// AtlasInspector reads index metadata through an Atlas schema inspector.
// It serves the dialects Atlas supports: PostgreSQL, MySQL and SQLite.
type AtlasInspector struct {
	in     atlas.Inspector
	schema string
}

// NewAtlasInspector wraps an Atlas inspector. An empty schema name selects
// the connection's current schema.
func NewAtlasInspector(in atlas.Inspector, schemaName string) *AtlasInspector {
	return &AtlasInspector{in: in, schema: schemaName}
}

// OpenAtlas opens an Atlas driver for the dialect over db. SQLite
// defaults to the "main" database.
func OpenAtlas(name string, db *stdsql.DB, schemaName string) (*AtlasInspector, error) {
	var (
		drv migrate.Driver
		err error
	)
	switch name {
	case dialect.Postgres:
		drv, err = postgres.Open(db)
	case dialect.MySQL:
		drv, err = mysql.Open(db)
	case dialect.SQLite:
		if schemaName == "" {
			schemaName = "main"
		}
		drv, err = sqlite.Open(db)
	default:
		return nil, fmt.Errorf("schema: no atlas inspector for dialect %q", name)
	}
	if err != nil {
		return nil, fmt.Errorf("schema: open atlas %s driver: %w", name, err)
	}
	return NewAtlasInspector(drv, schemaName), nil
}

// Indexes returns the primary key of the table, if any, followed by its
// secondary indexes. Indexes with expression parts are left out. A schema
// prefix on table takes precedence over the inspector's schema.
func (i *AtlasInspector) Indexes(ctx context.Context, table string) ([]*Index, error) {
	schemaName, name := splitTable(table)
	if schemaName == "" {
		schemaName = i.schema
	}
	s, err := i.in.InspectSchema(ctx, schemaName, &atlas.InspectOptions{
		Tables: []string{name},
	})
	if err != nil {
		return nil, fmt.Errorf("schema: inspect %s: %w", table, err)
	}
	t, ok := s.Table(name)
	if !ok {
		return nil, &NotFoundError{Table: table}
	}
	var indexes []*Index
	if pk := t.PrimaryKey; pk != nil {
		name := pk.Name
		if name == "" {
			name = "PRIMARY"
		}
		if cols, ok := partColumns(pk.Parts); ok {
			indexes = append(indexes, &Index{Name: name, Type: Primary, Fields: cols})
		}
	}
	for _, idx := range t.Indexes {
		cols, ok := partColumns(idx.Parts)
		if !ok {
			continue
		}
		typ := Plain
		if idx.Unique {
			typ = Unique
		}
		indexes = append(indexes, &Index{Name: idx.Name, Type: typ, Fields: cols})
	}
	return indexes, nil
}

// partColumns returns the column names of the index parts. It reports false
// if any part is an expression: such an index constrains values no column
// list can describe, so it must never be taken as a conflict key.
func partColumns(parts []*atlas.IndexPart) ([]string, bool) {
	cols := make([]string, 0, len(parts))
	for _, p := range parts {
		if p.C == nil {
			return nil, false
		}
		cols = append(cols, p.C.Name)
	}
	return cols, true
}

var _ Introspector = (*AtlasInspector)(nil)
