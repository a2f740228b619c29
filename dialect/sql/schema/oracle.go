package schema

import (
	"context"
	stdsql "database/sql"
	"fmt"

	"github.com/syssam/stmtc/dialect"
	"github.com/syssam/stmtc/dialect/sql"
)

// OracleInspector reads index metadata from the Oracle data dictionary.
type OracleInspector struct {
	drv   dialect.ExecQuerier
	owner string
}

// NewOracleInspector returns an inspector for tables owned by owner, or by
// the current schema when owner is empty.
func NewOracleInspector(drv dialect.ExecQuerier, owner string) *OracleInspector {
	return &OracleInspector{drv: drv, owner: owner}
}

const oracleIndexesQuery = `SELECT AI.INDEX_NAME, AI.UNIQUENESS, AC.CONSTRAINT_TYPE, AIC.COLUMN_NAME ` +
	`FROM ALL_INDEXES AI ` +
	`JOIN ALL_IND_COLUMNS AIC ON AIC.INDEX_OWNER = AI.OWNER AND AIC.INDEX_NAME = AI.INDEX_NAME ` +
	`LEFT JOIN ALL_CONSTRAINTS AC ON AC.OWNER = AI.TABLE_OWNER AND AC.INDEX_NAME = AI.INDEX_NAME AND AC.CONSTRAINT_TYPE IN ('P', 'U') ` +
	`WHERE AI.TABLE_NAME = :1 AND AI.TABLE_OWNER = %s ` +
	`ORDER BY AI.INDEX_NAME, AIC.COLUMN_POSITION`

// Indexes returns the indexes of the table in dictionary order. Index
// columns keep their position order. An owner prefix on table ("HR.USERS")
// takes precedence over the inspector's owner.
func (i *OracleInspector) Indexes(ctx context.Context, table string) ([]*Index, error) {
	prefix, name := splitTable(table)
	if prefix == "" {
		prefix = i.owner
	}
	owner, args := "SYS_CONTEXT('USERENV', 'CURRENT_SCHEMA')", []any{name}
	if prefix != "" {
		owner, args = ":2", append(args, prefix)
	}
	rows := &sql.Rows{}
	if err := i.drv.Query(ctx, fmt.Sprintf(oracleIndexesQuery, owner), args, rows); err != nil {
		return nil, fmt.Errorf("schema: query oracle indexes: %w", err)
	}
	defer rows.Close()
	var (
		indexes []*Index
		last    *Index
	)
	for rows.Next() {
		var (
			name, uniqueness, column string
			ctype                    stdsql.NullString
		)
		if err := rows.Scan(&name, &uniqueness, &ctype, &column); err != nil {
			return nil, fmt.Errorf("schema: scan oracle index: %w", err)
		}
		if last == nil || last.Name != name {
			last = &Index{Name: name, Type: oracleIndexType(uniqueness, ctype.String)}
			indexes = append(indexes, last)
		}
		last.Fields = append(last.Fields, column)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("schema: read oracle indexes: %w", err)
	}
	return indexes, nil
}

func oracleIndexType(uniqueness, constraint string) IndexType {
	switch {
	case constraint == "P":
		return Primary
	case constraint == "U", uniqueness == "UNIQUE":
		return Unique
	default:
		return Plain
	}
}

var _ Introspector = (*OracleInspector)(nil)
