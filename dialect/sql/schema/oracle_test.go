package schema

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/syssam/stmtc/dialect"
	"github.com/syssam/stmtc/dialect/sql"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOracleInspector(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cols := []string{"INDEX_NAME", "UNIQUENESS", "CONSTRAINT_TYPE", "COLUMN_NAME"}
	mock.ExpectQuery(regexp.QuoteMeta("WHERE AI.TABLE_NAME = :1 AND AI.TABLE_OWNER = SYS_CONTEXT('USERENV', 'CURRENT_SCHEMA') ORDER BY")).
		WithArgs("ORDERS").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("ORDERS_CODE_IX", "NONUNIQUE", nil, "CODE").
			AddRow("ORDERS_PK", "UNIQUE", "P", "ID").
			AddRow("ORDERS_UQ", "UNIQUE", "U", "TENANT").
			AddRow("ORDERS_UQ", "UNIQUE", "U", "NUM").
			AddRow("ORDERS_UX", "UNIQUE", nil, "REF"))

	in := NewOracleInspector(sql.OpenDB(dialect.Oracle, db), "")
	got, err := in.Indexes(context.Background(), "ORDERS")
	require.NoError(t, err)
	assert.Equal(t, []*Index{
		{Name: "ORDERS_CODE_IX", Type: Plain, Fields: []string{"CODE"}},
		{Name: "ORDERS_PK", Type: Primary, Fields: []string{"ID"}},
		{Name: "ORDERS_UQ", Type: Unique, Fields: []string{"TENANT", "NUM"}},
		{Name: "ORDERS_UX", Type: Unique, Fields: []string{"REF"}},
	}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOracleInspector_Owner(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("AI.TABLE_OWNER = :2")).
		WithArgs("EMPTY", "APP").
		WillReturnRows(sqlmock.NewRows([]string{"INDEX_NAME", "UNIQUENESS", "CONSTRAINT_TYPE", "COLUMN_NAME"}))

	got, err := NewOracleInspector(sql.OpenDB(dialect.Oracle, db), "APP").Indexes(context.Background(), "EMPTY")
	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOracleInspector_QualifiedTable(t *testing.T) {
	for _, owner := range []string{"", "APP"} {
		t.Run("owner="+owner, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectQuery(regexp.QuoteMeta("AI.TABLE_NAME = :1 AND AI.TABLE_OWNER = :2")).
				WithArgs("USERS", "HR").
				WillReturnRows(sqlmock.NewRows([]string{"INDEX_NAME", "UNIQUENESS", "CONSTRAINT_TYPE", "COLUMN_NAME"}).
					AddRow("USERS_PK", "UNIQUE", "P", "ID"))

			got, err := NewOracleInspector(sql.OpenDB(dialect.Oracle, db), owner).Indexes(context.Background(), "HR.USERS")
			require.NoError(t, err)
			assert.Equal(t, []*Index{{Name: "USERS_PK", Type: Primary, Fields: []string{"ID"}}}, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSplitTable(t *testing.T) {
	tests := []struct {
		in, qualifier, name string
	}{
		{"USERS", "", "USERS"},
		{"HR.USERS", "HR", "USERS"},
		{"db.app.users", "db.app", "users"},
		{".users", "", ".users"},
	}
	for _, tt := range tests {
		q, n := splitTable(tt.in)
		assert.Equal(t, tt.qualifier, q, tt.in)
		assert.Equal(t, tt.name, n, tt.in)
	}
}

func TestOracleInspector_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT AI.INDEX_NAME").WillReturnError(errors.New("ORA-12541: TNS:no listener"))
	_, err = NewOracleInspector(sql.OpenDB(dialect.Oracle, db), "").Indexes(context.Background(), "T")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ORA-12541")
}
