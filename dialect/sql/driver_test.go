package sql

import (
	"context"
	"errors"
	"testing"

	"github.com/syssam/stmtc/dialect"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialect(t *testing.T) {
	tests := []struct {
		driver string
		want   string
	}{
		{"godror", dialect.Oracle},
		{"oracle", dialect.Oracle},
		{"pgx", dialect.Postgres},
		{"postgres", dialect.Postgres},
		{"mysql", dialect.MySQL},
		{"sqlite3", dialect.SQLite},
		{"sqlite", dialect.SQLite},
		{"custom", "custom"},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			db, _, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			assert.Equal(t, tt.want, OpenDB(tt.driver, db).Dialect())
		})
	}
}

func TestServerVersion(t *testing.T) {
	tests := []struct {
		driver  string
		query   string
		version string
	}{
		{"godror", "SELECT VERSION FROM PRODUCT_COMPONENT_VERSION WHERE PRODUCT LIKE 'Oracle%'", "19.0.0.0.0"},
		{"postgres", "SHOW server_version", "15.4 (Debian 15.4-1.pgdg120+1)"},
		{"mysql", "SELECT VERSION()", "8.0.35"},
		{"sqlite", "SELECT sqlite_version()", "3.45.1"},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
			require.NoError(t, err)
			defer db.Close()
			mock.ExpectQuery(tt.query).
				WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(tt.version))

			v, err := OpenDB(tt.driver, db).ServerVersion(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.version, v)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}

	t.Run("no_rows", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectQuery("SHOW server_version").WillReturnRows(sqlmock.NewRows([]string{"server_version"}))

		_, err = OpenDB("postgres", db).ServerVersion(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no rows")
	})

	t.Run("unknown_dialect", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		_, err = OpenDB("custom", db).ServerVersion(context.Background())
		require.Error(t, err)
	})

	t.Run("query_error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectQuery("SELECT VERSION").WillReturnError(errors.New("connection reset"))

		_, err = OpenDB("mysql", db).ServerVersion(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection reset")
	})
}

func TestDriverQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := OpenDB("godror", db)

	t.Run("query_with_args", func(t *testing.T) {
		mock.ExpectQuery("SELECT INDEX_NAME FROM ALL_INDEXES WHERE TABLE_NAME = :1").
			WithArgs("USERS").
			WillReturnRows(sqlmock.NewRows([]string{"INDEX_NAME"}).AddRow("USERS_PK"))

		rows := &Rows{}
		err := drv.Query(context.Background(), "SELECT INDEX_NAME FROM ALL_INDEXES WHERE TABLE_NAME = :1", []any{"USERS"}, rows)
		require.NoError(t, err)
		require.True(t, rows.Next())
		var name string
		require.NoError(t, rows.Scan(&name))
		assert.Equal(t, "USERS_PK", name)
		require.NoError(t, rows.Close())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid_args", func(t *testing.T) {
		err := drv.Query(context.Background(), "SELECT 1 FROM DUAL", "USERS", &Rows{})
		require.Error(t, err)
		err = drv.Query(context.Background(), "SELECT 1 FROM DUAL", []any{}, nil)
		require.Error(t, err)
	})

	t.Run("query_error", func(t *testing.T) {
		mock.ExpectQuery("SELECT").WillReturnError(errors.New("ORA-00942: table or view does not exist"))

		err := drv.Query(context.Background(), "SELECT * FROM MISSING", []any{}, &Rows{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ORA-00942")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDriverExec(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := OpenDB("postgres", db)

	t.Run("result", func(t *testing.T) {
		mock.ExpectExec("TRUNCATE TABLE logs").WillReturnResult(sqlmock.NewResult(0, 0))

		var res Result
		require.NoError(t, drv.Exec(context.Background(), "TRUNCATE TABLE logs", []any{}, &res))
		require.NotNil(t, res)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid_result", func(t *testing.T) {
		var n int
		require.Error(t, drv.Exec(context.Background(), "DELETE FROM logs", []any{}, &n))
	})

	t.Run("exec_error", func(t *testing.T) {
		mock.ExpectExec("DELETE").WillReturnError(errors.New("constraint violation"))

		err := drv.Exec(context.Background(), "DELETE FROM users", []any{}, nil)
		require.Error(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDriverTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := OpenDB("postgres", db)

	mock.ExpectBegin()
	mock.ExpectQuery("SHOW server_version").WillReturnRows(sqlmock.NewRows([]string{"server_version"}).AddRow("16.1"))
	mock.ExpectCommit()

	tx, err := drv.Tx(context.Background())
	require.NoError(t, err)
	rows := &Rows{}
	require.NoError(t, tx.Query(context.Background(), "SHOW server_version", []any{}, rows))
	require.NoError(t, rows.Close())
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}
