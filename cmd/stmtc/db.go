package main

import (
	"context"
	stdsql "database/sql"
	"log/slog"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/syssam/stmtc/dialect"
	"github.com/syssam/stmtc/dialect/sql"
	"github.com/syssam/stmtc/dialect/sql/schema"
	"github.com/syssam/stmtc/internal/cli"
)

// database is an open connection together with the introspector reading
// index metadata from it.
type database struct {
	drv *sql.Driver
	in  *schema.Instrumented
}

// openDatabase connects with the configured database/sql driver. Oracle
// connections read the data dictionary; the rest go through Atlas.
func openDatabase(ctx context.Context, cfg cli.DatabaseConfig, logger *slog.Logger) (*database, error) {
	if cfg.Driver == "" || cfg.DSN == "" {
		return nil, cli.ConfigError("database driver and dsn are required (use flags or set database in config)", nil)
	}
	db, err := stdsql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, cli.DBConnectError("opening database", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, cli.DBConnectError("connecting to database", err)
	}

	drv := sql.OpenDB(cfg.Driver, db)
	var in schema.Introspector
	switch name := drv.Dialect(); name {
	case dialect.Oracle:
		in = schema.NewOracleInspector(drv, cfg.Schema)
	default:
		ai, err := schema.OpenAtlas(name, db, cfg.Schema)
		if err != nil {
			_ = db.Close()
			return nil, cli.DBConnectError("opening inspector", err)
		}
		in = ai
	}
	logger.Debug("connected", "driver", cfg.Driver, "dialect", drv.Dialect())
	return &database{drv: drv, in: schema.Instrument(in, schema.WithSlowLookupLog(logger))}, nil
}

func (d *database) Close() error {
	return d.drv.Close()
}
