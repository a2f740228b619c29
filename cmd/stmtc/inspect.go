package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/syssam/stmtc/dialect/sql/schema"
	"github.com/syssam/stmtc/internal/cli"
)

type inspectFlags struct {
	driver string
	dsn    string
	schema string
	tables []string
	format string
	output string
}

func newInspectCmd(a *app) *cobra.Command {
	var f inspectFlags
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Snapshot table indexes",
		Long: `Read the primary key and indexes of the named tables from a live database
and write them as a snapshot "stmtc compile --indexes" accepts.`,
		Example: `  # Snapshot two SQLite tables
  stmtc inspect --driver sqlite --dsn file:app.db --table users --table orders -o indexes.yaml

  # Binary snapshot of a PostgreSQL table
  stmtc inspect --driver postgres --dsn postgres://localhost/app --table users --format msgpack -o indexes.msgpack`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInspect(cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.driver, "driver", "", "database/sql driver name (postgres, mysql, sqlite)")
	fl.StringVar(&f.dsn, "dsn", "", "data source name")
	fl.StringVar(&f.schema, "schema", "", "schema or owner the tables belong to")
	fl.StringArrayVar(&f.tables, "table", nil, "table to inspect (repeatable)")
	fl.StringVar(&f.format, "format", "", "snapshot format: yaml or msgpack (default: from output extension)")
	fl.StringVarP(&f.output, "output", "o", "", "output file (default: stdout)")
	_ = cmd.MarkFlagRequired("table")
	return cmd
}

func (a *app) runInspect(cmd *cobra.Command, f inspectFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger, err := a.logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	format := schema.Format(f.format)
	switch format {
	case "":
		format = cli.SnapshotFormat(f.output)
	case schema.FormatYAML, schema.FormatMsgpack:
	default:
		return cli.ConfigError(fmt.Sprintf("unknown snapshot format %q", f.format), nil)
	}

	dbCfg := cli.DatabaseConfig{
		Driver: cli.Resolve(f.driver, a.cfg.Database.Driver),
		DSN:    cli.Resolve(f.dsn, a.cfg.Database.DSN),
		Schema: cli.Resolve(f.schema, a.cfg.Database.Schema),
	}
	db, err := openDatabase(ctx, dbCfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	s, err := schema.Prefetch(ctx, db.in, f.tables...)
	if err != nil {
		return err
	}
	for table, indexes := range s {
		r := schema.ValidateIndexes(table, indexes)
		for _, w := range r.Warnings {
			logger.Warn(w.Message, "table", w.Table, "index", w.Index)
		}
	}
	logger.Info("inspected tables", "tables", len(s), "stats", db.in.LookupStats().Stats().String())

	var w io.Writer = cmd.OutOrStdout()
	if f.output != "" {
		file, err := os.Create(f.output)
		if err != nil {
			return err
		}
		defer func() { _ = file.Close() }()
		w = file
	}
	if err := schema.WriteSnapshot(w, s, format); err != nil {
		return err
	}
	if f.output != "" && !a.quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d tables to %s\n", len(s), f.output)
	}
	return nil
}
