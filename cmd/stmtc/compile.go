package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/syssam/stmtc/compiler"
	"github.com/syssam/stmtc/dialect/sql/schema"
	"github.com/syssam/stmtc/internal/cli"
)

// indexCacheTTL bounds how long live index metadata is reused while watching.
const indexCacheTTL = time.Minute

type compileFlags struct {
	file          string
	dialect       string
	serverVersion string
	indexes       string
	watch         bool
	exec          bool
}

func newCompileCmd(a *app) *cobra.Command {
	var f compileFlags
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile statement descriptors",
		Long: `Compile the statement descriptors of a YAML file for a target dialect.

Each YAML document holds one descriptor. The compiled statements are written
to stdout, each preceded by comment lines carrying the hints the caller must
act on.`,
		Example: `  # Compile for Oracle 11g (ROWNUM paging, MERGE upserts)
  stmtc compile -f statements.yaml --dialect oracle --server-version 11.2 --indexes indexes.yaml

  # Recompile on every change
  stmtc compile -f statements.yaml --dialect postgres --watch

  # Run the statements against the configured database in one transaction
  stmtc compile -f statements.yaml --exec`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCompile(cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.file, "file", "f", "", "YAML file of statement descriptors")
	fl.StringVar(&f.dialect, "dialect", "", "target dialect")
	fl.StringVar(&f.serverVersion, "server-version", "", "target server version (default: query the database, else unknown)")
	fl.StringVar(&f.indexes, "indexes", "", "index snapshot written by \"stmtc inspect\"")
	fl.BoolVar(&f.watch, "watch", false, "recompile whenever the descriptor file changes")
	fl.BoolVar(&f.exec, "exec", false, "run the compiled statements on the configured database in one transaction")
	cmd.MarkFlagsMutuallyExclusive("watch", "exec")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (a *app) runCompile(cmd *cobra.Command, f compileFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger, err := a.logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	if f.exec && a.cfg.Database.DSN == "" {
		return cli.ConfigError("--exec requires a database (set database in config)", nil)
	}
	name := cli.Resolve(f.dialect, a.cfg.Dialect)
	if name == "" {
		return cli.ConfigError("dialect is required (use --dialect or set dialect in config)", nil)
	}
	opts := []compiler.Option{
		compiler.WithDialect(name),
		compiler.WithLogger(logger),
	}

	serverVersion := cli.Resolve(f.serverVersion, a.cfg.ServerVersion)
	snapshot := cli.Resolve(f.indexes, a.cfg.Indexes)
	var db *database
	if a.cfg.Database.DSN != "" && (snapshot == "" || f.exec) {
		if db, err = openDatabase(ctx, a.cfg.Database, logger); err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		if serverVersion == "" {
			if serverVersion, err = db.drv.ServerVersion(ctx); err != nil {
				logger.Warn("server version unknown", "error", err)
			}
		}
	}
	switch {
	case snapshot != "":
		s, err := cli.LoadIndexes(snapshot)
		if err != nil {
			return cli.ConfigError("loading index snapshot", err)
		}
		opts = append(opts, compiler.WithIntrospector(s))
	case db != nil:
		opts = append(opts, compiler.WithIntrospector(schema.NewCache(db.in, indexCacheTTL)))
	}
	opts = append(opts, compiler.WithServerVersion(serverVersion))

	p, err := a.cfg.Policy.Build()
	if err != nil {
		return cli.ConfigError("building policy", err)
	}
	if p != nil {
		opts = append(opts, compiler.WithPolicy(p))
	}

	c, err := compiler.New(opts...)
	if err != nil {
		return cli.ConfigError("configuring compiler", err)
	}

	out := cmd.OutOrStdout()
	if !f.watch {
		rs, err := compileFile(ctx, c, f.file, out)
		if err != nil || !f.exec {
			return err
		}
		if err := compiler.ExecTx(ctx, db.drv, rs...); err != nil {
			return fmt.Errorf("executing %s: %w", f.file, err)
		}
		logger.Info("executed statements", "file", f.file, "count", len(rs))
		return nil
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	return watchFile(ctx, c, f.file, out, logger)
}

// compileFile compiles every descriptor of path and writes the statements to w.
// It stops at the first descriptor that fails to compile.
func compileFile(ctx context.Context, c *compiler.Compiler, path string, w io.Writer) ([]*compiler.Result, error) {
	ds, err := cli.LoadDescriptors(path)
	if err != nil {
		return nil, cli.DescriptorError("loading descriptors", err)
	}
	rs := make([]*compiler.Result, 0, len(ds))
	for i, d := range ds {
		r, err := c.Compile(ctx, d)
		if err != nil {
			return nil, cli.DescriptorError(fmt.Sprintf("compiling descriptor %d", i+1), err)
		}
		if i > 0 {
			fmt.Fprintln(w)
		}
		writeResult(w, d, r)
		rs = append(rs, r)
	}
	return rs, nil
}

// writeResult writes the statement preceded by its non-empty hints.
func writeResult(w io.Writer, d *compiler.Descriptor, r *compiler.Result) {
	if d.Table != "" {
		fmt.Fprintf(w, "-- %s %s\n", d.Kind, d.Table)
	} else {
		fmt.Fprintf(w, "-- %s\n", d.Kind)
	}
	hint := func(name, value string) {
		if value != "" {
			fmt.Fprintf(w, "-- %s: %s\n", name, value)
		}
	}
	if r.InjectedNumberingColumn {
		hint("numbering_column", compiler.NumberingColumn)
	}
	hint("last_insert_table", r.LastInsertTable)
	hint("output_binding", r.OutputBinding)
	hint("row_limit", r.RowLimitPredicate)
	hint("injected_order_by", r.InjectedOrderBy)
	if r.SuppressConstraintErrors {
		hint("suppress_constraint_errors", "true")
	}
	fmt.Fprintf(w, "%s;\n", r.SQL)
}

// watchFile compiles path once and again after every write until ctx is
// done. Compile errors are logged, not returned.
func watchFile(ctx context.Context, c *compiler.Compiler, path string, w io.Writer, logger *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Editors replace files on save; watch the directory instead of the file.
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	recompile := func() {
		if _, err := compileFile(ctx, c, path, w); err != nil {
			logger.Error("compile failed", "file", path, "error", err)
		}
	}
	recompile()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			logger.Info("descriptor file changed", "file", path)
			recompile()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		}
	}
}
