package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/syssam/stmtc/internal/cli"
)

// app holds the state shared by the subcommands of one invocation.
type app struct {
	// Set during PersistentPreRunE
	cfg        *cli.Config
	configPath string

	// Persistent flags
	cfgFile string
	verbose int
	quiet   bool
}

// Command group IDs
const (
	groupStatements = "statements"
	groupUtility    = "utility"
)

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "stmtc",
		Short: "Dialect-aware SQL statement compiler",
		Long: `stmtc - Dialect-aware SQL statement compiler

stmtc translates abstract statement descriptors (insert, batch insert, upsert,
update, delete, truncate and paged select) into the SQL text a target dialect
and server version accept.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip config loading for help/completion/dialects commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "dialects" {
				return nil
			}

			var err error
			a.cfg, a.configPath, err = cli.LoadConfig(a.cfgFile)
			if err != nil {
				return cli.ConfigError("loading configuration", err)
			}
			return nil
		},
		SilenceUsage:  true, // Don't show usage on errors
		SilenceErrors: true, // We handle errors ourselves
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: auto-discover stmtc.yaml)")
	rootCmd.PersistentFlags().CountVarP(&a.verbose, "verbose", "v", "increase verbosity (can be repeated)")
	rootCmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress non-error output")

	rootCmd.AddGroup(
		&cobra.Group{ID: groupStatements, Title: "Statements:"},
		&cobra.Group{ID: groupUtility, Title: "Utility:"},
	)

	compileCmd := newCompileCmd(a)
	compileCmd.GroupID = groupStatements
	inspectCmd := newInspectCmd(a)
	inspectCmd.GroupID = groupStatements
	dialectsCmd := newDialectsCmd()
	dialectsCmd.GroupID = groupUtility
	rootCmd.AddCommand(compileCmd, inspectCmd, dialectsCmd)

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		cli.ExitWithError(err)
	}
}

// logger returns the diagnostic logger for the invocation. Quiet mode
// discards everything below errors.
func (a *app) logger(w io.Writer) (*slog.Logger, error) {
	level := a.cfg.LogLevel
	if a.quiet {
		level = "error"
	}
	l, err := cli.NewLogger(w, level, a.verbose)
	if err != nil {
		return nil, cli.ConfigError("log level", err)
	}
	return l, nil
}
