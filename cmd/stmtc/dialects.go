package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/hashicorp/go-version"
	"github.com/spf13/cobra"

	"github.com/syssam/stmtc/dialect"
)

func newDialectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "Print the dialect capability table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeDialects(cmd.OutOrStdout())
		},
	}
}

func writeDialects(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DIALECT\tPAGINATION\tNATIVE PAGING\tMERGE\tTRUNCATE\tBATCH\tROW LIMIT")
	for _, name := range dialect.Names() {
		caps, err := dialect.Lookup(name)
		if err != nil {
			return err
		}
		rowLimit := "-"
		switch {
		case caps.RowLimitedWrites:
			rowLimit = "limit"
		case caps.RowIdentity != "":
			rowLimit = caps.RowIdentity
		case caps.Pagination == dialect.OffsetFetch:
			rowLimit = "rownum"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			name,
			caps.Pagination,
			since(caps.NativeLimitOffset, caps.MinVersionForNativeLimitOffset),
			since(caps.SupportsMerge, caps.MinVersionForMerge),
			yesNo(caps.SupportsTruncate),
			caps.BatchStyle,
			rowLimit,
		)
	}
	return w.Flush()
}

// since renders a version-gated capability.
func since(supported bool, minVersion *version.Version) string {
	switch {
	case !supported:
		return "no"
	case minVersion == nil:
		return "yes"
	default:
		return ">= " + minVersion.Original()
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
