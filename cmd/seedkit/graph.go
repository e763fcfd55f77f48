package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kclaka/seedkit/internal/graph"
	"github.com/kclaka/seedkit/internal/introspect"
)

type graphFlags struct {
	dbURL   string
	breakAt string
	outFile string
}

func graphCmd() *cobra.Command {
	var flags graphFlags
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the table dependency graph and insertion order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(flags)
		},
	}
	cmd.Flags().StringVar(&flags.dbURL, "db", "", "database connection URL (falls back to DATABASE_URL)")
	cmd.Flags().StringVar(&flags.breakAt, "break-cycle-at", "", "comma-separated table.column edges to force-break")
	cmd.Flags().StringVarP(&flags.outFile, "output", "o", "", "output file (default stdout)")
	return cmd
}

func runGraph(flags graphFlags) error {
	dbURL, err := resolveDatabaseURL(flags.dbURL)
	if err != nil {
		return err
	}

	db, err := introspect.Connect(context.Background(), dbURL)
	if err != nil {
		return err
	}

	order, deferred, err := buildInsertionOrder(db, parseCSVList(flags.breakAt))
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintln(&b, "insertion order:")
	for i, table := range order {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, table)
	}
	if len(deferred) > 0 {
		fmt.Fprintln(&b, "deferred edges (patched with post-insert UPDATE):")
		for _, e := range deferred {
			fmt.Fprintf(&b, "  %s.(%s) -> %s.(%s)\n", e.SourceTable, strings.Join(e.SourceColumns, ","), e.TargetTable, strings.Join(e.TargetColumns, ","))
		}
	}

	g := graph.Build(db)
	fmt.Fprintf(&b, "%d tables, %d edges\n", g.TableCount(), g.EdgeCount())

	return writeOutput(strings.TrimRight(b.String(), "\n"), flags.outFile)
}
