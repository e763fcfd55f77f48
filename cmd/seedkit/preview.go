package main

import (
	"bytes"
	"context"
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"

	"github.com/kclaka/seedkit/internal/engine"
	"github.com/kclaka/seedkit/internal/genplan"
	"github.com/kclaka/seedkit/internal/introspect"
	"github.com/kclaka/seedkit/internal/output"
	"github.com/kclaka/seedkit/internal/seedkiterr"
)

// previewFlags mirrors generateFlags' generation-relevant fields but
// omits --apply/--from-lock/--force: preview never touches the target
// database beyond introspection, and never writes seedkit.lock.
type previewFlags struct {
	dbURL   string
	format  string
	seed    uint64
	rows    int
	include string
	exclude string
}

func previewCmd() *cobra.Command {
	var flags previewFlags
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Generate a small sample of data without writing a lock file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(flags)
		},
	}
	cmd.Flags().StringVar(&flags.dbURL, "db", "", "database connection URL (falls back to DATABASE_URL)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "sql", "output format: sql, csv, json")
	cmd.Flags().Uint64Var(&flags.seed, "seed", 1, "RNG seed")
	cmd.Flags().IntVar(&flags.rows, "rows", 10, "rows per table")
	cmd.Flags().StringVar(&flags.include, "include", "", "comma-separated table allowlist")
	cmd.Flags().StringVar(&flags.exclude, "exclude", "", "comma-separated table denylist")
	return cmd
}

func runPreview(flags previewFlags) error {
	dbURL, err := resolveDatabaseURL(flags.dbURL)
	if err != nil {
		return err
	}

	ctx := context.Background()
	db, err := introspect.Connect(ctx, dbURL)
	if err != nil {
		return err
	}

	insertionOrder, deferred, err := buildInsertionOrder(db, nil)
	if err != nil {
		return err
	}
	insertionOrder = genplan.FilterInsertionOrder(insertionOrder, db, parseCSVList(flags.include), parseCSVList(flags.exclude))

	seed := flags.seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	plan := genplan.Build(genplan.BuildOptions{
		Schema:          db,
		Classifications: classifyAll(db),
		InsertionOrder:  insertionOrder,
		DeferredEdges:   deferred,
		DefaultRowCount: flags.rows,
		Seed:            seed,
		BaseTime:        captureBaseTime(),
	})

	data, err := engine.Execute(plan, db, nil)
	if err != nil {
		return err
	}

	writer, err := output.NewWriter(flags.format)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := writer.Write(&buf, db, data); err != nil {
		return &seedkiterr.OutputError{Message: "render " + flags.format, Err: err}
	}
	_, err = os.Stdout.WriteString(buf.String())
	return err
}
