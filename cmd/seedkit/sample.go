package main

import (
	"bytes"
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/kclaka/seedkit/internal/engine"
	"github.com/kclaka/seedkit/internal/genplan"
	"github.com/kclaka/seedkit/internal/introspect"
	"github.com/kclaka/seedkit/internal/output"
	"github.com/kclaka/seedkit/internal/seedkiterr"
)

type sampleFlags struct {
	dbURL  string
	table  string
	rows   int
	seed   uint64
	format string
}

func sampleCmd() *cobra.Command {
	var flags sampleFlags
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate and print rows for a single table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSample(flags)
		},
	}
	cmd.Flags().StringVar(&flags.dbURL, "db", "", "database connection URL (falls back to DATABASE_URL)")
	cmd.Flags().StringVar(&flags.table, "table", "", "table to sample (required)")
	cmd.Flags().IntVar(&flags.rows, "rows", 5, "row count")
	cmd.Flags().Uint64Var(&flags.seed, "seed", 1, "RNG seed")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "json", "output format: sql, csv, json")
	cmd.MarkFlagRequired("table")
	return cmd
}

func runSample(flags sampleFlags) error {
	dbURL, err := resolveDatabaseURL(flags.dbURL)
	if err != nil {
		return err
	}

	ctx := context.Background()
	db, err := introspect.Connect(ctx, dbURL)
	if err != nil {
		return err
	}
	if db.FindTable(flags.table) == nil {
		return fmt.Errorf("sample: table %q not found in schema", flags.table)
	}

	insertionOrder, deferred, err := buildInsertionOrder(db, nil)
	if err != nil {
		return err
	}

	seed := flags.seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	plan := genplan.Build(genplan.BuildOptions{
		Schema:            db,
		Classifications:   classifyAll(db),
		InsertionOrder:    insertionOrder,
		DeferredEdges:     deferred,
		DefaultRowCount:   1,
		TableRowOverrides: map[string]int{flags.table: flags.rows},
		Seed:              seed,
		BaseTime:          captureBaseTime(),
	})

	data, err := engine.Execute(plan, db, nil)
	if err != nil {
		return err
	}

	filtered := &engine.GeneratedData{
		Tables:     map[string][]engine.Row{flags.table: data.Tables[flags.table]},
		TableOrder: []string{flags.table},
	}
	for _, du := range data.DeferredUpdates {
		if du.TableName == flags.table {
			filtered.DeferredUpdates = append(filtered.DeferredUpdates, du)
		}
	}

	writer, err := output.NewWriter(flags.format)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := writer.Write(&buf, db, filtered); err != nil {
		return &seedkiterr.OutputError{Message: "render " + flags.format, Err: err}
	}
	fmt.Print(buf.String())
	return nil
}
