package main

import (
	"bytes"
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kclaka/seedkit/internal/drift"
	"github.com/kclaka/seedkit/internal/engine"
	"github.com/kclaka/seedkit/internal/genplan"
	"github.com/kclaka/seedkit/internal/insert"
	"github.com/kclaka/seedkit/internal/introspect"
	"github.com/kclaka/seedkit/internal/lockfile"
	"github.com/kclaka/seedkit/internal/output"
	"github.com/kclaka/seedkit/internal/seedkiterr"
)

type generateFlags struct {
	dbURL      string
	configPath string
	outFile    string
	format     string
	seed       uint64
	rows       int
	tableRows  string
	include    string
	exclude    string
	breakAt    string
	fromLock   string
	force      bool
	apply      bool
	copyFlag   bool
	subset     string
}

func generateCmd() *cobra.Command {
	var flags generateFlags
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate synthetic data for a schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(flags)
		},
	}
	cmd.Flags().StringVar(&flags.dbURL, "db", "", "database connection URL (falls back to DATABASE_URL)")
	cmd.Flags().StringVar(&flags.configPath, "config", "", "path to seedkit.toml (default ./seedkit.toml)")
	cmd.Flags().StringVarP(&flags.outFile, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "sql", "output format: sql, csv, json")
	cmd.Flags().Uint64Var(&flags.seed, "seed", 0, "RNG seed (0 picks a fresh random seed)")
	cmd.Flags().IntVar(&flags.rows, "rows", 100, "default row count per table")
	cmd.Flags().StringVar(&flags.tableRows, "table-rows", "", "per-table row overrides, e.g. users=50,orders=500")
	cmd.Flags().StringVar(&flags.include, "include", "", "comma-separated table allowlist")
	cmd.Flags().StringVar(&flags.exclude, "exclude", "", "comma-separated table denylist")
	cmd.Flags().StringVar(&flags.breakAt, "break-cycle-at", "", "comma-separated table.column edges to force-break")
	cmd.Flags().StringVar(&flags.fromLock, "from-lock", "", "replay a previous run from this lock file")
	cmd.Flags().BoolVar(&flags.force, "force", false, "proceed even if the live schema has drifted from the lock file")
	cmd.Flags().BoolVar(&flags.apply, "apply", false, "insert directly into the target database instead of writing output")
	cmd.Flags().BoolVar(&flags.copyFlag, "copy", false, "not supported: setting it makes generate return an error")
	cmd.Flags().StringVar(&flags.subset, "subset", "", "not supported: setting it makes generate return an error")
	return cmd
}

func runGenerate(flags generateFlags) error {
	if flags.copyFlag || flags.subset != "" {
		return &seedkiterr.CustomProviderUnsupportedError{
			ProviderPath: "--copy/--subset",
			Table:        "*",
			Column:       "*",
		}
	}

	ctx := context.Background()
	dbURL, err := resolveDatabaseURL(flags.dbURL)
	if err != nil {
		return err
	}

	var lock *lockfile.LockFile
	if flags.fromLock != "" {
		lock, err = lockfile.Read(flags.fromLock)
		if err != nil {
			return err
		}
	}

	db, err := introspect.Connect(ctx, dbURL)
	if err != nil {
		return err
	}

	if lock != nil {
		currentHash := drift.Hash(db)
		if currentHash != lock.SchemaHash && !flags.force {
			report := drift.CheckDrift(lock.SchemaSnapshot, lock.SchemaHash, db)
			return &seedkiterr.SchemaDriftError{Message: "schema has drifted since the lock file was written:\n" + report.Summary()}
		}
	}

	cfg, err := loadRunConfig(flags.configPath)
	if err != nil {
		return err
	}

	include := parseCSVList(flags.include)
	exclude := parseCSVList(flags.exclude)
	if len(include) == 0 {
		include = cfg.Include
	}
	if len(exclude) == 0 {
		exclude = cfg.Exclude
	}

	tableRows, err := parseTableRows(flags.tableRows)
	if err != nil {
		return err
	}
	for table, n := range cfg.TableRowCounts {
		if _, overridden := tableRows[table]; !overridden {
			tableRows[table] = n
		}
	}

	breakAt := parseCSVList(flags.breakAt)
	if len(breakAt) == 0 {
		breakAt = cfg.BreakAt
	}

	insertionOrder, deferred, err := buildInsertionOrder(db, breakAt)
	if err != nil {
		return err
	}
	insertionOrder = genplan.FilterInsertionOrder(insertionOrder, db, include, exclude)

	seed := flags.seed
	baseTime := captureBaseTime()
	if lock != nil {
		seed = lock.Seed
		if parsed, parseErr := time.Parse(lockfile.BaseTimeLayout, lock.BaseTime); parseErr == nil {
			baseTime = parsed
		}
	} else if seed == 0 {
		seed = rand.Uint64()
	}

	defaultRows := flags.rows
	if defaultRows == 0 {
		defaultRows = cfg.DefaultRowCount
	}

	plan := genplan.Build(genplan.BuildOptions{
		Schema:            db,
		Classifications:   classifyAll(db),
		InsertionOrder:    insertionOrder,
		DeferredEdges:     deferred,
		DefaultRowCount:   defaultRows,
		TableRowOverrides: tableRows,
		Seed:              seed,
		BaseTime:          baseTime,
		ColumnOverrides:   cfg.Columns,
	})

	progress := newProgressPrinter(os.Stderr)
	data, err := engine.Execute(plan, db, progress)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "generated %d rows across %d tables\n", countRows(data), len(data.TableOrder))

	if flags.apply {
		if err := insert.Direct(ctx, dbURL, db, data, newInsertProgressPrinter(os.Stderr)); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "inserted directly into target database")
	} else {
		writer, err := output.NewWriter(flags.format)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := writer.Write(&buf, db, data); err != nil {
			return &seedkiterr.OutputError{Message: "render " + flags.format, Err: err}
		}
		if err := writeOutput(buf.String(), flags.outFile); err != nil {
			return err
		}
	}

	lf := &lockfile.LockFile{
		SchemaHash:     drift.Hash(db),
		Seed:           seed,
		SeedkitVersion: seedkitVersion,
		BaseTime:       baseTime.Format(lockfile.BaseTimeLayout),
		SchemaSnapshot: db,
		Config: lockfile.LockConfig{
			DefaultRowCount: defaultRows,
			TableRowCounts:  tableRows,
			AIEnabled:       cfg.AIEnabled,
			Include:         include,
			Exclude:         exclude,
		},
	}
	lockfile.Stamp(lf, time.Now().UTC())
	if err := lockfile.Write(defaultLockPath, lf); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", defaultLockPath)
	return nil
}
