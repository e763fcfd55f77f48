package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kclaka/seedkit/internal/drift"
	"github.com/kclaka/seedkit/internal/introspect"
	"github.com/kclaka/seedkit/internal/lockfile"
)

type checkFlags struct {
	dbURL    string
	lockPath string
}

func checkCmd() *cobra.Command {
	var flags checkFlags
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Compare a lock file's schema snapshot against the live database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(flags)
		},
	}
	cmd.Flags().StringVar(&flags.dbURL, "db", "", "database connection URL (falls back to DATABASE_URL)")
	cmd.Flags().StringVar(&flags.lockPath, "lock", defaultLockPath, "path to seedkit.lock")
	return cmd
}

func runCheck(flags checkFlags) error {
	lock, err := lockfile.Read(flags.lockPath)
	if err != nil {
		return err
	}

	dbURL, err := resolveDatabaseURL(flags.dbURL)
	if err != nil {
		return err
	}

	current, err := introspect.Connect(context.Background(), dbURL)
	if err != nil {
		return err
	}

	report := drift.CheckDrift(lock.SchemaSnapshot, lock.SchemaHash, current)
	fmt.Println(report.Summary())
	if report.HasDrift {
		os.Exit(1)
	}
	return nil
}
