package main

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/kclaka/seedkit/internal/introspect"
	"github.com/kclaka/seedkit/internal/seedkiterr"
)

type introspectFlags struct {
	dbURL   string
	outFile string
}

func introspectCmd() *cobra.Command {
	var flags introspectFlags
	cmd := &cobra.Command{
		Use:   "introspect",
		Short: "Print a live database's schema as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIntrospect(flags)
		},
	}
	cmd.Flags().StringVar(&flags.dbURL, "db", "", "database connection URL (falls back to DATABASE_URL)")
	cmd.Flags().StringVarP(&flags.outFile, "output", "o", "", "output file (default stdout)")
	return cmd
}

func runIntrospect(flags introspectFlags) error {
	dbURL, err := resolveDatabaseURL(flags.dbURL)
	if err != nil {
		return err
	}

	db, err := introspect.Connect(context.Background(), dbURL)
	if err != nil {
		return err
	}

	body, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return &seedkiterr.OutputError{Message: "marshal schema", Err: err}
	}
	return writeOutput(string(body), flags.outFile)
}
