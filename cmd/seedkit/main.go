// Command seedkit introspects a relational schema and generates
// deterministic synthetic data for it: SQL/CSV/JSON files or a direct
// transactional insert into a target database.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/kclaka/seedkit/internal/introspect/mysql"
	_ "github.com/kclaka/seedkit/internal/introspect/postgresql"
	_ "github.com/kclaka/seedkit/internal/introspect/sqlite"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "seedkit",
		Short:         "Deterministic synthetic data generator for relational schemas",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		generateCmd(),
		introspectCmd(),
		previewCmd(),
		checkCmd(),
		graphCmd(),
		sampleCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
