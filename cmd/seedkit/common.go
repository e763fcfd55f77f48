package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kclaka/seedkit/internal/classify"
	"github.com/kclaka/seedkit/internal/config"
	"github.com/kclaka/seedkit/internal/engine"
	"github.com/kclaka/seedkit/internal/graph"
	"github.com/kclaka/seedkit/internal/schema"
	"github.com/kclaka/seedkit/internal/seedkiterr"
)

// seedkitVersion is stamped into every lock file this build writes.
const seedkitVersion = "0.1.0"

const defaultConfigPath = "seedkit.toml"
const defaultLockPath = "seedkit.lock"

// resolveDatabaseURL picks the connection string to use: an explicit
// --db flag wins, otherwise DATABASE_URL from the environment.
func resolveDatabaseURL(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if env := os.Getenv("DATABASE_URL"); env != "" {
		return env, nil
	}
	return "", seedkiterr.ErrNoDatabaseURL
}

// loadRunConfig reads seedkit.toml from the current working directory.
// A missing file is not an error: it yields config.DefaultConfig().
func loadRunConfig(path string) (*config.Config, error) {
	if path == "" {
		path = defaultConfigPath
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, &seedkiterr.ConfigError{Message: err.Error()}
	}
	return cfg, nil
}

// classifyAll runs semantic classification over every column of every
// table, producing the map genplan.Build needs to choose strategies.
func classifyAll(db *schema.Database) map[classify.TableColumn]classify.SemanticType {
	out := make(map[classify.TableColumn]classify.SemanticType)
	for _, t := range db.Tables {
		isPK := make(map[string]bool, len(t.PrimaryKey))
		for _, pk := range t.PrimaryKey {
			isPK[pk] = true
		}
		for _, c := range t.Columns {
			out[classify.TableColumn{Table: t.Name, Column: c.Name}] = classify.Classify(c, t.Name, isPK[c.Name])
		}
	}
	return out
}

// buildInsertionOrder constructs the dependency graph, breaks any cycles,
// and returns the topological table order plus the deferred edges that
// must be patched with post-insert UPDATEs.
func buildInsertionOrder(db *schema.Database, breakAt []string) ([]string, []*graph.Edge, error) {
	g := graph.Build(db)
	deferred, err := g.BreakCycles(breakAt)
	if err != nil {
		return nil, nil, fmt.Errorf("graph: break cycles: %w", err)
	}
	order, err := g.TopologicalSort()
	if err != nil {
		return nil, nil, fmt.Errorf("graph: topological sort: %w", err)
	}
	return order.Tables, deferred, nil
}

// parseCSVList splits a comma-separated flag value, trimming whitespace
// and dropping empty entries. An empty input yields a nil slice.
func parseCSVList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseTableRows parses a "table=rows,table2=rows2" flag value into a
// per-table row-count override map.
func parseTableRows(s string) (map[string]int, error) {
	out := make(map[string]int)
	for _, pair := range parseCSVList(s) {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("invalid --table-rows entry %q; want table=count", pair)
		}
		n, err := strconv.Atoi(strings.TrimSpace(kv[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid --table-rows count in %q: %w", pair, err)
		}
		out[strings.TrimSpace(kv[0])] = n
	}
	return out, nil
}

// newProgressPrinter returns an engine.ProgressFunc that prints one status
// line per table every time it is invoked (the engine already throttles
// calls to every 100 rows).
func newProgressPrinter(w io.Writer) func(table string, rowsDone, rowsTotal int) {
	return func(table string, rowsDone, rowsTotal int) {
		fmt.Fprintf(w, "  %s: %d/%d rows\n", table, rowsDone, rowsTotal)
	}
}

// newInsertProgressPrinter returns an insert.ProgressFunc (no table name,
// a running total across the whole insertion) for the direct-insert path.
func newInsertProgressPrinter(w io.Writer) func(rowsDone, rowsTotal int) {
	return func(rowsDone, rowsTotal int) {
		fmt.Fprintf(w, "  inserted %d/%d rows\n", rowsDone, rowsTotal)
	}
}

// writeOutput prints content to stdout, or to outFile when one is given.
func writeOutput(content, outFile string) error {
	if outFile == "" {
		fmt.Println(content)
		return nil
	}
	if err := os.WriteFile(outFile, []byte(content), 0o644); err != nil {
		return &seedkiterr.OutputError{Message: "write output file " + outFile, Err: err}
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", outFile)
	return nil
}

// captureBaseTime returns the anchor used to pin every temporal value
// generated in this run. Fresh runs capture wall-clock time once, here,
// before plan construction; replays restore the lock file's base_time
// instead of calling this.
func captureBaseTime() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func countRows(data *engine.GeneratedData) int {
	n := 0
	for _, rows := range data.Tables {
		n += len(rows)
	}
	return n
}
