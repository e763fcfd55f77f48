// Package config reads seedkit.toml: the user-facing configuration for a
// generation run (row counts, AI classification toggle, table include/
// exclude filters, and per-column generation overrides).
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// tomlConfig is the top-level seedkit.toml document shape.
type tomlConfig struct {
	Generation tomlGeneration          `toml:"generation"`
	Columns    map[string]tomlColumn   `toml:"columns"`
}

type tomlGeneration struct {
	DefaultRowCount int            `toml:"default_row_count"`
	TableRowCounts  map[string]int `toml:"table_row_counts"`
	AIEnabled       bool           `toml:"ai_enabled"`
	Include         []string       `toml:"include"`
	Exclude         []string       `toml:"exclude"`
	BreakAt         []string       `toml:"break_at"`
}

// tomlColumn maps a `[columns."table.column"]` override block.
type tomlColumn struct {
	Values  []string  `toml:"values"`
	Weights []float64 `toml:"weights"`
	Custom  string    `toml:"custom"`
}

// ColumnOverride is a user-configured generation override for one column,
// keyed by "table.column" in Config.Columns. Exactly one of Values or
// Custom is meaningful per the planner's priority rule: a value list wins
// if present, otherwise a custom provider path (which always fails at
// execution, per the Custom generation strategy's contract).
type ColumnOverride struct {
	Values  []string
	Weights []float64
	Custom  string
}

// Config is the parsed, validated form of seedkit.toml.
type Config struct {
	DefaultRowCount int
	TableRowCounts  map[string]int
	AIEnabled       bool
	Include         []string
	Exclude         []string
	BreakAt         []string
	Columns         map[string]ColumnOverride
}

// DefaultConfig returns the configuration used when no seedkit.toml is
// present: 100 rows per table, AI classification off, no filters.
func DefaultConfig() *Config {
	return &Config{
		DefaultRowCount: 100,
		TableRowCounts:  make(map[string]int),
		Columns:         make(map[string]ColumnOverride),
	}
}

// LoadFile opens and parses path as a seedkit.toml document.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open file %q: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses TOML content from r.
func Load(r io.Reader) (*Config, error) {
	var tc tomlConfig
	if _, err := toml.NewDecoder(r).Decode(&tc); err != nil {
		return nil, fmt.Errorf("config: decode error: %w", err)
	}

	cfg := &Config{
		DefaultRowCount: tc.Generation.DefaultRowCount,
		TableRowCounts:  tc.Generation.TableRowCounts,
		AIEnabled:       tc.Generation.AIEnabled,
		Include:         tc.Generation.Include,
		Exclude:         tc.Generation.Exclude,
		BreakAt:         tc.Generation.BreakAt,
		Columns:         make(map[string]ColumnOverride, len(tc.Columns)),
	}
	if cfg.DefaultRowCount == 0 {
		cfg.DefaultRowCount = 100
	}
	if cfg.TableRowCounts == nil {
		cfg.TableRowCounts = make(map[string]int)
	}

	for key, col := range tc.Columns {
		if len(col.Weights) > 0 && len(col.Weights) != len(col.Values) {
			return nil, fmt.Errorf("config: column override %q: %d weights for %d values", key, len(col.Weights), len(col.Values))
		}
		cfg.Columns[key] = ColumnOverride{Values: col.Values, Weights: col.Weights, Custom: col.Custom}
	}

	return cfg, nil
}
