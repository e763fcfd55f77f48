// Package lockfile reads and writes seedkit.lock: the record of a
// generation run's seed, base time, schema snapshot and configuration.
// `seedkit generate --from-lock` restores the seed and base time from it
// and compares the schema hash; it still introspects and classifies the
// live schema.
package lockfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kclaka/seedkit/internal/schema"
)

// BaseTimeLayout is the wire format of LockFile.BaseTime: a timestamp
// with no timezone offset, matching the anchor the engine threads through
// every temporal provider.
const BaseTimeLayout = "2006-01-02T15:04:05"

// ColumnOverrideLock is a per-column value/weight override, keyed by
// "table.column" in LockConfig.ColumnOverrides. seedkit generate leaves
// LockConfig.ColumnOverrides empty; on --from-lock, column overrides come
// from seedkit.toml.
type ColumnOverrideLock struct {
	Values  []string  `json:"values,omitempty"`
	Weights []float64 `json:"weights,omitempty"`
}

// LockConfig records the configuration of a generation run. --from-lock
// does not read it back: on a replay, row counts, include/exclude lists
// and column overrides come from the current flags and seedkit.toml. Map
// fields are alphabetized automatically by encoding/json, which sorts
// string map keys when marshaling.
type LockConfig struct {
	DefaultRowCount int            `json:"default_row_count"`
	TableRowCounts  map[string]int `json:"table_row_counts,omitempty"`
	AIEnabled       bool           `json:"ai_enabled"`
	Include         []string       `json:"include,omitempty"`
	Exclude         []string       `json:"exclude,omitempty"`

	// Classifications maps table -> column -> classify.SemanticType
	// ordinal. seedkit generate leaves it empty.
	Classifications map[string]map[string]int `json:"classifications,omitempty"`

	ColumnOverrides map[string]ColumnOverrideLock `json:"column_overrides,omitempty"`
}

// LockFile is the full contents of seedkit.lock.
type LockFile struct {
	SchemaHash     string          `json:"schema_hash"`
	Seed           uint64          `json:"seed"`
	SeedkitVersion string          `json:"seedkit_version"`
	BaseTime       string          `json:"base_time"`
	CreatedAt      string          `json:"created_at"`
	SchemaSnapshot *schema.Database `json:"schema_snapshot"`
	Config         LockConfig      `json:"config"`
}

// Write serializes lf to path atomically: it writes to a temp file in
// the same directory, fsyncs it, then renames it over path. A reader
// never observes a partially written lock file.
func Write(path string, lf *LockFile) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	body, err := json.MarshalIndent(lf, "", "  ")
	if err != nil {
		return fmt.Errorf("lockfile: marshal: %w", err)
	}

	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return fmt.Errorf("lockfile: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(body); err != nil {
		return fmt.Errorf("lockfile: write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("lockfile: sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("lockfile: close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("lockfile: rename into place: %w", err)
	}
	return nil
}

// Read loads and parses path.
func Read(path string) (*LockFile, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lockfile: read %q: %w", path, err)
	}
	var lf LockFile
	if err := json.Unmarshal(body, &lf); err != nil {
		return nil, fmt.Errorf("lockfile: parse %q: %w", path, err)
	}
	return &lf, nil
}

// Exists reports whether a lock file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Stamp sets CreatedAt to the current time in RFC3339. Callers invoke
// this once, immediately before Write, so CreatedAt reflects when the
// lock file actually hit disk rather than when the run started.
func Stamp(lf *LockFile, now time.Time) {
	lf.CreatedAt = now.Format(time.RFC3339)
}
