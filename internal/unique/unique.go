// Package unique tracks generated values per unique constraint so the
// engine can detect and retry collisions, for both single-column and
// composite (multi-column) constraints.
package unique

import (
	"strings"

	"github.com/kclaka/seedkit/internal/value"
)

// DefaultMaxRetries bounds single-column regeneration attempts before the
// engine reports UniqueExhausted.
const DefaultMaxRetries = 1000

// DefaultMaxRowRetries bounds whole-row regeneration attempts for
// composite unique constraints before the engine reports
// CompositeUniqueExhausted.
const DefaultMaxRowRetries = 50

// Tracker records the set of values seen so far for every registered
// unique constraint.
type Tracker struct {
	seen       map[string]map[string]struct{}
	MaxRetries int
}

// New returns an empty tracker with the default retry budget.
func New() *Tracker {
	return &Tracker{
		seen:       make(map[string]map[string]struct{}),
		MaxRetries: DefaultMaxRetries,
	}
}

// Register declares a unique constraint over columns in table, so later
// TryInsert calls against it are actually checked (an unregistered
// constraint key allows anything — callers only register real
// constraints read off the schema).
func (t *Tracker) Register(table string, columns []string) {
	key := constraintKey(table, columns)
	if _, ok := t.seen[key]; !ok {
		t.seen[key] = make(map[string]struct{})
	}
}

// TryInsert checks whether the tuple values (one per column, in column
// order) has been seen before for this constraint. If not, it records the
// tuple and returns true; if it's a duplicate, returns false and records
// nothing.
func (t *Tracker) TryInsert(table string, columns []string, values []value.Value) bool {
	key := constraintKey(table, columns)
	seen, ok := t.seen[key]
	if !ok {
		return true
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.ToUniqueKey()
	}
	compositeKey := strings.Join(parts, "|")
	if _, exists := seen[compositeKey]; exists {
		return false
	}
	seen[compositeKey] = struct{}{}
	return true
}

// TryInsertSingle is TryInsert specialized to a single-column constraint.
func (t *Tracker) TryInsertSingle(table, column string, v value.Value) bool {
	return t.TryInsert(table, []string{column}, []value.Value{v})
}

// Count returns how many distinct values have been recorded for a
// constraint.
func (t *Tracker) Count(table string, columns []string) int {
	return len(t.seen[constraintKey(table, columns)])
}

func constraintKey(table string, columns []string) string {
	return table + ":" + strings.Join(columns, ",")
}
