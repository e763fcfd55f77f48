// Package fkpool tracks generated primary-key values so child tables can
// sample valid foreign-key references as parent tables are generated, in
// topological order, ahead of them.
package fkpool

import (
	"math/rand/v2"

	"github.com/kclaka/seedkit/internal/value"
)

type poolKey struct {
	table  string
	column string
}

// Pool holds, per (table, column), every PK value generated for that
// column so far.
type Pool struct {
	pools map[poolKey][]value.Value
}

// New returns an empty pool.
func New() *Pool {
	return &Pool{pools: make(map[poolKey][]value.Value)}
}

// Record appends a generated value to the pool for (table, column),
// typically called once per row as each parent table's PK materializes.
func (p *Pool) Record(table, column string, v value.Value) {
	key := poolKey{table, column}
	p.pools[key] = append(p.pools[key], v)
}

// PickReference samples a uniformly random value from the pool for
// (table, column). Returns false if the pool is empty or unknown; the
// engine then emits Null for a nullable FK column and reports a
// ForeignKeyResolutionError for a NOT NULL one.
func (p *Pool) PickReference(table, column string, rng *rand.Rand) (value.Value, bool) {
	pool, ok := p.pools[poolKey{table, column}]
	if !ok || len(pool) == 0 {
		return value.Null(), false
	}
	return pool[rng.IntN(len(pool))], true
}

// Size returns how many values are pooled for (table, column).
func (p *Pool) Size(table, column string) int {
	return len(p.pools[poolKey{table, column}])
}

// All returns every pooled value for (table, column), used by deferred
// FK resolution after all tables have been generated.
func (p *Pool) All(table, column string) []value.Value {
	return p.pools[poolKey{table, column}]
}
