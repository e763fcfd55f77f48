// Package engine executes a generation plan against a schema, producing
// every table's rows in insertion order plus the deferred FK updates that
// resolve cycle-broken edges.
package engine

import (
	"math/rand/v2"
	"strings"
	"time"

	"github.com/kclaka/seedkit/internal/correlate"
	"github.com/kclaka/seedkit/internal/fkpool"
	"github.com/kclaka/seedkit/internal/genplan"
	"github.com/kclaka/seedkit/internal/profiles"
	"github.com/kclaka/seedkit/internal/provider"
	"github.com/kclaka/seedkit/internal/schema"
	"github.com/kclaka/seedkit/internal/seedkiterr"
	"github.com/kclaka/seedkit/internal/unique"
	"github.com/kclaka/seedkit/internal/value"
)

// Row is one generated table row, in column order with lookup by name.
type Row struct {
	Columns []string
	Values  map[string]value.Value
}

// Get returns the value of column name, or Null if absent.
func (r Row) Get(name string) value.Value {
	if v, ok := r.Values[name]; ok {
		return v
	}
	return value.Null()
}

func newRow(capacity int) Row {
	return Row{Columns: make([]string, 0, capacity), Values: make(map[string]value.Value, capacity)}
}

func (r *Row) set(column string, v value.Value) {
	if _, exists := r.Values[column]; !exists {
		r.Columns = append(r.Columns, column)
	}
	r.Values[column] = v
}

// DeferredUpdate is a post-insert UPDATE needed to resolve a cycle-broken FK.
type DeferredUpdate struct {
	TableName  string
	RowIndex   int
	ColumnName string
	Value      value.Value
}

// GeneratedData is the full output of a generation run.
type GeneratedData struct {
	Tables          map[string][]Row
	TableOrder      []string
	DeferredUpdates []DeferredUpdate
}

// ProgressFunc is invoked periodically during generation with the table
// currently being filled and (rowsDone, rowsTotal) across the whole run.
type ProgressFunc func(table string, rowsDone, rowsTotal int)

// progressBatchSize avoids a callback on every single row.
const progressBatchSize = 100

// Execute runs plan against db, producing every table's rows.
//
// Clean-slate assumption: auto-increment primary keys are synthesized as
// sequential IDs starting at plan.SequenceOffset+1, which assumes the
// target tables are empty before insertion. The direct inserter does not
// read back database-assigned IDs, so child FKs and deferred updates use
// these synthesized values.
func Execute(plan *genplan.Plan, db *schema.Database, progress ProgressFunc) (*GeneratedData, error) {
	rng := rand.New(rand.NewPCG(plan.Seed, plan.Seed>>32|1))
	pool := fkpool.New()
	tracker := unique.New()

	for _, tp := range plan.TablePlans {
		table := db.FindTable(tp.TableName)
		if table == nil {
			continue
		}
		for _, uc := range table.Uniques {
			tracker.Register(tp.TableName, uc.Columns)
		}
		if len(table.PrimaryKey) > 0 {
			tracker.Register(tp.TableName, table.PrimaryKey)
		}
	}

	totalRows := 0
	for _, tp := range plan.TablePlans {
		totalRows += tp.RowCount
	}
	rowsGenerated := 0

	data := &GeneratedData{
		Tables:     make(map[string][]Row),
		TableOrder: make([]string, 0, len(plan.TablePlans)),
	}

	for _, tp := range plan.TablePlans {
		table := db.FindTable(tp.TableName)
		rows := make([]Row, 0, tp.RowCount)

		for rowIdx := 0; rowIdx < tp.RowCount; rowIdx++ {
			row, err := generateRow(tp, table, rowIdx, rng, pool, tracker, plan.BaseTime)
			if err != nil {
				return nil, err
			}

			recordPrimaryKey(pool, tp.TableName, table, row, rowIdx, plan.SequenceOffset)

			rows = append(rows, row)
			rowsGenerated++
			if progress != nil && (rowsGenerated%progressBatchSize == 0 || rowsGenerated == totalRows) {
				progress(tp.TableName, rowsGenerated, totalRows)
			}
		}

		data.Tables[tp.TableName] = rows
		data.TableOrder = append(data.TableOrder, tp.TableName)
	}

	for _, edge := range plan.DeferredEdges {
		rows, ok := data.Tables[edge.SourceTable]
		if !ok {
			continue
		}
		for rowIdx := range rows {
			for i, srcCol := range edge.SourceColumns {
				tgtCol := edge.TargetColumns[i]
				if v, ok := pool.PickReference(edge.TargetTable, tgtCol, rng); ok {
					data.DeferredUpdates = append(data.DeferredUpdates, DeferredUpdate{
						TableName:  edge.SourceTable,
						RowIndex:   rowIdx,
						ColumnName: srcCol,
						Value:      v,
					})
				}
			}
		}
	}

	return data, nil
}

func recordPrimaryKey(pool *fkpool.Pool, tableName string, table *schema.Table, row Row, rowIdx int, sequenceOffset uint64) {
	if table == nil || len(table.PrimaryKey) == 0 {
		return
	}
	for _, pkCol := range table.PrimaryKey {
		if v, ok := row.Values[pkCol]; ok {
			if !v.IsNull() {
				pool.Record(tableName, pkCol, v)
			}
			continue
		}
		col := table.FindColumn(pkCol)
		if col != nil && (col.AutoIncrement || col.Type.IsSerial()) {
			id := int64(sequenceOffset) + int64(rowIdx) + 1
			pool.Record(tableName, pkCol, value.Int(id))
		}
	}
}

// compositeUniqueColumns returns every multi-column unique (and PK)
// constraint on table.
func compositeUniqueColumns(table *schema.Table) [][]string {
	if table == nil {
		return nil
	}
	var sets [][]string
	for _, uc := range table.Uniques {
		if len(uc.Columns) > 1 {
			sets = append(sets, uc.Columns)
		}
	}
	if len(table.PrimaryKey) > 1 {
		sets = append(sets, table.PrimaryKey)
	}
	return sets
}

// generateRow produces one row, retrying the whole row when a composite
// unique constraint collides (single-column collisions are retried more
// cheaply inside generateRowCandidate).
func generateRow(tp *genplan.TablePlan, table *schema.Table, rowIndex int, rng *rand.Rand, pool *fkpool.Pool, tracker *unique.Tracker, baseTime time.Time) (Row, error) {
	composite := compositeUniqueColumns(table)

	attempts := 0
	for {
		row, err := generateRowCandidate(tp, table, rowIndex, rng, pool, tracker, baseTime)
		if err != nil {
			return Row{}, err
		}

		collision := false
		for _, columns := range composite {
			values := make([]value.Value, 0, len(columns))
			complete := true
			for _, col := range columns {
				v, ok := row.Values[col]
				if !ok {
					complete = false
					break
				}
				values = append(values, v)
			}
			if complete && !tracker.TryInsert(tp.TableName, columns, values) {
				collision = true
				break
			}
		}

		if !collision {
			return row, nil
		}

		attempts++
		if attempts >= unique.DefaultMaxRowRetries {
			cols := make([]string, 0, len(composite))
			for _, c := range composite {
				cols = append(cols, strings.Join(c, ", "))
			}
			return Row{}, &seedkiterr.CompositeUniqueExhaustedError{
				Table:      tp.TableName,
				Columns:    cols,
				RowIndex:   rowIndex,
				MaxRetries: unique.DefaultMaxRowRetries,
			}
		}
	}
}

// generateRowCandidate generates one row's worth of values without
// rechecking composite unique constraints.
func generateRowCandidate(tp *genplan.TablePlan, table *schema.Table, rowIndex int, rng *rand.Rand, pool *fkpool.Pool, tracker *unique.Tracker, baseTime time.Time) (Row, error) {
	row := newRow(len(tp.ColumnPlans))

	correlatedValues := make(map[string]value.Value)
	for _, groupPlan := range tp.CorrelationGroups {
		for _, cv := range correlate.Generate(groupPlan, rowIndex, rng, baseTime) {
			correlatedValues[cv.Column] = cv.Value
		}
	}

	for _, cp := range tp.ColumnPlans {
		if cp.Nullable && cp.NullProbability > 0 {
			if rng.Float64() < cp.NullProbability {
				row.set(cp.ColumnName, value.Null())
				continue
			}
		}

		var v value.Value
		skip := false

		switch cp.Strategy.Kind {
		case genplan.StrategyAutoIncrement, genplan.StrategySkip:
			skip = true

		case genplan.StrategyDeferred:
			v = value.Null()

		case genplan.StrategyForeignKeyReference:
			picked, ok := pool.PickReference(cp.Strategy.ReferencedTable, cp.Strategy.ReferencedColumn, rng)
			if ok {
				v = picked
			} else if cp.Nullable {
				v = value.Null()
			} else {
				return Row{}, &seedkiterr.ForeignKeyResolutionError{
					SourceTable:  tp.TableName,
					SourceColumn: cp.ColumnName,
					TargetTable:  cp.Strategy.ReferencedTable,
					TargetColumn: cp.Strategy.ReferencedColumn,
				}
			}

		case genplan.StrategyEnumValue:
			if len(cp.Strategy.EnumValues) == 0 {
				v = value.Null()
			} else {
				v = value.String(cp.Strategy.EnumValues[rng.IntN(len(cp.Strategy.EnumValues))])
			}

		case genplan.StrategyCorrelated:
			if cv, ok := correlatedValues[cp.ColumnName]; ok {
				v = cv
				delete(correlatedValues, cp.ColumnName)
			} else {
				v = provider.Generate(cp.SemanticType, rng, rowIndex, cp.CheckConstraints, baseTime)
			}

		case genplan.StrategyDistribution:
			v = sampleDistribution(cp, rng)

		case genplan.StrategySemanticProvider:
			v = provider.Generate(cp.SemanticType, rng, rowIndex, cp.CheckConstraints, baseTime)

		case genplan.StrategyCustom:
			return Row{}, &seedkiterr.CustomProviderUnsupportedError{
				ProviderPath: cp.Strategy.CustomProviderPath,
				Table:        tp.TableName,
				Column:       cp.ColumnName,
			}

		case genplan.StrategyValueList:
			if len(cp.Strategy.ValueListValues) == 0 {
				v = value.Null()
			} else if len(cp.Strategy.ValueListWeights) == len(cp.Strategy.ValueListValues) {
				v = weightedPick(cp.Strategy.ValueListValues, cp.Strategy.ValueListWeights, rng)
			} else {
				v = value.String(cp.Strategy.ValueListValues[rng.IntN(len(cp.Strategy.ValueListValues))])
			}

		default:
			v = provider.Generate(cp.SemanticType, rng, rowIndex, cp.CheckConstraints, baseTime)
		}

		if skip {
			continue
		}

		if needsSingleColumnUnique(table, cp.ColumnName) && !v.IsNull() {
			final := v
			colAttempts := 0
			for !tracker.TryInsertSingle(tp.TableName, cp.ColumnName, final) {
				colAttempts++
				if colAttempts >= tracker.MaxRetries {
					return Row{}, &seedkiterr.UniqueExhaustedError{
						Table:      tp.TableName,
						Column:     cp.ColumnName,
						RowIndex:   rowIndex,
						MaxRetries: tracker.MaxRetries,
					}
				}
				final = provider.Generate(cp.SemanticType, rng, rowIndex+colAttempts, cp.CheckConstraints, baseTime)
			}
			row.set(cp.ColumnName, final)
			continue
		}

		row.set(cp.ColumnName, v)
	}

	return row, nil
}

func needsSingleColumnUnique(table *schema.Table, column string) bool {
	if table == nil {
		return false
	}
	for _, uc := range table.Uniques {
		if len(uc.Columns) == 1 && uc.Columns[0] == column {
			return true
		}
	}
	return len(table.PrimaryKey) == 1 && table.PrimaryKey[0] == column
}

// sampleDistribution draws from a profiled categorical/numeric distribution.
func sampleDistribution(cp *genplan.ColumnPlan, rng *rand.Rand) value.Value {
	dist := cp.Strategy.Distribution
	switch dist.Kind {
	case profiles.KindCategorical:
		if len(dist.Values) == 0 {
			return value.Null()
		}
		total := 0.0
		for _, e := range dist.Values {
			total += e.Frequency
		}
		if total <= 0 {
			return value.String(dist.Values[rng.IntN(len(dist.Values))].Value)
		}
		roll := rng.Float64() * total
		cumulative := 0.0
		for _, e := range dist.Values {
			cumulative += e.Frequency
			if roll < cumulative {
				return value.String(e.Value)
			}
		}
		return value.String(dist.Values[len(dist.Values)-1].Value)
	case profiles.KindNumeric:
		span := dist.Max - dist.Min
		if span <= 0 {
			return value.Float(dist.Min)
		}
		return value.Float(dist.Min + rng.Float64()*span)
	default:
		return value.Null()
	}
}

// weightedPick does O(n) cumulative-distribution selection; negative
// weights are clamped to zero and all-zero weights fall back to uniform.
func weightedPick(values []string, weights []float64, rng *rand.Rand) value.Value {
	if len(values) == 1 {
		return value.String(values[0])
	}

	total := 0.0
	clamped := make([]float64, len(weights))
	for i, w := range weights {
		if w < 0 {
			w = 0
		}
		clamped[i] = w
		total += w
	}

	if total <= 0 {
		return value.String(values[rng.IntN(len(values))])
	}

	roll := rng.Float64() * total
	cumulative := 0.0
	for i, w := range clamped {
		cumulative += w
		if roll < cumulative {
			return value.String(values[i])
		}
	}
	return value.String(values[len(values)-1])
}
