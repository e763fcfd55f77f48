// Package genplan turns a schema, its column classifications, and an
// insertion order into a concrete, deterministic generation plan: per
// table, per column, exactly how each value will be produced.
package genplan

import (
	"time"

	"github.com/kclaka/seedkit/internal/classify"
	"github.com/kclaka/seedkit/internal/config"
	"github.com/kclaka/seedkit/internal/graph"
	"github.com/kclaka/seedkit/internal/profiles"
	"github.com/kclaka/seedkit/internal/schema"
)

// StrategyKind discriminates how a column's value is produced.
type StrategyKind int

const (
	StrategyAutoIncrement StrategyKind = iota
	StrategyForeignKeyReference
	StrategySemanticProvider
	StrategyEnumValue
	StrategyCorrelated
	StrategyDeferred
	StrategySkip
	StrategyCustom
	StrategyValueList
	StrategyDistribution
)

// Strategy is the closed variant set of generation strategies. Only the
// fields relevant to Kind are meaningful.
type Strategy struct {
	Kind StrategyKind

	ReferencedTable  string // StrategyForeignKeyReference
	ReferencedColumn string // StrategyForeignKeyReference

	EnumValues []string // StrategyEnumValue

	GroupIndex int // StrategyCorrelated — index into TablePlan.CorrelationGroups

	CustomProviderPath string // StrategyCustom — always fails at execution

	ValueListValues  []string  // StrategyValueList
	ValueListWeights []float64 // StrategyValueList, optional

	Distribution profiles.ColumnDistribution // StrategyDistribution
}

// ColumnPlan is the generation plan for a single column.
type ColumnPlan struct {
	ColumnName      string
	SemanticType    classify.SemanticType
	Strategy        Strategy
	Nullable        bool
	NullProbability float64
	CheckConstraints []*schema.ParsedCheck
}

// CorrelationGroupPlan is the plan for a table's jointly-generated column
// cluster.
type CorrelationGroupPlan struct {
	Group   classify.CorrelationGroup
	Columns []classify.ColumnClassification
}

// TablePlan is the generation plan for a single table.
type TablePlan struct {
	TableName         string
	RowCount          int
	ColumnPlans       []*ColumnPlan
	CorrelationGroups []*CorrelationGroupPlan
}

// Plan is the complete, deterministic generation plan for a run.
type Plan struct {
	TablePlans     []*TablePlan
	DeferredEdges  []*graph.Edge
	Seed           uint64
	DefaultRowCount int
	BaseTime       time.Time
	SequenceOffset uint64
}

// BuildOptions carries everything Build needs to assemble a Plan.
type BuildOptions struct {
	Schema            *schema.Database
	Classifications   map[classify.TableColumn]classify.SemanticType
	InsertionOrder    []string
	DeferredEdges     []*graph.Edge
	DefaultRowCount   int
	TableRowOverrides map[string]int
	Seed              uint64
	BaseTime          time.Time // zero means "capture now" — callers pass an explicit value for reproducibility
	ColumnOverrides   map[string]config.ColumnOverride
	Profiles          *profiles.Lookup
}

// Build assembles a Plan. BaseTime is pinned by the caller (fresh runs
// capture wall-clock time once before calling Build; lockfile-restored
// runs pass the stored base_time) so regeneration from a lockfile produces
// identical timestamps regardless of when it runs. A zero BaseTime is
// replaced by the current UTC time, truncated to the second.
func Build(opts BuildOptions) *Plan {
	baseTime := opts.BaseTime
	if baseTime.IsZero() {
		baseTime = time.Now().UTC().Truncate(time.Second)
	}
	deferredColumns := make(map[string]bool)
	for _, e := range opts.DeferredEdges {
		for _, col := range e.SourceColumns {
			deferredColumns[e.SourceTable+"."+col] = true
		}
	}

	var tablePlans []*TablePlan
	for _, tableName := range opts.InsertionOrder {
		table := opts.Schema.FindTable(tableName)
		if table == nil {
			continue
		}
		tablePlans = append(tablePlans, buildTablePlan(table, tableName, opts, deferredColumns))
	}

	return &Plan{
		TablePlans:      tablePlans,
		DeferredEdges:   opts.DeferredEdges,
		Seed:            opts.Seed,
		DefaultRowCount: opts.DefaultRowCount,
		BaseTime:        baseTime,
		SequenceOffset:  0,
	}
}

func buildTablePlan(table *schema.Table, tableName string, opts BuildOptions, deferredColumns map[string]bool) *TablePlan {
	rowCount := rowCountFor(tableName, table, opts)

	groupMap := make(map[classify.CorrelationGroup][]classify.ColumnClassification)
	var groupOrder []classify.CorrelationGroup
	for _, col := range table.Columns {
		st, ok := opts.Classifications[classify.TableColumn{Table: tableName, Column: col.Name}]
		if !ok {
			continue
		}
		group := classify.CorrelationGroupOf(st)
		if group == classify.NoCorrelationGroup {
			continue
		}
		if _, seen := groupMap[group]; !seen {
			groupOrder = append(groupOrder, group)
		}
		groupMap[group] = append(groupMap[group], classify.ColumnClassification{Column: col.Name, SemanticType: st})
	}

	var correlationGroups []*CorrelationGroupPlan
	correlatedColumnGroupIndex := make(map[string]int)
	for _, group := range groupOrder {
		cols := groupMap[group]
		if len(cols) < 2 {
			continue
		}
		groupIndex := len(correlationGroups)
		for _, c := range cols {
			correlatedColumnGroupIndex[c.Column] = groupIndex
		}
		correlationGroups = append(correlationGroups, &CorrelationGroupPlan{Group: group, Columns: cols})
	}

	var columnPlans []*ColumnPlan
	for _, col := range table.Columns {
		st := opts.Classifications[classify.TableColumn{Table: tableName, Column: col.Name}]
		isPK := isPrimaryKeyColumn(table, col.Name)

		strategy := resolveStrategy(table, tableName, col, st, isPK, opts, deferredColumns, correlatedColumnGroupIndex)

		var checks []*schema.ParsedCheck
		for _, cc := range table.Checks {
			if cc.Parsed != nil && cc.Parsed.AppliesToColumn(col.Name) {
				checks = append(checks, cc.Parsed)
			}
		}

		nullProbability := 0.0
		if col.Nullable && !isPK {
			if st == classify.DeletedAt {
				nullProbability = 0.8
			} else {
				nullProbability = 0.05
			}
		}

		columnPlans = append(columnPlans, &ColumnPlan{
			ColumnName:       col.Name,
			SemanticType:     st,
			Strategy:         strategy,
			Nullable:         col.Nullable,
			NullProbability:  nullProbability,
			CheckConstraints: checks,
		})
	}

	return &TablePlan{
		TableName:         tableName,
		RowCount:          rowCount,
		ColumnPlans:       columnPlans,
		CorrelationGroups: correlationGroups,
	}
}

func rowCountFor(tableName string, table *schema.Table, opts BuildOptions) int {
	if explicit, ok := opts.TableRowOverrides[tableName]; ok {
		return explicit
	}
	for _, fk := range table.ForeignKeys {
		if ratio, ok := opts.Profiles.RatioFor(tableName, fk.ReferencedTable); ok {
			parentCount := opts.DefaultRowCount
			if explicit, ok := opts.TableRowOverrides[fk.ReferencedTable]; ok {
				parentCount = explicit
			}
			return int(roundHalfAwayFromZero(float64(parentCount) * ratio))
		}
	}
	return opts.DefaultRowCount
}

func roundHalfAwayFromZero(f float64) float64 {
	if f >= 0 {
		return float64(int64(f + 0.5))
	}
	return float64(int64(f - 0.5))
}

func isPrimaryKeyColumn(table *schema.Table, columnName string) bool {
	for _, pk := range table.PrimaryKey {
		if pk == columnName {
			return true
		}
	}
	return false
}

func resolveStrategy(
	table *schema.Table,
	tableName string,
	col *schema.Column,
	st classify.SemanticType,
	isPK bool,
	opts BuildOptions,
	deferredColumns map[string]bool,
	correlatedColumnGroupIndex map[string]int,
) Strategy {
	overrideKey := tableName + "." + col.Name
	if override, ok := opts.ColumnOverrides[overrideKey]; ok {
		if len(override.Values) > 0 {
			return Strategy{Kind: StrategyValueList, ValueListValues: override.Values, ValueListWeights: override.Weights}
		}
		if override.Custom != "" {
			return Strategy{Kind: StrategyCustom, CustomProviderPath: override.Custom}
		}
	}

	if col.AutoIncrement || col.Type.IsSerial() {
		if isPK {
			return Strategy{Kind: StrategyAutoIncrement}
		}
		return Strategy{Kind: StrategySemanticProvider}
	}

	if deferredColumns[tableName+"."+col.Name] {
		return Strategy{Kind: StrategyDeferred}
	}

	for _, fk := range table.ForeignKeys {
		if len(fk.SourceColumns) == 1 && fk.SourceColumns[0] == col.Name {
			if contains(opts.InsertionOrder, fk.ReferencedTable) {
				return Strategy{Kind: StrategyForeignKeyReference, ReferencedTable: fk.ReferencedTable, ReferencedColumn: fk.ReferencedColumns[0]}
			}
			return Strategy{Kind: StrategySemanticProvider}
		}
	}

	if dist, ok := opts.Profiles.ColumnDistributionFor(tableName, col.Name); ok {
		return Strategy{Kind: StrategyDistribution, Distribution: dist}
	}

	if len(col.EnumValues) > 0 {
		return Strategy{Kind: StrategyEnumValue, EnumValues: col.EnumValues}
	}

	if groupIndex, ok := correlatedColumnGroupIndex[col.Name]; ok {
		return Strategy{Kind: StrategyCorrelated, GroupIndex: groupIndex}
	}

	return Strategy{Kind: StrategySemanticProvider}
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// FilterInsertionOrder narrows insertionOrder by include/exclude lists.
// include, when non-empty, keeps only the named tables plus their FK
// dependencies (transitively); exclude then removes listed tables from
// whatever remains. The original topological order is preserved.
func FilterInsertionOrder(insertionOrder []string, db *schema.Database, include, exclude []string) []string {
	if len(include) == 0 && len(exclude) == 0 {
		return insertionOrder
	}

	wanted := make(map[string]bool)
	if len(include) == 0 {
		for _, t := range insertionOrder {
			wanted[t] = true
		}
	} else {
		queue := append([]string(nil), include...)
		for _, t := range include {
			wanted[t] = true
		}
		for len(queue) > 0 {
			n := len(queue) - 1
			tableName := queue[n]
			queue = queue[:n]
			table := db.FindTable(tableName)
			if table == nil {
				continue
			}
			for _, fk := range table.ForeignKeys {
				if !wanted[fk.ReferencedTable] {
					wanted[fk.ReferencedTable] = true
					queue = append(queue, fk.ReferencedTable)
				}
			}
		}
	}

	for _, t := range exclude {
		delete(wanted, t)
	}

	var result []string
	for _, t := range insertionOrder {
		if wanted[t] {
			result = append(result, t)
		}
	}
	return result
}
