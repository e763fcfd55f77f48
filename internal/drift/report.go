package drift

import (
	"fmt"
	"sort"

	"github.com/kclaka/seedkit/internal/schema"
)

// ColumnRef names a single column within a table, used by Report to
// identify added/removed/changed columns.
type ColumnRef struct {
	Table  string `json:"table"`
	Column string `json:"column"`
}

// ColumnChange describes a column whose definition changed between two
// schema snapshots.
type ColumnChange struct {
	Table  string `json:"table"`
	Column string `json:"column"`
	Kind   string `json:"kind"` // "type_changed" or "nullable_changed"
	Old    string `json:"old"`
	New    string `json:"new"`
}

// Report is the structural diff between two schema snapshots. A Report
// with HasDrift false carries no other populated fields.
type Report struct {
	HasDrift bool `json:"has_drift"`

	NewTables     []string `json:"new_tables,omitempty"`
	RemovedTables []string `json:"removed_tables,omitempty"`

	NewColumns     []ColumnRef    `json:"new_columns,omitempty"`
	RemovedColumns []ColumnRef    `json:"removed_columns,omitempty"`
	ChangedColumns []ColumnChange `json:"changed_columns,omitempty"`

	AddedForeignKeys   []string `json:"added_foreign_keys,omitempty"`
	RemovedForeignKeys []string `json:"removed_foreign_keys,omitempty"`

	AddedUniques   []string `json:"added_uniques,omitempty"`
	RemovedUniques []string `json:"removed_uniques,omitempty"`

	AddedChecks   []string `json:"added_checks,omitempty"`
	RemovedChecks []string `json:"removed_checks,omitempty"`
}

// sortAll puts every vector into a deterministic order, so two reports
// describing the same drift compare equal regardless of map iteration
// order during construction.
func (r *Report) sortAll() {
	sort.Strings(r.NewTables)
	sort.Strings(r.RemovedTables)
	sort.Slice(r.NewColumns, func(i, j int) bool { return columnRefKey(r.NewColumns[i]) < columnRefKey(r.NewColumns[j]) })
	sort.Slice(r.RemovedColumns, func(i, j int) bool {
		return columnRefKey(r.RemovedColumns[i]) < columnRefKey(r.RemovedColumns[j])
	})
	sort.Slice(r.ChangedColumns, func(i, j int) bool {
		a, b := r.ChangedColumns[i], r.ChangedColumns[j]
		return a.Table+"."+a.Column+"."+a.Kind < b.Table+"."+b.Column+"."+b.Kind
	})
	sort.Strings(r.AddedForeignKeys)
	sort.Strings(r.RemovedForeignKeys)
	sort.Strings(r.AddedUniques)
	sort.Strings(r.RemovedUniques)
	sort.Strings(r.AddedChecks)
	sort.Strings(r.RemovedChecks)
}

func columnRefKey(c ColumnRef) string { return c.Table + "." + c.Column }

// CheckDrift compares snapshot (the schema recorded at lock time, whose
// content hash is storedHash) against current (a freshly introspected
// schema). If current hashes identically to storedHash, it returns an
// empty, no-drift Report without walking the schemas table by table. On
// a hash mismatch it computes the detailed structural diff.
func CheckDrift(snapshot *schema.Database, storedHash string, current *schema.Database) *Report {
	if Hash(current) == storedHash {
		return &Report{}
	}
	return diffSchemas(snapshot, current)
}

func diffSchemas(old, cur *schema.Database) *Report {
	r := &Report{}

	oldTables := tableIndex(old)
	curTables := tableIndex(cur)

	for name := range curTables {
		if _, ok := oldTables[name]; !ok {
			r.NewTables = append(r.NewTables, name)
		}
	}
	for name := range oldTables {
		if _, ok := curTables[name]; !ok {
			r.RemovedTables = append(r.RemovedTables, name)
		}
	}

	for name, curTable := range curTables {
		oldTable, ok := oldTables[name]
		if !ok {
			continue
		}
		diffTable(r, name, oldTable, curTable)
	}

	r.HasDrift = len(r.NewTables) > 0 || len(r.RemovedTables) > 0 ||
		len(r.NewColumns) > 0 || len(r.RemovedColumns) > 0 || len(r.ChangedColumns) > 0 ||
		len(r.AddedForeignKeys) > 0 || len(r.RemovedForeignKeys) > 0 ||
		len(r.AddedUniques) > 0 || len(r.RemovedUniques) > 0 ||
		len(r.AddedChecks) > 0 || len(r.RemovedChecks) > 0

	r.sortAll()
	return r
}

func tableIndex(db *schema.Database) map[string]*schema.Table {
	idx := make(map[string]*schema.Table, len(db.Tables))
	for _, t := range db.Tables {
		idx[t.Name] = t
	}
	return idx
}

func diffTable(r *Report, tableName string, old, cur *schema.Table) {
	oldCols := columnIndex(old)
	curCols := columnIndex(cur)

	for name, curCol := range curCols {
		oldCol, ok := oldCols[name]
		if !ok {
			r.NewColumns = append(r.NewColumns, ColumnRef{Table: tableName, Column: name})
			continue
		}
		if oldCol.Type != curCol.Type {
			r.ChangedColumns = append(r.ChangedColumns, ColumnChange{
				Table: tableName, Column: name, Kind: "type_changed",
				Old: string(oldCol.Type), New: string(curCol.Type),
			})
		}
		if oldCol.Nullable != curCol.Nullable {
			r.ChangedColumns = append(r.ChangedColumns, ColumnChange{
				Table: tableName, Column: name, Kind: "nullable_changed",
				Old: fmt.Sprintf("%t", oldCol.Nullable), New: fmt.Sprintf("%t", curCol.Nullable),
			})
		}
	}
	for name := range oldCols {
		if _, ok := curCols[name]; !ok {
			r.RemovedColumns = append(r.RemovedColumns, ColumnRef{Table: tableName, Column: name})
		}
	}

	oldFKs := fkIndex(tableName, old)
	curFKs := fkIndex(tableName, cur)
	for key := range curFKs {
		if _, ok := oldFKs[key]; !ok {
			r.AddedForeignKeys = append(r.AddedForeignKeys, key)
		}
	}
	for key := range oldFKs {
		if _, ok := curFKs[key]; !ok {
			r.RemovedForeignKeys = append(r.RemovedForeignKeys, key)
		}
	}

	oldUniques := uniqueIndex(old)
	curUniques := uniqueIndex(cur)
	for key := range curUniques {
		if _, ok := oldUniques[key]; !ok {
			r.AddedUniques = append(r.AddedUniques, tableName+"("+key+")")
		}
	}
	for key := range oldUniques {
		if _, ok := curUniques[key]; !ok {
			r.RemovedUniques = append(r.RemovedUniques, tableName+"("+key+")")
		}
	}

	oldChecks := checkIndex(old)
	curChecks := checkIndex(cur)
	for expr := range curChecks {
		if _, ok := oldChecks[expr]; !ok {
			r.AddedChecks = append(r.AddedChecks, tableName+": "+expr)
		}
	}
	for expr := range oldChecks {
		if _, ok := curChecks[expr]; !ok {
			r.RemovedChecks = append(r.RemovedChecks, tableName+": "+expr)
		}
	}
}

func columnIndex(t *schema.Table) map[string]*schema.Column {
	idx := make(map[string]*schema.Column, len(t.Columns))
	for _, c := range t.Columns {
		idx[c.Name] = c
	}
	return idx
}

// fkIndex keys each foreign key by "table.(cols) -> table(cols)": the
// source table name, its FK columns, then the referenced table and columns.
func fkIndex(tableName string, t *schema.Table) map[string]bool {
	idx := make(map[string]bool, len(t.ForeignKeys))
	for _, fk := range t.ForeignKeys {
		key := fmt.Sprintf("%s.(%s) -> %s(%s)", tableName, joinCols(fk.SourceColumns), fk.ReferencedTable, joinCols(fk.ReferencedColumns))
		idx[key] = true
	}
	return idx
}

func uniqueIndex(t *schema.Table) map[string]bool {
	idx := make(map[string]bool, len(t.Uniques))
	for _, u := range t.Uniques {
		idx[joinCols(u.Columns)] = true
	}
	return idx
}

func checkIndex(t *schema.Table) map[string]bool {
	idx := make(map[string]bool, len(t.Checks))
	for _, c := range t.Checks {
		idx[c.Expression] = true
	}
	return idx
}
