// Package profiles models distribution profiles sampled from a production
// database (seedkit.distributions.json): per-table row counts and, per
// column, either a categorical weighted value set, a numeric range, or a
// row-count ratio relative to another table.
package profiles

// DistributionKind discriminates a column's distribution shape.
type DistributionKind int

const (
	KindCategorical DistributionKind = iota
	KindNumeric
	KindRatio
)

// CategoricalEntry is one (value, frequency) pair of a categorical
// distribution; frequencies need not sum to 1 — the weighted-pick
// algorithm normalizes.
type CategoricalEntry struct {
	Value     string
	Frequency float64
}

// ColumnDistribution is one column's sampled production distribution.
// Exactly the fields for Kind are meaningful; the rest are zero.
type ColumnDistribution struct {
	Kind DistributionKind

	// KindCategorical
	Values []CategoricalEntry

	// KindNumeric
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64

	// KindRatio — not a generation strategy at column level; only
	// consulted by the planner to scale a table's row count relative to
	// RelatedTable.
	RelatedTable string
	Ratio        float64
}

// TableProfile is one table's distribution profile.
type TableProfile struct {
	TableName           string
	RowCount            int
	ColumnDistributions map[string]ColumnDistribution
}

// Lookup indexes a slice of TableProfile for plan-building: generation
// distributions (excluding Ratio entries, which only affect row counts)
// and ratio entries, both keyed by (table, column) / (table, relatedTable).
type Lookup struct {
	distributions map[tableColumn]ColumnDistribution
	ratios        map[tableColumn]float64
}

type tableColumn struct {
	table  string
	column string
}

// BuildLookup indexes profiles for fast plan-time lookups.
func BuildLookup(tableProfiles []TableProfile) *Lookup {
	l := &Lookup{
		distributions: make(map[tableColumn]ColumnDistribution),
		ratios:        make(map[tableColumn]float64),
	}
	for _, p := range tableProfiles {
		for col, dist := range p.ColumnDistributions {
			if dist.Kind == KindRatio {
				l.ratios[tableColumn{p.TableName, dist.RelatedTable}] = dist.Ratio
				continue
			}
			l.distributions[tableColumn{p.TableName, col}] = dist
		}
	}
	return l
}

// ColumnDistributionFor returns the non-ratio distribution configured for
// (table, column), if any.
func (l *Lookup) ColumnDistributionFor(table, column string) (ColumnDistribution, bool) {
	if l == nil {
		return ColumnDistribution{}, false
	}
	d, ok := l.distributions[tableColumn{table, column}]
	return d, ok
}

// RatioFor returns the row-count ratio of table relative to relatedTable,
// if a profile configured one.
func (l *Lookup) RatioFor(table, relatedTable string) (float64, bool) {
	if l == nil {
		return 0, false
	}
	r, ok := l.ratios[tableColumn{table, relatedTable}]
	return r, ok
}
