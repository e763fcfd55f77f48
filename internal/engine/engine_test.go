package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kclaka/seedkit/internal/classify"
	"github.com/kclaka/seedkit/internal/genplan"
	"github.com/kclaka/seedkit/internal/schema"
)

func singleColumnPlan(table, column string, strategy genplan.Strategy, rowCount int) *genplan.Plan {
	return &genplan.Plan{
		TablePlans: []*genplan.TablePlan{
			{
				TableName: table,
				RowCount:  rowCount,
				ColumnPlans: []*genplan.ColumnPlan{
					{ColumnName: column, SemanticType: classify.Unknown, Strategy: strategy, Nullable: false, NullProbability: 0},
				},
			},
		},
		Seed:     42,
		BaseTime: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func emptySchema(table string) *schema.Database {
	return &schema.Database{Tables: []*schema.Table{{Name: table}}}
}

func TestValueListUniformCoversAllValues(t *testing.T) {
	plan := singleColumnPlan("items", "color", genplan.Strategy{
		Kind:            genplan.StrategyValueList,
		ValueListValues: []string{"red", "blue", "green"},
	}, 300)
	data, err := Execute(plan, emptySchema("items"), nil)
	require.NoError(t, err)

	rows := data.Tables["items"]
	require.Len(t, rows, 300)
	counts := map[string]int{}
	for _, r := range rows {
		v := r.Get("color").ToCSVScalar()
		assert.Contains(t, []string{"red", "blue", "green"}, v)
		counts[v]++
	}
	assert.Greater(t, counts["red"], 0)
	assert.Greater(t, counts["blue"], 0)
	assert.Greater(t, counts["green"], 0)
}

func TestValueListWeightedDistributionSkewsToDominantValue(t *testing.T) {
	plan := singleColumnPlan("items", "tag", genplan.Strategy{
		Kind:             genplan.StrategyValueList,
		ValueListValues:  []string{"a", "b"},
		ValueListWeights: []float64{0.9, 0.1},
	}, 1000)
	data, err := Execute(plan, emptySchema("items"), nil)
	require.NoError(t, err)

	countA := 0
	for _, r := range data.Tables["items"] {
		if r.Get("tag").ToCSVScalar() == "a" {
			countA++
		}
	}
	assert.Greater(t, countA, 700)
}

func TestValueListEmptyProducesNull(t *testing.T) {
	plan := singleColumnPlan("items", "empty_col", genplan.Strategy{Kind: genplan.StrategyValueList}, 5)
	data, err := Execute(plan, emptySchema("items"), nil)
	require.NoError(t, err)
	for _, r := range data.Tables["items"] {
		assert.True(t, r.Get("empty_col").IsNull())
	}
}

func TestDeterministicWithSameSeed(t *testing.T) {
	strategy := genplan.Strategy{
		Kind:             genplan.StrategyValueList,
		ValueListValues:  []string{"x", "y", "z"},
		ValueListWeights: []float64{0.33, 0.33, 0.34},
	}
	plan1 := singleColumnPlan("items", "val", strategy, 50)
	plan2 := singleColumnPlan("items", "val", strategy, 50)

	data1, err := Execute(plan1, emptySchema("items"), nil)
	require.NoError(t, err)
	data2, err := Execute(plan2, emptySchema("items"), nil)
	require.NoError(t, err)

	for i := range data1.Tables["items"] {
		assert.Equal(t, data1.Tables["items"][i].Get("val").ToCSVScalar(), data2.Tables["items"][i].Get("val").ToCSVScalar())
	}
}

func TestCustomProviderReturnsError(t *testing.T) {
	plan := singleColumnPlan("items", "tax_code", genplan.Strategy{
		Kind:               genplan.StrategyCustom,
		CustomProviderPath: "./scripts/tax_gen.js",
	}, 5)
	_, err := Execute(plan, emptySchema("items"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tax_gen.js")
}

func TestForeignKeyReferenceWithEmptyParentFallsBackOrErrors(t *testing.T) {
	plan := singleColumnPlan("orders", "user_id", genplan.Strategy{
		Kind:             genplan.StrategyForeignKeyReference,
		ReferencedTable:  "users",
		ReferencedColumn: "id",
	}, 3)
	_, err := Execute(plan, emptySchema("orders"), nil)
	require.Error(t, err)
}

func TestCompositeUniqueExhaustionReportsError(t *testing.T) {
	db := &schema.Database{
		Tables: []*schema.Table{
			{
				Name:    "pairs",
				Columns: []*schema.Column{{Name: "a"}, {Name: "b"}},
				Uniques: []*schema.UniqueConstraint{{Name: "uq_pairs", Columns: []string{"a", "b"}}},
			},
		},
	}
	plan := &genplan.Plan{
		TablePlans: []*genplan.TablePlan{
			{
				TableName: "pairs",
				RowCount:  10,
				ColumnPlans: []*genplan.ColumnPlan{
					{ColumnName: "a", Strategy: genplan.Strategy{Kind: genplan.StrategyValueList, ValueListValues: []string{"x"}}},
					{ColumnName: "b", Strategy: genplan.Strategy{Kind: genplan.StrategyValueList, ValueListValues: []string{"y"}}},
				},
			},
		},
		Seed:     1,
		BaseTime: time.Now(),
	}
	_, err := Execute(plan, db, nil)
	require.Error(t, err)
}
