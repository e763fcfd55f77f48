package genplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kclaka/seedkit/internal/classify"
	"github.com/kclaka/seedkit/internal/config"
	"github.com/kclaka/seedkit/internal/profiles"
	"github.com/kclaka/seedkit/internal/schema"
)

func chainSchema() *schema.Database {
	return &schema.Database{
		Tables: []*schema.Table{
			{Name: "users", Columns: []*schema.Column{{Name: "id", AutoIncrement: true, Type: schema.DataTypeBigInt}}, PrimaryKey: []string{"id"}},
			{
				Name: "orders",
				Columns: []*schema.Column{
					{Name: "id", AutoIncrement: true, Type: schema.DataTypeBigInt},
					{Name: "user_id", Type: schema.DataTypeBigInt},
				},
				PrimaryKey: []string{"id"},
				ForeignKeys: []*schema.ForeignKey{
					{SourceColumns: []string{"user_id"}, ReferencedTable: "users", ReferencedColumns: []string{"id"}},
				},
			},
		},
	}
}

func TestFKToIncludedParentUsesFKReference(t *testing.T) {
	db := chainSchema()
	plan := Build(BuildOptions{
		Schema:          db,
		Classifications: map[classify.TableColumn]classify.SemanticType{},
		InsertionOrder:  []string{"users", "orders"},
		DefaultRowCount: 10,
		ColumnOverrides: map[string]config.ColumnOverride{},
		Profiles:        profiles.BuildLookup(nil),
	})

	ordersPlan := findTablePlan(plan, "orders")
	userIDPlan := findColumnPlan(ordersPlan, "user_id")
	require.Equal(t, StrategyForeignKeyReference, userIDPlan.Strategy.Kind)
	assert.Equal(t, "users", userIDPlan.Strategy.ReferencedTable)
}

func TestFKToExcludedParentFallsBackToSemanticProvider(t *testing.T) {
	db := chainSchema()
	plan := Build(BuildOptions{
		Schema:          db,
		Classifications: map[classify.TableColumn]classify.SemanticType{},
		InsertionOrder:  []string{"orders"}, // users excluded
		DefaultRowCount: 10,
		ColumnOverrides: map[string]config.ColumnOverride{},
		Profiles:        profiles.BuildLookup(nil),
	})

	ordersPlan := findTablePlan(plan, "orders")
	userIDPlan := findColumnPlan(ordersPlan, "user_id")
	assert.Equal(t, StrategySemanticProvider, userIDPlan.Strategy.Kind)
}

func TestValueListOverrideTakesPriority(t *testing.T) {
	db := &schema.Database{
		Tables: []*schema.Table{
			{Name: "products", Columns: []*schema.Column{{Name: "color", Type: schema.DataTypeVarChar}}},
		},
	}
	plan := Build(BuildOptions{
		Schema:          db,
		Classifications: map[classify.TableColumn]classify.SemanticType{},
		InsertionOrder:  []string{"products"},
		DefaultRowCount: 10,
		ColumnOverrides: map[string]config.ColumnOverride{
			"products.color": {Values: []string{"red", "blue"}, Weights: []float64{0.7, 0.3}},
		},
		Profiles: profiles.BuildLookup(nil),
	})

	colorPlan := findColumnPlan(findTablePlan(plan, "products"), "color")
	assert.Equal(t, StrategyValueList, colorPlan.Strategy.Kind)
	assert.Equal(t, []string{"red", "blue"}, colorPlan.Strategy.ValueListValues)
}

func TestRatioAdjustsRowCount(t *testing.T) {
	db := chainSchema()
	lookup := profiles.BuildLookup([]profiles.TableProfile{
		{
			TableName: "orders",
			ColumnDistributions: map[string]profiles.ColumnDistribution{
				"__ratio_user_id": {Kind: profiles.KindRatio, RelatedTable: "users", Ratio: 3.2},
			},
		},
	})
	plan := Build(BuildOptions{
		Schema:          db,
		Classifications: map[classify.TableColumn]classify.SemanticType{},
		InsertionOrder:  []string{"users", "orders"},
		DefaultRowCount: 100,
		ColumnOverrides: map[string]config.ColumnOverride{},
		Profiles:        lookup,
	})

	assert.Equal(t, 100, findTablePlan(plan, "users").RowCount)
	assert.Equal(t, 320, findTablePlan(plan, "orders").RowCount)
}

func TestNullProbabilityRules(t *testing.T) {
	db := &schema.Database{
		Tables: []*schema.Table{
			{
				Name: "users",
				Columns: []*schema.Column{
					{Name: "id", AutoIncrement: true},
					{Name: "deleted_at", Nullable: true},
					{Name: "nickname", Nullable: true},
				},
				PrimaryKey: []string{"id"},
			},
		},
	}
	plan := Build(BuildOptions{
		Schema: db,
		Classifications: map[classify.TableColumn]classify.SemanticType{
			{Table: "users", Column: "deleted_at"}: classify.DeletedAt,
		},
		InsertionOrder:  []string{"users"},
		DefaultRowCount: 10,
		ColumnOverrides: map[string]config.ColumnOverride{},
		Profiles:        profiles.BuildLookup(nil),
	})

	tp := findTablePlan(plan, "users")
	assert.Equal(t, 0.8, findColumnPlan(tp, "deleted_at").NullProbability)
	assert.Equal(t, 0.05, findColumnPlan(tp, "nickname").NullProbability)
	assert.Equal(t, 0.0, findColumnPlan(tp, "id").NullProbability)
}

func TestFilterInsertionOrder(t *testing.T) {
	db := chainSchema()
	order := []string{"users", "orders"}

	assert.Equal(t, order, FilterInsertionOrder(order, db, nil, nil))
	assert.Equal(t, []string{"users", "orders"}, FilterInsertionOrder(order, db, []string{"orders"}, nil))
	assert.Equal(t, []string{"orders"}, FilterInsertionOrder(order, db, []string{"orders"}, []string{"users"}))
}

func findTablePlan(plan *Plan, name string) *TablePlan {
	for _, tp := range plan.TablePlans {
		if tp.TableName == name {
			return tp
		}
	}
	return nil
}

func findColumnPlan(tp *TablePlan, name string) *ColumnPlan {
	for _, cp := range tp.ColumnPlans {
		if cp.ColumnName == name {
			return cp
		}
	}
	return nil
}
