package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kclaka/seedkit/internal/schema"
)

func simpleSchema() *schema.Database {
	return &schema.Database{
		Name:    "test",
		Dialect: schema.DialectPostgreSQL,
		Tables: []*schema.Table{
			{Name: "users", Columns: []*schema.Column{{Name: "id"}}},
			{
				Name: "orders",
				Columns: []*schema.Column{
					{Name: "id"},
					{Name: "user_id", Nullable: false},
				},
				ForeignKeys: []*schema.ForeignKey{
					{SourceColumns: []string{"user_id"}, ReferencedTable: "users", ReferencedColumns: []string{"id"}},
				},
			},
		},
	}
}

func TestBuildGraph(t *testing.T) {
	g := Build(simpleSchema())
	assert.Equal(t, 2, g.TableCount())
	assert.Equal(t, 1, g.EdgeCount())
}

func TestTopologicalSortSimple(t *testing.T) {
	g := Build(simpleSchema())
	order, err := g.TopologicalSort()
	require.NoError(t, err)

	usersPos := indexOf(order.Tables, "users")
	ordersPos := indexOf(order.Tables, "orders")
	require.GreaterOrEqual(t, usersPos, 0)
	require.GreaterOrEqual(t, ordersPos, 0)
	assert.Less(t, usersPos, ordersPos)
}

func TestSelfReferenceBreaking(t *testing.T) {
	db := &schema.Database{
		Tables: []*schema.Table{
			{
				Name: "categories",
				Columns: []*schema.Column{
					{Name: "id"},
					{Name: "parent_id", Nullable: true},
				},
				ForeignKeys: []*schema.ForeignKey{
					{SourceColumns: []string{"parent_id"}, ReferencedTable: "categories", ReferencedColumns: []string{"id"}},
				},
			},
		},
	}
	g := Build(db)
	deferred, err := g.BreakCycles(nil)
	require.NoError(t, err)
	require.Len(t, deferred, 1)
	assert.Equal(t, "categories", deferred[0].SourceTable)
	assert.Equal(t, "categories", deferred[0].TargetTable)
}

func TestMutualCycleBreaking_PrefersNullable(t *testing.T) {
	db := &schema.Database{
		Tables: []*schema.Table{
			{
				Name:    "table_a",
				Columns: []*schema.Column{{Name: "id"}, {Name: "b_id", Nullable: true}},
				ForeignKeys: []*schema.ForeignKey{
					{SourceColumns: []string{"b_id"}, ReferencedTable: "table_b", ReferencedColumns: []string{"id"}},
				},
			},
			{
				Name:    "table_b",
				Columns: []*schema.Column{{Name: "id"}, {Name: "a_id", Nullable: false}},
				ForeignKeys: []*schema.ForeignKey{
					{SourceColumns: []string{"a_id"}, ReferencedTable: "table_a", ReferencedColumns: []string{"id"}},
				},
			},
		},
	}
	g := Build(db)
	deferred, err := g.BreakCycles(nil)
	require.NoError(t, err)
	require.Len(t, deferred, 1)
	assert.Equal(t, "table_a", deferred[0].SourceTable)

	_, err = g.TopologicalSort()
	assert.NoError(t, err)
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
