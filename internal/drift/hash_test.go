package drift

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kclaka/seedkit/internal/schema"
)

func ordersSchema(reverseFKs bool) *schema.Database {
	fks := []*schema.ForeignKey{
		{Name: "fk_user", SourceColumns: []string{"user_id"}, ReferencedTable: "users", ReferencedColumns: []string{"id"}},
		{Name: "fk_product", SourceColumns: []string{"product_id"}, ReferencedTable: "products", ReferencedColumns: []string{"id"}},
	}
	if reverseFKs {
		fks[0], fks[1] = fks[1], fks[0]
	}
	return &schema.Database{
		Name: "shop",
		Tables: []*schema.Table{
			{Name: "users", Columns: []*schema.Column{{Name: "id", Type: schema.DataTypeSerial}}},
			{Name: "products", Columns: []*schema.Column{{Name: "id", Type: schema.DataTypeSerial}}},
			{
				Name: "orders",
				Columns: []*schema.Column{
					{Name: "id", Type: schema.DataTypeSerial},
					{Name: "user_id", Type: schema.DataTypeInt},
					{Name: "product_id", Type: schema.DataTypeInt},
				},
				ForeignKeys: fks,
			},
		},
	}
}

func TestHashStableUnderFKReorder(t *testing.T) {
	a := Hash(ordersSchema(false))
	b := Hash(ordersSchema(true))
	assert.Equal(t, a, b)
}

func TestHashChangesOnContentMutation(t *testing.T) {
	a := Hash(ordersSchema(false))
	mutated := ordersSchema(false)
	mutated.Tables[2].Columns = append(mutated.Tables[2].Columns, &schema.Column{Name: "note", Type: schema.DataTypeText})
	b := Hash(mutated)
	assert.NotEqual(t, a, b)
}

func TestHashStableAcrossUniqueAndCheckReorder(t *testing.T) {
	build := func(reverse bool) *schema.Database {
		uniques := []*schema.UniqueConstraint{
			{Name: "uq_a", Columns: []string{"a"}},
			{Name: "uq_b", Columns: []string{"b"}},
		}
		checks := []*schema.CheckConstraint{
			{Name: "chk_a", Expression: "a >= 0"},
			{Name: "chk_b", Expression: "b > 0"},
		}
		if reverse {
			uniques[0], uniques[1] = uniques[1], uniques[0]
			checks[0], checks[1] = checks[1], checks[0]
		}
		return &schema.Database{Tables: []*schema.Table{
			{Name: "t", Columns: []*schema.Column{{Name: "a"}, {Name: "b"}}, Uniques: uniques, Checks: checks},
		}}
	}
	assert.Equal(t, Hash(build(false)), Hash(build(true)))
}
