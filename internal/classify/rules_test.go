package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kclaka/seedkit/internal/schema"
)

func TestClassifyIdentityAndContact(t *testing.T) {
	assert.Equal(t, FirstName, Classify(&schema.Column{Name: "first_name", Type: schema.DataTypeVarChar}, "users", false))
	assert.Equal(t, Email, Classify(&schema.Column{Name: "email", Type: schema.DataTypeVarChar}, "users", false))
	assert.Equal(t, Username, Classify(&schema.Column{Name: "username", Type: schema.DataTypeVarChar}, "users", false))
}

func TestClassifyAutoIncrementAndUUID(t *testing.T) {
	assert.Equal(t, AutoIncrement, Classify(&schema.Column{Name: "id", Type: schema.DataTypeBigInt, AutoIncrement: true}, "users", true))
	assert.Equal(t, UUID, Classify(&schema.Column{Name: "id", Type: schema.DataTypeUUID}, "users", true))
}

func TestClassifyEnumByName(t *testing.T) {
	col := &schema.Column{Name: "status", Type: schema.DataTypeEnum, EnumValues: []string{"active", "inactive"}}
	assert.Equal(t, Status, Classify(col, "orders", false))

	col2 := &schema.Column{Name: "weird_enum_col", Type: schema.DataTypeEnum, EnumValues: []string{"a", "b"}}
	assert.Equal(t, EnumValue, Classify(col2, "orders", false))
}

func TestClassifyTableContext(t *testing.T) {
	col := &schema.Column{Name: "total", Type: schema.DataTypeNumeric}
	assert.Equal(t, Amount, Classify(col, "orders", false))

	colOutsideContext := &schema.Column{Name: "total", Type: schema.DataTypeNumeric}
	assert.Equal(t, Unknown, Classify(colOutsideContext, "unrelated_table", false))
}

func TestClassifyTypeFallback(t *testing.T) {
	assert.Equal(t, BooleanFlag, Classify(&schema.Column{Name: "whatever_xyz", Type: schema.DataTypeBoolean}, "t", false))
	assert.Equal(t, Timestamp, Classify(&schema.Column{Name: "whatever_xyz", Type: schema.DataTypeTimestamp}, "t", false))
}

func TestNormalizeColumnName(t *testing.T) {
	assert.Equal(t, "first_name", normalizeColumnName("firstName"))
	assert.Equal(t, "first_name", normalizeColumnName("first-name"))
	assert.Equal(t, "id", normalizeColumnName("ID"))
}

func TestDetectCorrelations_Address(t *testing.T) {
	classifications := map[TableColumn]SemanticType{
		{Table: "users", Column: "street"}: StreetAddress,
		{Table: "users", Column: "city"}:   City,
		{Table: "users", Column: "state"}:  State,
		{Table: "users", Column: "zip"}:    ZipCode,
	}
	got := DetectCorrelations(classifications)
	if assert.Len(t, got, 1) {
		assert.Equal(t, GroupAddress, got[0].Group)
		assert.Len(t, got[0].Columns, 4)
	}
}

func TestDetectCorrelations_SingleColumnNotCorrelated(t *testing.T) {
	classifications := map[TableColumn]SemanticType{
		{Table: "users", Column: "city"}: City,
	}
	assert.Empty(t, DetectCorrelations(classifications))
}
