package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDataType(t *testing.T) {
	cases := map[string]DataType{
		"character varying(255)": DataTypeVarChar,
		"varchar(32)":             DataTypeVarChar,
		"int4":                    DataTypeInt,
		"bigint":                  DataTypeBigInt,
		"int2":                    DataTypeSmallInt,
		"numeric(10,2)":           DataTypeNumeric,
		"timestamp with time zone": DataTypeTimestampTz,
		"timestamp without time zone": DataTypeTimestamp,
		"uuid":                    DataTypeUUID,
		"jsonb":                   DataTypeJSONB,
		"json":                    DataTypeJSON,
		"boolean":                 DataTypeBoolean,
		"tinyint(1)":              DataTypeBoolean,
		"bytea":                   DataTypeBinary,
		"text[]":                  DataTypeArray,
		"serial":                  DataTypeSerial,
		"bigserial":               DataTypeBigSerial,
		"totally_unknown_type":    DataTypeUnknown,
	}
	for raw, want := range cases {
		assert.Equal(t, want, NormalizeDataType(raw), "raw=%s", raw)
	}
}

func TestDataTypePredicates(t *testing.T) {
	assert.True(t, DataTypeSerial.IsSerial())
	assert.True(t, DataTypeBigSerial.IsSerial())
	assert.False(t, DataTypeInt.IsSerial())

	assert.True(t, DataTypeInt.IsNumeric())
	assert.True(t, DataTypeMoney.IsNumeric())
	assert.False(t, DataTypeText.IsNumeric())

	assert.True(t, DataTypeVarChar.IsString())
	assert.False(t, DataTypeInt.IsString())

	assert.True(t, DataTypeTimestamp.IsTemporal())
	assert.True(t, DataTypeInterval.IsTemporal())
	assert.False(t, DataTypeInt.IsTemporal())
}

func TestTableFindColumn(t *testing.T) {
	tbl := &Table{
		Name: "users",
		Columns: []*Column{
			{Name: "id", Type: DataTypeBigInt, AutoIncrement: true},
			{Name: "email", Type: DataTypeVarChar},
		},
		PrimaryKey: []string{"id"},
	}
	require.NotNil(t, tbl.FindColumn("email"))
	assert.Nil(t, tbl.FindColumn("missing"))
	assert.Equal(t, []string{"id", "email"}, tbl.ColumnNames())
	assert.True(t, tbl.IsAutoIncrementPK(tbl.FindColumn("id")))
	assert.False(t, tbl.IsAutoIncrementPK(tbl.FindColumn("email")))
}

func TestDatabaseFindTable(t *testing.T) {
	db := &Database{
		Name:    "app",
		Dialect: DialectPostgreSQL,
		Tables: []*Table{
			{Name: "users"},
			{Name: "orders"},
		},
	}
	require.NotNil(t, db.FindTable("orders"))
	assert.Nil(t, db.FindTable("missing"))
	assert.Equal(t, []string{"users", "orders"}, db.TableNames())
}

func TestForeignKeyAllColumnsNullable(t *testing.T) {
	tbl := &Table{
		Name: "orders",
		Columns: []*Column{
			{Name: "customer_id", Nullable: true},
			{Name: "warehouse_id", Nullable: false},
		},
	}
	fkNullable := &ForeignKey{SourceColumns: []string{"customer_id"}}
	fkNotNullable := &ForeignKey{SourceColumns: []string{"warehouse_id"}}
	assert.True(t, fkNullable.AllColumnsNullable(tbl))
	assert.False(t, fkNotNullable.AllColumnsNullable(tbl))
}

func TestParsedCheckAppliesToColumn(t *testing.T) {
	p := &ParsedCheck{Kind: ParsedCheckColumnLessColumn, LeftColumn: "starts_at", RightColumn: "ends_at"}
	assert.True(t, p.AppliesToColumn("starts_at"))
	assert.True(t, p.AppliesToColumn("ends_at"))
	assert.False(t, p.AppliesToColumn("other"))

	var nilCheck *ParsedCheck
	assert.False(t, nilCheck.AppliesToColumn("anything"))
}

func TestValidDialect(t *testing.T) {
	assert.True(t, ValidDialect("postgresql"))
	assert.True(t, ValidDialect("MySQL"))
	assert.False(t, ValidDialect("oracle"))
}

func TestAutoGenerateConstraintName(t *testing.T) {
	assert.Equal(t, "pk_users", AutoGenerateConstraintName("PRIMARY KEY", "users", nil))
	assert.Equal(t, "uq_users_email", AutoGenerateConstraintName("UNIQUE", "users", []string{"email"}))
	assert.Equal(t, "fk_orders_customer_id", AutoGenerateConstraintName("FOREIGN KEY", "orders", []string{"customer_id"}))
}
