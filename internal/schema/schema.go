// Package schema is the single source of truth for a database's structure:
// tables, columns, keys, and constraints, in introspection order. It mirrors
// the live database closely enough that a hash of it changes iff the
// database's structure changes.
package schema

import (
	"fmt"
	"strings"
)

// Dialect identifies a supported SQL dialect.
type Dialect string

const (
	DialectPostgreSQL Dialect = "postgresql"
	DialectMySQL      Dialect = "mysql"
	DialectMariaDB    Dialect = "mariadb"
	DialectSQLite     Dialect = "sqlite"
)

// SupportedDialects returns every dialect this module knows how to generate for.
func SupportedDialects() []Dialect {
	return []Dialect{DialectPostgreSQL, DialectMySQL, DialectMariaDB, DialectSQLite}
}

// ValidDialect reports whether d names a recognized dialect.
func ValidDialect(d string) bool {
	for _, supported := range SupportedDialects() {
		if strings.EqualFold(string(supported), d) {
			return true
		}
	}
	return false
}

// Database is a database's schema: an ordered list of tables and a named
// map of enum declarations. Order here is introspection order, and it is
// reproduced verbatim in generated output.
type Database struct {
	Name    string
	Dialect Dialect
	Tables  []*Table
	// Enums holds schema-level enum type declarations (PostgreSQL CREATE TYPE
	// ... AS ENUM); MySQL/SQLite enums are captured inline on the column.
	Enums []EnumDecl
}

// EnumDecl is a schema-level enum type declaration.
type EnumDecl struct {
	Name   string
	Values []string
}

// FindTable looks up a table by name.
func (db *Database) FindTable(name string) *Table {
	if db == nil {
		return nil
	}
	for _, t := range db.Tables {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// TableNames returns table names in schema order.
func (db *Database) TableNames() []string {
	names := make([]string, len(db.Tables))
	for i, t := range db.Tables {
		names[i] = t.Name
	}
	return names
}

// Table is one table's structure.
type Table struct {
	Name        string
	Columns     []*Column // ordinal order
	PrimaryKey  []string  // ordered PK column names, empty if none
	ForeignKeys []*ForeignKey
	Uniques     []*UniqueConstraint
	Checks      []*CheckConstraint
	Comment     string
}

// FindColumn looks up a column by name.
func (t *Table) FindColumn(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ColumnNames returns column names in ordinal order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// IsAutoIncrementPK reports whether col is both the table's single-column
// PK and auto-increment/serial.
func (t *Table) IsAutoIncrementPK(col *Column) bool {
	if len(t.PrimaryKey) != 1 || t.PrimaryKey[0] != col.Name {
		return false
	}
	return col.AutoIncrement || col.Type.IsSerial()
}

// String renders a one-line summary, useful in progress/debug output.
func (t *Table) String() string {
	return fmt.Sprintf("Table: %s (%d cols, %d FKs, %d unique, %d checks)",
		t.Name, len(t.Columns), len(t.ForeignKeys), len(t.Uniques), len(t.Checks))
}

// DataType is the closed, dialect-agnostic classification of a column's
// storage kind. Arrays wrap an inner DataType; everything else not
// representable here collapses to DataTypeUnknown (RawType preserves the
// original string for diagnostics).
type DataType string

const (
	DataTypeSmallInt  DataType = "smallint"
	DataTypeInt       DataType = "int"
	DataTypeBigInt    DataType = "bigint"
	DataTypeFloat     DataType = "float"
	DataTypeDouble    DataType = "double"
	DataTypeNumeric   DataType = "numeric"
	DataTypeChar      DataType = "char"
	DataTypeVarChar   DataType = "varchar"
	DataTypeText      DataType = "text"
	DataTypeBoolean   DataType = "boolean"
	DataTypeDate      DataType = "date"
	DataTypeTime      DataType = "time"
	DataTypeTimestamp DataType = "timestamp"
	DataTypeTimestampTz DataType = "timestamptz"
	DataTypeUUID      DataType = "uuid"
	DataTypeJSON      DataType = "json"
	DataTypeJSONB     DataType = "jsonb"
	DataTypeBinary    DataType = "binary"
	DataTypeArray     DataType = "array"
	DataTypeEnum      DataType = "enum"
	DataTypeInet      DataType = "inet"
	DataTypeMacAddr   DataType = "macaddr"
	DataTypeXML       DataType = "xml"
	DataTypeMoney     DataType = "money"
	DataTypeInterval  DataType = "interval"
	DataTypeSerial    DataType = "serial"
	DataTypeBigSerial DataType = "bigserial"
	DataTypeUnknown   DataType = "unknown"
)

// IsSerial reports whether dt is one of the auto-incrementing serial kinds.
func (dt DataType) IsSerial() bool {
	return dt == DataTypeSerial || dt == DataTypeBigSerial
}

// IsNumeric reports whether dt holds a numeric value.
func (dt DataType) IsNumeric() bool {
	switch dt {
	case DataTypeSmallInt, DataTypeInt, DataTypeBigInt, DataTypeFloat, DataTypeDouble,
		DataTypeNumeric, DataTypeSerial, DataTypeBigSerial, DataTypeMoney:
		return true
	}
	return false
}

// IsString reports whether dt holds textual data.
func (dt DataType) IsString() bool {
	return dt == DataTypeChar || dt == DataTypeVarChar || dt == DataTypeText || dt == DataTypeXML
}

// IsTemporal reports whether dt holds a date/time value.
func (dt DataType) IsTemporal() bool {
	switch dt {
	case DataTypeDate, DataTypeTime, DataTypeTimestamp, DataTypeTimestampTz, DataTypeInterval:
		return true
	}
	return false
}

// Column is one column's structure.
type Column struct {
	Name          string
	RawType       string // the driver-reported type string, e.g. "varchar(255)"
	Type          DataType
	ArrayInner    DataType // valid iff Type == DataTypeArray
	EnumName      string   // valid iff Type == DataTypeEnum and the enum is schema-level
	EnumValues    []string // inline enum values (MySQL) or back-filled from Database.Enums (PostgreSQL)
	Nullable      bool
	HasDefault    bool
	AutoIncrement bool
	Length        int
	Precision     int
	Scale         int
	Ordinal       int
	Comment       string
}

// ForeignKey is a table-level FOREIGN KEY constraint.
type ForeignKey struct {
	Name              string
	SourceColumns     []string
	ReferencedTable   string
	ReferencedColumns []string
	OnDelete          ReferentialAction
	OnUpdate          ReferentialAction
	Deferrable        bool
}

// AllColumnsNullable reports whether every source column of fk is nullable
// in t, used by the cycle breaker's nullable-edge preference.
func (fk *ForeignKey) AllColumnsNullable(t *Table) bool {
	for _, colName := range fk.SourceColumns {
		col := t.FindColumn(colName)
		if col == nil || !col.Nullable {
			return false
		}
	}
	return true
}

// ReferentialAction is the ON DELETE/ON UPDATE clause of a foreign key.
type ReferentialAction string

const (
	RefActionNone       ReferentialAction = ""
	RefActionCascade    ReferentialAction = "CASCADE"
	RefActionRestrict   ReferentialAction = "RESTRICT"
	RefActionSetNull    ReferentialAction = "SET NULL"
	RefActionSetDefault ReferentialAction = "SET DEFAULT"
	RefActionNoAction   ReferentialAction = "NO ACTION"
)

// UniqueConstraint is a table-level UNIQUE constraint over one or more columns.
type UniqueConstraint struct {
	Name    string
	Columns []string
}

// CheckConstraint is a table-level CHECK constraint, with both the raw SQL
// and (when recognized) a parsed structured form.
type CheckConstraint struct {
	Name       string
	Expression string
	Parsed     *ParsedCheck // nil if the expression wasn't recognized
}

// ParsedCheckKind discriminates the recognized CHECK expression shapes.
type ParsedCheckKind int

const (
	ParsedCheckColumnOpLiteral ParsedCheckKind = iota // col op literal
	ParsedCheckColumnLessColumn                       // col1 < col2
	ParsedCheckLengthGreater                          // length(col) > n
	ParsedCheckBetween                                // col BETWEEN a AND b
	ParsedCheckIn                                      // col IN (...)
)

// CompareOp is the comparison operator of a ParsedCheckColumnOpLiteral check.
type CompareOp string

const (
	OpGE CompareOp = ">="
	OpGT CompareOp = ">"
	OpLE CompareOp = "<="
	OpLT CompareOp = "<"
)

// ParsedCheck is the structured form of a recognized CHECK constraint
// expression, used by the planner to narrow a column's applicable check
// constraints and by semantic providers to widen/narrow their draw range.
type ParsedCheck struct {
	Kind ParsedCheckKind

	// ParsedCheckColumnOpLiteral
	Column  string
	Op      CompareOp
	Literal float64

	// ParsedCheckColumnLessColumn
	LeftColumn  string
	RightColumn string

	// ParsedCheckLengthGreater
	LengthColumn string
	LengthBound  int

	// ParsedCheckBetween
	BetweenColumn string
	BetweenLow    float64
	BetweenHigh   float64

	// ParsedCheckIn
	InColumn  string
	InValues  []string
}

// AppliesToColumn reports whether a parsed check constrains the named column,
// per the variant's "only/left/right referenced column" rule.
func (p *ParsedCheck) AppliesToColumn(name string) bool {
	if p == nil {
		return false
	}
	switch p.Kind {
	case ParsedCheckColumnOpLiteral:
		return p.Column == name
	case ParsedCheckColumnLessColumn:
		return p.LeftColumn == name || p.RightColumn == name
	case ParsedCheckLengthGreater:
		return p.LengthColumn == name
	case ParsedCheckBetween:
		return p.BetweenColumn == name
	case ParsedCheckIn:
		return p.InColumn == name
	}
	return false
}

// NormalizeDataType maps a raw, driver-reported type string to a portable
// DataType. Matching is case-insensitive substring containment, in priority
// order, mirroring how introspected type names vary across dialects
// (e.g. "character varying(255)" vs "varchar(255)").
func NormalizeDataType(rawType string) DataType {
	lower := strings.ToLower(strings.TrimSpace(rawType))

	if strings.HasSuffix(lower, "[]") || strings.HasPrefix(lower, "_") {
		return DataTypeArray
	}
	for _, rule := range normalizeDataTypeRules {
		for _, sub := range rule.substrings {
			if strings.Contains(lower, sub) {
				return rule.dataType
			}
		}
	}
	return DataTypeUnknown
}

type normalizeDataTypeRule struct {
	dataType   DataType
	substrings []string
}

var normalizeDataTypeRules = []normalizeDataTypeRule{
	{dataType: DataTypeBigSerial, substrings: []string{"bigserial"}},
	{dataType: DataTypeSerial, substrings: []string{"serial"}},
	{dataType: DataTypeUUID, substrings: []string{"uuid"}},
	{dataType: DataTypeEnum, substrings: []string{"enum"}},
	{dataType: DataTypeJSONB, substrings: []string{"jsonb"}},
	{dataType: DataTypeJSON, substrings: []string{"json"}},
	{dataType: DataTypeInet, substrings: []string{"inet"}},
	{dataType: DataTypeMacAddr, substrings: []string{"macaddr"}},
	{dataType: DataTypeXML, substrings: []string{"xml"}},
	{dataType: DataTypeMoney, substrings: []string{"money"}},
	{dataType: DataTypeInterval, substrings: []string{"interval"}},
	{dataType: DataTypeBoolean, substrings: []string{"bool", "tinyint(1)"}},
	{dataType: DataTypeSmallInt, substrings: []string{"smallint", "int2"}},
	{dataType: DataTypeBigInt, substrings: []string{"bigint", "int8"}},
	{dataType: DataTypeInt, substrings: []string{"int"}},
	{dataType: DataTypeDouble, substrings: []string{"double", "float8"}},
	{dataType: DataTypeFloat, substrings: []string{"float", "real"}},
	{dataType: DataTypeNumeric, substrings: []string{"numeric", "decimal"}},
	{dataType: DataTypeTimestampTz, substrings: []string{"timestamptz", "timestamp with time zone"}},
	{dataType: DataTypeTimestamp, substrings: []string{"timestamp", "datetime"}},
	{dataType: DataTypeDate, substrings: []string{"date"}},
	{dataType: DataTypeTime, substrings: []string{"time"}},
	{dataType: DataTypeVarChar, substrings: []string{"varchar", "character varying"}},
	{dataType: DataTypeChar, substrings: []string{"char"}},
	{dataType: DataTypeText, substrings: []string{"text"}},
	{dataType: DataTypeBinary, substrings: []string{"blob", "binary", "bytea"}},
}

// AutoGenerateConstraintName produces a deterministic name for a constraint
// synthesized from column-level shorthand, mirroring the common
// pk_/uq_/chk_/fk_ convention.
func AutoGenerateConstraintName(kind string, table string, columns []string) string {
	t := strings.ToLower(table)
	cols := strings.ToLower(strings.Join(columns, "_"))
	switch kind {
	case "PRIMARY KEY":
		return "pk_" + t
	case "UNIQUE":
		return fmt.Sprintf("uq_%s_%s", t, cols)
	case "CHECK":
		return fmt.Sprintf("chk_%s_%s", t, cols)
	case "FOREIGN KEY":
		return fmt.Sprintf("fk_%s_%s", t, cols)
	default:
		return fmt.Sprintf("cstr_%s_%s", t, cols)
	}
}
