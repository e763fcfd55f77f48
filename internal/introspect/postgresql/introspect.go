// Package postgresql introspects a PostgreSQL database's public schema
// into a schema.Database.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/kclaka/seedkit/internal/introspect"
	"github.com/kclaka/seedkit/internal/schema"
)

func init() {
	introspect.Register(schema.DialectPostgreSQL, New)
}

const schemaName = "public"

type postgresqlIntrospecter struct{}

func New() introspect.Introspecter {
	return &postgresqlIntrospecter{}
}

func (i *postgresqlIntrospecter) Introspect(ctx context.Context, db *sql.DB) (*schema.Database, error) {
	result := &schema.Database{Name: "postgres", Dialect: schema.DialectPostgreSQL}

	tableIndex, err := introspectTables(ctx, db, result)
	if err != nil {
		return nil, err
	}
	if err := introspectColumns(ctx, db, tableIndex); err != nil {
		return nil, err
	}
	if err := introspectPrimaryKeys(ctx, db, tableIndex); err != nil {
		return nil, err
	}
	if err := introspectForeignKeys(ctx, db, tableIndex); err != nil {
		return nil, err
	}
	if err := introspectUniqueConstraints(ctx, db, tableIndex); err != nil {
		return nil, err
	}
	if err := introspectCheckConstraints(ctx, db, tableIndex); err != nil {
		return nil, err
	}
	enums, err := introspectEnums(ctx, db)
	if err != nil {
		return nil, err
	}
	result.Enums = enums

	enumValues := make(map[string][]string, len(enums))
	for _, e := range enums {
		enumValues[e.Name] = e.Values
	}
	for _, t := range result.Tables {
		for _, c := range t.Columns {
			if c.Type == schema.DataTypeEnum && c.EnumName != "" {
				if values, ok := enumValues[c.EnumName]; ok {
					c.EnumValues = values
				}
			}
		}
	}

	return result, nil
}

func introspectTables(ctx context.Context, db *sql.DB, result *schema.Database) (map[string]*schema.Table, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		ORDER BY table_name`, schemaName)
	if err != nil {
		return nil, fmt.Errorf("introspect: fetch tables: %w", err)
	}
	defer rows.Close()

	index := make(map[string]*schema.Table)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("introspect: scan table row: %w", err)
		}
		t := &schema.Table{Name: name}
		result.Tables = append(result.Tables, t)
		index[name] = t
	}
	return index, rows.Err()
}

func introspectColumns(ctx context.Context, db *sql.DB, tables map[string]*schema.Table) error {
	rows, err := db.QueryContext(ctx, `
		SELECT
			c.table_name, c.column_name, c.data_type, c.udt_name,
			c.is_nullable, c.column_default, c.character_maximum_length,
			c.numeric_precision, c.numeric_scale, c.ordinal_position
		FROM information_schema.columns c
		WHERE c.table_schema = $1
		ORDER BY c.table_name, c.ordinal_position`, schemaName)
	if err != nil {
		return fmt.Errorf("introspect: fetch columns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			tableName, columnName, dataType, udtName, isNullable string
			columnDefault                                        sql.NullString
			maxLength, numericPrecision, numericScale             sql.NullInt64
			ordinal                                               int
		)
		if err := rows.Scan(&tableName, &columnName, &dataType, &udtName, &isNullable,
			&columnDefault, &maxLength, &numericPrecision, &numericScale, &ordinal); err != nil {
			return fmt.Errorf("introspect: scan column row: %w", err)
		}

		table, ok := tables[tableName]
		if !ok {
			continue
		}

		col := &schema.Column{
			Name:      columnName,
			RawType:   dataType,
			Nullable:  isNullable == "YES",
			Ordinal:   ordinal,
			Length:    int(maxLength.Int64),
			Precision: int(numericPrecision.Int64),
			Scale:     int(numericScale.Int64),
		}

		switch dataType {
		case "USER-DEFINED":
			col.Type = schema.DataTypeEnum
			col.EnumName = udtName
		case "ARRAY":
			col.Type = schema.DataTypeArray
			col.ArrayInner = schema.NormalizeDataType(strings.TrimPrefix(udtName, "_"))
		default:
			col.Type = schema.NormalizeDataType(dataType)
		}

		if columnDefault.Valid {
			col.HasDefault = true
			col.AutoIncrement = strings.HasPrefix(columnDefault.String, "nextval(")
		}

		table.Columns = append(table.Columns, col)
	}
	return rows.Err()
}

func introspectPrimaryKeys(ctx context.Context, db *sql.DB, tables map[string]*schema.Table) error {
	rows, err := db.QueryContext(ctx, `
		SELECT tc.table_name, kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
		WHERE tc.table_schema = $1 AND tc.constraint_type = 'PRIMARY KEY'
		ORDER BY tc.table_name, kcu.ordinal_position`, schemaName)
	if err != nil {
		return fmt.Errorf("introspect: fetch primary keys: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tableName, columnName string
		if err := rows.Scan(&tableName, &columnName); err != nil {
			return fmt.Errorf("introspect: scan primary key row: %w", err)
		}
		if table, ok := tables[tableName]; ok {
			table.PrimaryKey = append(table.PrimaryKey, columnName)
		}
	}
	return rows.Err()
}

func introspectForeignKeys(ctx context.Context, db *sql.DB, tables map[string]*schema.Table) error {
	rows, err := db.QueryContext(ctx, `
		SELECT
			tc.table_name, tc.constraint_name, kcu.column_name,
			ccu.table_name AS referenced_table_name, ccu.column_name AS referenced_column_name,
			rc.delete_rule, rc.update_rule, tc.is_deferrable
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage ccu
			ON tc.constraint_name = ccu.constraint_name AND tc.table_schema = ccu.table_schema
		JOIN information_schema.referential_constraints rc
			ON tc.constraint_name = rc.constraint_name AND tc.table_schema = rc.constraint_schema
		WHERE tc.table_schema = $1 AND tc.constraint_type = 'FOREIGN KEY'
		ORDER BY tc.table_name, tc.constraint_name, kcu.ordinal_position`, schemaName)
	if err != nil {
		return fmt.Errorf("introspect: fetch foreign keys: %w", err)
	}
	defer rows.Close()

	type key struct{ table, name string }
	order := make([]key, 0)
	byKey := make(map[key]*schema.ForeignKey)

	for rows.Next() {
		var tableName, constraintName, columnName, refTable, refColumn, deleteRule, updateRule, deferrable string
		if err := rows.Scan(&tableName, &constraintName, &columnName, &refTable, &refColumn,
			&deleteRule, &updateRule, &deferrable); err != nil {
			return fmt.Errorf("introspect: scan foreign key row: %w", err)
		}

		k := key{tableName, constraintName}
		fk, ok := byKey[k]
		if !ok {
			fk = &schema.ForeignKey{
				Name:            constraintName,
				ReferencedTable: refTable,
				OnDelete:        parseReferentialAction(deleteRule),
				OnUpdate:        parseReferentialAction(updateRule),
				Deferrable:      deferrable == "YES",
			}
			byKey[k] = fk
			order = append(order, k)
		}
		fk.SourceColumns = append(fk.SourceColumns, columnName)
		fk.ReferencedColumns = append(fk.ReferencedColumns, refColumn)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, k := range order {
		if table, ok := tables[k.table]; ok {
			table.ForeignKeys = append(table.ForeignKeys, byKey[k])
		}
	}
	return nil
}

func parseReferentialAction(rule string) schema.ReferentialAction {
	switch strings.ToUpper(rule) {
	case "CASCADE":
		return schema.RefActionCascade
	case "RESTRICT":
		return schema.RefActionRestrict
	case "SET NULL":
		return schema.RefActionSetNull
	case "SET DEFAULT":
		return schema.RefActionSetDefault
	default:
		return schema.RefActionNoAction
	}
}

func introspectUniqueConstraints(ctx context.Context, db *sql.DB, tables map[string]*schema.Table) error {
	rows, err := db.QueryContext(ctx, `
		SELECT tc.table_name, tc.constraint_name, kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
		WHERE tc.table_schema = $1 AND tc.constraint_type = 'UNIQUE'
		ORDER BY tc.table_name, tc.constraint_name, kcu.ordinal_position`, schemaName)
	if err != nil {
		return fmt.Errorf("introspect: fetch unique constraints: %w", err)
	}
	defer rows.Close()

	type key struct{ table, name string }
	order := make([]key, 0)
	byKey := make(map[key][]string)

	for rows.Next() {
		var tableName, constraintName, columnName string
		if err := rows.Scan(&tableName, &constraintName, &columnName); err != nil {
			return fmt.Errorf("introspect: scan unique constraint row: %w", err)
		}
		k := key{tableName, constraintName}
		if _, ok := byKey[k]; !ok {
			order = append(order, k)
		}
		byKey[k] = append(byKey[k], columnName)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, k := range order {
		if table, ok := tables[k.table]; ok {
			table.Uniques = append(table.Uniques, &schema.UniqueConstraint{Name: k.name, Columns: byKey[k]})
		}
	}
	return nil
}

func introspectCheckConstraints(ctx context.Context, db *sql.DB, tables map[string]*schema.Table) error {
	rows, err := db.QueryContext(ctx, `
		SELECT tc.table_name, tc.constraint_name, cc.check_clause
		FROM information_schema.table_constraints tc
		JOIN information_schema.check_constraints cc
			ON tc.constraint_name = cc.constraint_name AND tc.constraint_schema = cc.constraint_schema
		WHERE tc.table_schema = $1 AND tc.constraint_type = 'CHECK'
		ORDER BY tc.table_name`, schemaName)
	if err != nil {
		return fmt.Errorf("introspect: fetch check constraints: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tableName, constraintName, checkClause string
		if err := rows.Scan(&tableName, &constraintName, &checkClause); err != nil {
			return fmt.Errorf("introspect: scan check constraint row: %w", err)
		}
		if table, ok := tables[tableName]; ok {
			table.Checks = append(table.Checks, &schema.CheckConstraint{
				Name:       constraintName,
				Expression: checkClause,
				Parsed:     schema.ParseCheckExpression(checkClause),
			})
		}
	}
	return rows.Err()
}

func introspectEnums(ctx context.Context, db *sql.DB) ([]schema.EnumDecl, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT t.typname AS enum_name, e.enumlabel AS enum_value
		FROM pg_type t
		JOIN pg_enum e ON t.oid = e.enumtypid
		JOIN pg_catalog.pg_namespace n ON n.oid = t.typnamespace
		WHERE n.nspname = $1
		ORDER BY t.typname, e.enumsortorder`, schemaName)
	if err != nil {
		return nil, fmt.Errorf("introspect: fetch enums: %w", err)
	}
	defer rows.Close()

	order := make([]string, 0)
	byName := make(map[string][]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("introspect: scan enum row: %w", err)
		}
		if _, ok := byName[name]; !ok {
			order = append(order, name)
		}
		byName[name] = append(byName[name], value)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	enums := make([]schema.EnumDecl, 0, len(order))
	for _, name := range order {
		enums = append(enums, schema.EnumDecl{Name: name, Values: byName[name]})
	}
	return enums, nil
}
