package mysql

import (
	"fmt"

	"github.com/kclaka/seedkit/internal/schema"
)

func introspectPrimaryKeys(ic *introspectCtx, tables map[string]*schema.Table) error {
	rows, err := ic.db.QueryContext(ic.ctx, `
		SELECT tc.table_name, kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
			AND tc.table_name = kcu.table_name
		WHERE tc.table_schema = DATABASE() AND tc.constraint_type = 'PRIMARY KEY'
		ORDER BY tc.table_name, kcu.ordinal_position
	`)
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

func introspectForeignKeys(ic *introspectCtx, tables map[string]*schema.Table) error {
	rows, err := ic.db.QueryContext(ic.ctx, `
		SELECT
			tc.table_name, tc.constraint_name, kcu.column_name,
			kcu.referenced_table_name, kcu.referenced_column_name,
			rc.delete_rule, rc.update_rule
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
			AND tc.table_name = kcu.table_name
		JOIN information_schema.referential_constraints rc
			ON tc.constraint_name = rc.constraint_name
			AND tc.table_schema = rc.constraint_schema
		WHERE tc.table_schema = DATABASE() AND tc.constraint_type = 'FOREIGN KEY'
		ORDER BY tc.table_name, tc.constraint_name, kcu.ordinal_position
	`)
	if err != nil {
		return fmt.Errorf("introspect: fetch foreign keys: %w", err)
	}
	defer rows.Close()

	type key struct{ table, name string }
	var order []key
	byKey := make(map[key]*schema.ForeignKey)

	for rows.Next() {
		var tableName, constraintName, columnName, refTable, refColumn, deleteRule, updateRule string
		if err := rows.Scan(&tableName, &constraintName, &columnName, &refTable, &refColumn,
			&deleteRule, &updateRule); err != nil {
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
	switch rule {
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

func introspectUniqueConstraints(ic *introspectCtx, tables map[string]*schema.Table) error {
	rows, err := ic.db.QueryContext(ic.ctx, `
		SELECT tc.table_name, tc.constraint_name, kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
			AND tc.table_name = kcu.table_name
		WHERE tc.table_schema = DATABASE() AND tc.constraint_type = 'UNIQUE'
		ORDER BY tc.table_name, tc.constraint_name, kcu.ordinal_position
	`)
	if err != nil {
		return fmt.Errorf("introspect: fetch unique constraints: %w", err)
	}
	defer rows.Close()

	type key struct{ table, name string }
	var order []key
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
