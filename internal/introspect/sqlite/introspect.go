// Package sqlite introspects a SQLite database into a schema.Database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/kclaka/seedkit/internal/introspect"
	"github.com/kclaka/seedkit/internal/schema"
)

func init() {
	introspect.Register(schema.DialectSQLite, New)
}

type sqliteIntrospecter struct{}

func New() introspect.Introspecter {
	return &sqliteIntrospecter{}
}

func (i *sqliteIntrospecter) Introspect(ctx context.Context, db *sql.DB) (*schema.Database, error) {
	result := &schema.Database{Name: "sqlite", Dialect: schema.DialectSQLite}

	tableIndex, err := introspectTables(ctx, db, result)
	if err != nil {
		return nil, err
	}
	if err := introspectColumns(ctx, db, tableIndex); err != nil {
		return nil, err
	}
	if err := introspectForeignKeys(ctx, db, tableIndex); err != nil {
		return nil, err
	}
	if err := introspectUniqueConstraints(ctx, db, tableIndex); err != nil {
		return nil, err
	}
	return result, nil
}

func introspectTables(ctx context.Context, db *sql.DB, result *schema.Database) (map[string]*schema.Table, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
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
	for name, table := range tables {
		rows, err := db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%q)`, name))
		if err != nil {
			return fmt.Errorf("introspect: PRAGMA table_info(%s): %w", name, err)
		}

		var pkColumns []string
		for rows.Next() {
			var (
				cid       int
				colName   string
				typeStr   string
				notNull   int
				dfltValue sql.NullString
				pk        int
			)
			if err := rows.Scan(&cid, &colName, &typeStr, &notNull, &dfltValue, &pk); err != nil {
				rows.Close()
				return fmt.Errorf("introspect: scan table_info row for %s: %w", name, err)
			}

			col := &schema.Column{
				Name:          colName,
				RawType:       typeStr,
				Type:          schema.NormalizeDataType(typeStr),
				Nullable:      notNull == 0,
				HasDefault:    dfltValue.Valid,
				AutoIncrement: pk > 0 && strings.Contains(strings.ToUpper(typeStr), "INTEGER"),
				Ordinal:       cid,
			}
			table.Columns = append(table.Columns, col)
			if pk > 0 {
				pkColumns = append(pkColumns, colName)
			}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()
		table.PrimaryKey = pkColumns
	}
	return nil
}

func introspectForeignKeys(ctx context.Context, db *sql.DB, tables map[string]*schema.Table) error {
	for name, table := range tables {
		rows, err := db.QueryContext(ctx, fmt.Sprintf(`PRAGMA foreign_key_list(%q)`, name))
		if err != nil {
			return fmt.Errorf("introspect: PRAGMA foreign_key_list(%s): %w", name, err)
		}

		order := make([]int, 0)
		byID := make(map[int]*schema.ForeignKey)
		for rows.Next() {
			var (
				id, seq                                       int
				refTable, from, to, onUpdate, onDelete, match string
			)
			if err := rows.Scan(&id, &seq, &refTable, &from, &to, &onUpdate, &onDelete, &match); err != nil {
				rows.Close()
				return fmt.Errorf("introspect: scan foreign_key_list row for %s: %w", name, err)
			}

			fk, ok := byID[id]
			if !ok {
				fk = &schema.ForeignKey{
					ReferencedTable: refTable,
					OnDelete:        parseReferentialAction(onDelete),
					OnUpdate:        parseReferentialAction(onUpdate),
				}
				byID[id] = fk
				order = append(order, id)
			}
			fk.SourceColumns = append(fk.SourceColumns, from)
			fk.ReferencedColumns = append(fk.ReferencedColumns, to)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()

		for _, id := range order {
			table.ForeignKeys = append(table.ForeignKeys, byID[id])
		}
	}
	return nil
}

func parseReferentialAction(rule string) schema.ReferentialAction {
	switch strings.ToUpper(strings.TrimSpace(rule)) {
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
	for name, table := range tables {
		rows, err := db.QueryContext(ctx, fmt.Sprintf(`PRAGMA index_list(%q)`, name))
		if err != nil {
			return fmt.Errorf("introspect: PRAGMA index_list(%s): %w", name, err)
		}

		type indexRow struct {
			name   string
			unique int
		}
		var indexes []indexRow
		for rows.Next() {
			var (
				seq, unique, partial int
				idxName, origin      string
			)
			if err := rows.Scan(&seq, &idxName, &unique, &origin, &partial); err != nil {
				rows.Close()
				return fmt.Errorf("introspect: scan index_list row for %s: %w", name, err)
			}
			indexes = append(indexes, indexRow{name: idxName, unique: unique})
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()

		for _, idx := range indexes {
			if idx.unique != 1 {
				continue
			}
			infoRows, err := db.QueryContext(ctx, fmt.Sprintf(`PRAGMA index_info(%q)`, idx.name))
			if err != nil {
				return fmt.Errorf("introspect: PRAGMA index_info(%s): %w", idx.name, err)
			}
			var columns []string
			for infoRows.Next() {
				var seqno, cid int
				var colName sql.NullString
				if err := infoRows.Scan(&seqno, &cid, &colName); err != nil {
					infoRows.Close()
					return fmt.Errorf("introspect: scan index_info row for %s: %w", idx.name, err)
				}
				columns = append(columns, colName.String)
			}
			if err := infoRows.Err(); err != nil {
				infoRows.Close()
				return err
			}
			infoRows.Close()

			table.Uniques = append(table.Uniques, &schema.UniqueConstraint{Name: idx.name, Columns: columns})
		}
	}
	return nil
}
