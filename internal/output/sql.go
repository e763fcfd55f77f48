package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/kclaka/seedkit/internal/engine"
	"github.com/kclaka/seedkit/internal/schema"
)

// insertBatchSize caps how many rows go into a single multi-row INSERT
// statement, matching the batching used for direct DB insertion so the
// generated SQL and the direct-insert path produce statements of the same
// shape.
const insertBatchSize = 100

type sqlWriter struct{}

func (sqlWriter) Write(w io.Writer, db *schema.Database, data *engine.GeneratedData) error {
	dialect := db.Dialect
	for _, tableName := range data.TableOrder {
		rows := data.Tables[tableName]
		if len(rows) == 0 {
			continue
		}

		columns := rows[0].Columns
		quotedTable := quoteIdentifier(tableName, dialect)
		quotedColumns := make([]string, len(columns))
		for i, c := range columns {
			quotedColumns[i] = quoteIdentifier(c, dialect)
		}
		colList := strings.Join(quotedColumns, ", ")

		for start := 0; start < len(rows); start += insertBatchSize {
			end := start + insertBatchSize
			if end > len(rows) {
				end = len(rows)
			}
			stmt := buildBatchedInsert(quotedTable, colList, columns, rows[start:end], dialect)
			if _, err := io.WriteString(w, stmt+";\n"); err != nil {
				return fmt.Errorf("output: writing INSERT for %s: %w", tableName, err)
			}
		}
	}

	if len(data.DeferredUpdates) > 0 {
		if _, err := io.WriteString(w, "\n-- deferred foreign key updates\n"); err != nil {
			return err
		}
		for _, du := range data.DeferredUpdates {
			stmt, ok := buildDeferredUpdate(du, data, db, dialect)
			if !ok {
				continue
			}
			if _, err := io.WriteString(w, stmt+";\n"); err != nil {
				return fmt.Errorf("output: writing deferred UPDATE for %s: %w", du.TableName, err)
			}
		}
	}

	return nil
}

// buildBatchedInsert produces:
// INSERT INTO "table" ("col1", "col2") VALUES (v1, v2), (v3, v4)
func buildBatchedInsert(quotedTable, colList string, columns []string, rows []engine.Row, dialect schema.Dialect) string {
	valueDialect := valueDialectFor(dialect)

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(quotedTable)
	sb.WriteString(" (")
	sb.WriteString(colList)
	sb.WriteString(") VALUES ")

	for i, row := range rows {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for j, col := range columns {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(row.Get(col).ToSQLLiteral(valueDialect))
		}
		sb.WriteByte(')')
	}

	return sb.String()
}

// buildDeferredUpdate produces an UPDATE statement resolving one
// cycle-broken foreign key. The row's primary key columns identify which
// row to touch; a PK column synthesized as an auto-increment value that
// isn't present on the row falls back to its 1-based row position.
func buildDeferredUpdate(du engine.DeferredUpdate, data *engine.GeneratedData, db *schema.Database, dialect schema.Dialect) (string, bool) {
	table := db.FindTable(du.TableName)
	if table == nil || len(table.PrimaryKey) == 0 {
		return "", false
	}

	rows, ok := data.Tables[du.TableName]
	if !ok || du.RowIndex < 0 || du.RowIndex >= len(rows) {
		return "", false
	}
	row := rows[du.RowIndex]
	valueDialect := valueDialectFor(dialect)

	var whereParts []string
	for _, pkCol := range table.PrimaryKey {
		if v, ok := row.Values[pkCol]; ok && !v.IsNull() {
			whereParts = append(whereParts, fmt.Sprintf("%s = %s", quoteIdentifier(pkCol, dialect), v.ToSQLLiteral(valueDialect)))
			continue
		}
		id := du.RowIndex + 1
		whereParts = append(whereParts, fmt.Sprintf("%s = %d", quoteIdentifier(pkCol, dialect), id))
	}
	if len(whereParts) == 0 {
		return "", false
	}

	return fmt.Sprintf(
		"UPDATE %s SET %s = %s WHERE %s",
		quoteIdentifier(du.TableName, dialect),
		quoteIdentifier(du.ColumnName, dialect),
		du.Value.ToSQLLiteral(valueDialect),
		strings.Join(whereParts, " AND "),
	), true
}

// quoteIdentifier quotes a SQL identifier for dialect: backticks for
// MySQL/MariaDB, double quotes otherwise.
func quoteIdentifier(name string, dialect schema.Dialect) string {
	if dialect == schema.DialectMySQL || dialect == schema.DialectMariaDB {
		return "`" + name + "`"
	}
	return `"` + name + `"`
}
