package insert

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/kclaka/seedkit/internal/engine"
	"github.com/kclaka/seedkit/internal/schema"
	"github.com/kclaka/seedkit/internal/seedkiterr"
	"github.com/kclaka/seedkit/internal/value"
)

// insertBatchSize caps how many rows go into a single multi-row INSERT.
const insertBatchSize = 100

// progressBatchSize throttles the progress callback to avoid per-row
// overhead on large runs.
const progressBatchSize = 100

// ProgressFunc is invoked periodically during insertion with the number of
// rows inserted so far and the run's total row count.
type ProgressFunc func(rowsDone, rowsTotal int)

func reportProgress(cb ProgressFunc, current, total int) {
	if cb == nil {
		return
	}
	if current%progressBatchSize == 0 || current == total {
		cb(current, total)
	}
}

// quoteIdentifier quotes a SQL identifier for dialect: backticks for
// MySQL/MariaDB, double quotes otherwise.
func quoteIdentifier(name string, dialect schema.Dialect) string {
	if dialect == schema.DialectMySQL || dialect == schema.DialectMariaDB {
		return "`" + name + "`"
	}
	return `"` + name + `"`
}

func valueDialectFor(d schema.Dialect) value.Dialect {
	switch d {
	case schema.DialectPostgreSQL:
		return value.DialectPostgreSQL
	case schema.DialectMySQL, schema.DialectMariaDB:
		return value.DialectMySQL
	default:
		return value.DialectSQLite
	}
}

// buildBatchedInsert produces:
// INSERT INTO "table" ("col1", "col2") VALUES (v1, v2), (v3, v4)
func buildBatchedInsert(quotedTable, colList string, columns []string, rows []engine.Row, dialect schema.Dialect) string {
	vd := valueDialectFor(dialect)

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
			sb.WriteString(row.Get(col).ToSQLLiteral(vd))
		}
		sb.WriteByte(')')
	}

	return sb.String()
}

// buildDeferredUpdate produces an UPDATE statement resolving one
// cycle-broken foreign key, or ok=false if the table has no usable
// primary key to target.
func buildDeferredUpdate(du engine.DeferredUpdate, data *engine.GeneratedData, db *schema.Database, dialect schema.Dialect) (sql string, ok bool) {
	table := db.FindTable(du.TableName)
	if table == nil || len(table.PrimaryKey) == 0 {
		return "", false
	}
	rows, found := data.Tables[du.TableName]
	if !found || du.RowIndex < 0 || du.RowIndex >= len(rows) {
		return "", false
	}
	row := rows[du.RowIndex]
	vd := valueDialectFor(dialect)

	var whereParts []string
	for _, pkCol := range table.PrimaryKey {
		if v, present := row.Values[pkCol]; present && !v.IsNull() {
			whereParts = append(whereParts, fmt.Sprintf("%s = %s", quoteIdentifier(pkCol, dialect), v.ToSQLLiteral(vd)))
			continue
		}
		whereParts = append(whereParts, fmt.Sprintf("%s = %d", quoteIdentifier(pkCol, dialect), du.RowIndex+1))
	}
	if len(whereParts) == 0 {
		return "", false
	}

	return fmt.Sprintf(
		"UPDATE %s SET %s = %s WHERE %s",
		quoteIdentifier(du.TableName, dialect),
		quoteIdentifier(du.ColumnName, dialect),
		du.Value.ToSQLLiteral(vd),
		strings.Join(whereParts, " AND "),
	), true
}

// truncateSQL shortens sql for use in error messages.
func truncateSQL(sql string, maxLen int) string {
	if len(sql) <= maxLen {
		return sql
	}
	return sql[:maxLen] + "..."
}

// sanitizeURL redacts any password component of a connection URL so it is
// safe to surface in an error message. Returns the URL unchanged if it
// doesn't parse as a URL (e.g. a bare SQLite file path).
func sanitizeURL(dbURL string) string {
	parsed, err := url.Parse(dbURL)
	if err != nil {
		return dbURL
	}
	if _, hasPassword := parsed.User.Password(); hasPassword {
		parsed.User = url.UserPassword(parsed.User.Username(), "****")
	}
	// net/url percent-encodes '*' in the userinfo, so the mask is restored here.
	return strings.Replace(parsed.String(), ":%2A%2A%2A%2A@", ":****@", 1)
}

// insertAllTables drives a single transaction's worth of batched INSERTs
// for every table in data.TableOrder, reporting progress and building
// table-qualified errors on failure.
func insertAllTables(tx *sqlx.Tx, db *schema.Database, data *engine.GeneratedData, dialect schema.Dialect, progress ProgressFunc, totalRows int) error {
	rowsInserted := 0
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
			if _, err := tx.Exec(stmt); err != nil {
				return &seedkiterr.InsertFailedError{
					Table:      tableName,
					RowIndex:   rowsInserted,
					SQLPreview: truncateSQL(stmt, 200),
					Err:        err,
				}
			}
			rowsInserted += end - start
			reportProgress(progress, rowsInserted, totalRows)
		}

		if err := syncSequenceIfNeeded(tx, db, tableName, dialect); err != nil {
			return err
		}
	}

	for _, du := range data.DeferredUpdates {
		stmt, ok := buildDeferredUpdate(du, data, db, dialect)
		if !ok {
			continue
		}
		if _, err := tx.Exec(stmt); err != nil {
			return &seedkiterr.InsertFailedError{
				Table:      du.TableName,
				RowIndex:   du.RowIndex,
				SQLPreview: truncateSQL(stmt, 200),
				Err:        err,
			}
		}
	}

	return nil
}

// syncSequenceIfNeeded sets a PostgreSQL owned sequence to the table's
// current max(pk) after its rows are inserted, so a later INSERT that
// draws from the sequence doesn't collide with an existing ID. It is a
// best-effort, non-fatal step: a table may use an IDENTITY column with no
// owned sequence, in which case the statement fails, its savepoint is
// rolled back, and the surrounding transaction carries on.
func syncSequenceIfNeeded(tx *sqlx.Tx, db *schema.Database, tableName string, dialect schema.Dialect) error {
	if dialect != schema.DialectPostgreSQL {
		return nil
	}
	table := db.FindTable(tableName)
	if table == nil || len(table.PrimaryKey) != 1 {
		return nil
	}
	col := table.FindColumn(table.PrimaryKey[0])
	if col == nil || !(col.AutoIncrement || col.Type.IsSerial()) {
		return nil
	}

	pkQuoted := quoteIdentifier(table.PrimaryKey[0], dialect)
	quotedTable := quoteIdentifier(tableName, dialect)
	syncSQL := fmt.Sprintf(
		"SELECT setval(pg_get_serial_sequence('%s', '%s'), coalesce(max(%s), 1), max(%s) IS NOT NULL) FROM %s",
		tableName, table.PrimaryKey[0], pkQuoted, pkQuoted, quotedTable,
	)
	// A failed statement aborts a PostgreSQL transaction, so the attempt
	// runs inside a savepoint that is rolled back on failure.
	if _, err := tx.Exec("SAVEPOINT seedkit_seq_sync"); err != nil {
		return nil
	}
	if _, err := tx.Exec(syncSQL); err != nil {
		_, _ = tx.Exec("ROLLBACK TO SAVEPOINT seedkit_seq_sync")
		return nil
	}
	_, _ = tx.Exec("RELEASE SAVEPOINT seedkit_seq_sync")
	return nil
}
