// Package insert writes a completed generation run directly into a live
// database, using the fastest transactional approach available for each
// engine. All statements for a run share one transaction: if any batch
// fails, the whole insertion rolls back and the database is left exactly
// as it was found.
package insert

import (
	"context"

	"github.com/jmoiron/sqlx"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/kclaka/seedkit/internal/engine"
	"github.com/kclaka/seedkit/internal/schema"
	"github.com/kclaka/seedkit/internal/seedkiterr"
)

// Direct connects to dbURL and inserts every generated row, dispatching to
// the dialect-specific strategy named on db.Dialect. progress is called
// periodically with the cumulative row count; it may be nil.
func Direct(ctx context.Context, dbURL string, db *schema.Database, data *engine.GeneratedData, progress ProgressFunc) error {
	totalRows := 0
	for _, rows := range data.Tables {
		totalRows += len(rows)
	}

	switch db.Dialect {
	case schema.DialectPostgreSQL:
		return insertPostgres(ctx, dbURL, db, data, totalRows, progress)
	case schema.DialectMySQL, schema.DialectMariaDB:
		return insertMySQL(ctx, dbURL, db, data, totalRows, progress)
	case schema.DialectSQLite:
		return insertSQLite(ctx, dbURL, db, data, totalRows, progress)
	default:
		return &seedkiterr.UnsupportedDatabaseError{Scheme: string(db.Dialect)}
	}
}

// connect opens a connection pool capped at five open connections,
// wrapping any failure with a password-redacted connection hint.
func connect(driverName, dbURL string) (*sqlx.DB, error) {
	conn, err := sqlx.Connect(driverName, dbURL)
	if err != nil {
		return nil, &seedkiterr.ConnectionError{ConnectionHint: sanitizeURL(dbURL), Err: err}
	}
	conn.SetMaxOpenConns(5)
	return conn, nil
}

func beginFailed(err error) error {
	return &seedkiterr.InsertFailedError{Table: "(session)", RowIndex: 0, SQLPreview: "BEGIN", Err: err}
}

func commitFailed(rowsInserted int, err error) error {
	return &seedkiterr.InsertFailedError{Table: "(session)", RowIndex: rowsInserted, SQLPreview: "COMMIT", Err: err}
}

func execFailed(sql string, err error) error {
	return &seedkiterr.InsertFailedError{Table: "(session)", RowIndex: 0, SQLPreview: sql, Err: err}
}
