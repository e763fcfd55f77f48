package insert

import (
	"context"

	"github.com/kclaka/seedkit/internal/engine"
	"github.com/kclaka/seedkit/internal/schema"
)

func insertSQLite(ctx context.Context, dbURL string, db *schema.Database, data *engine.GeneratedData, totalRows int, progress ProgressFunc) error {
	conn, err := connect("sqlite", dbURL)
	if err != nil {
		return err
	}
	defer conn.Close()
	conn.SetMaxOpenConns(1) // a single writer transaction; SQLite serializes writes anyway

	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return beginFailed(err)
	}

	if _, err := tx.Exec("PRAGMA foreign_keys = OFF"); err != nil {
		_ = tx.Rollback()
		return execFailed("PRAGMA foreign_keys = OFF", err)
	}

	if err := insertAllTables(tx, db, data, schema.DialectSQLite, progress, totalRows); err != nil {
		_ = tx.Rollback()
		return err
	}

	_, _ = tx.Exec("PRAGMA foreign_keys = ON")

	rowsInserted := 0
	for _, rows := range data.Tables {
		rowsInserted += len(rows)
	}
	if err := tx.Commit(); err != nil {
		return commitFailed(rowsInserted, err)
	}
	return nil
}
