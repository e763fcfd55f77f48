package insert

import (
	"context"

	"github.com/kclaka/seedkit/internal/engine"
	"github.com/kclaka/seedkit/internal/schema"
)

func insertMySQL(ctx context.Context, dbURL string, db *schema.Database, data *engine.GeneratedData, totalRows int, progress ProgressFunc) error {
	conn, err := connect("mysql", dbURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return beginFailed(err)
	}

	// Defer FK validation until every table is loaded, so insertion order
	// doesn't need to satisfy referential integrity row-by-row.
	if _, err := tx.Exec("SET FOREIGN_KEY_CHECKS = 0"); err != nil {
		_ = tx.Rollback()
		return execFailed("SET FOREIGN_KEY_CHECKS = 0", err)
	}

	if err := insertAllTables(tx, db, data, schema.DialectMySQL, progress, totalRows); err != nil {
		_ = tx.Rollback()
		return err
	}

	// Best-effort: re-enabling FK checks failing shouldn't abort a
	// successful insert.
	_, _ = tx.Exec("SET FOREIGN_KEY_CHECKS = 1")

	rowsInserted := 0
	for _, rows := range data.Tables {
		rowsInserted += len(rows)
	}
	if err := tx.Commit(); err != nil {
		return commitFailed(rowsInserted, err)
	}
	return nil
}
