package insert

import (
	"context"

	"github.com/kclaka/seedkit/internal/engine"
	"github.com/kclaka/seedkit/internal/schema"
)

func insertPostgres(ctx context.Context, dbURL string, db *schema.Database, data *engine.GeneratedData, totalRows int, progress ProgressFunc) error {
	conn, err := connect("postgres", dbURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return beginFailed(err)
	}

	if err := insertAllTables(tx, db, data, schema.DialectPostgreSQL, progress, totalRows); err != nil {
		_ = tx.Rollback()
		return err
	}

	rowsInserted := 0
	for _, rows := range data.Tables {
		rowsInserted += len(rows)
	}
	if err := tx.Commit(); err != nil {
		return commitFailed(rowsInserted, err)
	}
	return nil
}
