package mysql

import (
	"fmt"

	"github.com/kclaka/seedkit/internal/schema"
)

func introspectTables(ic *introspectCtx, result *schema.Database) (map[string]*schema.Table, error) {
	rows, err := ic.db.QueryContext(ic.ctx, `
		SELECT table_name, table_comment
		FROM information_schema.tables
		WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`)
	if err != nil {
		return nil, fmt.Errorf("introspect: fetch tables: %w", err)
	}
	defer rows.Close()

	index := make(map[string]*schema.Table)
	var names []string
	for rows.Next() {
		var name, comment string
		if err := rows.Scan(&name, &comment); err != nil {
			return nil, fmt.Errorf("introspect: scan table row: %w", err)
		}
		t := &schema.Table{Name: name, Comment: comment}
		result.Tables = append(result.Tables, t)
		index[name] = t
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, name := range names {
		if err := introspectColumns(ic, index[name]); err != nil {
			return nil, err
		}
	}

	return index, nil
}
