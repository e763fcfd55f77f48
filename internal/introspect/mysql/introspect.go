// Package mysql introspects MySQL, MariaDB and TiDB databases into a
// schema.Database. All three speak the same wire protocol and
// information_schema layout; the sub-dialect is detected from the
// server's version comment once a connection is open.
package mysql

import (
	"context"
	"database/sql"

	"github.com/kclaka/seedkit/internal/introspect"
	"github.com/kclaka/seedkit/internal/schema"
)

func init() {
	introspect.Register(schema.DialectMySQL, New)
	introspect.Register(schema.DialectMariaDB, New)
}

type introspecter struct{}

func New() introspect.Introspecter {
	return &introspecter{}
}

type introspectCtx struct {
	ctx context.Context
	db  *sql.DB
}

func (i *introspecter) Introspect(ctx context.Context, db *sql.DB) (*schema.Database, error) {
	dialect, _, err := detectDialect(ctx, db)
	if err != nil {
		return nil, err
	}

	ic := &introspectCtx{ctx: ctx, db: db}
	var dbName string
	_ = db.QueryRowContext(ctx, "SELECT DATABASE()").Scan(&dbName)
	result := &schema.Database{Name: dbName, Dialect: dialect}

	tableIndex, err := introspectTables(ic, result)
	if err != nil {
		return nil, err
	}
	if err := introspectPrimaryKeys(ic, tableIndex); err != nil {
		return nil, err
	}
	if err := introspectForeignKeys(ic, tableIndex); err != nil {
		return nil, err
	}
	if err := introspectUniqueConstraints(ic, tableIndex); err != nil {
		return nil, err
	}

	return result, nil
}
