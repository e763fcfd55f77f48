// Package introspect reads the live structure of a running database —
// tables, columns, primary keys, foreign keys, unique and check
// constraints — into a schema.Database that the rest of the pipeline can
// plan against.
package introspect

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/kclaka/seedkit/internal/schema"
	"github.com/kclaka/seedkit/internal/seedkiterr"
)

// Introspecter reads every table belonging to a dialect out of an already
// connected database handle.
type Introspecter interface {
	Introspect(ctx context.Context, db *sql.DB) (*schema.Database, error)
}

var (
	registry = make(map[schema.Dialect]func() Introspecter)
	mu       sync.RWMutex
)

func Register(dialect schema.Dialect, fn func() Introspecter) {
	mu.Lock()
	defer mu.Unlock()
	registry[dialect] = fn
}

func NewIntrospecter(dialect schema.Dialect) (Introspecter, error) {
	mu.RLock()
	fn, ok := registry[dialect]
	mu.RUnlock()

	if !ok {
		return nil, &seedkiterr.UnsupportedDatabaseError{Scheme: string(dialect)}
	}
	return fn(), nil
}

// driverNames maps a connection scheme to the database/sql driver
// registered for it.
var driverNames = map[schema.Dialect]string{
	schema.DialectPostgreSQL: "postgres",
	schema.DialectMySQL:      "mysql",
	schema.DialectMariaDB:    "mysql",
	schema.DialectSQLite:     "sqlite",
}

// DialectFromURL inspects a connection string's scheme to decide which
// dialect to introspect with. MySQL and MariaDB share a scheme and a
// wire protocol; MariaDB-specific behavior only matters once a live
// connection reveals its version string, so at this stage both resolve
// to DialectMySQL.
func DialectFromURL(dbURL string) (schema.Dialect, error) {
	trimmed := strings.TrimSpace(dbURL)
	if trimmed == "" {
		return "", seedkiterr.ErrNoDatabaseURL
	}

	u, err := url.Parse(trimmed)
	if err != nil || u.Scheme == "" {
		return schema.DialectSQLite, nil
	}

	switch strings.ToLower(u.Scheme) {
	case "postgres", "postgresql":
		return schema.DialectPostgreSQL, nil
	case "mysql", "mariadb":
		return schema.DialectMySQL, nil
	case "sqlite", "sqlite3", "file":
		return schema.DialectSQLite, nil
	default:
		return "", &seedkiterr.UnsupportedDatabaseError{Scheme: u.Scheme}
	}
}

// Connect opens a database/sql connection appropriate for dbURL's scheme
// and introspects it with the matching registered Introspecter.
func Connect(ctx context.Context, dbURL string) (*schema.Database, error) {
	dialect, err := DialectFromURL(dbURL)
	if err != nil {
		return nil, err
	}

	driver, ok := driverNames[dialect]
	if !ok {
		return nil, &seedkiterr.UnsupportedDatabaseError{Scheme: string(dialect)}
	}

	conn, err := sql.Open(driver, dbURL)
	if err != nil {
		return nil, fmt.Errorf("introspect: open %s connection: %w", dialect, err)
	}
	defer conn.Close()
	conn.SetMaxOpenConns(5)
	if dialect == schema.DialectSQLite {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("introspect: ping %s database: %w", dialect, err)
	}

	ic, err := NewIntrospecter(dialect)
	if err != nil {
		return nil, err
	}

	db, err := ic.Introspect(ctx, conn)
	if err != nil {
		return nil, err
	}
	db.Dialect = dialect
	return db, nil
}
