package mysql

import (
	"context"
	"database/sql"
	"strings"

	"github.com/kclaka/seedkit/internal/schema"
)

func detectDialect(ctx context.Context, db *sql.DB) (schema.Dialect, string, error) {
	var varName, comment string

	err := db.QueryRowContext(ctx, "SHOW VARIABLES LIKE 'version_comment'").Scan(&varName, &comment)
	if err != nil {
		return "", "", err
	}

	comment = strings.ToLower(comment)

	switch {
	case strings.Contains(comment, "mariadb"):
		return schema.DialectMariaDB, getVersion(ctx, db), nil
	default:
		return schema.DialectMySQL, getVersion(ctx, db), nil
	}
}

func getVersion(ctx context.Context, db *sql.DB) string {
	var version string
	_ = db.QueryRowContext(ctx, "SELECT VERSION()").Scan(&version)
	if idx := strings.Index(version, "-"); idx > 0 {
		version = version[:idx]
	}
	return version
}
