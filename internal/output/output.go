// Package output renders a completed generation run as SQL, CSV, or JSON,
// streaming table-by-table in schema order so large runs never need the
// full result set resident twice.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/kclaka/seedkit/internal/engine"
	"github.com/kclaka/seedkit/internal/schema"
	"github.com/kclaka/seedkit/internal/value"
)

// Format is an enum type representing the available output formats.
type Format string

const (
	FormatSQL  Format = "sql"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Writer renders a generation run to w in a table order matching
// data.TableOrder (the schema's own dependency order).
type Writer interface {
	Write(w io.Writer, db *schema.Database, data *engine.GeneratedData) error
}

// NewWriter creates a Writer for the named format. An empty name defaults
// to SQL.
func NewWriter(name string) (Writer, error) {
	format := Format(strings.ToLower(strings.TrimSpace(name)))
	switch format {
	case "", FormatSQL:
		return sqlWriter{}, nil
	case FormatCSV:
		return csvWriter{}, nil
	case FormatJSON:
		return jsonWriter{}, nil
	default:
		return nil, fmt.Errorf("output: unsupported format %q; use 'sql', 'csv', or 'json'", name)
	}
}

// valueDialectFor maps the schema dialect to the literal-rendering dialect
// used by the value package. MariaDB renders identically to MySQL.
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
