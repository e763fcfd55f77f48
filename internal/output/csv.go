package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/kclaka/seedkit/internal/engine"
	"github.com/kclaka/seedkit/internal/schema"
)

type csvWriter struct{}

func (csvWriter) Write(w io.Writer, db *schema.Database, data *engine.GeneratedData) error {
	for i, tableName := range data.TableOrder {
		rows := data.Tables[tableName]
		if len(rows) == 0 {
			continue
		}
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := writeCSVTable(w, tableName, rows); err != nil {
			return fmt.Errorf("output: writing CSV for %s: %w", tableName, err)
		}
	}
	return nil
}

func writeCSVTable(w io.Writer, tableName string, rows []engine.Row) error {
	if _, err := fmt.Fprintf(w, "# Table: %s\n", tableName); err != nil {
		return err
	}

	columns := rows[0].Columns
	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = csvEscape(c)
	}
	if _, err := io.WriteString(w, strings.Join(header, ",")+"\n"); err != nil {
		return err
	}

	for _, row := range rows {
		fields := make([]string, len(columns))
		for i, c := range columns {
			fields[i] = csvEscape(row.Get(c).ToCSVScalar())
		}
		if _, err := io.WriteString(w, strings.Join(fields, ",")+"\n"); err != nil {
			return err
		}
	}

	return nil
}

// csvEscape quotes a field if it contains a comma, quote, or newline,
// doubling any embedded quotes.
func csvEscape(s string) string {
	if strings.ContainsAny(s, ",\"\n\r") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
