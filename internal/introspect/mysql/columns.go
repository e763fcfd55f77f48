package mysql

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/kclaka/seedkit/internal/schema"
)

func introspectColumns(ic *introspectCtx, t *schema.Table) error {
	rows, err := ic.db.QueryContext(ic.ctx, `
		SELECT
			c.column_name,
			c.data_type,
			c.column_type,
			c.is_nullable,
			c.column_default,
			c.character_maximum_length,
			c.numeric_precision,
			c.numeric_scale,
			c.ordinal_position,
			c.extra
		FROM information_schema.columns c
		WHERE c.table_schema = DATABASE() AND c.table_name = ?
		ORDER BY c.ordinal_position
	`, t.Name)
	if err != nil {
		return fmt.Errorf("introspect: fetch columns for %s: %w", t.Name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			name, dataType, columnType, nullable, extra string
			defaultVal                                   sql.NullString
			maxLength, numericPrecision, numericScale     sql.NullInt64
			ordinal                                       int
		)
		if err := rows.Scan(&name, &dataType, &columnType, &nullable, &defaultVal,
			&maxLength, &numericPrecision, &numericScale, &ordinal, &extra); err != nil {
			return fmt.Errorf("introspect: scan column row for %s: %w", t.Name, err)
		}

		col := &schema.Column{
			Name:          name,
			RawType:       dataType,
			Nullable:      nullable == "YES",
			HasDefault:    defaultVal.Valid,
			AutoIncrement: strings.Contains(extra, "auto_increment"),
			Length:        int(maxLength.Int64),
			Precision:     int(numericPrecision.Int64),
			Scale:         int(numericScale.Int64),
			Ordinal:       ordinal,
		}

		if dataType == "enum" || dataType == "set" {
			col.Type = schema.DataTypeEnum
			col.EnumValues = parseMySQLEnumValues(columnType)
		} else {
			col.Type = schema.NormalizeDataType(dataType)
		}

		t.Columns = append(t.Columns, col)
	}

	return rows.Err()
}

// parseMySQLEnumValues parses a column_type string like
// "enum('a','b','c')" into its literal values. Any column_type that is not
// an enum(...) or set(...) yields nil.
func parseMySQLEnumValues(columnType string) []string {
	s := strings.TrimSpace(columnType)
	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "enum(") && !strings.HasPrefix(lower, "set(") {
		return nil
	}
	start := strings.Index(s, "(")
	end := strings.LastIndex(s, ")")
	if start < 0 || end < 0 || end <= start {
		return nil
	}
	inner := s[start+1 : end]
	parts := strings.Split(inner, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		values = append(values, strings.Trim(strings.TrimSpace(p), "'"))
	}
	return values
}
