package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/kclaka/seedkit/internal/engine"
	"github.com/kclaka/seedkit/internal/schema"
)

// jsonWriter streams the result directly to w table-by-table and
// row-by-row rather than building the whole tree in memory first, so a
// large run never needs two full copies of the generated data resident at
// once.
type jsonWriter struct{}

func (jsonWriter) Write(w io.Writer, db *schema.Database, data *engine.GeneratedData) error {
	if _, err := io.WriteString(w, "{"); err != nil {
		return err
	}

	for i, tableName := range data.TableOrder {
		if i > 0 {
			if _, err := io.WriteString(w, ","); err != nil {
				return err
			}
		}
		if err := writeJSONKey(w, tableName); err != nil {
			return err
		}
		if _, err := io.WriteString(w, ":["); err != nil {
			return err
		}
		rows := data.Tables[tableName]
		for r, row := range rows {
			if r > 0 {
				if _, err := io.WriteString(w, ","); err != nil {
					return err
				}
			}
			if err := writeJSONRow(w, row); err != nil {
				return fmt.Errorf("output: writing JSON row %d of %s: %w", r, tableName, err)
			}
		}
		if _, err := io.WriteString(w, "]"); err != nil {
			return err
		}
	}

	if len(data.DeferredUpdates) > 0 {
		if _, err := io.WriteString(w, `,"_deferred_updates":[`); err != nil {
			return err
		}
		for i, du := range data.DeferredUpdates {
			if i > 0 {
				if _, err := io.WriteString(w, ","); err != nil {
					return err
				}
			}
			if err := writeJSONDeferredUpdate(w, du); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "]"); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "}")
	return err
}

func writeJSONKey(w io.Writer, key string) error {
	encoded, err := json.Marshal(key)
	if err != nil {
		return err
	}
	_, err = w.Write(encoded)
	return err
}

func writeJSONRow(w io.Writer, row engine.Row) error {
	if _, err := io.WriteString(w, "{"); err != nil {
		return err
	}
	for i, col := range row.Columns {
		if i > 0 {
			if _, err := io.WriteString(w, ","); err != nil {
				return err
			}
		}
		if err := writeJSONKey(w, col); err != nil {
			return err
		}
		if _, err := io.WriteString(w, ":"); err != nil {
			return err
		}
		encoded, err := json.Marshal(row.Get(col).ToJSONValue())
		if err != nil {
			return err
		}
		if _, err := w.Write(encoded); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "}")
	return err
}

func writeJSONDeferredUpdate(w io.Writer, du engine.DeferredUpdate) error {
	encoded, err := json.Marshal(struct {
		Table    string `json:"table"`
		RowIndex int    `json:"row_index"`
		Column   string `json:"column"`
		Value    any    `json:"value"`
	}{
		Table:    du.TableName,
		RowIndex: du.RowIndex,
		Column:   du.ColumnName,
		Value:    du.Value.ToJSONValue(),
	})
	if err != nil {
		return err
	}
	_, err = w.Write(encoded)
	return err
}
