package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kclaka/seedkit/internal/engine"
	"github.com/kclaka/seedkit/internal/schema"
	"github.com/kclaka/seedkit/internal/value"
)

func sampleData() (*schema.Database, *engine.GeneratedData) {
	db := &schema.Database{
		Dialect: schema.DialectPostgreSQL,
		Tables: []*schema.Table{
			{Name: "users", PrimaryKey: []string{"id"}},
		},
	}

	row1 := engine.Row{Columns: []string{"id", "name"}, Values: map[string]value.Value{
		"id":   value.Int(1),
		"name": value.String("Alice"),
	}}
	row2 := engine.Row{Columns: []string{"id", "name"}, Values: map[string]value.Value{
		"id":   value.Int(2),
		"name": value.String("Bob, Jr."),
	}}

	data := &engine.GeneratedData{
		Tables:     map[string][]engine.Row{"users": {row1, row2}},
		TableOrder: []string{"users"},
	}
	return db, data
}

func TestNewWriterDefaultsToSQL(t *testing.T) {
	w, err := NewWriter("")
	require.NoError(t, err)
	_, ok := w.(sqlWriter)
	assert.True(t, ok)
}

func TestNewWriterUnsupportedFormat(t *testing.T) {
	_, err := NewWriter("xml")
	assert.Error(t, err)
}

func TestSQLWriterProducesBatchedInsert(t *testing.T) {
	db, data := sampleData()
	w, err := NewWriter("sql")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, db, data))

	out := buf.String()
	assert.Contains(t, out, `INSERT INTO "users" ("id", "name") VALUES`)
	assert.Contains(t, out, "(1, 'Alice')")
	assert.Contains(t, out, "(2, 'Bob, Jr.')")
}

func TestSQLWriterQuotesMySQLIdentifiers(t *testing.T) {
	db, data := sampleData()
	db.Dialect = schema.DialectMySQL
	w, err := NewWriter("sql")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, db, data))
	assert.Contains(t, buf.String(), "INSERT INTO `users`")
}

func TestCSVWriterEscapesCommaAndQuote(t *testing.T) {
	db, data := sampleData()
	w, err := NewWriter("csv")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, db, data))

	out := buf.String()
	assert.Contains(t, out, "# Table: users\n")
	assert.Contains(t, out, "id,name\n")
	assert.Contains(t, out, `"Bob, Jr."`)
}

func TestJSONWriterProducesValidJSON(t *testing.T) {
	db, data := sampleData()
	w, err := NewWriter("json")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, db, data))

	assert.Contains(t, buf.String(), `"users":[{"id":1,"name":"Alice"},{"id":2,"name":"Bob, Jr."}]`)
}

func TestJSONWriterIncludesDeferredUpdates(t *testing.T) {
	db, data := sampleData()
	data.DeferredUpdates = []engine.DeferredUpdate{
		{TableName: "users", RowIndex: 0, ColumnName: "manager_id", Value: value.Int(2)},
	}
	w, err := NewWriter("json")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, db, data))

	assert.Contains(t, buf.String(), `"_deferred_updates":[{"table":"users","row_index":0,"column":"manager_id","value":2}]`)
}

func TestSQLWriterIncludesDeferredUpdateWithPrimaryKey(t *testing.T) {
	db, data := sampleData()
	data.DeferredUpdates = []engine.DeferredUpdate{
		{TableName: "users", RowIndex: 1, ColumnName: "manager_id", Value: value.Int(1)},
	}
	w, err := NewWriter("sql")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, db, data))

	assert.Contains(t, buf.String(), `UPDATE "users" SET "manager_id" = 1 WHERE "id" = 2`)
}
