package sqlite

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntrospect(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.ExecContext(ctx, `
		CREATE TABLE authors (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL
		)`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `
		CREATE TABLE books (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			isbn TEXT NOT NULL UNIQUE,
			author_id INTEGER NOT NULL,
			FOREIGN KEY (author_id) REFERENCES authors(id) ON DELETE CASCADE
		)`)
	require.NoError(t, err)

	ic := New()
	result, err := ic.Introspect(ctx, db)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"authors", "books"}, result.TableNames())

	books := result.FindTable("books")
	require.NotNil(t, books)
	assert.Equal(t, []string{"id"}, books.PrimaryKey)
	assert.True(t, books.Columns[0].AutoIncrement)

	require.Len(t, books.ForeignKeys, 1)
	assert.Equal(t, "authors", books.ForeignKeys[0].ReferencedTable)
	assert.Equal(t, []string{"author_id"}, books.ForeignKeys[0].SourceColumns)

	require.Len(t, books.Uniques, 1)
	assert.Equal(t, []string{"isbn"}, books.Uniques[0].Columns)
}

func TestParseReferentialAction(t *testing.T) {
	assert.Equal(t, "CASCADE", string(parseReferentialAction("CASCADE")))
	assert.Equal(t, "NO ACTION", string(parseReferentialAction("garbage")))
}
