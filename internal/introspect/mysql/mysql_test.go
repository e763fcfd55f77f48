package mysql

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"

	"github.com/kclaka/seedkit/internal/schema"
)

func TestParseMySQLEnumValues(t *testing.T) {
	assert.Equal(t, []string{"active", "inactive", "suspended"},
		parseMySQLEnumValues("enum('active','inactive','suspended')"))
	assert.Nil(t, parseMySQLEnumValues("varchar(255)"))
}

func TestParseReferentialAction(t *testing.T) {
	assert.Equal(t, schema.RefActionCascade, parseReferentialAction("CASCADE"))
	assert.Equal(t, schema.RefActionNoAction, parseReferentialAction("NO ACTION"))
}

func TestIntrospectIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	container, err := tcmysql.Run(ctx, "mysql:8.0",
		tcmysql.WithDatabase("seedkit_test"),
		tcmysql.WithUsername("root"),
		tcmysql.WithPassword("testpass"),
	)
	require.NoError(t, err, "failed to start MySQL container")
	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(container)
	})

	dsn, err := container.ConnectionString(ctx, "parseTime=true")
	require.NoError(t, err)

	db, err := sql.Open("mysql", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.PingContext(ctx))

	_, err = db.ExecContext(ctx, `
		CREATE TABLE authors (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(100) NOT NULL
		)`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `
		CREATE TABLE books (
			id INT AUTO_INCREMENT PRIMARY KEY,
			title VARCHAR(200) NOT NULL,
			isbn VARCHAR(20) NOT NULL UNIQUE,
			author_id INT NOT NULL,
			status ENUM('draft', 'published') NOT NULL DEFAULT 'draft',
			CONSTRAINT fk_books_author FOREIGN KEY (author_id) REFERENCES authors(id)
		)`)
	require.NoError(t, err)

	ic := &introspecter{}
	result, err := ic.Introspect(ctx, db)
	require.NoError(t, err)

	books := result.FindTable("books")
	require.NotNil(t, books)
	assert.Equal(t, []string{"id"}, books.PrimaryKey)
	require.Len(t, books.ForeignKeys, 1)
	assert.Equal(t, "authors", books.ForeignKeys[0].ReferencedTable)
	require.Len(t, books.Uniques, 1)
	assert.Equal(t, []string{"isbn"}, books.Uniques[0].Columns)

	status := books.FindColumn("status")
	require.NotNil(t, status)
	assert.ElementsMatch(t, []string{"draft", "published"}, status.EnumValues)
}
