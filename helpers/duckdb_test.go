package helpers

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/salespulse/schema"
)

func TestLoadDuckDBCSVDir(t *testing.T) {
	tables, err := LoadDuckDB(context.Background(), writeFixtureDir(t))
	require.NoError(t, err)
	require.Len(t, tables, 3)

	items, ok := tables.Lookup("items")
	require.True(t, ok)
	assert.Equal(t, []string{"10", "Cotton Solid Tops", "Tops", "Solid", "spring/summer", "10.50"}, items.Rows[0],
		"all_varchar keeps the cell text as written")

	// The short second row must not change the delimiter or column count.
	tx, ok := tables.Lookup("transactions")
	require.True(t, ok)
	assert.Equal(t, []string{"user_id", "item_id", "amount", "order_date"}, tx.Columns)
	require.Len(t, tx.Rows, 2)
	assert.Equal(t, []string{"2", "10", "1", ""}, tx.Rows[1])

	users, ok := tables.Lookup("users")
	require.True(t, ok)
	assert.Len(t, users.Columns, 4)
	require.Len(t, users.Rows, 2, "all-blank rows are dropped")
	assert.Equal(t, "Ray, Bob", users.Rows[1][1])

	ds, err := schema.Normalize(tables)
	require.NoError(t, err)
	assert.Len(t, ds.Persons, 2)
	require.Len(t, ds.Transactions, 2)
	assert.False(t, ds.Transactions[1].OrderDate.Valid)
}

func TestReadSheetsLogsUnreadableSheets(t *testing.T) {
	db, err := sql.Open("duckdb", "")
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	logger, hook := logtest.NewNullLogger()
	path := filepath.Join(t.TempDir(), "missing.xlsx")

	tables := readSheets(context.Background(), db, path, logger)
	assert.Empty(t, tables)

	entries := hook.AllEntries()
	require.Len(t, entries, len(schema.RequiredTables))
	for i, e := range entries {
		assert.Equal(t, logrus.WarnLevel, e.Level)
		assert.Equal(t, schema.RequiredTables[i], e.Data["sheet"])
		assert.Equal(t, path, e.Data["workbook"])
		assert.NotNil(t, e.Data[logrus.ErrorKey])
	}
}

func TestLoadDuckDBDatabaseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.duckdb")

	db, err := sql.Open("duckdb", path)
	require.NoError(t, err)
	for _, stmt := range []string{
		"CREATE TABLE users (user_id INTEGER, full_name VARCHAR, birth_date DATE, gender VARCHAR)",
		"INSERT INTO users VALUES (1, 'Ann Lee', DATE '1990-05-01', 'female')",
		"CREATE TABLE transactions (user_id INTEGER, item_id INTEGER, amount DOUBLE, order_date DATE)",
		"INSERT INTO transactions VALUES (1, 10, 2, DATE '2024-01-03')",
		"CREATE TABLE items (item_id INTEGER, item_name VARCHAR, category VARCHAR, printing VARCHAR, season VARCHAR, price DOUBLE)",
		"INSERT INTO items VALUES (10, 'Cotton Solid Tops', 'Tops', 'Solid', 'spring/summer', 10.5)",
		"CREATE TABLE notes (body VARCHAR)",
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}
	require.NoError(t, db.Close())

	tables, err := LoadDuckDB(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, tables, 3)

	assert.Equal(t, [][]string{{"1", "10", "2", "2024-01-03"}}, tables["transactions"].Rows)

	ds, err := schema.Normalize(tables)
	require.NoError(t, err)
	require.Len(t, ds.Items, 1)
	assert.Equal(t, 10.5, ds.Items[0].UnitPrice.V)
	assert.True(t, ds.Persons[0].BirthDate.Valid)
}

func TestLoadDuckDBMissingPath(t *testing.T) {
	_, err := LoadDuckDB(context.Background(), filepath.Join(t.TempDir(), "none.xlsx"))
	assert.Error(t, err)
}
