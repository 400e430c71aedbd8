package helpers

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/salespulse/schema"
)

// ── Test Data ─────────────────────────────────────────────────────────────────

var usersCSV = []byte("\xEF\xBB\xBFUser ID,Full Name,Birth Date,Gender\n1,Ann Lee,1990-05-01,female\n2,\"Ray, Bob\",1985-11-20,male\n,,,\n")

var transactionsCSV = []byte("user_id,item_id,amount,order_date\n1,10,2,2024-01-03\n2,10,1\n")

var itemsCSV = []byte("item_id,item_name,category,printing,season,price\n10,Cotton Solid Tops,Tops,Solid,spring/summer,10.50\n")

func writeFixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.csv"), usersCSV, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "transactions.csv"), transactionsCSV, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Items.csv"), itemsCSV, 0o644))
	return dir
}

func TestParseCSV(t *testing.T) {
	tbl, err := ParseCSV("users", usersCSV)
	require.NoError(t, err)

	assert.Equal(t, "users", tbl.Name)
	assert.Equal(t, []string{"User ID", "Full Name", "Birth Date", "Gender"}, tbl.Columns, "BOM stripped")
	require.Len(t, tbl.Rows, 2, "blank row skipped")
	assert.Equal(t, "Ray, Bob", tbl.Rows[1][1])
}

func TestParseCSVPadsShortRows(t *testing.T) {
	tbl, err := ParseCSV("transactions", transactionsCSV)
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []string{"2", "10", "1", ""}, tbl.Rows[1])
}

func TestParseCSVEmpty(t *testing.T) {
	_, err := ParseCSV("users", nil)
	assert.ErrorContains(t, err, "failed to read CSV headers")
}

func TestLoadCSVDirFeedsNormalize(t *testing.T) {
	tables, err := LoadCSVDir(writeFixtureDir(t))
	require.NoError(t, err)
	assert.Len(t, tables, 3)

	ds, err := schema.Normalize(tables)
	require.NoError(t, err)
	assert.Len(t, ds.Persons, 2)
	assert.Len(t, ds.Transactions, 2)
	assert.Len(t, ds.Items, 1)
	assert.False(t, ds.Transactions[1].OrderDate.Valid)
}

func TestLoadCSVDirMissingDir(t *testing.T) {
	_, err := LoadCSVDir(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestWriteCSVRoundTrip(t *testing.T) {
	src, err := ParseCSV("users", usersCSV)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, src))

	back, err := ParseCSV("users", buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, src, back)
}

func TestWriteCSVDir(t *testing.T) {
	tables, err := LoadCSVDir(writeFixtureDir(t))
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "export")
	require.NoError(t, WriteCSVDir(out, tables))

	again, err := LoadCSVDir(out)
	require.NoError(t, err)
	assert.Equal(t, tables, again)
}

func TestStringifyCell(t *testing.T) {
	assert.Equal(t, "", stringifyCell(nil))
	assert.Equal(t, "12", stringifyCell(int64(12)))
	assert.Equal(t, "10.5", stringifyCell(10.5))
	assert.Equal(t, "abc", stringifyCell([]byte("abc")))
	assert.Equal(t, "2024-03-15", stringifyCell(mustDate(t, "2024-03-15T00:00:00Z")))
	assert.Equal(t, "2024-03-15T10:30:00Z", stringifyCell(mustDate(t, "2024-03-15T10:30:00Z")))
}
