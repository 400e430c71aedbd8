package helpers

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/spektr-org/salespulse/schema"
)

// ============================================================================
// SQLITE HELPER — users / transactions / items tables in one SQLite file
// ============================================================================

// LoadSQLite reads the required tables from a SQLite database file.
// Absent tables are left out; schema.Normalize reports them.
func LoadSQLite(ctx context.Context, path string) (schema.Tables, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer func() { _ = db.Close() }()

	names, err := sqliteTableNames(ctx, db)
	if err != nil {
		return nil, err
	}

	tables := schema.Tables{}
	for _, name := range names {
		if !isRequiredTable(name) {
			continue
		}
		t, err := queryTable(ctx, db, name, "SELECT * FROM "+quoteIdent(name))
		if err != nil {
			return nil, err
		}
		tables.Add(t)
	}
	return tables, nil
}

func sqliteTableNames(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list sqlite tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// WriteSQLite stores each table as TEXT columns in a SQLite file, replacing
// tables of the same name.
func WriteSQLite(ctx context.Context, path string, tables schema.Tables) (err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer func() { _ = db.Close() }()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, name := range tables.Names() {
		if err = writeSQLiteTable(ctx, tx, name, tables[name]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func writeSQLiteTable(ctx context.Context, tx *sql.Tx, name string, t schema.RawTable) error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("table %s has no columns", name)
	}
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(name)); err != nil {
		return err
	}

	defs := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		defs[i] = quoteIdent(c) + " TEXT"
		marks[i] = "?"
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(name), strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(name), strings.Join(marks, ", ")))
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	args := make([]any, len(t.Columns))
	for _, row := range t.Rows {
		for i := range args {
			if i < len(row) {
				args[i] = row[i]
			} else {
				args[i] = ""
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert %s: %w", name, err)
		}
	}
	return nil
}
