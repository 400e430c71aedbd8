package helpers

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/sirupsen/logrus"

	"github.com/spektr-org/salespulse/schema"
)

// ============================================================================
// DUCKDB HELPER — workbooks, CSV folders and .duckdb files via DuckDB
// ============================================================================
// Sources:
//   *.xlsx    one sheet per table, read with the excel extension
//   dir/      every *.csv file, read with read_csv (comma-delimited, all
//             columns as VARCHAR, short rows padded with NULL)
//   *.duckdb  tables named users / transactions / items
//
// All cells come back as text; typing stays in schema.Normalize.
// ============================================================================

// LoadDuckDB loads raw tables from path using an embedded DuckDB.
// Sheets that cannot be read are logged to the standard logger; use
// LoadDuckDBWithLogger to route them elsewhere.
func LoadDuckDB(ctx context.Context, path string) (schema.Tables, error) {
	return LoadDuckDBWithLogger(ctx, path, logrus.StandardLogger())
}

// LoadDuckDBWithLogger is LoadDuckDB with an explicit logger.
func LoadDuckDBWithLogger(ctx context.Context, path string, log logrus.FieldLogger) (schema.Tables, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	switch {
	case info.IsDir():
		return loadCSVDirDuckDB(ctx, path)
	case strings.EqualFold(filepath.Ext(path), ".xlsx"):
		return loadWorkbookDuckDB(ctx, path, log)
	default:
		return loadDatabaseDuckDB(ctx, path)
	}
}

func openDuckDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	return db, nil
}

func loadCSVDirDuckDB(ctx context.Context, dir string) (schema.Tables, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, err
	}
	db, err := openDuckDB("")
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	tables := schema.Tables{}
	for _, p := range paths {
		q := fmt.Sprintf("SELECT * FROM read_csv(%s, header = true, delim = ',', quote = '\"', "+
			"null_padding = true, all_varchar = true)", quoteLiteral(p))
		t, err := queryTable(ctx, db, tableNameFromPath(p), q)
		if err != nil {
			return nil, err
		}
		tables.Add(t)
	}
	return tables, nil
}

// loadWorkbookDuckDB reads the users, transactions and items sheets.
// A sheet that cannot be read is logged and treated as absent, so Normalize
// reports it as missing.
func loadWorkbookDuckDB(ctx context.Context, path string, log logrus.FieldLogger) (schema.Tables, error) {
	db, err := openDuckDB("")
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	if _, err := db.ExecContext(ctx, "INSTALL excel; LOAD excel;"); err != nil {
		return nil, fmt.Errorf("load excel extension: %w", err)
	}
	return readSheets(ctx, db, path, log), nil
}

// readSheets reads each required sheet of the workbook at path. A sheet that
// cannot be read is logged at warn level and left out.
func readSheets(ctx context.Context, db *sql.DB, path string, log logrus.FieldLogger) schema.Tables {
	tables := schema.Tables{}
	for _, sheet := range schema.RequiredTables {
		q := fmt.Sprintf("SELECT * FROM read_xlsx(%s, sheet = %s, header = true, all_varchar = true)",
			quoteLiteral(path), quoteLiteral(sheet))
		t, err := queryTable(ctx, db, sheet, q)
		if err != nil {
			log.WithFields(logrus.Fields{
				"workbook": path,
				"sheet":    sheet,
			}).WithError(err).Warn("⚠️ salespulse: sheet could not be read, treating it as absent")
			continue
		}
		tables.Add(t)
	}
	return tables
}

func loadDatabaseDuckDB(ctx context.Context, path string) (schema.Tables, error) {
	db, err := openDuckDB(path + "?access_mode=read_only")
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx,
		"SELECT table_name FROM information_schema.tables WHERE table_schema = 'main' ORDER BY table_name")
	if err != nil {
		return nil, fmt.Errorf("list duckdb tables: %w", err)
	}
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			_ = rows.Close()
			return nil, err
		}
		names = append(names, n)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
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
