package helpers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spektr-org/salespulse/schema"
)

// ============================================================================
// CSV HELPER — Parses CSV data into schema.RawTable
// ============================================================================
// Consumer reads the CSV from wherever it lives (file, S3, Sheets).
// This helper converts the raw bytes into a header + string cells; typing is
// left to schema.Normalize.
// ============================================================================

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseCSV parses CSV bytes into a RawTable named name.
// Short rows are padded and long rows truncated to the header width.
func ParseCSV(name string, data []byte) (schema.RawTable, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	reader.FieldsPerRecord = -1

	// Read header
	headers, err := reader.Read()
	if err != nil {
		return schema.RawTable{}, fmt.Errorf("failed to read CSV headers for %s: %w", name, err)
	}

	table := schema.RawTable{Name: name, Columns: headers}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return schema.RawTable{}, fmt.Errorf("failed to read %s: %w", name, err)
		}
		if isBlankRow(row) {
			continue
		}
		table.Rows = append(table.Rows, fitRow(row, len(headers)))
	}
	return table, nil
}

// LoadCSVDir reads every *.csv file in dir as one table named after the file
// ("Users.csv" → "Users"). Required-table checks happen in Normalize.
func LoadCSVDir(dir string) (schema.Tables, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		if _, statErr := os.Stat(dir); statErr != nil {
			return nil, statErr
		}
	}

	tables := schema.Tables{}
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		t, err := ParseCSV(tableNameFromPath(p), data)
		if err != nil {
			return nil, err
		}
		tables.Add(t)
	}
	return tables, nil
}

// WriteCSV writes a RawTable with its header row.
func WriteCSV(w io.Writer, t schema.RawTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// WriteCSVDir writes each table to dir/<name>.csv, creating dir if needed.
func WriteCSVDir(dir string, tables schema.Tables) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	var errs []error
	for _, name := range tables.Names() {
		f, err := os.Create(filepath.Join(dir, name+".csv"))
		if err != nil {
			return err
		}
		errs = append(errs, WriteCSV(f, tables[name]), f.Close())
	}
	return errors.Join(errs...)
}

func tableNameFromPath(p string) string {
	base := filepath.Base(p)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func fitRow(row []string, width int) []string {
	if len(row) == width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}
