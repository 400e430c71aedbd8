package schema

import (
	"fmt"
	"strings"
)

// MissingTableError reports required tables absent from the input.
// The pipeline stops before merging.
type MissingTableError struct {
	Tables []string
}

func (e *MissingTableError) Error() string {
	return fmt.Sprintf("missing required table(s): %s (expected sheets named %s)",
		strings.Join(e.Tables, ", "), strings.Join(RequiredTables, ", "))
}

// MissingColumnError reports required columns absent from a table after
// header normalization and alias resolution.
type MissingColumnError struct {
	Table   string
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("table %q is missing required column(s): %s",
		e.Table, strings.Join(e.Columns, ", "))
}

// CoercionWarning records one cell that could not be converted to its target
// type. The cell becomes a missing value; the run continues.
type CoercionWarning struct {
	Table  string `json:"table"`
	Row    int    `json:"row"` // 1-based data row
	Column string `json:"column"`
	Value  string `json:"value"`
	Target string `json:"target"` // "date", "number", "unique key"
}

func (w CoercionWarning) Error() string {
	return fmt.Sprintf("%s row %d: %s=%q is not a valid %s", w.Table, w.Row, w.Column, w.Value, w.Target)
}
