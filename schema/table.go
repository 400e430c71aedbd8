package schema

import (
	"sort"
	"strings"
)

// ============================================================================
// RAW TABLES — What ingestion hands to the normalizer
// ============================================================================
// Loaders (CSV, SQLite, DuckDB, workbook) stringify every cell. Typing happens
// once, in Normalize, so every source gets identical coercion rules.
// ============================================================================

// Required table names.
const (
	TableUsers        = "users"
	TableTransactions = "transactions"
	TableItems        = "items"
)

// RequiredTables lists the tables Normalize needs, in reporting order.
var RequiredTables = []string{TableUsers, TableTransactions, TableItems}

// RawTable is an untyped sheet: a header row plus string cells.
type RawTable struct {
	Name    string     `json:"name"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Len returns the number of data rows.
func (t RawTable) Len() int { return len(t.Rows) }

// Tables is the set of raw tables keyed by sheet name.
type Tables map[string]RawTable

// Lookup finds a table by name, ignoring case and surrounding whitespace.
func (ts Tables) Lookup(name string) (RawTable, bool) {
	if t, ok := ts[name]; ok {
		return t, true
	}
	want := canonicalLabel(name)
	for k, t := range ts {
		if canonicalLabel(k) == want {
			return t, true
		}
	}
	return RawTable{}, false
}

// Add stores a table under its own name.
func (ts Tables) Add(t RawTable) {
	ts[t.Name] = t
}

// Names returns the table names, sorted.
func (ts Tables) Names() []string {
	names := make([]string, 0, len(ts))
	for k := range ts {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// canonicalLabel trims and lower-cases a column or sheet label.
// Inner runs of spaces and dashes collapse to one underscore so
// "Unit Price" and "unit-price" both become "unit_price".
func canonicalLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(s))
	sep := false
	for _, r := range s {
		if r == ' ' || r == '-' || r == '\t' {
			sep = true
			continue
		}
		if sep {
			b.WriteByte('_')
			sep = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// columnIndex maps canonical labels to their position in a table header.
type columnIndex map[string]int

func indexColumns(cols []string, aliases map[string]string) columnIndex {
	idx := make(columnIndex, len(cols))
	for i, c := range cols {
		key := canonicalLabel(c)
		if canon, ok := aliases[key]; ok {
			key = canon
		}
		// First occurrence wins when a sheet repeats a header.
		if _, exists := idx[key]; !exists {
			idx[key] = i
		}
	}
	return idx
}

// cell returns the trimmed value of column key in row, or "" when absent.
func (ci columnIndex) cell(row []string, key string) string {
	i, ok := ci[key]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (ci columnIndex) missing(required []string) []string {
	var out []string
	for _, k := range required {
		if _, ok := ci[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}
