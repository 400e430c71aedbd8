package helpers

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spektr-org/salespulse/schema"
)

// ============================================================================
// SQL HELPER — database/sql rows → schema.RawTable
// ============================================================================
// Shared by the SQLite and DuckDB loaders. Every cell is stringified so the
// normalizer applies one set of coercion rules whatever the source.
// ============================================================================

// queryTable runs query and returns the result set as a RawTable.
func queryTable(ctx context.Context, db *sql.DB, name, query string) (schema.RawTable, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return schema.RawTable{}, fmt.Errorf("query %s: %w", name, err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return schema.RawTable{}, fmt.Errorf("columns %s: %w", name, err)
	}

	table := schema.RawTable{Name: name, Columns: cols}
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return schema.RawTable{}, fmt.Errorf("scan %s: %w", name, err)
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			row[i] = stringifyCell(v)
		}
		if isBlankRow(row) {
			continue
		}
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return schema.RawTable{}, fmt.Errorf("read %s: %w", name, err)
	}
	return table, nil
}

// stringifyCell renders a driver value the way a spreadsheet export would.
// Dates at midnight drop their time part.
func stringifyCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}

// quoteIdent quotes a SQL identifier with double quotes.
func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// quoteLiteral quotes a SQL string literal with single quotes.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// isRequiredTable reports whether name matches users, transactions or items
// (ignoring case).
func isRequiredTable(name string) bool {
	for _, req := range schema.RequiredTables {
		if strings.EqualFold(strings.TrimSpace(name), req) {
			return true
		}
	}
	return false
}
