package schema

import (
	"database/sql"
	"time"
)

// ============================================================================
// NORMALIZER — Raw tables → typed Persons / Items / Transactions
// ============================================================================
// Pipeline:
//   1. Resolve the three required tables (missing → MissingTableError)
//   2. Canonicalize every header (trim, lower-case, aliases)
//   3. Check required columns (missing → MissingColumnError)
//   4. Coerce cells; bad cells become missing values + CoercionWarning
//
// Header canonicalization is identical for all three tables so join keys
// always compare like with like.
// ============================================================================

// Canonical column keys.
const (
	ColUserID    = "user_id"
	ColFullName  = "full_name"
	ColFirstName = "first_name"
	ColLastName  = "last_name"
	ColBirthDate = "birth_date"
	ColGender    = "gender"

	ColItemID    = "item_id"
	ColAmount    = "amount"
	ColOrderDate = "order_date"

	ColItemName = "item_name"
	ColCategory = "category"
	ColPrinting = "printing"
	ColSeason   = "season"
	ColPrice    = "price"
	ColItemTags = "item_tags"
	ColColor    = "color"
	ColFabric   = "fabric"
	ColImageURL = "image_url"
)

var userAliases = map[string]string{
	"person_id": ColUserID,
	"name":      ColFullName,
}

var transactionAliases = map[string]string{
	"person_id": ColUserID,
	"quantity":  ColAmount,
	"qty":       ColAmount,
	"date":      ColOrderDate,
}

var itemAliases = map[string]string{
	"unit_price": ColPrice,
	"texture":    ColPrinting,
	"name":       ColItemName,
}

var (
	requiredUserCols        = []string{ColUserID, ColFullName, ColBirthDate, ColGender}
	requiredTransactionCols = []string{ColUserID, ColItemID, ColAmount, ColOrderDate}
	requiredItemCols        = []string{ColItemID, ColItemName, ColCategory, ColPrinting, ColSeason, ColPrice}
)

// Normalize validates the three required tables and converts them into
// typed rows. Structural problems are returned as errors; per-cell problems
// are collected in Dataset.Warnings.
func Normalize(tables Tables) (*Dataset, error) {
	var missing []string
	resolved := make(map[string]RawTable, len(RequiredTables))
	for _, name := range RequiredTables {
		t, ok := tables.Lookup(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		resolved[name] = t
	}
	if len(missing) > 0 {
		return nil, &MissingTableError{Tables: missing}
	}

	users := resolved[TableUsers]
	txns := resolved[TableTransactions]
	items := resolved[TableItems]

	userIdx := indexColumns(users.Columns, userAliases)
	txnIdx := indexColumns(txns.Columns, transactionAliases)
	itemIdx := indexColumns(items.Columns, itemAliases)

	if m := userIdx.missing(requiredUserCols); len(m) > 0 {
		return nil, &MissingColumnError{Table: TableUsers, Columns: m}
	}
	if m := txnIdx.missing(requiredTransactionCols); len(m) > 0 {
		return nil, &MissingColumnError{Table: TableTransactions, Columns: m}
	}
	if m := itemIdx.missing(requiredItemCols); len(m) > 0 {
		return nil, &MissingColumnError{Table: TableItems, Columns: m}
	}

	ds := &Dataset{}
	ds.Persons = normalizePersons(users, userIdx, &ds.Warnings)
	ds.Transactions = normalizeTransactions(txns, txnIdx, &ds.Warnings)
	ds.Items = normalizeItems(items, itemIdx, &ds.Warnings)
	return ds, nil
}

func normalizePersons(t RawTable, idx columnIndex, warns *[]CoercionWarning) []Person {
	out := make([]Person, 0, len(t.Rows))
	seen := make(map[string]bool, len(t.Rows))
	for i, row := range t.Rows {
		id := CanonicalID(idx.cell(row, ColUserID))
		if !keyUsable(TableUsers, i, ColUserID, id, seen, warns) {
			continue
		}
		p := Person{
			ID:        id,
			FullName:  idx.cell(row, ColFullName),
			FirstName: idx.cell(row, ColFirstName),
			LastName:  idx.cell(row, ColLastName),
			Gender:    idx.cell(row, ColGender),
		}
		p.BirthDate = coerceDate(TableUsers, i, ColBirthDate, idx.cell(row, ColBirthDate), warns)
		out = append(out, p)
	}
	return out
}

func normalizeTransactions(t RawTable, idx columnIndex, warns *[]CoercionWarning) []Transaction {
	out := make([]Transaction, 0, len(t.Rows))
	for i, row := range t.Rows {
		out = append(out, Transaction{
			PersonID:  CanonicalID(idx.cell(row, ColUserID)),
			ItemID:    CanonicalID(idx.cell(row, ColItemID)),
			Quantity:  coerceNumber(TableTransactions, i, ColAmount, idx.cell(row, ColAmount), false, warns),
			OrderDate: coerceDate(TableTransactions, i, ColOrderDate, idx.cell(row, ColOrderDate), warns),
		})
	}
	return out
}

func normalizeItems(t RawTable, idx columnIndex, warns *[]CoercionWarning) []Item {
	out := make([]Item, 0, len(t.Rows))
	seen := make(map[string]bool, len(t.Rows))
	for i, row := range t.Rows {
		id := CanonicalID(idx.cell(row, ColItemID))
		if !keyUsable(TableItems, i, ColItemID, id, seen, warns) {
			continue
		}
		out = append(out, Item{
			ID:        id,
			Name:      idx.cell(row, ColItemName),
			Category:  idx.cell(row, ColCategory),
			Texture:   idx.cell(row, ColPrinting),
			Season:    idx.cell(row, ColSeason),
			UnitPrice: coerceNumber(TableItems, i, ColPrice, idx.cell(row, ColPrice), true, warns),
			Tags:      idx.cell(row, ColItemTags),
			Color:     idx.cell(row, ColColor),
			Fabric:    idx.cell(row, ColFabric),
			ImageURL:  idx.cell(row, ColImageURL),
		})
	}
	return out
}

// keyUsable rejects empty and repeated primary keys. The first row with a
// given key wins.
func keyUsable(table string, row int, col, id string, seen map[string]bool, warns *[]CoercionWarning) bool {
	if id == "" {
		*warns = append(*warns, CoercionWarning{Table: table, Row: row + 1, Column: col, Value: id, Target: "key"})
		return false
	}
	if seen[id] {
		*warns = append(*warns, CoercionWarning{Table: table, Row: row + 1, Column: col, Value: id, Target: "unique key"})
		return false
	}
	seen[id] = true
	return true
}

func coerceDate(table string, row int, col, raw string, warns *[]CoercionWarning) sql.Null[time.Time] {
	if raw == "" {
		return sql.Null[time.Time]{}
	}
	t, ok := ParseDate(raw)
	if !ok {
		*warns = append(*warns, CoercionWarning{Table: table, Row: row + 1, Column: col, Value: raw, Target: "date"})
		return sql.Null[time.Time]{}
	}
	return sql.Null[time.Time]{V: t, Valid: true}
}

func coerceNumber(table string, row int, col, raw string, nonNegative bool, warns *[]CoercionWarning) sql.Null[float64] {
	if raw == "" {
		return sql.Null[float64]{}
	}
	f, ok := ParseNumber(raw)
	if !ok || (nonNegative && f < 0) {
		*warns = append(*warns, CoercionWarning{Table: table, Row: row + 1, Column: col, Value: raw, Target: "number"})
		return sql.Null[float64]{}
	}
	return sql.Null[float64]{V: f, Valid: true}
}
