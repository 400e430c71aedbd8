package engine

import (
	"database/sql"
	"time"
)

// ============================================================================
// DERIVED ATTRIBUTES — age and line total
// ============================================================================
// Both functions return a new slice; the input is never written.
// ============================================================================

// AddAge sets Age = currentYear − year(BirthDate) on a copy of records.
// A missing birth date yields a missing age.
func AddAge(records []MergedRecord, currentYear int) []MergedRecord {
	out := make([]MergedRecord, len(records))
	for i, r := range records {
		r.Age = AgeAt(r.BirthDate, currentYear)
		out[i] = r
	}
	return out
}

// AgeAt computes the calendar-year age of a birth date.
func AgeAt(birth sql.Null[time.Time], currentYear int) sql.Null[int] {
	if !birth.Valid {
		return sql.Null[int]{}
	}
	return sql.Null[int]{V: currentYear - birth.V.Year(), Valid: true}
}

// AddTotal sets Total = Amount × Price on a copy of records.
// Called on the filtered view, so totals always match the rows on screen.
func AddTotal(records []MergedRecord) []MergedRecord {
	out := make([]MergedRecord, len(records))
	for i, r := range records {
		r.Total = r.LineTotal()
		out[i] = r
	}
	return out
}
