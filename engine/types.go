package engine

import (
	"database/sql"
	"time"

	"github.com/spektr-org/salespulse/schema"
)

// ============================================================================
// ENGINE TYPES — Merged rows, KPI values, render-ready output
// ============================================================================

// ============================================================================
// MERGED RECORD — one transaction with its person and item attributes
// ============================================================================

// MergedRecord is the inner join of a Transaction with its Person and Item.
// Age is set by AddAge after the merge; Total is set by AddTotal on the
// filtered view only. The Filter Engine never mutates a MergedRecord.
type MergedRecord struct {
	// Person
	UserID    string              `json:"userId"`
	FullName  string              `json:"fullName"`
	FirstName string              `json:"firstName,omitempty"`
	LastName  string              `json:"lastName,omitempty"`
	BirthDate sql.Null[time.Time] `json:"-"`
	Gender    string              `json:"gender"`

	// Item
	ItemID   string            `json:"itemId"`
	ItemName string            `json:"itemName"`
	Category string            `json:"category"`
	Printing string            `json:"printing"`
	Season   string            `json:"season"`
	Price    sql.Null[float64] `json:"-"`
	ItemTags string            `json:"itemTags,omitempty"`
	Color    string            `json:"color,omitempty"`
	Fabric   string            `json:"fabric,omitempty"`
	ImageURL string            `json:"imageUrl,omitempty"`

	// Transaction
	Amount    sql.Null[float64]   `json:"-"`
	OrderDate sql.Null[time.Time] `json:"-"`

	// Derived
	Age   sql.Null[int]     `json:"-"`
	Total sql.Null[float64] `json:"-"`
}

// LineTotal computes amount × price. Missing when either side is missing.
func (r MergedRecord) LineTotal() sql.Null[float64] {
	if !r.Amount.Valid || !r.Price.Valid {
		return sql.Null[float64]{}
	}
	return sql.Null[float64]{V: r.Amount.V * r.Price.V, Valid: true}
}

func newMergedRecord(p schema.Person, t schema.Transaction, it schema.Item) MergedRecord {
	return MergedRecord{
		UserID:    p.ID,
		FullName:  p.FullName,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		BirthDate: p.BirthDate,
		Gender:    p.Gender,

		ItemID:   it.ID,
		ItemName: it.Name,
		Category: it.Category,
		Printing: it.Texture,
		Season:   it.Season,
		Price:    it.UnitPrice,
		ItemTags: it.Tags,
		Color:    it.Color,
		Fabric:   it.Fabric,
		ImageURL: it.ImageURL,

		Amount:    t.Quantity,
		OrderDate: t.OrderDate,
	}
}

// ============================================================================
// KPI SUMMARY
// ============================================================================

// KPI labels for the conditional count metric.
const (
	LabelTotalUnitsSold    = "Total Units Sold"
	LabelTotalTransactions = "Total Transactions"
)

// KpiSummary holds the headline metrics for one filtered set.
// Built once by Summarize and never modified afterwards.
type KpiSummary struct {
	TotalSum         int64   `json:"totalSum"`
	AvgSale          float64 `json:"avgSale"`
	DisplayedLabel   string  `json:"displayedLabel"`
	DisplayedValue   int64   `json:"displayedValue"`
	TotalUnits       int64   `json:"totalUnits"`
	TransactionCount int     `json:"transactionCount"`
	DistinctItems    int     `json:"distinctItems"`
}

// ============================================================================
// RESULT — Render-ready output of one interaction
// ============================================================================

// Result is the output of one pipeline run. Records, Charts and Table are
// all derived from the same filtered snapshot.
type Result struct {
	RunID    string                   `json:"runId"`
	Empty    bool                     `json:"empty"`
	Message  string                   `json:"message,omitempty"`
	Criteria FilterCriteria           `json:"criteria"`
	Records  []MergedRecord           `json:"-"`
	KPI      *KpiSummary              `json:"kpi,omitempty"`
	Text     *TextData                `json:"text,omitempty"`
	Charts   *ChartSet                `json:"charts,omitempty"`
	Table    *TableData               `json:"table,omitempty"`
	Warnings []schema.CoercionWarning `json:"warnings,omitempty"`
	Merged   int                      `json:"mergedRows"`
	Filtered int                      `json:"filteredRows"`
}

// ============================================================================
// GROUP — Intermediate computation result
// ============================================================================

// Group represents a grouped/aggregated result.
// Builders convert these into ChartConfig series.
type Group struct {
	Key       string     `json:"key"`
	Label     string     `json:"label"`
	Value     float64    `json:"value"`
	Count     int        `json:"count"`
	SubGroups []Group    `json:"subGroups,omitempty"`
	View      RecordView `json:"-"` // Sub-view for records in this group (zero-copy)
}

// ============================================================================
// CHART TYPES
// ============================================================================

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint represents a single data point. X is only used by scatter charts.
type ChartPoint struct {
	Label string  `json:"label"`
	X     float64 `json:"x,omitempty"`
	Value float64 `json:"value"`
}

// ChartSet holds one chart per builder, in builder order.
type ChartSet struct {
	Charts []*ChartConfig `json:"charts"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number", "currency", "date"
	Align string `json:"align"` // "left", "center", "right"
}

// Summary provides totals or aggregations for a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}
