package engine

import (
	"fmt"

	"github.com/spektr-org/salespulse/schema"
)

// ============================================================================
// TABLE BUILDER — Produces TableData from the filtered records
// ============================================================================
// One row per record, projected onto the requested columns. Dimension cells
// come from the merged view; measures are formatted per column type and
// missing values render blank.
// ============================================================================

// displayDateLayout is the order-date format shown in tables and labels.
const displayDateLayout = "01/02/2006"

// DefaultColumns is the projection shown when no columns are requested.
var DefaultColumns = []string{
	schema.ColFullName,
	schema.ColGender,
	schema.ColAge,
	schema.ColItemName,
	schema.ColCategory,
	schema.ColPrinting,
	schema.ColSeason,
	schema.ColAmount,
	schema.ColPrice,
	schema.ColTotal,
	schema.ColOrderDate,
}

// BuildRecordTable renders records as a table. kpi, when non-nil, fills the
// summary row.
func BuildRecordTable(records []MergedRecord, columns []string, kpi *KpiSummary) *TableData {
	if len(columns) == 0 {
		columns = DefaultColumns
	}
	meta := schema.MergedSchema()
	view := NewMergedView(records)

	cols := make([]Column, 0, len(columns))
	for _, key := range columns {
		cols = append(cols, columnFor(meta, key))
	}

	rows := make([][]string, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		row := make([]string, 0, len(cols))
		for _, col := range cols {
			row = append(row, cellFor(view, i, col))
		}
		rows = append(rows, row)
	}

	table := &TableData{
		Title:   "Filtered Transactions",
		Columns: cols,
		Rows:    rows,
	}
	if kpi != nil {
		table.Summary = &Summary{
			Label: fmt.Sprintf("Total (%d records)", kpi.TransactionCount),
			Values: map[string]string{
				schema.ColAmount: FormatInt(int(kpi.TotalUnits)),
				schema.ColTotal:  FormatInt(int(kpi.TotalSum)),
			},
		}
	}
	return table
}

func columnFor(meta schema.Config, key string) Column {
	col := Column{Key: key, Label: DisplayLabel(key), Type: "text", Align: "left"}
	switch {
	case key == schema.ColOrderDate:
		col.Type = "date"
		col.Align = "center"
	case key == schema.ColPrice || key == schema.ColTotal:
		col.Type = "currency"
		col.Align = "right"
	case meta.IsMeasure(key):
		col.Type = "number"
		col.Align = "right"
	}
	return col
}

func cellFor(view RecordView, i int, col Column) string {
	switch col.Type {
	case "number":
		v, ok := view.Measure(i, col.Key)
		return formatMeasure(v, ok, false)
	case "currency":
		v, ok := view.Measure(i, col.Key)
		return formatMeasure(v, ok, true)
	default:
		return view.Dimension(i, col.Key)
	}
}
