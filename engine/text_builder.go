package engine

import (
	"fmt"
)

// ============================================================================
// TEXT BUILDER — KPI row as display-ready strings
// ============================================================================

// TextData is the KPI row rendered for a text surface.
type TextData struct {
	Metrics []Metric `json:"metrics"`
	Period  string   `json:"period"`
	Count   int      `json:"count"`
}

// Metric is one headline number.
type Metric struct {
	Label    string  `json:"label"`
	Value    string  `json:"value"`
	RawValue float64 `json:"rawValue"`
}

// BuildText formats a KpiSummary in dashboard order: total sales, average
// sale, then the switched units/transactions metric.
func BuildText(k KpiSummary, records []MergedRecord) *TextData {
	return &TextData{
		Metrics: []Metric{
			{
				Label:    "Total Sales",
				Value:    FormatInt(int(k.TotalSum)),
				RawValue: float64(k.TotalSum),
			},
			{
				Label:    "Average Sale",
				Value:    FormatCurrency(k.AvgSale, ""),
				RawValue: k.AvgSale,
			},
			{
				Label:    k.DisplayedLabel,
				Value:    FormatInt(int(k.DisplayedValue)),
				RawValue: float64(k.DisplayedValue),
			},
		},
		Period: DerivePeriod(records),
		Count:  len(records),
	}
}

// DerivePeriod builds a human-readable order-date span.
func DerivePeriod(records []MergedRecord) string {
	if len(records) == 0 {
		return "No data"
	}
	lo, hi, ok := OrderDateBounds(records)
	if !ok {
		return "All time"
	}
	if lo.Equal(hi) {
		return lo.Format(displayDateLayout)
	}
	return fmt.Sprintf("%s – %s", lo.Format(displayDateLayout), hi.Format(displayDateLayout))
}
