package engine

import (
	"github.com/shopspring/decimal"
)

// ============================================================================
// KPI SUMMARIZER — headline metrics for a filtered set
// ============================================================================

// Summarize computes the KPI row for a filtered set. Totals are recomputed
// here, so the result does not depend on whether AddTotal already ran.
//
// The third metric switches on the number of distinct item names: one item
// (or none) shows units sold, anything wider shows the transaction count.
func Summarize(records []MergedRecord) KpiSummary {
	rows := AddTotal(records)

	sum := decimal.Zero
	units := decimal.Zero
	valid := 0
	items := make(map[string]struct{})

	for _, r := range rows {
		if r.Total.Valid {
			sum = sum.Add(decimal.NewFromFloat(r.Total.V))
			valid++
		}
		if r.Amount.Valid {
			units = units.Add(decimal.NewFromFloat(r.Amount.V))
		}
		if r.ItemName != "" {
			items[r.ItemName] = struct{}{}
		}
	}

	avg := 0.0
	if valid > 0 {
		mean := sum.Div(decimal.NewFromInt(int64(valid))).Round(2)
		if mean.IsPositive() {
			avg = mean.InexactFloat64()
		}
	}

	k := KpiSummary{
		TotalSum:         sum.IntPart(),
		AvgSale:          avg,
		TotalUnits:       units.IntPart(),
		TransactionCount: len(rows),
		DistinctItems:    len(items),
	}
	if k.DistinctItems <= 1 {
		k.DisplayedLabel = LabelTotalUnitsSold
		k.DisplayedValue = k.TotalUnits
	} else {
		k.DisplayedLabel = LabelTotalTransactions
		k.DisplayedValue = int64(k.TransactionCount)
	}
	return k
}
