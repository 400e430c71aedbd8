package engine

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/spektr-org/salespulse/schema"
)

// ============================================================================
// AGGREGATORS — Grouping, Aggregation, and Sorting via RecordView
// ============================================================================
// All functions operate on RecordView — zero-copy access to merged rows.
// Grouping produces SubViews (index lists into parent view).
// Missing measure values are skipped, never counted as zero.
// ============================================================================

// Aggregation collapses a group's rows to one value.
type Aggregation string

const (
	AggSum   Aggregation = "sum"
	AggCount Aggregation = "count"
	AggAvg   Aggregation = "avg"
	AggMax   Aggregation = "max"
	AggMin   Aggregation = "min"
)

var aggregators = map[Aggregation]func(RecordView, string) float64{
	AggSum:   SumMeasure,
	AggAvg:   AvgMeasure,
	AggMax:   MaxMeasure,
	AggMin:   MinMeasure,
	AggCount: func(v RecordView, _ string) float64 { return float64(v.Len()) },
}

// SortOrder orders groups after aggregation. Ties keep grouping order.
type SortOrder string

const (
	SortNone      SortOrder = ""
	SortValueDesc SortOrder = "value_desc"
	SortValueAsc  SortOrder = "value_asc"
	SortLabelAsc  SortOrder = "label_asc"
	SortLabelDesc SortOrder = "label_desc"
)

// GroupSpec describes one group → aggregate → sort → limit pass.
type GroupSpec struct {
	By          []string // zero, one or two dimensions; the second becomes SubGroups
	Measure     string
	Aggregation Aggregation // default AggSum
	Sort        SortOrder
	Limit       int // 0 keeps every group
}

// GroupAndAggregate runs spec over view. With no dimensions the whole view
// is one "Total" group.
func GroupAndAggregate(view RecordView, spec GroupSpec) []Group {
	if view.Len() == 0 {
		return nil
	}

	var groups []Group
	switch len(spec.By) {
	case 0:
		groups = []Group{{Key: "all", Label: "Total", View: view}}
	case 1:
		groups = groupBy(view, spec.By[0])
	default:
		groups = groupBy(view, spec.By[0])
		for i := range groups {
			groups[i].SubGroups = groupBy(groups[i].View, spec.By[1])
		}
	}

	agg, ok := aggregators[spec.Aggregation]
	if !ok {
		agg = SumMeasure
	}
	for i := range groups {
		aggregateGroup(&groups[i], spec.Measure, agg)
		for j := range groups[i].SubGroups {
			aggregateGroup(&groups[i].SubGroups[j], spec.Measure, agg)
		}
	}

	SortGroups(groups, spec.Sort)

	if spec.Limit > 0 && len(groups) > spec.Limit {
		groups = groups[:spec.Limit]
	}
	return groups
}

// ============================================================================
// GROUPING
// ============================================================================

// groupBy splits view by one dimension, groups in first-seen order.
func groupBy(view RecordView, dimension string) []Group {
	index := make(map[string]int)
	var groups []Group
	var rows [][]int

	for i := 0; i < view.Len(); i++ {
		key := view.Dimension(i, dimension)
		g, seen := index[key]
		if !seen {
			g = len(groups)
			index[key] = g
			groups = append(groups, Group{Key: key, Label: key})
			rows = append(rows, nil)
		}
		rows[g] = append(rows[g], i)
	}

	for g := range groups {
		groups[g].View = newSubView(view, rows[g])
	}
	return groups
}

// ============================================================================
// AGGREGATION
// ============================================================================

func aggregateGroup(group *Group, measure string, agg func(RecordView, string) float64) {
	group.Count = group.View.Len()
	if group.Count == 0 {
		return
	}
	group.Value = agg(group.View, measure)
}

// SumMeasure sums the present values of a named measure across a view.
func SumMeasure(view RecordView, measure string) float64 {
	var total float64
	for i := 0; i < view.Len(); i++ {
		if v, ok := view.Measure(i, measure); ok {
			total += v
		}
	}
	return total
}

// AvgMeasure computes the mean over present values only.
func AvgMeasure(view RecordView, measure string) float64 {
	var total float64
	n := 0
	for i := 0; i < view.Len(); i++ {
		if v, ok := view.Measure(i, measure); ok {
			total += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// MaxMeasure returns the largest present value, or 0 when none is present.
func MaxMeasure(view RecordView, measure string) float64 {
	return extremeMeasure(view, measure, func(a, b float64) bool { return a > b })
}

// MinMeasure returns the smallest present value, or 0 when none is present.
func MinMeasure(view RecordView, measure string) float64 {
	return extremeMeasure(view, measure, func(a, b float64) bool { return a < b })
}

func extremeMeasure(view RecordView, measure string, better func(a, b float64) bool) float64 {
	var best float64
	found := false
	for i := 0; i < view.Len(); i++ {
		v, ok := view.Measure(i, measure)
		if ok && (!found || better(v, best)) {
			best = v
			found = true
		}
	}
	return best
}

// ============================================================================
// SORTING
// ============================================================================

// SortGroups sorts groups in place. Label sorts ignore case.
func SortGroups(groups []Group, order SortOrder) {
	var less func(a, b Group) bool
	switch order {
	case SortValueDesc:
		less = func(a, b Group) bool { return a.Value > b.Value }
	case SortValueAsc:
		less = func(a, b Group) bool { return a.Value < b.Value }
	case SortLabelAsc:
		less = func(a, b Group) bool { return strings.ToLower(a.Key) < strings.ToLower(b.Key) }
	case SortLabelDesc:
		less = func(a, b Group) bool { return strings.ToLower(a.Key) > strings.ToLower(b.Key) }
	default:
		return
	}
	sort.SliceStable(groups, func(i, j int) bool { return less(groups[i], groups[j]) })
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// FormatCurrency formats an amount with two decimals, comma separators and
// an optional currency prefix.
func FormatCurrency(amount float64, currency string) string {
	cents := int64(math.Round(math.Abs(amount) * 100))

	var b strings.Builder
	if amount < 0 && cents > 0 {
		b.WriteByte('-')
	}
	if currency != "" {
		b.WriteString(currency)
		b.WriteByte(' ')
	}
	b.WriteString(FormatInt(int(cents / 100)))
	b.WriteByte('.')
	frac := strconv.FormatInt(cents%100, 10)
	if len(frac) == 1 {
		b.WriteByte('0')
	}
	b.WriteString(frac)
	return b.String()
}

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	digits := strconv.Itoa(n)
	sign := ""
	if n < 0 {
		sign, digits = "-", digits[1:]
	}
	if len(digits) <= 3 {
		return sign + digits
	}

	var b strings.Builder
	b.WriteString(sign)
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > len(sign) {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// UniqueValues returns distinct non-empty values for a dimension, in
// first-seen order.
func UniqueValues(view RecordView, dimension string) []string {
	seen := make(map[string]bool)
	result := []string{}
	for i := 0; i < view.Len(); i++ {
		val := view.Dimension(i, dimension)
		if val != "" && !seen[val] {
			seen[val] = true
			result = append(result, val)
		}
	}
	return result
}

// DisplayLabel returns the merged schema's display name for a column key,
// falling back to title case: "unit_cost" → "Unit Cost".
func DisplayLabel(key string) string {
	if name := schema.MergedSchema().DisplayName(key); name != key {
		return name
	}
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
