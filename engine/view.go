package engine

import (
	"strconv"

	"github.com/spektr-org/salespulse/schema"
)

// ============================================================================
// RECORD VIEW — Zero-Copy Data Access Interface
// ============================================================================
// Aggregators and chart builders read merged rows through this interface.
//
// Implementations:
//   DomainView[T]  — reads typed structs via accessor functions (zero-copy)
//   SubView        — grouped subset (indices into parent, zero-copy)
//
// Measures report ok=false for missing values so sums and means skip them
// instead of counting them as zero.
// ============================================================================

// RecordView provides indexed access to a dataset.
// The engine calls Dimension/Measure in tight loops — keep implementations fast.
type RecordView interface {
	Len() int
	Dimension(index int, key string) string
	Measure(index int, key string) (float64, bool)
	DimensionKeys() []string // available dimension keys
	MeasureKeys() []string   // available measure keys
}

// ============================================================================
// SUB VIEW — grouped subset (zero-copy)
// ============================================================================

// SubView is a subset of a parent RecordView.
// Holds indices into the parent — no data copy.
type SubView struct {
	parent  RecordView
	indices []int
}

func newSubView(parent RecordView, indices []int) RecordView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.indices) {
		return ""
	}
	return v.parent.Dimension(v.indices[i], key)
}

func (v *SubView) Measure(i int, key string) (float64, bool) {
	if i < 0 || i >= len(v.indices) {
		return 0, false
	}
	return v.parent.Measure(v.indices[i], key)
}

func (v *SubView) DimensionKeys() []string { return v.parent.DimensionKeys() }
func (v *SubView) MeasureKeys() []string   { return v.parent.MeasureKeys() }

// ============================================================================
// DOMAIN ADAPTER — Zero-copy typed struct access
// ============================================================================
//
// Usage:
//
//	adapter := engine.NewDomainAdapter[MergedRecord]().
//	    Dimension("category", func(r MergedRecord) string { return r.Category }).
//	    Measure("amount", func(r MergedRecord) (float64, bool) { return r.Amount.V, r.Amount.Valid })
//
//	view := adapter.Bind(records)
//
// ============================================================================

// DomainAdapter builds a RecordView from typed structs.
// Declare once, bind many times.
type DomainAdapter[T any] struct {
	dimOrder []string
	mesOrder []string
	dims     map[string]func(T) string
	meas     map[string]func(T) (float64, bool)
}

// NewDomainAdapter creates a new adapter for type T.
func NewDomainAdapter[T any]() *DomainAdapter[T] {
	return &DomainAdapter[T]{
		dims: make(map[string]func(T) string),
		meas: make(map[string]func(T) (float64, bool)),
	}
}

// Dimension registers a dimension accessor.
func (a *DomainAdapter[T]) Dimension(key string, fn func(T) string) *DomainAdapter[T] {
	if _, exists := a.dims[key]; !exists {
		a.dimOrder = append(a.dimOrder, key)
	}
	a.dims[key] = fn
	return a
}

// Measure registers a measure accessor.
func (a *DomainAdapter[T]) Measure(key string, fn func(T) (float64, bool)) *DomainAdapter[T] {
	if _, exists := a.meas[key]; !exists {
		a.mesOrder = append(a.mesOrder, key)
	}
	a.meas[key] = fn
	return a
}

// Bind creates a RecordView from a data slice. Zero-copy — holds reference.
func (a *DomainAdapter[T]) Bind(data []T) RecordView {
	return &DomainView[T]{
		data:     data,
		dims:     a.dims,
		meas:     a.meas,
		dimKeys:  a.dimOrder,
		measKeys: a.mesOrder,
	}
}

// DomainView reads typed struct fields via registered accessor functions.
type DomainView[T any] struct {
	data     []T
	dims     map[string]func(T) string
	meas     map[string]func(T) (float64, bool)
	dimKeys  []string
	measKeys []string
}

func (v *DomainView[T]) Len() int { return len(v.data) }

func (v *DomainView[T]) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.data) {
		return ""
	}
	if fn, ok := v.dims[key]; ok {
		return fn(v.data[i])
	}
	return ""
}

func (v *DomainView[T]) Measure(i int, key string) (float64, bool) {
	if i < 0 || i >= len(v.data) {
		return 0, false
	}
	if fn, ok := v.meas[key]; ok {
		return fn(v.data[i])
	}
	return 0, false
}

func (v *DomainView[T]) DimensionKeys() []string { return v.dimKeys }
func (v *DomainView[T]) MeasureKeys() []string   { return v.measKeys }

// ============================================================================
// MERGED VIEW — the adapter for MergedRecord
// ============================================================================

var mergedAdapter = NewDomainAdapter[MergedRecord]().
	Dimension(schema.ColUserID, func(r MergedRecord) string { return r.UserID }).
	Dimension(schema.ColFullName, func(r MergedRecord) string { return r.FullName }).
	Dimension(schema.ColGender, func(r MergedRecord) string { return r.Gender }).
	Dimension(schema.ColItemID, func(r MergedRecord) string { return r.ItemID }).
	Dimension(schema.ColItemName, func(r MergedRecord) string { return r.ItemName }).
	Dimension(schema.ColCategory, func(r MergedRecord) string { return r.Category }).
	Dimension(schema.ColPrinting, func(r MergedRecord) string { return r.Printing }).
	Dimension(schema.ColSeason, func(r MergedRecord) string { return r.Season }).
	Dimension(schema.ColFabric, func(r MergedRecord) string { return r.Fabric }).
	Dimension(schema.ColColor, func(r MergedRecord) string { return r.Color }).
	Dimension(schema.ColOrderDate, func(r MergedRecord) string {
		if !r.OrderDate.Valid {
			return ""
		}
		return r.OrderDate.V.Format(displayDateLayout)
	}).
	Measure(schema.ColAge, func(r MergedRecord) (float64, bool) {
		return float64(r.Age.V), r.Age.Valid
	}).
	Measure(schema.ColAmount, func(r MergedRecord) (float64, bool) {
		return r.Amount.V, r.Amount.Valid
	}).
	Measure(schema.ColPrice, func(r MergedRecord) (float64, bool) {
		return r.Price.V, r.Price.Valid
	}).
	Measure(schema.ColTotal, func(r MergedRecord) (float64, bool) {
		t := r.Total
		if !t.Valid {
			t = r.LineTotal()
		}
		return t.V, t.Valid
	})

// NewMergedView binds merged records to a RecordView.
func NewMergedView(records []MergedRecord) RecordView {
	return mergedAdapter.Bind(records)
}

// formatMeasure renders a measure cell for tables; missing values are blank.
// Plain numbers print with the fewest digits needed ("3", "1.5"), money with
// two decimals.
func formatMeasure(v float64, ok bool, money bool) string {
	if !ok {
		return ""
	}
	if money {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
