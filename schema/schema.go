package schema

// ============================================================================
// SCHEMA — Describes the shape of the merged sales dataset
// ============================================================================
// The table builder uses it for column labels and alignment; the CLI prints
// it for `options`. Keys match the canonical column keys in normalize.go plus
// the derived "age" and "total".
// ============================================================================

// Config describes the complete shape of a dataset.
type Config struct {
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`

	Dimensions []DimensionMeta `json:"dimensions"`
	Measures   []MeasureMeta   `json:"measures"`
}

// DimensionMeta describes a string field used for grouping/filtering.
type DimensionMeta struct {
	Key            string `json:"key"`
	DisplayName    string `json:"displayName"`
	Description    string `json:"description,omitempty"`
	Groupable      bool   `json:"groupable"`
	Filterable     bool   `json:"filterable"`
	FilterMode     string `json:"filterMode,omitempty"` // "strict", "opt-in", "range"
	IsTemporal     bool   `json:"isTemporal,omitempty"`
	TemporalFormat string `json:"temporalFormat,omitempty"`
	SourceTable    string `json:"sourceTable,omitempty"`
}

// MeasureMeta describes a numeric field used for aggregation.
type MeasureMeta struct {
	Key                string   `json:"key"`
	DisplayName        string   `json:"displayName"`
	Description        string   `json:"description,omitempty"`
	Unit               string   `json:"unit,omitempty"` // "currency", "units", "years"
	IsCurrency         bool     `json:"isCurrency,omitempty"`
	IsDerived          bool     `json:"isDerived,omitempty"`
	Aggregations       []string `json:"aggregations,omitempty"`
	DefaultAggregation string   `json:"defaultAggregation,omitempty"`
	SourceTable        string   `json:"sourceTable,omitempty"`
}

// Derived column keys.
const (
	ColAge   = "age"
	ColTotal = "total"
)

// DefaultDimension creates a DimensionMeta with sensible defaults.
func DefaultDimension(key, displayName, table string) DimensionMeta {
	return DimensionMeta{
		Key:         key,
		DisplayName: displayName,
		Groupable:   true,
		Filterable:  true,
		FilterMode:  "opt-in",
		SourceTable: table,
	}
}

// DefaultMeasure creates a MeasureMeta with sensible defaults.
func DefaultMeasure(key, displayName, table string) MeasureMeta {
	return MeasureMeta{
		Key:                key,
		DisplayName:        displayName,
		Aggregations:       []string{"sum", "avg", "min", "max", "count"},
		DefaultAggregation: "sum",
		SourceTable:        table,
	}
}

// MergedSchema describes one merged transaction row.
func MergedSchema() Config {
	gender := DefaultDimension(ColGender, "Gender", TableUsers)
	gender.FilterMode = "strict"
	season := DefaultDimension(ColSeason, "Season", TableItems)
	season.FilterMode = "strict"

	orderDate := DefaultDimension(ColOrderDate, "Order Date", TableTransactions)
	orderDate.Groupable = false
	orderDate.FilterMode = "range"
	orderDate.IsTemporal = true
	orderDate.TemporalFormat = "MM/dd/yyyy"

	age := DefaultMeasure(ColAge, "Age", TableUsers)
	age.Unit = "years"
	age.IsDerived = true
	age.DefaultAggregation = "avg"
	age.Description = "current year minus birth year"

	amount := DefaultMeasure(ColAmount, "Amount", TableTransactions)
	amount.Unit = "units"

	price := DefaultMeasure(ColPrice, "Price", TableItems)
	price.Unit = "currency"
	price.IsCurrency = true
	price.DefaultAggregation = "avg"

	total := DefaultMeasure(ColTotal, "Total", TableTransactions)
	total.Unit = "currency"
	total.IsCurrency = true
	total.IsDerived = true
	total.Description = "amount × price"

	return Config{
		Name:        "Sales Analytics",
		Version:     "1.0",
		Description: "users ⋈ transactions ⋈ items, one row per transaction",
		Dimensions: []DimensionMeta{
			DefaultDimension(ColFullName, "Full Name", TableUsers),
			gender,
			DefaultDimension(ColItemName, "Item Name", TableItems),
			DefaultDimension(ColCategory, "Category", TableItems),
			DefaultDimension(ColPrinting, "Printing", TableItems),
			season,
			orderDate,
		},
		Measures: []MeasureMeta{age, amount, price, total},
	}
}

// DisplayName returns the label for a dimension or measure key,
// or the key itself when unknown.
func (c Config) DisplayName(key string) string {
	for _, d := range c.Dimensions {
		if d.Key == key {
			return d.DisplayName
		}
	}
	for _, m := range c.Measures {
		if m.Key == key {
			return m.DisplayName
		}
	}
	return key
}

// IsMeasure reports whether key names a numeric column.
func (c Config) IsMeasure(key string) bool {
	for _, m := range c.Measures {
		if m.Key == key {
			return true
		}
	}
	return false
}

// DimensionKeys returns all dimension keys.
func (c Config) DimensionKeys() []string {
	keys := make([]string, len(c.Dimensions))
	for i, d := range c.Dimensions {
		keys[i] = d.Key
	}
	return keys
}

// MeasureKeys returns all measure keys.
func (c Config) MeasureKeys() []string {
	keys := make([]string, len(c.Measures))
	for i, m := range c.Measures {
		keys[i] = m.Key
	}
	return keys
}
