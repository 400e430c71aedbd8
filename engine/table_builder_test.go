package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/salespulse/schema"
)

func TestBuildRecordTableDefaultColumns(t *testing.T) {
	rows := AddTotal(Filter(mergedFixture(), openCriteria()))
	kpi := Summarize(rows)
	table := BuildRecordTable(rows, nil, &kpi)

	require.Len(t, table.Columns, len(DefaultColumns))
	assert.Equal(t, Column{Key: "full_name", Label: "Full Name", Type: "text", Align: "left"}, table.Columns[0])
	assert.Equal(t, Column{Key: "age", Label: "Age", Type: "number", Align: "right"}, table.Columns[2])
	assert.Equal(t, Column{Key: "total", Label: "Total", Type: "currency", Align: "right"}, table.Columns[9])
	assert.Equal(t, Column{Key: "order_date", Label: "Order Date", Type: "date", Align: "center"}, table.Columns[10])

	require.Len(t, table.Rows, 4)
	assert.Equal(t, []string{
		"Ann Lee", "female", "34", "Cotton Solid Tops", "Tops", "Solid", "spring/summer",
		"2", "10.50", "21.00", "01/03/2024",
	}, table.Rows[0])
	// Missing price and total render blank.
	assert.Equal(t, "", table.Rows[3][8])
	assert.Equal(t, "", table.Rows[3][9])

	require.NotNil(t, table.Summary)
	assert.Equal(t, "Total (4 records)", table.Summary.Label)
	assert.Equal(t, "501", table.Summary.Values[schema.ColTotal])
	assert.Equal(t, "10", table.Summary.Values[schema.ColAmount])
}

func TestBuildRecordTableProjection(t *testing.T) {
	rows := AddTotal(Filter(mergedFixture(), openCriteria()))
	table := BuildRecordTable(rows, []string{schema.ColItemName, schema.ColFabric, schema.ColAmount}, nil)

	require.Len(t, table.Columns, 3)
	assert.Equal(t, "Fabric", table.Columns[1].Label)
	assert.Equal(t, []string{"Wool Striped Outerwear", "", "3"}, table.Rows[2])
	assert.Nil(t, table.Summary)
}

func TestBuildRecordTableEmpty(t *testing.T) {
	table := BuildRecordTable(nil, nil, nil)
	assert.NotNil(t, table.Rows)
	assert.Empty(t, table.Rows)
	assert.Len(t, table.Columns, len(DefaultColumns))
}

func TestBuildText(t *testing.T) {
	rows := AddTotal(Filter(mergedFixture(), openCriteria()))
	text := BuildText(Summarize(rows), rows)

	require.Len(t, text.Metrics, 3)
	assert.Equal(t, Metric{Label: "Total Sales", Value: "501", RawValue: 501}, text.Metrics[0])
	assert.Equal(t, "167.00", text.Metrics[1].Value)
	assert.Equal(t, Metric{Label: LabelTotalTransactions, Value: "4", RawValue: 4}, text.Metrics[2])
	assert.Equal(t, "01/03/2024 – 05/20/2024", text.Period)
	assert.Equal(t, 4, text.Count)
}

func TestDerivePeriod(t *testing.T) {
	assert.Equal(t, "No data", DerivePeriod(nil))
	assert.Equal(t, "All time", DerivePeriod([]MergedRecord{{}}))
	assert.Equal(t, "03/15/2024", DerivePeriod([]MergedRecord{{OrderDate: valid(day(2024, 3, 15))}}))
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "1,234,567", FormatInt(1234567))
	assert.Equal(t, "-1,000", FormatInt(-1000))
	assert.Equal(t, "USD 1,234.50", FormatCurrency(1234.5, "USD"))
	assert.Equal(t, "-0.25", FormatCurrency(-0.25, ""))
	assert.Equal(t, 2.35, RoundTo2(2.345000001))
	assert.Equal(t, "Item Name", DisplayLabel("item_name"))
}
