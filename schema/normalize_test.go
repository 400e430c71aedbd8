package schema

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// NORMALIZER TESTS
// ============================================================================

// table builds a RawTable from a comma-separated header and rows.
func table(name, header string, rows ...string) RawTable {
	t := RawTable{Name: name, Columns: strings.Split(header, ",")}
	for _, r := range rows {
		t.Rows = append(t.Rows, strings.Split(r, ","))
	}
	return t
}

func sampleTables() Tables {
	return Tables{
		"users": table("users", " User_ID ,FULL_NAME,Birth_Date,Gender",
			"1,Ann Lee,1990-05-01,female",
			"2,Bob Ray,1985-11-20,male",
		),
		"transactions": table("transactions", "user_id,item_id, Amount ,Order_Date",
			"1,10,2,2024-01-03",
			"2,11,1,2024-02-10",
		),
		"items": table("items", "Item_ID,Item_Name,Category,Printing,Season,Price",
			"10,Cotton Solid Tops,Tops,Solid,spring/summer,10.50",
			"11,Wool Striped Outerwear,Outerwear,Striped,fall/winter,120",
		),
	}
}

func TestNormalizeCanonicalizesHeaders(t *testing.T) {
	ds, err := Normalize(sampleTables())
	require.NoError(t, err)

	require.Len(t, ds.Persons, 2)
	require.Len(t, ds.Transactions, 2)
	require.Len(t, ds.Items, 2)
	assert.Empty(t, ds.Warnings)

	assert.Equal(t, "1", ds.Persons[0].ID)
	assert.Equal(t, "Ann Lee", ds.Persons[0].FullName)
	require.True(t, ds.Persons[0].BirthDate.Valid)
	assert.Equal(t, time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC), ds.Persons[0].BirthDate.V)

	assert.Equal(t, "10", ds.Transactions[0].ItemID)
	require.True(t, ds.Transactions[0].Quantity.Valid)
	assert.Equal(t, 2.0, ds.Transactions[0].Quantity.V)

	assert.Equal(t, "Solid", ds.Items[0].Texture)
	require.True(t, ds.Items[0].UnitPrice.Valid)
	assert.Equal(t, 10.5, ds.Items[0].UnitPrice.V)
}

func TestNormalizeMissingTables(t *testing.T) {
	tables := sampleTables()
	delete(tables, "items")
	delete(tables, "users")

	_, err := Normalize(tables)
	require.Error(t, err)

	var mte *MissingTableError
	require.True(t, errors.As(err, &mte))
	assert.Equal(t, []string{"users", "items"}, mte.Tables)
	assert.Contains(t, err.Error(), "users, items")
}

func TestNormalizeTableNameIsCaseInsensitive(t *testing.T) {
	tables := sampleTables()
	tables[" Users "] = tables["users"]
	delete(tables, "users")

	ds, err := Normalize(tables)
	require.NoError(t, err)
	assert.Len(t, ds.Persons, 2)
}

func TestNormalizeMissingColumn(t *testing.T) {
	tables := sampleTables()
	tables["items"] = table("items", "item_id,item_name,category,printing,season",
		"10,Shirt,Tops,Solid,spring/summer")

	_, err := Normalize(tables)
	var mce *MissingColumnError
	require.True(t, errors.As(err, &mce))
	assert.Equal(t, "items", mce.Table)
	assert.Equal(t, []string{"price"}, mce.Columns)
}

func TestNormalizeAliases(t *testing.T) {
	tables := sampleTables()
	tables["transactions"] = table("transactions", "person_id,item_id,Quantity,order date",
		"1,10,3,2024-03-01")
	tables["items"] = table("items", "item_id,name,category,texture,season,Unit Price",
		"10,Shirt,Tops,Solid,spring/summer,9.99")

	ds, err := Normalize(tables)
	require.NoError(t, err)
	assert.Equal(t, "1", ds.Transactions[0].PersonID)
	assert.Equal(t, 3.0, ds.Transactions[0].Quantity.V)
	assert.Equal(t, "Shirt", ds.Items[0].Name)
	assert.Equal(t, "Solid", ds.Items[0].Texture)
	assert.Equal(t, 9.99, ds.Items[0].UnitPrice.V)
}

func TestNormalizeCoercionBecomesMissing(t *testing.T) {
	tables := sampleTables()
	tables["users"] = table("users", "user_id,full_name,birth_date,gender",
		"1,Ann Lee,not-a-date,female")
	tables["transactions"] = table("transactions", "user_id,item_id,amount,order_date",
		"1,10,two,2024-01-03",
		"1,10,,2024-01-04",
	)
	tables["items"] = table("items", "item_id,item_name,category,printing,season,price",
		"10,Shirt,Tops,Solid,spring/summer,abc",
		"11,Coat,Outerwear,Solid,fall/winter,-5",
	)

	ds, err := Normalize(tables)
	require.NoError(t, err)

	assert.False(t, ds.Persons[0].BirthDate.Valid)
	assert.False(t, ds.Transactions[0].Quantity.Valid)
	assert.False(t, ds.Transactions[1].Quantity.Valid)
	assert.False(t, ds.Items[0].UnitPrice.Valid)
	assert.False(t, ds.Items[1].UnitPrice.Valid)

	// Empty cells are missing without a warning.
	require.Len(t, ds.Warnings, 4)
	assert.Equal(t, CoercionWarning{Table: "users", Row: 1, Column: "birth_date", Value: "not-a-date", Target: "date"}, ds.Warnings[0])
	assert.Equal(t, "transactions", ds.Warnings[1].Table)
	assert.Equal(t, "number", ds.Warnings[2].Target)
	assert.Equal(t, "-5", ds.Warnings[3].Value)
}

func TestNormalizeDuplicateKeysFirstWins(t *testing.T) {
	tables := sampleTables()
	tables["users"] = table("users", "user_id,full_name,birth_date,gender",
		"1,Ann Lee,1990-05-01,female",
		"1.0,Impostor,1970-01-01,male",
		",Nobody,1970-01-01,male",
	)

	ds, err := Normalize(tables)
	require.NoError(t, err)
	require.Len(t, ds.Persons, 1)
	assert.Equal(t, "Ann Lee", ds.Persons[0].FullName)
	require.Len(t, ds.Warnings, 2)
	assert.Equal(t, "unique key", ds.Warnings[0].Target)
	assert.Equal(t, "key", ds.Warnings[1].Target)
}

func TestMergedSchema(t *testing.T) {
	cfg := MergedSchema()
	assert.Contains(t, cfg.DimensionKeys(), "gender")
	assert.Contains(t, cfg.MeasureKeys(), "total")
	assert.True(t, cfg.IsMeasure("age"))
	assert.False(t, cfg.IsMeasure("season"))
	assert.Equal(t, "Order Date", cfg.DisplayName("order_date"))
	assert.Equal(t, "unknown", cfg.DisplayName("unknown"))
}

func TestTablesNames(t *testing.T) {
	assert.Equal(t, []string{"items", "transactions", "users"}, sampleTables().Names())
	assert.Empty(t, Tables{}.Names())
}
