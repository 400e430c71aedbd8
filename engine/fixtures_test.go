package engine

import (
	"database/sql"
	"time"

	"github.com/spektr-org/salespulse/schema"
)

// ── Test Data ─────────────────────────────────────────────────────────────────

func valid[T any](v T) sql.Null[T] { return sql.Null[T]{V: v, Valid: true} }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var testPersons = []schema.Person{
	{ID: "1", FullName: "Ann Lee", BirthDate: valid(day(1990, 5, 1)), Gender: "female"},
	{ID: "2", FullName: "Bob Ray", BirthDate: valid(day(1985, 11, 20)), Gender: "male"},
	{ID: "3", FullName: "Cy Moss", Gender: "male"},
}

var testItems = []schema.Item{
	{ID: "10", Name: "Cotton Solid Tops", Category: "Tops", Texture: "Solid", Season: "spring/summer", UnitPrice: valid(10.5)},
	{ID: "11", Name: "Wool Striped Outerwear", Category: "Outerwear", Texture: "Striped", Season: "fall/winter", UnitPrice: valid(120.0)},
	{ID: "12", Name: "Silk Floral Dresses", Category: "Dresses", Texture: "Floral", Season: "Spring/Summer"},
}

var testTransactions = []schema.Transaction{
	{PersonID: "1", ItemID: "10", Quantity: valid(2.0), OrderDate: valid(day(2024, 1, 3))},
	{PersonID: "2", ItemID: "11", Quantity: valid(1.0), OrderDate: valid(day(2024, 2, 10))},
	{PersonID: "1", ItemID: "11", Quantity: valid(3.0), OrderDate: valid(day(2024, 3, 15))},
	{PersonID: "3", ItemID: "10", Quantity: valid(1.0), OrderDate: valid(day(2024, 4, 1))},
	{PersonID: "2", ItemID: "12", Quantity: valid(4.0), OrderDate: valid(day(2024, 5, 20))},
	{PersonID: "2", ItemID: "10"},
}

// mergedFixture returns the merged and aged fixture set (current year 2024).
func mergedFixture() []MergedRecord {
	merged, err := Merge(testPersons, testTransactions, testItems)
	if err != nil {
		panic(err)
	}
	return AddAge(merged, 2024)
}

// openCriteria admits every fixture row that has an age and an order date.
func openCriteria() FilterCriteria {
	return FilterCriteria{
		Ages:    AgeRange{Min: 0, Max: AgeSliderMax},
		Genders: []string{GenderMale, GenderFemale},
		Seasons: []string{SeasonFallWinter, SeasonSpringSummer},
		Dates:   DateRange{Start: day(2024, 1, 1), End: day(2024, 12, 31)},
	}
}

// rawTables is the same fixture as raw cells, as a loader would produce it.
func rawTables() schema.Tables {
	return schema.Tables{
		schema.TableUsers: {
			Name:    "Users",
			Columns: []string{"user_id", "full_name", "birth_date", "gender"},
			Rows: [][]string{
				{"1", "Ann Lee", "1990-05-01", "female"},
				{"2", "Bob Ray", "1985-11-20", "male"},
				{"3", "Cy Moss", "", "male"},
			},
		},
		schema.TableTransactions: {
			Name:    "Transactions",
			Columns: []string{"user_id", "item_id", "amount", "order_date"},
			Rows: [][]string{
				{"1", "10", "2", "2024-01-03"},
				{"2", "11", "1", "2024-02-10"},
				{"1", "11", "3", "2024-03-15"},
				{"3", "10", "1", "2024-04-01"},
				{"2", "12", "4", "2024-05-20"},
				{"2", "10", "", ""},
			},
		},
		schema.TableItems: {
			Name:    "Items",
			Columns: []string{"item_id", "item_name", "category", "printing", "season", "price"},
			Rows: [][]string{
				{"10", "Cotton Solid Tops", "Tops", "Solid", "spring/summer", "10.50"},
				{"11", "Wool Striped Outerwear", "Outerwear", "Striped", "fall/winter", "120"},
				{"12", "Silk Floral Dresses", "Dresses", "Floral", "Spring/Summer", "n/a"},
			},
		},
	}
}
