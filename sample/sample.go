// Package sample generates a synthetic fashion-retail dataset in the shape the
// pipeline ingests: users, items and transactions as raw string tables.
// The same seed always yields the same tables.
package sample

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/spektr-org/salespulse/schema"
)

// Options sizes the generated dataset.
type Options struct {
	Users        int
	Items        int
	Transactions int
	Year         int // order dates fall within this calendar year
	Seed         uint64
}

// DefaultOptions matches the demo workbook: 500 users, 300 items and 3,200
// transactions during 2024.
func DefaultOptions() Options {
	return Options{Users: 500, Items: 300, Transactions: 3200, Year: 2024, Seed: 1}
}

var (
	seasons    = []string{"spring/summer", "fall/winter"}
	colors     = []string{"Red", "Blue", "Green", "Black", "White", "Yellow"}
	printings  = []string{"Floral", "Solid", "Striped", "Polka Dot", "Geometric"}
	fabrics    = []string{"Cotton", "Linen", "Silk", "Wool", "Polyester"}
	categories = []string{"Tops", "Bottoms", "Dresses", "Outerwear", "Accessories"}
	tagWords   = []string{"casual", "classic", "summer", "office", "vintage", "sport", "evening", "basic", "cozy", "trend"}

	firstNames = []string{
		"Olivia", "Liam", "Emma", "Noah", "Ava", "Mason", "Sophia", "Lucas", "Mia", "Ethan",
		"Isabella", "James", "Amelia", "Benjamin", "Harper", "Elijah", "Evelyn", "Henry", "Aria", "Jack",
	}
	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez",
		"Lopez", "Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Martin", "Lee", "Walker", "Young",
	}
)

// Column headers, in the demo workbook's order.
var (
	UserColumns        = []string{"user_id", "first_name", "last_name", "full_name", "gender", "birth_date"}
	ItemColumns        = []string{"item_id", "item_tags", "season", "category", "price", "color", "printing", "fabric", "item_name", "image_url"}
	TransactionColumns = []string{"user_id", "item_id", "amount", "order_date"}
)

const dateLayout = "2006-01-02"

// Generate builds the three tables.
func Generate(opts Options) schema.Tables {
	def := DefaultOptions()
	if opts.Users <= 0 {
		opts.Users = def.Users
	}
	if opts.Items <= 0 {
		opts.Items = def.Items
	}
	if opts.Transactions < 0 {
		opts.Transactions = 0
	}
	if opts.Year == 0 {
		opts.Year = def.Year
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	tables := schema.Tables{}
	tables.Add(generateUsers(rng, opts))
	tables.Add(generateItems(rng, opts))
	tables.Add(generateTransactions(rng, opts))
	return tables
}

func pick(rng *rand.Rand, xs []string) string { return xs[rng.IntN(len(xs))] }

func generateUsers(rng *rand.Rand, opts Options) schema.RawTable {
	t := schema.RawTable{Name: schema.TableUsers, Columns: UserColumns}
	for i := 1; i <= opts.Users; i++ {
		first, last := pick(rng, firstNames), pick(rng, lastNames)
		gender := "male"
		if rng.IntN(2) == 1 {
			gender = "female"
		}
		// ages 7 to 120 in the order year
		birthYear := opts.Year - (7 + rng.IntN(114))
		birth := time.Date(birthYear, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, rng.IntN(365))
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(i), first, last, first + " " + last, gender, birth.Format(dateLayout),
		})
	}
	return t
}

func generateItems(rng *rand.Rand, opts Options) schema.RawTable {
	t := schema.RawTable{Name: schema.TableItems, Columns: ItemColumns}
	for i := 1; i <= opts.Items; i++ {
		gender := "male"
		if rng.IntN(2) == 1 {
			gender = "female"
		}
		tags := []string{gender}
		for n := 1 + rng.IntN(2); n > 0; n-- {
			tags = append(tags, pick(rng, tagWords))
		}

		season := pick(rng, seasons)
		category := pick(rng, categories)
		price := 5.0 + rng.Float64()*195.0
		color := pick(rng, colors)
		printing := pick(rng, printings)
		fabric := pick(rng, fabrics)

		t.Rows = append(t.Rows, []string{
			strconv.Itoa(i),
			strings.Join(tags, ", "),
			season,
			category,
			strconv.FormatFloat(price, 'f', 2, 64),
			color,
			printing,
			fabric,
			fabric + " " + printing + " " + category,
			fmt.Sprintf("https://picsum.photos/seed/%d/300/400", i),
		})
	}
	return t
}

func generateTransactions(rng *rand.Rand, opts Options) schema.RawTable {
	t := schema.RawTable{Name: schema.TableTransactions, Columns: TransactionColumns}
	start := time.Date(opts.Year, 1, 1, 0, 0, 0, 0, time.UTC)
	days := start.AddDate(1, 0, 0).Sub(start).Hours() / 24
	for i := 0; i < opts.Transactions; i++ {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(1 + rng.IntN(opts.Users)),
			strconv.Itoa(1 + rng.IntN(opts.Items)),
			strconv.Itoa(1 + rng.IntN(5)),
			start.AddDate(0, 0, rng.IntN(int(days))).Format(dateLayout),
		})
	}
	return t
}
