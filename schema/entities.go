package schema

import (
	"database/sql"
	"time"
)

// Person is one row of the users sheet.
type Person struct {
	ID        string              `json:"userId"`
	FullName  string              `json:"fullName"`
	FirstName string              `json:"firstName,omitempty"`
	LastName  string              `json:"lastName,omitempty"`
	BirthDate sql.Null[time.Time] `json:"-"`
	Gender    string              `json:"gender"`
}

// Item is one row of the items sheet.
type Item struct {
	ID        string            `json:"itemId"`
	Name      string            `json:"itemName"`
	Category  string            `json:"category"`
	Texture   string            `json:"printing"`
	Season    string            `json:"season"`
	UnitPrice sql.Null[float64] `json:"-"`
	Tags      string            `json:"itemTags,omitempty"`
	Color     string            `json:"color,omitempty"`
	Fabric    string            `json:"fabric,omitempty"`
	ImageURL  string            `json:"imageUrl,omitempty"`
}

// Transaction is one purchase event.
type Transaction struct {
	PersonID  string              `json:"userId"`
	ItemID    string              `json:"itemId"`
	Quantity  sql.Null[float64]   `json:"-"`
	OrderDate sql.Null[time.Time] `json:"-"`
}

// Dataset is the typed output of Normalize.
type Dataset struct {
	Persons      []Person
	Items        []Item
	Transactions []Transaction
	Warnings     []CoercionWarning
}
