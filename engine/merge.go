package engine

import (
	"github.com/spektr-org/salespulse/schema"
)

// ============================================================================
// MERGER — transactions ⋈ users ⋈ items
// ============================================================================
// Both joins are inner: a transaction survives only when its user_id and
// item_id both resolve. Output follows transaction order, one row per
// transaction at most (keys are unique after Normalize).
// ============================================================================

// Merge joins transactions with their person and item.
// Returns *EmptyJoinError when no transaction matches on both keys.
func Merge(persons []schema.Person, transactions []schema.Transaction, items []schema.Item) ([]MergedRecord, error) {
	personByID := make(map[string]int, len(persons))
	for i, p := range persons {
		if _, dup := personByID[p.ID]; !dup {
			personByID[p.ID] = i
		}
	}
	itemByID := make(map[string]int, len(items))
	for i, it := range items {
		if _, dup := itemByID[it.ID]; !dup {
			itemByID[it.ID] = i
		}
	}

	merged := make([]MergedRecord, 0, len(transactions))
	for _, t := range transactions {
		pi, ok := personByID[t.PersonID]
		if !ok {
			continue
		}
		ii, ok := itemByID[t.ItemID]
		if !ok {
			continue
		}
		merged = append(merged, newMergedRecord(persons[pi], t, items[ii]))
	}

	if len(merged) == 0 {
		return nil, &EmptyJoinError{
			Persons:      len(persons),
			Transactions: len(transactions),
			Items:        len(items),
		}
	}
	return merged, nil
}
