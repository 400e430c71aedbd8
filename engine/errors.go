package engine

import "fmt"

// EmptyJoinError means the join keys of the three tables do not overlap at
// all. It is distinct from a filter that matches nothing, which is a valid
// empty Result.
type EmptyJoinError struct {
	Persons      int
	Transactions int
	Items        int
}

func (e *EmptyJoinError) Error() string {
	return fmt.Sprintf("no matching data found between sheets (%d users, %d transactions, %d items): check that the join keys user_id and item_id match",
		e.Persons, e.Transactions, e.Items)
}
