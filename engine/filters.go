package engine

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/spektr-org/salespulse/schema"
)

// ============================================================================
// FILTERS — Conjunctive predicate filtering over merged records
// ============================================================================
// Single-pass filter: checks ALL constraints per record in one loop.
// Predicates are AND-combined; values within a set are OR-combined.
// Returns a new slice in input order; the input is never modified.
// ============================================================================

type predicate func(r *MergedRecord) bool

// Filter returns the records matching every constraint in c.
// An empty result is valid and returns a non-nil empty slice.
func Filter(records []MergedRecord, c FilterCriteria) []MergedRecord {
	return filterChunk(records, compilePredicates(c))
}

// FilterParallel evaluates chunks of records concurrently and reassembles
// them in input order. The output equals Filter(records, c).
func FilterParallel(ctx context.Context, records []MergedRecord, c FilterCriteria, workers int) ([]MergedRecord, error) {
	if workers <= 1 || len(records) < 2*workers {
		return Filter(records, c), nil
	}

	preds := compilePredicates(c)
	chunkSize := (len(records) + workers - 1) / workers
	parts := make([][]MergedRecord, workers)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * chunkSize
		if lo >= len(records) {
			break
		}
		hi := lo + chunkSize
		if hi > len(records) {
			hi = len(records)
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			parts[w] = filterChunk(records[lo:hi], preds)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]MergedRecord, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out, nil
}

func filterChunk(records []MergedRecord, preds []predicate) []MergedRecord {
	out := make([]MergedRecord, 0, len(records))
	for i := range records {
		r := &records[i]
		pass := true
		for _, p := range preds {
			if !p(r) {
				pass = false
				break
			}
		}
		if pass {
			out = append(out, *r)
		}
	}
	return out
}

// compilePredicates builds one predicate per active constraint.
// Age, date, gender and season are always active; the multiselects only
// when non-empty.
func compilePredicates(c FilterCriteria) []predicate {
	preds := make([]predicate, 0, 8)

	lo, hi := c.Ages.Min, c.Ages.Max
	preds = append(preds, func(r *MergedRecord) bool {
		return r.Age.Valid && r.Age.V >= lo && r.Age.V <= hi
	})

	genders := toLowerSet(c.Genders)
	preds = append(preds, func(r *MergedRecord) bool { return genders[normalizeValue(r.Gender)] })

	seasons := toLowerSet(c.Seasons)
	preds = append(preds, func(r *MergedRecord) bool { return seasons[normalizeValue(r.Season)] })

	start, end := schema.TruncateDay(c.Dates.Start), schema.TruncateDay(c.Dates.End)
	preds = append(preds, func(r *MergedRecord) bool {
		if !r.OrderDate.Valid {
			return false
		}
		d := schema.TruncateDay(r.OrderDate.V)
		return !d.Before(start) && !d.After(end)
	})

	if len(c.FullNames) > 0 {
		set := toLowerSet(c.FullNames)
		preds = append(preds, func(r *MergedRecord) bool { return set[normalizeValue(r.FullName)] })
	}
	if len(c.ItemNames) > 0 {
		set := toLowerSet(c.ItemNames)
		preds = append(preds, func(r *MergedRecord) bool { return set[normalizeValue(r.ItemName)] })
	}
	if len(c.Categories) > 0 {
		set := toLowerSet(c.Categories)
		preds = append(preds, func(r *MergedRecord) bool { return set[normalizeValue(r.Category)] })
	}
	if len(c.Textures) > 0 {
		set := toLowerSet(c.Textures)
		preds = append(preds, func(r *MergedRecord) bool { return set[normalizeValue(r.Printing)] })
	}
	return preds
}

// toLowerSet converts a string slice to a lowercase lookup set.
func toLowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[normalizeValue(item)] = true
	}
	return set
}

func normalizeValue(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
