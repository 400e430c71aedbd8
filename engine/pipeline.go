package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/spektr-org/salespulse/schema"
)

// ============================================================================
// PIPELINE — normalize → merge → derive, then filter → summarize per request
// ============================================================================
// Load does the expensive part once: it validates the three raw tables,
// joins them, and stamps ages. Apply is the per-interaction step: it filters
// the held records and builds KPI, charts and table from one snapshot.
//
// The held records are never written after Load returns; Apply only reads.
// ============================================================================

// EmptyResultMessage is shown when the filters leave no rows.
const EmptyResultMessage = "No data matches the current filters. Try adjusting the filter criteria."

// Pipeline holds the most recently merged dataset.
type Pipeline struct {
	cfg      *config
	records  []MergedRecord
	warnings []schema.CoercionWarning
	year     int
}

// Load normalizes and merges tables. Fatal input problems come back as
// *schema.MissingTableError, *schema.MissingColumnError or *EmptyJoinError.
func Load(tables schema.Tables, opts ...Option) (*Pipeline, error) {
	cfg := applyOptions(opts)
	log := cfg.Logger

	ds, err := schema.Normalize(tables)
	if err != nil {
		return nil, err
	}
	if len(ds.Warnings) > 0 {
		log.WithFields(logrus.Fields{
			"warnings": len(ds.Warnings),
			"first":    ds.Warnings[0].Error(),
		}).Warn("⚠️ salespulse: some cells could not be coerced and were treated as missing")
	}

	merged, err := Merge(ds.Persons, ds.Transactions, ds.Items)
	if err != nil {
		return nil, err
	}

	year := cfg.currentYear()
	p := &Pipeline{
		cfg:      cfg,
		records:  AddAge(merged, year),
		warnings: ds.Warnings,
		year:     year,
	}

	log.WithFields(logrus.Fields{
		"users":        len(ds.Persons),
		"transactions": len(ds.Transactions),
		"items":        len(ds.Items),
		"merged":       len(p.records),
		"year":         year,
	}).Info("🔧 salespulse: dataset loaded")

	return p, nil
}

// Records returns a copy of the merged records.
func (p *Pipeline) Records() []MergedRecord {
	out := make([]MergedRecord, len(p.records))
	copy(out, p.records)
	return out
}

// Warnings returns the non-fatal coercion warnings from Load.
func (p *Pipeline) Warnings() []schema.CoercionWarning {
	return p.warnings
}

// CurrentYear is the year ages were computed against.
func (p *Pipeline) CurrentYear() int { return p.year }

// DefaultCriteria returns the starting selections for this dataset.
func (p *Pipeline) DefaultCriteria() FilterCriteria {
	return DefaultCriteria(p.records)
}

// Options returns the selectable filter values for this dataset.
func (p *Pipeline) Options() FilterOptions {
	return Options(p.records)
}

// Apply filters the held records and builds the render-ready result.
// An empty filter result is not an error: it returns Result.Empty.
func (p *Pipeline) Apply(ctx context.Context, c FilterCriteria) (*Result, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	log := p.cfg.Logger.WithField("run_id", runID)

	var filtered []MergedRecord
	if p.cfg.Workers > 1 {
		var err error
		filtered, err = FilterParallel(ctx, p.records, c, p.cfg.Workers)
		if err != nil {
			return nil, fmt.Errorf("filter: %w", err)
		}
	} else {
		filtered = Filter(p.records, c)
	}

	result := &Result{
		RunID:    runID,
		Criteria: c,
		Warnings: p.warnings,
		Merged:   len(p.records),
		Filtered: len(filtered),
	}

	if len(filtered) == 0 {
		log.WithField("merged", len(p.records)).Info("🔧 salespulse: no rows match the filters")
		result.Empty = true
		result.Message = EmptyResultMessage
		result.Records = filtered
		return result, nil
	}

	rows := AddTotal(filtered)
	kpi := Summarize(rows)

	charts, err := Handoff(ctx, rows, p.cfg.Builders...)
	if err != nil {
		return nil, err
	}

	result.Records = rows
	result.KPI = &kpi
	result.Text = BuildText(kpi, rows)
	result.Charts = charts
	result.Table = BuildRecordTable(rows, p.cfg.Columns, &kpi)
	result.Message = buildDefaultReply(kpi)

	log.WithFields(logrus.Fields{
		"merged":   len(p.records),
		"filtered": len(rows),
		"charts":   len(charts.Charts),
	}).Info("🔧 salespulse: filters applied")

	return result, nil
}

// Run loads tables and applies c in one call.
func Run(ctx context.Context, tables schema.Tables, c FilterCriteria, opts ...Option) (*Result, error) {
	p, err := Load(tables, opts...)
	if err != nil {
		return nil, err
	}
	return p.Apply(ctx, c)
}

func buildDefaultReply(k KpiSummary) string {
	return fmt.Sprintf("Found %s records totalling %s.",
		FormatInt(k.TransactionCount), FormatInt(int(k.TotalSum)))
}
