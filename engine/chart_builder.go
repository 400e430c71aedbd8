package engine

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/spektr-org/salespulse/schema"
)

// ============================================================================
// CHART HANDOFF — filtered snapshot → chart configs
// ============================================================================
// Each ChartBuilder receives the same read-only filtered records. Builders run
// concurrently; configs come back in builder order regardless of finish order.
// A builder returning nil (nothing to plot) is dropped from the set.
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// ChartBuilder turns a filtered record set into one chart.
// Implementations must treat records as read-only.
type ChartBuilder interface {
	Name() string
	Build(ctx context.Context, records []MergedRecord) (*ChartConfig, error)
}

// Handoff runs every builder against the same snapshot.
func Handoff(ctx context.Context, records []MergedRecord, builders ...ChartBuilder) (*ChartSet, error) {
	out := make([]*ChartConfig, len(builders))

	g, gctx := errgroup.WithContext(ctx)
	for i, b := range builders {
		g.Go(func() error {
			cfg, err := b.Build(gctx, records)
			if err != nil {
				return fmt.Errorf("chart %s: %w", b.Name(), err)
			}
			out[i] = cfg
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	set := &ChartSet{Charts: make([]*ChartConfig, 0, len(out))}
	for _, cfg := range out {
		if cfg != nil {
			set.Charts = append(set.Charts, cfg)
		}
	}
	return set, nil
}

// DefaultChartBuilders returns the four dashboard charts.
func DefaultChartBuilders(topN int) []ChartBuilder {
	return []ChartBuilder{
		CategoryShareChart{},
		TopItemsChart{Limit: topN},
		GroupedComparisonChart{},
		CorrelationScatterChart{},
	}
}

// ============================================================================
// REFERENCE BUILDERS
// ============================================================================

// CategoryShareChart is a pie of revenue by category.
type CategoryShareChart struct{}

func (CategoryShareChart) Name() string { return "category_share" }

func (CategoryShareChart) Build(ctx context.Context, records []MergedRecord) (*ChartConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	groups := GroupAndAggregate(NewMergedView(records), GroupSpec{
		By:      []string{schema.ColCategory},
		Measure: schema.ColTotal,
		Sort:    SortValueDesc,
	})
	if len(groups) == 0 {
		return nil, nil
	}
	cfg := &ChartConfig{
		ChartType:  "pie",
		Title:      "Revenue by Category",
		XAxis:      DisplayLabel(schema.ColCategory),
		YAxis:      DisplayLabel(schema.ColTotal),
		Series:     buildSingleSeries(groups, "Revenue"),
		ShowLegend: true,
	}
	cfg.Colors = assignColors(len(groups))
	return cfg, nil
}

// TopItemsChart is a horizontal bar of the best-selling items by units.
type TopItemsChart struct {
	Limit int
}

func (TopItemsChart) Name() string { return "top_items" }

func (c TopItemsChart) Build(ctx context.Context, records []MergedRecord) (*ChartConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit := c.Limit
	if limit <= 0 {
		limit = defaultTopN
	}
	groups := GroupAndAggregate(NewMergedView(records), GroupSpec{
		By:      []string{schema.ColItemName},
		Measure: schema.ColAmount,
		Sort:    SortValueDesc,
		Limit:   limit,
	})
	if len(groups) == 0 {
		return nil, nil
	}
	cfg := &ChartConfig{
		ChartType:  "horizontal_bar",
		Title:      fmt.Sprintf("Top %d Items by Units Sold", limit),
		XAxis:      DisplayLabel(schema.ColItemName),
		YAxis:      "Units Sold",
		Series:     buildSingleSeries(groups, "Units Sold"),
		ShowLegend: false,
		ShowGrid:   true,
	}
	cfg.Colors = assignColors(len(cfg.Series))
	return cfg, nil
}

// GroupedComparisonChart is a grouped bar of revenue by category, one
// series per gender.
type GroupedComparisonChart struct{}

func (GroupedComparisonChart) Name() string { return "category_by_gender" }

func (GroupedComparisonChart) Build(ctx context.Context, records []MergedRecord) (*ChartConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	groups := GroupAndAggregate(NewMergedView(records), GroupSpec{
		By:      []string{schema.ColCategory, schema.ColGender},
		Measure: schema.ColTotal,
		Sort:    SortLabelAsc,
	})
	if len(groups) == 0 {
		return nil, nil
	}
	cfg := &ChartConfig{
		ChartType:  "grouped_bar",
		Title:      "Revenue by Category and Gender",
		XAxis:      DisplayLabel(schema.ColCategory),
		YAxis:      DisplayLabel(schema.ColTotal),
		ShowLegend: true,
		ShowGrid:   true,
	}
	if hasSubGroups(groups) {
		cfg.Series = buildMultiSeries(groups)
	} else {
		cfg.Series = buildSingleSeries(groups, "Revenue")
	}
	cfg.Colors = assignColors(len(cfg.Series))
	return cfg, nil
}

// CorrelationScatterChart plots one point per record: age against line total.
// Rows missing either value are skipped.
type CorrelationScatterChart struct{}

func (CorrelationScatterChart) Name() string { return "age_vs_total" }

func (CorrelationScatterChart) Build(ctx context.Context, records []MergedRecord) (*ChartConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	view := NewMergedView(records)
	points := make([]ChartPoint, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		age, ok := view.Measure(i, schema.ColAge)
		if !ok {
			continue
		}
		total, ok := view.Measure(i, schema.ColTotal)
		if !ok {
			continue
		}
		points = append(points, ChartPoint{
			Label: view.Dimension(i, schema.ColItemName),
			X:     age,
			Value: RoundTo2(total),
		})
	}
	if len(points) == 0 {
		return nil, nil
	}
	return &ChartConfig{
		ChartType:  "scatter",
		Title:      "Age vs Purchase Total",
		XAxis:      DisplayLabel(schema.ColAge),
		YAxis:      DisplayLabel(schema.ColTotal),
		Series:     []ChartSeries{{Name: "Purchases", Data: points, Color: defaultColors[0]}},
		Colors:     assignColors(1),
		ShowLegend: false,
		ShowGrid:   true,
	}, nil
}

// ============================================================================
// SERIES BUILDERS
// ============================================================================

func buildSingleSeries(groups []Group, seriesName string) []ChartSeries {
	if seriesName == "" {
		seriesName = "Value"
	}

	points := make([]ChartPoint, 0, len(groups))
	for _, g := range groups {
		points = append(points, ChartPoint{
			Label: g.Label,
			Value: RoundTo2(g.Value),
		})
	}

	return []ChartSeries{{
		Name: seriesName,
		Data: points,
	}}
}

// buildMultiSeries pivots sub-groups into one series per sub-key.
// Sub-keys are sorted so series order is stable between runs.
func buildMultiSeries(groups []Group) []ChartSeries {
	subKeySet := make(map[string]bool)
	for _, g := range groups {
		for _, sg := range g.SubGroups {
			subKeySet[sg.Key] = true
		}
	}

	subKeys := make([]string, 0, len(subKeySet))
	for k := range subKeySet {
		subKeys = append(subKeys, k)
	}
	sort.Strings(subKeys)

	seriesMap := make(map[string][]ChartPoint, len(subKeys))
	for _, g := range groups {
		sgLookup := make(map[string]float64, len(g.SubGroups))
		for _, sg := range g.SubGroups {
			sgLookup[sg.Key] = sg.Value
		}
		for _, key := range subKeys {
			seriesMap[key] = append(seriesMap[key], ChartPoint{
				Label: g.Label,
				Value: RoundTo2(sgLookup[key]),
			})
		}
	}

	series := make([]ChartSeries, 0, len(subKeys))
	for i, key := range subKeys {
		name := key
		if name == "" {
			name = "Unknown"
		}
		series = append(series, ChartSeries{
			Name:  name,
			Data:  seriesMap[key],
			Color: defaultColors[i%len(defaultColors)],
		})
	}
	return series
}

func hasSubGroups(groups []Group) bool {
	for _, g := range groups {
		if len(g.SubGroups) > 0 {
			return true
		}
	}
	return false
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}
