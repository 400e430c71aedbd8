package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spektr-org/salespulse/config"
	"github.com/spektr-org/salespulse/engine"
	"github.com/spektr-org/salespulse/schema"
)

// CSV sections.
const (
	sectionTable  = "table"
	sectionCharts = "charts"
	sectionKPI    = "kpi"
)

// criteriaFlags are the command-line versions of the dashboard controls.
// They are applied on top of the dataset defaults and any --criteria file.
type criteriaFlags struct {
	file       string
	ageMin     int
	ageMax     int
	genders    []string
	seasons    []string
	start      string
	end        string
	fullNames  []string
	itemNames  []string
	categories []string
	textures   []string
}

func (f *criteriaFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.file, "criteria", "", "YAML file with saved filter selections")
	fl.IntVar(&f.ageMin, "age-min", engine.DefaultAgeMin, "Minimum customer age")
	fl.IntVar(&f.ageMax, "age-max", engine.DefaultAgeMax, "Maximum customer age")
	fl.StringSliceVar(&f.genders, "gender", nil, "Genders to keep (male, female); pass \"\" for none")
	fl.StringSliceVar(&f.seasons, "season", nil, "Seasons to keep (fall/winter, spring/summer); pass \"\" for none")
	fl.StringVar(&f.start, "start", "", "First order date to keep")
	fl.StringVar(&f.end, "end", "", "Last order date to keep")
	fl.StringSliceVar(&f.fullNames, "name", nil, "Restrict to these customers")
	fl.StringSliceVar(&f.itemNames, "item", nil, "Restrict to these items")
	fl.StringSliceVar(&f.categories, "category", nil, "Restrict to these categories")
	fl.StringSliceVar(&f.textures, "texture", nil, "Restrict to these printings")
}

// criteria builds the run's FilterCriteria: dataset defaults, then the
// criteria file, then explicit flags.
func (f *criteriaFlags) criteria(cmd *cobra.Command, base engine.FilterCriteria) (engine.FilterCriteria, error) {
	c := base
	if f.file != "" {
		cf, err := config.LoadCriteriaFile(f.file)
		if err != nil {
			return base, err
		}
		if c, err = cf.Apply(c); err != nil {
			return base, fmt.Errorf("%s: %w", f.file, err)
		}
	}

	fl := cmd.Flags()
	if fl.Changed("age-min") {
		c.Ages.Min = f.ageMin
	}
	if fl.Changed("age-max") {
		c.Ages.Max = f.ageMax
	}
	if fl.Changed("start") {
		d, ok := schema.ParseDate(f.start)
		if !ok {
			return base, fmt.Errorf("--start %q is not a date", f.start)
		}
		c.Dates.Start = d
	}
	if fl.Changed("end") {
		d, ok := schema.ParseDate(f.end)
		if !ok {
			return base, fmt.Errorf("--end %q is not a date", f.end)
		}
		c.Dates.End = d
	}

	set := func(flag string, src []string, dst *[]string) {
		if fl.Changed(flag) {
			*dst = cleanList(src)
		}
	}
	set("gender", f.genders, &c.Genders)
	set("season", f.seasons, &c.Seasons)
	set("name", f.fullNames, &c.FullNames)
	set("item", f.itemNames, &c.ItemNames)
	set("category", f.categories, &c.Categories)
	set("texture", f.textures, &c.Textures)

	if err := c.Validate(); err != nil {
		return base, err
	}
	return c, nil
}

// cleanList trims entries and drops blanks, so `--gender ""` is an explicit
// empty selection.
func cleanList(xs []string) []string {
	out := []string{}
	for _, x := range xs {
		if x = strings.TrimSpace(x); x != "" {
			out = append(out, x)
		}
	}
	return out
}

func newRunCmd(g *globals) *cobra.Command {
	var (
		cf      criteriaFlags
		topN    int
		workers int
		year    int
		columns []string
		section string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Filter the merged dataset and print KPIs, charts and the table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch section {
			case sectionTable, sectionCharts, sectionKPI:
			default:
				return fmt.Errorf("unsupported --csv-section %q: use table, charts or kpi", section)
			}

			fl := cmd.Flags()
			if fl.Changed("top") {
				g.cfg.TopN = topN
			}
			if fl.Changed("workers") {
				g.cfg.Workers = workers
			}
			if fl.Changed("year") {
				g.cfg.CurrentYear = year
			}
			if err := g.cfg.Validate(); err != nil {
				return err
			}

			var extra []engine.Option
			if len(columns) > 0 {
				extra = append(extra, engine.WithColumns(columns...))
			}

			ctx := cmd.Context()
			p, err := g.loadPipeline(ctx, extra...)
			if err != nil {
				return err
			}

			c, err := cf.criteria(cmd, p.DefaultCriteria())
			if err != nil {
				return err
			}

			res, err := p.Apply(ctx, c)
			if err != nil {
				return err
			}

			w, closeOut, err := g.writer(cmd)
			if err != nil {
				return err
			}
			if err := writeResult(w, res, g.output, section); err != nil {
				_ = closeOut()
				return err
			}
			if err := closeOut(); err != nil {
				return err
			}
			if g.outFile != "" {
				g.log.Infof("📄 %s output written to %s", g.output, g.outFile)
			}
			return nil
		},
	}

	cf.register(cmd)
	cmd.Flags().IntVar(&topN, "top", 10, "Items shown in the top-items chart (env SALESPULSE_TOP_N)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Filter in this many parallel chunks (env SALESPULSE_WORKERS)")
	cmd.Flags().IntVar(&year, "year", 0, "Compute ages against this year instead of today (env SALESPULSE_CURRENT_YEAR)")
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "Table columns, in order (default: the dashboard table)")
	cmd.Flags().StringVar(&section, "csv-section", sectionTable, "What -o csv writes: table, charts or kpi")

	return cmd
}
