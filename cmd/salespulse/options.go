package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spektr-org/salespulse/engine"
	"github.com/spektr-org/salespulse/schema"
)

const displayDate = "01/02/2006"

// optionsOutput is what the options command prints in JSON mode.
type optionsOutput struct {
	Year     int                   `json:"currentYear"`
	Merged   int                   `json:"mergedRows"`
	Warnings int                   `json:"warnings"`
	Defaults engine.FilterCriteria `json:"defaults"`
	Options  engine.FilterOptions  `json:"options"`
	Schema   schema.Config         `json:"schema"`
}

func newOptionsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List the filter values and defaults for a dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := g.loadPipeline(cmd.Context())
			if err != nil {
				return err
			}
			out := optionsOutput{
				Year:     p.CurrentYear(),
				Merged:   len(p.Records()),
				Warnings: len(p.Warnings()),
				Defaults: p.DefaultCriteria(),
				Options:  p.Options(),
				Schema:   schema.MergedSchema(),
			}

			w, closeOut, err := g.writer(cmd)
			if err != nil {
				return err
			}
			if g.output == outputJSON || g.output == outputPretty {
				err = printJSON(w, out, g.output)
			} else {
				err = writeOptionsText(w, out)
			}
			if cerr := closeOut(); err == nil {
				err = cerr
			}
			return err
		},
	}
}

func writeOptionsText(w io.Writer, out optionsOutput) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	o, d := out.Options, out.Defaults

	fmt.Fprintf(tw, "Merged rows\t%d\n", out.Merged)
	fmt.Fprintf(tw, "Ages computed for\t%d\n", out.Year)
	if out.Warnings > 0 {
		fmt.Fprintf(tw, "Unreadable cells\t%d\n", out.Warnings)
	}
	fmt.Fprintf(tw, "Age\t%d–%d (default %d–%d)\n", o.AgeMin, o.AgeMax, d.Ages.Min, d.Ages.Max)
	fmt.Fprintf(tw, "Order date\t%s – %s\n", o.DateMin.Format(displayDate), o.DateMax.Format(displayDate))
	fmt.Fprintf(tw, "Gender\t%s\n", strings.Join(o.Genders, ", "))
	fmt.Fprintf(tw, "Season\t%s\n", strings.Join(o.Seasons, ", "))
	fmt.Fprintf(tw, "Category\t%s\n", strings.Join(o.Categories, ", "))
	fmt.Fprintf(tw, "Printing\t%s\n", strings.Join(o.Textures, ", "))
	fmt.Fprintf(tw, "Customers\t%d distinct\n", len(o.FullNames))
	fmt.Fprintf(tw, "Items\t%d distinct\n", len(o.ItemNames))
	fmt.Fprintf(tw, "Columns\t%s\n", strings.Join(append(out.Schema.DimensionKeys(), out.Schema.MeasureKeys()...), ", "))
	return tw.Flush()
}
