package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/spektr-org/salespulse/helpers"
	"github.com/spektr-org/salespulse/sample"
)

func newGenerateCmd(g *globals) *cobra.Command {
	opts := sample.DefaultOptions()
	var (
		dest   string
		format string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic users / transactions / items dataset",
		Long:  "Writes the sample dataset as a directory of CSV files or a SQLite database, ready for --data.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dest == "" {
				return fmt.Errorf("--dest is required")
			}
			tables := sample.Generate(opts)

			switch format {
			case "csv":
				if err := helpers.WriteCSVDir(dest, tables); err != nil {
					return err
				}
			case "sqlite":
				if err := helpers.WriteSQLite(cmd.Context(), dest, tables); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unsupported --format %q: use csv or sqlite", format)
			}

			g.log.WithFields(logrus.Fields{
				"users":        opts.Users,
				"items":        opts.Items,
				"transactions": opts.Transactions,
				"seed":         opts.Seed,
			}).Infof("✅ sample dataset written to %s", dest)

			if g.output == outputJSON || g.output == outputPretty {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"dest":   dest,
					"format": format,
					"tables": tables.Names(),
				}, g.output)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), dest)
			return err
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&dest, "dest", "", "Output directory (csv) or database file (sqlite)")
	fl.StringVar(&format, "format", "csv", "csv or sqlite")
	fl.IntVar(&opts.Users, "users", opts.Users, "Number of users")
	fl.IntVar(&opts.Items, "items", opts.Items, "Number of items")
	fl.IntVar(&opts.Transactions, "transactions", opts.Transactions, "Number of transactions")
	fl.IntVar(&opts.Year, "year", opts.Year, "Calendar year the order dates fall in")
	fl.Uint64Var(&opts.Seed, "seed", opts.Seed, "Random seed; the same seed writes the same data")

	return cmd
}
