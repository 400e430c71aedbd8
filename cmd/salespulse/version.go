package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the CLI version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if g.output == outputJSON || g.output == outputPretty {
				return printJSON(cmd.OutOrStdout(), map[string]string{
					"version": version,
					"commit":  commit,
				}, g.output)
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "salespulse version %s (commit: %s)\n", version, commit)
			return err
		},
	}
}
