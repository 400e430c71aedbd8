package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/spektr-org/salespulse/config"
)

var (
	version = "0.1.0"
	commit  = "none"
)

// Output formats.
const (
	outputText   = "text"
	outputJSON   = "json"
	outputPretty = "pretty"
	outputCSV    = "csv"
)

// globals holds the persistent flags and what PersistentPreRunE resolves
// from them.
type globals struct {
	output   string
	outFile  string
	dataPath string
	source   string
	logLevel string
	envFile  string

	cfg *config.Config
	log *logrus.Logger
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		reportError(rootCmd, err)
		return 1
	}
	return 0
}

func reportError(rootCmd *cobra.Command, err error) {
	output, _ := rootCmd.PersistentFlags().GetString("output")
	if output == outputJSON || output == outputPretty {
		_ = printJSON(rootCmd.OutOrStdout(), map[string]string{"error": err.Error()}, output)
		return
	}
	fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:           "salespulse",
		Short:         "Sales analytics over users, transactions and items",
		Long:          "Joins user, transaction and item tables, filters the merged rows and prints KPIs, chart data and the transaction table.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return g.resolve(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&g.output, "output", "o", outputText, "Output format (text, json, pretty, csv)")
	pf.StringVar(&g.outFile, "out", "", "Write output to this file instead of stdout")
	pf.StringVar(&g.dataPath, "data", "", "CSV directory, .xlsx workbook, .duckdb or .sqlite file (env SALESPULSE_DATA)")
	pf.StringVar(&g.source, "source", "", "Force the loader: auto, csv, duckdb, sqlite, sample (env SALESPULSE_SOURCE)")
	pf.StringVar(&g.logLevel, "log-level", "", "debug, info, warn or error (env SALESPULSE_LOG_LEVEL)")
	pf.StringVar(&g.envFile, "env-file", ".env", "Optional dotenv file read before the environment")

	rootCmd.AddCommand(newRunCmd(g))
	rootCmd.AddCommand(newOptionsCmd(g))
	rootCmd.AddCommand(newGenerateCmd(g))
	rootCmd.AddCommand(newVersionCmd(g))

	return rootCmd
}

// resolve applies precedence flag > env > default and builds the logger.
func (g *globals) resolve(cmd *cobra.Command) error {
	switch g.output {
	case outputText, outputJSON, outputPretty, outputCSV:
	default:
		return fmt.Errorf("unsupported output format %q: use text, json, pretty or csv", g.output)
	}

	cfg, err := config.LoadFromEnv(g.envFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.DataPath = g.dataPath
	}
	if flags.Changed("source") {
		cfg.Source = g.source
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = g.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	g.cfg = cfg

	// Logs go to stderr so stdout stays parseable.
	g.log = logrus.New()
	g.log.SetOutput(cmd.ErrOrStderr())
	g.log.SetLevel(cfg.LogrusLevel())
	g.log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	for _, w := range cfg.Warnings {
		g.log.Warn(w)
	}
	return nil
}

// writer returns the output destination and a close func.
func (g *globals) writer(cmd *cobra.Command) (io.Writer, func() error, error) {
	if g.outFile == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(g.outFile)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot create output file: %w", err)
	}
	return f, f.Close, nil
}

// ============================================================================
// JSON OUTPUT
// ============================================================================

func printJSON(w io.Writer, v any, format string) error {
	var out []byte
	var err error

	if format == outputPretty {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
