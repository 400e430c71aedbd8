package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spektr-org/salespulse/engine"
)

// writeResult renders one run in the requested format.
func writeResult(w io.Writer, res *engine.Result, format, section string) error {
	switch format {
	case outputJSON, outputPretty:
		return printJSON(w, res, format)
	case outputCSV:
		cw := csv.NewWriter(w)
		switch section {
		case sectionCharts:
			writeChartsCSV(cw, res)
		case sectionKPI:
			writeKPICSV(cw, res)
		default:
			writeTableCSV(cw, res)
		}
		cw.Flush()
		return cw.Error()
	default:
		return writeText(w, res)
	}
}

// ============================================================================
// CSV OUTPUT — Sheets-ready exports of the table, the charts or the KPI row
// ============================================================================

func writeTableCSV(cw *csv.Writer, res *engine.Result) {
	if res.Empty || res.Table == nil {
		writeMessageCSV(cw, res)
		return
	}

	t := res.Table
	headers := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = c.Label
	}
	cw.Write(headers)
	for _, row := range t.Rows {
		cw.Write(row)
	}

	if t.Summary != nil {
		row := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			row[i] = t.Summary.Values[c.Key]
		}
		if len(row) > 0 && row[0] == "" {
			row[0] = t.Summary.Label
		}
		cw.Write(row)
	}
}

// writeChartsCSV writes every chart as its own block: a title row, a header
// row and the data, separated by a blank row.
func writeChartsCSV(cw *csv.Writer, res *engine.Result) {
	if res.Empty || res.Charts == nil || len(res.Charts.Charts) == 0 {
		writeMessageCSV(cw, res)
		return
	}
	for i, chart := range res.Charts.Charts {
		if i > 0 {
			cw.Write([]string{})
		}
		cw.Write([]string{chart.Title})
		writeChartCSV(cw, chart)
	}
}

func writeChartCSV(cw *csv.Writer, chart *engine.ChartConfig) {
	if len(chart.Series) == 0 {
		return
	}

	xLabel := chart.XAxis
	yLabel := chart.YAxis
	if xLabel == "" {
		xLabel = "Label"
	}
	if yLabel == "" {
		yLabel = "Value"
	}

	// Scatter → label, x, y
	if chart.ChartType == "scatter" {
		cw.Write([]string{"Label", xLabel, yLabel})
		for _, d := range chart.Series[0].Data {
			cw.Write([]string{d.Label, fmtNum(d.X), fmtNum(d.Value)})
		}
		return
	}

	// Single series → two columns
	if len(chart.Series) == 1 {
		cw.Write([]string{xLabel, yLabel})
		for _, d := range chart.Series[0].Data {
			cw.Write([]string{d.Label, fmtNum(d.Value)})
		}
		return
	}

	// Multi-series → label + one column per series
	headers := []string{xLabel}
	for _, s := range chart.Series {
		headers = append(headers, s.Name)
	}
	cw.Write(headers)

	for i, d := range chart.Series[0].Data {
		row := []string{d.Label}
		for _, s := range chart.Series {
			if i < len(s.Data) {
				row = append(row, fmtNum(s.Data[i].Value))
			} else {
				row = append(row, "")
			}
		}
		cw.Write(row)
	}
}

func writeKPICSV(cw *csv.Writer, res *engine.Result) {
	if res.Empty || res.Text == nil {
		writeMessageCSV(cw, res)
		return
	}
	cw.Write([]string{"Metric", "Value"})
	for _, m := range res.Text.Metrics {
		cw.Write([]string{m.Label, fmtNum(m.RawValue)})
	}
	cw.Write([]string{"Period", res.Text.Period})
}

// writeMessageCSV is the fallback when there is nothing tabular to write.
func writeMessageCSV(cw *csv.Writer, res *engine.Result) {
	msg := res.Message
	if msg == "" {
		msg = "No data"
	}
	cw.Write([]string{"Summary"})
	cw.Write([]string{msg})
}

// ============================================================================
// TEXT OUTPUT
// ============================================================================

func writeText(w io.Writer, res *engine.Result) error {
	var b strings.Builder

	b.WriteString(res.Message)
	b.WriteString("\n")
	if res.Empty {
		_, err := io.WriteString(w, b.String())
		return err
	}

	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	if res.Text != nil {
		fmt.Fprintf(tw, "\nPeriod\t%s\n", res.Text.Period)
		for _, m := range res.Text.Metrics {
			fmt.Fprintf(tw, "%s\t%s\n", m.Label, m.Value)
		}
	}
	tw.Flush()

	if res.Charts != nil {
		for _, chart := range res.Charts.Charts {
			writeChartText(&b, chart)
		}
	}

	if res.Table != nil {
		fmt.Fprintf(&b, "\n%s: %d rows (use -o csv to export them)\n", res.Table.Title, len(res.Table.Rows))
	}
	if n := len(res.Warnings); n > 0 {
		fmt.Fprintf(&b, "\n%d cells could not be read and were treated as missing\n", n)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeChartText(b *strings.Builder, chart *engine.ChartConfig) {
	fmt.Fprintf(b, "\n%s\n", chart.Title)
	if len(chart.Series) == 0 {
		return
	}

	if chart.ChartType == "scatter" {
		fmt.Fprintf(b, "  %d points (use -o csv --csv-section charts for the data)\n", len(chart.Series[0].Data))
		return
	}

	tw := tabwriter.NewWriter(b, 0, 4, 2, ' ', 0)
	if len(chart.Series) > 1 {
		fmt.Fprint(tw, "  \t")
		for _, s := range chart.Series {
			fmt.Fprintf(tw, "%s\t", s.Name)
		}
		fmt.Fprintln(tw)
	}
	for i, d := range chart.Series[0].Data {
		fmt.Fprintf(tw, "  %s\t", d.Label)
		for _, s := range chart.Series {
			if i < len(s.Data) {
				fmt.Fprintf(tw, "%s\t", fmtNum(s.Data[i].Value))
			}
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()
}

// ============================================================================
// HELPERS
// ============================================================================

func fmtNum(v float64) string {
	// Whole numbers → no decimals, fractional → 2 decimals
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
