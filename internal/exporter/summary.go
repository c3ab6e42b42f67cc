package exporter

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"sentimentcli/internal/analytics"
)

// describeHeader matches the column order of analytics.Summary.
var describeHeader = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max", "total"}

// WriteSummary prints the report as plain-text tables.
func WriteSummary(w io.Writer, report *analytics.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	section(tw, "Sentiment Distribution")
	row(tw, report.Columns.Classification, "count")
	for _, c := range report.Distribution {
		row(tw, c.Label, formatInt(c.Count))
	}
	if report.Unmatched > 0 {
		row(tw, "(no prior sentiment)", formatInt(report.Unmatched))
	}

	section(tw, "Trader Performance Summary ("+report.Columns.PnL+")")
	describeTable(tw, report.Columns.Classification, report.PnL)

	if report.Leverage != nil {
		section(tw, "Leverage by Sentiment ("+report.Columns.Leverage+")")
		describeTable(tw, report.Columns.Classification, report.Leverage)
	}

	if gm := report.LeverageMeans; gm != nil {
		section(tw, "Average Leverage and PnL by Sentiment")
		row(tw, append([]string{report.Columns.Classification}, gm.Columns...)...)
		for g, group := range gm.Groups {
			cells := []string{group}
			for _, v := range gm.Means[g] {
				cells = append(cells, formatFloat(v))
			}
			row(tw, cells...)
		}
	}

	if ct := report.Sides; ct != nil {
		section(tw, "Trade Side vs Sentiment ("+report.Columns.Side+")")
		row(tw, append([]string{report.Columns.Classification}, ct.Columns...)...)
		for i, label := range ct.Rows {
			cells := []string{label}
			for _, n := range ct.Counts[i] {
				cells = append(cells, formatInt(n))
			}
			row(tw, cells...)
		}
	}

	if m := report.Correlation; m != nil && len(m.Columns) > 0 {
		section(tw, "Correlation")
		row(tw, append([]string{""}, m.Columns...)...)
		for i, col := range m.Columns {
			cells := []string{col}
			for _, v := range m.Values[i] {
				cells = append(cells, formatFloat(v))
			}
			row(tw, cells...)
		}
	}

	return tw.Flush()
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n=== %s ===\n", title)
}

func row(w io.Writer, cells ...string) {
	fmt.Fprintln(w, strings.Join(cells, "\t")+"\t")
}

func describeTable(w io.Writer, groupLabel string, groups []analytics.GroupSummary) {
	row(w, append([]string{groupLabel}, describeHeader...)...)
	for _, g := range groups {
		row(w, describeCells(g)...)
	}
}

func describeCells(g analytics.GroupSummary) []string {
	return []string{
		g.Group,
		formatInt(g.Count),
		formatFloat(g.Mean),
		formatFloat(g.Std),
		formatFloat(g.Min),
		formatFloat(g.P25),
		formatFloat(g.P50),
		formatFloat(g.P75),
		formatFloat(g.Max),
		g.Total.String(),
	}
}
