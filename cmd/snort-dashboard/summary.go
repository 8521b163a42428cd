package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"snort-dashboard/internal/dashboard"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
)

func (c *cli) summaryCmd() *cobra.Command {
	var (
		chart  bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show dashboard totals and alert trends",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.service()
			if err != nil {
				return err
			}
			data := svc.Dashboard()
			if asJSON {
				return printJSON(cmd.OutOrStdout(), data)
			}
			printSummary(cmd.OutOrStdout(), data, chart)
			return nil
		},
	}

	cmd.Flags().BoolVar(&chart, "chart", false, "Plot the hourly and weekly series")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw JSON payload")
	return cmd
}

func printSummary(out io.Writer, data dashboard.DashboardData, chart bool) {
	fmt.Fprintln(out, "Snort Dashboard Summary")
	fmt.Fprintln(out, strings.Repeat("=", 40))
	fmt.Fprintf(out, "Alerts:        %d\n", data.TotalAlerts)
	fmt.Fprintf(out, "Rules:         %d\n", data.TotalRules)
	fmt.Fprintf(out, "IP whitelist:  %d\n", data.TotalIPWhitelist)
	fmt.Fprintf(out, "IP blocklist:  %d\n", data.TotalIPBlocklist)
	for _, f := range data.ActiveFiles {
		fmt.Fprintf(out, "Source:        %s\n", f.Path)
	}
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DAY\tALERT\tDROP")
	for i, label := range data.AlertWeekLabels {
		fmt.Fprintf(w, "%s\t%d\t%d\n", label, data.AlertWeekAlert[i], data.AlertWeekDrop[i])
	}
	w.Flush()

	if !chart {
		return
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, plot(data.AlertHourAlert, data.AlertHourDrop, "Today by hour (alert, drop)"))
	fmt.Fprintln(out)
	fmt.Fprintln(out, plot(data.AlertWeekAlert, data.AlertWeekDrop, "Last 7 days (alert, drop)"))
}

func plot(alert, drop []int, caption string) string {
	return asciigraph.PlotMany(
		[][]float64{floats(alert), floats(drop)},
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.SeriesColors(asciigraph.Default, asciigraph.Red),
		asciigraph.Caption(caption),
	)
}

func floats(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}
