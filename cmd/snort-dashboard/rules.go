package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"snort-dashboard/internal/dashboard"

	"github.com/spf13/cobra"
)

func (c *cli) rulesCmd() *cobra.Command {
	var (
		file   string
		search string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List rule files and preview one of them",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.service()
			if err != nil {
				return err
			}
			view := svc.Rules(file, search)
			if asJSON {
				return printJSON(cmd.OutOrStdout(), view)
			}
			printRules(cmd.OutOrStdout(), view)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Rule file name or path to preview (default: first file)")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Only preview lines containing this text")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw JSON view")
	return cmd
}

func printRules(out io.Writer, view dashboard.RulesView) {
	if view.TotalRuleFiles == 0 {
		fmt.Fprintln(out, "[WARN] No rule files found")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tRULES\tSIZE\tDIRECTORY")
	for _, f := range view.RuleFiles {
		count := "?"
		if f.RuleCount != nil {
			count = fmt.Sprintf("%d", *f.RuleCount)
		}
		size := "?"
		if f.Size != nil {
			size = fmt.Sprintf("%d", *f.Size)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.Name, count, size, f.Directory)
	}
	w.Flush()
	fmt.Fprintf(out, "%d files, %d rules\n", view.TotalRuleFiles, view.TotalRulesAll)

	if view.SelectedFile == nil {
		return
	}
	fmt.Fprintf(out, "\n--- %s ---\n", view.SelectedFile.Path)
	if view.ReadError != "" {
		fmt.Fprintf(out, "[WARN] %s\n", view.ReadError)
		return
	}
	for _, line := range view.RulesPreview {
		fmt.Fprintf(out, "%5d  %s\n", line.Number, line.Content)
	}
	if view.Truncated {
		fmt.Fprintln(out, "[WARN] Preview truncated")
	}
}
