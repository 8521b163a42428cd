package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) clearCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Truncate every alert log the dashboard reads",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.service()
			if err != nil {
				return err
			}
			result := svc.ClearLogs()
			out := cmd.OutOrStdout()

			if asJSON {
				if err := printJSON(out, result); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(out, "[OK] Cleared %d file(s)\n", result.Cleared)
				for _, e := range result.Errors {
					fmt.Fprintf(out, "[WARN] %s: %s\n", e.Path, e.Message)
				}
			}

			if len(result.Errors) > 0 {
				return fmt.Errorf("failed to clear %d file(s)", len(result.Errors))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw JSON result")
	return cmd
}
