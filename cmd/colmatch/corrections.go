// cmd/colmatch/corrections.go
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newCorrectionsCommand(flags *rootFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "corrections",
		Short: "List recent correction records, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := setup(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer cleanup()

			records, err := app.store.RecentCorrections(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No corrections recorded")
				return nil
			}

			bold := color.New(color.Bold)
			bold.Fprintf(out, "%-20s  %-4s  %-25s  %-20s  %s\n",
				"RECORDED", "LANG", "HEADER", "TARGET", "TEMPLATE")
			for _, r := range records {
				template := r.Template
				if template == "" {
					template = "-"
				}
				fmt.Fprintf(out, "%-20s  %-4s  %-25s  %-20s  %s\n",
					r.RecordedAt.Format("2006-01-02 15:04:05"),
					r.Language, truncate(r.SourceHeader, 25), r.TargetColumn, template)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum records to show, 0 for all")
	return cmd
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
