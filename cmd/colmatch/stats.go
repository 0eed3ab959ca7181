// cmd/colmatch/stats.go
package main

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/catalogkit/colmatch/pkg/learning"
)

func newStatsCommand(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show learning statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := setup(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer cleanup()

			stats, err := learning.CollectStats(cmd.Context(), app.store)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			bold := color.New(color.Bold)

			bold.Fprintln(out, "Learning state")
			fmt.Fprintf(out, "  Patterns:    %d\n", stats.TotalPatterns)
			fmt.Fprintf(out, "  Corrections: %d\n", stats.TotalCorrections)

			if len(stats.PatternsByTarget) > 0 {
				bold.Fprintln(out, "\nPatterns by target")
				for _, target := range sortedKeys(stats.PatternsByTarget) {
					fmt.Fprintf(out, "  %-20s %d\n", target, stats.PatternsByTarget[target])
				}
			}

			if len(stats.CorrectionsByTemplate) > 0 {
				bold.Fprintln(out, "\nCorrections by template")
				for _, template := range sortedKeys(stats.CorrectionsByTemplate) {
					fmt.Fprintf(out, "  %-20s %d\n", template, stats.CorrectionsByTemplate[template])
				}
			}

			if len(stats.TopPatterns) > 0 {
				bold.Fprintln(out, "\nStrongest patterns")
				for _, p := range stats.TopPatterns {
					fmt.Fprintf(out, "  %-30s -> %-20s x%d\n", p.SourceKey, p.TargetColumn, p.Frequency)
				}
			}
			return nil
		},
	}
	return cmd
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
