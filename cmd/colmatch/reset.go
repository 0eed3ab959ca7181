// cmd/colmatch/reset.go
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newResetCommand(flags *rootFlags) *cobra.Command {
	var (
		patterns    bool
		corrections bool
	)

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Wipe learned patterns and/or the correction log",
		Long: `Reset deletes learning state. It does nothing unless at least one of
--patterns or --corrections is given; there is no implicit full wipe.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !patterns && !corrections {
				return fmt.Errorf("nothing to reset: pass --patterns and/or --corrections")
			}

			app, cleanup, err := setup(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			yellow := color.New(color.FgYellow)

			if patterns {
				if err := app.store.ResetPatterns(cmd.Context()); err != nil {
					return fmt.Errorf("failed to reset patterns: %w", err)
				}
				yellow.Fprintln(out, "Learned patterns wiped")
			}
			if corrections {
				if err := app.store.ResetCorrections(cmd.Context()); err != nil {
					return fmt.Errorf("failed to reset corrections: %w", err)
				}
				yellow.Fprintln(out, "Correction log wiped")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&patterns, "patterns", false, "wipe the learned pattern table")
	cmd.Flags().BoolVar(&corrections, "corrections", false, "wipe the correction log")
	return cmd
}
