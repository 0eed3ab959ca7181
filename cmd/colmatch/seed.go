// cmd/colmatch/seed.go
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/catalogkit/colmatch/pkg/learning"
	"github.com/catalogkit/colmatch/pkg/model"
)

func newSeedCommand(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load curated header associations into the pattern store",
		Long: `Seed pre-loads known header/target pairs for one language (--lang) or
all supported languages. Seeding is idempotent: pairs already present
are skipped, never re-reinforced.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := setup(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer cleanup()

			var languages []model.Language
			if flags.language != "" {
				languages = append(languages, model.ParseLanguage(flags.language))
			}

			seeder := learning.NewSeeder(app.normalizer, app.store, app.logger)
			report, err := seeder.Seed(cmd.Context(), languages...)
			if err != nil {
				return fmt.Errorf("seeding failed: %w", err)
			}

			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(),
				"Seeded %d patterns (%d already present)\n", report.Seeded, report.Skipped)
			return nil
		},
	}
	return cmd
}
