// cmd/colmatch/record.go
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/catalogkit/colmatch/pkg/learning"
	"github.com/catalogkit/colmatch/pkg/model"
)

func newRecordCommand(flags *rootFlags) *cobra.Command {
	var (
		header     string
		target     string
		template   string
		confidence float64
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record one correction and reinforce its pattern",
		Example: `  colmatch record --header "Désignation" --target reference \
      --lang fr --template supplier-export`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := setup(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer cleanup()

			language := model.ParseLanguage(flags.language)
			if flags.language == "" {
				language = model.ParseLanguage(app.cfg.DefaultLanguage)
			}

			recorder := learning.NewRecorder(app.normalizer, app.store, app.logger)
			record, err := recorder.Record(cmd.Context(), learning.Correction{
				Header:           header,
				Language:         language,
				Target:           target,
				Template:         template,
				ConfidenceBefore: confidence,
			})
			if err != nil {
				return fmt.Errorf("failed to record correction: %w", err)
			}

			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(),
				"Recorded %s: %q -> %s (%s)\n", record.ID, header, target, language)
			return nil
		},
	}

	cmd.Flags().StringVar(&header, "header", "", "raw header text as the user saw it")
	cmd.Flags().StringVar(&target, "target", "", "target column the user chose")
	cmd.Flags().StringVar(&template, "template", "", "export template tag")
	cmd.Flags().Float64Var(&confidence, "confidence", 0, "confidence the engine had proposed")
	_ = cmd.MarkFlagRequired("header")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}
