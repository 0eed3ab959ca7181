// cmd/colmatch/match.go
package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/catalogkit/colmatch/pkg/classifier"
	"github.com/catalogkit/colmatch/pkg/match"
	"github.com/catalogkit/colmatch/pkg/model"
	"github.com/catalogkit/colmatch/pkg/scorer"
)

func newMatchCommand(flags *rootFlags) *cobra.Command {
	var (
		headersArg string
		targetsArg string
		threshold  float64
		noFallback bool
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Map a list of headers onto target columns",
		Example: `  colmatch match --headers "Réf.,Désignation,Prix HT" \
      --targets reference,description,price --lang fr`,
		RunE: func(cmd *cobra.Command, args []string) error {
			headers := splitList(headersArg)
			targets := parseTargets(targetsArg)
			if len(headers) == 0 {
				return fmt.Errorf("--headers is required")
			}
			if len(targets) == 0 {
				return fmt.Errorf("--targets is required")
			}

			app, cleanup, err := setup(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer cleanup()

			var fallback classifier.Classifier
			if app.cfg.Fallback.Enabled && !noFallback {
				fb, err := classifier.NewOpenAIClassifier(app.cfg.Fallback, app.logger)
				if err != nil {
					return fmt.Errorf("failed to create fallback classifier: %w", err)
				}
				fallback = fb
			}

			if threshold <= 0 {
				threshold = app.cfg.AcceptThreshold
			}
			opts := match.DefaultOptions().
				WithThreshold(threshold).
				WithFallbackWorkers(app.cfg.FallbackWorkers).
				WithFallbackTimeout(app.cfg.Fallback.Timeout).
				WithCriticalTargets(app.cfg.Fallback.CriticalTargets)

			s := scorer.NewScorer(app.normalizer, app.store, app.logger)
			engine := match.NewEngine(s, fallback, app.logger).WithOptions(opts)

			language := model.ParseLanguage(flags.language)
			if flags.language == "" {
				language = model.ParseLanguage(app.cfg.DefaultLanguage)
			}

			result, err := engine.Match(cmd.Context(), headers, targets, language)
			if err != nil {
				return err
			}

			if asJSON {
				return printMappingJSON(cmd, result)
			}
			printMappingTable(cmd, result)

			if !result.Verification.Passed() {
				app.logger.Error("Mapping failed verification",
					zap.Strings("violations", result.Verification.Violations))
				return fmt.Errorf("%s", result.Verification.Summary())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&headersArg, "headers", "", "comma-separated raw headers")
	cmd.Flags().StringVar(&targetsArg, "targets", "", "comma-separated target columns, aliases after '=' separated by '|'")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "acceptance threshold override")
	cmd.Flags().BoolVar(&noFallback, "no-fallback", false, "disable the fallback classifier for this run")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the mapping as JSON")

	return cmd
}

// splitList splits a comma-separated argument, trimming whitespace and
// keeping empty entries: a blank header is still a column
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// parseTargets parses "name" or "name=alias|alias" entries
func parseTargets(s string) []model.TargetColumn {
	var targets []model.TargetColumn
	for _, part := range splitList(s) {
		if part == "" {
			continue
		}
		name, aliasPart, found := strings.Cut(part, "=")
		target := model.TargetColumn{Name: strings.TrimSpace(name)}
		if found {
			for _, alias := range strings.Split(aliasPart, "|") {
				if alias = strings.TrimSpace(alias); alias != "" {
					target.Aliases = append(target.Aliases, alias)
				}
			}
		}
		targets = append(targets, target)
	}
	return targets
}

func printMappingTable(cmd *cobra.Command, result *match.MatchResult) {
	out := cmd.OutOrStdout()

	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)
	bold := color.New(color.Bold)

	bold.Fprintf(out, "Run %s (%s)\n\n", result.Mapping.RunID, result.Mapping.Language)

	for _, entry := range result.Mapping.Entries {
		headerText := entry.Header.Text
		if strings.TrimSpace(headerText) == "" {
			headerText = "(blank)"
		}

		if entry.Unmapped() {
			red.Fprintf(out, "  %2d  %-30s -> (unmapped)\n", entry.Header.Position, headerText)
			continue
		}

		painter := cyan
		switch entry.Evidence {
		case model.EvidenceLearned:
			painter = green
		case model.EvidenceFallback:
			painter = yellow
		}
		painter.Fprintf(out, "  %2d  %-30s -> %-20s %.2f  [%s]\n",
			entry.Header.Position, headerText, entry.Target, entry.Confidence, entry.Evidence)
	}

	fmt.Fprintf(out, "\n%d assigned, %d unmapped, %s\n",
		result.Mapping.AssignedCount(),
		result.Mapping.UnmappedCount(),
		result.Metrics.Duration().Round(time.Millisecond))
}

// mappingJSON is the machine-readable output shape of the match command
type mappingJSON struct {
	RunID    string         `json:"runId"`
	Language model.Language `json:"language"`
	Entries  []entryJSON    `json:"entries"`
	Verified bool           `json:"verified"`
}

type entryJSON struct {
	Position   int     `json:"position"`
	Header     string  `json:"header"`
	Target     string  `json:"target,omitempty"`
	Confidence float64 `json:"confidence"`
	Evidence   string  `json:"evidence"`
}

func printMappingJSON(cmd *cobra.Command, result *match.MatchResult) error {
	out := mappingJSON{
		RunID:    result.Mapping.RunID,
		Language: result.Mapping.Language,
		Verified: result.Verification.Passed(),
	}
	for _, entry := range result.Mapping.Entries {
		out.Entries = append(out.Entries, entryJSON{
			Position:   entry.Header.Position,
			Header:     entry.Header.Text,
			Target:     entry.Target,
			Confidence: entry.Confidence,
			Evidence:   string(entry.Evidence),
		})
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode mapping: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	return nil
}
