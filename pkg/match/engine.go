// pkg/match/engine.go
package match

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/catalogkit/colmatch/pkg/classifier"
	"github.com/catalogkit/colmatch/pkg/model"
	"github.com/catalogkit/colmatch/pkg/scorer"
)

// Engine runs the full matching pipeline: normalization, scoring,
// one-to-one assignment and optional fallback classification
type Engine struct {
	scorer   *scorer.Scorer
	fallback classifier.Classifier // nil disables the fallback stage
	verifier *Verifier
	logger   *zap.Logger
	options  Options
}

// NewEngine creates a matching engine with default options. A nil
// fallback classifier disables the fallback stage entirely
func NewEngine(s *scorer.Scorer, fallback classifier.Classifier, logger *zap.Logger) *Engine {
	return &Engine{
		scorer:   s,
		fallback: fallback,
		verifier: NewVerifier(logger),
		logger:   logger,
		options:  DefaultOptions(),
	}
}

// WithOptions replaces the run options and returns the engine. The
// acceptance threshold is pushed down into the scorer so learned
// short-circuiting and assignment always agree on one threshold
func (e *Engine) WithOptions(opts Options) *Engine {
	e.options = opts
	e.scorer.WithThreshold(opts.AcceptThreshold)
	return e
}

// Match maps raw headers onto target columns for one catalog. The same
// inputs against the same store state always produce the same mapping.
// Invalid input returns an InputError and no partial result; everything
// downstream degrades to unmapped entries instead of failing the run
func (e *Engine) Match(ctx context.Context, rawHeaders []string, targets []model.TargetColumn, language model.Language) (*MatchResult, error) {
	if err := validateInput(rawHeaders, targets); err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	metrics := NewRunMetrics(runID, e.logger)
	errHandler := NewErrorHandler(e.logger)

	headers := make([]model.Header, len(rawHeaders))
	for i, text := range rawHeaders {
		headers[i] = model.Header{Position: i, Text: text}
	}

	e.logger.Info("Starting matching run",
		zap.String("runID", runID),
		zap.String("language", string(language)),
		zap.Int("headers", len(headers)),
		zap.Int("targets", len(targets)))

	scores := make([]headerScore, len(headers))
	for i, header := range headers {
		scores[i] = headerScore{
			header:     header,
			candidates: e.scorer.Score(ctx, header, language, targets),
		}
	}

	entries := assign(scores, e.options.AcceptThreshold)

	if e.fallback != nil {
		if unresolved := unmappedHeaders(entries); len(unresolved) > 0 {
			runFallback(ctx, e.fallback, unresolved, targets, entries,
				e.options, metrics, errHandler, e.logger)
		}
	}

	mapping := &model.ColumnMapping{
		RunID:    runID,
		Language: language,
		Entries:  entries,
	}

	metrics.Complete(mapping)
	report := e.verifier.VerifyMapping(mapping, headers, targets)
	if !report.Passed() {
		// One-to-one and completeness are enforced by construction;
		// a failing report here means an engine bug, not bad input
		errHandler.Record(NewErrorRecord(
			fmt.Errorf("mapping verification failed: %s", strings.Join(report.Violations, "; ")),
			ErrorCategoryAssignment))
	}

	return &MatchResult{
		Mapping:      mapping,
		Metrics:      metrics,
		Verification: report,
		Errors:       errHandler,
	}, nil
}

// validateInput rejects runs that cannot produce a meaningful mapping
func validateInput(headers []string, targets []model.TargetColumn) error {
	if len(headers) == 0 {
		return NewInputError("no headers provided")
	}
	if len(targets) == 0 {
		return NewInputError("no target columns provided")
	}
	seen := make(map[string]bool, len(targets))
	for _, t := range targets {
		if strings.TrimSpace(t.Name) == "" {
			return NewInputError("target column with empty name")
		}
		if seen[t.Name] {
			return NewInputError(fmt.Sprintf("duplicate target column %q", t.Name))
		}
		seen[t.Name] = true
	}
	return nil
}

// unmappedHeaders returns the non-blank headers still without a target
func unmappedHeaders(entries []model.MappingEntry) []model.Header {
	var headers []model.Header
	for _, e := range entries {
		if e.Unmapped() && !e.Header.IsBlank() {
			headers = append(headers, e.Header)
		}
	}
	return headers
}
