// pkg/scorer/scorer.go
package scorer

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/catalogkit/colmatch/pkg/model"
	"github.com/catalogkit/colmatch/pkg/normalizer"
	"github.com/catalogkit/colmatch/pkg/store"
)

// Config provides tuning knobs for candidate scoring
type Config struct {
	// Minimum confidence for a learned match to short-circuit lexical scoring
	AcceptThreshold float64
	// Baseline factor applied to lexical scores for languages without a pack
	UnknownLanguageFactor float64
	// Weights of the lexical similarity blend; should sum to 1
	DirectWeight float64
	KeyWeight    float64
	TokenWeight  float64
}

// DefaultConfig returns the default scoring configuration
func DefaultConfig() Config {
	return Config{
		AcceptThreshold:       0.6,
		UnknownLanguageFactor: 0.9,
		DirectWeight:          0.3,
		KeyWeight:             0.4,
		TokenWeight:           0.3,
	}
}

// Scorer turns one header into a ranked list of match candidates by
// combining pattern-store evidence with lexical similarity. It holds no
// mutable state and is safe for concurrent runs
type Scorer struct {
	normalizer *normalizer.Normalizer
	store      store.PatternStore
	logger     *zap.Logger
	config     Config
}

// NewScorer creates a scorer with the default configuration
func NewScorer(n *normalizer.Normalizer, patterns store.PatternStore, logger *zap.Logger) *Scorer {
	return &Scorer{
		normalizer: n,
		store:      patterns,
		logger:     logger,
		config:     DefaultConfig(),
	}
}

// WithConfig overrides the scoring configuration
func (s *Scorer) WithConfig(cfg Config) *Scorer {
	s.config = cfg
	return s
}

// WithThreshold sets the learned-evidence acceptance threshold. Callers
// that raise the run threshold must raise it here too, otherwise a
// mid-strength learned pattern would suppress lexical candidates that
// could still clear the run threshold
func (s *Scorer) WithThreshold(threshold float64) *Scorer {
	s.config.AcceptThreshold = threshold
	return s
}

// Score produces candidates for one header across the run's target
// columns, sorted by confidence descending, ties broken by evidence
// priority then target declaration order. Learned evidence dominates:
// when a reinforced pattern reaches the acceptance threshold, lexical
// scoring is skipped entirely
func (s *Scorer) Score(ctx context.Context, header model.Header, language model.Language, targets []model.TargetColumn) []model.MatchCandidate {
	if header.IsBlank() {
		candidates := make([]model.MatchCandidate, 0, len(targets))
		for _, target := range targets {
			candidates = append(candidates, model.MatchCandidate{
				Target:     target.Name,
				Confidence: 0,
				Evidence:   model.EvidenceNone,
			})
		}
		return candidates
	}

	key := s.normalizer.Normalize(header.Text, language)

	learned := s.learnedCandidates(ctx, key, targets)
	if best := bestConfidence(learned); best >= s.config.AcceptThreshold {
		s.rank(learned, targets)
		return learned
	}

	candidates := append(learned, s.lexicalCandidates(header.Text, key, language, targets)...)
	s.rank(candidates, targets)
	return candidates
}

// learnedCandidates converts pattern-store evidence for the exact key
// into candidates, restricted to the run's target set
func (s *Scorer) learnedCandidates(ctx context.Context, key model.NormalizedKey, targets []model.TargetColumn) []model.MatchCandidate {
	if key.IsEmpty() {
		return nil
	}

	patterns, err := s.store.Lookup(ctx, key.Canonical)
	if err != nil {
		// A failed read degrades to lexical evidence; it must not abort the run
		s.logger.Warn("Pattern store lookup failed",
			zap.String("key", key.Canonical),
			zap.Error(err))
		return nil
	}

	known := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		known[target.Name] = struct{}{}
	}

	var candidates []model.MatchCandidate
	for _, pattern := range patterns {
		if _, ok := known[pattern.TargetColumn]; !ok {
			continue
		}
		candidates = append(candidates, model.MatchCandidate{
			Target:     pattern.TargetColumn,
			Confidence: PatternConfidence(pattern.Frequency),
			Evidence:   model.EvidenceLearned,
		})
	}
	return candidates
}

// lexicalCandidates scores the header against every target's name and
// alias set. Targets with a known built-in vocabulary get that
// vocabulary merged in; the best alias wins per target
func (s *Scorer) lexicalCandidates(text string, key model.NormalizedKey, language model.Language, targets []model.TargetColumn) []model.MatchCandidate {
	headerText := normalizer.NormalizeText(text)

	factor := 1.0
	if !s.normalizer.HasPack(language) {
		factor = s.config.UnknownLanguageFactor
	}

	candidates := make([]model.MatchCandidate, 0, len(targets))
	for _, target := range targets {
		best := 0.0
		for _, alias := range s.targetAliases(target) {
			if score := s.similarity(headerText, key, alias, language); score > best {
				best = score
			}
		}
		candidates = append(candidates, model.MatchCandidate{
			Target:     target.Name,
			Confidence: clamp01(best * factor),
			Evidence:   model.EvidenceNormalized,
		})
	}
	return candidates
}

// targetAliases merges the target name, caller-supplied aliases and the
// multilingual synonym vocabulary for the canonical name
func (s *Scorer) targetAliases(target model.TargetColumn) []string {
	aliases := make([]string, 0, 1+len(target.Aliases))
	aliases = append(aliases, target.Name)
	aliases = append(aliases, target.Aliases...)
	aliases = append(aliases, s.normalizer.AliasesFor(target.Name)...)
	return aliases
}

// rank orders candidates by confidence descending, evidence priority,
// then target declaration order
func (s *Scorer) rank(candidates []model.MatchCandidate, targets []model.TargetColumn) {
	order := make(map[string]int, len(targets))
	for i, target := range targets {
		order[target.Name] = i
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Confidence != candidates[j].Confidence {
			return candidates[i].Confidence > candidates[j].Confidence
		}
		if pi, pj := candidates[i].Evidence.Priority(), candidates[j].Evidence.Priority(); pi != pj {
			return pi > pj
		}
		return order[candidates[i].Target] < order[candidates[j].Target]
	})
}

func bestConfidence(candidates []model.MatchCandidate) float64 {
	best := 0.0
	for _, c := range candidates {
		if c.Confidence > best {
			best = c.Confidence
		}
	}
	return best
}
