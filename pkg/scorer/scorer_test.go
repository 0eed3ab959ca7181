// pkg/scorer/scorer_test.go
package scorer

import (
	"context"
	"errors"
	"math"
	"testing"

	"go.uber.org/zap"

	"github.com/catalogkit/colmatch/pkg/model"
	"github.com/catalogkit/colmatch/pkg/normalizer"
	"github.com/catalogkit/colmatch/pkg/store"
)

// fakePatternStore lets tests script lookup behavior
type fakePatternStore struct {
	store.PatternStore
	lookupFunc func(ctx context.Context, key string) ([]model.LearnedPattern, error)
}

func (f *fakePatternStore) Lookup(ctx context.Context, key string) ([]model.LearnedPattern, error) {
	return f.lookupFunc(ctx, key)
}

func frTargets() []model.TargetColumn {
	return []model.TargetColumn{
		{Name: "reference"},
		{Name: "description"},
		{Name: "price"},
	}
}

func TestPatternConfidence(t *testing.T) {
	tests := []struct {
		frequency int64
		want      float64
	}{
		{frequency: 0, want: 0},
		{frequency: 1, want: 0.55},
		{frequency: 2, want: 0.6},
		{frequency: 3, want: 0.65},
		{frequency: 9, want: 0.95},
		{frequency: 100, want: 0.95},
	}

	for _, tt := range tests {
		if got := PatternConfidence(tt.frequency); !almostEqual(got, tt.want) {
			t.Errorf("PatternConfidence(%d) = %v, want %v", tt.frequency, got, tt.want)
		}
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScoreLexicalFrenchScenario(t *testing.T) {
	n := normalizer.New()
	s := NewScorer(n, store.NewMemoryStore(), zap.NewNop())

	headers := map[string]string{
		"Réf.":        "reference",
		"Désignation": "description",
		"Prix HT":     "price",
	}

	for text, wantTarget := range headers {
		candidates := s.Score(context.Background(), model.Header{Text: text}, model.LanguageFrench, frTargets())
		if len(candidates) == 0 {
			t.Fatalf("Score(%q) returned no candidates", text)
		}
		best := candidates[0]
		if best.Target != wantTarget {
			t.Errorf("Score(%q) best = %q, want %q", text, best.Target, wantTarget)
		}
		if best.Evidence != model.EvidenceNormalized {
			t.Errorf("Score(%q) evidence = %q, want normalized", text, best.Evidence)
		}
		if best.Confidence < 0.6 {
			t.Errorf("Score(%q) confidence = %v, want >= 0.6", text, best.Confidence)
		}
	}
}

func TestScoreLearnedDominates(t *testing.T) {
	ctx := context.Background()
	n := normalizer.New()
	mem := store.NewMemoryStore()
	s := NewScorer(n, mem, zap.NewNop())

	key := n.Normalize("Réf.", model.LanguageFrench)
	for i := 0; i < 3; i++ {
		if err := mem.Reinforce(ctx, key.Canonical, "reference"); err != nil {
			t.Fatalf("Reinforce: %v", err)
		}
	}

	candidates := s.Score(ctx, model.Header{Text: "Réf."}, model.LanguageFrench, frTargets())
	best := candidates[0]
	if best.Evidence != model.EvidenceLearned {
		t.Fatalf("best evidence = %q, want learned", best.Evidence)
	}
	if best.Target != "reference" {
		t.Errorf("best target = %q, want reference", best.Target)
	}
	if !almostEqual(best.Confidence, 0.65) {
		t.Errorf("confidence after 3 reinforcements = %v, want 0.65", best.Confidence)
	}

	// Learned evidence at threshold short-circuits lexical scoring
	for _, c := range candidates {
		if c.Evidence == model.EvidenceNormalized {
			t.Errorf("lexical candidate %+v present despite accepted learned match", c)
		}
	}
}

func TestScoreLearnedBelowThresholdFallsThrough(t *testing.T) {
	ctx := context.Background()
	n := normalizer.New()
	mem := store.NewMemoryStore()
	s := NewScorer(n, mem, zap.NewNop())

	// One reinforcement gives 0.55, below the 0.6 threshold
	key := n.Normalize("Réf.", model.LanguageFrench)
	if err := mem.Reinforce(ctx, key.Canonical, "reference"); err != nil {
		t.Fatalf("Reinforce: %v", err)
	}

	candidates := s.Score(ctx, model.Header{Text: "Réf."}, model.LanguageFrench, frTargets())

	sawLearned, sawNormalized := false, false
	for _, c := range candidates {
		switch c.Evidence {
		case model.EvidenceLearned:
			sawLearned = true
		case model.EvidenceNormalized:
			sawNormalized = true
		}
	}
	if !sawLearned || !sawNormalized {
		t.Errorf("want both learned and lexical candidates, got %+v", candidates)
	}
}

func TestScoreBlankHeader(t *testing.T) {
	s := NewScorer(normalizer.New(), store.NewMemoryStore(), zap.NewNop())

	candidates := s.Score(context.Background(), model.Header{Text: "   "}, model.LanguageFrench, frTargets())
	if len(candidates) != len(frTargets()) {
		t.Fatalf("got %d candidates, want one per target", len(candidates))
	}
	for _, c := range candidates {
		if c.Confidence != 0 || c.Evidence != model.EvidenceNone {
			t.Errorf("blank header candidate = %+v, want confidence 0 evidence none", c)
		}
	}
}

func TestScoreUnknownLanguageLowerBaseline(t *testing.T) {
	n := normalizer.New()
	s := NewScorer(n, store.NewMemoryStore(), zap.NewNop())
	targets := []model.TargetColumn{{Name: "price"}}
	header := model.Header{Text: "Price"}

	known := s.Score(context.Background(), header, model.LanguageEnglish, targets)[0]
	unknown := s.Score(context.Background(), header, model.Language("sv"), targets)[0]

	if unknown.Confidence >= known.Confidence {
		t.Errorf("unknown-language confidence %v should be below known-language %v",
			unknown.Confidence, known.Confidence)
	}
	if unknown.Confidence == 0 {
		t.Error("unknown language should still score lexically")
	}
}

func TestScoreCallerAliases(t *testing.T) {
	s := NewScorer(normalizer.New(), store.NewMemoryStore(), zap.NewNop())

	plain := s.Score(context.Background(), model.Header{Text: "Garantie"}, model.LanguageFrench,
		[]model.TargetColumn{{Name: "warranty"}})[0]
	aliased := s.Score(context.Background(), model.Header{Text: "Garantie"}, model.LanguageFrench,
		[]model.TargetColumn{{Name: "warranty", Aliases: []string{"garantie"}}})[0]

	if aliased.Confidence <= plain.Confidence {
		t.Errorf("caller alias should raise confidence: %v <= %v", aliased.Confidence, plain.Confidence)
	}
}

func TestScoreStoreFailureDegradesToLexical(t *testing.T) {
	failing := &fakePatternStore{
		lookupFunc: func(ctx context.Context, key string) ([]model.LearnedPattern, error) {
			return nil, errors.New("store offline")
		},
	}
	s := NewScorer(normalizer.New(), failing, zap.NewNop())

	candidates := s.Score(context.Background(), model.Header{Text: "Prix"}, model.LanguageFrench, frTargets())
	if len(candidates) == 0 {
		t.Fatal("store failure must not suppress lexical candidates")
	}
	if candidates[0].Target != "price" || candidates[0].Evidence != model.EvidenceNormalized {
		t.Errorf("best candidate = %+v, want lexical price match", candidates[0])
	}
}

func TestStringRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{a: "price", b: "price", want: 1},
		{a: "", b: "", want: 1},
		{a: "price", b: "", want: 0},
		{a: "prix", b: "price", want: 0.6},
	}

	for _, tt := range tests {
		if got := stringRatio(tt.a, tt.b); !almostEqual(got, tt.want) {
			t.Errorf("stringRatio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want float64
	}{
		{name: "identical", a: []string{"price", "unit"}, b: []string{"unit", "price"}, want: 1},
		{name: "half overlap", a: []string{"price", "unit"}, b: []string{"price", "web"}, want: 1.0 / 3.0},
		{name: "disjoint", a: []string{"price"}, b: []string{"color"}, want: 0},
		{name: "empty side", a: nil, b: []string{"price"}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := jaccard(tt.a, tt.b); !almostEqual(got, tt.want) {
				t.Errorf("jaccard = %v, want %v", got, tt.want)
			}
		})
	}
}
