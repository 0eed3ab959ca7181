// pkg/scorer/similarity.go
package scorer

import (
	"github.com/agnivade/levenshtein"

	"github.com/catalogkit/colmatch/pkg/model"
	"github.com/catalogkit/colmatch/pkg/normalizer"
)

// PatternConfidence is the saturating transform from reinforcement
// frequency to confidence. One confirmation starts at 0.55, two reach
// the default acceptance threshold, and repeated confirmations approach
// but never claim certainty
func PatternConfidence(frequency int64) float64 {
	if frequency < 1 {
		return 0
	}
	confidence := 0.5 + 0.05*float64(frequency)
	if confidence > 0.95 {
		confidence = 0.95
	}
	return confidence
}

// similarity is the weighted lexical blend between a header and one
// target alias: whole-string ratio over the normalized texts, the same
// ratio over the canonical keys, and token-set Jaccard overlap
func (s *Scorer) similarity(headerText string, headerKey model.NormalizedKey, alias string, language model.Language) float64 {
	aliasText := normalizer.NormalizeText(alias)
	aliasKey := s.normalizer.Normalize(alias, language)

	direct := stringRatio(headerText, aliasText)
	semantic := stringRatio(headerKey.Canonical, aliasKey.Canonical)
	keyword := jaccard(headerKey.Tokens, aliasKey.Tokens)

	score := s.config.DirectWeight*direct +
		s.config.KeyWeight*semantic +
		s.config.TokenWeight*keyword

	return clamp01(score)
}

// stringRatio converts Levenshtein distance to a similarity in [0,1]
func stringRatio(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}

	distance := levenshtein.ComputeDistance(a, b)
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	return 1 - float64(distance)/float64(longest)
}

// jaccard is token-set overlap: intersection over union
func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(a))
	for _, token := range a {
		setA[token] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, token := range b {
		setB[token] = struct{}{}
	}

	intersection := 0
	for token := range setA {
		if _, ok := setB[token]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
