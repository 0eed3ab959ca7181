// pkg/normalizer/normalizer.go
package normalizer

import (
	"sort"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/catalogkit/colmatch/pkg/model"
)

// Normalizer canonicalizes raw header strings into comparable token form.
// The pack tables are guarded so overlay loading is safe against
// concurrent matching runs
type Normalizer struct {
	mu    sync.RWMutex
	packs map[model.Language]*Pack
}

// New creates a normalizer with the built-in packs for the seven
// supported languages
func New() *Normalizer {
	return &Normalizer{packs: builtinPacks()}
}

// Normalize converts a raw header into its canonical key for the given
// language. It is total: any input produces a stable key, and a header
// with no usable text produces the empty key. Languages without a
// built-in pack fall back to a language-agnostic token split
func (n *Normalizer) Normalize(header string, language model.Language) model.NormalizedKey {
	text := NormalizeText(header)
	if text == "" {
		return model.NormalizedKey{}
	}

	tokens := strings.Fields(text)
	n.mu.RLock()
	if pack, ok := n.packs[language]; ok {
		tokens = pack.apply(text, tokens)
	}
	n.mu.RUnlock()

	return buildKey(tokens)
}

// HasPack reports whether a synonym pack exists for the language
func (n *Normalizer) HasPack(language model.Language) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	_, ok := n.packs[language]
	return ok
}

// AliasesFor collects every synonym across all packs that canonicalizes
// to the given token, for use as lexical-scoring aliases of a target
// column. The result is sorted and duplicate-free
func (n *Normalizer) AliasesFor(canonical string) []string {
	canonical = NormalizeText(canonical)
	seen := make(map[string]struct{})
	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, pack := range n.packs {
		for synonym, target := range pack.Synonyms {
			if target == canonical {
				seen[synonym] = struct{}{}
			}
		}
		for phrase, targets := range pack.Phrases {
			if len(targets) == 1 && targets[0] == canonical {
				seen[phrase] = struct{}{}
			}
		}
	}

	aliases := make([]string, 0, len(seen))
	for alias := range seen {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

// apply maps normalized text through the pack: a whole-string phrase
// entry wins, otherwise tokens are mapped individually with stopwords
// removed. A header reduced to nothing keeps its raw tokens so novel
// or stopword-only headers still produce a stable key
func (p *Pack) apply(text string, tokens []string) []string {
	if canonical, ok := p.Phrases[text]; ok {
		return canonical
	}

	mapped := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if canonical, ok := p.Synonyms[token]; ok {
			mapped = append(mapped, canonical)
			continue
		}
		if _, stop := p.Stopwords[token]; stop {
			continue
		}
		if len([]rune(token)) < 2 {
			continue
		}
		mapped = append(mapped, token)
	}

	if len(mapped) == 0 {
		return tokens
	}
	return mapped
}

// buildKey assembles the key from canonical tokens: Tokens keeps the
// original order for overlap scoring, Canonical is the sorted unique
// form used for equality and store lookups
func buildKey(tokens []string) model.NormalizedKey {
	ordered := make([]string, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		ordered = append(ordered, token)
	}

	canonical := make([]string, len(ordered))
	copy(canonical, ordered)
	sort.Strings(canonical)

	return model.NormalizedKey{
		Canonical: strings.Join(canonical, " "),
		Tokens:    ordered,
	}
}

// NormalizeText lower-cases, strips diacritics, collapses punctuation
// and whitespace. Pure and idempotent: re-normalizing its own output is
// a no-op
func NormalizeText(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	// The transformer chain is built per call; a shared chain is not
	// safe for concurrent Reset
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(stripMarks, s); err == nil {
		s = stripped
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '/' || r == '_' || r == '-' || r == '.' || unicode.IsSpace(r):
			b.WriteRune(' ')
		}
		// Remaining punctuation and symbols are dropped
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
