// pkg/model/model.go
package model

import "strings"

// Language identifies the synonym pack used to normalize headers
type Language string

// Languages with a built-in synonym pack
const (
	LanguageFrench     Language = "fr"
	LanguageEnglish    Language = "en"
	LanguageItalian    Language = "it"
	LanguageSpanish    Language = "es"
	LanguageGerman     Language = "de"
	LanguagePortuguese Language = "pt"
	LanguageDutch      Language = "nl"
)

// KnownLanguages returns every language with a built-in pack, in pack order
func KnownLanguages() []Language {
	return []Language{
		LanguageFrench,
		LanguageEnglish,
		LanguageItalian,
		LanguageSpanish,
		LanguageGerman,
		LanguagePortuguese,
		LanguageDutch,
	}
}

// Known reports whether the language has a built-in synonym pack
func (l Language) Known() bool {
	switch l {
	case LanguageFrench, LanguageEnglish, LanguageItalian, LanguageSpanish,
		LanguageGerman, LanguagePortuguese, LanguageDutch:
		return true
	}
	return false
}

// ParseLanguage normalizes a language tag to its base form
// ("FR", "fr-FR" and "fr_FR" all parse to LanguageFrench). Tags outside
// the built-in packs are passed through lower-cased; callers treat them
// as unknown languages
func ParseLanguage(tag string) Language {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_"); i > 0 {
		tag = tag[:i]
	}
	return Language(tag)
}

// EvidenceSource identifies which mechanism produced a candidate match
type EvidenceSource string

// Evidence sources in dominance order
const (
	EvidenceLearned    EvidenceSource = "learned"    // reinforced pattern from past corrections
	EvidenceNormalized EvidenceSource = "normalized" // lexical similarity over normalized forms
	EvidenceFallback   EvidenceSource = "fallback"   // external classifier
	EvidenceNone       EvidenceSource = "none"       // header left unmapped
)

// Priority ranks evidence sources for tie-breaking; higher wins
func (e EvidenceSource) Priority() int {
	switch e {
	case EvidenceLearned:
		return 3
	case EvidenceNormalized:
		return 2
	case EvidenceFallback:
		return 1
	default:
		return 0
	}
}

// Header is one raw column name from a catalog, scoped to a single run
type Header struct {
	Position int    // Zero-based column position in the source file
	Text     string // Raw header text as parsed
}

// IsBlank reports whether the header carries no usable text
func (h Header) IsBlank() bool {
	return strings.TrimSpace(h.Text) == ""
}

// NormalizedKey is the canonical, language-aware token form of a header.
// Canonical is the equality key used for pattern lookup; Tokens keep the
// original order for partial-overlap scoring
type NormalizedKey struct {
	Canonical string   // Sorted unique canonical tokens joined by single spaces
	Tokens    []string // Canonical tokens in original header order
}

// IsEmpty reports whether normalization produced no usable tokens
func (k NormalizedKey) IsEmpty() bool {
	return k.Canonical == ""
}

// Equal compares two keys by their canonical form; token order is irrelevant
func (k NormalizedKey) Equal(other NormalizedKey) bool {
	return k.Canonical == other.Canonical
}

// TargetColumn is one canonical output slot for a matching run
type TargetColumn struct {
	Name    string   // Canonical column name (e.g. "reference")
	Aliases []string // Extra alias spellings merged into lexical scoring
}

// MatchCandidate is one scored proposal for a header, transient per run
type MatchCandidate struct {
	Target     string         // Proposed target column name
	Confidence float64        // Correctness likelihood in [0,1]
	Evidence   EvidenceSource // Mechanism that produced the proposal
}

// MappingEntry is the final decision for a single header
type MappingEntry struct {
	Header     Header         // The source header, with its position
	Target     string         // Assigned target column; empty when unmapped
	Confidence float64        // Confidence of the accepted candidate
	Evidence   EvidenceSource // EvidenceNone for unmapped entries
}

// Unmapped reports whether the header ended the run without an assignment
func (e MappingEntry) Unmapped() bool {
	return e.Target == ""
}

// ColumnMapping is the output of one matching run: one entry per input
// header, in input order, with unmapped headers represented explicitly
type ColumnMapping struct {
	RunID    string         // Unique run identifier
	Language Language       // Language pack used for the run
	Entries  []MappingEntry // One entry per header, input order preserved
}

// AssignedCount returns the number of headers that received a target
func (m *ColumnMapping) AssignedCount() int {
	n := 0
	for _, e := range m.Entries {
		if !e.Unmapped() {
			n++
		}
	}
	return n
}

// UnmappedCount returns the number of headers left without a target
func (m *ColumnMapping) UnmappedCount() int {
	return len(m.Entries) - m.AssignedCount()
}

// TargetsInUse returns how many entries claim each target column.
// A well-formed mapping never has a count above 1
func (m *ColumnMapping) TargetsInUse() map[string]int {
	counts := make(map[string]int)
	for _, e := range m.Entries {
		if !e.Unmapped() {
			counts[e.Target]++
		}
	}
	return counts
}

// EntryFor returns the entry for a header position, or nil if out of range
func (m *ColumnMapping) EntryFor(position int) *MappingEntry {
	for i := range m.Entries {
		if m.Entries[i].Header.Position == position {
			return &m.Entries[i]
		}
	}
	return nil
}
