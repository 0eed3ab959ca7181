// pkg/model/model_test.go
package model

import "testing"

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		want Language
	}{
		{name: "plain lower", tag: "fr", want: LanguageFrench},
		{name: "upper case", tag: "FR", want: LanguageFrench},
		{name: "bcp47 region", tag: "fr-FR", want: LanguageFrench},
		{name: "posix locale", tag: "pt_BR", want: LanguagePortuguese},
		{name: "surrounding space", tag: "  de ", want: LanguageGerman},
		{name: "unknown tag", tag: "sv", want: Language("sv")},
		{name: "empty", tag: "", want: Language("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLanguage(tt.tag); got != tt.want {
				t.Errorf("ParseLanguage(%q) = %q, want %q", tt.tag, got, tt.want)
			}
		})
	}
}

func TestLanguageKnown(t *testing.T) {
	for _, lang := range KnownLanguages() {
		if !lang.Known() {
			t.Errorf("language %q should be known", lang)
		}
	}
	if Language("sv").Known() {
		t.Error("language sv should not be known")
	}
	if Language("").Known() {
		t.Error("empty language should not be known")
	}
}

func TestEvidencePriority(t *testing.T) {
	if EvidenceLearned.Priority() <= EvidenceNormalized.Priority() {
		t.Error("learned evidence must outrank normalized")
	}
	if EvidenceNormalized.Priority() <= EvidenceFallback.Priority() {
		t.Error("normalized evidence must outrank fallback")
	}
	if EvidenceFallback.Priority() <= EvidenceNone.Priority() {
		t.Error("fallback evidence must outrank none")
	}
}

func TestHeaderIsBlank(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{text: "", want: true},
		{text: "   ", want: true},
		{text: "\t\n", want: true},
		{text: "Prix", want: false},
		{text: " Réf. ", want: false},
	}

	for _, tt := range tests {
		h := Header{Position: 0, Text: tt.text}
		if got := h.IsBlank(); got != tt.want {
			t.Errorf("IsBlank(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestColumnMappingCounts(t *testing.T) {
	m := &ColumnMapping{
		Language: LanguageFrench,
		Entries: []MappingEntry{
			{Header: Header{Position: 0, Text: "Réf."}, Target: "reference", Confidence: 0.8, Evidence: EvidenceNormalized},
			{Header: Header{Position: 1, Text: "???"}, Evidence: EvidenceNone},
			{Header: Header{Position: 2, Text: "Prix"}, Target: "price", Confidence: 0.9, Evidence: EvidenceLearned},
		},
	}

	if got := m.AssignedCount(); got != 2 {
		t.Errorf("AssignedCount() = %d, want 2", got)
	}
	if got := m.UnmappedCount(); got != 1 {
		t.Errorf("UnmappedCount() = %d, want 1", got)
	}

	counts := m.TargetsInUse()
	if counts["reference"] != 1 || counts["price"] != 1 {
		t.Errorf("TargetsInUse() = %v, want reference and price once each", counts)
	}
	if _, ok := counts[""]; ok {
		t.Error("TargetsInUse() must not count unmapped entries")
	}

	entry := m.EntryFor(1)
	if entry == nil || !entry.Unmapped() {
		t.Errorf("EntryFor(1) = %+v, want unmapped entry", entry)
	}
	if m.EntryFor(9) != nil {
		t.Error("EntryFor(9) should be nil for unknown position")
	}
}

func TestNewCorrectionRecord(t *testing.T) {
	rec := NewCorrectionRecord("Prix HT", LanguageFrench, "price", "catalogue-v2", 0.42)

	if rec.ID == "" {
		t.Error("record ID must be set")
	}
	if rec.RecordedAt.IsZero() {
		t.Error("record timestamp must be set")
	}
	if rec.SourceHeader != "Prix HT" || rec.TargetColumn != "price" {
		t.Errorf("record fields not preserved: %+v", rec)
	}
	if rec.ConfidenceBefore != 0.42 {
		t.Errorf("ConfidenceBefore = %v, want 0.42", rec.ConfidenceBefore)
	}

	other := NewCorrectionRecord("Prix HT", LanguageFrench, "price", "catalogue-v2", 0.42)
	if other.ID == rec.ID {
		t.Error("record IDs must be unique per event")
	}
}
