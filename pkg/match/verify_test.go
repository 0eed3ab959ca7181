// pkg/match/verify_test.go
package match

import (
	"testing"

	"go.uber.org/zap"

	"github.com/catalogkit/colmatch/pkg/model"
)

func TestVerifyMappingPasses(t *testing.T) {
	headers := []model.Header{
		{Position: 0, Text: "Réf."},
		{Position: 1, Text: ""},
	}
	mapping := &model.ColumnMapping{
		RunID:    "run-1",
		Language: model.LanguageFrench,
		Entries: []model.MappingEntry{
			{Header: headers[0], Target: "reference", Confidence: 0.8, Evidence: model.EvidenceNormalized},
			{Header: headers[1], Evidence: model.EvidenceNone},
		},
	}

	report := NewVerifier(zap.NewNop()).VerifyMapping(mapping, headers,
		[]model.TargetColumn{{Name: "reference"}, {Name: "price"}})

	if !report.Passed() {
		t.Fatalf("violations: %v", report.Violations)
	}
	if report.Assigned != 1 || report.Unmapped != 1 {
		t.Errorf("report = %+v, want 1 assigned 1 unmapped", report)
	}
}

func TestVerifyMappingViolations(t *testing.T) {
	headers := []model.Header{
		{Position: 0, Text: "a"},
		{Position: 1, Text: "b"},
	}
	mapping := &model.ColumnMapping{
		RunID: "run-2",
		Entries: []model.MappingEntry{
			// Undeclared target claimed twice, one confidence out of range
			{Header: headers[0], Target: "price", Confidence: 1.2, Evidence: model.EvidenceNormalized},
			{Header: headers[1], Target: "price", Confidence: 0.7, Evidence: model.EvidenceNormalized},
		},
	}

	report := NewVerifier(zap.NewNop()).VerifyMapping(mapping, headers,
		[]model.TargetColumn{{Name: "reference"}})

	if report.Passed() {
		t.Fatal("double assignment, unknown target and confidence 1.2 must all fail")
	}
	if len(report.Violations) < 3 {
		t.Errorf("violations = %v, want at least 3", report.Violations)
	}
}

func TestVerifyMappingMissingEntry(t *testing.T) {
	headers := []model.Header{
		{Position: 0, Text: "a"},
		{Position: 1, Text: "b"},
	}
	mapping := &model.ColumnMapping{
		RunID: "run-3",
		Entries: []model.MappingEntry{
			{Header: headers[0], Evidence: model.EvidenceNone},
		},
	}

	report := NewVerifier(zap.NewNop()).VerifyMapping(mapping, headers, catalogTargets())
	if report.Passed() {
		t.Fatal("missing entry for header 1 must fail verification")
	}
}
