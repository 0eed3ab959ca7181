// pkg/match/verify.go
package match

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/catalogkit/colmatch/pkg/model"
)

// Verifier checks a finished mapping against the structural invariants
type Verifier struct {
	logger *zap.Logger
}

// NewVerifier creates a mapping verifier
func NewVerifier(logger *zap.Logger) *Verifier {
	return &Verifier{logger: logger}
}

// VerificationReport captures the outcome of the post-run checks
type VerificationReport struct {
	RunID      string
	Entries    int
	Assigned   int
	Unmapped   int
	Violations []string
}

// Passed reports whether every check held
func (r *VerificationReport) Passed() bool {
	return len(r.Violations) == 0
}

// Summary returns a one-line verdict for logs and CLI output
func (r *VerificationReport) Summary() string {
	if r.Passed() {
		return fmt.Sprintf("verification passed: %d entries, %d assigned, %d unmapped",
			r.Entries, r.Assigned, r.Unmapped)
	}
	return fmt.Sprintf("verification failed: %d violation(s): %s",
		len(r.Violations), strings.Join(r.Violations, "; "))
}

// VerifyMapping checks one-to-one target use, entry completeness,
// confidence bounds and target validity. Violations are collected, not
// fatal; callers decide whether to reject the mapping
func (v *Verifier) VerifyMapping(mapping *model.ColumnMapping, headers []model.Header, targets []model.TargetColumn) *VerificationReport {
	report := &VerificationReport{
		RunID:    mapping.RunID,
		Entries:  len(mapping.Entries),
		Assigned: mapping.AssignedCount(),
		Unmapped: mapping.UnmappedCount(),
	}

	if len(mapping.Entries) != len(headers) {
		report.Violations = append(report.Violations,
			fmt.Sprintf("entry count %d does not match header count %d", len(mapping.Entries), len(headers)))
	}
	for _, h := range headers {
		if mapping.EntryFor(h.Position) == nil {
			report.Violations = append(report.Violations,
				fmt.Sprintf("header %d (%q) has no entry", h.Position, h.Text))
		}
	}

	known := make(map[string]bool, len(targets))
	for _, t := range targets {
		known[t.Name] = true
	}

	for target, count := range mapping.TargetsInUse() {
		if count > 1 {
			report.Violations = append(report.Violations,
				fmt.Sprintf("target %q assigned to %d headers", target, count))
		}
		if !known[target] {
			report.Violations = append(report.Violations,
				fmt.Sprintf("target %q is not a declared target column", target))
		}
	}

	for _, e := range mapping.Entries {
		if e.Confidence < 0 || e.Confidence > 1 {
			report.Violations = append(report.Violations,
				fmt.Sprintf("entry %d confidence %.4f out of range", e.Header.Position, e.Confidence))
		}
		if e.Unmapped() && e.Evidence != model.EvidenceNone {
			report.Violations = append(report.Violations,
				fmt.Sprintf("entry %d unmapped but carries evidence %q", e.Header.Position, e.Evidence))
		}
		if !e.Unmapped() && e.Evidence == model.EvidenceNone {
			report.Violations = append(report.Violations,
				fmt.Sprintf("entry %d assigned to %q without evidence", e.Header.Position, e.Target))
		}
	}

	if report.Passed() {
		v.logger.Info("Mapping verification passed",
			zap.String("runID", mapping.RunID),
			zap.Int("assigned", report.Assigned),
			zap.Int("unmapped", report.Unmapped))
	} else {
		v.logger.Error("Mapping verification failed",
			zap.String("runID", mapping.RunID),
			zap.Strings("violations", report.Violations))
	}

	return report
}
