// pkg/model/pattern.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// LearnedPattern is a persisted, frequency-weighted association between a
// normalized header key and a target column
type LearnedPattern struct {
	SourceKey    string    // Canonical normalized key of the source header
	TargetColumn string    // Target column the key was confirmed to map to
	Frequency    int64     // Reinforcement count, always >= 1
	LastUsed     time.Time // Refreshed on every reinforcing observation
}

// CorrectionRecord is one immutable feedback event: a user accepted or
// corrected a proposed mapping. Records are append-only and never mutated
type CorrectionRecord struct {
	ID               string    // Unique record identifier
	RecordedAt       time.Time // When the correction was recorded
	SourceHeader     string    // Raw header text as the user saw it
	Language         Language  // Language pack active for the run
	TargetColumn     string    // Target column the user chose
	Template         string    // Export template in use (opaque caller tag)
	ConfidenceBefore float64   // Confidence the engine proposed before the fix
}

// NewCorrectionRecord stamps a correction event with an ID and timestamp
func NewCorrectionRecord(header string, lang Language, target, template string, confidenceBefore float64) CorrectionRecord {
	return CorrectionRecord{
		ID:               uuid.New().String(),
		RecordedAt:       time.Now().UTC(),
		SourceHeader:     header,
		Language:         lang,
		TargetColumn:     target,
		Template:         template,
		ConfidenceBefore: confidenceBefore,
	}
}
