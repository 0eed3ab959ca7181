// pkg/learning/recorder.go
package learning

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/catalogkit/colmatch/pkg/model"
	"github.com/catalogkit/colmatch/pkg/normalizer"
	"github.com/catalogkit/colmatch/pkg/store"
)

// Recorder is the single write path into the learning state: every
// accepted or corrected mapping goes through Record, which appends the
// immutable correction event and reinforces the learned pattern in the
// same call
type Recorder struct {
	normalizer *normalizer.Normalizer
	store      store.Store
	logger     *zap.Logger
}

// NewRecorder creates a correction recorder
func NewRecorder(n *normalizer.Normalizer, s store.Store, logger *zap.Logger) *Recorder {
	return &Recorder{
		normalizer: n,
		store:      s,
		logger:     logger,
	}
}

// Correction describes one user decision about a header mapping
type Correction struct {
	Header           string         // Raw header text as the user saw it
	Language         model.Language // Language pack active for the run
	Target           string         // Target column the user chose
	Template         string         // Export template in use, opaque caller tag
	ConfidenceBefore float64        // Confidence the engine had proposed
}

// Record persists one correction and reinforces its pattern. Recording
// the same correction twice reinforces twice; callers deduplicate if
// that is not what they want
func (r *Recorder) Record(ctx context.Context, c Correction) (model.CorrectionRecord, error) {
	if strings.TrimSpace(c.Header) == "" {
		return model.CorrectionRecord{}, fmt.Errorf("correction header is empty")
	}
	if strings.TrimSpace(c.Target) == "" {
		return model.CorrectionRecord{}, fmt.Errorf("correction target is empty")
	}

	record := model.NewCorrectionRecord(c.Header, c.Language, c.Target, c.Template, c.ConfidenceBefore)
	if err := r.store.AppendCorrection(ctx, record); err != nil {
		return model.CorrectionRecord{}, fmt.Errorf("failed to append correction: %w", err)
	}

	key := r.normalizer.Normalize(c.Header, c.Language)
	if key.IsEmpty() {
		// The correction is logged but an empty key can never be looked
		// up again, so there is nothing to reinforce
		r.logger.Warn("Correction recorded without reinforcement: header normalizes to nothing",
			zap.String("header", c.Header),
			zap.String("language", string(c.Language)))
		return record, nil
	}

	if err := r.store.Reinforce(ctx, key.Canonical, c.Target); err != nil {
		return model.CorrectionRecord{}, fmt.Errorf("failed to reinforce pattern: %w", err)
	}

	r.logger.Info("Correction recorded",
		zap.String("header", c.Header),
		zap.String("key", key.Canonical),
		zap.String("target", c.Target),
		zap.String("language", string(c.Language)))

	return record, nil
}
