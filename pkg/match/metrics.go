// pkg/match/metrics.go
package match

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/catalogkit/colmatch/pkg/model"
)

// RunMetrics tracks counters for one matching run. Fallback workers
// update it concurrently; the mutex guards every write
type RunMetrics struct {
	mu     sync.Mutex
	logger *zap.Logger

	RunID     string
	StartTime time.Time
	EndTime   time.Time

	HeadersTotal       int
	AssignedLearned    int
	AssignedNormalized int
	AssignedFallback   int
	Unmapped           int

	FallbackCalls    int
	FallbackErrors   int
	FallbackTimeouts int
}

// NewRunMetrics creates a metrics collector for one run
func NewRunMetrics(runID string, logger *zap.Logger) *RunMetrics {
	return &RunMetrics{
		RunID:     runID,
		StartTime: time.Now(),
		logger:    logger,
	}
}

// RecordFallbackCall counts one classifier invocation
func (m *RunMetrics) RecordFallbackCall() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FallbackCalls++
}

// RecordFallbackError counts a failed classifier invocation, tracking
// timeouts separately
func (m *RunMetrics) RecordFallbackError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FallbackErrors++
	if errors.Is(err, context.DeadlineExceeded) {
		m.FallbackTimeouts++
	}
}

// Complete tallies the finished mapping and stamps the end time
func (m *RunMetrics) Complete(mapping *model.ColumnMapping) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.EndTime = time.Now()
	m.HeadersTotal = len(mapping.Entries)
	m.AssignedLearned = 0
	m.AssignedNormalized = 0
	m.AssignedFallback = 0
	m.Unmapped = 0

	for _, entry := range mapping.Entries {
		switch {
		case entry.Unmapped():
			m.Unmapped++
		case entry.Evidence == model.EvidenceLearned:
			m.AssignedLearned++
		case entry.Evidence == model.EvidenceNormalized:
			m.AssignedNormalized++
		case entry.Evidence == model.EvidenceFallback:
			m.AssignedFallback++
		}
	}

	if m.logger != nil {
		m.logger.Info("Matching run completed",
			zap.String("runID", m.RunID),
			zap.Duration("duration", m.EndTime.Sub(m.StartTime)),
			zap.Int("headers", m.HeadersTotal),
			zap.Int("learned", m.AssignedLearned),
			zap.Int("normalized", m.AssignedNormalized),
			zap.Int("fallback", m.AssignedFallback),
			zap.Int("unmapped", m.Unmapped))
	}
}

// Duration returns the elapsed run time
func (m *RunMetrics) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.EndTime.IsZero() {
		return time.Since(m.StartTime)
	}
	return m.EndTime.Sub(m.StartTime)
}

// Report generates a human-readable summary of the run
func (m *RunMetrics) Report() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var sb strings.Builder
	sb.WriteString("=== Matching Run Report ===\n")
	sb.WriteString(fmt.Sprintf("Run:        %s\n", m.RunID))
	sb.WriteString(fmt.Sprintf("Duration:   %v\n", m.EndTime.Sub(m.StartTime).Round(time.Millisecond)))
	sb.WriteString(fmt.Sprintf("Headers:    %d\n", m.HeadersTotal))
	sb.WriteString(fmt.Sprintf("Learned:    %d\n", m.AssignedLearned))
	sb.WriteString(fmt.Sprintf("Normalized: %d\n", m.AssignedNormalized))
	sb.WriteString(fmt.Sprintf("Fallback:   %d (calls: %d, errors: %d, timeouts: %d)\n",
		m.AssignedFallback, m.FallbackCalls, m.FallbackErrors, m.FallbackTimeouts))
	sb.WriteString(fmt.Sprintf("Unmapped:   %d\n", m.Unmapped))
	return sb.String()
}

// runMetricsSnapshot is the JSON shape of RunMetrics
type runMetricsSnapshot struct {
	RunID              string        `json:"runId"`
	StartTime          time.Time     `json:"startTime"`
	EndTime            time.Time     `json:"endTime"`
	Duration           time.Duration `json:"durationNs"`
	HeadersTotal       int           `json:"headersTotal"`
	AssignedLearned    int           `json:"assignedLearned"`
	AssignedNormalized int           `json:"assignedNormalized"`
	AssignedFallback   int           `json:"assignedFallback"`
	Unmapped           int           `json:"unmapped"`
	FallbackCalls      int           `json:"fallbackCalls"`
	FallbackErrors     int           `json:"fallbackErrors"`
	FallbackTimeouts   int           `json:"fallbackTimeouts"`
}

// ToJSON serializes the metrics for export
func (m *RunMetrics) ToJSON() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := runMetricsSnapshot{
		RunID:              m.RunID,
		StartTime:          m.StartTime,
		EndTime:            m.EndTime,
		Duration:           m.EndTime.Sub(m.StartTime),
		HeadersTotal:       m.HeadersTotal,
		AssignedLearned:    m.AssignedLearned,
		AssignedNormalized: m.AssignedNormalized,
		AssignedFallback:   m.AssignedFallback,
		Unmapped:           m.Unmapped,
		FallbackCalls:      m.FallbackCalls,
		FallbackErrors:     m.FallbackErrors,
		FallbackTimeouts:   m.FallbackTimeouts,
	}
	return json.MarshalIndent(snapshot, "", "  ")
}
