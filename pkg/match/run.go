// pkg/match/run.go
package match

import (
	"time"

	"github.com/catalogkit/colmatch/pkg/model"
)

// Options tunes one matching run
type Options struct {
	// AcceptThreshold is the minimum confidence for an accepted
	// candidate; a candidate exactly at the threshold is accepted
	AcceptThreshold float64
	// FallbackTimeout bounds the whole fallback classification batch
	FallbackTimeout time.Duration
	// FallbackWorkers caps concurrent classifier calls
	FallbackWorkers int
	// CriticalTargets restricts fallback classification to these target
	// columns when non-empty
	CriticalTargets []string
}

// DefaultOptions returns the default run options
func DefaultOptions() Options {
	return Options{
		AcceptThreshold: 0.6,
		FallbackTimeout: 20 * time.Second,
		FallbackWorkers: 4,
	}
}

// WithThreshold sets the acceptance threshold and returns the modified options
func (o Options) WithThreshold(threshold float64) Options {
	o.AcceptThreshold = threshold
	return o
}

// WithFallbackTimeout sets the fallback batch deadline and returns the modified options
func (o Options) WithFallbackTimeout(timeout time.Duration) Options {
	o.FallbackTimeout = timeout
	return o
}

// WithFallbackWorkers sets the concurrent classifier call limit and returns the modified options
func (o Options) WithFallbackWorkers(workers int) Options {
	o.FallbackWorkers = workers
	return o
}

// WithCriticalTargets restricts fallback classification and returns the modified options
func (o Options) WithCriticalTargets(targets []string) Options {
	o.CriticalTargets = targets
	return o
}

// headerScore pairs one header with its ranked candidates for the
// duration of a run
type headerScore struct {
	header     model.Header
	candidates []model.MatchCandidate
}

// best returns the confidence of the top-ranked candidate, 0 when none
func (h headerScore) best() float64 {
	if len(h.candidates) == 0 {
		return 0
	}
	return h.candidates[0].Confidence
}

// MatchResult bundles the mapping with the run's observability output
type MatchResult struct {
	Mapping      *model.ColumnMapping
	Metrics      *RunMetrics
	Verification *VerificationReport
	Errors       *ErrorHandler
}
