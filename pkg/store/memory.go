// pkg/store/memory.go
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/catalogkit/colmatch/pkg/model"
)

// MemoryStore is a process-local Store backed by maps. It serves unit
// tests and ephemeral runs; the mutex serializes reinforcement so the
// per-pair increment contract holds under concurrency
type MemoryStore struct {
	mu          sync.RWMutex
	patterns    map[string]map[string]*model.LearnedPattern // key -> target -> pattern
	corrections []model.CorrectionRecord
	now         func() time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		patterns: make(map[string]map[string]*model.LearnedPattern),
		now:      time.Now,
	}
}

// Lookup returns patterns for a key, frequency descending, most recent
// first on ties, target name as the final deterministic tie-break
func (s *MemoryStore) Lookup(ctx context.Context, key string) ([]model.LearnedPattern, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byTarget, ok := s.patterns[key]
	if !ok {
		return nil, nil
	}

	out := make([]model.LearnedPattern, 0, len(byTarget))
	for _, p := range byTarget {
		out = append(out, *p)
	}
	sortPatterns(out)
	return out, nil
}

// Reinforce upserts the (key, target) pair, incrementing frequency and
// refreshing last_used
func (s *MemoryStore) Reinforce(ctx context.Context, key, target string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byTarget, ok := s.patterns[key]
	if !ok {
		byTarget = make(map[string]*model.LearnedPattern)
		s.patterns[key] = byTarget
	}

	if p, ok := byTarget[target]; ok {
		p.Frequency++
		p.LastUsed = s.now()
		return nil
	}

	byTarget[target] = &model.LearnedPattern{
		SourceKey:    key,
		TargetColumn: target,
		Frequency:    1,
		LastUsed:     s.now(),
	}
	return nil
}

// Patterns returns every learned pattern, ordered for stable output
func (s *MemoryStore) Patterns(ctx context.Context) ([]model.LearnedPattern, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.LearnedPattern
	for _, byTarget := range s.patterns {
		for _, p := range byTarget {
			out = append(out, *p)
		}
	}
	sortPatterns(out)
	return out, nil
}

// ResetPatterns wipes all learned patterns
func (s *MemoryStore) ResetPatterns(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patterns = make(map[string]map[string]*model.LearnedPattern)
	return nil
}

// AppendCorrection appends one immutable correction record
func (s *MemoryStore) AppendCorrection(ctx context.Context, rec model.CorrectionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.corrections = append(s.corrections, rec)
	return nil
}

// RecentCorrections returns records newest first; limit <= 0 returns all
func (s *MemoryStore) RecentCorrections(ctx context.Context, limit int) ([]model.CorrectionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.CorrectionRecord, len(s.corrections))
	copy(out, s.corrections)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RecordedAt.After(out[j].RecordedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CountCorrections returns the number of recorded corrections
func (s *MemoryStore) CountCorrections(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.corrections)), nil
}

// ResetCorrections wipes the correction log
func (s *MemoryStore) ResetCorrections(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.corrections = nil
	return nil
}

// Validate always succeeds for the in-memory backend
func (s *MemoryStore) Validate() error {
	return nil
}

// Close is a no-op for the in-memory backend
func (s *MemoryStore) Close() error {
	return nil
}

func sortPatterns(patterns []model.LearnedPattern) {
	sort.SliceStable(patterns, func(i, j int) bool {
		if patterns[i].Frequency != patterns[j].Frequency {
			return patterns[i].Frequency > patterns[j].Frequency
		}
		if !patterns[i].LastUsed.Equal(patterns[j].LastUsed) {
			return patterns[i].LastUsed.After(patterns[j].LastUsed)
		}
		if patterns[i].SourceKey != patterns[j].SourceKey {
			return patterns[i].SourceKey < patterns[j].SourceKey
		}
		return patterns[i].TargetColumn < patterns[j].TargetColumn
	})
}
