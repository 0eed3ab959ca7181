// pkg/learning/stats.go
package learning

import (
	"context"
	"fmt"
	"sort"

	"github.com/catalogkit/colmatch/pkg/model"
	"github.com/catalogkit/colmatch/pkg/store"
)

// Stats summarizes the current learning state
type Stats struct {
	TotalPatterns         int64
	TotalCorrections      int64
	PatternsByTarget      map[string]int64
	CorrectionsByTemplate map[string]int64
	TopPatterns           []model.LearnedPattern
}

// topPatternCount caps the number of strongest patterns reported
const topPatternCount = 10

// CollectStats gathers learning statistics from the store
func CollectStats(ctx context.Context, s store.Store) (*Stats, error) {
	patterns, err := s.Patterns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load patterns: %w", err)
	}

	corrections, err := s.RecentCorrections(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load corrections: %w", err)
	}

	stats := &Stats{
		TotalPatterns:         int64(len(patterns)),
		TotalCorrections:      int64(len(corrections)),
		PatternsByTarget:      make(map[string]int64),
		CorrectionsByTemplate: make(map[string]int64),
	}

	for _, p := range patterns {
		stats.PatternsByTarget[p.TargetColumn]++
	}
	for _, c := range corrections {
		template := c.Template
		if template == "" {
			template = "(none)"
		}
		stats.CorrectionsByTemplate[template]++
	}

	sort.SliceStable(patterns, func(i, j int) bool {
		if patterns[i].Frequency != patterns[j].Frequency {
			return patterns[i].Frequency > patterns[j].Frequency
		}
		return patterns[i].SourceKey < patterns[j].SourceKey
	})
	if len(patterns) > topPatternCount {
		patterns = patterns[:topPatternCount]
	}
	stats.TopPatterns = patterns

	return stats, nil
}
