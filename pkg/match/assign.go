// pkg/match/assign.go
package match

import (
	"sort"

	"github.com/catalogkit/colmatch/pkg/model"
)

// assign resolves scored headers into a one-to-one mapping. Headers are
// processed in descending order of their best candidate confidence, with
// input position as the tie-break, so the strongest claims win contested
// targets deterministically. A header is assigned its highest-ranked
// candidate at or above the threshold whose target is still free;
// everything else stays unmapped
func assign(scores []headerScore, threshold float64) []model.MappingEntry {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := scores[order[a]], scores[order[b]]
		if sa.best() != sb.best() {
			return sa.best() > sb.best()
		}
		return sa.header.Position < sb.header.Position
	})

	taken := make(map[string]bool, len(scores))
	entries := make([]model.MappingEntry, len(scores))

	for _, idx := range order {
		score := scores[idx]
		entry := model.MappingEntry{
			Header:   score.header,
			Evidence: model.EvidenceNone,
		}
		for _, candidate := range score.candidates {
			if candidate.Confidence < threshold {
				break
			}
			if taken[candidate.Target] {
				continue
			}
			taken[candidate.Target] = true
			entry.Target = candidate.Target
			entry.Confidence = candidate.Confidence
			entry.Evidence = candidate.Evidence
			break
		}
		entries[idx] = entry
	}

	return entries
}

// availableTargets returns the target names not yet claimed by an entry,
// in declaration order
func availableTargets(targets []model.TargetColumn, entries []model.MappingEntry) []string {
	taken := make(map[string]bool, len(entries))
	for _, e := range entries {
		if !e.Unmapped() {
			taken[e.Target] = true
		}
	}
	var available []string
	for _, t := range targets {
		if !taken[t.Name] {
			available = append(available, t.Name)
		}
	}
	return available
}
