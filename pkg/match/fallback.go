// pkg/match/fallback.go
package match

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/catalogkit/colmatch/pkg/classifier"
	"github.com/catalogkit/colmatch/pkg/model"
)

// fallbackProposal is one classifier answer awaiting the merge pass
type fallbackProposal struct {
	position   int
	target     string
	confidence float64
}

// runFallback classifies the given unmapped headers against the targets
// still available and merges accepted proposals into entries. The whole
// batch shares one deadline; individual classifier failures are recorded
// and the header stays unmapped. Accepted assignments from earlier stages
// are never overridden
func runFallback(
	ctx context.Context,
	fb classifier.Classifier,
	headers []model.Header,
	targets []model.TargetColumn,
	entries []model.MappingEntry,
	opts Options,
	metrics *RunMetrics,
	errHandler *ErrorHandler,
	logger *zap.Logger,
) {
	available := availableTargets(targets, entries)
	if len(available) == 0 {
		return
	}

	// Restrict the offered targets when the run names critical ones
	offered := available
	if len(opts.CriticalTargets) > 0 {
		critical := make(map[string]bool, len(opts.CriticalTargets))
		for _, t := range opts.CriticalTargets {
			critical[t] = true
		}
		offered = offered[:0:0]
		for _, t := range available {
			if critical[t] {
				offered = append(offered, t)
			}
		}
		if len(offered) == 0 {
			return
		}
	}

	batchCtx, cancel := context.WithTimeout(ctx, opts.FallbackTimeout)
	defer cancel()

	workers := opts.FallbackWorkers
	if workers < 1 {
		workers = 1
	}

	group, groupCtx := errgroup.WithContext(batchCtx)
	group.SetLimit(workers)

	proposals := make([]fallbackProposal, len(headers))
	for i := range proposals {
		proposals[i].position = -1
	}

	for i, header := range headers {
		if header.IsBlank() {
			continue
		}
		i, header := i, header
		group.Go(func() error {
			metrics.RecordFallbackCall()
			result, err := fb.Classify(groupCtx, header.Text, offered)
			if err != nil {
				metrics.RecordFallbackError(err)
				errHandler.Record(NewErrorRecord(err, ErrorCategoryFallback).WithHeader(header))
				logger.Warn("Fallback classification failed",
					zap.String("header", header.Text),
					zap.Error(err))
				return nil // one failed header never aborts the batch
			}
			if result.Target == "" || result.Confidence < opts.AcceptThreshold {
				return nil
			}
			proposals[i] = fallbackProposal{
				position:   header.Position,
				target:     result.Target,
				confidence: result.Confidence,
			}
			return nil
		})
	}
	// Workers always return nil; Wait only orders the merge after them
	_ = group.Wait()

	// Merge in position order so contested targets resolve deterministically
	accepted := make([]fallbackProposal, 0, len(proposals))
	for _, p := range proposals {
		if p.position >= 0 {
			accepted = append(accepted, p)
		}
	}
	sort.Slice(accepted, func(a, b int) bool {
		return accepted[a].position < accepted[b].position
	})

	taken := make(map[string]bool, len(entries))
	for _, e := range entries {
		if !e.Unmapped() {
			taken[e.Target] = true
		}
	}
	allowed := make(map[string]bool, len(offered))
	for _, t := range offered {
		allowed[t] = true
	}

	for _, p := range accepted {
		// A classifier answer outside the offered list never enters the
		// mapping, whatever the implementation behind the interface did
		if !allowed[p.target] {
			errHandler.Record(NewErrorRecord(
				fmt.Errorf("classifier proposed undeclared target %q", p.target),
				ErrorCategoryFallback).WithTarget(p.target))
			continue
		}
		if taken[p.target] {
			continue
		}
		entry := findEntry(entries, p.position)
		if entry == nil || !entry.Unmapped() {
			continue
		}
		taken[p.target] = true
		entry.Target = p.target
		entry.Confidence = p.confidence
		entry.Evidence = model.EvidenceFallback
	}
}

// findEntry locates the entry for a header position
func findEntry(entries []model.MappingEntry, position int) *model.MappingEntry {
	for i := range entries {
		if entries[i].Header.Position == position {
			return &entries[i]
		}
	}
	return nil
}
