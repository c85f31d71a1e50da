package scoring

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/lead-intel/internal/types"
)

// DefaultBatchConcurrency limits in-flight scoring calls in ScoreBatch.
const DefaultBatchConcurrency = 4

// ScoreBatch scores leads concurrently. results[i] belongs to leads[i]; each
// element follows the ScoreLead contract, so a failed lead gets Fallback().
func (s *Scorer) ScoreBatch(ctx context.Context, leads []types.LeadFormData, concurrency int) []types.LeadScoreResult {
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}

	results := make([]types.LeadScoreResult, len(leads))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := range leads {
		g.Go(func() error {
			results[i] = s.ScoreLead(gCtx, leads[i])
			return nil
		})
	}

	// ScoreLead never fails, so Wait only blocks until all goroutines finish
	_ = g.Wait()
	return results
}
