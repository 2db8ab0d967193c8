package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/tstromberg/cachesim/internal/cache"
)

// SweepResult holds results for a single policy across cache capacities.
type SweepResult struct {
	Policy  cache.Kind `json:"policy"`
	Results []Result   `json:"results"` // one per capacity, in sweep order
}

// Ratio returns the hit ratio recorded for capacity, or 0 if it was not swept.
func (s SweepResult) Ratio(capacity int) float64 {
	for _, r := range s.Results {
		if r.Capacity == capacity {
			return r.Ratio
		}
	}
	return 0
}

// AvgRatio returns the mean hit ratio across all swept capacities.
func (s SweepResult) AvgRatio() float64 {
	if len(s.Results) == 0 {
		return 0
	}
	var sum float64
	for _, r := range s.Results {
		sum += r.Ratio
	}
	return sum / float64(len(s.Results))
}

// Compare runs req once per policy kind, concurrently. Every run builds its own
// cache state; only the immutable request is shared. Results are returned in
// kinds order.
func Compare(ctx context.Context, req Request, kinds []cache.Kind) ([]Result, error) {
	reqs := make([]Request, len(kinds))
	for i, k := range kinds {
		r, err := req.WithPolicy(k)
		if err != nil {
			return nil, err
		}
		reqs[i] = r
	}
	return runAll(ctx, reqs)
}

// Sweep runs req for every combination of policy kind and capacity.
func Sweep(ctx context.Context, req Request, kinds []cache.Kind, capacities []int) ([]SweepResult, error) {
	if len(capacities) == 0 {
		return nil, fmt.Errorf("%w: no capacities to sweep", ErrInvalidRequest)
	}

	reqs := make([]Request, 0, len(kinds)*len(capacities))
	for _, k := range kinds {
		for _, c := range capacities {
			r, err := NewRequest(c, req.memorySize, k, req.refs)
			if err != nil {
				return nil, err
			}
			reqs = append(reqs, r)
		}
	}

	results, err := runAll(ctx, reqs)
	if err != nil {
		return nil, err
	}

	out := make([]SweepResult, len(kinds))
	n := len(capacities)
	for i, k := range kinds {
		lo, hi := i*n, (i+1)*n
		out[i] = SweepResult{Policy: k, Results: results[lo:hi:hi]}
	}
	return out, nil
}

func runAll(ctx context.Context, reqs []Request) ([]Result, error) {
	results := make([]Result, len(reqs))
	g, ctx := errgroup.WithContext(ctx)
	for i, r := range reqs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := Run(r)
			if err != nil {
				return fmt.Errorf("%s/%d: %w", r.policy, r.capacity, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
