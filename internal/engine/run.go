package engine

import (
	"fmt"

	"github.com/tstromberg/cachesim/internal/cache"
)

// Result holds the outcome of one simulation.
type Result struct {
	Policy     cache.Kind `json:"policy"`
	Capacity   int        `json:"capacity"`
	MemorySize int        `json:"memory_size"`
	Hits       int        `json:"hits"`
	Total      int        `json:"total"`
	Ratio      float64    `json:"ratio"`
}

// Misses returns the number of references that were not served by the cache.
func (r Result) Misses() int {
	return r.Total - r.Hits
}

// Step describes the cache right after one reference was processed.
type Step struct {
	Index    int
	Block    cache.Block
	Outcome  cache.Outcome
	Hits     int
	Resident []cache.Block // newest first
}

// Run replays the request's references against a fresh cache and returns
// the hit accounting. It is deterministic and keeps no state between calls.
func Run(req Request) (Result, error) {
	return replay(req, nil)
}

// Replay is Run with an observer invoked after every reference.
func Replay(req Request, fn func(Step)) (Result, error) {
	return replay(req, fn)
}

func replay(req Request, fn func(Step)) (Result, error) {
	if len(req.refs) == 0 {
		return Result{}, ErrEmptyReferenceSequence
	}

	p, err := cache.New(req.policy, req.capacity)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	var hits int
	for i, b := range req.refs {
		outcome := p.Process(b)
		if outcome == cache.Hit {
			hits++
		}
		if fn != nil {
			fn(Step{Index: i, Block: b, Outcome: outcome, Hits: hits, Resident: p.Resident()})
		}
	}

	return Result{
		Policy:     req.policy,
		Capacity:   req.capacity,
		MemorySize: req.memorySize,
		Hits:       hits,
		Total:      len(req.refs),
		Ratio:      float64(hits) / float64(len(req.refs)),
	}, nil
}
