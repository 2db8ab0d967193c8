// Package cache models a single-level cache and its replacement policies.
package cache

import "errors"

// Block identifies one addressable unit of main memory.
type Block int

// Outcome reports whether a reference was served by the cache.
type Outcome bool

const (
	Miss Outcome = false
	Hit  Outcome = true
)

func (o Outcome) String() string {
	if o == Hit {
		return "hit"
	}
	return "miss"
}

// ErrInvalidCapacity is returned when a policy is built with capacity < 1.
var ErrInvalidCapacity = errors.New("cache capacity must be at least 1")

// Policy is a replacement policy bound to its own cache state.
//
// Process is called once per reference, in order. On a hit the policy applies
// its promotion rule; on a miss it evicts at most one resident block and
// admits the referenced one. Implementations are not safe for concurrent use:
// every simulation owns a fresh instance.
type Policy interface {
	Process(b Block) Outcome
	// Resident returns a snapshot of the resident blocks, newest first.
	// The last element is the next eviction victim.
	Resident() []Block
	Len() int
	Capacity() int
	Kind() Kind
}

// Factory creates a new, empty policy with the given capacity.
type Factory func(capacity int) (Policy, error)
