// Package engine replays memory-block reference sequences against a cache
// replacement policy and accounts hits and misses.
package engine

import (
	"errors"
	"fmt"
	"slices"

	"github.com/tstromberg/cachesim/internal/cache"
)

var (
	// ErrInvalidRequest is returned when request parameters violate the
	// simulation invariants.
	ErrInvalidRequest = errors.New("invalid simulation request")
	// ErrEmptyReferenceSequence is returned when a run has nothing to replay;
	// the hit ratio of zero references is undefined.
	ErrEmptyReferenceSequence = errors.New("empty reference sequence")
)

// MemorySizes lists the supported main-memory sizes, in blocks.
var MemorySizes = []int{32, 64, 128}

// ValidMemorySize reports whether size is a supported main-memory size.
func ValidMemorySize(size int) bool {
	return slices.Contains(MemorySizes, size)
}

// MaxCapacity returns the largest cache capacity allowed for a memory size.
func MaxCapacity(memorySize int) int {
	return memorySize / 4
}

// Request describes one simulation. It is immutable once built.
type Request struct {
	capacity   int
	memorySize int
	policy     cache.Kind
	refs       []cache.Block
}

// NewRequest validates the parameters and builds a request. The reference
// slice is copied. An empty reference sequence is accepted here and rejected
// by Run.
func NewRequest(capacity, memorySize int, policy cache.Kind, refs []cache.Block) (Request, error) {
	if !ValidMemorySize(memorySize) {
		return Request{}, fmt.Errorf("%w: memory size %d not in %v", ErrInvalidRequest, memorySize, MemorySizes)
	}
	if capacity < 1 || capacity > MaxCapacity(memorySize) {
		return Request{}, fmt.Errorf("%w: capacity %d outside 1..%d", ErrInvalidRequest, capacity, MaxCapacity(memorySize))
	}
	for i, b := range refs {
		if b < 0 || int(b) >= memorySize {
			return Request{}, fmt.Errorf("%w: reference #%d (%d) outside [0,%d)", ErrInvalidRequest, i, b, memorySize)
		}
	}
	if _, err := cache.Lookup(policy); err != nil {
		return Request{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return Request{
		capacity:   capacity,
		memorySize: memorySize,
		policy:     policy,
		refs:       slices.Clone(refs),
	}, nil
}

// Capacity returns the cache capacity in blocks.
func (r Request) Capacity() int { return r.capacity }

// MemorySize returns the main-memory size in blocks.
func (r Request) MemorySize() int { return r.memorySize }

// Policy returns the selected replacement policy.
func (r Request) Policy() cache.Kind { return r.policy }

// Len returns the number of references.
func (r Request) Len() int { return len(r.refs) }

// References returns a copy of the reference sequence.
func (r Request) References() []cache.Block { return slices.Clone(r.refs) }

// WithPolicy returns a copy of the request using another policy.
func (r Request) WithPolicy(kind cache.Kind) (Request, error) {
	return NewRequest(r.capacity, r.memorySize, kind, r.refs)
}

// WithCapacity returns a copy of the request using another capacity.
func (r Request) WithCapacity(capacity int) (Request, error) {
	return NewRequest(capacity, r.memorySize, r.policy, r.refs)
}
