package cache

import (
	"fmt"
	"slices"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

type lruPolicy struct {
	c        *simplelru.LRU[Block, struct{}]
	capacity int
}

// NewLRU creates a least-recently-used policy.
func NewLRU(capacity int) (Policy, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	c, err := simplelru.NewLRU[Block, struct{}](capacity, nil)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	return &lruPolicy{c: c, capacity: capacity}, nil
}

func (p *lruPolicy) Process(b Block) Outcome {
	// Get promotes a resident block to the front of the recency list.
	if _, ok := p.c.Get(b); ok {
		return Hit
	}
	p.c.Add(b, struct{}{})
	return Miss
}

func (p *lruPolicy) Resident() []Block {
	keys := p.c.Keys() // least recently used first
	slices.Reverse(keys)
	return keys
}

func (p *lruPolicy) Len() int {
	return p.c.Len()
}

func (p *lruPolicy) Capacity() int {
	return p.capacity
}

func (*lruPolicy) Kind() Kind {
	return LRU
}
