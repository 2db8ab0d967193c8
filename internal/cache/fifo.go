package cache

import (
	"fmt"
	"slices"

	"github.com/Code-Hex/go-generics-cache/policy/fifo"
)

type fifoPolicy struct {
	q        *fifo.Cache[Block, struct{}]
	capacity int
}

// NewFIFO creates a first-in-first-out policy. Hits never reorder the queue,
// so a block's eviction priority depends only on when it was admitted.
func NewFIFO(capacity int) (Policy, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	return &fifoPolicy{
		q:        fifo.NewCache[Block, struct{}](fifo.WithCapacity(capacity)),
		capacity: capacity,
	}, nil
}

func (p *fifoPolicy) Process(b Block) Outcome {
	if _, ok := p.q.Get(b); ok {
		return Hit
	}
	// A full queue drops its front before the new block is pushed to the back.
	p.q.Set(b, struct{}{})
	return Miss
}

func (p *fifoPolicy) Resident() []Block {
	keys := p.q.Keys() // oldest admission first
	slices.Reverse(keys)
	return keys
}

func (p *fifoPolicy) Len() int {
	return p.q.Len()
}

func (p *fifoPolicy) Capacity() int {
	return p.capacity
}

func (*fifoPolicy) Kind() Kind {
	return FIFO
}
