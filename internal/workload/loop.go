package workload

import "github.com/tstromberg/cachesim/internal/cache"

// GenerateLoop generates n references that cycle through blocks 0..span-1.
// When span exceeds the cache capacity, both FIFO and LRU miss on every
// reference.
func GenerateLoop(n, span int) []cache.Block {
	if n <= 0 || span <= 0 {
		return nil
	}
	keys := make([]cache.Block, n)
	for i := range keys {
		keys[i] = cache.Block(i % span)
	}
	return keys
}
