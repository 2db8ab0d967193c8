package engine

import (
	"context"
	"testing"

	"github.com/tstromberg/cachesim/internal/cache"
	"github.com/tstromberg/cachesim/internal/workload"
)

const benchRefs = 100_000

func benchRun(b *testing.B, kind cache.Kind, refs []cache.Block) {
	req, err := NewRequest(32, 128, kind, refs)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		if _, err := Run(req); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRun_Zipf(b *testing.B) {
	refs := workload.GenerateZipf(benchRefs, 128, 0.99, 42)
	for _, k := range cache.Kinds() {
		b.Run(k.String(), func(b *testing.B) {
			benchRun(b, k, refs)
		})
	}
}

// Every reference misses and evicts.
func BenchmarkRun_LoopEvict(b *testing.B) {
	refs := workload.GenerateLoop(benchRefs, 128)
	for _, k := range cache.Kinds() {
		b.Run(k.String(), func(b *testing.B) {
			benchRun(b, k, refs)
		})
	}
}

func BenchmarkSweep(b *testing.B) {
	refs := workload.GenerateZipf(benchRefs, 128, 0.8, 7)
	req, err := NewRequest(1, 128, cache.LRU, refs)
	if err != nil {
		b.Fatal(err)
	}
	capacities := []int{1, 2, 4, 8, 16, 32}

	b.ResetTimer()
	for range b.N {
		if _, err := Sweep(context.Background(), req, cache.Kinds(), capacities); err != nil {
			b.Fatal(err)
		}
	}
}
