// Package workload generates synthetic memory-block reference sequences.
package workload

import (
	"math"
	"math/rand/v2"

	"github.com/tstromberg/cachesim/internal/cache"
)

// GenerateZipf generates n block references drawn from a Zipfian distribution
// over [0, keySpace). Block 0 is the most popular. theta controls the skew
// (higher = more skewed) and must lie in (0, 1); seed makes the sequence
// reproducible.
func GenerateZipf(n, keySpace int, theta float64, seed uint64) []cache.Block {
	if n <= 0 || keySpace <= 0 {
		return nil
	}
	rng := rand.New(rand.NewPCG(seed, seed+1))
	keys := make([]cache.Block, n)

	spread := keySpace
	zeta2 := computeZeta(2, theta)
	zetaN := computeZeta(uint64(spread), theta)
	alpha := 1.0 / (1.0 - theta)
	eta := (1 - math.Pow(2.0/float64(spread), 1.0-theta)) / (1.0 - zeta2/zetaN)
	halfPowTheta := 1.0 + math.Pow(0.5, theta)

	for i := range n {
		u := rng.Float64()
		uz := u * zetaN
		var result int
		switch {
		case uz < 1.0:
			result = 0
		case uz < halfPowTheta:
			result = 1
		default:
			result = int(float64(spread) * math.Pow(eta*u-eta+1.0, alpha))
		}
		if result >= keySpace { // float rounding at u close to 1
			result = keySpace - 1
		}
		keys[i] = cache.Block(result)
	}
	return keys
}

func computeZeta(n uint64, theta float64) float64 {
	sum := 0.0
	for i := uint64(1); i <= n; i++ {
		sum += 1.0 / math.Pow(float64(i), theta)
	}
	return sum
}
