// Package sampler counts Monte Carlo hits for the unit quarter-circle test.
package sampler

import "math/rand/v2"

// stream is the PCG increment selector shared by every sampler so that the
// seed alone determines the random sequence.
const stream = 0x9e3779b97f4a7c15

// Sampler draws count points from a generator keyed by seed and reports how
// many fell inside the quarter circle. Implementations must not share state
// between calls.
type Sampler interface {
	Sample(count uint64, seed int64) (uint64, error)
}

// Func adapts a plain function to the Sampler interface.
type Func func(count uint64, seed int64) (uint64, error)

func (f Func) Sample(count uint64, seed int64) (uint64, error) {
	return f(count, seed)
}

type quarterCircle struct{}

// NewQuarterCircle returns the default point-in-quarter-circle sampler.
func NewQuarterCircle() Sampler {
	return quarterCircle{}
}

func (quarterCircle) Sample(count uint64, seed int64) (uint64, error) {
	return Hits(count, seed), nil
}

// Hits is the pure sampling loop. Each call owns its generator.
func Hits(count uint64, seed int64) uint64 {
	rnd := rand.New(rand.NewPCG(uint64(seed), stream))

	var hits uint64
	for range count {
		x := rnd.Float64()
		y := rnd.Float64()
		if x*x+y*y <= 1.0 {
			hits++
		}
	}

	return hits
}
