package core

import "math/rand/v2"

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Chance reports true with probability p.
func (r *RNG) Chance(p float64) bool {
	return r.r.Float64() < p
}

// Int64 returns a non-negative pseudo-random int64, handy for deriving seeds
// of independent runs.
func (r *RNG) Int64() int64 { return r.r.Int64() }

// Multipliers spreading consecutive step numbers and cell indices across the
// PCG sequence space.
const (
	stepGamma = 0x9e3779b97f4a7c15
	cellGamma = 0xbf58476d1ce4e5b9
)

// Stream is an independent random sub-stream addressed by (seed, step, cell).
// Two streams with the same key always produce the same sequence, which makes
// per-cell draws independent of the order cells are evaluated in.
type Stream struct {
	pcg rand.PCG
}

// NewStream returns the sub-stream for the given run seed, step and cell index.
func NewStream(seed int64, step uint64, cell int) Stream {
	var s Stream
	s.pcg.Seed(uint64(seed), step*stepGamma^uint64(cell)*cellGamma)
	return s
}

// Float64 returns a uniform value in [0, 1).
func (s *Stream) Float64() float64 {
	return float64(s.pcg.Uint64()>>11) / (1 << 53)
}
