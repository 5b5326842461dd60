// Package randx provides the seeded random number generator used by every
// synthetic and placebo stream in the project. One generator, one contract:
// the same seed yields the same stream on every platform, so simulated
// scenarios are replayable byte for byte.
package randx

import (
	"math"
)

// LCG multiplier and increment (Knuth MMIX constants). State advances
// modulo 2^64 via native uint64 wraparound.
const (
	mmixMultiplier = 6364136223846793005
	mmixIncrement  = 1442695040888963407
)

// LCG is a 64-bit linear congruential generator. It implements the
// math/rand/v2 Source interface, so it can also drive gonum distributions
// when sampling beyond uniform/normal is needed.
type LCG struct {
	state uint64
}

// New creates a generator seeded with the given value.
func New(seed uint64) *LCG {
	return &LCG{state: seed}
}

// Uint64 advances the state and returns it.
func (g *LCG) Uint64() uint64 {
	g.state = g.state*mmixMultiplier + mmixIncrement
	return g.state
}

// Float64 returns a uniform draw in [0, 1).
func (g *LCG) Float64() float64 {
	return float64(g.Uint64()) / (1 << 64)
}

// Normal returns a Gaussian draw with the given mean and standard deviation
// via the Box-Muller transform. Each call consumes exactly two uniforms; the
// sine branch is discarded so the stream position stays predictable.
func (g *LCG) Normal(mu, sigma float64) float64 {
	u1 := g.Float64()
	if u1 < 1e-15 {
		u1 = 1e-15
	}
	u2 := g.Float64()
	z := math.Sqrt(-2.0*math.Log(u1)) * math.Cos(2.0*math.Pi*u2)
	return mu + sigma*z
}

// NormFloat64 returns a standard normal draw.
func (g *LCG) NormFloat64() float64 {
	return g.Normal(0, 1)
}
