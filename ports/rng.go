package ports

// RNG is a deterministic pseudorandom stream with a fixed seeding
// contract: the same seed reproduces the same draws on every platform
// and in every run. Implementations must document how many uniforms each
// derived draw consumes so stream positions stay predictable.
type RNG interface {
	// Uint64 returns the next raw 64-bit draw.
	Uint64() uint64
	// Float64 returns the next uniform draw in [0, 1).
	Float64() float64
	// Normal returns the next Gaussian draw.
	Normal(mu, sigma float64) float64
}

// StreamFactory mints independent deterministic streams. Streams with
// different seeds never share state, so treated and placebo series can
// be generated side by side without interleaving.
type StreamFactory func(seed uint64) RNG
