package simulate

import "math/rand/v2"

// RandomSource yields uniform floats in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

type sourceFunc func() float64

func (f sourceFunc) Float64() float64 { return f() }

// DefaultRNG draws from the runtime's ChaCha8 generator, which is safe for
// concurrent use and randomly seeded at start. It is used whenever a caller
// passes a nil source.
func DefaultRNG() RandomSource { return sourceFunc(rand.Float64) }

const pcgStream = 0x9e3779b97f4a7c15

// NewSeededRNG returns a PCG source. The same seed replays the same cycles,
// which the -seed flag and the seed query parameter rely on. Not safe for
// concurrent use.
func NewSeededRNG(seed uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, seed^pcgStream))
}
