// Package randutil derives reproducible rand/v2 sources from int64 seeds.
package randutil

import rand "math/rand/v2"

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// Both PCG words are derived from the seed so every caller gets the same
// sequence for the same seed.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Derive returns the seed of the stream-th independent sub-stream of seed.
// Gamblers use it so each strategy draws from its own source no matter which
// goroutine or in which order the strategies are played.
func Derive(seed int64, stream int) int64 {
	return int64(mix(uint64(seed) + uint64(stream+1)*goldenRatio64))
}

// NewStream is shorthand for New(Derive(seed, stream)).
func NewStream(seed int64, stream int) *rand.Rand {
	return New(Derive(seed, stream))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
