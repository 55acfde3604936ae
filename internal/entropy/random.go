// Package entropy provides the seeded random streams every generator draws
// from, plus ambient seeds from crypto/rand for non-reproducible runs.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand/v2"
)

// golden is the 64-bit golden-ratio increment used by splitmix64.
const golden = 0x9E3779B97F4A7C15

// NewStream returns a private deterministic stream for seed.
// Seeds are scrambled with splitmix64 first so that adjacent seeds
// (seed, seed+1, ...) start from unrelated generator states.
func NewStream(seed uint64) *mrand.Rand {
	return mrand.New(mrand.NewPCG(mix(seed), mix(seed+golden)))
}

// Seed returns a fresh seed from crypto/rand.
func Seed() uint64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand does not fail on supported platforms.
		return mix(golden)
	}
	return binary.LittleEndian.Uint64(buf[:])
}

// Range draws uniformly from [lo, hi).
func Range(rng *mrand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// IntRange draws uniformly from the closed interval [lo, hi].
func IntRange(rng *mrand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}

// mix is the splitmix64 finalizer.
func mix(z uint64) uint64 {
	z += golden
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}
