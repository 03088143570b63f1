package sampler

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// RandSource supplies the random numbers a sampler consumes. Successive calls
// must be independent and identically distributed.
type RandSource interface {
	// Float64 returns a uniform number in [0, 1).
	Float64() float64

	// NormFloat64 returns a standard normal number.
	NormFloat64() float64
}

// NewSource returns a deterministic RandSource seeded with seed. Two sources
// created with the same seed produce the same stream.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewSeed draws a seed from the operating system's entropy source.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return binary.LittleEndian.Uint64(b[:]), nil
}
