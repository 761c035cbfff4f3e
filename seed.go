package perfectrand

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/zeebo/xxh3"
)

// RandomSeed returns a seed drawn from the operating system entropy source.
// FromRange uses it when the caller does not supply a seed of their own.
func RandomSeed() (uint64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("failed to generate random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// SeedFromString derives a stable seed from an arbitrary string, so runs
// can be keyed with something human-memorable ("census-2026") instead of a
// raw integer. Equal strings always map to the same seed.
func SeedFromString(s string) uint64 {
	return xxh3.HashString(s)
}
