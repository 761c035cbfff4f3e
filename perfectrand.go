// Package perfectrand generates deterministic pseudo-random permutations of
// integer ranges without storing any values.
//
// A Shuffler maps each index in [0, N) to a unique value in [0, N), so a
// caller can walk i = 0..N and visit every element of the range exactly once
// in a shuffled order. The mapping is computed on demand: O(1) space
// regardless of range size and O(1) amortized time per call. Typical use is
// randomizing the enumeration order of a huge index space, such as an
// address or port range for scanning, where reusing a seed reproduces a run
// and changing it produces a different order.
//
// Internally the range is embedded in the smallest enclosing power-of-two
// domain, permuted with a small keyed Feistel network, and folded back into
// [0, N) by cycle walking: the cipher is re-applied until the output lands
// inside the range. The Feistel construction is bijective regardless of the
// round function used, so every output is guaranteed unique.
//
// Key features:
//   - O(1) space complexity regardless of range size
//   - O(1) amortized time per value generated
//   - Deterministic: the same (range, seed, rounds) always yields the same order
//   - Safe for concurrent use without locking; a Shuffler is immutable
//
// Note: this is not a cryptographically secure cipher. The round counts are
// small and tuned for dispersion, not secrecy. For unpredictable sequences
// use crypto/rand to pick the seed (FromRange does this), and for security
// use a real cipher.
//
// Example usage:
//
//	// Visit every value in [0, 1000000) exactly once, shuffled.
//	r, _ := perfectrand.New(1000000, 12345, 4)
//	for i := uint64(0); i < r.Range(); i++ {
//	    num := r.Shuffle(i)
//	    // Process num
//	}
package perfectrand

import "fmt"

// DefaultRounds is the round count used by FromRange. Three rounds give
// good dispersion for enumeration workloads; use four when outputs feed
// anything statistics-sensitive.
const DefaultRounds = 3

// Shuffler computes a bijective permutation of [0, Range()). It is immutable
// after construction and may be shared by any number of goroutines.
type Shuffler struct {
	rng    uint64
	seed   uint64
	rounds int

	// derived from rng once at construction
	aBits uint
	aMask uint64
	bMask uint64

	mix roundFunc
}

// Option configures a Shuffler at construction time.
type Option func(*Shuffler)

// WithTableRounds selects the substitution-table round function instead of
// the default ARX mixer. Both produce valid permutations; the table variant
// trades the mixer's arithmetic for four table lookups per round.
func WithTableRounds() Option {
	return func(s *Shuffler) {
		s.mix = tableRound
	}
}

// New creates a Shuffler over [0, rng) with a specific seed and round count.
// Use FromRange to get a random seed and the default rounds.
//
//   - rng: the size of the range to permute. For example, 2^32 for the IPv4
//     address space.
//   - seed: the permutation key. Any value is valid, including zero; equal
//     seeds yield equal orderings.
//   - rounds: how many Feistel rounds each value passes through, at least 1.
//     3 or 4 is recommended; more rounds improve dispersion at a linear cost
//     per call.
func New(rng, seed uint64, rounds int, opts ...Option) (*Shuffler, error) {
	if rng == 0 {
		return nil, fmt.Errorf("range must be greater than 0")
	}
	if rounds < 1 {
		return nil, fmt.Errorf("rounds %d must be at least 1", rounds)
	}

	s := &Shuffler{
		rng:    rng,
		seed:   seed,
		rounds: rounds,
		mix:    arxRound,
	}
	s.aBits, s.aMask, s.bMask = deriveParams(rng)

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// FromRange creates a Shuffler over [0, rng) with a seed drawn from the
// system entropy source and DefaultRounds rounds. Record Seed() if the run
// needs to be reproduced later.
func FromRange(rng uint64, opts ...Option) (*Shuffler, error) {
	seed, err := RandomSeed()
	if err != nil {
		return nil, err
	}
	return New(rng, seed, DefaultRounds, opts...)
}

// Range returns the size of the permuted range.
func (s *Shuffler) Range() uint64 {
	return s.rng
}

// Seed returns the seed the permutation is keyed with.
func (s *Shuffler) Seed() uint64 {
	return s.seed
}

// Rounds returns the configured Feistel round count.
func (s *Shuffler) Rounds() int {
	return s.rounds
}

// Shuffle returns the i-th element of the permutation of [0, Range()).
// It is deterministic: the same Shuffler parameters and index always
// produce the same value.
//
// Calling Shuffle with i >= Range() is a programmer error and panics.
func (s *Shuffler) Shuffle(i uint64) uint64 {
	if i >= s.rng {
		panic(fmt.Sprintf("perfectrand: index %d out of range [0, %d)", i, s.rng))
	}

	// Cycle walking: encrypt permutes the enclosing power-of-two domain, so
	// re-applying it from any starting point must eventually land back
	// inside [0, rng). The enclosing domain is less than twice rng, keeping
	// the expected number of passes below two.
	c := s.encrypt(i)
	for c >= s.rng {
		c = s.encrypt(c)
	}
	return c
}

// encrypt runs the Feistel network over the enclosing power-of-two domain
// [0, 2^(aBits+bBits)). It is a bijection on that domain for any fixed seed
// and round count, whether or not the round function is invertible: each
// round only adds a value derived from the untouched half, which is always
// reversible by subtracting it again.
//
// Odd rounds mask the combined half to aBits, even rounds to bBits, and the
// final recombination depends on which half ended up holding the aBits-wide
// value, which alternates with the round count's parity.
func (s *Shuffler) encrypt(m uint64) uint64 {
	left := m & s.aMask
	right := m >> s.aBits

	for j := 1; j <= s.rounds; j++ {
		var tmp uint64
		if j&1 == 1 {
			tmp = (left + s.mix(s.seed, j, right)) & s.aMask
		} else {
			tmp = (left + s.mix(s.seed, j, right)) & s.bMask
		}
		left = right
		right = tmp
	}

	if s.rounds&1 == 1 {
		return (left << s.aBits) + right
	}
	return (right << s.aBits) + left
}
