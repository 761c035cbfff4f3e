package perfectrand

import "math/bits"

// roundFunc is the keyed mixing primitive invoked once per Feistel round.
// Implementations must be pure and must depend on all three inputs so that
// consecutive round indices produce decorrelated outputs. The result is
// masked by the caller, so the full 64-bit word may be used freely.
type roundFunc func(seed uint64, j int, right uint64) uint64

// arxConstant initializes the fourth state word of the ARX mixer. Without
// it a zero seed and zero half would leave the whole state at zero.
const arxConstant = 0xf3016d19bc9ad940

// sipRound is one round of the SipHash state permutation.
func sipRound(v0, v1, v2, v3 uint64) (uint64, uint64, uint64, uint64) {
	v0 += v1
	v2 += v3
	v1 = bits.RotateLeft64(v1, 13) ^ v0
	v3 = bits.RotateLeft64(v3, 16) ^ v2
	v0 = bits.RotateLeft64(v0, 32)

	v2 += v1
	v0 += v3
	v1 = bits.RotateLeft64(v1, 17) ^ v2
	v3 = bits.RotateLeft64(v3, 21) ^ v0
	v2 = bits.RotateLeft64(v2, 32)

	return v0, v1, v2, v3
}

// arxRound is the default round function. It loads (j, right, seed) into a
// SipHash state, runs four rounds of the permutation, and returns the first
// state word.
func arxRound(seed uint64, j int, right uint64) uint64 {
	v0 := uint64(j)
	v1 := right
	v2 := seed
	v3 := uint64(arxConstant)

	v0, v1, v2, v3 = sipRound(v0, v1, v2, v3)
	v0, v1, v2, v3 = sipRound(v0, v1, v2, v3)
	v0, v1, v2, v3 = sipRound(v0, v1, v2, v3)
	v0, _, _, _ = sipRound(v0, v1, v2, v3)

	return v0
}

// sboxSeed feeds the splitmix64 stream the substitution tables are built
// from. Any fixed value works; this one is the leading hex digits of pi.
const sboxSeed = 0x243f6a8885a308d3

// sboxes holds eight fixed 256-entry substitution tables shared by every
// Shuffler using the table round function. They are filled once at init
// from a deterministic stream, so all processes see identical tables, and
// never written again.
var sboxes = buildSboxes()

func buildSboxes() [8][256]uint64 {
	var tables [8][256]uint64
	x := uint64(sboxSeed)
	for t := range tables {
		for i := range tables[t] {
			x += 0x9e3779b97f4a7c15
			tables[t][i] = mix64(x)
		}
	}
	return tables
}

// mix64 is the splitmix64 finalizer.
func mix64(z uint64) uint64 {
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// tableRound is the substitution-table round function. The half value is
// whitened with the seed rotated by the round index, split into four bytes,
// and each byte substituted through its own table. Odd rounds read the
// even-numbered tables and even rounds the odd-numbered ones, so adjacent
// rounds never share a table.
func tableRound(seed uint64, j int, right uint64) uint64 {
	t := right ^ bits.RotateLeft64(seed, j)

	base := 0
	if j&1 == 0 {
		base = 1
	}

	return sboxes[base][byte(t)] ^
		sboxes[base+2][byte(t>>8)] ^
		sboxes[base+4][byte(t>>16)] ^
		sboxes[base+6][byte(t>>24)]
}
