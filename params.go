package perfectrand

import "math/bits"

// deriveParams splits the smallest power-of-two domain enclosing rng into
// two near-equal halves for the Feistel network. The total bit width is the
// position of the highest set bit of rng-1 plus one, so 2^(aBits+bBits) is
// always >= rng and never more than twice rng, which keeps the expected
// cycle-walk count in Shuffle below two. When the width is odd the leftover
// bit goes to the a half, so aBits >= bBits.
//
// rng must be > 0; the constructor enforces this before calling.
func deriveParams(rng uint64) (aBits uint, aMask, bMask uint64) {
	totalBits := uint(bits.Len64(rng - 1))
	bBits := totalBits / 2
	aBits = totalBits - bBits
	aMask = 1<<aBits - 1
	bMask = 1<<bBits - 1
	return aBits, aMask, bMask
}
