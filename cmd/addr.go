package main

import (
	"fmt"
	"math/big"
	"net/netip"
)

// maxHostBits caps the sweepable host space. More could be supported by
// switching the permutation indices to big.Int, but sweeping over 2^63
// addresses is already beyond any realistic run.
const maxHostBits = 63

// sweepSpace maps permutation indices onto the host addresses of a prefix.
type sweepSpace struct {
	prefix    netip.Prefix
	count     uint64
	skipEdges bool
}

// newSweepSpace validates the prefix and sizes its host space. With
// skipEdges set, the network and broadcast addresses of an IPv4 prefix are
// excluded from the sweep.
func newSweepSpace(prefix netip.Prefix, skipEdges bool) (*sweepSpace, error) {
	addrBits := 32
	if prefix.Addr().Is6() {
		addrBits = 128
	}

	hostBits := addrBits - prefix.Bits()
	if hostBits > maxHostBits {
		return nil, fmt.Errorf("host range too large: 2^%d addresses, max 2^%d", hostBits, maxHostBits)
	}

	if skipEdges {
		if !prefix.Addr().Is4() {
			return nil, fmt.Errorf("-skip-edges only applies to IPv4 prefixes")
		}
		if hostBits < 2 {
			return nil, fmt.Errorf("-skip-edges requires a prefix with at least 4 addresses")
		}
	}

	return &sweepSpace{
		prefix:    prefix,
		count:     1 << hostBits,
		skipEdges: skipEdges,
	}, nil
}

// addr returns the nth address of the prefix. The second return is false
// for indices filtered out by skipEdges: index 0 is the network address and
// the last index is the broadcast address.
func (s *sweepSpace) addr(n uint64) (netip.Addr, bool) {
	if s.skipEdges && (n == 0 || n == s.count-1) {
		return netip.Addr{}, false
	}

	base := s.prefix.Addr()
	if base.Is4() {
		as4 := base.As4()
		baseInt := uint32(as4[0])<<24 | uint32(as4[1])<<16 | uint32(as4[2])<<8 | uint32(as4[3])
		hostInt := baseInt + uint32(n)
		return netip.AddrFrom4([4]byte{
			byte(hostInt >> 24),
			byte(hostInt >> 16),
			byte(hostInt >> 8),
			byte(hostInt),
		}), true
	}

	as16 := base.As16()
	hostInt := new(big.Int).SetBytes(as16[:])
	hostInt.Add(hostInt, new(big.Int).SetUint64(n))

	bytes := hostInt.Bytes()
	if len(bytes) > 16 {
		return netip.Addr{}, false
	}

	var addr16 [16]byte
	copy(addr16[16-len(bytes):], bytes)
	return netip.AddrFrom16(addr16), true
}
