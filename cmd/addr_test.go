package main

import (
	"net/netip"
	"testing"
)

func TestNewSweepSpace(t *testing.T) {
	testCases := []struct {
		name      string
		prefix    string
		skipEdges bool
		wantErr   bool
		wantCount uint64
	}{
		{"ipv4 /24", "192.0.2.0/24", false, false, 256},
		{"ipv4 /32", "192.0.2.1/32", false, false, 1},
		{"ipv4 /24 skip edges", "192.0.2.0/24", true, false, 256},
		{"ipv4 /31 skip edges", "192.0.2.0/31", true, true, 0},
		{"ipv6 /120", "2001:db8::/120", false, false, 256},
		{"ipv6 /66", "2001:db8::/66", false, false, 1 << 62},
		{"ipv6 skip edges", "2001:db8::/120", true, true, 0},
		{"ipv6 /64 too large", "2001:db8::/64", false, true, 0},
		{"ipv6 /48 too large", "2001:db8::/48", false, true, 0},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			prefix := netip.MustParsePrefix(tc.prefix)
			space, err := newSweepSpace(prefix.Masked(), tc.skipEdges)
			if (err != nil) != tc.wantErr {
				t.Fatalf("newSweepSpace(%s) error = %v, wantErr %v", tc.prefix, err, tc.wantErr)
			}
			if err != nil {
				return
			}
			if tc.wantCount != 0 && space.count != tc.wantCount {
				t.Errorf("count = %d, want %d", space.count, tc.wantCount)
			}
		})
	}
}

func TestSweepSpaceAddr(t *testing.T) {
	testCases := []struct {
		name   string
		prefix string
		n      uint64
		want   string
	}{
		{"ipv4 first", "192.0.2.0/24", 0, "192.0.2.0"},
		{"ipv4 middle", "192.0.2.0/24", 57, "192.0.2.57"},
		{"ipv4 last", "192.0.2.0/24", 255, "192.0.2.255"},
		{"ipv4 carries into third octet", "10.0.0.0/16", 256, "10.0.1.0"},
		{"ipv6 first", "2001:db8::/120", 0, "2001:db8::"},
		{"ipv6 offset", "2001:db8::/120", 255, "2001:db8::ff"},
		{"ipv6 carry", "2001:db8::/112", 65535, "2001:db8::ffff"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			prefix := netip.MustParsePrefix(tc.prefix)
			space, err := newSweepSpace(prefix.Masked(), false)
			if err != nil {
				t.Fatalf("newSweepSpace failed: %v", err)
			}
			addr, ok := space.addr(tc.n)
			if !ok {
				t.Fatalf("addr(%d) returned not ok", tc.n)
			}
			if addr.String() != tc.want {
				t.Errorf("addr(%d) = %s, want %s", tc.n, addr, tc.want)
			}
		})
	}
}

func TestSweepSpaceSkipEdges(t *testing.T) {
	prefix := netip.MustParsePrefix("192.0.2.0/24")
	space, err := newSweepSpace(prefix, true)
	if err != nil {
		t.Fatalf("newSweepSpace failed: %v", err)
	}

	if _, ok := space.addr(0); ok {
		t.Error("network address was not skipped")
	}
	if _, ok := space.addr(255); ok {
		t.Error("broadcast address was not skipped")
	}
	if addr, ok := space.addr(1); !ok || addr.String() != "192.0.2.1" {
		t.Errorf("addr(1) = %v, %v, want 192.0.2.1", addr, ok)
	}
	if addr, ok := space.addr(254); !ok || addr.String() != "192.0.2.254" {
		t.Errorf("addr(254) = %v, %v, want 192.0.2.254", addr, ok)
	}
}
