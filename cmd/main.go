// Package main implements randsweep, a tool that walks the addresses of a
// CIDR prefix in a deterministic pseudo-random order without holding the
// address space in memory. By default it prints each address; with -ping it
// probes each one with an ICMP echo instead.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/netip"
	"os"
	"strconv"

	"github.com/lanrat/perfectrand"
)

// Command-line flags
var (
	seedFlag     = flag.String("seed", "", "permutation seed: a uint64 (decimal or 0x hex), or any other string hashed into a seed (default: random)")
	rounds       = flag.Int("rounds", perfectrand.DefaultRounds, "Feistel rounds used by the permutation")
	limit        = flag.Uint64("limit", 0, "stop after this many addresses (0 sweeps the whole prefix)")
	ping         = flag.Bool("ping", false, "probe each address with an ICMP echo instead of printing it")
	workers      = flag.Int("workers", defaultWorkers, "number of concurrent probe workers")
	timeout      = flag.Duration("timeout", defaultTimeout, "timeout for each probe")
	skipEdges    = flag.Bool("skip-edges", false, "skip the network and broadcast addresses (IPv4 only)")
	configPath   = flag.String("config", "", "load sweep and probe settings from an ini profile")
	verbose      = flag.Bool("verbose", false, "enable verbose logging")
	printVersion = flag.Bool("version", false, "print version and exit")
)

// Global variables
var (
	// l is the logger instance used throughout the application
	l = log.New(os.Stderr, "", log.LstdFlags)
	// version is the application version string, set at build time
	version = "dev"
)

// main parses the command-line flags and optional ini profile, builds the
// shuffler over the prefix's host space, and runs either the print or the
// probe mode.
func main() {
	// Set custom usage function
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s: [OPTION]... CIDR\n\tCIDR example: \"192.0.2.0/24\"\nOPTIONS:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	// check for version flag
	if *printVersion {
		fmt.Println(showVersion())
		return
	}

	// require CIDR argument
	if flag.NArg() != 1 {
		flag.Usage()
		return
	}

	if *configPath != "" {
		profile, err := loadProfile(*configPath)
		check(err)
		applyProfile(profile)
	}

	prefix, err := netip.ParsePrefix(flag.Arg(0))
	check(err)
	if !prefix.IsValid() {
		l.Fatalf("parsed CIDR: %s is not valid", prefix.String())
	}
	prefix = prefix.Masked()

	space, err := newSweepSpace(prefix, *skipEdges)
	check(err)

	seed, err := resolveSeed(*seedFlag)
	check(err)

	shuffler, err := perfectrand.New(space.count, seed, *rounds)
	check(err)

	// always report the seed so a sweep can be reproduced
	l.Printf("sweeping %s: %d addresses, seed %d, %d rounds", prefix, space.count, seed, *rounds)

	if *ping {
		err = probe(context.Background(), space, shuffler, *limit)
		check(err)
		return
	}

	printAddrs(space, shuffler, *limit)
}

// printAddrs writes the permuted addresses of the sweep space to stdout,
// one per line, stopping after limit addresses when limit is nonzero.
func printAddrs(space *sweepSpace, shuffler *perfectrand.Shuffler, limit uint64) {
	iter := shuffler.Iterator()
	printed := uint64(0)
	for {
		idx, ok := iter.Next()
		if !ok {
			return
		}
		addr, ok := space.addr(idx)
		if !ok {
			// edge address filtered out by -skip-edges
			continue
		}
		fmt.Println(addr)
		printed++
		if limit > 0 && printed >= limit {
			return
		}
	}
}

// resolveSeed turns the -seed flag into a seed value. An empty string draws
// a random seed, a parseable integer is used directly, and anything else is
// hashed so memorable run names work as seeds.
func resolveSeed(s string) (uint64, error) {
	if s == "" {
		return perfectrand.RandomSeed()
	}
	if n, err := strconv.ParseUint(s, 0, 64); err == nil {
		return n, nil
	}
	v("hashing seed string %q", s)
	return perfectrand.SeedFromString(s), nil
}

// check logs err and exits if it is non-nil.
func check(err error) {
	if err != nil {
		l.Fatal(err)
	}
}

// v logs a message if verbose logging is enabled.
func v(format string, a ...any) {
	if *verbose {
		l.Printf(format, a...)
	}
}

// showVersion returns a formatted version string for display.
func showVersion() string {
	return fmt.Sprintf("Version: %s", version)
}
