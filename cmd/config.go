package main

import (
	"flag"
	"time"

	"gopkg.in/ini.v1"
)

// Profile is an ini file supplying the same settings as the command-line
// flags, for sweeps that get re-run. Explicit flags take precedence over
// profile values. Both sections are optional:
//
//	[sweep]
//	seed       = census-2026
//	rounds     = 4
//	limit      = 1000
//	skip-edges = true
//
//	[probe]
//	workers = 50
//	timeout = 5s
type Profile struct {
	Sweep SweepProfile
	Probe ProbeProfile
}

// SweepProfile holds the [sweep] section.
type SweepProfile struct {
	Seed      string
	Rounds    int
	Limit     uint64
	SkipEdges bool `ini:"skip-edges"`
}

// ProbeProfile holds the [probe] section.
type ProbeProfile struct {
	Workers int
	Timeout time.Duration
}

// loadProfile parses an ini profile from path.
func loadProfile(path string) (*Profile, error) {
	iniOpt := ini.LoadOptions{
		Insensitive:  true,
		AllowShadows: true,
	}
	iniCfg, err := ini.LoadSources(iniOpt, path)
	if err != nil {
		return nil, err
	}

	profile := new(Profile)
	if err := iniCfg.Section("sweep").MapTo(&profile.Sweep); err != nil {
		return nil, err
	}
	if err := iniCfg.Section("probe").MapTo(&profile.Probe); err != nil {
		return nil, err
	}

	return profile, nil
}

// applyProfile copies profile values into any flag that was not set
// explicitly on the command line.
func applyProfile(profile *Profile) {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if !set["seed"] && profile.Sweep.Seed != "" {
		*seedFlag = profile.Sweep.Seed
	}
	if !set["rounds"] && profile.Sweep.Rounds != 0 {
		*rounds = profile.Sweep.Rounds
	}
	if !set["limit"] && profile.Sweep.Limit != 0 {
		*limit = profile.Sweep.Limit
	}
	if !set["skip-edges"] && profile.Sweep.SkipEdges {
		*skipEdges = true
	}
	if !set["workers"] && profile.Probe.Workers != 0 {
		*workers = profile.Probe.Workers
	}
	if !set["timeout"] && profile.Probe.Timeout != 0 {
		*timeout = profile.Probe.Timeout
	}
}
