// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package config

import (
	"fmt"
	"strings"

	"github.com/db47h/faultsim"
	"github.com/pkg/errors"
)

var modes = map[string]bool{
	ModeSimulate: true,
	ModeCoverage: true,
	ModeGroups:   true,
	ModeSCOAP:    true,
	ModeATPG:     true,
	ModeBIST:     true,
}

func binary(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '0' && s[i] != '1' {
			return false
		}
	}
	return true
}

// Validate checks the config for:
//   - a circuit source (exactly one of bench or builtin)
//   - a known mode and log level
//   - well formed vectors, fault keys and BIST seeds
//
// All problems are reported at once.
func Validate(cfg *RunConfig) error {
	var errs []string

	switch {
	case cfg.Bench == "" && cfg.Builtin == "":
		errs = append(errs, "one of bench or builtin is required")
	case cfg.Bench != "" && cfg.Builtin != "":
		errs = append(errs, "only one of bench or builtin may be set")
	}
	if !modes[cfg.Mode] {
		errs = append(errs, fmt.Sprintf("unknown mode %q", cfg.Mode))
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		errs = append(errs, err.Error())
	}
	if cfg.Workers < 0 {
		errs = append(errs, fmt.Sprintf("workers must not be negative, got %d", cfg.Workers))
	}
	for i, v := range cfg.Vectors {
		for _, r := range v {
			if _, err := faultsim.ParseSignal(r); err != nil {
				errs = append(errs, fmt.Sprintf("vectors[%d]: invalid character %q", i, r))
				break
			}
		}
	}
	for i, f := range cfg.Faults {
		if _, err := faultsim.ParseFault(f); err != nil {
			errs = append(errs, fmt.Sprintf("faults[%d]: %v", i, err))
		}
	}
	b := &cfg.BIST
	for _, s := range []struct{ name, v string }{
		{"lfsr_seed", b.LFSRSeed},
		{"lfsr_start", b.LFSRStart},
		{"misr_seed", b.MISRSeed},
	} {
		if !binary(s.v) {
			errs = append(errs, fmt.Sprintf("bist.%s: %q is not a binary string", s.name, s.v))
		}
	}
	if b.LFSRSeed != "" && b.LFSRStart != "" && len(b.LFSRSeed) != len(b.LFSRStart) {
		errs = append(errs, "bist: lfsr_seed and lfsr_start must have the same length")
	}
	if b.MaxCycles < 0 {
		errs = append(errs, fmt.Sprintf("bist.max_cycles must not be negative, got %d", b.MaxCycles))
	}
	if b.Trials < 0 {
		errs = append(errs, fmt.Sprintf("bist.trials must not be negative, got %d", b.Trials))
	}

	if len(errs) > 0 {
		return errors.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
