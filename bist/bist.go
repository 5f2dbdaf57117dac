// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package bist evaluates built-in self-test configurations: an LFSR feeds
// pseudo random test vectors to a circuit and a MISR compacts its responses
// into a signature.
//
// A fault is covered when at least one generated vector detects it. A covered
// fault escapes when the signature of the faulty circuit still matches the
// fault-free one.
//
package bist

import (
	"math/rand"

	"github.com/db47h/faultsim"
	"github.com/db47h/faultsim/lfsr"
	"github.com/pkg/errors"
)

// DefaultMaxCycles is the default limit on the number of generated vectors.
//
const DefaultMaxCycles = 1000

// Config describes a BIST setup.
//
// The LFSR width is the circuit input count and the MISR width its output
// count.
//
type Config struct {
	LFSRSeed  string // LFSR feedback taps
	LFSRStart string // first test vector
	MISRSeed  string // MISR feedback taps
	MaxCycles int    // max number of test vectors
}

func randBits(n int, r *rand.Rand) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '0' + byte(r.Intn(2))
	}
	return string(b)
}

// RandomConfig returns a configuration with random seeds and start value for
// circuit c.
//
func RandomConfig(c *faultsim.Circuit, maxCycles int, r *rand.Rand) Config {
	ni, no := len(c.Inputs()), len(c.Outputs())
	return Config{
		LFSRSeed:  randBits(ni, r),
		LFSRStart: randBits(ni, r),
		MISRSeed:  randBits(no, r),
		MaxCycles: maxCycles,
	}
}

// Validate checks that cfg fits circuit c.
//
func (cfg *Config) Validate(c *faultsim.Circuit) error {
	ni, no := len(c.Inputs()), len(c.Outputs())
	if len(cfg.LFSRSeed) != ni || len(cfg.LFSRStart) != ni {
		return errors.Wrapf(lfsr.ErrSize, "LFSR seed and start must have %d bits", ni)
	}
	if len(cfg.MISRSeed) != no {
		return errors.Wrapf(lfsr.ErrSize, "MISR seed must have %d bits", no)
	}
	if cfg.MaxCycles <= 0 {
		return errors.Errorf("invalid max cycles %d", cfg.MaxCycles)
	}
	return nil
}

// session runs up to cfg.MaxCycles LFSR vectors through c with its current
// active faults. It returns the final MISR signature, the number of vectors
// applied and whether any of them detected a fault.
//
// The MISR is initialized with the response to the first vector and
// compresses every later response.
func session(c *faultsim.Circuit, cfg *Config) (sig string, cycles int, detected bool, err error) {
	l, err := lfsr.New(cfg.LFSRSeed, cfg.LFSRStart)
	if err != nil {
		return "", 0, false, errors.Wrap(err, "LFSR")
	}
	var m *lfsr.MISR
	for cycles < cfg.MaxCycles {
		if err = c.Simulate(l.Value()); err != nil {
			return "", cycles, detected, err
		}
		if c.IsFaultDetected() {
			detected = true
		}
		out := c.OutputString(true)
		if m == nil {
			if m, err = lfsr.NewMISR(cfg.MISRSeed, out); err != nil {
				return "", cycles, detected, errors.Wrap(err, "MISR")
			}
		} else if err = m.Compress(out); err != nil {
			return "", cycles, detected, errors.Wrap(err, "MISR")
		}
		cycles++
		if !l.Shift() {
			break
		}
	}
	if m == nil {
		return "", 0, false, errors.Errorf("invalid max cycles %d", cfg.MaxCycles)
	}
	return m.Signature(), cycles, detected, nil
}

// Signature returns the fault-free signature of c for cfg and the number of
// vectors applied. Active faults of c are cleared.
//
func Signature(c *faultsim.Circuit, cfg Config) (string, int, error) {
	if err := cfg.Validate(c); err != nil {
		return "", 0, err
	}
	c.ClearFaults()
	sig, n, _, err := session(c, &cfg)
	return sig, n, err
}

// Result is the outcome of a BIST session for a single fault.
//
type Result struct {
	Fault   faultsim.Fault
	Covered bool // detected by at least one vector
	Escaped bool // signature matches the fault-free signature
}

// TestFault runs a BIST session on c with only fault f active and compares
// the resulting signature with the fault-free signature. Active faults of c
// are replaced by f.
//
func TestFault(c *faultsim.Circuit, cfg Config, f faultsim.Fault, signature string) (Result, error) {
	if err := cfg.Validate(c); err != nil {
		return Result{Fault: f}, err
	}
	c.ClearFaults()
	c.InsertFault(f)
	defer c.ClearFaults()
	sig, _, detected, err := session(c, &cfg)
	if err != nil {
		return Result{Fault: f}, errors.Wrapf(err, "fault %s", f)
	}
	return Result{Fault: f, Covered: detected, Escaped: sig == signature}, nil
}
