// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package faultsim

import (
	"strings"

	"github.com/pkg/errors"
)

// A Fault is a single stuck-at fault.
//
// Node is the faulty line. If InputTo is set, the fault only affects the
// branch of Node feeding the gate whose output is InputTo; otherwise the whole
// node is stuck. Value must be Low or High.
//
type Fault struct {
	Node    string
	InputTo string
	Value   Signal
}

// String returns the canonical key of f: "node-v" for node faults, and
// "gate-node-v" for faults on a single gate input.
//
func (f Fault) String() string {
	v := "0"
	if f.Value == High {
		v = "1"
	}
	if f.InputTo != "" {
		return f.InputTo + "-" + f.Node + "-" + v
	}
	return f.Node + "-" + v
}

// ParseFault parses a canonical fault key as returned by Fault.String.
//
func ParseFault(s string) (Fault, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	var f Fault
	switch len(parts) {
	case 2:
		f.Node = parts[0]
	case 3:
		f.InputTo, f.Node = parts[0], parts[1]
	default:
		return f, errors.Errorf("malformed fault %q", s)
	}
	switch parts[len(parts)-1] {
	case "0":
		f.Value = Low
	case "1":
		f.Value = High
	default:
		return f, errors.Errorf("malformed fault %q: stuck value must be 0 or 1", s)
	}
	for _, n := range parts[:len(parts)-1] {
		if n == "" {
			return f, errors.Errorf("malformed fault %q: empty node name", s)
		}
	}
	return f, nil
}

// MustParseFault is like ParseFault but panics on error.
//
func MustParseFault(s string) Fault {
	f, err := ParseFault(s)
	if err != nil {
		panic(err)
	}
	return f
}

// ParseFaults parses a list of fault keys.
//
func ParseFaults(keys []string) ([]Fault, error) {
	fs := make([]Fault, 0, len(keys))
	for _, k := range keys {
		f, err := ParseFault(k)
		if err != nil {
			return nil, err
		}
		fs = append(fs, f)
	}
	return fs, nil
}
