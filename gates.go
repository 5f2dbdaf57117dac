// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package faultsim

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// GateType identifies the logic function of a gate.
//
type GateType uint8

// Supported gate types.
const (
	And GateType = iota
	Or
	Xor
	Not
	Nand
	Nor
	Xnor
	Buff
)

var gateNames = [...]string{
	And:  "AND",
	Or:   "OR",
	Xor:  "XOR",
	Not:  "NOT",
	Nand: "NAND",
	Nor:  "NOR",
	Xnor: "XNOR",
	Buff: "BUFF",
}

func (t GateType) String() string {
	if int(t) < len(gateNames) {
		return gateNames[t]
	}
	return "GATE(" + strconv.Itoa(int(t)) + ")"
}

// ParseGateType returns the GateType for the given name. The lookup is case
// insensitive and also accepts BUF as an alias for BUFF.
//
func ParseGateType(name string) (GateType, error) {
	n := strings.ToUpper(name)
	if n == "BUF" {
		return Buff, nil
	}
	for i, gn := range gateNames {
		if gn == n {
			return GateType(i), nil
		}
	}
	return 0, errors.Errorf("unknown gate type %q", name)
}

// unary returns true for single input gates.
func (t GateType) unary() bool {
	return t == Not || t == Buff
}

// logic describes AND-like gates: a controlling input value short-circuits the
// output to the controlled value, otherwise the output is the inverse of it.
type logic struct {
	control    Signal
	controlled Signal
}

var gateLogic = [...]logic{
	And:  {Low, Low},
	Nand: {Low, High},
	Or:   {High, High},
	Nor:  {High, Low},
}

// eval computes the output of a gate of type t given its input values. Inputs
// must already be resolved to single valued signals (no D or DNot).
//
// Inputs are scanned left to right: an indeterminate input seen before any
// controlling value aborts with Unknown.
func (t GateType) eval(in []Signal) Signal {
	switch t {
	case And, Nand, Or, Nor:
		l := gateLogic[t]
		for _, s := range in {
			switch {
			case s.indeterminate():
				return Unknown
			case s == l.control:
				return l.controlled
			}
		}
		return l.controlled.not()
	case Xor, Xnor:
		r := Low
		for _, s := range in {
			if s.indeterminate() {
				return Unknown
			}
			r ^= s
		}
		if t == Xnor {
			r = r.not()
		}
		return r
	case Not, Buff:
		s := in[0]
		if s.indeterminate() {
			return Unknown
		}
		if t == Not {
			return s.not()
		}
		return s
	}
	return Unknown
}

// equivalent reports whether a stuck-at-in fault on an input of a gate of
// type t is structurally equivalent to a stuck-at-out fault on its output.
//
func (t GateType) equivalent(in, out Signal) bool {
	switch t {
	case And:
		return in == Low && out == Low
	case Or:
		return in == High && out == High
	case Nand:
		return in == Low && out == High
	case Nor:
		return in == High && out == Low
	case Not:
		return in == High && out == Low || in == Low && out == High
	case Buff:
		return in == out
	}
	return false
}

// dominates reports whether a stuck-at-in fault on an input of a gate of type
// t dominates a stuck-at-out fault on its output: any vector detecting the
// former also detects the latter.
//
func (t GateType) dominates(in, out Signal) bool {
	switch t {
	case And:
		return in == High && out == High
	case Or:
		return in == Low && out == Low
	case Nand:
		return in == High && out == Low
	case Nor:
		return in == Low && out == High
	}
	return false
}
