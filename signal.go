// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package faultsim

import "github.com/pkg/errors"

// Signal is the value carried by a node during simulation.
//
// Low and High are plain logic values. D and DNot encode a divergence between
// the fault-free and the faulty circuit: D is High in the good circuit and Low
// in the faulty one, DNot is the opposite.
//
type Signal uint8

// Signal values.
const (
	Low Signal = iota
	High
	DontCare
	D
	DNot
	Unknown
	Untouched
)

var signalSymbols = [...]string{
	Low:       "0",
	High:      "1",
	DontCare:  "X",
	D:         "D",
	DNot:      "D'",
	Unknown:   "U",
	Untouched: "_",
}

func (s Signal) String() string {
	if int(s) < len(signalSymbols) {
		return signalSymbols[s]
	}
	return "?"
}

// indeterminate reports whether s carries no usable logic value.
func (s Signal) indeterminate() bool {
	return s == Untouched || s == Unknown || s == DontCare
}

// IsFaulty returns true if s is D or DNot.
//
func (s Signal) IsFaulty() bool {
	return s == D || s == DNot
}

// Good returns the value of s in the fault-free circuit.
//
func (s Signal) Good() Signal {
	switch s {
	case D:
		return High
	case DNot:
		return Low
	}
	return s
}

// Faulty returns the value of s in the faulty circuit.
//
func (s Signal) Faulty() Signal {
	switch s {
	case D:
		return Low
	case DNot:
		return High
	}
	return s
}

func (s Signal) not() Signal {
	switch s {
	case Low:
		return High
	case High:
		return Low
	}
	return s
}

// ParseSignal converts a vector character to a Signal.
//
//	'0' => Low
//	'1' => High
//	'U', 'u' => Unknown
//	'X', 'x' => DontCare
//
func ParseSignal(r rune) (Signal, error) {
	switch r {
	case '0':
		return Low, nil
	case '1':
		return High, nil
	case 'U', 'u':
		return Unknown, nil
	case 'X', 'x':
		return DontCare, nil
	}
	return Unknown, errors.Wrapf(ErrInvalidVector, "invalid signal %q", r)
}
