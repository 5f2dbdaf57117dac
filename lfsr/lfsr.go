// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package lfsr implements a linear feedback shift register pattern generator
// and a multiple input signature register (MISR).
//
// Both use internal XOR feedback. Registers are written as strings of '0' and
// '1', stage 0 first. The last stage feeds back into stage 0, and into every
// stage i > 0 whose seed bit is '1'.
//
package lfsr

import (
	"github.com/pkg/errors"
)

// ErrSize is returned when a seed, start value or input word does not match
// the register width.
//
var ErrSize = errors.New("register size mismatch")

func bits(s string) ([]byte, error) {
	b := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0', '1':
			b[i] = s[i] - '0'
		default:
			return nil, errors.Errorf("invalid bit %q in %q", s[i], s)
		}
	}
	return b, nil
}

type register struct {
	taps []byte
	cur  []byte
	next []byte
}

func newRegister(seed, start string) (register, error) {
	if len(seed) == 0 || len(seed) != len(start) {
		return register{}, errors.Wrapf(ErrSize, "seed %q, start %q", seed, start)
	}
	taps, err := bits(seed)
	if err != nil {
		return register{}, err
	}
	cur, err := bits(start)
	if err != nil {
		return register{}, err
	}
	return register{taps: taps, cur: cur, next: make([]byte, len(cur))}, nil
}

// shift advances the register, xoring in[i] into stage i if in is not nil.
func (r *register) shift(in []byte) {
	last := r.cur[len(r.cur)-1]
	r.next[0] = last
	for i := 1; i < len(r.cur); i++ {
		b := r.cur[i-1]
		if r.taps[i] != 0 {
			b ^= last
		}
		r.next[i] = b
	}
	if in != nil {
		for i := range r.next {
			r.next[i] ^= in[i]
		}
	}
	r.cur, r.next = r.next, r.cur
}

func (r *register) String() string {
	b := make([]byte, len(r.cur))
	for i, v := range r.cur {
		b[i] = '0' + v
	}
	return string(b)
}

// LFSR is a test pattern generator.
//
type LFSR struct {
	register
	start string
}

// New returns a new LFSR. seed gives the feedback taps and start the initial
// register value. Both must have the same length.
//
func New(seed, start string) (*LFSR, error) {
	r, err := newRegister(seed, start)
	if err != nil {
		return nil, err
	}
	return &LFSR{register: r, start: start}, nil
}

// Size returns the register width.
//
func (l *LFSR) Size() int { return len(l.cur) }

// Value returns the current register value.
//
func (l *LFSR) Value() string { return l.String() }

// Shift advances the register by one step. It returns false once the register
// is back to its start value.
//
func (l *LFSR) Shift() bool {
	l.shift(nil)
	return l.String() != l.start
}

// MISR compacts a stream of response words into a signature.
//
type MISR struct {
	register
	in []byte
}

// NewMISR returns a new MISR with the given feedback taps and initial value.
//
func NewMISR(seed, start string) (*MISR, error) {
	r, err := newRegister(seed, start)
	if err != nil {
		return nil, err
	}
	return &MISR{register: r, in: make([]byte, len(r.cur))}, nil
}

// Compress shifts the register once and folds word into it. word must be a
// binary string of the register width.
//
func (m *MISR) Compress(word string) error {
	if len(word) != len(m.cur) {
		return errors.Wrapf(ErrSize, "word %q, want %d bits", word, len(m.cur))
	}
	for i := 0; i < len(word); i++ {
		switch word[i] {
		case '0', '1':
			m.in[i] = word[i] - '0'
		default:
			return errors.Errorf("invalid bit %q in %q", word[i], word)
		}
	}
	m.shift(m.in)
	return nil
}

// Signature returns the current register value.
//
func (m *MISR) Signature() string { return m.String() }
