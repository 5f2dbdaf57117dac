// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package bench reads and writes combinational netlists in ISCAS bench format:
//
//	# c17
//	INPUT(1)
//	INPUT(2)
//	OUTPUT(22)
//	10 = NAND(1, 3)
//
// Node names are words optionally followed by primes, like a or a''.
//
package bench

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/db47h/faultsim"
	"github.com/pkg/errors"
)

const name = `\w+'*`

var (
	ioRE   = regexp.MustCompile(`^(INPUT|OUTPUT)\s*\(\s*(` + name + `)\s*\)$`)
	gateRE = regexp.MustCompile(`^(` + name + `)\s*=\s*(\w+)\s*\(\s*(` + name + `(?:\s*,\s*` + name + `)*)\s*\)$`)
	sepRE  = regexp.MustCompile(`\s*,\s*`)
)

// Error is a parse error.
//
type Error struct {
	Line int
	Text string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

// Cause returns the underlying error.
//
func (e *Error) Cause() error { return e.Err }

// ErrSyntax is the cause of errors on lines that are neither an input or
// output declaration, a gate, a comment or blank.
//
var ErrSyntax = errors.New("syntax error")

// Parse reads a bench netlist from r.
//
// The returned descriptor is not validated beyond syntax; pass it to
// faultsim.New to build the circuit.
//
func Parse(r io.Reader) (*faultsim.Descriptor, error) {
	var (
		d  faultsim.Descriptor
		ln int
	)
	s := bufio.NewScanner(r)
	for s.Scan() {
		ln++
		l := strings.TrimSpace(s.Text())
		if l == "" || l[0] == '#' {
			continue
		}
		if m := ioRE.FindStringSubmatch(l); m != nil {
			if m[1] == "INPUT" {
				d.Inputs = append(d.Inputs, m[2])
			} else {
				d.Outputs = append(d.Outputs, m[2])
			}
			continue
		}
		m := gateRE.FindStringSubmatch(l)
		if m == nil {
			return nil, &Error{ln, l, ErrSyntax}
		}
		t, err := faultsim.ParseGateType(m[2])
		if err != nil {
			return nil, &Error{ln, l, err}
		}
		d.Gates = append(d.Gates, faultsim.GateSpec{
			Output: m[1],
			Type:   t,
			Inputs: sepRE.Split(m[3], -1),
		})
	}
	if err := s.Err(); err != nil {
		return nil, errors.Wrap(err, "read bench")
	}
	return &d, nil
}

// ParseString parses a bench netlist held in a string.
//
func ParseString(s string) (*faultsim.Descriptor, error) {
	return Parse(strings.NewReader(s))
}

// MustParse is like ParseString but panics on error. It is meant for netlists
// embedded in source code.
//
func MustParse(s string) *faultsim.Descriptor {
	d, err := ParseString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Load parses a bench netlist from r and builds a circuit from it.
//
func Load(r io.Reader) (*faultsim.Circuit, error) {
	d, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return faultsim.New(d)
}

// Write writes d to w in bench format. Faults are not written.
//
func Write(w io.Writer, d *faultsim.Descriptor) error {
	bw := bufio.NewWriter(w)
	for _, n := range d.Inputs {
		fmt.Fprintf(bw, "INPUT(%s)\n", n)
	}
	for _, n := range d.Outputs {
		fmt.Fprintf(bw, "OUTPUT(%s)\n", n)
	}
	if len(d.Gates) > 0 {
		bw.WriteByte('\n')
	}
	for _, g := range d.Gates {
		fmt.Fprintf(bw, "%s = %s(%s)\n", g.Output, g.Type, strings.Join(g.Inputs, ", "))
	}
	return errors.Wrap(bw.Flush(), "write bench")
}
