// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package benchlib

import (
	"github.com/db47h/faultsim"
	"github.com/db47h/faultsim/bench"
)

// HalfAdder returns a half adder.
//
//	Inputs: a, b
//	Outputs: s, c
//	Function: s = lsb(a+b), c = msb(a+b)
//
func HalfAdder() *faultsim.Descriptor {
	return bench.MustParse(`
INPUT(a)
INPUT(b)
OUTPUT(s)
OUTPUT(c)
s = XOR(a, b)
c = AND(a, b)
`)
}

// FullAdder returns a full adder built from two half adders.
//
//	Inputs: a, b, c
//	Outputs: s, co
//	Function: s = lsb(a+b+c), co = msb(a+b+c)
//
func FullAdder() *faultsim.Descriptor {
	return bench.MustParse(`
INPUT(a)
INPUT(b)
INPUT(c)
OUTPUT(s)
OUTPUT(co)
h = XOR(a, b)
s = XOR(h, c)
c1 = AND(a, b)
c2 = AND(h, c)
co = OR(c1, c2)
`)
}
