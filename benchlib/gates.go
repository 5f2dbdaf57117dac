// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package benchlib provides a library of small reference circuits for
// faultsim, used by tests and by the command line tool.
//
package benchlib

import (
	"strconv"

	"github.com/db47h/faultsim"
)

// common node names
const (
	pIn  = "in"
	pOut = "out"
)

// make numbered node names
func bus(bits int, name string) []string {
	b := make([]string, bits)
	for i := range b {
		b[i] = name + strconv.Itoa(i)
	}
	return b
}

// Gate returns a circuit made of a single gate of type t with n inputs named
// in0, in1... and one output named out. Unary gates always get one input.
//
//	Inputs: in0..in<n-1>
//	Outputs: out
//
func Gate(t faultsim.GateType, n int) *faultsim.Descriptor {
	if t == faultsim.Not || t == faultsim.Buff || n < 1 {
		n = 1
	}
	ins := bus(n, pIn)
	return &faultsim.Descriptor{
		Inputs:  ins,
		Outputs: []string{pOut},
		Gates:   []faultsim.GateSpec{{Output: pOut, Type: t, Inputs: ins}},
	}
}

// NotChain returns a chain of n inverters.
//
//	Inputs: in
//	Outputs: out
//	Function: out = in if n is even, !in otherwise
//
func NotChain(n int) *faultsim.Descriptor {
	d := &faultsim.Descriptor{Inputs: []string{pIn}, Outputs: []string{pOut}}
	prev := pIn
	for i := 0; i < n; i++ {
		out := "n" + strconv.Itoa(i)
		if i == n-1 {
			out = pOut
		}
		d.Gates = append(d.Gates, faultsim.GateSpec{Output: out, Type: faultsim.Not, Inputs: []string{prev}})
		prev = out
	}
	return d
}

// Parity returns a balanced tree of 2-input XOR gates computing the parity of
// n inputs. With odd set, the root gate is an XNOR.
//
//	Inputs: in0..in<n-1>
//	Outputs: out
//
func Parity(n int, odd bool) *faultsim.Descriptor {
	if n < 2 {
		n = 2
	}
	d := &faultsim.Descriptor{Inputs: bus(n, pIn), Outputs: []string{pOut}}
	level := d.Inputs
	k := 0
	for len(level) > 1 {
		var next []string
		for i := 0; i+1 < len(level); i += 2 {
			out := "x" + strconv.Itoa(k)
			k++
			d.Gates = append(d.Gates, faultsim.GateSpec{Output: out, Type: faultsim.Xor, Inputs: []string{level[i], level[i+1]}})
			next = append(next, out)
		}
		if len(level)%2 != 0 {
			next = append(next, level[len(level)-1])
		}
		level = next
	}
	root := &d.Gates[len(d.Gates)-1]
	root.Output = pOut
	if odd {
		root.Type = faultsim.Xnor
	}
	return d
}
