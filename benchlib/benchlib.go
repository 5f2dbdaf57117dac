// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package benchlib

import (
	"sort"

	"github.com/db47h/faultsim"
	"github.com/db47h/faultsim/bench"
)

// C17Bench is the ISCAS-85 c17 benchmark.
//
const C17Bench = `# c17
# 5 inputs
# 2 outputs
# 6 NAND gates

INPUT(1)
INPUT(2)
INPUT(3)
INPUT(6)
INPUT(7)

OUTPUT(22)
OUTPUT(23)

10 = NAND(1, 3)
11 = NAND(3, 6)
16 = NAND(2, 11)
19 = NAND(11, 7)
22 = NAND(10, 16)
23 = NAND(16, 19)
`

// C17 returns the ISCAS-85 c17 benchmark.
//
func C17() *faultsim.Descriptor {
	return bench.MustParse(C17Bench)
}

var lib = map[string]func() *faultsim.Descriptor{
	"c17":       C17,
	"halfadder": HalfAdder,
	"fulladder": FullAdder,
	"mux":       Mux,
	"and2":      func() *faultsim.Descriptor { return Gate(faultsim.And, 2) },
	"nand2":     func() *faultsim.Descriptor { return Gate(faultsim.Nand, 2) },
	"or2":       func() *faultsim.Descriptor { return Gate(faultsim.Or, 2) },
	"nor2":      func() *faultsim.Descriptor { return Gate(faultsim.Nor, 2) },
	"xor2":      func() *faultsim.Descriptor { return Gate(faultsim.Xor, 2) },
	"xnor2":     func() *faultsim.Descriptor { return Gate(faultsim.Xnor, 2) },
	"not":       func() *faultsim.Descriptor { return Gate(faultsim.Not, 1) },
	"buff":      func() *faultsim.Descriptor { return Gate(faultsim.Buff, 1) },
	"parity8":   func() *faultsim.Descriptor { return Parity(8, false) },
	"notchain4": func() *faultsim.Descriptor { return NotChain(4) },
}

// Lookup returns a fresh descriptor for the named library circuit.
//
func Lookup(name string) (*faultsim.Descriptor, bool) {
	fn, ok := lib[name]
	if !ok {
		return nil, false
	}
	return fn(), true
}

// Names returns the names of all library circuits, sorted.
//
func Names() []string {
	r := make([]string, 0, len(lib))
	for n := range lib {
		r = append(r, n)
	}
	sort.Strings(r)
	return r
}
