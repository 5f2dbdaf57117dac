// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package benchlib

import (
	"github.com/db47h/faultsim"
	"github.com/db47h/faultsim/bench"
)

// Mux returns a 2-way multiplexer in sum of products form.
//
//	Inputs: a, b, sel
//	Outputs: out
//	Function: If sel=0 then out=a else out=b.
//
func Mux() *faultsim.Descriptor {
	return bench.MustParse(`
INPUT(a)
INPUT(b)
INPUT(sel)
OUTPUT(out)
nsel = NOT(sel)
t0 = AND(a, nsel)
t1 = AND(b, sel)
out = OR(t0, t1)
`)
}
