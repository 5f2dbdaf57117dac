// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package faulttest_test

import (
	"math/rand"
	"testing"

	fs "github.com/db47h/faultsim"
	"github.com/db47h/faultsim/bench"
	"github.com/db47h/faultsim/benchlib"
	"github.com/db47h/faultsim/faulttest"
)

func TestVectors(t *testing.T) {
	vs := faulttest.Vectors(3, nil)
	if len(vs) != 2+8 {
		t.Fatalf("expected 10 vectors, got %d", len(vs))
	}
	if vs[0] != "000" || vs[1] != "111" || vs[2] != "000" || vs[3] != "001" || vs[9] != "111" {
		t.Fatalf("unexpected vectors %v", vs)
	}
	vs = faulttest.Vectors(16, rand.New(rand.NewSource(42)))
	if len(vs) != 2+1<<12 {
		t.Fatalf("expected %d vectors, got %d", 2+1<<12, len(vs))
	}
	for _, v := range vs {
		if len(v) != 16 {
			t.Fatalf("bad vector %q", v)
		}
	}
}

func TestCompareCircuits(t *testing.T) {
	or := bench.MustParse(`
INPUT(in0)
INPUT(in1)
OUTPUT(out)
na = NAND(in0, in0)
nb = NAND(in1, in1)
out = NAND(na, nb)
`)
	faulttest.CompareCircuits(t, benchlib.Gate(fs.Or, 2), or)
}

func TestCompareCoverage(t *testing.T) {
	faulttest.CompareCoverage(t, benchlib.C17(), nil)
}
