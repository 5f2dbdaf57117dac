// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package faultsim_test

import (
	"reflect"
	"testing"

	fs "github.com/db47h/faultsim"
	"github.com/db47h/faultsim/bench"
	"github.com/db47h/faultsim/benchlib"
	"github.com/pkg/errors"
)

func TestNew_errors(t *testing.T) {
	td := []struct {
		name  string
		bench string
		err   error
	}{
		{"duplicate gate", "INPUT(a)\nOUTPUT(b)\nb = NOT(a)\nb = BUFF(a)", fs.ErrDuplicateGate},
		{"gate drives input", "INPUT(a)\nOUTPUT(a)\na = NOT(a)", fs.ErrDuplicateGate},
		{"unknown node", "INPUT(a)\nOUTPUT(b)\nb = AND(a, z)", fs.ErrUnknownNode},
		{"unknown output", "INPUT(a)\nOUTPUT(z)\nb = NOT(a)", fs.ErrUnknownNode},
		{"arity", "INPUT(a)\nINPUT(b)\nOUTPUT(c)\nc = NOT(a, b)", fs.ErrArity},
		{"cycle", "INPUT(a)\nOUTPUT(c)\nb = AND(a, c)\nc = NOT(b)", fs.ErrCycle},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			_, err := fs.New(bench.MustParse(d.bench))
			if errors.Cause(err) != d.err {
				t.Fatalf("expected %v, got %v", d.err, err)
			}
		})
	}
	if _, err := fs.New(nil); err == nil {
		t.Fatal("expected error on nil descriptor")
	}
}

func TestCircuit_accessors(t *testing.T) {
	c := newCircuit(t, benchlib.C17())
	if exp := []string{"1", "2", "3", "6", "7"}; !reflect.DeepEqual(c.Inputs(), exp) {
		t.Errorf("Inputs() = %v, got %v", exp, c.Inputs())
	}
	if exp := []string{"22", "23"}; !reflect.DeepEqual(c.Outputs(), exp) {
		t.Errorf("Outputs() = %v, got %v", exp, c.Outputs())
	}
	if c.NodeCount() != 11 || c.GateCount() != 6 {
		t.Errorf("expected 11 nodes and 6 gates, got %d and %d", c.NodeCount(), c.GateCount())
	}
	for n, exp := range map[string]int{"3": 2, "11": 2, "16": 2, "1": 1, "22": 0, "nope": -1} {
		if got := c.FanOut(n); got != exp {
			t.Errorf("FanOut(%s) = %d, got %d", n, exp, got)
		}
	}
	if s, ok := c.Signal("10"); !ok || s != fs.Untouched {
		t.Errorf("expected untouched node before simulation, got %v", s)
	}
}

func TestCircuit_InsertFault(t *testing.T) {
	c := newCircuit(t, benchlib.C17())
	for _, k := range []string{"16-11-1", "22-0", "10-1-0"} {
		c.InsertFault(fs.MustParseFault(k))
	}
	// no-ops: unknown node, unknown gate, gate not reading the node
	for _, k := range []string{"99-0", "99-11-1", "10-11-1", "19-1-1", "22-22-0"} {
		c.InsertFault(fs.MustParseFault(k))
	}
	c.InsertFault(fs.Fault{Node: "1", Value: fs.Unknown})

	// 10-1-0 is stored as 1-0 since 1 feeds a single gate input
	exp := []string{"1-0", "16-11-1", "22-0"}
	var got []string
	for _, f := range c.Faults() {
		got = append(got, f.String())
	}
	if !reflect.DeepEqual(got, exp) {
		t.Fatalf("expected %v, got %v", exp, got)
	}
	c.ClearFaults()
	if len(c.Faults()) != 0 {
		t.Fatalf("expected no active faults, got %v", c.Faults())
	}
}

func TestNew_initialFaults(t *testing.T) {
	d := benchlib.Gate(fs.And, 2)
	d.Faults = []fs.Fault{fs.MustParseFault("out-0"), fs.MustParseFault("zz-1")}
	c := newCircuit(t, d)
	if f := c.Faults(); len(f) != 1 || f[0].String() != "out-0" {
		t.Fatalf("expected [out-0], got %v", f)
	}
}
