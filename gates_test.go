// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package faultsim_test

import (
	"testing"

	fs "github.com/db47h/faultsim"
	"github.com/db47h/faultsim/benchlib"
	"github.com/pkg/errors"
)

func trace(t *testing.T, err error) {
	t.Helper()
	if err, ok := err.(interface {
		StackTrace() errors.StackTrace
	}); ok {
		for _, f := range err.StackTrace() {
			t.Logf("%+v ", f)
		}
	}
}

func newCircuit(t *testing.T, d *fs.Descriptor) *fs.Circuit {
	t.Helper()
	c, err := fs.New(d)
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}
	return c
}

// testGate checks the output of a single gate for each vector in result.
func testGate(t *testing.T, typ fs.GateType, n int, result map[string]string) {
	t.Helper()
	c := newCircuit(t, benchlib.Gate(typ, n))
	for v, exp := range result {
		if err := c.Simulate(v); err != nil {
			t.Fatal(err)
		}
		if got := c.OutputString(false); got != exp {
			t.Errorf("%s(%s) = %s, got %s", typ, v, exp, got)
		}
	}
}

func Test_gate_binary(t *testing.T) {
	td := []struct {
		typ fs.GateType
		out string // outputs for 00, 01, 10, 11
	}{
		{fs.And, "0001"},
		{fs.Nand, "1110"},
		{fs.Or, "0111"},
		{fs.Nor, "1000"},
		{fs.Xor, "0110"},
		{fs.Xnor, "1001"},
	}
	for _, d := range td {
		t.Run(d.typ.String(), func(t *testing.T) {
			testGate(t, d.typ, 2, map[string]string{
				"00": d.out[0:1],
				"01": d.out[1:2],
				"10": d.out[2:3],
				"11": d.out[3:4],
			})
		})
	}
	testGate(t, fs.Not, 1, map[string]string{"0": "1", "1": "0"})
	testGate(t, fs.Buff, 1, map[string]string{"0": "0", "1": "1"})
}

func Test_gate_wide(t *testing.T) {
	testGate(t, fs.And, 4, map[string]string{"1111": "1", "1101": "0"})
	testGate(t, fs.Nor, 3, map[string]string{"000": "1", "001": "0"})
	testGate(t, fs.Xor, 3, map[string]string{"111": "1", "110": "0", "100": "1"})
	testGate(t, fs.Xnor, 3, map[string]string{"111": "0", "000": "1"})
}

func Test_gate_unknown(t *testing.T) {
	td := []struct {
		typ fs.GateType
		in  string
		out string
	}{
		// controlling value before the indeterminate input
		{fs.And, "0U", "0"},
		{fs.Nand, "0X", "1"},
		{fs.Or, "1U", "1"},
		{fs.Nor, "1X", "0"},
		// indeterminate input seen first
		{fs.And, "U0", "U"},
		{fs.Or, "X1", "U"},
		{fs.And, "1U", "U"},
		{fs.Xor, "1U", "U"},
		{fs.Xnor, "X0", "U"},
	}
	for _, d := range td {
		testGate(t, d.typ, 2, map[string]string{d.in: d.out})
	}
	testGate(t, fs.Not, 1, map[string]string{"U": "U", "X": "U"})
}

func TestParseGateType(t *testing.T) {
	td := []struct {
		name string
		typ  fs.GateType
		err  bool
	}{
		{"AND", fs.And, false},
		{"nand", fs.Nand, false},
		{"Xnor", fs.Xnor, false},
		{"BUF", fs.Buff, false},
		{"BUFF", fs.Buff, false},
		{"DFF", 0, true},
	}
	for _, d := range td {
		typ, err := fs.ParseGateType(d.name)
		if (err != nil) != d.err {
			t.Errorf("ParseGateType(%q): unexpected error %v", d.name, err)
			continue
		}
		if !d.err && typ != d.typ {
			t.Errorf("ParseGateType(%q) = %v, got %v", d.name, d.typ, typ)
		}
	}
}
