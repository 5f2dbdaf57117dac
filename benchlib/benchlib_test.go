// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package benchlib_test

import (
	"testing"

	fs "github.com/db47h/faultsim"
	"github.com/db47h/faultsim/benchlib"
)

// testCircuit checks the fault-free outputs of d for each vector in result.
func testCircuit(t *testing.T, d *fs.Descriptor, result map[string]string) {
	t.Helper()
	c, err := fs.New(d)
	if err != nil {
		t.Fatal(err)
	}
	for v, exp := range result {
		if err := c.Simulate(v); err != nil {
			t.Fatal(err)
		}
		if got := c.OutputString(false); got != exp {
			t.Errorf("%s: expected %s, got %s", v, exp, got)
		}
	}
}

func TestHalfAdder(t *testing.T) {
	testCircuit(t, benchlib.HalfAdder(), map[string]string{
		"00": "00", "01": "10", "10": "10", "11": "01",
	})
}

func TestFullAdder(t *testing.T) {
	res := make(map[string]string)
	for i := 0; i < 8; i++ {
		a, b, c := i>>2&1, i>>1&1, i&1
		s := a + b + c
		res[string([]byte{'0' + byte(a), '0' + byte(b), '0' + byte(c)})] = string([]byte{'0' + byte(s&1), '0' + byte(s>>1)})
	}
	testCircuit(t, benchlib.FullAdder(), res)
}

func TestMux(t *testing.T) {
	testCircuit(t, benchlib.Mux(), map[string]string{
		"100": "1", "010": "0", "101": "0", "011": "1",
	})
}

func TestC17(t *testing.T) {
	testCircuit(t, benchlib.C17(), map[string]string{
		"00000": "00",
		"11111": "10",
		"10101": "11",
	})
}

func TestParity(t *testing.T) {
	testCircuit(t, benchlib.Parity(5, false), map[string]string{"00000": "0", "10110": "1", "11110": "0"})
	testCircuit(t, benchlib.Parity(3, true), map[string]string{"000": "1", "100": "0"})
}

func TestNotChain(t *testing.T) {
	testCircuit(t, benchlib.NotChain(3), map[string]string{"0": "1", "1": "0"})
	testCircuit(t, benchlib.NotChain(4), map[string]string{"0": "0", "1": "1"})
}

func TestLookup(t *testing.T) {
	for _, n := range benchlib.Names() {
		d, ok := benchlib.Lookup(n)
		if !ok {
			t.Fatalf("%s: not found", n)
		}
		if _, err := fs.New(d); err != nil {
			t.Errorf("%s: %v", n, err)
		}
	}
	if _, ok := benchlib.Lookup("nope"); ok {
		t.Error("unexpected circuit")
	}
}
