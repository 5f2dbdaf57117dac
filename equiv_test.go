// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package faultsim_test

import (
	"reflect"
	"sort"
	"testing"
	"testing/quick"

	fs "github.com/db47h/faultsim"
	"github.com/db47h/faultsim/bench"
	"github.com/db47h/faultsim/benchlib"
	"github.com/db47h/faultsim/faulttest"
)

func keys(faults []fs.Fault) []string {
	r := make([]string, len(faults))
	for i, f := range faults {
		r[i] = f.String()
	}
	return r
}

func sorted(s []string) []string {
	sort.Strings(s)
	return s
}

func TestCircuit_AllFaults(t *testing.T) {
	c := newCircuit(t, bench.MustParse(and2))
	exp := []string{"a-0", "a-1", "c-a-0", "c-a-1", "b-0", "b-1", "c-b-0", "c-b-1", "c-0", "c-1"}
	if got := keys(c.AllFaults()); !reflect.DeepEqual(got, exp) {
		t.Fatalf("expected %v, got %v", exp, got)
	}
}

// n is both a circuit output and the input of another gate.
const outputFeedsGate = `
INPUT(a)
INPUT(b)
OUTPUT(n)
OUTPUT(g)
n = BUFF(a)
g = AND(n, b)
`

func TestCircuit_Groups(t *testing.T) {
	not := bench.MustParse("INPUT(a)\nOUTPUT(b)\nb = NOT(a)")
	td := []struct {
		name  string
		d     *fs.Descriptor
		fault string
		group []string
	}{
		{"AND", bench.MustParse(and2), "a-0", []string{"a-0", "b-0", "c-0", "c-a-0", "c-b-0"}},
		{"AND", bench.MustParse(and2), "a-1", []string{"a-1", "c-a-1"}},
		{"NOT", not, "a-1", []string{"a-1", "b-0", "b-a-1"}},
		{"NOT", not, "b-1", []string{"a-0", "b-1", "b-a-0"}},
		// stems do not absorb their consumers' faults
		{"c17", benchlib.C17(), "11-1", []string{"11-1", "11-3-0", "11-6-0", "6-0"}},
		{"c17", benchlib.C17(), "11-0", []string{"11-0"}},
		// n is observed directly: its faults stay out of g's groups
		{"outputFeedsGate", bench.MustParse(outputFeedsGate), "g-n-0", []string{"a-0", "g-n-0", "n-0", "n-a-0"}},
		{"outputFeedsGate", bench.MustParse(outputFeedsGate), "g-0", []string{"b-0", "g-0", "g-b-0"}},
	}
	for _, d := range td {
		t.Run(d.name+"/"+d.fault, func(t *testing.T) {
			c := newCircuit(t, d.d)
			got := sorted(keys(c.GroupOf(fs.MustParseFault(d.fault))))
			if !reflect.DeepEqual(got, d.group) {
				t.Fatalf("expected %v, got %v", d.group, got)
			}
		})
	}
}

func TestCircuit_Groups_partition(t *testing.T) {
	c := newCircuit(t, benchlib.FullAdder())
	seen := make(map[fs.Fault]bool)
	for _, g := range c.Groups() {
		for _, f := range g {
			if seen[f] {
				t.Fatalf("fault %v in more than one group", f)
			}
			seen[f] = true
		}
	}
	if len(seen) != len(c.AllFaults()) {
		t.Fatalf("groups cover %d faults out of %d", len(seen), len(c.AllFaults()))
	}
	if c.GroupOf(fs.MustParseFault("zz-0")) != nil {
		t.Fatal("expected nil group for unknown fault")
	}
}

func TestCircuit_Dominates(t *testing.T) {
	c := newCircuit(t, bench.MustParse(and2))
	for _, k := range []string{"a-1", "c-a-1", "b-1"} {
		d, ok := c.Dominates(fs.MustParseFault(k))
		if !ok || d.String() != "c-1" {
			t.Errorf("%s: expected to dominate c-1, got %v, %v", k, d, ok)
		}
	}
	if _, ok := c.Dominates(fs.MustParseFault("c-1")); ok {
		t.Error("c-1 should not dominate anything")
	}
}

func TestCircuit_FaultsCoveredBy(t *testing.T) {
	c := newCircuit(t, bench.MustParse(and2))
	td := []struct {
		v   string
		exp []string
	}{
		{"11", []string{"a-0", "c-a-0", "b-0", "c-b-0", "c-0"}},
		{"01", []string{"a-1", "c-a-1", "c-1"}},
		{"10", []string{"b-1", "c-b-1", "c-1"}},
		{"00", []string{"c-1"}},
		{"UU", nil},
	}
	for _, d := range td {
		covered, err := c.FaultsCoveredBy(d.v)
		if err != nil {
			t.Fatal(err)
		}
		if got := keys(covered); len(got) != len(d.exp) || len(got) > 0 && !reflect.DeepEqual(got, d.exp) {
			t.Errorf("%s: expected %v, got %v", d.v, d.exp, got)
		}
	}
}

func TestCircuit_FaultsCoveredBy_restoresFaults(t *testing.T) {
	c := newCircuit(t, bench.MustParse(and2))
	c.InsertFault(fs.MustParseFault("c-0"))
	if _, err := c.FaultsCoveredBy("11"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.FaultsCoveredByIndividually("11"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.FaultsCoveredBy("1?"); err == nil {
		t.Fatal("expected error on invalid vector")
	}
	if got := keys(c.Faults()); !reflect.DeepEqual(got, []string{"c-0"}) {
		t.Fatalf("active faults not restored: %v", got)
	}
}

func TestCircuit_Coverage(t *testing.T) {
	c := newCircuit(t, bench.MustParse(and2))
	r, err := c.Coverage("11", "01", "10", "01")
	if err != nil {
		t.Fatal(err)
	}
	if r.Total != 10 || len(r.Covered) != 10 || r.Ratio() != 1 {
		t.Fatalf("expected full coverage, got %d/%d", len(r.Covered), r.Total)
	}
	news := [][]string{
		{"a-0", "c-a-0", "b-0", "c-b-0", "c-0"},
		{"a-1", "c-a-1", "c-1"},
		{"b-1", "c-b-1"},
		{},
	}
	for i, v := range r.Vectors {
		if got := keys(v.New); !reflect.DeepEqual(got, news[i]) {
			t.Errorf("%s: expected new %v, got %v", v.Vector, news[i], got)
		}
	}
}

func TestCircuit_FaultsCoveredBy_bruteForce(t *testing.T) {
	td := []struct {
		name string
		d    *fs.Descriptor
	}{
		{"c17", benchlib.C17()},
		{"halfadder", benchlib.HalfAdder()},
		{"fulladder", benchlib.FullAdder()},
		{"mux", benchlib.Mux()},
		{"parity5", benchlib.Parity(5, true)},
		{"notchain3", benchlib.NotChain(3)},
		{"nand3", benchlib.Gate(fs.Nand, 3)},
		{"nor3", benchlib.Gate(fs.Nor, 3)},
		{"outputFeedsGate", bench.MustParse(outputFeedsGate)},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			faulttest.CompareCoverage(t, d.d, nil)
		})
	}
	// indeterminate inputs
	faulttest.CompareCoverage(t, benchlib.C17(), []string{"UUUUU", "1U0X1", "X1111", "0000U"})
	faulttest.CompareCoverage(t, bench.MustParse(outputFeedsGate), []string{"U1", "1U", "X0"})
}

func TestCircuit_FaultsCoveredBy_outputFeedsGate(t *testing.T) {
	c := newCircuit(t, bench.MustParse(outputFeedsGate))
	got, err := c.FaultsCoveredBy("11")
	if err != nil {
		t.Fatal(err)
	}
	// g is never evaluated since propagation stops at n
	exp := []string{"a-0", "n-a-0", "n-0", "g-n-0"}
	if !reflect.DeepEqual(keys(got), exp) {
		t.Fatalf("expected %v, got %v", exp, keys(got))
	}
}

func TestCircuit_FaultsCoveredBy_quick(t *testing.T) {
	c := newCircuit(t, benchlib.C17())
	f := func(n uint8) bool {
		v := make([]byte, 5)
		for i := range v {
			v[i] = '0' + byte(n>>uint(i)&1)
		}
		g1, err := c.FaultsCoveredBy(string(v))
		if err != nil {
			t.Fatal(err)
		}
		g2, _ := c.FaultsCoveredBy(string(v))
		ind, _ := c.FaultsCoveredByIndividually(string(v))
		return reflect.DeepEqual(keys(g1), keys(g2)) && reflect.DeepEqual(keys(g1), keys(ind))
	}
	if err := quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}
}
