// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package faulttest provides utility functions for testing circuits and fault
// coverage.
//
package faulttest

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/db47h/faultsim"
)

// max number of inputs tested exhaustively
const maxExhaustive = 12

func randBit(r *rand.Rand) byte {
	if r.Int63()&(1<<62) != 0 {
		return '1'
	}
	return '0'
}

// Vectors returns a set of binary test vectors for a circuit with n inputs:
// all 0, all 1, then either every vector if n is small enough, or random ones.
//
func Vectors(n int, r *rand.Rand) []string {
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	vs := []string{strings.Repeat("0", n), strings.Repeat("1", n)}
	iter := n
	if iter > maxExhaustive {
		iter = maxExhaustive
	}
	iter = 1 << uint(iter)

	b := make([]byte, n)
	for i := 0; i < iter; i++ {
		for j := range b {
			if n <= maxExhaustive {
				b[n-j-1] = '0' + byte(i>>uint(j)&1)
			} else {
				b[j] = randBit(r)
			}
		}
		vs = append(vs, string(b))
	}
	return vs
}

// CompareCircuits builds two circuits and compares their fault-free outputs
// given the same inputs. Both must have the same input and output names.
//
func CompareCircuits(t *testing.T, d1, d2 *faultsim.Descriptor) {
	t.Helper()
	c1, err := faultsim.New(d1)
	if err != nil {
		t.Fatal(err)
	}
	c2, err := faultsim.New(d2)
	if err != nil {
		t.Fatal(err)
	}
	if !equal(c1.Inputs(), c2.Inputs()) {
		t.Fatalf("inputs %v != %v", c1.Inputs(), c2.Inputs())
	}
	if !equal(c1.Outputs(), c2.Outputs()) {
		t.Fatalf("outputs %v != %v", c1.Outputs(), c2.Outputs())
	}

	for _, v := range Vectors(len(c1.Inputs()), nil) {
		if err := c1.Simulate(v); err != nil {
			t.Fatal(err)
		}
		if err := c2.Simulate(v); err != nil {
			t.Fatal(err)
		}
		if o1, o2 := c1.OutputString(false), c2.OutputString(false); o1 != o2 {
			t.Fatalf("\nExpected %s => %s\nGot %s", v, o1, o2)
		}
	}
}

// CompareCoverage checks that grouped fault coverage and brute force
// coverage agree on the given vectors. If vectors is nil, Vectors is used.
//
func CompareCoverage(t *testing.T, d *faultsim.Descriptor, vectors []string) {
	t.Helper()
	c, err := faultsim.New(d)
	if err != nil {
		t.Fatal(err)
	}
	if vectors == nil {
		vectors = Vectors(len(c.Inputs()), nil)
	}

	start := time.Now()
	for _, v := range vectors {
		grouped, err := c.FaultsCoveredBy(v)
		if err != nil {
			t.Fatal(err)
		}
		single, err := c.FaultsCoveredByIndividually(v)
		if err != nil {
			t.Fatal(err)
		}
		if !equal(keys(grouped), keys(single)) {
			t.Fatalf("vector %s:\ngrouped    %v\nindividual %v", v, keys(grouped), keys(single))
		}
	}
	t.Logf("%d faults, %d vectors in %v", len(c.AllFaults()), len(vectors), time.Since(start))
}

func keys(fs []faultsim.Fault) []string {
	r := make([]string, len(fs))
	for i, f := range fs {
		r[i] = f.String()
	}
	return r
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
