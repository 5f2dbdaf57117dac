// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package faultsim provides an event-driven fault simulator for combinational
logic circuits.

A Circuit is built from a Descriptor listing its inputs, outputs and gates.
Simulation uses a five-valued algebra: besides 0, 1 and the indeterminate
values, D and D' denote a node whose value differs between the fault-free and
the faulty circuit. A fault is detected by a test vector when D or D' reaches
an output.

Single stuck-at faults are enumerated for every gate input line and circuit
output. They are partitioned once into equivalence groups, so that coverage
only needs to simulate one fault per group:

	c, err := faultsim.New(desc)
	if err != nil {
		// handle error
	}
	covered, err := c.FaultsCoveredBy("10110")

Circuits also carry SCOAP controllability figures for every node.

Netlists in ISCAS bench format can be loaded with the bench package.
*/
package faultsim
