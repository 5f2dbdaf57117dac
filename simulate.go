// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package faultsim

import "github.com/pkg/errors"

// Simulate runs the circuit with the given test vector.
//
// The vector holds one character per input in declaration order: '0', '1',
// 'U' (unknown) or 'X' (don't care). If the vector is shorter than the input
// count, missing inputs are set to Unknown. If it is longer, only its
// rightmost characters are used.
//
// Simulate returns an error wrapping ErrInvalidVector if the vector contains
// any other character, in which case the circuit state is left untouched.
//
func (c *Circuit) Simulate(vector string) error {
	in, err := c.parseVector(vector)
	if err != nil {
		return err
	}
	c.run(in)
	return nil
}

// SimulateSignals runs the circuit with the given input values. in must have
// an entry for every circuit input; extra entries are ignored.
//
func (c *Circuit) SimulateSignals(in map[string]Signal) error {
	sigs := make([]Signal, len(c.inputs))
	for i, n := range c.inputs {
		s, ok := in[c.nodes[n].name]
		if !ok {
			return errors.Wrap(ErrMissingInput, c.nodes[n].name)
		}
		sigs[i] = s
	}
	c.run(sigs)
	return nil
}

func (c *Circuit) parseVector(vector string) ([]Signal, error) {
	v := []rune(vector)
	if len(v) > len(c.inputs) {
		v = v[len(v)-len(c.inputs):]
	}
	in := make([]Signal, len(c.inputs))
	for i := range in {
		if i >= len(v) {
			in[i] = Unknown
			continue
		}
		s, err := ParseSignal(v[i])
		if err != nil {
			return nil, errors.Wrapf(err, "vector %q", vector)
		}
		in[i] = s
	}
	return in, nil
}

func (c *Circuit) reset() {
	for i := range c.gates {
		c.gates[i].ready = 0
		c.gates[i].faulty = false
	}
	for i := range c.nodes {
		c.nodes[i].sig = Untouched
	}
}

func (c *Circuit) run(in []Signal) {
	c.reset()
	for i, n := range c.inputs {
		s := in[i]
		if v, ok := c.faults[line{-1, n}]; ok && s != v {
			switch s {
			case High:
				s = D
			case Low:
				s = DNot
			}
		}
		c.nodes[n].sig = s
		c.propagate(n)
	}

	if len(c.faults) == 0 {
		for i := range c.nodes {
			switch c.nodes[i].sig {
			case Low:
				c.nodes[i].scoap.N0++
			case High:
				c.nodes[i].scoap.N1++
			}
		}
	}
}

// propagate notifies the fan-out of node n that it has settled and evaluates
// every gate whose inputs have all settled. Propagation stops at circuit
// outputs.
func (c *Circuit) propagate(n int) {
	stack := append(c.stack[:0], n)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		faulty := c.nodes[n].sig.IsFaulty()
		for _, gi := range c.nodes[n].fanout {
			g := &c.gates[gi]
			if faulty {
				g.faulty = true
			}
			g.ready++
			if g.ready != len(g.ins) {
				continue
			}
			c.nodes[g.out].sig = c.evalGate(gi)
			if !c.nodes[g.out].output {
				stack = append(stack, g.out)
			}
		}
	}
	c.stack = stack[:0]
}

func (c *Circuit) evalGate(gi int) Signal {
	g := &c.gates[gi]
	if !g.faulty && len(c.faults) > 0 {
		for _, n := range g.ins {
			if _, ok := c.faults[line{gi, n}]; ok {
				g.faulty = true
				break
			}
		}
	}

	var r Signal
	if g.faulty {
		good, bad := c.evalSide(gi, false), c.evalSide(gi, true)
		switch {
		case good == Unknown || bad == Unknown:
			r = Unknown
		case good != bad:
			r = DNot
			if good == High {
				r = D
			}
		default:
			r = good
		}
	} else {
		r = c.evalSide(gi, false)
	}

	if v, ok := c.faults[line{-1, g.out}]; ok {
		r = stuckAt(r, v)
	}
	return r
}

// evalSide evaluates gate gi in either the fault-free or the faulty circuit.
// In the faulty circuit, faults on the gate's own inputs are forced.
func (c *Circuit) evalSide(gi int, faulty bool) Signal {
	g := &c.gates[gi]
	in := c.scratch[:len(g.ins)]
	for i, n := range g.ins {
		s := c.nodes[n].sig
		if !faulty {
			in[i] = s.Good()
			continue
		}
		in[i] = s.Faulty()
		if v, ok := c.faults[line{gi, n}]; ok {
			in[i] = v
		}
	}
	return g.typ.eval(in)
}

// stuckAt applies a stuck-at-v fault to a freshly computed gate output r.
// Unknown values are left as is.
func stuckAt(r, v Signal) Signal {
	switch v {
	case High:
		switch r {
		case Low:
			return DNot
		case D:
			return High
		}
	case Low:
		switch r {
		case High:
			return D
		case DNot:
			return Low
		}
	}
	return r
}
