// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package atpg generates test vectors for single stuck-at faults with a SAT
// solver.
//
// The fault-free circuit and a copy with the fault injected share their
// inputs. Their outputs are xored pairwise and the solver is asked for an
// input assignment setting at least one of the xors.
//
package atpg

import (
	"github.com/db47h/faultsim"
	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
	"github.com/pkg/errors"
)

// ErrUndetectable is returned for redundant faults: no input vector can
// detect them.
//
var ErrUndetectable = errors.New("undetectable fault")

// miter encodes a good and a faulty copy of a circuit.
type miter struct {
	d      *faultsim.Descriptor
	c      *logic.C
	f      faultsim.Fault
	gates  map[string]int // gate index by output name
	inputs map[string]z.Lit
	good   map[string]z.Lit
	bad    map[string]z.Lit
}

func (m *miter) stuck() z.Lit {
	if m.f.Value == faultsim.High {
		return m.c.T
	}
	return m.c.F
}

// lit returns the literal of node n in the good or faulty circuit. Gates are
// encoded on first use.
func (m *miter) lit(n string, faulty bool) z.Lit {
	cache := m.good
	if faulty {
		cache = m.bad
	}
	if l, ok := cache[n]; ok {
		return l
	}
	var l z.Lit
	if in, ok := m.inputs[n]; ok {
		l = in
	} else {
		g := &m.d.Gates[m.gates[n]]
		ins := make([]z.Lit, len(g.Inputs))
		for i, in := range g.Inputs {
			if faulty && m.f.InputTo == n && m.f.Node == in {
				ins[i] = m.stuck()
				continue
			}
			ins[i] = m.lit(in, faulty)
		}
		l = m.gate(g.Type, ins)
	}
	if faulty && m.f.InputTo == "" && m.f.Node == n {
		l = m.stuck()
	}
	cache[n] = l
	return l
}

func (m *miter) gate(t faultsim.GateType, ins []z.Lit) z.Lit {
	c := m.c
	switch t {
	case faultsim.And:
		return c.Ands(ins...)
	case faultsim.Nand:
		return c.Ands(ins...).Not()
	case faultsim.Or:
		return c.Ors(ins...)
	case faultsim.Nor:
		return c.Ors(ins...).Not()
	case faultsim.Not:
		return ins[0].Not()
	case faultsim.Buff:
		return ins[0]
	}
	x := c.F
	for _, in := range ins {
		x = c.Xor(x, in)
	}
	if t == faultsim.Xnor {
		return x.Not()
	}
	return x
}

// Generate returns a binary test vector for circuit c detecting fault f. The
// vector is checked by fault simulation before being returned.
//
// Generate returns ErrUndetectable if no such vector exists. The active faults
// of c are left untouched.
//
func Generate(c *faultsim.Circuit, f faultsim.Fault) (string, error) {
	if err := check(c, f); err != nil {
		return "", err
	}
	d := c.Descriptor()
	m := &miter{
		d:      d,
		c:      logic.NewC(),
		f:      f,
		gates:  make(map[string]int, len(d.Gates)),
		inputs: make(map[string]z.Lit, len(d.Inputs)),
		good:   make(map[string]z.Lit),
		bad:    make(map[string]z.Lit),
	}
	for i := range d.Gates {
		m.gates[d.Gates[i].Output] = i
	}
	ins := make([]z.Lit, len(d.Inputs))
	for i, n := range d.Inputs {
		ins[i] = m.c.Lit()
		m.inputs[n] = ins[i]
	}

	diffs := make([]z.Lit, 0, len(d.Outputs))
	for _, o := range c.Outputs() {
		diffs = append(diffs, m.c.Xor(m.lit(o, false), m.lit(o, true)))
	}
	obs := m.c.Ors(diffs...)
	if obs == m.c.F {
		return "", errors.Wrap(ErrUndetectable, f.String())
	}

	s := gini.New()
	m.c.ToCnf(s)
	s.Add(m.c.T)
	s.Add(0)
	// make sure every input variable is known to the solver
	for _, in := range ins {
		s.Add(in)
		s.Add(in.Not())
		s.Add(0)
	}
	s.Assume(obs)
	if s.Solve() != 1 {
		return "", errors.Wrap(ErrUndetectable, f.String())
	}

	v := make([]byte, len(ins))
	for i, in := range ins {
		v[i] = '0'
		if s.Value(in) {
			v[i] = '1'
		}
	}
	vector := string(v)
	if err := verify(c, f, vector); err != nil {
		return "", err
	}
	return vector, nil
}

func check(c *faultsim.Circuit, f faultsim.Fault) error {
	if f.Value != faultsim.Low && f.Value != faultsim.High {
		return errors.Errorf("fault %s: invalid stuck value %v", f, f.Value)
	}
	if c.FanOut(f.Node) < 0 {
		return errors.Wrapf(faultsim.ErrUnknownNode, "fault %s", f)
	}
	if f.InputTo == "" {
		return nil
	}
	for _, g := range c.Descriptor().Gates {
		if g.Output != f.InputTo {
			continue
		}
		for _, in := range g.Inputs {
			if in == f.Node {
				return nil
			}
		}
	}
	return errors.Wrapf(faultsim.ErrUnknownNode, "fault %s: no such gate input", f)
}

func verify(c *faultsim.Circuit, f faultsim.Fault, vector string) error {
	saved := c.Faults()
	defer func() {
		c.ClearFaults()
		for _, f := range saved {
			c.InsertFault(f)
		}
	}()
	c.ClearFaults()
	c.InsertFault(f)
	if err := c.Simulate(vector); err != nil {
		return err
	}
	if !c.IsFaultDetected() {
		return errors.Errorf("fault %s: vector %s not confirmed by simulation", f, vector)
	}
	return nil
}
