// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package faultsim

type faultDetail struct {
	group     int // equivalence group index
	dominates int // fault implied by this one, -1 if none
	examined  bool
}

// enumerateFaults builds the fault universe: both stuck values for every node
// feeding a gate and for each of its gate input branches, then for every
// circuit output.
func (c *Circuit) enumerateFaults() {
	c.fidx = make(map[Fault]int)
	add := func(f Fault) {
		for _, v := range [...]Signal{Low, High} {
			f.Value = v
			if _, ok := c.fidx[f]; ok {
				continue
			}
			c.fidx[f] = len(c.universe)
			c.universe = append(c.universe, f)
		}
	}

	seen := make([]bool, len(c.nodes))
	for _, g := range c.gates {
		for _, n := range g.ins {
			if seen[n] {
				continue
			}
			seen[n] = true
			name := c.nodes[n].name
			add(Fault{Node: name})
			for _, gi := range c.nodes[n].fanout {
				add(Fault{Node: name, InputTo: c.nodes[c.gates[gi].out].name})
			}
		}
	}
	for _, n := range c.outputs {
		add(Fault{Node: c.nodes[n].name})
	}
}

// buildGroups partitions the fault universe into equivalence groups and
// records dominance links. Each group is grown from its first ungrouped fault
// by repeatedly absorbing structurally equivalent faults.
func (c *Circuit) buildGroups() {
	c.details = make([]faultDetail, len(c.universe))
	for i := range c.details {
		c.details[i] = faultDetail{group: -1, dominates: -1}
	}
	c.groups = c.groups[:0]

	var stack []int
	for fi := range c.universe {
		if c.details[fi].group >= 0 {
			continue
		}
		id := len(c.groups)
		c.groups = append(c.groups, nil)
		stack = append(stack[:0], fi)
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if c.details[f].group >= 0 {
				continue
			}
			c.details[f].group = id
			c.groups[id] = append(c.groups[id], f)
			stack = c.absorb(f, stack)
		}
	}
}

// absorb pushes onto stack the faults equivalent to fault fi through the gate
// driving it and through the gate it feeds, and sets the dominance link of fi.
func (c *Circuit) absorb(fi int, stack []int) []int {
	f := c.universe[fi]
	n := c.index[f.Node]
	from, into := -1, -1

	// a branch fault on a node feeding a single gate input is a node fault
	if len(c.nodes[n].fanout) == 1 {
		alias := Fault{Node: f.Node, Value: f.Value}
		if f.InputTo == "" {
			alias.InputTo = c.nodes[c.gates[c.nodes[n].fanout[0]].out].name
		}
		if a, ok := c.fidx[alias]; ok {
			stack = append(stack, a)
		}
	}
	if f.InputTo == "" || len(c.nodes[n].fanout) <= 1 {
		from = c.nodes[n].driver
		if !c.nodes[n].output && len(c.nodes[n].fanout) == 1 {
			into = c.nodes[n].fanout[0]
		}
	} else {
		into = c.nodes[c.index[f.InputTo]].driver
	}

	// equivalent input faults of the driving gate
	if from >= 0 {
		g := &c.gates[from]
		out := c.nodes[g.out].name
		for _, in := range g.ins {
			name := c.nodes[in].name
			if len(c.nodes[in].fanout) == 1 {
				if c.nodes[in].output {
					continue
				}
				stack = c.pushEquivalent(stack, g.typ, Fault{Node: name}, f.Value)
			}
			stack = c.pushEquivalent(stack, g.typ, Fault{Node: name, InputTo: out}, f.Value)
		}
	}

	// output faults of the consuming gate
	if into >= 0 {
		g := &c.gates[into]
		out := c.nodes[g.out].name
		for _, v := range [...]Signal{Low, High} {
			if !g.typ.dominates(f.Value, v) {
				continue
			}
			if d, ok := c.fidx[Fault{Node: out, Value: v}]; ok {
				c.details[fi].dominates = d
				break
			}
		}
		for _, v := range [...]Signal{Low, High} {
			if !g.typ.equivalent(f.Value, v) {
				continue
			}
			if e, ok := c.fidx[Fault{Node: out, Value: v}]; ok {
				stack = append(stack, e)
			}
			break
		}
	}
	return stack
}

// pushEquivalent pushes the first stuck value of input fault in that is
// equivalent to a stuck-at-out fault on the output of a gate of type t.
func (c *Circuit) pushEquivalent(stack []int, t GateType, in Fault, out Signal) []int {
	for _, v := range [...]Signal{Low, High} {
		if !t.equivalent(v, out) {
			continue
		}
		in.Value = v
		if e, ok := c.fidx[in]; ok {
			stack = append(stack, e)
		}
		break
	}
	return stack
}

// AllFaults returns the fault universe of c in enumeration order.
//
func (c *Circuit) AllFaults() []Fault {
	r := make([]Fault, len(c.universe))
	copy(r, c.universe)
	return r
}

// Groups returns the fault equivalence groups. Faults in a group are detected
// by exactly the same test vectors.
//
func (c *Circuit) Groups() [][]Fault {
	r := make([][]Fault, len(c.groups))
	for i, g := range c.groups {
		r[i] = c.faultList(g)
	}
	return r
}

// GroupOf returns the members of the equivalence group of f, or nil if f is
// not part of the fault universe.
//
func (c *Circuit) GroupOf(f Fault) []Fault {
	fi, ok := c.fidx[f]
	if !ok {
		return nil
	}
	return c.faultList(c.groups[c.details[fi].group])
}

// Dominates returns the fault whose detection is implied by the detection of
// f, if any.
//
func (c *Circuit) Dominates(f Fault) (Fault, bool) {
	fi, ok := c.fidx[f]
	if !ok || c.details[fi].dominates < 0 {
		return Fault{}, false
	}
	return c.universe[c.details[fi].dominates], true
}

func (c *Circuit) faultList(idx []int) []Fault {
	r := make([]Fault, len(idx))
	for i, fi := range idx {
		r[i] = c.universe[fi]
	}
	return r
}
