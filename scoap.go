// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package faultsim

// SCOAP holds the testability figures of a node.
//
// C0 and C1 are the combinational 0- and 1-controllability: the minimum number
// of node assignments needed to set the node to 0 or 1. N0 and N1 count how
// many fault-free simulations left the node at 0 or 1.
//
type SCOAP struct {
	C0, C1 int
	N0, N1 int
}

// computeSCOAP propagates controllability costs from the inputs in
// topological order. Circuit inputs cost 1 for either value.
func (c *Circuit) computeSCOAP() {
	ready := make([]int, len(c.gates))
	queue := make([]int, 0, len(c.nodes))
	for _, n := range c.inputs {
		c.nodes[n].scoap.C0, c.nodes[n].scoap.C1 = 1, 1
		queue = append(queue, n)
	}
	c0 := make([]int, 0, len(c.scratch))
	c1 := make([]int, 0, len(c.scratch))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, gi := range c.nodes[n].fanout {
			g := &c.gates[gi]
			ready[gi]++
			if ready[gi] != len(g.ins) {
				continue
			}
			c0, c1 = c0[:0], c1[:0]
			for _, in := range g.ins {
				c0 = append(c0, c.nodes[in].scoap.C0)
				c1 = append(c1, c.nodes[in].scoap.C1)
			}
			s := &c.nodes[g.out].scoap
			s.C0, s.C1 = controllability(g.typ, c0, c1)
			queue = append(queue, g.out)
		}
	}
}

func controllability(t GateType, c0, c1 []int) (int, int) {
	switch t {
	case And:
		return minOf(c0) + 1, sumOf(c1) + 1
	case Nand:
		return sumOf(c1) + 1, minOf(c0) + 1
	case Or:
		return sumOf(c0) + 1, minOf(c1) + 1
	case Nor:
		return minOf(c1) + 1, sumOf(c0) + 1
	case Not:
		return c1[0] + 1, c0[0] + 1
	case Buff:
		return c0[0] + 1, c1[0] + 1
	}

	// XOR and XNOR: set every input to its cheapest value, then flip the
	// input with the smallest cost difference to fix the parity.
	base, ones, diff := 1, 0, -1
	for i := range c0 {
		lo, d := c0[i], c1[i]-c0[i]
		if c1[i] < c0[i] {
			lo, d = c1[i], -d
			ones++
		}
		base += lo
		if diff < 0 || d < diff {
			diff = d
		}
	}
	odd, even := base, base+diff
	if ones%2 == 0 {
		odd, even = even, odd
	}
	if t == Xnor {
		return odd, even
	}
	return even, odd
}

func minOf(v []int) int {
	m := v[0]
	for _, x := range v[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

func sumOf(v []int) int {
	s := 0
	for _, x := range v {
		s += x
	}
	return s
}

// SCOAP returns the testability figures of the named node.
//
func (c *Circuit) SCOAP(name string) (SCOAP, bool) {
	n, ok := c.index[name]
	if !ok {
		return SCOAP{}, false
	}
	return c.nodes[n].scoap, true
}

// Node roles reported by Table.
const (
	RoleInput    = "input"
	RoleInternal = "internal"
	RoleOutput   = "output"
)

// NodeInfo describes a node in the circuit table.
//
type NodeInfo struct {
	Name  string
	Role  string
	Logic string // driving gate type, empty for inputs
	SCOAP SCOAP
}

// Table lists all nodes: inputs first, then internal nodes, then outputs, each
// in declaration order.
//
func (c *Circuit) Table() []NodeInfo {
	r := make([]NodeInfo, 0, len(c.nodes))
	info := func(n int, role string) NodeInfo {
		ni := NodeInfo{Name: c.nodes[n].name, Role: role, SCOAP: c.nodes[n].scoap}
		if d := c.nodes[n].driver; d >= 0 {
			ni.Logic = c.gates[d].typ.String()
		}
		return ni
	}
	for _, n := range c.inputs {
		r = append(r, info(n, RoleInput))
	}
	for _, g := range c.gates {
		if !c.nodes[g.out].output {
			r = append(r, info(g.out, RoleInternal))
		}
	}
	for _, n := range c.outputs {
		if c.nodes[n].input {
			continue
		}
		r = append(r, info(n, RoleOutput))
	}
	return r
}

// ResetCounters clears the N0 and N1 counters of all nodes.
//
func (c *Circuit) ResetCounters() {
	for i := range c.nodes {
		c.nodes[i].scoap.N0, c.nodes[i].scoap.N1 = 0, 0
	}
}
