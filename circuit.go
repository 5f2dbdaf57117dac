// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package faultsim

import (
	"sort"

	"github.com/pkg/errors"
)

// Errors returned when building or simulating a circuit.
var (
	ErrInvalidVector = errors.New("invalid test vector")
	ErrMissingInput  = errors.New("missing input")
	ErrUnknownNode   = errors.New("unknown node")
	ErrArity         = errors.New("wrong number of gate inputs")
	ErrDuplicateGate = errors.New("node driven more than once")
	ErrCycle         = errors.New("combinational loop")
)

// A Descriptor describes a combinational circuit: its primary inputs and
// outputs, the gates connecting them, and an optional list of faults to
// inject once the circuit is built.
//
// Descriptors are usually produced by the bench package.
//
type Descriptor struct {
	Inputs  []string
	Outputs []string
	Gates   []GateSpec
	Faults  []Fault
}

// GateSpec describes a single gate. Output is the name of the node driven by
// the gate and Inputs the ordered list of nodes it reads.
//
type GateSpec struct {
	Output string
	Type   GateType
	Inputs []string
}

type node struct {
	name   string
	sig    Signal
	driver int   // driving gate, -1 for circuit inputs
	fanout []int // consuming gates, one entry per gate input
	input  bool
	output bool
	scoap  SCOAP
}

type gate struct {
	typ    GateType
	ins    []int
	out    int
	ready  int  // inputs settled during the current pass
	faulty bool // a fault propagates through the gate during the current pass
}

func (g *gate) reads(n int) bool {
	for _, i := range g.ins {
		if i == n {
			return true
		}
	}
	return false
}

// line locates an active fault: node n as a whole when gate is -1, otherwise
// only the branch of n feeding gate.
type line struct {
	gate int
	node int
}

// Circuit is a combinational circuit ready for fault simulation.
//
// A Circuit holds mutable simulation state and must not be used concurrently.
// Callers needing parallelism should build one Circuit per goroutine from the
// same Descriptor.
//
type Circuit struct {
	desc    *Descriptor
	nodes   []node
	gates   []gate
	index   map[string]int
	inputs  []int
	outputs []int

	faults  map[line]Signal // active faults
	stack   []int
	scratch []Signal

	universe []Fault
	fidx     map[Fault]int
	details  []faultDetail
	groups   [][]int
}

// New builds a new circuit from the given descriptor.
//
// Every node referenced by a gate or declared as an output must be either a
// circuit input or the output of a gate. Faults listed in the descriptor that
// reference unknown nodes are silently ignored.
//
// The fault universe, its equivalence groups and the controllability costs are
// computed once here.
//
func New(desc *Descriptor) (*Circuit, error) {
	if desc == nil {
		return nil, errors.New("nil descriptor")
	}
	c := &Circuit{
		desc:   desc,
		index:  make(map[string]int, len(desc.Inputs)+len(desc.Gates)),
		faults: make(map[line]Signal),
	}

	for _, name := range desc.Inputs {
		if _, ok := c.index[name]; ok {
			return nil, errors.Errorf("input %s declared twice", name)
		}
		n := c.addNode(name)
		c.nodes[n].input = true
		c.inputs = append(c.inputs, n)
	}
	for _, gs := range desc.Gates {
		if _, ok := c.index[gs.Output]; ok {
			return nil, errors.Wrap(ErrDuplicateGate, gs.Output)
		}
		c.addNode(gs.Output)
	}

	maxIn := 1
	for i, gs := range desc.Gates {
		if int(gs.Type) >= len(gateNames) {
			return nil, errors.Errorf("gate %s: invalid gate type %d", gs.Output, gs.Type)
		}
		if len(gs.Inputs) == 0 || gs.Type.unary() && len(gs.Inputs) != 1 {
			return nil, errors.Wrapf(ErrArity, "%s gate %s has %d inputs", gs.Type, gs.Output, len(gs.Inputs))
		}
		g := gate{typ: gs.Type, out: c.index[gs.Output], ins: make([]int, len(gs.Inputs))}
		for j, name := range gs.Inputs {
			n, ok := c.index[name]
			if !ok {
				return nil, errors.Wrapf(ErrUnknownNode, "%s input of gate %s", name, gs.Output)
			}
			g.ins[j] = n
			c.nodes[n].fanout = append(c.nodes[n].fanout, i)
		}
		if len(g.ins) > maxIn {
			maxIn = len(g.ins)
		}
		c.nodes[g.out].driver = i
		c.gates = append(c.gates, g)
	}
	c.scratch = make([]Signal, maxIn)

	for _, name := range desc.Outputs {
		n, ok := c.index[name]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownNode, "output %s", name)
		}
		if c.nodes[n].output {
			continue
		}
		c.nodes[n].output = true
		c.outputs = append(c.outputs, n)
	}

	if err := c.checkLoops(); err != nil {
		return nil, err
	}

	c.enumerateFaults()
	c.buildGroups()
	c.computeSCOAP()

	for _, f := range desc.Faults {
		c.InsertFault(f)
	}
	c.reset()
	return c, nil
}

func (c *Circuit) addNode(name string) int {
	n := len(c.nodes)
	c.nodes = append(c.nodes, node{name: name, sig: Untouched, driver: -1})
	c.index[name] = n
	return n
}

// checkLoops walks the gates in topological order and fails if some gate can
// never have all its inputs settled.
func (c *Circuit) checkLoops() error {
	ready := make([]int, len(c.gates))
	queue := make([]int, 0, len(c.nodes))
	for n := range c.nodes {
		if c.nodes[n].driver < 0 {
			queue = append(queue, n)
		}
	}
	done := 0
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, gi := range c.nodes[n].fanout {
			ready[gi]++
			if ready[gi] == len(c.gates[gi].ins) {
				done++
				queue = append(queue, c.gates[gi].out)
			}
		}
	}
	if done < len(c.gates) {
		for gi, g := range c.gates {
			if ready[gi] < len(g.ins) {
				return errors.Wrapf(ErrCycle, "through gate %s", c.nodes[g.out].name)
			}
		}
	}
	return nil
}

// Descriptor returns the descriptor c was built from.
//
func (c *Circuit) Descriptor() *Descriptor {
	return c.desc
}

// Inputs returns the circuit input names in declaration order.
//
func (c *Circuit) Inputs() []string {
	return c.names(c.inputs)
}

// Outputs returns the circuit output names in declaration order.
//
func (c *Circuit) Outputs() []string {
	return c.names(c.outputs)
}

func (c *Circuit) names(ns []int) []string {
	r := make([]string, len(ns))
	for i, n := range ns {
		r[i] = c.nodes[n].name
	}
	return r
}

// NodeCount returns the number of nodes in the circuit.
//
func (c *Circuit) NodeCount() int { return len(c.nodes) }

// GateCount returns the number of gates in the circuit.
//
func (c *Circuit) GateCount() int { return len(c.gates) }

// FanOut returns the number of gate inputs fed by the named node, or -1 if
// there is no such node.
//
func (c *Circuit) FanOut(name string) int {
	n, ok := c.index[name]
	if !ok {
		return -1
	}
	return len(c.nodes[n].fanout)
}

// Signal returns the current value of the named node.
//
func (c *Circuit) Signal(name string) (Signal, bool) {
	n, ok := c.index[name]
	if !ok {
		return Unknown, false
	}
	return c.nodes[n].sig, true
}

// OutputSignals returns the values of all outputs after the last simulation.
// D and DNot values are reported as is: they indicate that the active fault
// is observable on that output.
//
func (c *Circuit) OutputSignals() map[string]Signal {
	m := make(map[string]Signal, len(c.outputs))
	for _, n := range c.outputs {
		m[c.nodes[n].name] = c.nodes[n].sig
	}
	return m
}

// OutputString returns the output values in declaration order as a string of
// signal symbols. If faulty is false, D and DNot are resolved to their value
// in the fault-free circuit, otherwise to their value in the faulty circuit.
//
func (c *Circuit) OutputString(faulty bool) string {
	b := make([]byte, 0, len(c.outputs))
	for _, n := range c.outputs {
		s := c.nodes[n].sig.Good()
		if faulty {
			s = c.nodes[n].sig.Faulty()
		}
		b = append(b, s.String()...)
	}
	return string(b)
}

// IsFaultDetected returns true if any output carries D or DNot after the last
// simulation.
//
func (c *Circuit) IsFaultDetected() bool {
	for _, n := range c.outputs {
		if c.nodes[n].sig.IsFaulty() {
			return true
		}
	}
	return false
}

// InsertFault activates fault f for subsequent simulations.
//
// InsertFault is a no-op if f references an unknown node or if its value is
// neither Low nor High. A fault scoped to a gate input is stored as a node
// fault when the node feeds a single gate input.
//
func (c *Circuit) InsertFault(f Fault) {
	if l, ok := c.lineOf(f); ok {
		c.faults[l] = f.Value
	}
}

func (c *Circuit) lineOf(f Fault) (line, bool) {
	if f.Value != Low && f.Value != High {
		return line{}, false
	}
	n, ok := c.index[f.Node]
	if !ok {
		return line{}, false
	}
	if f.InputTo == "" {
		return line{-1, n}, true
	}
	to, ok := c.index[f.InputTo]
	if !ok {
		return line{}, false
	}
	gi := c.nodes[to].driver
	if gi < 0 || !c.gates[gi].reads(n) {
		return line{}, false
	}
	if len(c.nodes[n].fanout) <= 1 {
		return line{-1, n}, true
	}
	return line{gi, n}, true
}

// ClearFaults removes all active faults. It has no effect on the fault
// universe or its equivalence groups.
//
func (c *Circuit) ClearFaults() {
	c.faults = make(map[line]Signal)
}

// Faults returns the active faults, sorted by key.
//
func (c *Circuit) Faults() []Fault {
	r := make([]Fault, 0, len(c.faults))
	for l, v := range c.faults {
		f := Fault{Node: c.nodes[l.node].name, Value: v}
		if l.gate >= 0 {
			f.InputTo = c.nodes[c.gates[l.gate].out].name
		}
		r = append(r, f)
	}
	sort.Slice(r, func(i, j int) bool { return r[i].String() < r[j].String() })
	return r
}
