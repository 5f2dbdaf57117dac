// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package faultsim

// FaultsCoveredBy returns the faults of the fault universe detected by the
// given test vector.
//
// Each fault not yet accounted for is injected alone and simulated. When it is
// detected, every fault of its equivalence group is covered as well, together
// with the groups of the faults it dominates, recursively, without further
// simulation.
//
// Active faults are saved before and restored after the run. The result is in
// fault universe order.
//
func (c *Circuit) FaultsCoveredBy(vector string) ([]Fault, error) {
	in, err := c.parseVector(vector)
	if err != nil {
		return nil, err
	}
	saved := c.faults
	defer func() { c.faults = saved }()

	c.resetExamined()
	defer c.resetExamined()

	covered := make([]bool, len(c.universe))
	for fi, f := range c.universe {
		if c.details[fi].examined {
			continue
		}
		c.faults = make(map[line]Signal, 1)
		c.InsertFault(f)
		c.run(in)
		if c.IsFaultDetected() {
			c.cover(fi, covered)
		}
	}
	return c.collect(covered), nil
}

// FaultsCoveredByIndividually returns the same result as FaultsCoveredBy but
// simulates every fault of the universe independently.
//
func (c *Circuit) FaultsCoveredByIndividually(vector string) ([]Fault, error) {
	in, err := c.parseVector(vector)
	if err != nil {
		return nil, err
	}
	saved := c.faults
	defer func() { c.faults = saved }()

	covered := make([]bool, len(c.universe))
	for fi, f := range c.universe {
		c.faults = make(map[line]Signal, 1)
		c.InsertFault(f)
		c.run(in)
		covered[fi] = c.IsFaultDetected()
	}
	return c.collect(covered), nil
}

func (c *Circuit) resetExamined() {
	for i := range c.details {
		c.details[i].examined = false
	}
}

// cover marks as covered the group of fault fi and, following dominance
// links, the groups of all faults it implies.
func (c *Circuit) cover(fi int, covered []bool) {
	stack := append(c.stack[:0], fi)
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if c.details[f].examined {
			continue
		}
		for _, m := range c.groups[c.details[f].group] {
			covered[m] = true
			d := &c.details[m]
			if d.examined {
				continue
			}
			d.examined = true
			if d.dominates >= 0 {
				stack = append(stack, d.dominates)
			}
		}
	}
	c.stack = stack[:0]
}

func (c *Circuit) collect(covered []bool) []Fault {
	var r []Fault
	for fi, ok := range covered {
		if ok {
			r = append(r, c.universe[fi])
		}
	}
	return r
}

// VectorCoverage holds the faults detected by a single test vector.
//
type VectorCoverage struct {
	Vector  string
	Covered []Fault // all faults detected by Vector
	New     []Fault // faults not detected by any previous vector
}

// CoverageReport summarizes the fault coverage of a test set.
//
type CoverageReport struct {
	Vectors []VectorCoverage
	Covered []Fault // union of all covered faults, in fault universe order
	Total   int     // size of the fault universe
}

// Ratio returns the fraction of the fault universe covered.
//
func (r *CoverageReport) Ratio() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(len(r.Covered)) / float64(r.Total)
}

// Coverage computes the cumulative fault coverage of the given test vectors.
//
func (c *Circuit) Coverage(vectors ...string) (*CoverageReport, error) {
	all := make([]bool, len(c.universe))
	r := &CoverageReport{Total: len(c.universe)}
	for _, v := range vectors {
		fs, err := c.FaultsCoveredBy(v)
		if err != nil {
			return nil, err
		}
		vc := VectorCoverage{Vector: v, Covered: fs}
		for _, f := range fs {
			fi := c.fidx[f]
			if !all[fi] {
				all[fi] = true
				vc.New = append(vc.New, f)
			}
		}
		r.Vectors = append(r.Vectors, vc)
	}
	r.Covered = c.collect(all)
	return r, nil
}
