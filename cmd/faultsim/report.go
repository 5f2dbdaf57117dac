// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/db47h/faultsim"
	"github.com/db47h/faultsim/atpg"
	"github.com/db47h/faultsim/bist"
	"github.com/db47h/faultsim/internal/config"
	"github.com/db47h/faultsim/internal/metrics"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Report is the YAML document written on stdout.
type Report struct {
	RunID    string           `yaml:"run_id"`
	Circuit  string           `yaml:"circuit"`
	Mode     string           `yaml:"mode"`
	Inputs   []string         `yaml:"inputs"`
	Outputs  []string         `yaml:"outputs"`
	Faults   int              `yaml:"faults"`
	Simulate []simulateEntry  `yaml:"simulate,omitempty"`
	Coverage *coverageSummary `yaml:"coverage,omitempty"`
	Groups   []groupEntry     `yaml:"groups,omitempty"`
	SCOAP    []scoapEntry     `yaml:"scoap,omitempty"`
	ATPG     []atpgEntry      `yaml:"atpg,omitempty"`
	BIST     []bistEntry      `yaml:"bist,omitempty"`
	Averages *bistAverages    `yaml:"bist_averages,omitempty"`
}

type simulateEntry struct {
	Vector   string `yaml:"vector"`
	Good     string `yaml:"good"`
	Faulty   string `yaml:"faulty"`
	Detected bool   `yaml:"detected"`
}

type vectorEntry struct {
	Vector  string   `yaml:"vector"`
	Covered int      `yaml:"covered"`
	New     []string `yaml:"new,flow"`
}

type coverageSummary struct {
	Vectors  []vectorEntry `yaml:"vectors"`
	Covered  int           `yaml:"covered"`
	Percent  float64       `yaml:"percent"`
	Missing  []string      `yaml:"missing,flow"`
	Duration string        `yaml:"duration"`
}

type groupEntry struct {
	Faults    []string `yaml:"faults,flow"`
	Dominates []string `yaml:"dominates,flow,omitempty"`
}

type scoapEntry struct {
	Node  string `yaml:"node"`
	Role  string `yaml:"role"`
	Logic string `yaml:"logic,omitempty"`
	C0    int    `yaml:"c0"`
	C1    int    `yaml:"c1"`
	N0    int    `yaml:"n0"`
	N1    int    `yaml:"n1"`
}

type atpgEntry struct {
	Fault  string `yaml:"fault"`
	Vector string `yaml:"vector,omitempty"`
	Error  string `yaml:"error,omitempty"`
}

type bistEntry struct {
	ID         string   `yaml:"id"`
	LFSRSeed   string   `yaml:"lfsr_seed"`
	LFSRStart  string   `yaml:"lfsr_start"`
	MISRSeed   string   `yaml:"misr_seed"`
	Signature  string   `yaml:"signature"`
	Vectors    int      `yaml:"vectors"`
	Covered    int      `yaml:"covered"`
	NotCovered []string `yaml:"not_covered,flow"`
	Escaped    []string `yaml:"escaped,flow"`
	NotEscaped int      `yaml:"not_escaped"`
	Duration   string   `yaml:"duration"`
}

// bistAverages summarizes several BIST trials. Rates are percentages.
type bistAverages struct {
	Trials            int     `yaml:"trials"`
	Vectors           float64 `yaml:"vectors"`
	Covered           float64 `yaml:"covered"`
	NotCovered        float64 `yaml:"not_covered"`
	Escaped           float64 `yaml:"escaped"`
	NotEscaped        float64 `yaml:"not_escaped"`
	CoveredEscapeRate float64 `yaml:"covered_escape_rate"`
	UndetectedRate    float64 `yaml:"undetected_rate"`
}

func averages(ts []bistEntry, faults int) *bistAverages {
	a := &bistAverages{Trials: len(ts)}
	if len(ts) == 0 {
		return a
	}
	for _, t := range ts {
		a.Vectors += float64(t.Vectors)
		a.Covered += float64(t.Covered)
		a.NotCovered += float64(len(t.NotCovered))
		a.Escaped += float64(len(t.Escaped))
		a.NotEscaped += float64(t.NotEscaped)
	}
	n := float64(len(ts))
	a.Vectors /= n
	a.Covered /= n
	a.NotCovered /= n
	a.Escaped /= n
	a.NotEscaped /= n
	if a.Covered > 0 {
		a.CoveredEscapeRate = 100 * a.Escaped / a.Covered
	}
	if faults > 0 {
		a.UndetectedRate = 100 * (a.Escaped + a.NotCovered) / float64(faults)
	}
	return a
}

func keys(fs []faultsim.Fault) []string {
	r := make([]string, len(fs))
	for i, f := range fs {
		r[i] = f.String()
	}
	return r
}

// allVectors returns every binary vector of n bits.
func allVectors(n int) []string {
	vs := make([]string, 0, 1<<uint(n))
	b := make([]byte, n)
	for i := 0; i < 1<<uint(n); i++ {
		for j := range b {
			b[n-j-1] = '0' + byte(i>>uint(j)&1)
		}
		vs = append(vs, string(b))
	}
	return vs
}

// maxExhaustive bounds the input count of exhaustive runs.
const maxExhaustive = 20

func vectors(cfg *config.RunConfig, c *faultsim.Circuit) ([]string, error) {
	if !cfg.Exhaustive {
		return cfg.Vectors, nil
	}
	if n := len(c.Inputs()); n > maxExhaustive {
		return nil, errors.Errorf("exhaustive run on %d inputs, max is %d", n, maxExhaustive)
	}
	return allVectors(len(c.Inputs())), nil
}

func run(ctx context.Context, cfg *config.RunConfig, name string, desc *faultsim.Descriptor, logger *slog.Logger) (*Report, error) {
	c, err := faultsim.New(desc)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	faults, err := faultsim.ParseFaults(cfg.Faults)
	if err != nil {
		return nil, err
	}
	r := &Report{
		RunID:   uuid.NewString(),
		Circuit: name,
		Mode:    cfg.Mode,
		Inputs:  c.Inputs(),
		Outputs: c.Outputs(),
		Faults:  len(c.AllFaults()),
	}
	logger = logger.With("run", r.RunID, "circuit", name)
	logger.Info("circuit loaded", "nodes", c.NodeCount(), "gates", c.GateCount(), "faults", r.Faults)

	switch cfg.Mode {
	case config.ModeSimulate:
		vs, err := vectors(cfg, c)
		if err != nil {
			return nil, err
		}
		for _, f := range faults {
			c.InsertFault(f)
		}
		for _, v := range vs {
			if err := c.Simulate(v); err != nil {
				return nil, err
			}
			metrics.Simulations.Inc()
			r.Simulate = append(r.Simulate, simulateEntry{
				Vector:   v,
				Good:     c.OutputString(false),
				Faulty:   c.OutputString(true),
				Detected: c.IsFaultDetected(),
			})
		}

	case config.ModeCoverage:
		vs, err := vectors(cfg, c)
		if err != nil {
			return nil, err
		}
		start := time.Now()
		cr, err := c.Coverage(vs...)
		if err != nil {
			return nil, err
		}
		d := time.Since(start)
		metrics.CoverageRuns.Inc()
		metrics.Simulations.Add(float64(len(vs)))
		metrics.FaultsCovered.Add(float64(len(cr.Covered)))
		metrics.CoverageDuration.Observe(float64(d.Milliseconds()))
		r.Coverage = coverageReport(c, cr, d)
		logger.Info("coverage", "vectors", len(vs), "covered", len(cr.Covered), "total", cr.Total)

	case config.ModeGroups:
		for _, g := range c.Groups() {
			e := groupEntry{Faults: keys(g)}
			for _, f := range g {
				if d, ok := c.Dominates(f); ok {
					e.Dominates = append(e.Dominates, f.String()+">"+d.String())
				}
			}
			r.Groups = append(r.Groups, e)
		}

	case config.ModeSCOAP:
		vs, err := vectors(cfg, c)
		if err != nil {
			return nil, err
		}
		for _, v := range vs {
			if err := c.Simulate(v); err != nil {
				return nil, err
			}
			metrics.Simulations.Inc()
		}
		for _, n := range c.Table() {
			r.SCOAP = append(r.SCOAP, scoapEntry{
				Node: n.Name, Role: n.Role, Logic: n.Logic,
				C0: n.SCOAP.C0, C1: n.SCOAP.C1, N0: n.SCOAP.N0, N1: n.SCOAP.N1,
			})
		}

	case config.ModeATPG:
		if len(faults) == 0 {
			faults = c.AllFaults()
		}
		var found []string
		for _, f := range faults {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			e := atpgEntry{Fault: f.String()}
			v, err := atpg.Generate(c, f)
			if err != nil {
				e.Error = err.Error()
				if errors.Cause(err) != atpg.ErrUndetectable {
					logger.Warn("test generation failed", "fault", e.Fault, "err", err)
				}
			} else {
				e.Vector = v
				found = append(found, v)
			}
			r.ATPG = append(r.ATPG, e)
		}
		cr, err := c.Coverage(found...)
		if err != nil {
			return nil, err
		}
		r.Coverage = coverageReport(c, cr, 0)

	case config.ModeBIST:
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		for i := 0; i < cfg.BIST.Trials; i++ {
			bc := bist.RandomConfig(c, cfg.BIST.MaxCycles, rnd)
			if cfg.BIST.LFSRSeed != "" {
				bc.LFSRSeed = cfg.BIST.LFSRSeed
			}
			if cfg.BIST.LFSRStart != "" {
				bc.LFSRStart = cfg.BIST.LFSRStart
			}
			if cfg.BIST.MISRSeed != "" {
				bc.MISRSeed = cfg.BIST.MISRSeed
			}
			t, err := bist.Run(ctx, desc, bc, cfg.Workers, logger)
			if err != nil {
				return nil, err
			}
			r.BIST = append(r.BIST, bistEntry{
				ID:         t.ID.String(),
				LFSRSeed:   bc.LFSRSeed,
				LFSRStart:  bc.LFSRStart,
				MISRSeed:   bc.MISRSeed,
				Signature:  t.Signature,
				Vectors:    t.Vectors,
				Covered:    len(t.Covered),
				NotCovered: keys(t.NotCovered),
				Escaped:    keys(t.Escaped),
				NotEscaped: len(t.NotEscaped),
				Duration:   t.Duration.String(),
			})
		}
		if len(r.BIST) > 1 {
			r.Averages = averages(r.BIST, r.Faults)
		}

	default:
		return nil, errors.Errorf("unknown mode %q", cfg.Mode)
	}
	return r, nil
}

func coverageReport(c *faultsim.Circuit, cr *faultsim.CoverageReport, d time.Duration) *coverageSummary {
	s := &coverageSummary{
		Covered:  len(cr.Covered),
		Percent:  100 * cr.Ratio(),
		Duration: d.String(),
	}
	for _, v := range cr.Vectors {
		s.Vectors = append(s.Vectors, vectorEntry{Vector: v.Vector, Covered: len(v.Covered), New: keys(v.New)})
	}
	covered := make(map[faultsim.Fault]bool, len(cr.Covered))
	for _, f := range cr.Covered {
		covered[f] = true
	}
	for _, f := range c.AllFaults() {
		if !covered[f] {
			s.Missing = append(s.Missing, f.String())
		}
	}
	return s
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var r []string
	for _, e := range strings.Split(s, ",") {
		if e = strings.TrimSpace(e); e != "" {
			r = append(r, e)
		}
	}
	return r
}
