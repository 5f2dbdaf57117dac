// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package bist

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/db47h/faultsim"
	"github.com/db47h/faultsim/internal/metrics"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Trial is the outcome of a BIST configuration over the whole fault universe
// of a circuit.
//
type Trial struct {
	ID         uuid.UUID
	Config     Config
	Signature  string // fault-free signature
	Vectors    int    // number of vectors generated
	Faults     int    // number of faults tested
	Covered    []faultsim.Fault
	NotCovered []faultsim.Fault
	Escaped    []faultsim.Fault // covered but with a fault-free signature
	NotEscaped []faultsim.Fault // signature differs from the fault-free one
	Duration   time.Duration
}

// Run tests every fault of the circuit described by desc with the given BIST
// configuration. Faults are dispatched to workers goroutines, each simulating
// its own copy of the circuit. If workers is less than 1, GOMAXPROCS is used.
//
// Run stops early and returns the context error if ctx is cancelled. A nil
// logger disables logging.
//
func Run(ctx context.Context, desc *faultsim.Descriptor, cfg Config, workers int, logger *slog.Logger) (*Trial, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	start := time.Now()

	ref, err := faultsim.New(desc)
	if err != nil {
		return nil, err
	}
	sig, n, err := Signature(ref, cfg)
	if err != nil {
		return nil, err
	}
	t := &Trial{ID: uuid.New(), Config: cfg, Signature: sig, Vectors: n}
	logger = logger.With("trial", t.ID)
	logger.Debug("fault-free signature", "signature", sig, "vectors", n)

	faults := ref.AllFaults()
	t.Faults = len(faults)
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(faults) {
		workers = len(faults)
	}
	circuits := make([]*faultsim.Circuit, workers)
	for i := range circuits {
		if i == 0 {
			circuits[i] = ref
			continue
		}
		if circuits[i], err = faultsim.New(desc); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	p := newWorkerPool(ctx, workers, len(faults), func(ctx context.Context, w int, fi int) (Result, error) {
		return TestFault(circuits[w], cfg, faults[fi], sig)
	})
	for fi := range faults {
		p.Submit(fi)
	}
	p.Close()

	results := make([]Result, len(faults))
	done := 0
	for r := range p.Results() {
		if r.err != nil {
			cancel()
			return nil, r.err
		}
		results[r.payload] = r.res
		done++
	}
	if done < len(faults) {
		return nil, errors.Wrapf(ctx.Err(), "trial %s: %d of %d faults tested", t.ID, done, len(faults))
	}

	for _, r := range results {
		if r.Covered {
			t.Covered = append(t.Covered, r.Fault)
			metrics.BISTFaults.WithLabelValues(metrics.OutcomeCovered).Inc()
		} else {
			t.NotCovered = append(t.NotCovered, r.Fault)
			metrics.BISTFaults.WithLabelValues(metrics.OutcomeNotCovered).Inc()
		}
		switch {
		case !r.Escaped:
			t.NotEscaped = append(t.NotEscaped, r.Fault)
		case r.Covered:
			t.Escaped = append(t.Escaped, r.Fault)
			metrics.BISTFaults.WithLabelValues(metrics.OutcomeEscaped).Inc()
		}
	}
	t.Duration = time.Since(start)
	metrics.BISTTrialDuration.Observe(float64(t.Duration.Milliseconds()))
	logger.Info("trial complete",
		"faults", t.Faults,
		"covered", len(t.Covered),
		"escaped", len(t.Escaped),
		"workers", workers,
		"duration", t.Duration)
	return t, nil
}
