// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package metrics holds the Prometheus collectors of the fault simulator.
//
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Simulations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "faultsim_simulations_total",
		Help: "Total number of test vectors simulated by the command line tool.",
	})

	CoverageRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "faultsim_coverage_runs_total",
		Help: "Total number of coverage computations.",
	})

	FaultsCovered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "faultsim_faults_covered_total",
		Help: "Total number of faults reported as covered.",
	})

	CoverageDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "faultsim_coverage_duration_ms",
		Help:    "Coverage computation latency in milliseconds.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	})

	BISTFaults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "faultsim_bist_faults_total",
		Help: "Total number of faults run through BIST, labelled by outcome.",
	}, []string{"outcome"})

	BISTTrialDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "faultsim_bist_trial_duration_ms",
		Help:    "BIST trial latency in milliseconds.",
		Buckets: []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	})
)

// BIST outcome labels.
const (
	OutcomeCovered    = "covered"
	OutcomeNotCovered = "not_covered"
	OutcomeEscaped    = "escaped"
)
