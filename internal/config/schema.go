// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package config loads the YAML run configuration of the faultsim command.
//
package config

// Run modes.
const (
	ModeSimulate = "simulate"
	ModeCoverage = "coverage"
	ModeGroups   = "groups"
	ModeSCOAP    = "scoap"
	ModeATPG     = "atpg"
	ModeBIST     = "bist"
)

// RunConfig is the top-level YAML structure.
type RunConfig struct {
	Version     string   `yaml:"version"`
	Bench       string   `yaml:"bench"`   // path to a bench file
	Builtin     string   `yaml:"builtin"` // benchlib circuit name, used when Bench is empty
	Mode        string   `yaml:"mode"`
	Vectors     []string `yaml:"vectors"`
	Faults      []string `yaml:"faults"` // fault keys, e.g. 10-1-0
	Exhaustive  bool     `yaml:"exhaustive"`
	Workers     int      `yaml:"workers"`
	LogLevel    string   `yaml:"log_level"`
	MetricsAddr string   `yaml:"metrics_addr"`
	Watch       bool     `yaml:"watch"`
	BIST        BISTConf `yaml:"bist"`
}

// BISTConf holds the BIST generator settings. Empty seeds are drawn at
// random for each trial.
type BISTConf struct {
	LFSRSeed  string `yaml:"lfsr_seed"`
	LFSRStart string `yaml:"lfsr_start"`
	MISRSeed  string `yaml:"misr_seed"`
	MaxCycles int    `yaml:"max_cycles"`
	Trials    int    `yaml:"trials"`
}
