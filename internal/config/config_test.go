// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/db47h/faultsim/internal/config"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestNewLoader_defaults(t *testing.T) {
	p := filepath.Join(t.TempDir(), "run.yaml")
	writeFile(t, p, "builtin: c17\nvectors: [\"10101\", \"0000U\"]\nbist:\n  lfsr_seed: \"01001\"\n")
	l, err := config.NewLoader(p)
	if err != nil {
		t.Fatal(err)
	}
	cfg := l.Config()
	if cfg.Mode != config.ModeCoverage || cfg.LogLevel != "info" || cfg.Workers != runtime.GOMAXPROCS(0) {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.BIST.MaxCycles != 1000 || cfg.BIST.Trials != 1 || cfg.BIST.LFSRSeed != "01001" {
		t.Fatalf("unexpected bist config: %+v", cfg.BIST)
	}
	if len(cfg.Vectors) != 2 || cfg.Vectors[1] != "0000U" {
		t.Fatalf("unexpected vectors: %v", cfg.Vectors)
	}
	if err := config.Validate(cfg); err != nil {
		t.Fatal(err)
	}
}

func TestNewLoader_errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := config.NewLoader(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected error on missing file")
	}
	p := filepath.Join(dir, "bad.yaml")
	writeFile(t, p, "mode: [")
	if _, err := config.NewLoader(p); err == nil {
		t.Fatal("expected error on malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	cfg := config.Default()
	cfg.Bench, cfg.Builtin = "a.bench", "c17"
	cfg.Mode = "fly"
	cfg.LogLevel = "loud"
	cfg.Vectors = []string{"01", "0?"}
	cfg.Faults = []string{"a-0", "a-2"}
	cfg.BIST.LFSRSeed, cfg.BIST.LFSRStart = "012", "10"
	err := config.Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, s := range []string{"only one of bench", "unknown mode", "log level", "vectors[1]", "faults[1]", "lfsr_seed", "same length"} {
		if !strings.Contains(err.Error(), s) {
			t.Errorf("missing %q in %v", s, err)
		}
	}
	if err := config.Validate(config.Default()); err == nil || !strings.Contains(err.Error(), "one of bench or builtin is required") {
		t.Errorf("expected missing circuit error, got %v", err)
	}
}

func TestLoader_Reload(t *testing.T) {
	p := filepath.Join(t.TempDir(), "run.yaml")
	writeFile(t, p, "builtin: c17\n")
	l, err := config.NewLoader(p)
	if err != nil {
		t.Fatal(err)
	}
	var got *config.RunConfig
	l.OnChange(func(c *config.RunConfig) { got = c })
	writeFile(t, p, "builtin: mux\nmode: bist\n")
	if _, err := l.Reload(); err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Builtin != "mux" || l.Config().Mode != config.ModeBIST {
		t.Fatalf("reload not applied: %+v", got)
	}
}

func TestLoader_Watch(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "run.yaml")
	b := filepath.Join(dir, "c.bench")
	writeFile(t, p, "bench: "+b+"\n")
	writeFile(t, b, "INPUT(a)\n")
	l, err := config.NewLoader(p)
	if err != nil {
		t.Fatal(err)
	}
	changed := make(chan *config.RunConfig, 8)
	l.OnChange(func(c *config.RunConfig) { changed <- c })
	stop, err := l.Watch(b)
	if err != nil {
		t.Skip("fsnotify unavailable:", err)
	}
	defer stop()

	// touching the extra file reloads the config
	writeFile(t, b, "INPUT(a)\nOUTPUT(a)\n")
	select {
	case c := <-changed:
		if c.Bench != b {
			t.Fatalf("unexpected config %+v", c)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after file change")
	}
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"debug", "INFO", "warn", "error", ""} {
		if _, err := config.ParseLevel(s); err != nil {
			t.Errorf("%q: %v", s, err)
		}
	}
	if _, err := config.ParseLevel("verbose"); err == nil {
		t.Error("expected error")
	}
}
