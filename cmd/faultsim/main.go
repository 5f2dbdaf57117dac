// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command faultsim runs fault simulation, coverage, test generation and BIST
// trials on combinational circuits and prints a YAML report.
//
// Settings are read from an optional YAML config file; command line flags
// override them.
//
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/db47h/faultsim"
	"github.com/db47h/faultsim/bench"
	"github.com/db47h/faultsim/benchlib"
	"github.com/db47h/faultsim/internal/config"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/yaml.v3"
)

type flags struct {
	cfgPath     string
	bench       string
	builtin     string
	mode        string
	vectors     string
	faults      string
	exhaustive  bool
	workers     int
	logLevel    string
	metricsAddr string
	watch       bool
	list        bool
}

func parseFlags() *flags {
	f := &flags{}
	flag.StringVar(&f.cfgPath, "config", "", "path to a YAML run config")
	flag.StringVar(&f.bench, "bench", "", "path to a bench netlist")
	flag.StringVar(&f.builtin, "builtin", "", "name of a built-in circuit (see -list)")
	flag.StringVar(&f.mode, "mode", "", "run mode: simulate, coverage, groups, scoap, atpg or bist")
	flag.StringVar(&f.vectors, "vectors", "", "comma separated test vectors")
	flag.StringVar(&f.faults, "faults", "", "comma separated fault keys")
	flag.BoolVar(&f.exhaustive, "exhaustive", false, "apply every input vector")
	flag.IntVar(&f.workers, "workers", 0, "number of BIST workers")
	flag.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flag.StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	flag.BoolVar(&f.watch, "watch", false, "re-run when the config or bench file changes")
	flag.BoolVar(&f.list, "list", false, "list built-in circuits and exit")
	flag.Parse()
	return f
}

// apply overrides cfg with the flags explicitly set on the command line.
func (f *flags) apply(cfg *config.RunConfig) {
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "bench":
			cfg.Bench, cfg.Builtin = f.bench, ""
		case "builtin":
			cfg.Builtin, cfg.Bench = f.builtin, ""
		case "mode":
			cfg.Mode = f.mode
		case "vectors":
			cfg.Vectors = splitList(f.vectors)
		case "faults":
			cfg.Faults = splitList(f.faults)
		case "exhaustive":
			cfg.Exhaustive = f.exhaustive
		case "workers":
			cfg.Workers = f.workers
		case "log-level":
			cfg.LogLevel = f.logLevel
		case "metrics-addr":
			cfg.MetricsAddr = f.metricsAddr
		case "watch":
			cfg.Watch = f.watch
		}
	})
}

func loadCircuit(cfg *config.RunConfig) (string, *faultsim.Descriptor, error) {
	if cfg.Bench == "" {
		d, ok := benchlib.Lookup(cfg.Builtin)
		if !ok {
			return "", nil, errors.Errorf("unknown built-in circuit %q", cfg.Builtin)
		}
		return cfg.Builtin, d, nil
	}
	r, err := os.Open(cfg.Bench)
	if err != nil {
		return "", nil, errors.Wrap(err, "open bench")
	}
	defer r.Close()
	d, err := bench.Parse(r)
	if err != nil {
		return "", nil, errors.Wrap(err, cfg.Bench)
	}
	return filepath.Base(cfg.Bench), d, nil
}

func execute(ctx context.Context, cfg *config.RunConfig, logger *slog.Logger) error {
	name, d, err := loadCircuit(cfg)
	if err != nil {
		return err
	}
	r, err := run(ctx, cfg, name, d, logger)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return errors.Wrap(err, "write report")
	}
	return errors.Wrap(enc.Close(), "write report")
}

func main() {
	f := parseFlags()
	if f.list {
		fmt.Println(strings.Join(benchlib.Names(), "\n"))
		return
	}

	var loader *config.Loader
	cfg := config.Default()
	if f.cfgPath != "" {
		var err error
		if loader, err = config.NewLoader(f.cfgPath); err != nil {
			slog.Error("failed to load config", "err", err)
			os.Exit(1)
		}
		cfg = loader.Config()
	}
	f.apply(cfg)

	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := config.Validate(cfg); err != nil {
		slog.Error("config validation failed", "err", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var srv *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv = &http.Server{
			Addr:        cfg.MetricsAddr,
			Handler:     mux,
			ReadTimeout: 10 * time.Second,
		}
		go func() {
			slog.Info("metrics server starting", "addr", cfg.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("metrics server error", "err", err)
			}
		}()
	}

	if err := execute(ctx, cfg, logger); err != nil {
		slog.Error("run failed", "err", err)
		if !cfg.Watch {
			os.Exit(1)
		}
	}

	if cfg.Watch {
		watch(ctx, f, loader, cfg, logger)
	} else if srv != nil {
		// keep serving metrics until interrupted
		<-ctx.Done()
	}

	if srv != nil {
		shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutCancel()
		_ = srv.Shutdown(shutCtx)
	}
}

// watch re-runs on config or bench file changes until ctx is done.
func watch(ctx context.Context, f *flags, loader *config.Loader, cfg *config.RunConfig, logger *slog.Logger) {
	if loader == nil {
		slog.Warn("watch mode requires -config")
		return
	}
	var extra []string
	if cfg.Bench != "" {
		extra = append(extra, cfg.Bench)
	}
	runs := make(chan *config.RunConfig, 1)
	loader.OnChange(func(c *config.RunConfig) {
		select {
		case runs <- c:
		default:
		}
	})
	loader.OnError(func(err error) {
		slog.Warn("hot-reload skipped", "err", err)
	})
	stop, err := loader.Watch(extra...)
	if err != nil {
		slog.Warn("config watcher unavailable", "err", err)
		return
	}
	defer stop()
	slog.Info("watching for changes")

	for {
		select {
		case c := <-runs:
			next := *c
			f.apply(&next)
			if err := config.Validate(&next); err != nil {
				slog.Warn("hot-reload skipped: config invalid", "err", err)
				continue
			}
			if err := execute(ctx, &next, logger); err != nil {
				slog.Error("run failed", "err", err)
			}
		case <-ctx.Done():
			slog.Info("shutting down")
			return
		}
	}
}
