// The ragkit command exercises the arena, registry and profiler the way a
// retrieval host would and prints a short status.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/peterbourgon/ff/v3"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pavanmanishd/ragkit/arena"
	"github.com/pavanmanishd/ragkit/profiler"
	"github.com/pavanmanishd/ragkit/promstats"
	"github.com/pavanmanishd/ragkit/registry"
)

type config struct {
	arena    arena.Config
	report   bool
	metrics  bool
	logLevel string
}

func parseFlags(args []string) (config, error) {
	fs := flag.NewFlagSet("ragkit", flag.ContinueOnError)
	var cfg config
	fs.IntVar(&cfg.arena.SlabSize, "slab-size", arena.DefaultSlabSize, "arena slab capacity in bytes")
	fs.IntVar(&cfg.arena.Align, "align", 1, "alignment of arena byte allocations; power of two")
	fs.IntVar(&cfg.arena.MaxBytes, "max-bytes", 0, "cap on total arena slab bytes; 0 means unlimited")
	fs.BoolVar(&cfg.report, "report", false, "print the performance report")
	fs.BoolVar(&cfg.metrics, "metrics", false, "print Prometheus metrics")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "log level")

	if err := ff.Parse(fs, args, ff.WithEnvVarPrefix("RAGKIT")); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.RFC3339TimeEncoder
	return zap.Config{
		Level:            lvl,
		Encoding:         "json",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    encoderCfg,
	}.Build()
}

func main() {
	os.Exit(ragkit(os.Args[1:], os.Stdout, newLogger))
}

// ragkit runs the command and returns its exit status. The logger is synced
// before returning so a failure entry is flushed before the process exits.
func ragkit(args []string, w io.Writer, buildLogger func(level string) (*zap.Logger, error)) int {
	cfg, err := parseFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	logger, err := buildLogger(cfg.logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	defer logger.Sync()

	if err := run(cfg, w, logger); err != nil {
		logger.Error("ragkit failed", zap.Error(err))
		return 1
	}
	return 0
}

func run(cfg config, w io.Writer, logger *zap.Logger) error {
	prof := profiler.NewSafe()

	mem, err := arena.NewSafe(cfg.arena)
	if err != nil {
		return errors.Wrap(err, "creating arena")
	}
	defer mem.Release()

	objs := registry.New[int]()
	defer objs.Cleanup()

	err = func() error {
		defer prof.Scope("arena.alloc").End()
		for _, n := range []int{100, 200} {
			if _, err := mem.TryAllocBytes(n); err != nil {
				return errors.Wrapf(err, "allocating %d bytes", n)
			}
		}
		return nil
	}()
	if err != nil {
		return err
	}

	prof.Track("registry.create", func() {
		objs.Create(42)
		objs.Create(84)
	})

	fmt.Fprintln(w, "Memory pool allocation successful")
	fmt.Fprintf(w, "Smart pointer count: %d\n", objs.Count())

	if logger.Core().Enabled(zapcore.DebugLevel) {
		logger.Debug("arena state", zap.Object("arena", mem.Metrics()))
		prof.Log(logger.Named("profiler"))
	}

	if cfg.report {
		if err := prof.Report(w); err != nil {
			return err
		}
	}
	if cfg.metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			promstats.NewArenaCollector("demo", mem),
			promstats.NewProfilerCollector(prof),
		)
		if err := writeMetrics(w, reg); err != nil {
			return errors.Wrap(err, "writing metrics")
		}
	}
	return nil
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	mfs, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
