package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pavanmanishd/ragkit/arena"
)

func TestRunStatusLines(t *testing.T) {
	cfg, err := parseFlags(nil)
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := run(cfg, &out, zaptest.NewLogger(t)); err != nil {
		t.Fatal(err)
	}
	want := "Memory pool allocation successful\nSmart pointer count: 2\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRunReportAndMetrics(t *testing.T) {
	cfg, err := parseFlags([]string{"-report", "-metrics", "-slab-size", "256"})
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := run(cfg, &out, zap.NewNop()); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	for _, want := range []string{
		"=== Performance Report ===",
		"arena.alloc",
		"registry.create",
		`ragkit_arena_bytes_in_use{arena="demo"} 300`,
		`ragkit_arena_slabs{arena="demo"} 2`,
		`ragkit_span_calls_total{span="arena.alloc"} 1`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRunDebugLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	cfg, err := parseFlags(nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := run(cfg, &bytes.Buffer{}, zap.New(core)); err != nil {
		t.Fatal(err)
	}
	if n := logs.FilterMessage("arena state").Len(); n != 1 {
		t.Errorf("got %d arena state entries, want 1", n)
	}
	if n := logs.FilterMessage("span timing").Len(); n != 2 {
		t.Errorf("got %d span timing entries, want 2", n)
	}
}

func TestRunInvalidArenaConfig(t *testing.T) {
	cfg, err := parseFlags([]string{"-align", "3"})
	if err != nil {
		t.Fatal(err)
	}
	err = run(cfg, &bytes.Buffer{}, zap.NewNop())
	if !errors.Is(err, arena.ErrInvalidConfig) {
		t.Errorf("run error = %v, want ErrInvalidConfig", err)
	}
}

func TestParseFlagsEnv(t *testing.T) {
	t.Setenv("RAGKIT_SLAB_SIZE", "4096")
	t.Setenv("RAGKIT_MAX_BYTES", "65536")
	cfg, err := parseFlags([]string{"-align", "8"})
	if err != nil {
		t.Fatal(err)
	}
	want := arena.Config{SlabSize: 4096, Align: 8, MaxBytes: 65536}
	if diff := cmp.Diff(want, cfg.arena); diff != "" {
		t.Errorf("arena config mismatch (-want +got):\n%s", diff)
	}
	if cfg.logLevel != "info" {
		t.Errorf("logLevel = %q, want info", cfg.logLevel)
	}
}

func TestNewLogger(t *testing.T) {
	if _, err := newLogger("debug"); err != nil {
		t.Errorf("newLogger(debug): %v", err)
	}
	if _, err := newLogger("loud"); err == nil {
		t.Error("newLogger(loud) succeeded")
	}
}

func TestExitStatus(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	build := func(string) (*zap.Logger, error) { return zap.New(core), nil }

	var out bytes.Buffer
	if code := ragkit(nil, &out, build); code != 0 {
		t.Errorf("exit status = %d, want 0", code)
	}
	if !strings.HasPrefix(out.String(), "Memory pool allocation successful\n") {
		t.Errorf("unexpected output:\n%s", out.String())
	}

	if code := ragkit([]string{"-align", "3"}, &bytes.Buffer{}, build); code != 1 {
		t.Errorf("exit status = %d, want 1", code)
	}
	entries := logs.FilterMessage("ragkit failed").All()
	if len(entries) != 1 {
		t.Fatalf("got %d failure entries, want 1", len(entries))
	}
	if entries[0].Level != zapcore.ErrorLevel {
		t.Errorf("failure logged at %v, want error", entries[0].Level)
	}

	if code := ragkit([]string{"-log-level", "loud"}, &bytes.Buffer{}, newLogger); code != 2 {
		t.Errorf("exit status = %d, want 2", code)
	}
}
