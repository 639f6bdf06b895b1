package arena

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zapcore"
)

func TestArenaMetrics(t *testing.T) {
	a := NewArena(1024)

	if a.SizeInUse() != 0 {
		t.Errorf("Initial SizeInUse = %d, want 0", a.SizeInUse())
	}
	if a.NumSlabs() != 1 {
		t.Errorf("Initial NumSlabs = %d, want 1", a.NumSlabs())
	}
	if a.Capacity() != 1024 {
		t.Errorf("Initial Capacity = %d, want 1024", a.Capacity())
	}
	if a.SlabSize() != 1024 {
		t.Errorf("SlabSize = %d, want 1024", a.SlabSize())
	}
	if a.Utilization() != 0 {
		t.Errorf("Initial Utilization = %f, want 0", a.Utilization())
	}

	a.AllocBytes(100)
	a.AllocBytes(200)
	if a.SizeInUse() != 300 {
		t.Errorf("SizeInUse = %d, want 300", a.SizeInUse())
	}
	if a.Remaining() != 724 {
		t.Errorf("Remaining = %d, want 724", a.Remaining())
	}

	a.AllocBytes(2000)
	want := ArenaMetrics{
		SizeInUse:   2300,
		Capacity:    3024,
		NumSlabs:    2,
		SlabSize:    1024,
		Offset:      2000,
		Peak:        2300,
		Utilization: 2300.0 / 3024.0,
	}
	if diff := cmp.Diff(want, a.Metrics()); diff != "" {
		t.Errorf("Metrics mismatch (-want +got):\n%s", diff)
	}
}

func TestArenaPeak(t *testing.T) {
	a := NewArena(1024)
	a.AllocBytes(900)
	a.Reset()
	a.AllocBytes(100)
	if a.Peak() != 900 {
		t.Errorf("Peak = %d, want 900", a.Peak())
	}
	a.AllocBytes(1000)
	if a.Peak() != 1100 {
		t.Errorf("Peak = %d, want 1100", a.Peak())
	}
}

func TestArenaMetricsAfterRelease(t *testing.T) {
	a := NewArena(1024)
	a.AllocBytes(100)

	a.Release()

	if a.SizeInUse() != 0 {
		t.Errorf("SizeInUse after Release = %d, want 0", a.SizeInUse())
	}
	if a.NumSlabs() != 0 {
		t.Errorf("NumSlabs after Release = %d, want 0", a.NumSlabs())
	}
	if a.Capacity() != 0 {
		t.Errorf("Capacity after Release = %d, want 0", a.Capacity())
	}
	if a.Utilization() != 0 {
		t.Errorf("Utilization after Release = %f, want 0", a.Utilization())
	}
	if a.Offset() != 0 || a.Remaining() != 0 {
		t.Errorf("Offset/Remaining after Release = %d/%d, want 0/0", a.Offset(), a.Remaining())
	}
}

func TestArenaMetricsString(t *testing.T) {
	a := NewArena(1024)
	a.AllocBytes(300)
	got := a.Metrics().String()
	want := "300 B of 1.0 KiB in 1 slabs (29.3%, peak 300 B)"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestArenaMetricsMarshalLogObject(t *testing.T) {
	a := NewArena(1024)
	a.AllocBytes(256)

	enc := zapcore.NewMapObjectEncoder()
	if err := a.Metrics().MarshalLogObject(enc); err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"in_use":      256,
		"capacity":    1024,
		"slabs":       1,
		"slab_size":   1024,
		"offset":      256,
		"peak":        256,
		"utilization": 0.25,
	}
	if diff := cmp.Diff(want, enc.Fields); diff != "" {
		t.Errorf("log fields mismatch (-want +got):\n%s", diff)
	}
}

func TestSafeArenaMetrics(t *testing.T) {
	s := NewSafeArena(2048)
	s.AllocBytes(300)

	if s.SizeInUse() != 300 {
		t.Errorf("SafeArena SizeInUse = %d, want 300", s.SizeInUse())
	}
	if s.NumSlabs() != 1 {
		t.Errorf("SafeArena NumSlabs = %d, want 1", s.NumSlabs())
	}
	if s.Capacity() != 2048 {
		t.Errorf("SafeArena Capacity = %d, want 2048", s.Capacity())
	}

	utilization := s.Utilization()
	if utilization <= 0 || utilization > 1 {
		t.Errorf("SafeArena Utilization = %f, want 0 < x <= 1", utilization)
	}

	metrics := s.Metrics()
	if metrics.SlabSize != 2048 {
		t.Errorf("SafeArena Metrics.SlabSize = %d, want 2048", metrics.SlabSize)
	}
}
