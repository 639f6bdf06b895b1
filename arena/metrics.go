package arena

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap/zapcore"
)

// SizeInUse returns the total number of bytes handed out by the arena since
// the last Reset, including any alignment padding.
func (a *Arena) SizeInUse() int {
	sum := 0
	for _, s := range a.slabs {
		sum += s.offset
	}
	return sum
}

// NumSlabs returns the number of slabs currently held by the arena.
func (a *Arena) NumSlabs() int {
	return len(a.slabs)
}

// Capacity returns the total capacity (in bytes) of all slabs in the arena.
func (a *Arena) Capacity() int {
	return a.capacity
}

// Offset returns the bump cursor within the current slab.
func (a *Arena) Offset() int {
	if a.slabs == nil {
		return 0
	}
	return a.current().offset
}

// Remaining returns the number of unused bytes in the current slab.
func (a *Arena) Remaining() int {
	if a.slabs == nil {
		return 0
	}
	return a.current().free()
}

// Peak returns the high-water mark of SizeInUse across resets.
func (a *Arena) Peak() int {
	if used := a.SizeInUse(); used > a.peak {
		return used
	}
	return a.peak
}

// Utilization returns the ratio of bytes in use to total capacity (0.0 to 1.0).
// Returns 0.0 if the arena has no capacity.
func (a *Arena) Utilization() float64 {
	capacity := a.Capacity()
	if capacity == 0 {
		return 0
	}
	return float64(a.SizeInUse()) / float64(capacity)
}

// SlabSize returns the capacity of a regular slab.
func (a *Arena) SlabSize() int {
	return a.slabSize
}

// Metrics returns a snapshot of arena statistics.
func (a *Arena) Metrics() ArenaMetrics {
	return ArenaMetrics{
		SizeInUse:   a.SizeInUse(),
		Capacity:    a.Capacity(),
		NumSlabs:    a.NumSlabs(),
		SlabSize:    a.SlabSize(),
		Offset:      a.Offset(),
		Peak:        a.Peak(),
		Utilization: a.Utilization(),
	}
}

// ArenaMetrics contains statistical information about an arena.
type ArenaMetrics struct {
	SizeInUse   int     // Bytes currently allocated
	Capacity    int     // Total capacity in bytes
	NumSlabs    int     // Number of slabs
	SlabSize    int     // Regular slab capacity
	Offset      int     // Cursor within the current slab
	Peak        int     // Highest SizeInUse seen
	Utilization float64 // Ratio of used to total capacity (0.0-1.0)
}

func (m ArenaMetrics) String() string {
	return fmt.Sprintf("%s of %s in %d slabs (%.1f%%, peak %s)",
		humanize.IBytes(uint64(m.SizeInUse)),
		humanize.IBytes(uint64(m.Capacity)),
		m.NumSlabs,
		m.Utilization*100,
		humanize.IBytes(uint64(m.Peak)))
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (m ArenaMetrics) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("in_use", m.SizeInUse)
	enc.AddInt("capacity", m.Capacity)
	enc.AddInt("slabs", m.NumSlabs)
	enc.AddInt("slab_size", m.SlabSize)
	enc.AddInt("offset", m.Offset)
	enc.AddInt("peak", m.Peak)
	enc.AddFloat64("utilization", m.Utilization)
	return nil
}

// Thread-safe metrics for SafeArena

// SizeInUse thread-safely returns the total number of bytes currently allocated.
func (s *SafeArena) SizeInUse() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.SizeInUse()
}

// NumSlabs thread-safely returns the number of slabs held.
func (s *SafeArena) NumSlabs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.NumSlabs()
}

// Capacity thread-safely returns the total capacity of all slabs.
func (s *SafeArena) Capacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Capacity()
}

// Utilization thread-safely returns the ratio of bytes in use to total capacity.
func (s *SafeArena) Utilization() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Utilization()
}

// Metrics thread-safely returns a snapshot of arena statistics.
func (s *SafeArena) Metrics() ArenaMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Metrics()
}
