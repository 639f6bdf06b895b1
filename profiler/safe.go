package profiler

import (
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SafeProfiler is a mutex-protected wrapper around Profiler.
type SafeProfiler struct {
	mu sync.Mutex
	p  *Profiler
}

// NewSafe returns a goroutine-safe Profiler.
func NewSafe(opts ...Option) *SafeProfiler {
	return &SafeProfiler{p: New(opts...)}
}

// Start thread-safely starts span name.
func (s *SafeProfiler) Start(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.Start(name)
}

// End thread-safely ends span name.
func (s *SafeProfiler) End(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.End(name)
}

// Scope thread-safely starts span name and returns the handle that ends it.
func (s *SafeProfiler) Scope(name string) *Scope {
	s.Start(name)
	return &Scope{p: s, name: name}
}

// Track runs fn inside span name.
func (s *SafeProfiler) Track(name string, fn func()) {
	defer s.Scope(name).End()
	fn()
}

// Time thread-safely starts span name and returns a function that ends it.
func (s *SafeProfiler) Time(name string) func() {
	return s.Scope(name).End
}

// TotalTime thread-safely returns the accumulated time of span name in seconds.
func (s *SafeProfiler) TotalTime(name string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.TotalTime(name)
}

// Total thread-safely returns the accumulated time of span name.
func (s *SafeProfiler) Total(name string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Total(name)
}

// CallCount thread-safely returns the number of completed pairs for name.
func (s *SafeProfiler) CallCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.CallCount(name)
}

// Average thread-safely returns the mean duration of span name.
func (s *SafeProfiler) Average(name string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Average(name)
}

// Running thread-safely reports whether span name is started and not ended.
func (s *SafeProfiler) Running(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Running(name)
}

// Unbalanced thread-safely returns how many End calls were ignored.
func (s *SafeProfiler) Unbalanced() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Unbalanced()
}

// Len thread-safely returns the number of distinct spans ever started.
func (s *SafeProfiler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Len()
}

// Stats thread-safely returns a snapshot of every span.
func (s *SafeProfiler) Stats() []Stat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Stats()
}

// Report writes the report from a snapshot, so w is not written under the lock.
func (s *SafeProfiler) Report(w io.Writer) error {
	return writeReport(w, s.Stats())
}

// PrintReport writes Report to standard output.
func (s *SafeProfiler) PrintReport() {
	_ = s.Report(os.Stdout)
}

// Log writes one info entry per span to logger.
func (s *SafeProfiler) Log(logger *zap.Logger) {
	logStats(logger, s.Stats())
}

// Reset thread-safely forgets every span.
func (s *SafeProfiler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.Reset()
}
