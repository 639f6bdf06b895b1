package profiler

import (
	"time"

	"github.com/pkg/errors"
)

// ErrUnbalancedEnd is the panic value raised by a strict Profiler when End is
// called for a span that has no matching Start.
var ErrUnbalancedEnd = errors.New("profiler: End without matching Start")

// Clock supplies timestamps. Intervals are computed with time.Time.Sub, so a
// clock returning values from time.Now is immune to wall-clock steps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// record is the aggregate kept per span name.
type record struct {
	start  time.Time // valid only while active
	active bool
	total  time.Duration
	calls  int
}

func (r *record) average() time.Duration {
	if r.calls == 0 {
		return 0
	}
	return r.total / time.Duration(r.calls)
}

// Profiler accumulates wall-clock durations and call counts per named span.
// Span names are case-sensitive. A Profiler is not safe for concurrent use;
// see SafeProfiler.
type Profiler struct {
	clock      Clock
	strict     bool
	records    map[string]*record
	unbalanced int
}

// Option configures a Profiler.
type Option func(*Profiler)

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(p *Profiler) { p.clock = c }
}

// WithStrict makes End panic with ErrUnbalancedEnd instead of ignoring an
// unmatched call.
func WithStrict(strict bool) Option {
	return func(p *Profiler) { p.strict = strict }
}

// New returns an empty Profiler.
func New(opts ...Option) *Profiler {
	p := &Profiler{
		clock:   systemClock{},
		records: make(map[string]*record),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start records the current time as the start of span name, creating the
// span on first use. Starting a span that is already running restarts it.
func (p *Profiler) Start(name string) {
	r, ok := p.records[name]
	if !ok {
		r = &record{}
		p.records[name] = r
	}
	r.start = p.clock.Now()
	r.active = true
}

// End completes the running span name, adding the elapsed time to its total
// and incrementing its call count.
//
// An End with no running span leaves every counter untouched and is tallied
// in Unbalanced; strict profilers panic instead.
func (p *Profiler) End(name string) {
	now := p.clock.Now()
	r, ok := p.records[name]
	if !ok || !r.active {
		p.unbalanced++
		if p.strict {
			panic(errors.Wrapf(ErrUnbalancedEnd, "span %q", name))
		}
		return
	}
	// A clock that stepped backwards contributes nothing, so totals never shrink.
	if d := now.Sub(r.start); d > 0 {
		r.total += d
	}
	r.calls++
	r.active = false
}

// TotalTime returns the accumulated time of span name in seconds, or 0 if
// the span was never started.
func (p *Profiler) TotalTime(name string) float64 {
	return p.Total(name).Seconds()
}

// Total returns the accumulated time of span name.
func (p *Profiler) Total(name string) time.Duration {
	if r, ok := p.records[name]; ok {
		return r.total
	}
	return 0
}

// CallCount returns the number of completed Start/End pairs for name.
func (p *Profiler) CallCount(name string) int {
	if r, ok := p.records[name]; ok {
		return r.calls
	}
	return 0
}

// Average returns Total(name)/CallCount(name), or 0 when nothing completed.
func (p *Profiler) Average(name string) time.Duration {
	if r, ok := p.records[name]; ok {
		return r.average()
	}
	return 0
}

// Running reports whether span name has been started and not yet ended.
func (p *Profiler) Running(name string) bool {
	r, ok := p.records[name]
	return ok && r.active
}

// Unbalanced returns how many End calls were ignored for lack of a Start.
func (p *Profiler) Unbalanced() int {
	return p.unbalanced
}

// Len returns the number of distinct spans ever started.
func (p *Profiler) Len() int {
	return len(p.records)
}

// Reset forgets every span.
func (p *Profiler) Reset() {
	clear(p.records)
	p.unbalanced = 0
}
