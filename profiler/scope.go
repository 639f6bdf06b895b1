package profiler

// ender is implemented by Profiler and SafeProfiler.
type ender interface {
	End(name string)
}

// Scope is a running span that ends exactly once. The usual form is
//
//	defer p.Scope("retrieve").End()
//
// which ends the span on return and while a panic unwinds the stack. Nested
// scopes need distinct names: a span has a single start slot.
type Scope struct {
	p    ender
	name string
	done bool
}

// Scope starts span name and returns the handle that ends it.
func (p *Profiler) Scope(name string) *Scope {
	p.Start(name)
	return &Scope{p: p, name: name}
}

// Name returns the span name.
func (s *Scope) Name() string {
	return s.name
}

// End ends the span. Calls after the first are no-ops.
func (s *Scope) End() {
	if s == nil || s.done {
		return
	}
	s.done = true
	s.p.End(s.name)
}

// Time starts span name and returns a function that ends it:
//
//	defer p.Time("rerank")()
func (p *Profiler) Time(name string) func() {
	return p.Scope(name).End
}

// Track runs fn inside span name.
func (p *Profiler) Track(name string, fn func()) {
	defer p.Scope(name).End()
	fn()
}
