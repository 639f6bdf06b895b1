package profiler

import (
	"os"
	"time"
)

func Example() {
	clock := newFakeClock()
	p := New(WithClock(clock))

	retrieve := func(query string) {
		defer p.Scope("retrieve").End()
		clock.Advance(40 * time.Millisecond)
	}
	for _, q := range []string{"pricing", "refunds"} {
		retrieve(q)
	}
	p.Track("generate", func() { clock.Advance(1200 * time.Millisecond) })

	p.Report(os.Stdout)

	// Output:
	// === Performance Report ===
	// Function Name   Calls   Total(s)   Avg(ms)
	// ------------------------------------------------
	// generate              1   1.200000  1200.000
	// retrieve              2   0.080000    40.000
}
