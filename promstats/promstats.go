// Package promstats exports arena and profiler statistics as Prometheus
// metrics. Scrapes run on their own goroutine, so the sources are expected to
// be the goroutine-safe wrappers (arena.SafeArena, profiler.SafeProfiler).
package promstats

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pavanmanishd/ragkit/arena"
	"github.com/pavanmanishd/ragkit/profiler"
)

const namespace = "ragkit"

// ArenaSource is satisfied by arena.SafeArena.
type ArenaSource interface {
	Metrics() arena.ArenaMetrics
}

// StatsSource is satisfied by profiler.SafeProfiler.
type StatsSource interface {
	Stats() []profiler.Stat
}

// ArenaCollector is an implementation of the prometheus.Collector interface
// reporting the gauges of one arena.
type ArenaCollector struct {
	src      ArenaSource
	inUse    *prometheus.Desc
	capacity *prometheus.Desc
	slabs    *prometheus.Desc
	peak     *prometheus.Desc
}

// NewArenaCollector returns a collector for src labelled arena=name.
func NewArenaCollector(name string, src ArenaSource) *ArenaCollector {
	labels := prometheus.Labels{"arena": name}
	desc := func(metric, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "arena", metric), help, nil, labels)
	}
	return &ArenaCollector{
		src:      src,
		inUse:    desc("bytes_in_use", "Bytes handed out since the last reset."),
		capacity: desc("capacity_bytes", "Summed capacity of all slabs."),
		slabs:    desc("slabs", "Number of slabs held."),
		peak:     desc("peak_bytes", "Highest bytes in use seen across resets."),
	}
}

// Describe is part of the implementation of prometheus.Collector.
func (c *ArenaCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.inUse
	ch <- c.capacity
	ch <- c.slabs
	ch <- c.peak
}

// Collect is part of the implementation of prometheus.Collector.
func (c *ArenaCollector) Collect(ch chan<- prometheus.Metric) {
	m := c.src.Metrics()
	ch <- constMetric(c.inUse, prometheus.GaugeValue, float64(m.SizeInUse))
	ch <- constMetric(c.capacity, prometheus.GaugeValue, float64(m.Capacity))
	ch <- constMetric(c.slabs, prometheus.GaugeValue, float64(m.NumSlabs))
	ch <- constMetric(c.peak, prometheus.GaugeValue, float64(m.Peak))
}

// ProfilerCollector is an implementation of the prometheus.Collector
// interface reporting per-span counters.
type ProfilerCollector struct {
	src     StatsSource
	calls   *prometheus.Desc
	seconds *prometheus.Desc
}

// NewProfilerCollector returns a collector for src.
func NewProfilerCollector(src StatsSource) *ProfilerCollector {
	return &ProfilerCollector{
		src: src,
		calls: prometheus.NewDesc(prometheus.BuildFQName(namespace, "span", "calls_total"),
			"Completed start/end pairs per span.", []string{"span"}, nil),
		seconds: prometheus.NewDesc(prometheus.BuildFQName(namespace, "span", "seconds_total"),
			"Accumulated time per span.", []string{"span"}, nil),
	}
}

// Describe is part of the implementation of prometheus.Collector.
func (c *ProfilerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.calls
	ch <- c.seconds
}

// Collect is part of the implementation of prometheus.Collector.
func (c *ProfilerCollector) Collect(ch chan<- prometheus.Metric) {
	for _, st := range c.src.Stats() {
		ch <- constMetric(c.calls, prometheus.CounterValue, float64(st.Calls), st.Name)
		ch <- constMetric(c.seconds, prometheus.CounterValue, st.Total.Seconds(), st.Name)
	}
}

// constMetric is prometheus.MustNewConstMetric without the panic. Span and
// arena names are arbitrary strings, and a label value that is not valid
// UTF-8 must fail the scrape rather than the process.
func constMetric(desc *prometheus.Desc, typ prometheus.ValueType, v float64, labelValues ...string) prometheus.Metric {
	m, err := prometheus.NewConstMetric(desc, typ, v, labelValues...)
	if err != nil {
		return prometheus.NewInvalidMetric(desc, err)
	}
	return m
}
