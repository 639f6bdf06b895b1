package profiler

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Stat is a copied snapshot of one span.
type Stat struct {
	Name    string
	Calls   int
	Total   time.Duration
	Average time.Duration
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (s Stat) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("span", s.Name)
	enc.AddInt("calls", s.Calls)
	enc.AddDuration("total", s.Total)
	enc.AddDuration("avg", s.Average)
	return nil
}

// Stats returns a snapshot of every span ever started, sorted by name.
func (p *Profiler) Stats() []Stat {
	out := make([]Stat, 0, len(p.records))
	for _, name := range slices.Sorted(maps.Keys(p.records)) {
		r := p.records[name]
		out = append(out, Stat{
			Name:    name,
			Calls:   r.calls,
			Total:   r.total,
			Average: r.average(),
		})
	}
	return out
}

const reportHeader = "=== Performance Report ===\n" +
	"Function Name   Calls   Total(s)   Avg(ms)\n" +
	"------------------------------------------------\n"

// Report writes a table with one row per span: name, calls, total seconds
// and average milliseconds, separated by whitespace. A name that is
// empty or contains whitespace is written Go-quoted, so the name field can
// be recovered with strconv.QuotedPrefix.
func (p *Profiler) Report(w io.Writer) error {
	return writeReport(w, p.Stats())
}

// PrintReport writes Report to standard output.
func (p *Profiler) PrintReport() {
	_ = p.Report(os.Stdout)
}

func writeReport(w io.Writer, stats []Stat) error {
	if _, err := io.WriteString(w, reportHeader); err != nil {
		return err
	}
	for _, s := range stats {
		avgms := float64(s.Average) / float64(time.Millisecond)
		if _, err := fmt.Fprintf(w, "%-15s %7d %10.6f %9.3f\n", reportName(s.Name), s.Calls, s.Total.Seconds(), avgms); err != nil {
			return err
		}
	}
	return nil
}

func reportName(name string) string {
	if name == "" || strings.ContainsFunc(name, unicode.IsSpace) {
		return strconv.Quote(name)
	}
	return name
}

// Log writes one info entry per span to logger.
func (p *Profiler) Log(logger *zap.Logger) {
	logStats(logger, p.Stats())
}

func logStats(logger *zap.Logger, stats []Stat) {
	for _, s := range stats {
		logger.Info("span timing", zap.Inline(s))
	}
}
