// Package output renders load-test summaries and recommendations for the
// terminal.
package output

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/bmowrey/stampede/internal/loadtest"
	"github.com/bmowrey/stampede/internal/thresholds"
)

// Formatter renders per-scenario summaries in text format
type Formatter struct {
	Verbose bool
	scheme  *ColorScheme
}

// NewFormatter creates a new formatter with the given options
func NewFormatter(verbose, noColor bool) *Formatter {
	scheme := DefaultColorScheme()
	if noColor {
		scheme = NoColorScheme()
	}
	return &Formatter{
		Verbose: verbose,
		scheme:  scheme,
	}
}

// PrintSummary writes one scenario's result and recommendations.
func (f *Formatter) PrintSummary(w io.Writer, name string, res loadtest.Result, recs []thresholds.Recommendation) {
	fmt.Fprintf(w, "%s\n", f.scheme.Scenario.Sprintf("scenario %s", name))

	if res.Err != "" {
		fmt.Fprintf(w, "  %s %s\n\n", f.scheme.Error.Sprint("FAILED"), res.Err)
		return
	}

	f.line(w, "requests", fmt.Sprintf("%d (%d ok, %d failed)",
		res.TotalRequests, res.SuccessfulRequests, res.FailedRequests))
	f.line(w, "throughput", fmt.Sprintf("%.1f req/s", res.RequestsPerSecond))
	f.line(w, "error rate", fmt.Sprintf("%.2f%%", res.ErrorRate*100))
	f.line(w, "latency", fmt.Sprintf("avg %s / min %s / max %s",
		formatDuration(res.AvgResponseTime),
		formatDuration(res.MinResponseTime),
		formatDuration(res.MaxResponseTime)))

	if f.Verbose && res.Latency.Count > 0 {
		f.line(w, "percentiles", fmt.Sprintf("p50 %s / p90 %s / p95 %s / p99 %s (approx)",
			formatDuration(res.Latency.P50),
			formatDuration(res.Latency.P90),
			formatDuration(res.Latency.P95),
			formatDuration(res.Latency.P99)))
	}
	f.line(w, "duration", formatDuration(res.Duration))

	if len(recs) == 0 {
		fmt.Fprintf(w, "  %s\n", f.scheme.Success.Sprint("all thresholds passed"))
	}
	for _, rec := range recs {
		badge := f.scheme.Warning.Sprintf("[%s]", rec.Severity)
		if rec.Severity == thresholds.SeverityInfo {
			badge = f.scheme.Subtle.Sprintf("[%s]", rec.Severity)
		}
		fmt.Fprintf(w, "  %s %s\n", badge, rec.Message)
	}
	fmt.Fprintln(w)
}

// PrintRun writes every scenario summary in a stable order, then a
// one-line verdict.
func (f *Formatter) PrintRun(w io.Writer, results map[string]loadtest.Result, recs map[string][]thresholds.Recommendation) {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		f.PrintSummary(w, name, results[name], recs[name])
	}

	warned := false
	for _, rs := range recs {
		if thresholds.HasWarnings(rs) {
			warned = true
			break
		}
	}
	if warned {
		fmt.Fprintf(w, "%s\n", f.scheme.Error.Sprint("result: thresholds breached"))
	} else {
		fmt.Fprintf(w, "%s\n", f.scheme.Success.Sprint("result: ok"))
	}
}

func (f *Formatter) line(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %s %s\n", f.scheme.Label.Sprintf("%-12s", label), f.scheme.Value.Sprint(value))
}

// formatDuration trims durations to a readable precision
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Second:
		return d.Round(10 * time.Millisecond).String()
	case d >= time.Millisecond:
		return d.Round(10 * time.Microsecond).String()
	default:
		return d.String()
	}
}
