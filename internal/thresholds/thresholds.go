// Package thresholds turns raw aggregated load-test metrics into
// human-actionable recommendations.
package thresholds

import (
	"fmt"

	"github.com/bmowrey/stampede/internal/loadtest"
)

// Severity grades a recommendation.
type Severity string

const (
	// SeverityWarning flags a breached limit that needs attention.
	SeverityWarning Severity = "warning"
	// SeverityInfo flags a softer signal worth a look.
	SeverityInfo Severity = "info"
)

// Recommendation is one actionable finding produced by Evaluate.
type Recommendation struct {
	Type     string   `json:"type"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Set is a named collection of numeric limits. It is supplied by the
// caller and immutable for the duration of a run. The page-speed and
// bundle fields are carried for the audit layers that sit above this core;
// load-test evaluation only reads response time, throughput and error
// rate.
type Set struct {
	ResponseTimeMs         float64 `json:"responseTime" yaml:"responseTime"`
	ThroughputRPS          float64 `json:"throughput" yaml:"throughput"`
	ErrorRate              float64 `json:"errorRate" yaml:"errorRate"`
	MemoryLeakMB           float64 `json:"memoryLeak" yaml:"memoryLeak"`
	BundleSizeBytes        int64   `json:"bundleSize" yaml:"bundleSize"`
	PageLoadMs             float64 `json:"pageLoad" yaml:"pageLoad"`
	FirstContentfulPaintMs float64 `json:"firstContentfulPaint" yaml:"firstContentfulPaint"`
	TimeToInteractiveMs    float64 `json:"timeToInteractive" yaml:"timeToInteractive"`
}

// DefaultSet returns the limits applied when the caller supplies none.
func DefaultSet() Set {
	return Set{
		ResponseTimeMs:         500,
		ThroughputRPS:          100,
		ErrorRate:              0.01,
		MemoryLeakMB:           50,
		BundleSizeBytes:        5 << 20,
		PageLoadMs:             3000,
		FirstContentfulPaintMs: 1800,
		TimeToInteractiveMs:    3800,
	}
}

// Evaluate compares a load-test result against the set and returns zero or
// more recommendations. Each threshold is checked independently; one breach
// never suppresses the others. A zero-valued limit disables its check.
func Evaluate(res loadtest.Result, set Set) []Recommendation {
	var recs []Recommendation

	avgMs := float64(res.AvgResponseTime.Milliseconds())
	if set.ResponseTimeMs > 0 && avgMs > set.ResponseTimeMs {
		recs = append(recs, Recommendation{
			Type:     "performance",
			Severity: SeverityWarning,
			Message: fmt.Sprintf("average response time %.0fms exceeds the %.0fms threshold; consider caching, query tuning, or scaling out",
				avgMs, set.ResponseTimeMs),
		})
	}

	if set.ThroughputRPS > 0 && res.RequestsPerSecond < set.ThroughputRPS {
		recs = append(recs, Recommendation{
			Type:     "performance",
			Severity: SeverityInfo,
			Message: fmt.Sprintf("throughput %.1f req/s is below the %.1f req/s target; the service may be saturating under this concurrency",
				res.RequestsPerSecond, set.ThroughputRPS),
		})
	}

	if set.ErrorRate > 0 && res.ErrorRate > set.ErrorRate {
		recs = append(recs, Recommendation{
			Type:     "performance",
			Severity: SeverityWarning,
			Message: fmt.Sprintf("error rate %.2f%% exceeds the %.2f%% threshold; inspect server logs for failures under load",
				res.ErrorRate*100, set.ErrorRate*100),
		})
	}

	return recs
}

// HasWarnings reports whether any recommendation carries warning severity.
func HasWarnings(recs []Recommendation) bool {
	for _, r := range recs {
		if r.Severity == SeverityWarning {
			return true
		}
	}
	return false
}
