package loadtest

import "time"

// Result is the immutable summary of one scenario run, produced exactly once
// by Summarize.
type Result struct {
	TotalRequests      int64 `json:"totalRequests"`
	SuccessfulRequests int64 `json:"successfulRequests"`
	FailedRequests     int64 `json:"failedRequests"`

	// Latency over recorded samples. Zero-valued when no request produced
	// a sample; callers can distinguish that case via TotalRequests and
	// Latency.Count.
	AvgResponseTime time.Duration `json:"avgResponseTime"`
	MinResponseTime time.Duration `json:"minResponseTime"`
	MaxResponseTime time.Duration `json:"maxResponseTime"`

	RequestsPerSecond float64       `json:"requestsPerSecond"`
	ErrorRate         float64       `json:"errorRate"`
	Duration          time.Duration `json:"duration"`

	// Latency holds approximate percentiles from the run's histogram.
	// Supplementary data only; the headline statistics above are exact
	// over the recorded samples.
	Latency LatencySnapshot `json:"latency"`

	// Err carries a scenario-level failure message. A run that failed this
	// way still returns a Result so sibling scenarios keep their own.
	Err string `json:"error,omitempty"`
}

// LatencySnapshot contains approximate latency percentiles.
type LatencySnapshot struct {
	P50   time.Duration `json:"p50"`
	P90   time.Duration `json:"p90"`
	P95   time.Duration `json:"p95"`
	P99   time.Duration `json:"p99"`
	Count int64         `json:"count"`
}
