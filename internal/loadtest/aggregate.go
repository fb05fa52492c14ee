package loadtest

import (
	"time"
)

// Summarize reduces a finalized buffer into a Result. Pure function: it
// holds the buffer lock for the duration of the scan but mutates nothing.
//
// The empty-sample case is an explicit choice: avg/min/max come back as
// zero durations rather than NaN or infinities. errorRate is 0, never NaN,
// when no request was issued.
func Summarize(b *ResultBuffer) Result {
	b.mu.Lock()
	defer b.mu.Unlock()

	res := Result{
		TotalRequests:      b.total,
		SuccessfulRequests: b.success,
		FailedRequests:     b.failed,
	}

	end := b.endTime
	if end.IsZero() {
		end = time.Now()
	}
	res.Duration = end.Sub(b.startTime)

	if len(b.responseTimes) > 0 {
		var sum time.Duration
		min := b.responseTimes[0]
		max := b.responseTimes[0]
		for _, rt := range b.responseTimes {
			sum += rt
			if rt < min {
				min = rt
			}
			if rt > max {
				max = rt
			}
		}
		res.AvgResponseTime = sum / time.Duration(len(b.responseTimes))
		res.MinResponseTime = min
		res.MaxResponseTime = max
	}

	if secs := res.Duration.Seconds(); secs > 0 {
		res.RequestsPerSecond = float64(b.total) / secs
	}

	if b.total > 0 {
		res.ErrorRate = float64(b.failed) / float64(b.total)
	}

	if b.hist.TotalCount() > 0 {
		res.Latency = LatencySnapshot{
			P50:   time.Duration(b.hist.ValueAtQuantile(50)) * time.Microsecond,
			P90:   time.Duration(b.hist.ValueAtQuantile(90)) * time.Microsecond,
			P95:   time.Duration(b.hist.ValueAtQuantile(95)) * time.Microsecond,
			P99:   time.Duration(b.hist.ValueAtQuantile(99)) * time.Microsecond,
			Count: b.hist.TotalCount(),
		}
	}

	return res
}
