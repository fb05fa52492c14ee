package loadtest

import (
	"math"
	"testing"
	"time"
)

func TestSummarize(t *testing.T) {
	buffer := NewResultBuffer()
	buffer.RecordSample(10*time.Millisecond, true)
	buffer.RecordSample(30*time.Millisecond, true)
	buffer.RecordSample(20*time.Millisecond, false)
	buffer.RecordFailure()

	// Pin the window so throughput is deterministic.
	buffer.startTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	buffer.endTime = buffer.startTime.Add(2 * time.Second)

	res := Summarize(buffer)

	if res.TotalRequests != 4 || res.SuccessfulRequests != 2 || res.FailedRequests != 2 {
		t.Errorf("counts = %d/%d/%d, want 4/2/2",
			res.TotalRequests, res.SuccessfulRequests, res.FailedRequests)
	}
	if res.AvgResponseTime != 20*time.Millisecond {
		t.Errorf("avg = %v, want 20ms", res.AvgResponseTime)
	}
	if res.MinResponseTime != 10*time.Millisecond {
		t.Errorf("min = %v, want 10ms", res.MinResponseTime)
	}
	if res.MaxResponseTime != 30*time.Millisecond {
		t.Errorf("max = %v, want 30ms", res.MaxResponseTime)
	}
	if math.Abs(res.RequestsPerSecond-2.0) > 1e-9 {
		t.Errorf("rps = %v, want 2.0", res.RequestsPerSecond)
	}
	if res.ErrorRate != 0.5 {
		t.Errorf("errorRate = %v, want 0.5", res.ErrorRate)
	}
	if res.Duration != 2*time.Second {
		t.Errorf("duration = %v, want 2s", res.Duration)
	}
	if res.Latency.Count != 3 {
		t.Errorf("latency sample count = %d, want 3", res.Latency.Count)
	}
}

func TestSummarizeOrdering(t *testing.T) {
	buffer := NewResultBuffer()
	buffer.RecordSample(5*time.Millisecond, true)
	buffer.RecordSample(15*time.Millisecond, true)
	buffer.Finalize()

	res := Summarize(buffer)

	if res.MinResponseTime > res.AvgResponseTime || res.AvgResponseTime > res.MaxResponseTime {
		t.Errorf("want min <= avg <= max, got %v / %v / %v",
			res.MinResponseTime, res.AvgResponseTime, res.MaxResponseTime)
	}
}

func TestSummarizeEmptyBuffer(t *testing.T) {
	buffer := NewResultBuffer()
	buffer.Finalize()

	res := Summarize(buffer)

	// Zero values, never NaN or infinities.
	if res.ErrorRate != 0 {
		t.Errorf("errorRate = %v, want 0", res.ErrorRate)
	}
	if math.IsNaN(res.ErrorRate) || math.IsNaN(res.RequestsPerSecond) {
		t.Error("empty buffer produced NaN")
	}
	if res.AvgResponseTime != 0 || res.MinResponseTime != 0 || res.MaxResponseTime != 0 {
		t.Errorf("latency stats should be zero for an empty buffer, got %v/%v/%v",
			res.AvgResponseTime, res.MinResponseTime, res.MaxResponseTime)
	}
	if res.TotalRequests != 0 {
		t.Errorf("total = %d, want 0", res.TotalRequests)
	}
}

func TestSummarizeFailuresOnly(t *testing.T) {
	buffer := NewResultBuffer()
	buffer.RecordFailure()
	buffer.RecordFailure()
	buffer.Finalize()

	res := Summarize(buffer)

	if res.ErrorRate != 1.0 {
		t.Errorf("errorRate = %v, want 1.0", res.ErrorRate)
	}
	if res.TotalRequests != 2 || res.FailedRequests != 2 {
		t.Errorf("counts = %d/%d, want 2/2", res.TotalRequests, res.FailedRequests)
	}
	// No samples were recorded, so latency stats stay zero.
	if res.AvgResponseTime != 0 {
		t.Errorf("avg = %v, want 0", res.AvgResponseTime)
	}
}
