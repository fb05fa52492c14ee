package loadtest

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// histogram range: 1 microsecond to 1 hour, 3 significant figures
const (
	histMinMicros  = 1
	histMaxMicros  = 3600000000
	histSigFigures = 3
)

// ResultBuffer accumulates per-request outcomes for one scenario run.
//
// It is written concurrently by every worker belonging to the run, so all
// mutation goes through a mutex. The buffer is owned by the controller that
// created it until the run completes; after Finalize it is only read, by
// Summarize.
//
// Invariant: total == success + failed at all times. The sample slice may
// hold fewer entries than total, because transport failures are counted
// without an elapsed-time sample.
type ResultBuffer struct {
	mu            sync.Mutex
	total         int64
	success       int64
	failed        int64
	responseTimes []time.Duration
	hist          *hdrhistogram.Histogram
	startTime     time.Time
	endTime       time.Time
}

// NewResultBuffer creates an empty buffer stamped with the current time.
func NewResultBuffer() *ResultBuffer {
	return &ResultBuffer{
		hist:      hdrhistogram.New(histMinMicros, histMaxMicros, histSigFigures),
		startTime: time.Now(),
	}
}

// RecordSample records a completed request with its elapsed time.
// ok distinguishes success (status 200-399) from an HTTP-level failure.
func (b *ResultBuffer) RecordSample(elapsed time.Duration, ok bool) {
	micros := elapsed.Microseconds()
	if micros < histMinMicros {
		micros = histMinMicros
	}
	if micros > histMaxMicros {
		micros = histMaxMicros
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.total++
	if ok {
		b.success++
	} else {
		b.failed++
	}
	b.responseTimes = append(b.responseTimes, elapsed)
	b.hist.RecordValue(micros)
}

// RecordFailure records a request that never produced a response (timeout or
// connection failure). No latency sample is taken for these.
func (b *ResultBuffer) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.total++
	b.failed++
}

// Finalize stamps the end of the run. Called once by the controller after
// all workers have been stopped.
func (b *ResultBuffer) Finalize() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.endTime.IsZero() {
		b.endTime = time.Now()
	}
}

// Counts returns the current total, successful and failed request counts.
func (b *ResultBuffer) Counts() (total, success, failed int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.total, b.success, b.failed
}

// SampleCount returns the number of recorded latency samples.
func (b *ResultBuffer) SampleCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.responseTimes)
}

// Window returns the start and end stamps of the run. The end stamp is zero
// until Finalize has been called.
func (b *ResultBuffer) Window() (start, end time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.startTime, b.endTime
}
