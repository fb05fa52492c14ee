package loadtest

import (
	"context"
	"math/rand"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/bmowrey/stampede/internal/httpclient"
)

// WorkerState represents the lifecycle state of a request worker.
type WorkerState int32

const (
	// WorkerRunning indicates the worker is issuing requests.
	WorkerRunning WorkerState = iota
	// WorkerStopRequested indicates a stop has been asked for but the
	// worker has not yet observed it.
	WorkerStopRequested
	// WorkerStopped indicates the worker loop has exited.
	WorkerStopped
)

func (s WorkerState) String() string {
	switch s {
	case WorkerRunning:
		return "running"
	case WorkerStopRequested:
		return "stop-requested"
	case WorkerStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

const (
	// DefaultMaxIterations bounds worst-case resource usage per worker if
	// a run's duration timer is misconfigured or delayed.
	DefaultMaxIterations = 1000

	// DefaultRequestTimeout is the fixed per-request deadline for
	// load-test traffic.
	DefaultRequestTimeout = 10 * time.Second

	// DefaultMaxJitter is the upper bound of the random inter-iteration
	// sleep. Jitter keeps workers from synchronizing into request bursts
	// that would bias latency measurements low.
	DefaultMaxJitter = 100 * time.Millisecond
)

// BodyCheck is an optional response-body assertion. When configured, a
// response whose status classifies as success is still counted failed if
// the value at Path does not equal Equals.
type BodyCheck struct {
	Path   string `json:"path" yaml:"path"`
	Equals string `json:"equals" yaml:"equals"`
}

func (c *BodyCheck) passes(body []byte) bool {
	v := gjson.GetBytes(body, c.Path)
	return v.Exists() && v.String() == c.Equals
}

// WorkerOptions configures a request worker. The zero value picks up the
// defaults above.
type WorkerOptions struct {
	MaxIterations  int
	RequestTimeout time.Duration
	MaxJitter      time.Duration

	// Method and Body shape the request stream; Body, when set, is sent
	// as JSON. Method defaults to GET.
	Method string
	Body   []byte

	Check *BodyCheck
}

func (o WorkerOptions) withDefaults() WorkerOptions {
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = DefaultRequestTimeout
	}
	if o.MaxJitter <= 0 {
		o.MaxJitter = DefaultMaxJitter
	}
	if o.Method == "" {
		o.Method = http.MethodGet
	}
	return o
}

// Worker is one virtual user issuing a serial request stream against a
// single target path, recording every outcome into the shared buffer of
// its scenario run.
type Worker struct {
	id     int
	client *httpclient.Client
	path   string
	buffer *ResultBuffer
	opts   WorkerOptions

	state      atomic.Int32
	iterations atomic.Int64
	done       chan struct{}
}

// NewWorker creates a worker bound to one target path and shared buffer.
func NewWorker(id int, client *httpclient.Client, path string, buffer *ResultBuffer, opts WorkerOptions) *Worker {
	return &Worker{
		id:     id,
		client: client,
		path:   path,
		buffer: buffer,
		opts:   opts.withDefaults(),
		done:   make(chan struct{}),
	}
}

// State returns the worker's current lifecycle state.
func (w *Worker) State() WorkerState {
	return WorkerState(w.state.Load())
}

// Iterations returns the number of iterations started so far.
func (w *Worker) Iterations() int64 {
	return w.iterations.Load()
}

// Run executes the request loop until a stop is observed, the iteration cap
// is hit, or ctx is cancelled. It blocks; callers run it on its own
// goroutine.
func (w *Worker) Run(ctx context.Context) {
	defer func() {
		w.state.Store(int32(WorkerStopped))
		close(w.done)
	}()

	for w.State() == WorkerRunning && w.iterations.Load() < int64(w.opts.MaxIterations) {
		select {
		case <-ctx.Done():
			return
		default:
		}

		w.iterations.Add(1)
		w.issueRequest()

		// Jitter before the next iteration. The stop signal is observed
		// here and at the loop top, never mid-request.
		jitter := time.Duration(rand.Int63n(int64(w.opts.MaxJitter)))
		select {
		case <-ctx.Done():
			return
		case <-time.After(jitter):
		}
	}
}

// issueRequest performs one timed request and records its outcome. The
// request runs against its own deadline, detached from the run context, so
// a stop signal lets an in-flight request finish and still record.
func (w *Worker) issueRequest() {
	reqCtx, cancel := context.WithTimeout(context.Background(), w.opts.RequestTimeout)
	defer cancel()

	req := httpclient.NewRequest(w.opts.Method, w.path)
	if len(w.opts.Body) > 0 {
		req = req.WithBody("application/json", w.opts.Body)
	}

	start := time.Now()
	resp, err := w.client.Do(reqCtx, req)
	if err != nil {
		// Timeouts and connection failures count into the totals but
		// contribute no latency sample.
		w.buffer.RecordFailure()
		log.Debug().
			Str("component", "worker").
			Int("id", w.id).
			Str("path", w.path).
			Bool("timeout", httpclient.IsTimeout(err)).
			Err(err).
			Msg("request failed")
		return
	}

	elapsed := time.Since(start)
	ok := resp.IsSuccess() || resp.IsRedirect()
	if ok && w.opts.Check != nil {
		ok = w.opts.Check.passes(resp.Body)
	}
	w.buffer.RecordSample(elapsed, ok)
}

// Stop requests a cooperative stop. It takes effect at the worker's next
// suspension point, not immediately.
func (w *Worker) Stop() {
	w.state.CompareAndSwap(int32(WorkerRunning), int32(WorkerStopRequested))
}

// Wait blocks until the worker has fully stopped or the timeout expires.
// Returns true if the worker stopped in time.
func (w *Worker) Wait(timeout time.Duration) bool {
	select {
	case <-w.done:
		return true
	case <-time.After(timeout):
		return false
	}
}
