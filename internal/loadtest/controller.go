package loadtest

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bmowrey/stampede/internal/httpclient"
)

// DefaultGracefulStop bounds how long the controller waits for workers to
// finish their in-flight requests after the duration timer fires.
const DefaultGracefulStop = 30 * time.Second

// Controller ramps workers up to a target concurrency and stops them when
// the test duration elapses.
//
// The duration timer is measured from the start of the ramp, not from ramp
// completion: with rampUp >= duration a run stops before reaching full
// concurrency. That is intentional; callers sizing a run must account
// for it.
type Controller struct {
	client      *httpclient.Client
	path        string
	concurrency int
	duration    time.Duration
	rampUp      time.Duration

	workerOpts   WorkerOptions
	gracefulStop time.Duration
	spawn        func(id int, buffer *ResultBuffer) (*Worker, error)

	spawned atomic.Int32
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithWorkerOptions sets the options applied to every spawned worker.
func WithWorkerOptions(opts WorkerOptions) ControllerOption {
	return func(c *Controller) {
		c.workerOpts = opts
	}
}

// WithBodyCheck sets a response-body assertion on every spawned worker.
func WithBodyCheck(check *BodyCheck) ControllerOption {
	return func(c *Controller) {
		c.workerOpts.Check = check
	}
}

// WithRequest sets the method and body every spawned worker sends.
func WithRequest(method string, body []byte) ControllerOption {
	return func(c *Controller) {
		c.workerOpts.Method = method
		c.workerOpts.Body = body
	}
}

// WithGracefulStop overrides the post-duration wait for in-flight requests.
func WithGracefulStop(d time.Duration) ControllerOption {
	return func(c *Controller) {
		c.gracefulStop = d
	}
}

// WithSpawnFunc replaces the worker factory. Used by tests to inject spawn
// failures and faults.
func WithSpawnFunc(spawn func(id int, buffer *ResultBuffer) (*Worker, error)) ControllerOption {
	return func(c *Controller) {
		c.spawn = spawn
	}
}

// NewController creates a controller for one target path.
func NewController(client *httpclient.Client, path string, concurrency int, duration, rampUp time.Duration, opts ...ControllerOption) *Controller {
	c := &Controller{
		client:       client,
		path:         path,
		concurrency:  concurrency,
		duration:     duration,
		rampUp:       rampUp,
		gracefulStop: DefaultGracefulStop,
	}
	c.spawn = func(id int, buffer *ResultBuffer) (*Worker, error) {
		return NewWorker(id, c.client, c.path, buffer, c.workerOpts), nil
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SpawnedWorkers returns how many workers were successfully spawned.
func (c *Controller) SpawnedWorkers() int {
	return int(c.spawned.Load())
}

// Run executes one full ramp-up / measure / stop cycle and returns the
// aggregated result. It blocks for the whole test duration.
//
// A worker spawn failure is logged and ramping continues: a
// partial-capacity run is worth more than an aborted one. The returned
// error is non-nil only when the parent context was cancelled before the
// duration elapsed; the partial Result is still valid in that case.
func (c *Controller) Run(ctx context.Context) (Result, error) {
	buffer := NewResultBuffer()

	if c.concurrency <= 0 {
		buffer.Finalize()
		return Summarize(buffer), nil
	}

	runCtx, cancel := context.WithTimeout(ctx, c.duration)
	defer cancel()

	var (
		wg      sync.WaitGroup
		workers []*Worker
	)

	startWorker := func(id int) {
		w, err := c.spawn(id, buffer)
		if err != nil {
			log.Warn().
				Str("component", "controller").
				Str("path", c.path).
				Int("worker", id).
				Err(err).
				Msg("worker spawn failed, continuing ramp at reduced concurrency")
			return
		}
		workers = append(workers, w)
		c.spawned.Add(1)
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Run(runCtx)
		}()
	}

	interval := c.rampUp / time.Duration(c.concurrency)

	log.Debug().
		Str("component", "controller").
		Str("path", c.path).
		Int("concurrency", c.concurrency).
		Dur("duration", c.duration).
		Dur("rampInterval", interval).
		Msg("starting ramp")

	startWorker(1)
	if interval > 0 {
		ticker := time.NewTicker(interval)
	ramp:
		for id := 2; id <= c.concurrency; id++ {
			select {
			case <-runCtx.Done():
				break ramp
			case <-ticker.C:
				if runCtx.Err() != nil {
					break ramp
				}
				startWorker(id)
			}
		}
		ticker.Stop()
	} else {
		for id := 2; id <= c.concurrency; id++ {
			startWorker(id)
		}
	}

	<-runCtx.Done()

	// Cooperative stop: workers observe the flag at their next suspension
	// point, and in-flight requests finish and record.
	for _, w := range workers {
		w.Stop()
	}

	allDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(allDone)
	}()
	select {
	case <-allDone:
	case <-time.After(c.gracefulStop):
		log.Warn().
			Str("component", "controller").
			Str("path", c.path).
			Msg("workers did not stop within the graceful window")
	}

	buffer.Finalize()
	res := Summarize(buffer)

	log.Debug().
		Str("component", "controller").
		Str("path", c.path).
		Int("spawned", c.SpawnedWorkers()).
		Int64("requests", res.TotalRequests).
		Msg("run complete")

	return res, ctx.Err()
}
