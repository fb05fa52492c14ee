package loadtest

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bmowrey/stampede/internal/httpclient"
)

// Runner binds a set of weighted scenarios to one target and runs them in
// sequence, each with its own controller cycle and result.
type Runner struct {
	client      *httpclient.Client
	scenarios   []Scenario
	concurrency int
	duration    time.Duration
	rampUp      time.Duration

	// runScenario is replaceable so tests can inject scenario faults.
	runScenario func(ctx context.Context, sc Scenario) Result
}

// NewRunner creates a runner for the given scenarios. totalConcurrency is
// split per scenario by weight; duration and rampUp apply to every
// scenario run.
func NewRunner(client *httpclient.Client, scenarios []Scenario, totalConcurrency int, duration, rampUp time.Duration, opts ...ControllerOption) *Runner {
	r := &Runner{
		client:      client,
		scenarios:   scenarios,
		concurrency: totalConcurrency,
		duration:    duration,
		rampUp:      rampUp,
	}
	r.runScenario = func(ctx context.Context, sc Scenario) Result {
		return RunScenario(ctx, r.client, sc, r.concurrency, r.duration, r.rampUp, opts...)
	}
	return r
}

// Run executes every scenario and returns results keyed by scenario name.
// A broken scenario contributes a Result with Err set; the rest complete
// normally.
func (r *Runner) Run(ctx context.Context) map[string]Result {
	results := make(map[string]Result, len(r.scenarios))

	for _, sc := range r.scenarios {
		log.Info().
			Str("component", "runner").
			Str("scenario", sc.Name).
			Str("path", sc.Path).
			Int("concurrency", sc.Allocation(r.concurrency)).
			Msg("running scenario")

		res := r.runScenario(ctx, sc)
		results[sc.Name] = res

		ev := log.Info()
		if res.Err != "" {
			ev = log.Warn().Str("error", res.Err)
		}
		ev.
			Str("component", "runner").
			Str("scenario", sc.Name).
			Int64("requests", res.TotalRequests).
			Float64("rps", res.RequestsPerSecond).
			Float64("errorRate", res.ErrorRate).
			Msg("scenario finished")
	}

	return results
}
