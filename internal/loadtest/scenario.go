package loadtest

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bmowrey/stampede/internal/httpclient"
)

// Scenario names one HTTP request shape and its relative traffic weight
// within a run. Method defaults to GET; a non-empty Body is sent as JSON.
type Scenario struct {
	Name   string     `json:"name" yaml:"name"`
	Path   string     `json:"path" yaml:"path"`
	Method string     `json:"method,omitempty" yaml:"method,omitempty"`
	Body   string     `json:"body,omitempty" yaml:"body,omitempty"`
	Weight int        `json:"weight" yaml:"weight"`
	Check  *BodyCheck `json:"check,omitempty" yaml:"check,omitempty"`
}

// Allocation computes the scenario's concurrency share:
// ceil(totalConcurrency * weight / 100). Weights across scenarios need not
// sum to 100.
func (s Scenario) Allocation(totalConcurrency int) int {
	if totalConcurrency <= 0 || s.Weight <= 0 {
		return 0
	}
	return (totalConcurrency*s.Weight + 99) / 100
}

// RunScenario drives one full controller cycle for a scenario and returns
// its result. A failing scenario never propagates: controller errors and
// panics come back as a Result with Err set, so sibling scenarios are
// unaffected.
func RunScenario(ctx context.Context, client *httpclient.Client, sc Scenario, totalConcurrency int, duration, rampUp time.Duration, opts ...ControllerOption) Result {
	ctrlOpts := append([]ControllerOption{}, opts...)
	if sc.Method != "" || sc.Body != "" {
		ctrlOpts = append(ctrlOpts, WithRequest(sc.Method, []byte(sc.Body)))
	}
	if sc.Check != nil {
		ctrlOpts = append(ctrlOpts, WithBodyCheck(sc.Check))
	}

	ctrl := NewController(client, sc.Path, sc.Allocation(totalConcurrency), duration, rampUp, ctrlOpts...)
	return runGuarded(ctx, sc, ctrl)
}

// loadRunner is the seam between the scenario boundary and the controller.
type loadRunner interface {
	Run(ctx context.Context) (Result, error)
}

func runGuarded(ctx context.Context, sc Scenario, r loadRunner) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			log.Error().
				Str("component", "scenario").
				Str("scenario", sc.Name).
				Interface("panic", p).
				Msg("scenario run panicked")
			res = Result{Err: fmt.Sprintf("scenario %q: %v", sc.Name, p)}
		}
	}()

	res, err := r.Run(ctx)
	if err != nil {
		res.Err = err.Error()
	}
	return res
}
