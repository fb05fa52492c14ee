// Package loadtest synthesizes ramped, weighted, concurrent HTTP traffic
// against a target service and reduces the measured outcomes into
// per-scenario summaries.
//
// The moving parts, leaves first:
//
//   - Worker: one virtual user issuing a serial request stream with jitter,
//     recording into the run's shared ResultBuffer.
//   - Controller: spawns workers at an even cadence across a ramp-up window
//     and stops them all when the test duration elapses (measured from run
//     start, not from ramp completion).
//   - Summarize: reduces a finalized buffer into a Result.
//   - RunScenario / Runner: bind named, weighted scenarios to concurrency
//     allocations and drive full controller cycles, isolating failures per
//     scenario.
//
// Workers run on real goroutines, so all shared mutation is funneled
// through the mutex inside ResultBuffer.
package loadtest
