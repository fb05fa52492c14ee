// Package report assembles run results into the JSON payload consumed by
// report renderers and CI tooling.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/bmowrey/stampede/internal/loadtest"
	"github.com/bmowrey/stampede/internal/thresholds"
)

// Report is one run's complete output: results and recommendations keyed
// by scenario name, with a unique run id for correlation.
type Report struct {
	ID          string    `json:"id"`
	Name        string    `json:"name,omitempty"`
	BaseURL     string    `json:"baseUrl"`
	GeneratedAt time.Time `json:"generatedAt"`

	Results         map[string]loadtest.Result             `json:"results"`
	Recommendations map[string][]thresholds.Recommendation `json:"recommendations"`

	// Passed is false when any scenario produced a warning-severity
	// recommendation or failed outright.
	Passed bool `json:"passed"`
}

// Build evaluates every result against the threshold set and assembles the
// report.
func Build(name, baseURL string, results map[string]loadtest.Result, set thresholds.Set) *Report {
	r := &Report{
		ID:              uuid.NewString(),
		Name:            name,
		BaseURL:         baseURL,
		GeneratedAt:     time.Now().UTC(),
		Results:         results,
		Recommendations: make(map[string][]thresholds.Recommendation, len(results)),
		Passed:          true,
	}

	for scenario, res := range results {
		recs := thresholds.Evaluate(res, set)
		r.Recommendations[scenario] = recs
		if res.Err != "" || thresholds.HasWarnings(recs) {
			r.Passed = false
		}
	}

	return r
}

// Encode writes the report as indented JSON.
func (r *Report) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteFile writes the report to a file at path.
func (r *Report) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	if err := r.Encode(f); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
