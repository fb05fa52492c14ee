package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bmowrey/stampede/internal/loadtest"
	"github.com/bmowrey/stampede/internal/thresholds"
)

func passingResults() map[string]loadtest.Result {
	return map[string]loadtest.Result{
		"home": {
			TotalRequests:      500,
			SuccessfulRequests: 500,
			AvgResponseTime:    60 * time.Millisecond,
			RequestsPerSecond:  150,
		},
	}
}

func TestBuildPassing(t *testing.T) {
	rep := Build("smoke", "http://localhost:3000", passingResults(), thresholds.DefaultSet())

	if rep.ID == "" {
		t.Error("report should carry a run id")
	}
	if !rep.Passed {
		t.Errorf("Passed = false, recommendations: %v", rep.Recommendations)
	}
	if len(rep.Recommendations["home"]) != 0 {
		t.Errorf("unexpected recommendations: %v", rep.Recommendations["home"])
	}
	if rep.GeneratedAt.IsZero() {
		t.Error("GeneratedAt should be set")
	}
}

func TestBuildWarningFails(t *testing.T) {
	results := passingResults()
	r := results["home"]
	r.AvgResponseTime = 2 * time.Second
	results["home"] = r

	rep := Build("smoke", "http://localhost:3000", results, thresholds.DefaultSet())
	if rep.Passed {
		t.Error("breached response time threshold should fail the run")
	}
	if len(rep.Recommendations["home"]) == 0 {
		t.Error("expected a recommendation for the breach")
	}
}

func TestBuildScenarioErrorFails(t *testing.T) {
	results := passingResults()
	results["broken"] = loadtest.Result{Err: "connection refused"}

	rep := Build("smoke", "http://localhost:3000", results, thresholds.DefaultSet())
	if rep.Passed {
		t.Error("a scenario error should fail the run")
	}
}

func TestBuildInfoOnlyPasses(t *testing.T) {
	results := passingResults()
	r := results["home"]
	r.RequestsPerSecond = 10
	results["home"] = r

	rep := Build("smoke", "http://localhost:3000", results, thresholds.DefaultSet())
	if !rep.Passed {
		t.Error("info-severity recommendations alone should not fail the run")
	}
	if len(rep.Recommendations["home"]) != 1 {
		t.Errorf("expected the throughput note, got %v", rep.Recommendations["home"])
	}
}

func TestEncode(t *testing.T) {
	rep := Build("smoke", "http://localhost:3000", passingResults(), thresholds.DefaultSet())

	var buf bytes.Buffer
	if err := rep.Encode(&buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var decoded Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("encoded report is not valid JSON: %v", err)
	}
	if decoded.ID != rep.ID || decoded.BaseURL != rep.BaseURL {
		t.Errorf("round trip mismatch: %+v", decoded)
	}
	if _, ok := decoded.Results["home"]; !ok {
		t.Error("results missing from encoded report")
	}
}

func TestWriteFile(t *testing.T) {
	rep := Build("smoke", "http://localhost:3000", passingResults(), thresholds.DefaultSet())

	path := filepath.Join(t.TempDir(), "report.json")
	if err := rep.WriteFile(path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report file is not valid JSON: %v", err)
	}
	if decoded.Name != "smoke" {
		t.Errorf("Name = %q", decoded.Name)
	}
}
