package loadtest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bmowrey/stampede/internal/httpclient"
)

func TestScenarioAllocation(t *testing.T) {
	tests := []struct {
		name   string
		weight int
		total  int
		want   int
	}{
		{name: "even split", weight: 50, total: 10, want: 5},
		{name: "rounds up", weight: 33, total: 10, want: 4},
		{name: "small pool rounds up", weight: 34, total: 3, want: 2},
		{name: "full weight", weight: 100, total: 7, want: 7},
		{name: "zero weight", weight: 0, total: 10, want: 0},
		{name: "zero total", weight: 50, total: 0, want: 0},
		{name: "minimum weight keeps one worker", weight: 1, total: 10, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := Scenario{Name: tt.name, Path: "/", Weight: tt.weight}
			if got := sc.Allocation(tt.total); got != tt.want {
				t.Errorf("Allocation(%d) with weight %d = %d, want %d",
					tt.total, tt.weight, got, tt.want)
			}
		})
	}
}

type stubRunner struct {
	res   Result
	err   error
	panic string
}

func (s stubRunner) Run(context.Context) (Result, error) {
	if s.panic != "" {
		panic(s.panic)
	}
	return s.res, s.err
}

func TestRunGuardedPanicBecomesError(t *testing.T) {
	sc := Scenario{Name: "checkout", Path: "/checkout"}
	res := runGuarded(context.Background(), sc, stubRunner{panic: "boom"})

	if res.Err == "" {
		t.Fatal("expected Err to be set after panic")
	}
	if !strings.Contains(res.Err, "checkout") || !strings.Contains(res.Err, "boom") {
		t.Errorf("Err = %q, want scenario name and panic value", res.Err)
	}
}

func TestRunGuardedErrorBecomesResultErr(t *testing.T) {
	sc := Scenario{Name: "browse", Path: "/browse"}
	res := runGuarded(context.Background(), sc, stubRunner{
		res: Result{TotalRequests: 12},
		err: errors.New("connection pool exhausted"),
	})

	if res.Err != "connection pool exhausted" {
		t.Errorf("Err = %q, want the runner error", res.Err)
	}
	if res.TotalRequests != 12 {
		t.Errorf("partial result should survive, got %+v", res)
	}
}

func TestRunScenario(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	client := httpclient.NewClient(httpclient.WithBaseURL(server.URL))
	sc := Scenario{Name: "home", Path: "/", Weight: 100}

	res := RunScenario(context.Background(), client, sc, 2,
		200*time.Millisecond, 20*time.Millisecond, fastControllerOptions()...)

	if res.Err != "" {
		t.Fatalf("Err = %q, want empty", res.Err)
	}
	if res.TotalRequests == 0 {
		t.Error("expected requests to be issued")
	}
	if res.SuccessfulRequests != res.TotalRequests {
		t.Errorf("all requests should succeed against the test server, got %+v", res)
	}
}

func TestRunScenarioMethodAndBody(t *testing.T) {
	var sawPost atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			b, _ := io.ReadAll(r.Body)
			if string(b) == `{"qty":1}` {
				sawPost.Store(true)
			}
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := httpclient.NewClient(httpclient.WithBaseURL(server.URL))
	sc := Scenario{
		Name:   "add to cart",
		Path:   "/cart",
		Method: http.MethodPost,
		Body:   `{"qty":1}`,
		Weight: 100,
	}

	res := RunScenario(context.Background(), client, sc, 1,
		150*time.Millisecond, 0, fastControllerOptions()...)

	if res.Err != "" {
		t.Fatalf("Err = %q, want empty", res.Err)
	}
	if !sawPost.Load() {
		t.Error("scenario method and body never reached the server")
	}
}

func TestRunScenarioBodyCheck(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	client := httpclient.NewClient(httpclient.WithBaseURL(server.URL))
	sc := Scenario{
		Name:   "check mismatch",
		Path:   "/",
		Weight: 100,
		Check:  &BodyCheck{Path: "status", Equals: "degraded"},
	}

	res := RunScenario(context.Background(), client, sc, 1,
		150*time.Millisecond, 0, fastControllerOptions()...)

	if res.Err != "" {
		t.Fatalf("Err = %q, want empty", res.Err)
	}
	if res.FailedRequests != res.TotalRequests {
		t.Errorf("body check mismatch should fail every request, got %+v", res)
	}
}
