package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/bmowrey/stampede/internal/config"
)

func newRunTestCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "run"}
	cmd.Flags().StringP("config", "c", "", "")
	cmd.Flags().String("url", "", "")
	cmd.Flags().Int("concurrency", 0, "")
	cmd.Flags().Duration("duration", 0, "")
	cmd.Flags().Duration("ramp-up", 0, "")
	if err := cmd.Flags().Parse(args); err != nil {
		t.Fatal(err)
	}
	return cmd
}

func writePlanFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolvePlanFromFile(t *testing.T) {
	path := writePlanFile(t, `
baseUrl: http://localhost:9000
concurrency: 12
duration: 20s
`)
	cmd := newRunTestCmd(t, "--config", path)
	v, err := runEnv(cmd)
	if err != nil {
		t.Fatal(err)
	}

	plan, err := resolvePlan(cmd, v)
	if err != nil {
		t.Fatalf("resolvePlan() error = %v", err)
	}
	if plan.BaseURL != "http://localhost:9000" {
		t.Errorf("BaseURL = %q", plan.BaseURL)
	}
	if plan.Concurrency != 12 {
		t.Errorf("Concurrency = %d, want 12", plan.Concurrency)
	}
}

func TestResolvePlanQuickMode(t *testing.T) {
	cmd := newRunTestCmd(t, "--url", "http://localhost:9000", "--duration", "10s")
	v, err := runEnv(cmd)
	if err != nil {
		t.Fatal(err)
	}

	plan, err := resolvePlan(cmd, v)
	if err != nil {
		t.Fatalf("resolvePlan() error = %v", err)
	}
	if plan.BaseURL != "http://localhost:9000" {
		t.Errorf("BaseURL = %q", plan.BaseURL)
	}
	if got := plan.Duration.GetDuration(0); got != 10*time.Second {
		t.Errorf("Duration = %s, want flag override 10s", got)
	}
	// Quick mode still gets defaults for everything else.
	if plan.Concurrency != config.DefaultConcurrency {
		t.Errorf("Concurrency = %d, want default", plan.Concurrency)
	}
	if len(plan.Scenarios) != 1 || plan.Scenarios[0].Path != "/" {
		t.Errorf("want a single default scenario, got %+v", plan.Scenarios)
	}
}

func TestResolvePlanFlagOverridesFile(t *testing.T) {
	path := writePlanFile(t, `
baseUrl: http://localhost:9000
concurrency: 12
`)
	cmd := newRunTestCmd(t, "--config", path, "--concurrency", "3", "--ramp-up", "2s")
	v, err := runEnv(cmd)
	if err != nil {
		t.Fatal(err)
	}

	plan, err := resolvePlan(cmd, v)
	if err != nil {
		t.Fatalf("resolvePlan() error = %v", err)
	}
	if plan.Concurrency != 3 {
		t.Errorf("Concurrency = %d, want flag override 3", plan.Concurrency)
	}
	if got := plan.RampUp.GetDuration(0); got != 2*time.Second {
		t.Errorf("RampUp = %s, want flag override 2s", got)
	}
}

func TestResolvePlanEnvOverride(t *testing.T) {
	t.Setenv("STAMPEDE_CONCURRENCY", "7")

	cmd := newRunTestCmd(t, "--url", "http://localhost:9000")
	v, err := runEnv(cmd)
	if err != nil {
		t.Fatal(err)
	}

	plan, err := resolvePlan(cmd, v)
	if err != nil {
		t.Fatalf("resolvePlan() error = %v", err)
	}
	if plan.Concurrency != 7 {
		t.Errorf("Concurrency = %d, want env override 7", plan.Concurrency)
	}
}

func TestResolvePlanRequiresTarget(t *testing.T) {
	cmd := newRunTestCmd(t)
	v, err := runEnv(cmd)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := resolvePlan(cmd, v); err == nil {
		t.Fatal("expected error without --config or --url")
	}
}

func TestResolvePlanInvalidFile(t *testing.T) {
	path := writePlanFile(t, `concurrency: "many"`)
	cmd := newRunTestCmd(t, "--config", path)
	v, err := runEnv(cmd)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := resolvePlan(cmd, v); err == nil {
		t.Fatal("expected schema error for invalid plan file")
	}
}
