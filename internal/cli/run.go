package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bmowrey/stampede/internal/config"
	"github.com/bmowrey/stampede/internal/httpclient"
	"github.com/bmowrey/stampede/internal/loadtest"
	"github.com/bmowrey/stampede/internal/output"
	"github.com/bmowrey/stampede/internal/report"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a load test against a target service",
	Long: `Execute a load test described by a plan file, or against a single URL in
quick mode. Concurrency, duration and ramp-up may also be supplied through
STAMPEDE_* environment variables.

Plan file mode:
  stampede run --config plan.yaml

Quick mode:
  stampede run --url https://api.example.com \
    --concurrency 20 --duration 30s --ramp-up 5s`,
	RunE: runLoadTest,
}

func init() {
	runCmd.Flags().StringP("config", "c", "", "path to a YAML/JSON plan file")
	runCmd.Flags().String("url", "", "target base URL (quick mode, ignored with --config)")
	runCmd.Flags().Int("concurrency", 0, "total virtual-user budget across scenarios")
	runCmd.Flags().Duration("duration", 0, "test duration per scenario, measured from ramp start")
	runCmd.Flags().Duration("ramp-up", 0, "window over which workers are spawned")
	runCmd.Flags().StringP("output", "o", "", "write the JSON report to this file")
	runCmd.Flags().Bool("json", false, "print the JSON report to stdout instead of the summary")
}

// runEnv binds the run flags to STAMPEDE_* environment variables. Env
// values are read once here, at the invocation boundary; nothing inside
// the core consults the environment.
func runEnv(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("stampede")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for _, name := range []string{"url", "concurrency", "duration", "ramp-up"} {
		if err := v.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func runLoadTest(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	v, err := runEnv(cmd)
	if err != nil {
		return err
	}

	plan, err := resolvePlan(cmd, v)
	if err != nil {
		return err
	}

	client := httpclient.NewClient(
		httpclient.WithBaseURL(plan.BaseURL),
	)

	scenarios := make([]loadtest.Scenario, 0, len(plan.Scenarios))
	for _, sc := range plan.Scenarios {
		s := loadtest.Scenario{
			Name:   sc.Name,
			Path:   sc.Path,
			Method: sc.Method,
			Body:   sc.Body,
			Weight: sc.Weight,
		}
		if sc.Check != nil {
			s.Check = &loadtest.BodyCheck{Path: sc.Check.Path, Equals: sc.Check.Equals}
		}
		scenarios = append(scenarios, s)
	}

	runner := loadtest.NewRunner(
		client,
		scenarios,
		plan.Concurrency,
		time.Duration(plan.Duration),
		time.Duration(plan.RampUp),
		loadtest.WithWorkerOptions(loadtest.WorkerOptions{
			RequestTimeout: plan.RequestTimeout.GetDuration(loadtest.DefaultRequestTimeout),
		}),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	results := runner.Run(ctx)
	rep := report.Build(plan.Name, plan.BaseURL, results, *plan.Thresholds)

	jsonOut, _ := cmd.Flags().GetBool("json")
	verbose, _ := cmd.Flags().GetBool("verbose")
	noColor, _ := cmd.Flags().GetBool("no-color")

	if jsonOut {
		if err := rep.Encode(os.Stdout); err != nil {
			return err
		}
	} else {
		if !output.IsTerminal(os.Stdout) {
			noColor = true
		}
		formatter := output.NewFormatter(verbose, noColor)
		formatter.PrintRun(os.Stdout, rep.Results, rep.Recommendations)
	}

	if outputPath, _ := cmd.Flags().GetString("output"); outputPath != "" {
		if err := rep.WriteFile(outputPath); err != nil {
			return err
		}
	}

	if !rep.Passed {
		os.Exit(1)
	}
	return nil
}

// resolvePlan builds the effective plan from the config file, quick-mode
// flags and environment, in that order of precedence.
func resolvePlan(cmd *cobra.Command, v *viper.Viper) (*config.Plan, error) {
	configFile, _ := cmd.Flags().GetString("config")

	var plan *config.Plan
	if configFile != "" {
		p, err := config.LoadPlan(configFile)
		if err != nil {
			return nil, err
		}
		plan = p
	} else if url := v.GetString("url"); url != "" {
		plan = &config.Plan{BaseURL: url}
		config.ApplyDefaults(plan)
	} else {
		return nil, fmt.Errorf("either --config or --url is required")
	}

	// Flag and env overrides apply on top of the plan file.
	if n := v.GetInt("concurrency"); n > 0 {
		plan.Concurrency = n
	}
	if d := v.GetDuration("duration"); d > 0 {
		plan.Duration = config.Duration(d)
	}
	if d := v.GetDuration("ramp-up"); d > 0 {
		plan.RampUp = config.Duration(d)
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}
