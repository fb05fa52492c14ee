// Package config provides parsing and validation of benchmark plan files.
package config

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bmowrey/stampede/internal/thresholds"
)

// Plan is the root configuration for a benchmark run.
//
// Example YAML:
//
//	name: "checkout flow"
//	baseUrl: "https://staging.example.com"
//	concurrency: 20
//	duration: 30s
//	rampUp: 5s
//	scenarios:
//	  - name: home
//	    path: /
//	    weight: 60
//	  - name: search
//	    path: /search?q=shoes
//	    weight: 40
//	thresholds:
//	  responseTime: 400
//	  errorRate: 0.01
type Plan struct {
	// Name of the run (for reporting)
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// BaseURL is the target service all scenario paths are resolved
	// against
	BaseURL string `json:"baseUrl" yaml:"baseUrl"`

	// Concurrency is the total virtual-user budget split across
	// scenarios by weight
	Concurrency int `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`

	// Duration is the wall-clock length of each scenario run, measured
	// from ramp start
	Duration Duration `json:"duration,omitempty" yaml:"duration,omitempty"`

	// RampUp is the window over which workers are spawned
	RampUp Duration `json:"rampUp,omitempty" yaml:"rampUp,omitempty"`

	// RequestTimeout is the per-request deadline for load traffic
	RequestTimeout Duration `json:"requestTimeout,omitempty" yaml:"requestTimeout,omitempty"`

	// Scenarios are the weighted routes to benchmark
	Scenarios []ScenarioConfig `json:"scenarios,omitempty" yaml:"scenarios,omitempty"`

	// Thresholds are the limits evaluated against each scenario result
	Thresholds *thresholds.Set `json:"thresholds,omitempty" yaml:"thresholds,omitempty"`
}

// ScenarioConfig defines one weighted route.
type ScenarioConfig struct {
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`

	// Method is the HTTP method for this scenario's traffic, GET when
	// unset
	Method string `json:"method,omitempty" yaml:"method,omitempty"`

	// Body is a raw request body sent as JSON with every request
	Body string `json:"body,omitempty" yaml:"body,omitempty"`

	// Weight is an integer percentage of the total concurrency. Weights
	// across scenarios need not sum to 100.
	Weight int `json:"weight,omitempty" yaml:"weight,omitempty"`

	// Check optionally asserts on the response body; a passing status
	// with a failing check counts as a failed request
	Check *CheckConfig `json:"check,omitempty" yaml:"check,omitempty"`
}

// CheckConfig is a response-body assertion: the JSON value at Path must
// equal Equals.
type CheckConfig struct {
	Path   string `json:"path" yaml:"path"`
	Equals string `json:"equals" yaml:"equals"`
}

// Defaults applied by ApplyDefaults.
const (
	DefaultConcurrency = 10
	DefaultWeight      = 100
)

var (
	// DefaultDuration is the per-scenario run length when unset.
	DefaultDuration = 30 * time.Second
	// DefaultRampUp is the spawn window when unset.
	DefaultRampUp = 5 * time.Second
)

var validMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
	http.MethodHead:   true,
}

// ApplyDefaults fills unset fields in place.
func ApplyDefaults(p *Plan) {
	if p.Concurrency == 0 {
		p.Concurrency = DefaultConcurrency
	}
	if p.Duration == 0 {
		p.Duration = Duration(DefaultDuration)
	}
	if p.RampUp == 0 {
		p.RampUp = Duration(DefaultRampUp)
	}
	if len(p.Scenarios) == 0 {
		p.Scenarios = []ScenarioConfig{{Name: "default", Path: "/", Weight: DefaultWeight}}
	}
	for i := range p.Scenarios {
		if p.Scenarios[i].Weight == 0 {
			p.Scenarios[i].Weight = DefaultWeight
		}
		if p.Scenarios[i].Name == "" {
			p.Scenarios[i].Name = p.Scenarios[i].Path
		}
		p.Scenarios[i].Method = strings.ToUpper(p.Scenarios[i].Method)
	}
	if p.Thresholds == nil {
		set := thresholds.DefaultSet()
		p.Thresholds = &set
	}
}

// Validate checks the plan's semantic constraints. Call after
// ApplyDefaults.
func (p *Plan) Validate() error {
	if p.BaseURL == "" {
		return fmt.Errorf("baseUrl is required")
	}
	if p.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", p.Concurrency)
	}
	if p.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %s", p.Duration)
	}
	if p.RampUp < 0 {
		return fmt.Errorf("rampUp must not be negative, got %s", p.RampUp)
	}
	for _, sc := range p.Scenarios {
		if sc.Path == "" {
			return fmt.Errorf("scenario %q: path is required", sc.Name)
		}
		if sc.Method != "" && !validMethods[sc.Method] {
			return fmt.Errorf("scenario %q: unsupported method %q", sc.Name, sc.Method)
		}
		if sc.Weight < 1 || sc.Weight > 100 {
			return fmt.Errorf("scenario %q: weight must be within 1-100, got %d", sc.Name, sc.Weight)
		}
		if sc.Check != nil && sc.Check.Path == "" {
			return fmt.Errorf("scenario %q: check.path is required", sc.Name)
		}
	}
	return nil
}

// Duration is a time.Duration that unmarshals from JSON/YAML strings like
// "30s" or "2m".
type Duration time.Duration

// GetDuration returns the duration or a default if unset.
func (d Duration) GetDuration(defaultValue time.Duration) time.Duration {
	if d == 0 {
		return defaultValue
	}
	return time.Duration(d)
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	if s == "" || s == "null" {
		*d = 0
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}

	if s == "" {
		*d = 0
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// String returns the duration as a string.
func (d Duration) String() string {
	return time.Duration(d).String()
}
