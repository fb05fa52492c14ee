package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadPlan loads, validates and defaults a plan from a file.
//
// The file format is determined by extension:
//   - .yaml, .yml -> YAML
//   - .json -> JSON
//
// Unknown extensions are tried as YAML.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	return ParsePlan(data, path)
}

// ParsePlan parses raw plan data. The format is inferred from the extension
// of path; an empty or unknown extension means YAML.
func ParsePlan(data []byte, path string) (*Plan, error) {
	isYAML := true
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		isYAML = false
	}

	if err := ValidateDocument(data, isYAML); err != nil {
		return nil, err
	}

	var plan Plan
	if isYAML {
		if err := yaml.Unmarshal(data, &plan); err != nil {
			return nil, fmt.Errorf("failed to parse YAML plan: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, &plan); err != nil {
			return nil, fmt.Errorf("failed to parse JSON plan: %w", err)
		}
	}

	ApplyDefaults(&plan)
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	return &plan, nil
}
