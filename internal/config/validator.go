package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// planSchema is the JSON Schema every plan document is validated against
// before unmarshaling. It catches structural mistakes (wrong types, unknown
// keys) with positional errors; semantic constraints live in Plan.Validate.
const planSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["baseUrl"],
  "additionalProperties": false,
  "properties": {
    "name": {"type": "string"},
    "baseUrl": {"type": "string", "minLength": 1},
    "concurrency": {"type": "integer", "minimum": 0},
    "duration": {"type": "string"},
    "rampUp": {"type": "string"},
    "requestTimeout": {"type": "string"},
    "scenarios": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["path"],
        "additionalProperties": false,
        "properties": {
          "name": {"type": "string"},
          "path": {"type": "string", "minLength": 1},
          "method": {"type": "string"},
          "body": {"type": "string"},
          "weight": {"type": "integer", "minimum": 1, "maximum": 100},
          "check": {
            "type": "object",
            "required": ["path", "equals"],
            "additionalProperties": false,
            "properties": {
              "path": {"type": "string", "minLength": 1},
              "equals": {"type": "string"}
            }
          }
        }
      }
    },
    "thresholds": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "responseTime": {"type": "number", "minimum": 0},
        "throughput": {"type": "number", "minimum": 0},
        "errorRate": {"type": "number", "minimum": 0, "maximum": 1},
        "memoryLeak": {"type": "number", "minimum": 0},
        "bundleSize": {"type": "integer", "minimum": 0},
        "pageLoad": {"type": "number", "minimum": 0},
        "firstContentfulPaint": {"type": "number", "minimum": 0},
        "timeToInteractive": {"type": "number", "minimum": 0}
      }
    }
  }
}`

var (
	compiledSchema     *jsonschema.Schema
	compileSchemaOnce  sync.Once
	compileSchemaError error
)

func planJSONSchema() (*jsonschema.Schema, error) {
	compileSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("plan.json", strings.NewReader(planSchema)); err != nil {
			compileSchemaError = err
			return
		}
		compiledSchema, compileSchemaError = compiler.Compile("plan.json")
	})
	return compiledSchema, compileSchemaError
}

// ValidateDocument validates raw plan bytes against the plan schema.
// YAML documents are converted through the JSON data model first.
func ValidateDocument(data []byte, isYAML bool) error {
	schema, err := planJSONSchema()
	if err != nil {
		return fmt.Errorf("invalid plan schema: %w", err)
	}

	jsonData := data
	if isYAML {
		var doc interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("invalid YAML: %w", err)
		}
		jsonData, err = json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("invalid plan document: %w", err)
		}
	}

	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(jsonData))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("plan does not match schema: %w", err)
	}
	return nil
}
