// Package schema provides JSON schema validation for bumper configuration.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// URL is the schema identifier
const URL = "https://github.com/oarkflow/bumper/bumper.schema.json"

//go:embed bumper.schema.json
var document []byte

// ValidationResult contains all validation errors
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// Document returns the raw JSON schema
func Document() []byte {
	return document
}

// Compile compiles the embedded schema
func Compile() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(URL, doc); err != nil {
		return nil, fmt.Errorf("failed to add schema: %w", err)
	}
	return c.Compile(URL)
}

// Validate validates YAML configuration data against the schema
func Validate(data []byte) (*ValidationResult, error) {
	sch, err := Compile()
	if err != nil {
		return nil, err
	}

	var raw interface{}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &raw); err != nil {
		return &ValidationResult{Errors: []string{fmt.Sprintf("invalid YAML: %v", err)}}, nil
	}

	// Round-trip through JSON so numbers and maps have the types the
	// validator expects.
	jsonData, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to convert configuration: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to convert configuration: %w", err)
	}

	err = sch.Validate(inst)
	if err == nil {
		return &ValidationResult{Valid: true}, nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return nil, err
	}

	result := &ValidationResult{}
	for _, line := range strings.Split(verr.Error(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "jsonschema validation failed") {
			continue
		}
		result.Errors = append(result.Errors, strings.TrimPrefix(line, "- "))
	}
	if len(result.Errors) == 0 {
		result.Errors = []string{verr.Error()}
	}
	return result, nil
}

// ValidateFile validates a configuration file
func ValidateFile(path string) (*ValidationResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	result, err := Validate(data)
	if err != nil {
		return nil, err
	}

	if !result.Valid {
		log.Error("Configuration validation failed", "errors", len(result.Errors))
		for _, e := range result.Errors {
			log.Error("Validation error", "message", e)
		}
	}

	return result, nil
}

// WriteSchema writes the schema to a file
func WriteSchema(path string) error {
	return os.WriteFile(path, document, 0644)
}
