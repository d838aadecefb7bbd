package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "schema://oncomark-model.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// SchemaError wraps a model document that does not match the model schema.
type SchemaError struct {
	Err error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("model schema validation failed: %v", e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

func modelSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		var def any
		if err := json.Unmarshal(schemaJSON, &def); err != nil {
			schemaErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, def); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// validateDocument checks a YAML or JSON model document against the schema.
func validateDocument(data []byte) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return &SchemaError{Err: fmt.Errorf("invalid YAML: %w", err)}
	}

	// The validator expects JSON-shaped values (float64 numbers, string keys),
	// so round-trip through encoding/json.
	b, err := json.Marshal(raw)
	if err != nil {
		return &SchemaError{Err: fmt.Errorf("convert document: %w", err)}
	}
	var parsed any
	if err := json.Unmarshal(b, &parsed); err != nil {
		return &SchemaError{Err: fmt.Errorf("convert document: %w", err)}
	}

	compiled, err := modelSchema()
	if err != nil {
		return fmt.Errorf("compile model schema: %w", err)
	}
	if err := compiled.Validate(parsed); err != nil {
		return &SchemaError{Err: err}
	}
	return nil
}
