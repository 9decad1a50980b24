package api

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is a named JSON schema for a response body.
type Schema struct {
	Name       string
	Definition map[string]any
}

var quizSchema = &Schema{
	Name: "quiz",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"questions"},
		"properties": map[string]any{
			"title": map[string]any{"type": "string"},
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"question", "answer"},
					"properties": map[string]any{
						"id":       map[string]any{"type": "string"},
						"question": map[string]any{"type": "string"},
						"answer":   map[string]any{"type": "string"},
						"type":     map[string]any{"enum": []any{MultipleChoice, TrueFalse}},
						"options": map[string]any{
							"type":  []any{"array", "null"},
							"items": map[string]any{"type": "string"},
						},
					},
				},
			},
		},
	},
}

var generationSchema = &Schema{
	Name: "generation",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"quiz_id"},
		"properties": map[string]any{
			"quiz_id":             map[string]any{"type": "string", "minLength": 1},
			"remaining_free":      map[string]any{"type": []any{"integer", "null"}, "minimum": 0},
			"subscription_status": map[string]any{"type": []any{"string", "null"}},
		},
	},
}

var mockTestSchema = &Schema{
	Name: "mock_test",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"test_id"},
		"properties": map[string]any{
			"test_id":        map[string]any{"type": "string", "minLength": 1},
			"download_link":  map[string]any{"type": "string"},
			"num_questions":  map[string]any{"type": "integer"},
			"remaining_free": map[string]any{"type": []any{"integer", "null"}, "minimum": 0},
		},
	},
}

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// validateBody checks raw JSON against schema. A nil schema accepts anything.
func validateBody(op string, schema *Schema, raw []byte) error {
	if schema == nil {
		return nil
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &InvalidResponseError{Op: op, Content: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	compiled, err := compiledSchema(schema)
	if err != nil {
		return &InvalidResponseError{Op: op, Content: raw, Err: fmt.Errorf("compile schema %q: %w", schema.Name, err)}
	}

	if err := compiled.Validate(parsed); err != nil {
		return &InvalidResponseError{Op: op, Content: raw, Err: fmt.Errorf("schema validation failed: %w", err)}
	}
	return nil
}

func compiledSchema(schema *Schema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants a decoded JSON value, so round-trip the Go literal.
	defBytes, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://quizly/%s.json", schema.Name)
	if err := c.AddResource(url, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(schema.Name, compiled)
	return compiled, nil
}
