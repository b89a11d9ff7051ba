package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const todoSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "definitions": {
    "todo": {
      "type": "object",
      "required": ["id", "userId", "title", "completed"],
      "properties": {
        "id": {"type": "integer", "minimum": 1},
        "userId": {"type": "integer"},
        "title": {"type": "string"},
        "completed": {"type": "boolean"}
      }
    }
  },
  "oneOf": [
    {"$ref": "#/definitions/todo"},
    {"type": "array", "items": {"$ref": "#/definitions/todo"}}
  ]
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("todo.schema.json", strings.NewReader(todoSchema)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile("todo.schema.json")
	})
	return schema, schemaErr
}

// validatePayload checks a list or single-todo response body before decoding.
func validatePayload(body []byte) error {
	sch, err := compiledSchema()
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if err := sch.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("%w: %s", ErrInvalidResponse, firstCause(ve))
		}
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

func firstCause(ve *jsonschema.ValidationError) string {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	if ve.InstanceLocation == "" {
		return ve.Message
	}
	return ve.InstanceLocation + ": " + ve.Message
}
