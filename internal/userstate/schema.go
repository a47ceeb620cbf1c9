package userstate

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "schema://user-state.json"

// stateSchema is the shape a persisted blob must have to be used as-is.
// Anything else is treated as absent.
const stateSchema = `{
  "type": "object",
  "required": ["name", "purchased", "progress", "loggedIn"],
  "properties": {
    "name": {"type": "string"},
    "purchased": {"type": "array", "items": {"type": "string"}},
    "loggedIn": {"type": "boolean"},
    "progress": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["completed"],
        "properties": {
          "completed": {"type": "array", "items": {"type": "string"}},
          "last": {"type": "string"}
        }
      }
    }
  }
}`

var (
	compiledOnce   sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func getCompiledSchema() (*jsonschema.Schema, error) {
	compiledOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(stateSchema)))
		if err != nil {
			compileErr = fmt.Errorf("parse state schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}

// validateBlob checks raw JSON against the state schema.
func validateBlob(raw []byte) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	compiled, err := getCompiledSchema()
	if err != nil {
		return err
	}
	if err := compiled.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
