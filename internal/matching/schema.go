package matching

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// schemaResource is the in-memory URL schemas are registered under.
const schemaResource = "schema.json"

// CompileSchema compiles a JSON Schema given as a JSON document (string or
// []byte) or as a Go value that marshals to one.
func CompileSchema(schema any) (*jsonschema.Schema, error) {
	var data []byte
	switch v := schema.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal schema: %w", err)
		}
		data = b
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaResource, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	compiled, err := compiler.Compile(schemaResource)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return compiled, nil
}

// ValidateJSON decodes body and validates it against schema.
func ValidateJSON(schema *jsonschema.Schema, body []byte) error {
	v, err := DecodeJSON(body)
	if err != nil {
		return err
	}
	return schema.Validate(v)
}
