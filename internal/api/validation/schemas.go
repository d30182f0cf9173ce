package validation

import (
	"bytes"
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidateSchemaDefinition checks that uploaded content is a
// well-formed JSON Schema document. This is a well-formedness check
// only; compatibility between versions is not assessed.
func ValidateSchemaDefinition(definition []byte) error {
	// Parse as JSON first
	var schemaJSON interface{}
	if err := json.Unmarshal(definition, &schemaJSON); err != nil {
		return err
	}

	// Try to compile the schema
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(definition)); err != nil {
		return err
	}

	_, err := compiler.Compile("schema.json")
	return err
}
