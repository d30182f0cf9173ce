package registry

import "fmt"

// SchemaNotFoundError indicates a schema identity or version was not found
type SchemaNotFoundError struct {
	ID      SchemaID
	Version int64
}

func (e SchemaNotFoundError) Error() string {
	if e.Version > 0 {
		return fmt.Sprintf("schema not found: %s (version %d)", e.ID, e.Version)
	}
	return fmt.Sprintf("schema not found: %s", e.ID)
}

// ValidationError indicates malformed or missing input, detected before
// any mutation
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// RegistryError indicates an underlying storage failure
type RegistryError struct {
	Op  string
	Err error
}

func (e RegistryError) Error() string {
	return fmt.Sprintf("registry %s failed: %v", e.Op, e.Err)
}

func (e RegistryError) Unwrap() error {
	return e.Err
}
