package jsontree

import "fmt"

// ParseError indicates malformed JSON text
type ParseError struct {
	Err error
}

func (e ParseError) Error() string {
	return fmt.Sprintf("failed to parse JSON: %v", e.Err)
}

func (e ParseError) Unwrap() error {
	return e.Err
}

// PathEvaluationError indicates an invalid or non-matching path query
type PathEvaluationError struct {
	Path   string
	Reason string
}

func (e PathEvaluationError) Error() string {
	return fmt.Sprintf("path %q: %s", e.Path, e.Reason)
}
