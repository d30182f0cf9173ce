package table

import "fmt"

// KeyNotFoundError indicates a key was not found in the table
type KeyNotFoundError struct {
	Key string
}

func (e KeyNotFoundError) Error() string {
	return fmt.Sprintf("key not found: %s", e.Key)
}

// InvalidKeyError indicates an invalid key was provided
type InvalidKeyError struct {
	Key    string
	Reason string
}

func (e InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid key %q: %s", e.Key, e.Reason)
}

// ClosedError indicates the table has been closed
type ClosedError struct{}

func (e ClosedError) Error() string {
	return "table is closed"
}
