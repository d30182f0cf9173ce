// Package jsontree transforms and queries parsed JSON values: recursive
// key normalization, recursive field deletion, path-based selection and
// a few scalar helpers used by expression evaluation.
//
// Values follow encoding/json conventions: map[string]interface{},
// []interface{}, string, float64, bool and nil. KeysToLower rebuilds a
// new tree and leaves its input untouched; DropFields deliberately
// mutates the tree it is given. The two styles are kept separate, and
// callers that need the mutating one must not share the input across
// concurrent calls.
package jsontree

import (
	"strings"

	"github.com/goccy/go-json"
	"github.com/ohler55/ojg/jp"
)

// Parse parses JSON text into a value, optionally lower-casing all
// object keys recursively
func Parse(text string, lowerKeys bool) (interface{}, error) {
	var value interface{}
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		return nil, ParseError{Err: err}
	}
	if lowerKeys {
		value = KeysToLower(value)
	}
	return value, nil
}

// KeysToLower recursively rebuilds objects with all keys lower-cased.
// Arrays are rebuilt element-wise; primitives and null pass through.
// The input tree is never modified.
func KeysToLower(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		lowered := make(map[string]interface{}, len(v))
		for key, child := range v {
			lowered[strings.ToLower(key)] = KeysToLower(child)
		}
		return lowered
	case []interface{}:
		elements := make([]interface{}, len(v))
		for i, child := range v {
			elements[i] = KeysToLower(child)
		}
		return elements
	default:
		return value
	}
}

// DropFields removes the named keys from every object at every depth,
// including objects nested inside arrays. Array elements themselves are
// never removed. The removal mutates the visited structure in place;
// the returned value is the same tree passed in.
func DropFields(value interface{}, fields ...string) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		for _, child := range v {
			DropFields(child, fields...)
		}
		for _, field := range fields {
			delete(v, field)
		}
	case []interface{}:
		for _, child := range v {
			DropFields(child, fields...)
		}
	}
	return value
}

// Select evaluates one or more path-query expressions against a value,
// optionally lower-casing keys first. A single path yields its matched
// value; multiple paths yield an array of matched values in path order.
// An invalid or non-matching path fails with PathEvaluationError.
func Select(value interface{}, lowerKeys bool, path string, morePaths ...string) (interface{}, error) {
	if lowerKeys {
		value = KeysToLower(value)
	}

	if len(morePaths) == 0 {
		return evaluatePath(value, path)
	}

	results := make([]interface{}, 0, len(morePaths)+1)
	first, err := evaluatePath(value, path)
	if err != nil {
		return nil, err
	}
	results = append(results, first)
	for _, p := range morePaths {
		matched, err := evaluatePath(value, p)
		if err != nil {
			return nil, err
		}
		results = append(results, matched)
	}
	return results, nil
}

// evaluatePath runs a single path query. A definite path (one match)
// yields the matched value directly; an indefinite path yields all
// matches as an array.
func evaluatePath(value interface{}, path string) (interface{}, error) {
	expr, err := jp.ParseString(path)
	if err != nil {
		return nil, PathEvaluationError{Path: path, Reason: err.Error()}
	}

	matches := expr.Get(value)
	switch len(matches) {
	case 0:
		return nil, PathEvaluationError{Path: path, Reason: "no match"}
	case 1:
		return matches[0], nil
	default:
		return matches, nil
	}
}

// Join concatenates the string form of each primitive array element
// followed by separator. Non-primitive and null elements contribute
// nothing, not even a separator. Non-array input yields "".
func Join(value interface{}, separator string) string {
	array, ok := value.([]interface{})
	if !ok {
		return ""
	}

	var sb strings.Builder
	for _, element := range array {
		text, ok := primitiveString(element)
		if !ok {
			continue
		}
		sb.WriteString(text)
		sb.WriteString(separator)
	}
	return sb.String()
}

// primitiveString renders a primitive element as text. Strings are used
// verbatim (no quoting); other primitives use their JSON form.
func primitiveString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case bool, float64, int, int64, json.Number:
		data, err := json.Marshal(v)
		if err != nil {
			return "", false
		}
		return string(data), true
	default:
		return "", false
	}
}

// Stringify returns the canonical JSON text of a value, or the literal
// "null" for an absent value
func Stringify(value interface{}) string {
	if value == nil {
		return "null"
	}
	data, err := json.Marshal(value)
	if err != nil {
		return "null"
	}
	return string(data)
}

// ArrayLength returns the number of elements of an array value, or 0
// when the value is not an array
func ArrayLength(value interface{}) int {
	if array, ok := value.([]interface{}); ok {
		return len(array)
	}
	return 0
}

// ArrayLengthText parses text and returns the length of the resulting
// array, or 0 when the parsed value is not an array. Malformed text is
// a ParseError.
func ArrayLengthText(text string) (int, error) {
	value, err := Parse(text, false)
	if err != nil {
		return 0, err
	}
	return ArrayLength(value), nil
}
