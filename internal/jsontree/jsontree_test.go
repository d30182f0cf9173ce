package jsontree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, text string) interface{} {
	t.Helper()
	value, err := Parse(text, false)
	require.NoError(t, err)
	return value
}

func TestParse(t *testing.T) {
	value, err := Parse(`{"A":1,"b":[true,null]}`, false)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"A": float64(1),
		"b": []interface{}{true, nil},
	}, value)

	value, err = Parse(`{"A":1}`, true)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"a": float64(1)}, value)
}

func TestParse_Malformed(t *testing.T) {
	for _, text := range []string{"", "{", `{"a":}`, "tru"} {
		_, err := Parse(text, false)
		require.Error(t, err, "text %q", text)
		assert.IsType(t, ParseError{}, err)
	}
}

func TestKeysToLower(t *testing.T) {
	input := mustParse(t, `{"Name":"x","Nested":{"INNER":1},"List":[{"Key":2},"keep"]}`)

	lowered := KeysToLower(input)
	assert.Equal(t, map[string]interface{}{
		"name":   "x",
		"nested": map[string]interface{}{"inner": float64(1)},
		"list":   []interface{}{map[string]interface{}{"key": float64(2)}, "keep"},
	}, lowered)

	// The input tree is rebuilt, never modified
	assert.Equal(t, mustParse(t, `{"Name":"x","Nested":{"INNER":1},"List":[{"Key":2},"keep"]}`), input)

	// Lower-casing twice is a no-op
	assert.Equal(t, lowered, KeysToLower(lowered))
}

func TestKeysToLower_Primitives(t *testing.T) {
	assert.Equal(t, "text", KeysToLower("text"))
	assert.Equal(t, float64(3), KeysToLower(float64(3)))
	assert.Nil(t, KeysToLower(nil))
}

func TestDropFields(t *testing.T) {
	input := mustParse(t, `{"a":1,"b":{"a":2,"c":[{"a":3}]}}`)

	result := DropFields(input, "a")
	assert.Equal(t, mustParse(t, `{"b":{"c":[{}]}}`), result)

	// Removal happens in place on the tree passed in
	assert.Equal(t, input, result)
}

func TestDropFields_MultipleFields(t *testing.T) {
	input := mustParse(t, `{"a":1,"b":2,"c":{"a":3,"b":4,"keep":5}}`)

	result := DropFields(input, "a", "b")
	assert.Equal(t, mustParse(t, `{"c":{"keep":5}}`), result)
}

func TestDropFields_ArrayElementsSurvive(t *testing.T) {
	input := mustParse(t, `[{"a":1},{"b":2},3]`)

	result := DropFields(input, "a")
	assert.Equal(t, mustParse(t, `[{},{"b":2},3]`), result)
}

func TestSelect_SinglePath(t *testing.T) {
	value := mustParse(t, `{"user":{"name":"ada","roles":["admin","dev"]}}`)

	result, err := Select(value, false, "$.user.name")
	require.NoError(t, err)
	assert.Equal(t, "ada", result)

	result, err = Select(value, false, "$.user.roles[1]")
	require.NoError(t, err)
	assert.Equal(t, "dev", result)
}

func TestSelect_MultiplePaths(t *testing.T) {
	value := mustParse(t, `{"a":1,"b":"two"}`)

	result, err := Select(value, false, "$.a", "$.b")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{float64(1), "two"}, result)
}

func TestSelect_LowerKeysFirst(t *testing.T) {
	value := mustParse(t, `{"User":{"Name":"ada"}}`)

	result, err := Select(value, true, "$.user.name")
	require.NoError(t, err)
	assert.Equal(t, "ada", result)
}

func TestSelect_NoMatch(t *testing.T) {
	value := mustParse(t, `{"a":1}`)

	_, err := Select(value, false, "$.missing")
	require.Error(t, err)
	assert.IsType(t, PathEvaluationError{}, err)
}

func TestSelect_InvalidPath(t *testing.T) {
	value := mustParse(t, `{"a":1}`)

	_, err := Select(value, false, "$.[[[")
	require.Error(t, err)
	assert.IsType(t, PathEvaluationError{}, err)

	// Any failing path fails the whole selection
	_, err = Select(value, false, "$.a", "$.missing")
	require.Error(t, err)
	assert.IsType(t, PathEvaluationError{}, err)
}

func TestSelect_IndefinitePath(t *testing.T) {
	value := mustParse(t, `{"items":[{"n":1},{"n":2}]}`)

	result, err := Select(value, false, "$.items[*].n")
	require.NoError(t, err)
	assert.ElementsMatch(t, []interface{}{float64(1), float64(2)}, result)
}

func TestJoin(t *testing.T) {
	value := mustParse(t, `["x","y",3]`)
	assert.Equal(t, "x,y,3,", Join(value, ","))
}

func TestJoin_SkipsNonPrimitives(t *testing.T) {
	value := mustParse(t, `["a",null,{"k":1},[2],true,"b"]`)
	assert.Equal(t, "a;true;b;", Join(value, ";"))
}

func TestJoin_Empty(t *testing.T) {
	assert.Equal(t, "", Join([]interface{}{}, ","))
	assert.Equal(t, "", Join(mustParse(t, `[null,{}]`), ","))
}

func TestJoin_NonArray(t *testing.T) {
	assert.Equal(t, "", Join("text", ","))
	assert.Equal(t, "", Join(map[string]interface{}{}, ","))
	assert.Equal(t, "", Join(nil, ","))
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "null", Stringify(nil))
	assert.Equal(t, `"text"`, Stringify("text"))
	assert.Equal(t, "true", Stringify(true))
	assert.Equal(t, `{"a":1}`, Stringify(mustParse(t, `{"a":1}`)))
	assert.Equal(t, `[1,"b"]`, Stringify(mustParse(t, `[1,"b"]`)))
}

func TestArrayLength(t *testing.T) {
	assert.Equal(t, 3, ArrayLength(mustParse(t, `[1,2,3]`)))
	assert.Equal(t, 0, ArrayLength(mustParse(t, `[]`)))
	assert.Equal(t, 0, ArrayLength(mustParse(t, `{"a":1}`)))
	assert.Equal(t, 0, ArrayLength(nil))
}

func TestArrayLengthText(t *testing.T) {
	n, err := ArrayLengthText(`[1,2,3]`)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = ArrayLengthText(`{}`)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = ArrayLengthText(`[1,`)
	require.Error(t, err)
	assert.IsType(t, ParseError{}, err)
}
