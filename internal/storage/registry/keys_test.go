package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionKey_OrderMatchesNumericOrder(t *testing.T) {
	id := NewSchemaID("ns", "schema")

	// Zero padding keeps lexicographic order numeric across digit counts
	assert.Less(t, versionKey(id, 9), versionKey(id, 10))
	assert.Less(t, versionKey(id, 99), versionKey(id, 100))
	assert.Less(t, versionKey(id, 1), versionKey(id, 9223372036854775807))
}

func TestParseVersionKey(t *testing.T) {
	id := NewSchemaID("ns", "schema")

	for _, version := range []int64{1, 42, 9223372036854775807} {
		parsed, err := parseVersionKey(versionKey(id, version))
		require.NoError(t, err)
		assert.Equal(t, version, parsed)
	}

	_, err := parseVersionKey("garbage")
	assert.Error(t, err)
}

func TestIdentityPrefix_SeparatorTerminated(t *testing.T) {
	// "a/b" must never scan into "a/bc"
	a := identityPrefix(NewSchemaID("ns", "b"))
	b := identityPrefix(NewSchemaID("ns", "bc"))
	assert.NotContains(t, b, a)
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		id      SchemaID
		wantErr bool
	}{
		{"valid", NewSchemaID("ns", "schema"), false},
		{"empty namespace", NewSchemaID("", "schema"), true},
		{"empty name", NewSchemaID("ns", ""), true},
		{"separator in namespace", NewSchemaID("n/s", "schema"), true},
		{"separator in name", NewSchemaID("ns", "sch/ema"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateID(tt.id)
			if tt.wantErr {
				assert.IsType(t, ValidationError{}, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
