package registry

import (
	"fmt"
	"strconv"
	"strings"
)

// Key layout. Every record of one identity lives under the identity
// prefix so a single prefix scan (or range delete) covers all of it:
//
//	reg/{namespace}/{name}/meta                  descriptor
//	reg/{namespace}/{name}/seq                   version sequence high-water mark
//	reg/{namespace}/{name}/ver/{version:020d}    one version record
//
// Versions are zero-padded so lexicographic key order equals numeric
// version order.
const (
	keyRoot      = "reg/"
	keySeparator = "/"
	metaSuffix   = "meta"
	seqSuffix    = "seq"
	verSegment   = "ver/"

	versionKeyWidth = 20
)

// identityPrefix returns the key prefix shared by every record of one
// identity, separator-terminated so "a/b" never matches "a/bc".
func identityPrefix(id SchemaID) string {
	return keyRoot + id.Namespace + keySeparator + id.Name + keySeparator
}

// descriptorKey returns the distinguished key holding the descriptor
func descriptorKey(id SchemaID) string {
	return identityPrefix(id) + metaSuffix
}

// sequenceKey returns the key holding the highest version number ever
// assigned for an identity. It survives deletion of the latest version
// so version numbers are never reused; it falls with the identity
// itself, since it lives under the identity prefix.
func sequenceKey(id SchemaID) string {
	return identityPrefix(id) + seqSuffix
}

// versionsPrefix returns the prefix under which all version records sit
func versionsPrefix(id SchemaID) string {
	return identityPrefix(id) + verSegment
}

// versionKey returns the key for one version record
func versionKey(id SchemaID, version int64) string {
	return fmt.Sprintf("%s%0*d", versionsPrefix(id), versionKeyWidth, version)
}

// parseVersionKey extracts the version number from a version record key
func parseVersionKey(key string) (int64, error) {
	idx := strings.LastIndex(key, keySeparator)
	if idx < 0 || idx+1 >= len(key) {
		return 0, fmt.Errorf("malformed version key: %s", key)
	}
	version, err := strconv.ParseInt(key[idx+1:], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed version key %s: %w", key, err)
	}
	return version, nil
}

// validateID checks that identity components are usable as key segments
func validateID(id SchemaID) error {
	if id.Namespace == "" {
		return ValidationError{Field: "namespace", Reason: "namespace must be specified"}
	}
	if strings.Contains(id.Namespace, keySeparator) {
		return ValidationError{Field: "namespace", Reason: "namespace must not contain '/'"}
	}
	if id.Name == "" {
		return ValidationError{Field: "id", Reason: "schema id must be specified"}
	}
	if strings.Contains(id.Name, keySeparator) {
		return ValidationError{Field: "id", Reason: "schema id must not contain '/'"}
	}
	return nil
}
