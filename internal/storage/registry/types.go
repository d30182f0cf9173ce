package registry

import (
	"fmt"
	"time"
)

// SchemaType is the format of a schema's content
type SchemaType string

const (
	TypeAvro       SchemaType = "avro"
	TypeProtobuf   SchemaType = "protobuf"
	TypeJSONSchema SchemaType = "jsonschema"
)

// ParseSchemaType parses a schema type tag. The set of recognized tags
// is closed; an unrecognized tag is a validation error, never a default.
func ParseSchemaType(s string) (SchemaType, error) {
	switch SchemaType(s) {
	case TypeAvro, TypeProtobuf, TypeJSONSchema:
		return SchemaType(s), nil
	default:
		return "", ValidationError{Field: "type", Reason: fmt.Sprintf("unrecognized schema type %q", s)}
	}
}

func (t SchemaType) valid() bool {
	switch t {
	case TypeAvro, TypeProtobuf, TypeJSONSchema:
		return true
	}
	return false
}

// SchemaID names one logical schema across all its versions. Equality
// is structural; the value is immutable once constructed.
type SchemaID struct {
	Namespace string `json:"namespace"`
	Name      string `json:"id"`
}

// NewSchemaID creates a schema identity
func NewSchemaID(namespace, name string) SchemaID {
	return SchemaID{Namespace: namespace, Name: name}
}

func (id SchemaID) String() string {
	return id.Namespace + ":" + id.Name
}

// SchemaDescriptor is the mutable metadata row for one identity.
// Exactly one live descriptor exists per SchemaID.
type SchemaDescriptor struct {
	ID          SchemaID   `json:"id"`
	DisplayName string     `json:"name"`
	Description string     `json:"description"`
	Type        SchemaType `json:"type"`
}

// SchemaEntry is the read model assembled from a descriptor and one or
// more version records. It is never stored.
type SchemaEntry struct {
	ID          SchemaID   `json:"id"`
	DisplayName string     `json:"name"`
	Description string     `json:"description"`
	Type        SchemaType `json:"type"`
	Version     int64      `json:"current"`
	Content     []byte     `json:"specification"`
	Versions    []int64    `json:"versions"`
}

// SchemaVersion identifies one stored version of a schema. Returned by
// Add so callers know which version their content landed on.
type SchemaVersion struct {
	ID      SchemaID `json:"id"`
	Version int64    `json:"version"`
}

// descriptorRecord is the stored form of a descriptor
type descriptorRecord struct {
	DisplayName string
	Description string
	Type        SchemaType
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// versionRecord is the stored form of one immutable version
type versionRecord struct {
	Content   []byte
	CreatedAt time.Time
}
