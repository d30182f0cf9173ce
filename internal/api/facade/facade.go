// Package facade translates external schema operations into registry
// calls and maps registry outcomes onto the response envelope. No
// business logic lives here beyond identity construction (namespace
// defaulting) and outcome translation.
package facade

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/schemahub/registry/internal/logger"
	"github.com/schemahub/registry/internal/metrics"
	"github.com/schemahub/registry/internal/storage/registry"
)

// Facade maps each external operation 1:1 onto a schema registry call
type Facade struct {
	registry         *registry.Registry
	defaultNamespace string
	metrics          *metrics.RegistryMetrics
	log              zerolog.Logger
}

// New creates a facade over the registry. Requests carrying no
// namespace are resolved against defaultNamespace. metrics may be nil.
func New(reg *registry.Registry, defaultNamespace string, m *metrics.RegistryMetrics) *Facade {
	return &Facade{
		registry:         reg,
		defaultNamespace: defaultNamespace,
		metrics:          m,
		log:              logger.WithComponent("facade"),
	}
}

// resolveID constructs the schema identity, defaulting the namespace
func (f *Facade) resolveID(namespace, id string) registry.SchemaID {
	if namespace == "" {
		namespace = f.defaultNamespace
	}
	return registry.NewSchemaID(namespace, id)
}

// CreateSchema creates or overwrites the descriptor for an identity
func (f *Facade) CreateSchema(ctx context.Context, namespace, id, name, description, schemaType string) *Response {
	defer f.observe("create")()

	parsedType, err := registry.ParseSchemaType(schemaType)
	if err != nil {
		return f.failure("create", err)
	}

	descriptor := registry.SchemaDescriptor{
		ID:          f.resolveID(namespace, id),
		DisplayName: name,
		Description: description,
		Type:        parsedType,
	}

	if err := f.registry.Create(ctx, descriptor); err != nil {
		return f.failure("create", err)
	}

	return success(fmt.Sprintf("Successfully created schema entry with id '%s', name '%s'", descriptor.ID, name))
}

// UploadSchema appends content as a new version and reports the
// assigned version number
func (f *Facade) UploadSchema(ctx context.Context, namespace, id string, content []byte) *Response {
	defer f.observe("upload")()

	schemaID := f.resolveID(namespace, id)
	version, err := f.registry.Add(ctx, schemaID, content)
	if err != nil {
		return f.failure("upload", err)
	}

	return success("Success", registry.SchemaVersion{ID: schemaID, Version: version})
}

// DeleteSchema removes an identity with all its versions. The identity
// must exist; deleting an unknown identity is reported as not found.
func (f *Facade) DeleteSchema(ctx context.Context, namespace, id string) *Response {
	defer f.observe("delete")()

	schemaID := f.resolveID(namespace, id)

	exists, err := f.registry.HasSchema(ctx, schemaID)
	if err != nil {
		return f.failure("delete", err)
	}
	if !exists {
		return notFound(fmt.Sprintf("Id %s not found.", schemaID))
	}

	if err := f.registry.DeleteIdentity(ctx, schemaID); err != nil {
		return f.failure("delete", err)
	}

	return success(fmt.Sprintf("Successfully deleted schema %s", schemaID))
}

// DeleteVersion removes exactly one version of an identity
func (f *Facade) DeleteVersion(ctx context.Context, namespace, id string, version int64) *Response {
	defer f.observe("delete_version")()

	schemaID := f.resolveID(namespace, id)
	if err := f.registry.RemoveVersion(ctx, schemaID, version); err != nil {
		return f.failure("delete_version", err)
	}

	return success(fmt.Sprintf("Successfully deleted version '%d' of schema %s", version, schemaID))
}

// GetEntry returns the entry at the current (highest) version
func (f *Facade) GetEntry(ctx context.Context, namespace, id string) *Response {
	defer f.observe("get")()

	entry, err := f.registry.GetEntry(ctx, f.resolveID(namespace, id))
	if err != nil {
		return f.failure("get", err)
	}

	return success("Success", entry)
}

// GetEntryVersion returns the entry at one specific version
func (f *Facade) GetEntryVersion(ctx context.Context, namespace, id string, version int64) *Response {
	defer f.observe("get_version")()

	entry, err := f.registry.GetEntryVersion(ctx, f.resolveID(namespace, id), version)
	if err != nil {
		return f.failure("get_version", err)
	}

	return success("Success", entry)
}

// ListVersions returns all version numbers known for an identity
func (f *Facade) ListVersions(ctx context.Context, namespace, id string) *Response {
	defer f.observe("versions")()

	versions, err := f.registry.GetVersions(ctx, f.resolveID(namespace, id))
	if err != nil {
		return f.failure("versions", err)
	}

	values := make([]interface{}, len(versions))
	for i, v := range versions {
		values[i] = v
	}

	return success("Success", values...)
}

// failure maps a registry error onto the response envelope: not-found
// stays distinguishable from malformed input and storage failure.
func (f *Facade) failure(operation string, err error) *Response {
	if f.metrics != nil {
		f.metrics.OperationFailed(operation)
	}

	var notFoundErr registry.SchemaNotFoundError
	if errors.As(err, &notFoundErr) {
		return notFound(err.Error())
	}

	var validationErr registry.ValidationError
	if errors.As(err, &validationErr) {
		return badRequest(err.Error())
	}

	f.log.Error().Err(err).Str("operation", operation).Msg("Registry operation failed")
	return internalError(err.Error())
}

// observe records an operation's duration and count when metrics are
// enabled; the returned func is deferred by each operation.
func (f *Facade) observe(operation string) func() {
	if f.metrics == nil {
		return func() {}
	}
	return f.metrics.ObserveOperation(operation)
}
