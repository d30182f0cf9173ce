// Package registry implements the versioned schema registry: identity
// lifecycle, monotonic version assignment, and reads of the assembled
// schema entries, on top of an ordered key/value table.
package registry

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/schemahub/registry/internal/logger"
	"github.com/schemahub/registry/internal/storage/table"
)

// lockStripes is the number of per-identity lock stripes. Writes to the
// same identity always hit the same stripe, so "max version + 1" and
// the subsequent write are serialized; distinct identities contend only
// on stripe collisions.
const lockStripes = 64

// Registry owns the versioning algorithm and identity lifecycle
type Registry struct {
	table *table.Table
	log   zerolog.Logger
	locks [lockStripes]sync.RWMutex
}

// NewRegistry creates a registry over the given table
func NewRegistry(t *table.Table) *Registry {
	return &Registry{
		table: t,
		log:   logger.WithComponent("registry"),
	}
}

// lockFor returns the lock stripe serializing operations on one identity
func (r *Registry) lockFor(id SchemaID) *sync.RWMutex {
	return &r.locks[stripeIndex(identityPrefix(id))]
}

// stripeIndex hashes a key prefix onto a lock stripe (FNV-1a)
func stripeIndex(key string) int {
	var h uint32 = 2166136261
	for _, c := range key {
		h ^= uint32(c)
		h *= 16777619
	}
	return int(h % lockStripes)
}

// Create validates and writes (or overwrites) the descriptor for an
// identity. It never touches existing version records, so re-creating
// an identity replaces its metadata only.
func (r *Registry) Create(ctx context.Context, descriptor SchemaDescriptor) error {
	if err := validateID(descriptor.ID); err != nil {
		return err
	}
	if descriptor.DisplayName == "" {
		return ValidationError{Field: "name", Reason: "schema name must be specified"}
	}
	if descriptor.Description == "" {
		return ValidationError{Field: "description", Reason: "schema description must be specified"}
	}
	if !descriptor.Type.valid() {
		return ValidationError{Field: "type", Reason: fmt.Sprintf("unrecognized schema type %q", descriptor.Type)}
	}

	lock := r.lockFor(descriptor.ID)
	lock.Lock()
	defer lock.Unlock()

	now := time.Now()
	record := descriptorRecord{
		DisplayName: descriptor.DisplayName,
		Description: descriptor.Description,
		Type:        descriptor.Type,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Preserve the original creation time when overwriting
	if existing, err := r.readDescriptor(descriptor.ID); err == nil {
		record.CreatedAt = existing.CreatedAt
	}

	encoded, err := encodeRecord(&record)
	if err != nil {
		return RegistryError{Op: "create", Err: err}
	}

	if err := r.table.Put(descriptorKey(descriptor.ID), encoded); err != nil {
		return RegistryError{Op: "create", Err: err}
	}

	r.log.Info().
		Str("schema", descriptor.ID.String()).
		Str("type", string(descriptor.Type)).
		Msg("Schema descriptor written")

	return nil
}

// Add appends content as a new immutable version of an existing
// identity and returns the assigned version number. Versions start at 1
// and are strictly increasing; a deleted latest version's number is
// never reused because assignment goes off a per-identity sequence
// mark, which only ever grows under this stripe's lock.
func (r *Registry) Add(ctx context.Context, id SchemaID, content []byte) (int64, error) {
	if err := validateID(id); err != nil {
		return 0, err
	}
	if len(content) == 0 {
		return 0, ValidationError{Field: "content", Reason: "schema content cannot be empty"}
	}

	lock := r.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	if _, err := r.readDescriptor(id); err != nil {
		return 0, err
	}

	// The next version is one past the highest number ever assigned.
	// The sequence high-water mark outlives a deleted latest version,
	// so its number is never handed out again; the scan covers a stale
	// mark after a failed sequence update.
	highest, err := r.readSequence(id)
	if err != nil {
		return 0, RegistryError{Op: "add", Err: err}
	}
	versions, err := r.scanVersions(id)
	if err != nil {
		return 0, RegistryError{Op: "add", Err: err}
	}
	if n := len(versions); n > 0 && versions[n-1] > highest {
		highest = versions[n-1]
	}
	next := highest + 1

	record := versionRecord{
		Content:   content,
		CreatedAt: time.Now(),
	}
	encoded, err := encodeRecord(&record)
	if err != nil {
		return 0, RegistryError{Op: "add", Err: err}
	}

	if err := r.table.Put(versionKey(id, next), encoded); err != nil {
		return 0, RegistryError{Op: "add", Err: err}
	}

	if err := r.writeSequence(id, next); err != nil {
		return 0, RegistryError{Op: "add", Err: err}
	}

	r.log.Info().
		Str("schema", id.String()).
		Int64("version", next).
		Int("bytes", len(content)).
		Msg("Schema version added")

	return next, nil
}

// GetEntry resolves the current version of an identity: the maximum
// version number present. An identity with a descriptor but no versions
// is reported as not found.
func (r *Registry) GetEntry(ctx context.Context, id SchemaID) (*SchemaEntry, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	lock := r.lockFor(id)
	lock.RLock()
	defer lock.RUnlock()

	descriptor, err := r.readDescriptor(id)
	if err != nil {
		return nil, err
	}

	versions, err := r.scanVersions(id)
	if err != nil {
		return nil, RegistryError{Op: "get", Err: err}
	}
	if len(versions) == 0 {
		return nil, SchemaNotFoundError{ID: id}
	}

	current := versions[len(versions)-1]
	return r.assembleEntry(id, descriptor, current, versions)
}

// GetEntryVersion returns the entry at one specific version
func (r *Registry) GetEntryVersion(ctx context.Context, id SchemaID, version int64) (*SchemaEntry, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	// Versions start at 1, so a non-positive number can never exist
	if version <= 0 {
		return nil, SchemaNotFoundError{ID: id, Version: version}
	}

	lock := r.lockFor(id)
	lock.RLock()
	defer lock.RUnlock()

	descriptor, err := r.readDescriptor(id)
	if err != nil {
		return nil, err
	}

	versions, err := r.scanVersions(id)
	if err != nil {
		return nil, RegistryError{Op: "get", Err: err}
	}
	if !containsVersion(versions, version) {
		return nil, SchemaNotFoundError{ID: id, Version: version}
	}

	return r.assembleEntry(id, descriptor, version, versions)
}

// GetVersions returns all version numbers present for an identity in
// ascending order. An identity with no versions yields an empty slice,
// not an error; an unknown identity is not found.
func (r *Registry) GetVersions(ctx context.Context, id SchemaID) ([]int64, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	lock := r.lockFor(id)
	lock.RLock()
	defer lock.RUnlock()

	if _, err := r.readDescriptor(id); err != nil {
		return nil, err
	}

	versions, err := r.scanVersions(id)
	if err != nil {
		return nil, RegistryError{Op: "versions", Err: err}
	}

	return versions, nil
}

// HasSchema reports whether a descriptor exists for the identity
func (r *Registry) HasSchema(ctx context.Context, id SchemaID) (bool, error) {
	if err := validateID(id); err != nil {
		return false, err
	}

	lock := r.lockFor(id)
	lock.RLock()
	defer lock.RUnlock()

	_, err := r.readDescriptor(id)
	if err != nil {
		var notFound SchemaNotFoundError
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// RemoveVersion deletes exactly one version record, leaving the
// descriptor and all other versions intact. Remaining versions are
// never renumbered.
func (r *Registry) RemoveVersion(ctx context.Context, id SchemaID, version int64) error {
	if err := validateID(id); err != nil {
		return err
	}
	// Versions start at 1, so a non-positive number can never exist
	if version <= 0 {
		return SchemaNotFoundError{ID: id, Version: version}
	}

	lock := r.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	if _, err := r.readDescriptor(id); err != nil {
		return err
	}

	key := versionKey(id, version)
	if _, err := r.table.Get(key); err != nil {
		var keyNotFound table.KeyNotFoundError
		if errors.As(err, &keyNotFound) {
			return SchemaNotFoundError{ID: id, Version: version}
		}
		return RegistryError{Op: "remove version", Err: err}
	}

	if err := r.table.Delete(key); err != nil {
		return RegistryError{Op: "remove version", Err: err}
	}

	r.log.Info().
		Str("schema", id.String()).
		Int64("version", version).
		Msg("Schema version removed")

	return nil
}

// DeleteIdentity removes the descriptor and every version record of an
// identity. The removal is a single range deletion under the identity's
// write lock, so once it returns no read observes any remnant. Deleting
// an unknown identity is reported as not found.
func (r *Registry) DeleteIdentity(ctx context.Context, id SchemaID) error {
	if err := validateID(id); err != nil {
		return err
	}

	lock := r.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	if _, err := r.readDescriptor(id); err != nil {
		return err
	}

	if err := r.table.DeletePrefix(identityPrefix(id)); err != nil {
		return RegistryError{Op: "delete", Err: err}
	}

	r.log.Info().
		Str("schema", id.String()).
		Msg("Schema identity deleted")

	return nil
}

// readDescriptor loads and decodes the descriptor record, translating a
// missing key into SchemaNotFoundError
func (r *Registry) readDescriptor(id SchemaID) (*descriptorRecord, error) {
	data, err := r.table.Get(descriptorKey(id))
	if err != nil {
		var keyNotFound table.KeyNotFoundError
		if errors.As(err, &keyNotFound) {
			return nil, SchemaNotFoundError{ID: id}
		}
		return nil, RegistryError{Op: "get descriptor", Err: err}
	}

	var record descriptorRecord
	if err := decodeRecord(data, &record); err != nil {
		return nil, RegistryError{Op: "get descriptor", Err: err}
	}
	return &record, nil
}

// readSequence loads the version high-water mark, 0 when none exists
func (r *Registry) readSequence(id SchemaID) (int64, error) {
	data, err := r.table.Get(sequenceKey(id))
	if err != nil {
		var keyNotFound table.KeyNotFoundError
		if errors.As(err, &keyNotFound) {
			return 0, nil
		}
		return 0, err
	}
	highest, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed sequence record: %w", err)
	}
	return highest, nil
}

// writeSequence stores the version high-water mark
func (r *Registry) writeSequence(id SchemaID, highest int64) error {
	return r.table.Put(sequenceKey(id), []byte(strconv.FormatInt(highest, 10)))
}

// scanVersions lists all version numbers of an identity in ascending
// order (version keys are zero-padded, so scan order is numeric order)
func (r *Registry) scanVersions(id SchemaID) ([]int64, error) {
	versions := make([]int64, 0)
	err := r.table.ScanPrefix(versionsPrefix(id), func(key string, value []byte) error {
		version, err := parseVersionKey(key)
		if err != nil {
			return err
		}
		versions = append(versions, version)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return versions, nil
}

// assembleEntry builds the read model for one resolved version
func (r *Registry) assembleEntry(id SchemaID, descriptor *descriptorRecord, version int64, versions []int64) (*SchemaEntry, error) {
	data, err := r.table.Get(versionKey(id, version))
	if err != nil {
		var keyNotFound table.KeyNotFoundError
		if errors.As(err, &keyNotFound) {
			return nil, SchemaNotFoundError{ID: id, Version: version}
		}
		return nil, RegistryError{Op: "get", Err: err}
	}

	var record versionRecord
	if err := decodeRecord(data, &record); err != nil {
		return nil, RegistryError{Op: "get", Err: err}
	}

	return &SchemaEntry{
		ID:          id,
		DisplayName: descriptor.DisplayName,
		Description: descriptor.Description,
		Type:        descriptor.Type,
		Version:     version,
		Content:     record.Content,
		Versions:    versions,
	}, nil
}

func containsVersion(versions []int64, version int64) bool {
	for _, v := range versions {
		if v == version {
			return true
		}
	}
	return false
}

// encodeRecord encodes a stored record to bytes using GOB
func encodeRecord(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return buf.Bytes(), nil
}

// decodeRecord decodes bytes into a stored record using GOB
func decodeRecord(data []byte, v interface{}) error {
	dec := gob.NewDecoder(bytes.NewBuffer(data))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("failed to decode record: %w", err)
	}
	return nil
}
