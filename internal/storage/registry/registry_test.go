package registry

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemahub/registry/internal/storage/table"
)

func setupTestRegistry(t *testing.T) *Registry {
	tbl, err := table.Open(t.TempDir())
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, tbl.Close())
	})

	return NewRegistry(tbl)
}

func testDescriptor(namespace, name string) SchemaDescriptor {
	return SchemaDescriptor{
		ID:          NewSchemaID(namespace, name),
		DisplayName: "Test Schema",
		Description: "A schema used in tests",
		Type:        TypeAvro,
	}
}

func TestRegistry_Create(t *testing.T) {
	reg := setupTestRegistry(t)
	ctx := context.Background()

	descriptor := testDescriptor("default", "events")
	require.NoError(t, reg.Create(ctx, descriptor))

	exists, err := reg.HasSchema(ctx, descriptor.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	versions, err := reg.GetVersions(ctx, descriptor.ID)
	require.NoError(t, err)
	assert.Empty(t, versions)
	assert.NotNil(t, versions)
}

func TestRegistry_Create_InvalidInput(t *testing.T) {
	reg := setupTestRegistry(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		descriptor SchemaDescriptor
	}{
		{"empty id", SchemaDescriptor{ID: NewSchemaID("default", ""), DisplayName: "n", Description: "d", Type: TypeAvro}},
		{"empty name", SchemaDescriptor{ID: NewSchemaID("default", "s"), Description: "d", Type: TypeAvro}},
		{"empty description", SchemaDescriptor{ID: NewSchemaID("default", "s"), DisplayName: "n", Type: TypeAvro}},
		{"unrecognized type", SchemaDescriptor{ID: NewSchemaID("default", "s"), DisplayName: "n", Description: "d", Type: "thrift"}},
		{"empty type", SchemaDescriptor{ID: NewSchemaID("default", "s"), DisplayName: "n", Description: "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reg.Create(ctx, tt.descriptor)
			require.Error(t, err)
			assert.IsType(t, ValidationError{}, err)

			// A failed create leaves nothing behind
			if tt.descriptor.ID.Name != "" {
				exists, err := reg.HasSchema(ctx, tt.descriptor.ID)
				require.NoError(t, err)
				assert.False(t, exists)
			}
		})
	}
}

func TestRegistry_Create_OverwritesMetadataOnly(t *testing.T) {
	reg := setupTestRegistry(t)
	ctx := context.Background()

	descriptor := testDescriptor("default", "events")
	require.NoError(t, reg.Create(ctx, descriptor))

	_, err := reg.Add(ctx, descriptor.ID, []byte("v1 content"))
	require.NoError(t, err)

	// Re-create with new metadata
	descriptor.DisplayName = "Renamed"
	descriptor.Description = "Updated description"
	descriptor.Type = TypeJSONSchema
	require.NoError(t, reg.Create(ctx, descriptor))

	entry, err := reg.GetEntry(ctx, descriptor.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", entry.DisplayName)
	assert.Equal(t, "Updated description", entry.Description)
	assert.Equal(t, TypeJSONSchema, entry.Type)

	// Existing version records are untouched
	assert.Equal(t, int64(1), entry.Version)
	assert.Equal(t, []byte("v1 content"), entry.Content)
}

func TestRegistry_Add_Sequence(t *testing.T) {
	reg := setupTestRegistry(t)
	ctx := context.Background()

	descriptor := testDescriptor("default", "events")
	require.NoError(t, reg.Create(ctx, descriptor))

	var previous int64
	for i := 1; i <= 5; i++ {
		version, err := reg.Add(ctx, descriptor.ID, []byte{byte(i)})
		require.NoError(t, err)
		assert.Equal(t, int64(i), version)
		assert.Greater(t, version, previous)
		previous = version
	}

	versions, err := reg.GetVersions(ctx, descriptor.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, versions)
}

func TestRegistry_Add_NoDescriptor(t *testing.T) {
	reg := setupTestRegistry(t)
	ctx := context.Background()

	id := NewSchemaID("default", "unknown")
	_, err := reg.Add(ctx, id, []byte("content"))
	require.Error(t, err)
	assert.IsType(t, SchemaNotFoundError{}, err)

	// The failed add left no version record behind
	require.NoError(t, reg.Create(ctx, testDescriptor("default", "unknown")))
	versions, err := reg.GetVersions(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, versions)
}

func TestRegistry_Add_EmptyContent(t *testing.T) {
	reg := setupTestRegistry(t)
	ctx := context.Background()

	descriptor := testDescriptor("default", "events")
	require.NoError(t, reg.Create(ctx, descriptor))

	for _, content := range [][]byte{nil, {}} {
		_, err := reg.Add(ctx, descriptor.ID, content)
		require.Error(t, err)
		assert.IsType(t, ValidationError{}, err)
	}

	versions, err := reg.GetVersions(ctx, descriptor.ID)
	require.NoError(t, err)
	assert.Empty(t, versions)
}

func TestRegistry_GetEntry_ResolvesCurrent(t *testing.T) {
	reg := setupTestRegistry(t)
	ctx := context.Background()

	descriptor := testDescriptor("default", "events")
	require.NoError(t, reg.Create(ctx, descriptor))

	for i := 1; i <= 3; i++ {
		_, err := reg.Add(ctx, descriptor.ID, []byte{byte(i)})
		require.NoError(t, err)
	}

	entry, err := reg.GetEntry(ctx, descriptor.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), entry.Version)
	assert.Equal(t, []byte{3}, entry.Content)
	assert.Equal(t, []int64{1, 2, 3}, entry.Versions)
	assert.Equal(t, descriptor.DisplayName, entry.DisplayName)

	// Current follows the maximum as versions disappear
	require.NoError(t, reg.RemoveVersion(ctx, descriptor.ID, 3))
	entry, err = reg.GetEntry(ctx, descriptor.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), entry.Version)
	assert.Equal(t, []byte{2}, entry.Content)
}

func TestRegistry_GetEntry_NotFound(t *testing.T) {
	reg := setupTestRegistry(t)
	ctx := context.Background()

	// Unknown identity
	_, err := reg.GetEntry(ctx, NewSchemaID("default", "unknown"))
	assert.IsType(t, SchemaNotFoundError{}, err)

	// Descriptor without versions
	descriptor := testDescriptor("default", "empty")
	require.NoError(t, reg.Create(ctx, descriptor))
	_, err = reg.GetEntry(ctx, descriptor.ID)
	assert.IsType(t, SchemaNotFoundError{}, err)
}

func TestRegistry_GetEntryVersion(t *testing.T) {
	reg := setupTestRegistry(t)
	ctx := context.Background()

	descriptor := testDescriptor("default", "events")
	require.NoError(t, reg.Create(ctx, descriptor))

	_, err := reg.Add(ctx, descriptor.ID, []byte("one"))
	require.NoError(t, err)
	_, err = reg.Add(ctx, descriptor.ID, []byte("two"))
	require.NoError(t, err)

	entry, err := reg.GetEntryVersion(ctx, descriptor.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), entry.Version)
	assert.Equal(t, []byte("one"), entry.Content)
	assert.Equal(t, []int64{1, 2}, entry.Versions)

	_, err = reg.GetEntryVersion(ctx, descriptor.ID, 7)
	assert.IsType(t, SchemaNotFoundError{}, err)

	// Versions start at 1; a non-positive version is absent, not invalid
	_, err = reg.GetEntryVersion(ctx, descriptor.ID, 0)
	assert.IsType(t, SchemaNotFoundError{}, err)

	_, err = reg.GetEntryVersion(ctx, descriptor.ID, -2)
	assert.IsType(t, SchemaNotFoundError{}, err)
}

func TestRegistry_GetVersions_UnknownIdentity(t *testing.T) {
	reg := setupTestRegistry(t)

	_, err := reg.GetVersions(context.Background(), NewSchemaID("default", "unknown"))
	assert.IsType(t, SchemaNotFoundError{}, err)
}

func TestRegistry_HasSchema(t *testing.T) {
	reg := setupTestRegistry(t)
	ctx := context.Background()

	id := NewSchemaID("default", "events")

	exists, err := reg.HasSchema(ctx, id)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, reg.Create(ctx, testDescriptor("default", "events")))

	exists, err = reg.HasSchema(ctx, id)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRegistry_RemoveVersion(t *testing.T) {
	reg := setupTestRegistry(t)
	ctx := context.Background()

	descriptor := testDescriptor("default", "events")
	require.NoError(t, reg.Create(ctx, descriptor))

	other := testDescriptor("default", "other")
	require.NoError(t, reg.Create(ctx, other))

	for i := 1; i <= 3; i++ {
		_, err := reg.Add(ctx, descriptor.ID, []byte{byte(i)})
		require.NoError(t, err)
		_, err = reg.Add(ctx, other.ID, []byte{byte(i)})
		require.NoError(t, err)
	}

	// Removing a non-latest version leaves a gap without renumbering
	require.NoError(t, reg.RemoveVersion(ctx, descriptor.ID, 2))

	versions, err := reg.GetVersions(ctx, descriptor.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, versions)

	// Other identities are unaffected
	versions, err = reg.GetVersions(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, versions)

	// Descriptor is intact
	exists, err := reg.HasSchema(ctx, descriptor.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRegistry_RemoveVersion_NotFound(t *testing.T) {
	reg := setupTestRegistry(t)
	ctx := context.Background()

	// Unknown identity
	err := reg.RemoveVersion(ctx, NewSchemaID("default", "unknown"), 1)
	assert.IsType(t, SchemaNotFoundError{}, err)

	// Known identity, absent version
	descriptor := testDescriptor("default", "events")
	require.NoError(t, reg.Create(ctx, descriptor))
	err = reg.RemoveVersion(ctx, descriptor.ID, 1)
	assert.IsType(t, SchemaNotFoundError{}, err)

	// Non-positive versions can never exist
	err = reg.RemoveVersion(ctx, descriptor.ID, 0)
	assert.IsType(t, SchemaNotFoundError{}, err)
}

func TestRegistry_Add_NeverReusesVersions(t *testing.T) {
	reg := setupTestRegistry(t)
	ctx := context.Background()

	descriptor := testDescriptor("default", "events")
	require.NoError(t, reg.Create(ctx, descriptor))

	for i := 1; i <= 3; i++ {
		_, err := reg.Add(ctx, descriptor.ID, []byte{byte(i)})
		require.NoError(t, err)
	}

	// Deleting the latest version must not give its number back out
	require.NoError(t, reg.RemoveVersion(ctx, descriptor.ID, 3))

	version, err := reg.Add(ctx, descriptor.ID, []byte("new"))
	require.NoError(t, err)
	assert.Equal(t, int64(4), version)

	versions, err := reg.GetVersions(ctx, descriptor.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 4}, versions)
}

func TestRegistry_DeleteIdentity(t *testing.T) {
	reg := setupTestRegistry(t)
	ctx := context.Background()

	descriptor := testDescriptor("default", "events")
	require.NoError(t, reg.Create(ctx, descriptor))
	_, err := reg.Add(ctx, descriptor.ID, []byte("content"))
	require.NoError(t, err)

	require.NoError(t, reg.DeleteIdentity(ctx, descriptor.ID))

	exists, err := reg.HasSchema(ctx, descriptor.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = reg.GetVersions(ctx, descriptor.ID)
	assert.IsType(t, SchemaNotFoundError{}, err)

	_, err = reg.GetEntry(ctx, descriptor.ID)
	assert.IsType(t, SchemaNotFoundError{}, err)
}

func TestRegistry_DeleteIdentity_Unknown(t *testing.T) {
	reg := setupTestRegistry(t)

	err := reg.DeleteIdentity(context.Background(), NewSchemaID("default", "unknown"))
	assert.IsType(t, SchemaNotFoundError{}, err)
}

func TestRegistry_DeleteIdentity_IndependentIdentities(t *testing.T) {
	reg := setupTestRegistry(t)
	ctx := context.Background()

	a := testDescriptor("default", "a")
	b := testDescriptor("default", "ab") // shares a key prefix character-wise
	require.NoError(t, reg.Create(ctx, a))
	require.NoError(t, reg.Create(ctx, b))
	_, err := reg.Add(ctx, b.ID, []byte("kept"))
	require.NoError(t, err)

	require.NoError(t, reg.DeleteIdentity(ctx, a.ID))

	entry, err := reg.GetEntry(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("kept"), entry.Content)
}

func TestRegistry_ConcurrentAdd(t *testing.T) {
	reg := setupTestRegistry(t)
	ctx := context.Background()

	descriptor := testDescriptor("default", "events")
	require.NoError(t, reg.Create(ctx, descriptor))

	const workers = 20

	var wg sync.WaitGroup
	results := make(chan int64, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			version, err := reg.Add(ctx, descriptor.ID, []byte("content"))
			assert.NoError(t, err)
			results <- version
		}()
	}
	wg.Wait()
	close(results)

	// No duplicates, no gaps relative to the number of successful calls
	seen := make(map[int64]bool, workers)
	for version := range results {
		assert.False(t, seen[version], "version %d assigned twice", version)
		seen[version] = true
	}
	for v := int64(1); v <= workers; v++ {
		assert.True(t, seen[v], "version %d missing", v)
	}
}

func TestParseSchemaType(t *testing.T) {
	for _, tag := range []string{"avro", "protobuf", "jsonschema"} {
		parsed, err := ParseSchemaType(tag)
		require.NoError(t, err)
		assert.Equal(t, SchemaType(tag), parsed)
	}

	for _, tag := range []string{"", "AVRO", "thrift", "json"} {
		_, err := ParseSchemaType(tag)
		require.Error(t, err, "tag %q", tag)
		assert.IsType(t, ValidationError{}, err)
	}
}
