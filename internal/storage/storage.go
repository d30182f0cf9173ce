// Package storage wires the persistent table and the schema registry
// into one backend with a shared lifecycle.
package storage

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/schemahub/registry/internal/logger"
	"github.com/schemahub/registry/internal/storage/registry"
	"github.com/schemahub/registry/internal/storage/table"
)

// Backend is the complete storage system
type Backend struct {
	table    *table.Table
	registry *registry.Registry
	log      zerolog.Logger
	mu       sync.Mutex
	closed   bool
}

// New opens the storage backend rooted at dataDir
func New(dataDir string) (*Backend, error) {
	log := logger.WithComponent("storage")

	t, err := table.Open(filepath.Join(dataDir, "registry"))
	if err != nil {
		return nil, err
	}

	b := &Backend{
		table:    t,
		registry: registry.NewRegistry(t),
		log:      log,
	}

	log.Info().Str("data_dir", dataDir).Msg("Storage initialized")

	return b, nil
}

// Table returns the key/value table
func (b *Backend) Table() *table.Table {
	return b.table
}

// Registry returns the schema registry
func (b *Backend) Registry() *registry.Registry {
	return b.registry
}

// Ready returns true while the backend is usable
func (b *Backend) Ready() bool {
	return b.table.Ready()
}

// Close gracefully shuts down the storage system
func (b *Backend) Close(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	b.log.Info().Msg("Closing storage...")

	if err := b.table.Close(); err != nil {
		b.log.Error().Err(err).Msg("Failed to close table")
		return err
	}

	b.log.Info().Msg("Storage closed")

	return nil
}
