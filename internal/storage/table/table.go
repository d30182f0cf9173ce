// Package table abstracts an ordered key/value store (Pebble) into the
// read/write/scan operations the schema registry needs. Single-key
// operations are atomic; DeletePrefix is atomic at the storage level
// via a range deletion. No other multi-key guarantee is provided here;
// callers composing multi-key operations serialize them themselves.
package table

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/rs/zerolog"

	"github.com/schemahub/registry/internal/logger"
)

// Table is an ordered key/value table backed by a single Pebble DB
type Table struct {
	db     *pebble.DB
	dir    string
	log    zerolog.Logger
	mu     sync.RWMutex
	closed bool
}

// Open opens (creating if necessary) a table at the given directory
func Open(dir string) (*Table, error) {
	if err := ensureDirectory(dir); err != nil {
		return nil, fmt.Errorf("failed to create table directory: %w", err)
	}

	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open table: %w", err)
	}

	t := &Table{
		db:  db,
		dir: dir,
		log: logger.WithComponent("table"),
	}

	t.log.Info().Str("dir", dir).Msg("Table opened")

	return t, nil
}

// Close closes the underlying store
func (t *Table) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true

	if err := t.db.Close(); err != nil {
		return fmt.Errorf("failed to close table: %w", err)
	}

	t.log.Info().Str("dir", t.dir).Msg("Table closed")

	return nil
}

// Ready returns true if the table is open
func (t *Table) Ready() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return !t.closed
}

func (t *Table) handle() (*pebble.DB, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		return nil, ClosedError{}
	}
	return t.db, nil
}

// Put writes a value under a key, overwriting any previous value
func (t *Table) Put(key string, value []byte) error {
	if key == "" {
		return InvalidKeyError{Key: key, Reason: "key cannot be empty"}
	}

	db, err := t.handle()
	if err != nil {
		return err
	}

	if err := db.Set([]byte(key), value, pebble.Sync); err != nil {
		return fmt.Errorf("failed to put key: %w", err)
	}

	return nil
}

// Get retrieves the value stored under a key. Returns KeyNotFoundError
// when the key is absent.
func (t *Table) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, InvalidKeyError{Key: key, Reason: "key cannot be empty"}
	}

	db, err := t.handle()
	if err != nil {
		return nil, err
	}

	value, closer, err := db.Get([]byte(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, KeyNotFoundError{Key: key}
		}
		return nil, fmt.Errorf("failed to get key: %w", err)
	}
	defer closer.Close()

	// Copy value bytes (closer will free the original)
	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	return valueCopy, nil
}

// Delete removes a key. Deleting an absent key is not an error.
func (t *Table) Delete(key string) error {
	if key == "" {
		return InvalidKeyError{Key: key, Reason: "key cannot be empty"}
	}

	db, err := t.handle()
	if err != nil {
		return err
	}

	if err := db.Delete([]byte(key), pebble.Sync); err != nil {
		return fmt.Errorf("failed to delete key: %w", err)
	}

	return nil
}

// ScanPrefix visits every key/value pair whose key starts with prefix,
// in key order. The value slice passed to fn is only valid for the
// duration of the call. A non-nil error from fn aborts the scan and is
// returned to the caller.
func (t *Table) ScanPrefix(prefix string, fn func(key string, value []byte) error) error {
	if prefix == "" {
		return InvalidKeyError{Key: prefix, Reason: "prefix cannot be empty"}
	}

	db, err := t.handle()
	if err != nil {
		return err
	}

	lower := []byte(prefix)
	iter, err := db.NewIter(&pebble.IterOptions{
		LowerBound: lower,
		UpperBound: prefixUpperBound(lower),
	})
	if err != nil {
		return fmt.Errorf("failed to create iterator: %w", err)
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		if err := fn(string(iter.Key()), iter.Value()); err != nil {
			return err
		}
	}

	if err := iter.Error(); err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	return nil
}

// DeletePrefix removes every key starting with prefix in a single
// atomic range deletion.
func (t *Table) DeletePrefix(prefix string) error {
	if prefix == "" {
		return InvalidKeyError{Key: prefix, Reason: "prefix cannot be empty"}
	}

	db, err := t.handle()
	if err != nil {
		return err
	}

	lower := []byte(prefix)
	if err := db.DeleteRange(lower, prefixUpperBound(lower), pebble.Sync); err != nil {
		return fmt.Errorf("failed to delete prefix: %w", err)
	}

	return nil
}

// prefixUpperBound returns the smallest key strictly greater than every
// key starting with prefix, or nil when no such bound exists (prefix of
// all 0xff bytes).
func prefixUpperBound(prefix []byte) []byte {
	upper := make([]byte, len(prefix))
	copy(upper, prefix)
	for i := len(upper) - 1; i >= 0; i-- {
		if upper[i] < 0xff {
			upper[i]++
			return upper[:i+1]
		}
	}
	return nil
}

// ensureDirectory ensures a directory exists
func ensureDirectory(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, 0755)
	}
	return nil
}
