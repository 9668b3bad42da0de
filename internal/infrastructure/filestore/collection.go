// Package filestore keeps a collection of records in a single JSON file.
// The whole collection lives in memory; every mutation rewrites the file.
// A file must be opened by one Collection in one process only.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/rs/zerolog/log"
)

// ErrCorrupt is returned by Open when the file exists but is not a JSON array.
var ErrCorrupt = errors.New("filestore: corrupt collection file")

// Options tune the physical write.
type Options struct {
	WriteAttempts uint
	WriteDelay    time.Duration
}

// DefaultOptions are used when Open receives a zero Options.
func DefaultOptions() Options {
	return Options{
		WriteAttempts: 3,
		WriteDelay:    50 * time.Millisecond,
	}
}

// Collection is a JSON-array-backed list of T. Reads share a lock, mutations
// are serialized and persisted before they become visible.
type Collection[T any] struct {
	path  string
	opts  Options
	mu    sync.RWMutex
	items []T
}

// Open loads path, creating its directory and an empty collection when the
// file does not exist yet.
func Open[T any](path string, opts Options) (*Collection[T], error) {
	if opts.WriteAttempts == 0 {
		opts = DefaultOptions()
	}

	c := &Collection[T]{path: path, opts: opts}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		c.items = make([]T, 0)
		if err := c.persist(context.Background(), c.items); err != nil {
			return nil, err
		}
		log.Info().Str("path", path).Msg("Created empty collection file")
		return c, nil
	case err != nil:
		return nil, fmt.Errorf("read collection file: %w", err)
	}

	if len(data) == 0 {
		c.items = make([]T, 0)
		return c, nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}
	if items == nil {
		items = make([]T, 0)
	}
	c.items = items

	log.Info().Str("path", path).Int("records", len(items)).Msg("Loaded collection file")
	return c, nil
}

// Read calls fn with the current items under a shared lock. fn must not
// retain or modify the slice.
func (c *Collection[T]) Read(fn func(items []T)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn(c.items)
}

// Len returns the number of records.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Mutate calls fn with a copy of the items under the exclusive lock. When fn
// succeeds, its result is written to disk and then swapped in. When fn or the
// write fails, the in-memory collection is left unchanged.
func (c *Collection[T]) Mutate(ctx context.Context, fn func(items []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	working := make([]T, len(c.items))
	copy(working, c.items)

	next, err := fn(working)
	if err != nil {
		return err
	}
	if next == nil {
		next = make([]T, 0)
	}

	if err := c.persist(ctx, next); err != nil {
		return err
	}
	c.items = next
	return nil
}

// Ping checks the backing file is still reachable.
func (c *Collection[T]) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(c.path); err != nil {
		return fmt.Errorf("stat collection file: %w", err)
	}
	return nil
}

// persist writes items to a temp file next to path and renames it over path.
func (c *Collection[T]) persist(ctx context.Context, items []T) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal collection: %w", err)
	}

	err = retry.Do(
		func() error {
			return writeAtomic(c.path, data)
		},
		retry.Attempts(c.opts.WriteAttempts),
		retry.Delay(c.opts.WriteDelay),
		retry.MaxDelay(time.Second),
		retry.MaxJitter(c.opts.WriteDelay),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().Err(err).Uint("attempt", n).Str("path", c.path).Msg("Retrying collection write")
		}),
	)
	if err != nil {
		return fmt.Errorf("write collection file: %w", err)
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
