// Package jsonstore persists a collection as a single JSON document on disk:
// one object with one array property, rewritten whole-file on every save.
package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Collection reads and writes snapshots of []T. A mutex serializes all file
// access so concurrent saves within the process cannot interleave.
type Collection[T any] struct {
	path     string
	property string
	mu       sync.Mutex
}

func NewCollection[T any](path, property string) *Collection[T] {
	return &Collection[T]{path: path, property: property}
}

// Load returns the full snapshot. A missing file is an empty collection.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", c.path, err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.path, err)
	}

	raw, ok := doc[c.property]
	if !ok {
		return nil, nil
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s.%s: %w", c.path, c.property, err)
	}
	return items, nil
}

// Save overwrites the document with the given snapshot.
func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if items == nil {
		items = []T{}
	}

	data, err := json.MarshalIndent(map[string]any{c.property: items}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.path, err)
	}

	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(c.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", c.path, err)
	}
	return nil
}
