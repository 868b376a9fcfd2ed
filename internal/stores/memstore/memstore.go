// Package memstore is an in-memory collection backend, used in tests.
package memstore

import (
	"context"
	"slices"
	"sync"
)

type Collection[T any] struct {
	mu    sync.Mutex
	items []T
}

func NewCollection[T any]() *Collection[T] {
	return &Collection[T]{}
}

func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items), nil
}

func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = slices.Clone(items)
	return nil
}
