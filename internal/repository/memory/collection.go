// Package memory keeps records in process memory. It backs tests and the
// "memory" database driver.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/postboard-server/internal/model"
)

type record interface {
	model.Post | model.Comment
}

// collection is a mutex-guarded map shared by the post and comment stores.
type collection[T record] struct {
	mu        sync.RWMutex
	items     map[uuid.UUID]T
	id        func(T) uuid.UUID
	createdAt func(T) time.Time
}

func newCollection[T record](id func(T) uuid.UUID, createdAt func(T) time.Time) *collection[T] {
	return &collection[T]{items: make(map[uuid.UUID]T), id: id, createdAt: createdAt}
}

func (c *collection[T]) list(ctx context.Context, match func(T) bool) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]T, 0, len(c.items))
	for _, item := range c.items {
		if match(item) {
			result = append(result, item)
		}
	}
	slices.SortFunc(result, func(a, b T) int {
		if cmp := c.createdAt(a).Compare(c.createdAt(b)); cmp != 0 {
			return cmp
		}
		ida, idb := c.id(a), c.id(b)
		return slices.Compare(ida[:], idb[:])
	})
	return result, nil
}

func (c *collection[T]) get(ctx context.Context, id uuid.UUID) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[id]
	if !ok {
		return zero, model.ErrNotFound
	}
	return item, nil
}

func (c *collection[T]) create(ctx context.Context, item T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.id(item)
	if _, ok := c.items[id]; ok {
		return zero, model.ErrConflict
	}
	c.items[id] = item
	return item, nil
}

func (c *collection[T]) update(ctx context.Context, item T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.id(item)
	if _, ok := c.items[id]; !ok {
		return zero, model.ErrNotFound
	}
	c.items[id] = item
	return item, nil
}

func (c *collection[T]) delete(ctx context.Context, id uuid.UUID) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[id]
	if !ok {
		return zero, model.ErrNotFound
	}
	delete(c.items, id)
	return item, nil
}
