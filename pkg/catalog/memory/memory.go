// Package memory provides an in-process catalog.Catalog.
// Ids are allocated sequentially from 1 and are lost when the process exits.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/marmos91/vfsmount/pkg/catalog"
	"github.com/marmos91/vfsmount/pkg/storageid"
)

// Catalog is an in-memory catalog.Catalog.
type Catalog struct {
	mu     sync.RWMutex
	byID   map[int64]string
	byName map[string]int64
	nextID int64
}

var _ catalog.Catalog = (*Catalog)(nil)

// New creates an empty in-memory catalog.
func New() *Catalog {
	return &Catalog{
		byID:   make(map[int64]string),
		byName: make(map[string]int64),
		nextID: 1,
	}
}

// Register implements catalog.Catalog.
func (c *Catalog) Register(ctx context.Context, storageID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if storageID == "" {
		return 0, catalog.ErrInvalidStorageID
	}
	storageID = storageid.Shorten(storageID)

	c.mu.Lock()
	defer c.mu.Unlock()

	if id, exists := c.byName[storageID]; exists {
		return id, nil
	}

	id := c.nextID
	c.nextID++
	c.byID[id] = storageID
	c.byName[storageID] = id
	return id, nil
}

// StorageID implements catalog.Catalog.
func (c *Catalog) StorageID(ctx context.Context, numericID int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	storageID, exists := c.byID[numericID]
	if !exists {
		return "", fmt.Errorf("numeric id %d: %w", numericID, catalog.ErrStorageNotFound)
	}
	return storageID, nil
}

// NumericID implements catalog.Catalog.
func (c *Catalog) NumericID(ctx context.Context, storageID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	storageID = storageid.Shorten(storageID)

	c.mu.RLock()
	defer c.mu.RUnlock()

	id, exists := c.byName[storageID]
	if !exists {
		return 0, fmt.Errorf("storage %q: %w", storageID, catalog.ErrStorageNotFound)
	}
	return id, nil
}

// Remove implements catalog.Catalog.
func (c *Catalog) Remove(ctx context.Context, storageID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	storageID = storageid.Shorten(storageID)

	c.mu.Lock()
	defer c.mu.Unlock()

	id, exists := c.byName[storageID]
	if !exists {
		return fmt.Errorf("storage %q: %w", storageID, catalog.ErrStorageNotFound)
	}
	delete(c.byName, storageID)
	delete(c.byID, id)
	return nil
}

// List implements catalog.Catalog.
func (c *Catalog) List(ctx context.Context) ([]catalog.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entries := make([]catalog.Entry, 0, len(c.byID))
	for id, storageID := range c.byID {
		entries = append(entries, catalog.Entry{NumericID: id, StorageID: storageID})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].NumericID < entries[j].NumericID
	})
	return entries, nil
}

// Close implements catalog.Catalog. It is a no-op.
func (c *Catalog) Close() error {
	return nil
}
