// Package catalog maps backend storage identities to stable numeric ids.
//
// Mount tables are rebuilt for every session, but other subsystems (file
// caches, share records) refer to storages by a compact numeric id that must
// survive restarts. A Catalog is the persistent bijection between the two.
// It is the translator consumed by mount.Manager.FindByNumericID.
//
// Every implementation applies storageid.Shorten to identities before storing
// or comparing them, so long identities round-trip.
package catalog

import (
	"context"
	"errors"
)

var (
	// ErrStorageNotFound is returned when a numeric id or storage id is not catalogued.
	ErrStorageNotFound = errors.New("storage not found in catalog")

	// ErrInvalidStorageID is returned when registering an empty storage id.
	ErrInvalidStorageID = errors.New("invalid storage id")
)

// Entry is a single catalogued storage.
type Entry struct {
	NumericID int64  `json:"numeric_id" yaml:"numeric_id"`
	StorageID string `json:"storage_id" yaml:"storage_id"`
}

// Catalog is a persistent storage id registry.
// Implementations are safe for concurrent use.
type Catalog interface {
	// Register returns the numeric id for storageID, allocating one if the
	// storage is not yet catalogued.
	Register(ctx context.Context, storageID string) (int64, error)

	// StorageID resolves a numeric id to its storage identity.
	// Returns ErrStorageNotFound for unknown ids.
	StorageID(ctx context.Context, numericID int64) (string, error)

	// NumericID resolves a storage identity to its numeric id.
	// Returns ErrStorageNotFound for unknown identities.
	NumericID(ctx context.Context, storageID string) (int64, error)

	// Remove deletes a storage from the catalog. Returns ErrStorageNotFound
	// if it was not catalogued.
	Remove(ctx context.Context, storageID string) error

	// List returns every entry ordered by numeric id.
	List(ctx context.Context) ([]Entry, error)

	// Close releases resources held by the catalog.
	Close() error
}
