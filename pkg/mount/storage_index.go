package mount

import (
	"context"
	"fmt"

	"github.com/marmos91/vfsmount/pkg/storageid"
)

// FindByStorageID returns every mount backed by the storage with identity id,
// in insertion order. Identities longer than storageid.MaxLength are hashed
// exactly as they were when the mounts were created.
//
// An empty result is not an error.
func (m *Manager) FindByStorageID(id string) ([]*Mount, error) {
	if err := m.ensureReady(); err != nil {
		m.metrics.ObserveLookup(OperationFindByStorageID, ResultError)
		return nil, err
	}

	id = storageid.Shorten(id)

	var result []*Mount
	for _, key := range m.order {
		if mnt := m.mounts[key]; mnt.storageID == id {
			result = append(result, mnt)
		}
	}

	m.metrics.ObserveLookup(OperationFindByStorageID, lookupResult(len(result)))
	return result, nil
}

// FindByNumericID translates numericID to a storage identity and returns the
// mounts backed by it. Translation errors are returned wrapped, unchanged in
// kind, so callers can match them with errors.Is.
func (m *Manager) FindByNumericID(ctx context.Context, numericID int64) ([]*Mount, error) {
	if m.translator == nil {
		m.metrics.ObserveLookup(OperationFindByNumericID, ResultError)
		return nil, ErrNoTranslator
	}

	id, err := m.translator.StorageID(ctx, numericID)
	if err != nil {
		m.metrics.ObserveLookup(OperationFindByNumericID, ResultError)
		return nil, fmt.Errorf("failed to resolve numeric storage id %d: %w", numericID, err)
	}

	mounts, err := m.FindByStorageID(id)
	if err != nil {
		return nil, err
	}

	m.metrics.ObserveLookup(OperationFindByNumericID, lookupResult(len(mounts)))
	return mounts, nil
}
