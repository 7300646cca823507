package mount

import (
	"slices"
	"strings"
)

// Find returns the mount that owns p: the mount whose mount point is the
// longest byte-exact prefix of the normalized path. An exact key match wins
// immediately.
//
// Observers are notified with EventGetMountPoint before the table is
// consulted. Returns ErrNotFound when no mount point is a prefix of p.
func (m *Manager) Find(p string) (*Mount, error) {
	if err := m.ensureReady(); err != nil {
		m.metrics.ObserveLookup(OperationFind, ResultError)
		return nil, err
	}

	p = m.formatPath(p)

	// Observers may mutate the table; the lookup sees the table as it was
	// before they ran.
	exact, hasExact := m.mounts[p]
	keys := slices.Clone(m.order)
	entries := m.List()

	for _, o := range m.observers {
		o.OnLookup(EventGetMountPoint, p)
	}

	if hasExact {
		m.metrics.ObserveLookup(OperationFind, ResultHit)
		return exact, nil
	}

	// Keys are unique, so two distinct keys of equal length can never both
	// prefix p. The strict comparison keeps the first key in insertion order.
	found := -1
	for i, key := range keys {
		if (found < 0 || len(key) > len(keys[found])) && strings.HasPrefix(p, key) {
			found = i
		}
	}

	if found < 0 {
		m.metrics.ObserveLookup(OperationFind, ResultMiss)
		return nil, ErrNotFound
	}

	m.metrics.ObserveLookup(OperationFind, ResultHit)
	return entries[found], nil
}

// FindIn returns every mount strictly nested below p, in insertion order.
// The mount at p itself, if any, is not included.
func (m *Manager) FindIn(p string) ([]*Mount, error) {
	if err := m.ensureReady(); err != nil {
		m.metrics.ObserveLookup(OperationFindIn, ResultError)
		return nil, err
	}

	p = m.formatPath(p)

	var result []*Mount
	for _, key := range m.order {
		if len(key) > len(p) && strings.HasPrefix(key, p) {
			result = append(result, m.mounts[key])
		}
	}

	m.metrics.ObserveLookup(OperationFindIn, lookupResult(len(result)))
	return result, nil
}

func lookupResult(n int) string {
	if n == 0 {
		return ResultMiss
	}
	return ResultHit
}
