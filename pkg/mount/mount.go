package mount

import (
	"context"
	"maps"
	"strings"

	"github.com/marmos91/vfsmount/pkg/storageid"
)

// Storage is the backend attached at a mount point.
//
// The registry only keeps a reference; opening, closing and health checking
// the backend are the caller's business.
type Storage interface {
	// ID returns the backend's string identity, e.g. "local::/srv/data/".
	ID() string
}

// NumericIDResolver maps a storage identity to its catalogued numeric id.
type NumericIDResolver interface {
	NumericID(ctx context.Context, storageID string) (int64, error)
}

// Mount binds a storage backend to a mount point in the logical namespace.
//
// A Mount keeps its identity for its whole life: MoveMount changes the key it
// is stored under (and its reported mount point), never the pointer.
type Mount struct {
	mountPoint string
	storage    Storage
	storageID  string
	options    map[string]string
}

// New creates a mount for storage at mountPoint.
//
// The mount point is normalized with DefaultNormalizer and terminated with a
// separator (root stays "/"). The storage id is read once from the backend
// and shortened with storageid.Shorten. Options are copied.
func New(storage Storage, mountPoint string, options map[string]string) (*Mount, error) {
	if storage == nil {
		return nil, ErrNilStorage
	}

	opts := make(map[string]string, len(options))
	maps.Copy(opts, options)

	return &Mount{
		mountPoint: FormatMountPoint(DefaultNormalizer, mountPoint),
		storage:    storage,
		storageID:  storageid.Shorten(storage.ID()),
		options:    opts,
	}, nil
}

// MountPoint returns the normalized mount point, e.g. "/" or "/alice/files/".
func (m *Mount) MountPoint() string {
	return m.mountPoint
}

// Storage returns the backend reference.
func (m *Mount) Storage() Storage {
	return m.storage
}

// StorageID returns the indexed storage identity (at most 64 characters).
func (m *Mount) StorageID() string {
	return m.storageID
}

// Options returns a copy of the mount options.
func (m *Mount) Options() map[string]string {
	opts := make(map[string]string, len(m.options))
	maps.Copy(opts, m.options)
	return opts
}

// Option returns a single mount option and whether it was set.
func (m *Mount) Option(name string) (string, bool) {
	v, ok := m.options[name]
	return v, ok
}

// ReadOnly reports whether the "read_only" option is "true".
func (m *Mount) ReadOnly() bool {
	return strings.EqualFold(m.options["read_only"], "true")
}

// NumericID resolves the numeric id of the mount's storage.
func (m *Mount) NumericID(ctx context.Context, r NumericIDResolver) (int64, error) {
	return r.NumericID(ctx, m.storageID)
}

// InternalPath returns p relative to the mount's storage root.
//
// The mount point itself maps to "". Paths outside the mount also map to "".
func (m *Mount) InternalPath(p string) string {
	p = DefaultNormalizer.Normalize(p)
	if p == m.mountPoint || p+"/" == m.mountPoint {
		return ""
	}
	if !strings.HasPrefix(p, m.mountPoint) {
		return ""
	}
	return p[len(m.mountPoint):]
}

func (m *Mount) setMountPoint(key string) {
	m.mountPoint = key
}
