// Package mount implements the mount registry of the virtual filesystem.
//
// A Manager maps normalized mount points ("/", "/alice/files/", ...) to
// storage backends and resolves arbitrary paths to the mount that owns them:
//
//	mgr := mount.NewManager(mount.WithTranslator(cat))
//	root, _ := mount.New(backend.NewLocal("/srv/data"), "/", nil)
//	mgr.AddMount(root)
//
//	m, err := mgr.Find("/alice/files/report.pdf")
//	if errors.Is(err, mount.ErrNotFound) {
//	    // path is outside every mount
//	}
//
// A Manager is scoped to a single session and has no internal locking.
// Callers sharing one between goroutines must serialize access themselves.
package mount

import (
	"fmt"
	"maps"
	"slices"

	"github.com/marmos91/vfsmount/internal/logger"
)

// Manager is the mount table plus its resolvers.
type Manager struct {
	mounts map[string]*Mount
	order  []string // keys in insertion order

	normalizer Normalizer
	bootstrap  Bootstrapper
	observers  []Observer
	translator Translator
	metrics    *Metrics
}

// Option configures a Manager.
type Option func(*Manager)

// WithNormalizer overrides the path normalizer used for lookups and keys.
func WithNormalizer(n Normalizer) Option {
	return func(m *Manager) {
		if n != nil {
			m.normalizer = n
		}
	}
}

// WithBootstrapper sets the environment setup run before every resolution query.
func WithBootstrapper(b Bootstrapper) Option {
	return func(m *Manager) {
		m.bootstrap = b
	}
}

// WithObserver registers a lookup observer. May be given more than once;
// observers are notified in registration order.
func WithObserver(o Observer) Option {
	return func(m *Manager) {
		if o != nil {
			m.observers = append(m.observers, o)
		}
	}
}

// WithTranslator sets the numeric storage id translator used by FindByNumericID.
func WithTranslator(t Translator) Option {
	return func(m *Manager) {
		m.translator = t
	}
}

// WithMetrics attaches Prometheus metrics. A nil value disables metrics.
func WithMetrics(metrics *Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// NewManager creates an empty mount table.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		mounts:     make(map[string]*Mount),
		normalizer: DefaultNormalizer,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// formatPath turns p into table key form.
func (m *Manager) formatPath(p string) string {
	return FormatMountPoint(m.normalizer, p)
}

// AddMount inserts mnt keyed by its own mount point, re-normalized with the
// manager's normalizer. An existing entry with the same key is replaced in
// place. A nil mount is ignored.
func (m *Manager) AddMount(mnt *Mount) {
	if mnt == nil {
		return
	}

	key := m.formatPath(mnt.MountPoint())
	mnt.setMountPoint(key)
	if _, exists := m.mounts[key]; !exists {
		m.order = append(m.order, key)
	}
	m.mounts[key] = mnt

	logger.Debug("Mount added",
		logger.KeyMountPoint, key,
		logger.KeyStorageID, mnt.StorageID())
	m.metrics.ObserveMutation(OperationAdd, len(m.mounts))
}

// RemoveMount deletes the mount at mountPoint. Removing an absent mount point
// is a no-op.
func (m *Manager) RemoveMount(mountPoint string) {
	key := m.formatPath(mountPoint)
	if _, exists := m.mounts[key]; !exists {
		return
	}

	m.delete(key)

	logger.Debug("Mount removed", logger.KeyMountPoint, key)
	m.metrics.ObserveMutation(OperationRemove, len(m.mounts))
}

// MoveMount re-keys the mount at source under target. The mount keeps its
// identity and reports target as its new mount point. An entry already at
// target is replaced.
//
// Returns an error wrapping ErrInvalidState if source has no entry.
func (m *Manager) MoveMount(source, target string) error {
	src := m.formatPath(source)
	dst := m.formatPath(target)

	mnt, exists := m.mounts[src]
	if !exists {
		return fmt.Errorf("%w: cannot move %q: no mount at source", ErrInvalidState, src)
	}
	if src == dst {
		return nil
	}

	m.delete(src)
	if _, exists := m.mounts[dst]; !exists {
		m.order = append(m.order, dst)
	}
	mnt.setMountPoint(dst)
	m.mounts[dst] = mnt

	logger.Debug("Mount moved",
		logger.KeyOldPath, src,
		logger.KeyNewPath, dst)
	m.metrics.ObserveMutation(OperationMove, len(m.mounts))
	return nil
}

// Clear discards every mount.
func (m *Manager) Clear() {
	m.mounts = make(map[string]*Mount)
	m.order = nil
	m.metrics.ObserveMutation(OperationClear, 0)
}

// GetAll returns a snapshot of the table keyed by mount point. Map iteration
// order is random; use List for insertion order.
func (m *Manager) GetAll() map[string]*Mount {
	return maps.Clone(m.mounts)
}

// List returns all mounts in insertion order.
func (m *Manager) List() []*Mount {
	result := make([]*Mount, 0, len(m.order))
	for _, key := range m.order {
		result = append(result, m.mounts[key])
	}
	return result
}

// Count returns the number of mounts in the table.
func (m *Manager) Count() int {
	return len(m.mounts)
}

func (m *Manager) delete(key string) {
	delete(m.mounts, key)
	if i := slices.Index(m.order, key); i >= 0 {
		m.order = slices.Delete(m.order, i, i+1)
	}
}

// EnsureReady runs the configured bootstrapper, if any. Resolution queries
// call it implicitly; callers that only read the table with List or GetAll
// call it first to see the configured mounts.
func (m *Manager) EnsureReady() error {
	return m.ensureReady()
}

func (m *Manager) ensureReady() error {
	if m.bootstrap == nil {
		return nil
	}
	if err := m.bootstrap.EnsureReady(); err != nil {
		return fmt.Errorf("failed to set up filesystem: %w", err)
	}
	return nil
}
