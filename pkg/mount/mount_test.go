package mount

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/vfsmount/pkg/catalog"
	"github.com/marmos91/vfsmount/pkg/catalog/memory"
	"github.com/marmos91/vfsmount/pkg/storageid"
)

func TestNew(t *testing.T) {
	t.Run("NormalizesMountPoint", func(t *testing.T) {
		m := newMount(t, "local::/srv/", "alice//files/./")
		assert.Equal(t, "/alice/files/", m.MountPoint())
	})

	t.Run("RootStaysRoot", func(t *testing.T) {
		m := newMount(t, "local::/srv/", "/")
		assert.Equal(t, "/", m.MountPoint())
	})

	t.Run("NilStorage", func(t *testing.T) {
		_, err := New(nil, "/a", nil)
		assert.ErrorIs(t, err, ErrNilStorage)
	})

	t.Run("ShortIDKept", func(t *testing.T) {
		m := newMount(t, "local::/srv/", "/")
		assert.Equal(t, "local::/srv/", m.StorageID())
		assert.Equal(t, fakeStorage("local::/srv/"), m.Storage())
	})

	t.Run("LongIDHashed", func(t *testing.T) {
		long := "amazon::" + strings.Repeat("b", 92)
		m := newMount(t, long, "/a")
		assert.Equal(t, storageid.Shorten(long), m.StorageID())
		assert.Len(t, m.StorageID(), 32)
	})
}

func TestOptions(t *testing.T) {
	opts := map[string]string{"read_only": "TRUE", "encoding": "utf8"}
	m, err := New(fakeStorage("local::/srv/"), "/a", opts)
	require.NoError(t, err)

	// Mutating the caller's map does not leak into the mount.
	opts["encoding"] = "latin1"
	v, ok := m.Option("encoding")
	assert.True(t, ok)
	assert.Equal(t, "utf8", v)

	// Nor does mutating the returned copy.
	copied := m.Options()
	copied["read_only"] = "false"
	assert.True(t, m.ReadOnly())

	_, ok = m.Option("missing")
	assert.False(t, ok)

	plain := newMount(t, "local::/srv/", "/b")
	assert.False(t, plain.ReadOnly())
	assert.Empty(t, plain.Options())
}

func TestInternalPath(t *testing.T) {
	m := newMount(t, "local::/srv/", "/alice/files")
	root := newMount(t, "local::/", "/")

	tests := []struct {
		name  string
		mount *Mount
		path  string
		want  string
	}{
		{"MountPointItself", m, "/alice/files", ""},
		{"MountPointWithSlash", m, "/alice/files/", ""},
		{"File", m, "/alice/files/report.pdf", "report.pdf"},
		{"Nested", m, "/alice/files/a/b/c.txt", "a/b/c.txt"},
		{"Unnormalized", m, "alice//files/./a/", "a"},
		{"Outside", m, "/bob/files/x", ""},
		{"SiblingPrefix", m, "/alice/filesystem", ""},
		{"RootMount", root, "/alice/x", "alice/x"},
		{"RootItself", root, "/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.mount.InternalPath(tt.path))
		})
	}
}

func TestMountNumericID(t *testing.T) {
	ctx := context.Background()
	cat := memory.New()
	defer cat.Close()

	long := "amazon::" + strings.Repeat("c", 100)
	id, err := cat.Register(ctx, long)
	require.NoError(t, err)

	m := newMount(t, long, "/a")
	got, err := m.NumericID(ctx, cat)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	unknown := newMount(t, "local::/nowhere/", "/b")
	_, err = unknown.NumericID(ctx, cat)
	assert.True(t, errors.Is(err, catalog.ErrStorageNotFound))
}
