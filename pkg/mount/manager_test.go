package mount

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMount(t *testing.T) {
	t.Run("Overwrite", func(t *testing.T) {
		mgr := NewManager()
		first := newMount(t, "local::/one/", "/a")
		second := newMount(t, "local::/two/", "/a/")

		mgr.AddMount(first)
		mgr.AddMount(second)

		assert.Equal(t, 1, mgr.Count())
		got, err := mgr.Find("/a")
		require.NoError(t, err)
		assert.Same(t, second, got)
	})

	t.Run("OverwriteKeepsPosition", func(t *testing.T) {
		mgr := NewManager()
		mgr.AddMount(newMount(t, "local::/a/", "/a"))
		mgr.AddMount(newMount(t, "local::/b/", "/b"))
		replacement := newMount(t, "local::/a2/", "/a")
		mgr.AddMount(replacement)

		list := mgr.List()
		assert.Equal(t, []string{"/a/", "/b/"}, mountPoints(list))
		assert.Same(t, replacement, list[0])
	})

	t.Run("NilIgnored", func(t *testing.T) {
		mgr := NewManager()
		mgr.AddMount(nil)
		assert.Zero(t, mgr.Count())
	})
}

func TestRemoveMount(t *testing.T) {
	mgr := NewManager()
	mgr.AddMount(newMount(t, "local::/", "/"))
	mgr.AddMount(newMount(t, "local::/a/", "/a"))

	mgr.RemoveMount("a")
	assert.Equal(t, 1, mgr.Count())
	assert.Equal(t, []string{"/"}, mountPoints(mgr.List()))

	// Removing again, or removing something that never existed, is a no-op.
	mgr.RemoveMount("/a/")
	mgr.RemoveMount("/nope")
	assert.Equal(t, 1, mgr.Count())

	mgr.RemoveMount("/")
	assert.Zero(t, mgr.Count())
	assert.Empty(t, mgr.List())
}

func TestMoveMount(t *testing.T) {
	t.Run("PreservesIdentity", func(t *testing.T) {
		mgr := NewManager()
		mnt := newMount(t, "local::/a/", "/a")
		mgr.AddMount(mnt)

		require.NoError(t, mgr.MoveMount("/a", "/b"))

		got, err := mgr.Find("/b/x")
		require.NoError(t, err)
		assert.Same(t, mnt, got)
		assert.Equal(t, "/b/", mnt.MountPoint())

		_, err = mgr.Find("/a/x")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NotContains(t, mgr.GetAll(), "/a/")
	})

	t.Run("OverwritesTarget", func(t *testing.T) {
		mgr := NewManager()
		src := newMount(t, "local::/a/", "/a")
		mgr.AddMount(newMount(t, "local::/b/", "/b"))
		mgr.AddMount(src)

		require.NoError(t, mgr.MoveMount("/a", "/b"))
		assert.Equal(t, 1, mgr.Count())

		got, err := mgr.Find("/b")
		require.NoError(t, err)
		assert.Same(t, src, got)
	})

	t.Run("NewTargetAppended", func(t *testing.T) {
		mgr := NewManager()
		mgr.AddMount(newMount(t, "local::/a/", "/a"))
		mgr.AddMount(newMount(t, "local::/b/", "/b"))

		require.NoError(t, mgr.MoveMount("/a", "/c"))
		assert.Equal(t, []string{"/b/", "/c/"}, mountPoints(mgr.List()))
	})

	t.Run("SamePathIsNoop", func(t *testing.T) {
		mgr := NewManager()
		mnt := newMount(t, "local::/a/", "/a")
		mgr.AddMount(mnt)

		require.NoError(t, mgr.MoveMount("/a", "a//"))
		assert.Equal(t, 1, mgr.Count())
		assert.Equal(t, "/a/", mnt.MountPoint())
	})

	t.Run("MissingSource", func(t *testing.T) {
		mgr := NewManager()
		mgr.AddMount(newMount(t, "local::/b/", "/b"))

		err := mgr.MoveMount("/a", "/b")
		assert.ErrorIs(t, err, ErrInvalidState)
		assert.Equal(t, 1, mgr.Count())
	})
}

func TestClear(t *testing.T) {
	mgr := NewManager()
	mgr.AddMount(newMount(t, "local::/", "/"))
	mgr.AddMount(newMount(t, "local::/a/", "/a"))

	mgr.Clear()
	mgr.Clear()

	assert.Zero(t, mgr.Count())
	assert.Empty(t, mgr.GetAll())

	// The table is usable after clearing.
	mgr.AddMount(newMount(t, "local::/b/", "/b"))
	assert.Equal(t, []string{"/b/"}, mountPoints(mgr.List()))
}

func TestGetAllIsSnapshot(t *testing.T) {
	mgr := NewManager()
	root := newMount(t, "local::/", "/")
	mgr.AddMount(root)

	all := mgr.GetAll()
	require.Len(t, all, 1)
	assert.Same(t, root, all["/"])

	delete(all, "/")
	assert.Equal(t, 1, mgr.Count())
}
