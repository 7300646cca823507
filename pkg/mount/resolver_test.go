package mount

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTable(t *testing.T, opts ...Option) (*Manager, map[string]*Mount) {
	t.Helper()
	mgr := NewManager(opts...)
	mounts := map[string]*Mount{
		"/":     newMount(t, "local::/root/", "/"),
		"/a/":   newMount(t, "local::/a/", "/a"),
		"/a/b/": newMount(t, "amazon::bucket", "/a/b"),
	}
	for _, key := range []string{"/", "/a/", "/a/b/"} {
		mgr.AddMount(mounts[key])
	}
	return mgr, mounts
}

func TestFind(t *testing.T) {
	mgr, mounts := newTable(t)

	tests := []struct {
		path string
		want string
	}{
		{"/a/b/c", "/a/b/"},
		{"/a/bc", "/a/"},
		{"/a", "/a/"},
		{"/a/", "/a/"},
		{"/a/b", "/a/b/"},
		{"/z", "/"},
		{"/", "/"},
		{"", "/"},
		{`\a\b\file.txt`, "/a/b/"},
		{"/a/b/../x", "/a/"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := mgr.Find(tt.path)
			require.NoError(t, err)
			assert.Same(t, mounts[tt.want], got)
		})
	}
}

func TestFindInsertionOrderIrrelevant(t *testing.T) {
	mgr := NewManager()
	deep := newMount(t, "local::/deep/", "/a/b")
	mgr.AddMount(deep)
	mgr.AddMount(newMount(t, "local::/a/", "/a"))
	mgr.AddMount(newMount(t, "local::/", "/"))

	got, err := mgr.Find("/a/b/c")
	require.NoError(t, err)
	assert.Same(t, deep, got)
}

func TestFindNotFound(t *testing.T) {
	t.Run("EmptyTable", func(t *testing.T) {
		mgr := NewManager()
		_, err := mgr.Find("/anything")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = mgr.Find("/")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("NoRoot", func(t *testing.T) {
		mgr := NewManager()
		mgr.AddMount(newMount(t, "local::/a/", "/a"))

		_, err := mgr.Find("/ab")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = mgr.Find("/")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestFindIn(t *testing.T) {
	mgr, _ := newTable(t)
	mgr.AddMount(newMount(t, "local::/c/", "/c"))

	tests := []struct {
		path string
		want []string
	}{
		{"/", []string{"/a/", "/a/b/", "/c/"}},
		{"/a", []string{"/a/b/"}},
		{"/a/", []string{"/a/b/"}},
		{"/a/b", nil},
		{"/c", nil},
		{"/missing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := mgr.FindIn(tt.path)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, mountPoints(got))
		})
	}

	t.Run("EmptyTable", func(t *testing.T) {
		got, err := NewManager().FindIn("/")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestFindNotifiesObservers(t *testing.T) {
	type call struct{ event, path string }
	var calls []call

	record := func(tag string) Observer {
		return ObserverFunc(func(event, path string) {
			calls = append(calls, call{tag + ":" + event, path})
		})
	}

	mgr, _ := newTable(t, WithObserver(record("first")), WithObserver(record("second")), WithObserver(nil))

	// Exact matches are announced too.
	_, err := mgr.Find("/a")
	require.NoError(t, err)
	_, err = NewManager(WithObserver(record("empty"))).Find("x/y/")
	require.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, []call{
		{"first:get_mountpoint", "/a/"},
		{"second:get_mountpoint", "/a/"},
		{"empty:get_mountpoint", "/x/y/"},
	}, calls)

	// FindIn is not announced.
	calls = nil
	_, err = mgr.FindIn("/")
	require.NoError(t, err)
	assert.Empty(t, calls)
}

func TestBootstrapRunsBeforeQueries(t *testing.T) {
	t.Run("RunsOnce", func(t *testing.T) {
		runs := 0
		var mgr *Manager
		mgr = NewManager(WithBootstrapper(Once(func() error {
			runs++
			mgr.AddMount(newMount(t, "local::/", "/"))
			return nil
		})))

		_, err := mgr.Find("/x")
		require.NoError(t, err)
		_, err = mgr.FindIn("/")
		require.NoError(t, err)
		_, err = mgr.FindByStorageID("local::/")
		require.NoError(t, err)

		assert.Equal(t, 1, runs)
	})

	t.Run("ErrorPropagates", func(t *testing.T) {
		boom := errors.New("setup failed")
		runs := 0
		mgr := NewManager(WithBootstrapper(Once(func() error {
			runs++
			return boom
		})))
		mgr.AddMount(newMount(t, "local::/", "/"))

		_, err := mgr.Find("/x")
		assert.ErrorIs(t, err, boom)
		_, err = mgr.FindIn("/")
		assert.ErrorIs(t, err, boom)
		_, err = mgr.FindByStorageID("local::/")
		assert.ErrorIs(t, err, boom)

		assert.Equal(t, 1, runs)
	})

	t.Run("BootstrapFuncRunsEveryTime", func(t *testing.T) {
		runs := 0
		mgr := NewManager(WithBootstrapper(BootstrapFunc(func() error {
			runs++
			return nil
		})))

		_, _ = mgr.Find("/")
		_, _ = mgr.Find("/")
		assert.Equal(t, 2, runs)
	})
}

func TestWithNormalizer(t *testing.T) {
	// A case-insensitive namespace: lookups fold to lower case.
	lower := NormalizerFunc(func(p string) string {
		return PathNormalizer{}.Normalize(strings.ToLower(p))
	})

	mgr := NewManager(WithNormalizer(lower), WithNormalizer(nil))
	mnt := newMount(t, "local::/docs/", "/docs")
	mgr.AddMount(mnt)

	got, err := mgr.Find("/DOCS/Readme.md")
	require.NoError(t, err)
	assert.Same(t, mnt, got)

	mgr.RemoveMount("/Docs")
	assert.Zero(t, mgr.Count())
}

func TestWithNormalizerRekeysMixedCaseMountPoint(t *testing.T) {
	lower := NormalizerFunc(func(p string) string {
		return PathNormalizer{}.Normalize(strings.ToLower(p))
	})

	mgr := NewManager(WithNormalizer(lower))
	mnt := newMount(t, "local::/docs/", "/Docs")
	mgr.AddMount(mnt)

	assert.Equal(t, "/docs/", mnt.MountPoint())
	assert.Contains(t, mgr.GetAll(), "/docs/")

	got, err := mgr.Find("/Docs/readme.md")
	require.NoError(t, err)
	assert.Same(t, mnt, got)

	got, err = mgr.Find("/Docs")
	require.NoError(t, err)
	assert.Same(t, mnt, got)

	// Re-adding under a differently cased path replaces the entry.
	again := newMount(t, "local::/docs2/", "/DOCS/")
	mgr.AddMount(again)
	assert.Equal(t, 1, mgr.Count())

	mgr.RemoveMount("/Docs")
	assert.Zero(t, mgr.Count())
}

func TestFindIgnoresObserverMutations(t *testing.T) {
	t.Run("AddDuringLookup", func(t *testing.T) {
		var mgr *Manager
		late := newMount(t, "local::/late/", "/late")
		mgr = NewManager(WithObserver(ObserverFunc(func(event, path string) {
			mgr.AddMount(late)
		})))

		_, err := mgr.Find("/late/x")
		require.ErrorIs(t, err, ErrNotFound)

		// The mutation is visible to the next query.
		got, err := mgr.Find("/late/x")
		require.NoError(t, err)
		assert.Same(t, late, got)
	})

	t.Run("RemoveDuringLookup", func(t *testing.T) {
		var mgr *Manager
		mgr = NewManager(WithObserver(ObserverFunc(func(event, path string) {
			mgr.Clear()
		})))
		root := newMount(t, "local::/root/", "/")
		nested := newMount(t, "local::/a/", "/a")
		mgr.AddMount(root)
		mgr.AddMount(nested)

		got, err := mgr.Find("/a/b")
		require.NoError(t, err)
		assert.Same(t, nested, got)

		mgr.AddMount(nested)
		got, err = mgr.Find("/a")
		require.NoError(t, err)
		assert.Same(t, nested, got)
	})

	t.Run("MoveDuringLookup", func(t *testing.T) {
		var mgr *Manager
		mgr = NewManager(WithObserver(ObserverFunc(func(event, path string) {
			_ = mgr.MoveMount("/a", "/z")
		})))
		nested := newMount(t, "local::/a/", "/a")
		mgr.AddMount(nested)

		got, err := mgr.Find("/a/b")
		require.NoError(t, err)
		assert.Same(t, nested, got)
		assert.Equal(t, "/z/", got.MountPoint())
	})
}
