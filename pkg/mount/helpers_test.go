package mount

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeStorage is a backend reference with a fixed identity.
type fakeStorage string

func (s fakeStorage) ID() string { return string(s) }

func newMount(t *testing.T, id, mountPoint string) *Mount {
	t.Helper()
	m, err := New(fakeStorage(id), mountPoint, nil)
	require.NoError(t, err)
	return m
}

func mountPoints(mounts []*Mount) []string {
	result := make([]string, 0, len(mounts))
	for _, m := range mounts {
		result = append(result, m.MountPoint())
	}
	return result
}
