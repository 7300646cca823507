package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/vfsmount/pkg/catalog"
	"github.com/marmos91/vfsmount/pkg/catalog/catalogtest"
	"github.com/marmos91/vfsmount/pkg/catalog/memory"
)

func TestConformance(t *testing.T) {
	catalogtest.RunConformanceSuite(t, func(t *testing.T) catalog.Catalog {
		return memory.New()
	})
}

func TestIDsAreNotReused(t *testing.T) {
	ctx := context.Background()
	c := memory.New()

	first, err := c.Register(ctx, "local::/a/")
	require.NoError(t, err)
	require.NoError(t, c.Remove(ctx, "local::/a/"))

	second, err := c.Register(ctx, "local::/a/")
	require.NoError(t, err)
	assert.Greater(t, second, first)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := memory.New().Register(ctx, "local::/a/")
	assert.ErrorIs(t, err, context.Canceled)
}
