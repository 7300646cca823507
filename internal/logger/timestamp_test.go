package logger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTimestamp(t *testing.T) {
	t.Run("TextLine", func(t *testing.T) {
		got := ParseTimestamp("[2024-01-15 10:30:45] [INFO] Mount added mount_point=/a/")
		want := time.Date(2024, 1, 15, 10, 30, 45, 0, time.Local)
		assert.True(t, want.Equal(got), "got %v", got)
	})

	t.Run("JSONLine", func(t *testing.T) {
		got := ParseTimestamp(`{"time":"2024-01-15T10:30:45.123Z","level":"INFO","msg":"Resolved"}`)
		want := time.Date(2024, 1, 15, 10, 30, 45, 123000000, time.UTC)
		assert.True(t, want.Equal(got), "got %v", got)
	})

	t.Run("NoTimestamp", func(t *testing.T) {
		assert.True(t, ParseTimestamp("panic: runtime error").IsZero())
		assert.True(t, ParseTimestamp("[short]").IsZero())
		assert.True(t, ParseTimestamp(`{"time":"yesterday"}`).IsZero())
	})
}
