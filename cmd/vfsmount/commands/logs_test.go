package commands

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = `[2024-01-15 10:00:00] [INFO] Mount table ready count=2
[2024-01-15 10:05:00] [INFO] API server listening port=8080
goroutine trace without timestamp
[2024-01-15 10:10:00] [WARN] Lookup failed path=/missing
`

func TestTailLines(t *testing.T) {
	t.Run("LastN", func(t *testing.T) {
		lines, err := tailLines(strings.NewReader(sampleLog), 2, time.Time{})
		require.NoError(t, err)
		assert.Equal(t, []string{
			"goroutine trace without timestamp",
			"[2024-01-15 10:10:00] [WARN] Lookup failed path=/missing",
		}, lines)
	})

	t.Run("Since", func(t *testing.T) {
		since := time.Date(2024, 1, 15, 10, 5, 0, 0, time.Local)
		lines, err := tailLines(strings.NewReader(sampleLog), 100, since)
		require.NoError(t, err)
		assert.Len(t, lines, 3)
		assert.Contains(t, lines[0], "API server listening")
	})

	t.Run("Zero", func(t *testing.T) {
		lines, err := tailLines(strings.NewReader(sampleLog), 0, time.Time{})
		require.NoError(t, err)
		assert.Empty(t, lines)
	})
}

func writeLogConfig(t *testing.T, output string) string {
	t.Helper()

	dir := t.TempDir()
	content := fmt.Sprintf(`logging:
  level: INFO
  output: %q
catalog:
  type: memory
mounts: []
`, output)

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLogsCommand(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "vfsmount.log")
	require.NoError(t, os.WriteFile(logFile, []byte(sampleLog), 0600))
	cfg := writeLogConfig(t, logFile)

	out, err := run(t, "logs", "-n", "1", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "[2024-01-15 10:10:00] [WARN] Lookup failed path=/missing\n", out)

	_, err = run(t, "logs", "--since", "yesterday", "--config", cfg)
	assert.ErrorContains(t, err, "RFC3339")
}

func TestLogsCommandWithoutFile(t *testing.T) {
	_, err := run(t, "logs", "--config", writeLogConfig(t, "stderr"))
	assert.ErrorContains(t, err, "not a file")

	missing := filepath.Join(t.TempDir(), "never-written.log")
	_, err = run(t, "logs", "--config", writeLogConfig(t, missing))
	assert.ErrorContains(t, err, "log file not found")
}

// syncBuffer is a bytes.Buffer safe for one writer and one reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestFollowLogs(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "vfsmount.log")
	require.NoError(t, os.WriteFile(logFile, []byte(sampleLog), 0600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out syncBuffer
	done := make(chan error, 1)
	go func() {
		done <- followLogs(ctx, &out, logFile, 1, time.Time{})
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Lookup failed")
	}, 5*time.Second, 10*time.Millisecond)

	f, err := os.OpenFile(logFile, os.O_APPEND|os.O_WRONLY, 0600)
	require.NoError(t, err)
	_, err = f.WriteString("[2024-01-15 10:15:00] [INFO] Mount ")
	require.NoError(t, err)
	_, err = f.WriteString("added mount_point=/b/\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "[INFO] Mount added mount_point=/b/\n")
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("followLogs did not stop after cancel")
	}
	assert.NotContains(t, out.String(), "API server listening")
}
