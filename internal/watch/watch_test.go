package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leapstack-labs/macroscope/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresFiles(t *testing.T) {
	_, err := New(nil, Options{})
	assert.Error(t, err)
}

func TestNew_Defaults(t *testing.T) {
	w, err := New([]string{"main.rs"}, Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, w.debounce)
	assert.NotNil(t, w.logger)
	assert.Len(t, w.files, 1)
}

func TestWatcher_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "main.rs")
	other := filepath.Join(dir, "other.rs")
	require.NoError(t, os.WriteFile(target, []byte("a!();"), 0o600))

	w, err := New([]string{target}, Options{Debounce: 50 * time.Millisecond, Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	changed := make(chan string, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(path string) {
			calls.Add(1)
			changed <- path
		})
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o600))
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(target, []byte("b!();"), 0o600))
	}

	select {
	case path := <-changed:
		want, _ := filepath.Abs(target)
		assert.Equal(t, want, path)
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w, err := New([]string{filepath.Join(t.TempDir(), "nope", "main.rs")}, Options{})
	require.NoError(t, err)
	assert.Error(t, w.Run(context.Background(), func(string) {}))
}
