package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_AppliesDefaultDebounce(t *testing.T) {
	w := New(0)
	assert.Equal(t, DefaultDebounce, w.debounce)
}

func TestWatch_InvokesHandlerAfterChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fired := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- New(20 * time.Millisecond).Watch(ctx, path, func(context.Context) {
			select {
			case fired <- struct{}{}:
			default:
			}
		})
	}()

	// Give the watcher time to register before touching the file.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(`{"id":"x"}`), 0o644))

	select {
	case <-fired:
	case <-ctx.Done():
		t.Fatal("handler was not invoked after file change")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatch_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := make(chan struct{}, 1)
	go func() {
		_ = New(20 * time.Millisecond).Watch(ctx, path, func(context.Context) {
			select {
			case fired <- struct{}{}:
			default:
			}
		})
	}()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644))

	select {
	case <-fired:
		t.Fatal("handler fired for an unrelated file")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatch_ReturnsOnCancelledContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(time.Millisecond).Watch(ctx, path, func(context.Context) {})

	assert.ErrorIs(t, err, context.Canceled)
}
