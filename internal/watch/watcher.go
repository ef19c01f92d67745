// Package watch re-runs a handler when a file changes, coalescing
// bursts of filesystem events into one invocation.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/cerval-labs/cerval-cli/internal/logger"
)

// DefaultDebounce is the quiet window applied when none is configured.
const DefaultDebounce = 500 * time.Millisecond

// Handler is invoked after the watched file changed and the debounce
// window elapsed without further events.
type Handler func(ctx context.Context)

// Watcher observes a single file for changes.
type Watcher struct {
	debounce time.Duration
}

// New creates a watcher with the given debounce window.
func New(debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{debounce: debounce}
}

// Watch blocks until the context is cancelled, invoking fn after each
// settled burst of changes to path. The parent directory is watched
// rather than the file itself: editors often replace files on save,
// which would otherwise drop the watch.
func (w *Watcher) Watch(ctx context.Context, path string, fn Handler) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	logger.Debug("Watching %s (debounce %v)", abs, w.debounce)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("Change detected: %s", event.Op)
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.debounce)
			pending = true

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)

		case <-timer.C:
			pending = false
			fn(ctx)
		}
	}
}
