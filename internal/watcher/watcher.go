// Package watcher watches input files for changes with debouncing, driving
// the CLI's re-render-on-save and the preview server's live reload.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeHandler is called once per settled batch of file changes.
type ChangeHandler func(paths []string)

// FileWatcher watches files for changes with debouncing so editor
// write-then-rename sequences trigger a single rebuild.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu       sync.Mutex
	handlers []ChangeHandler
	pending  map[string]struct{}
	timer    *time.Timer
}

// New creates a watcher with the given debounce interval.
func New(debounce time.Duration) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: creating fsnotify watcher: %w", err)
	}
	return &FileWatcher{
		watcher:  w,
		debounce: debounce,
		pending:  make(map[string]struct{}),
	}, nil
}

// Add watches a file. The containing directory is watched so that
// rename-based saves keep being observed.
func (f *FileWatcher) Add(path string) error {
	dir := filepath.Dir(path)
	if err := f.watcher.Add(dir); err != nil {
		return fmt.Errorf("watcher: watching %s: %w", dir, err)
	}
	return nil
}

// OnChange registers a handler for settled change batches.
func (f *FileWatcher) OnChange(h ChangeHandler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers = append(f.handlers, h)
}

// Start processes events until the context is canceled.
func (f *FileWatcher) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			f.record(ev.Name)
		case _, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (f *FileWatcher) record(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending[path] = struct{}{}
	if f.timer != nil {
		f.timer.Stop()
	}
	f.timer = time.AfterFunc(f.debounce, f.flush)
}

func (f *FileWatcher) flush() {
	f.mu.Lock()
	paths := make([]string, 0, len(f.pending))
	for p := range f.pending {
		paths = append(paths, p)
	}
	f.pending = make(map[string]struct{})
	handlers := make([]ChangeHandler, len(f.handlers))
	copy(handlers, f.handlers)
	f.mu.Unlock()

	if len(paths) == 0 {
		return
	}
	for _, h := range handlers {
		h(paths)
	}
}

// Close stops the underlying fsnotify watcher.
func (f *FileWatcher) Close() error {
	return f.watcher.Close()
}
