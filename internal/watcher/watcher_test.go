package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(path, []byte("<p>a</p>"), 0o644))

	w, err := New(50 * time.Millisecond)
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Add(path))

	batches := make(chan []string, 4)
	w.OnChange(func(paths []string) { batches <- paths })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	// A burst of writes inside the debounce window settles to one batch.
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("<p>b</p>"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case paths := <-batches:
		assert.Contains(t, paths, path)
	case <-time.After(2 * time.Second):
		t.Fatal("no change batch before timeout")
	}

	select {
	case <-batches:
		t.Fatal("burst produced more than one batch")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherSeparateBatches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	w, err := New(20 * time.Millisecond)
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Add(path))

	batches := make(chan []string, 4)
	w.OnChange(func(paths []string) { batches <- paths })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	require.NoError(t, os.WriteFile(path, []byte("y"), 0o644))
	select {
	case <-batches:
	case <-time.After(2 * time.Second):
		t.Fatal("first batch not delivered")
	}

	require.NoError(t, os.WriteFile(path, []byte("z"), 0o644))
	select {
	case <-batches:
	case <-time.After(2 * time.Second):
		t.Fatal("second batch not delivered")
	}
}
