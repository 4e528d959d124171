package daemon

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fsnotifyEvent(name string) fsnotify.Event {
	return fsnotify.Event{Name: name, Op: fsnotify.Write}
}

func newTestWatcher(t *testing.T) (string, *Watcher) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "_drafts"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "_posts"), 0o755))

	w, err := NewWatcher(root, 50*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	w.Start(ctx)
	return root, w
}

func waitForChange(t *testing.T, w *Watcher) bool {
	t.Helper()
	select {
	case <-w.Changes():
		return true
	case <-time.After(3 * time.Second):
		return false
	}
}

func TestWatcherDraftChange(t *testing.T) {
	root, w := newTestWatcher(t)

	require.NoError(t, os.WriteFile(filepath.Join(root, "_drafts", "new.md"), []byte("---\ntitle: X\n---\n"), 0o644))
	assert.True(t, waitForChange(t, w), "expected a change signal for a new draft")
}

func TestWatcherConfigChange(t *testing.T) {
	root, w := newTestWatcher(t)

	require.NoError(t, os.WriteFile(filepath.Join(root, "_config.yml"), []byte("name: X\n"), 0o644))
	assert.True(t, waitForChange(t, w), "expected a change signal for the config file")
}

func TestWatcherDebouncesBursts(t *testing.T) {
	root, w := newTestWatcher(t)

	for i := range 5 {
		require.NoError(t, os.WriteFile(
			filepath.Join(root, "_drafts", "burst.md"),
			[]byte("---\ntitle: X\n---\n"+string(rune('a'+i))), 0o644))
		time.Sleep(5 * time.Millisecond)
	}

	require.True(t, waitForChange(t, w))

	// The burst settled into one batch; no second signal follows.
	select {
	case <-w.Changes():
		t.Fatal("burst produced more than one change signal")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	root, w := newTestWatcher(t)

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "_drafts", ".hidden.md"), []byte("x"), 0o644))

	select {
	case <-w.Changes():
		t.Fatal("unrelated files should not trigger a change")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestRelevant(t *testing.T) {
	root := t.TempDir()
	w := &Watcher{root: root}

	rel := func(p string) bool {
		return w.relevant(fsnotifyEvent(filepath.Join(root, p)))
	}

	assert.True(t, rel("_config.yml"))
	assert.True(t, rel("_drafts/post.md"))
	assert.True(t, rel("_posts/2024-01-01-x.markdown"))
	assert.False(t, rel("_drafts/.swap.md"))
	assert.False(t, rel("_drafts/file.txt"))
	assert.False(t, rel("README.md"))
	assert.False(t, rel("assets/style.css"))
}
