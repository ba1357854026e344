package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"imgview/pkg/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, root string) *Watcher {
	t.Helper()
	w, err := New(50 * time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.AddTree(root))
	require.NoError(t, w.Start())
	t.Cleanup(w.Stop)
	// Allow a brief moment for fsnotify to initialize watches
	time.Sleep(100 * time.Millisecond)
	return w
}

func waitChange(t *testing.T, w *Watcher) Change {
	t.Helper()
	select {
	case change, ok := <-w.Changes():
		require.True(t, ok, "change channel closed unexpectedly")
		return change
	case <-time.After(3 * time.Second):
		t.Fatal("Timeout waiting for change")
	}
	return Change{}
}

func expectQuiet(t *testing.T, w *Watcher) {
	t.Helper()
	select {
	case change := <-w.Changes():
		t.Fatalf("unexpected change: %+v", change)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherImageCreate(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	testutils.WriteImage(t, filepath.Join(root, "new.png"), 2, 2)

	change := waitChange(t, w)
	assert.Contains(t, change.Paths, filepath.Join(root, "new.png"))
	assert.False(t, change.Timestamp.IsZero())
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0644))
	expectQuiet(t, w)
}

func TestWatcherRemove(t *testing.T) {
	root := t.TempDir()
	testutils.CreateTree(t, root, "a.gif")
	w := startWatcher(t, root)

	require.NoError(t, os.Remove(filepath.Join(root, "a.gif")))
	change := waitChange(t, w)
	assert.Contains(t, change.Paths, filepath.Join(root, "a.gif"))
}

func TestWatcherNestedAndNewDirectories(t *testing.T) {
	root := t.TempDir()
	testutils.CreateTree(t, root, "sub/a.png")
	w := startWatcher(t, root)
	assert.ElementsMatch(t, []string{root, filepath.Join(root, "sub")}, w.Directories())

	testutils.WriteImage(t, filepath.Join(root, "sub", "b.png"), 2, 2)
	waitChange(t, w)

	fresh := filepath.Join(root, "fresh")
	require.NoError(t, os.Mkdir(fresh, 0755))
	waitChange(t, w)
	assert.Contains(t, w.Directories(), fresh)

	testutils.WriteImage(t, filepath.Join(fresh, "c.jpg"), 2, 2)
	change := waitChange(t, w)
	assert.Contains(t, change.Paths, filepath.Join(fresh, "c.jpg"))
}

func TestWatcherBurstIsDebounced(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	for _, name := range []string{"1.png", "2.png", "3.png"} {
		testutils.WriteImage(t, filepath.Join(root, name), 2, 2)
	}

	change := waitChange(t, w)
	assert.GreaterOrEqual(t, len(change.Paths), 3)
	expectQuiet(t, w)
}

func TestWatcherLifecycle(t *testing.T) {
	w, err := New(10 * time.Millisecond)
	require.NoError(t, err)

	assert.Error(t, w.AddTree(filepath.Join(t.TempDir(), "missing")))

	require.NoError(t, w.Start())
	assert.True(t, w.IsRunning())
	assert.Error(t, w.Start(), "already running")

	w.Stop()
	assert.False(t, w.IsRunning())
	assert.NotPanics(t, w.Stop)
	assert.Error(t, w.Start(), "no restart after stop")

	select {
	case _, ok := <-w.Changes():
		assert.False(t, ok, "channel closed after stop")
	case <-time.After(time.Second):
		t.Error("Timeout waiting for change channel to close after stop")
	}

	idle, err := New(time.Millisecond)
	require.NoError(t, err)
	assert.NotPanics(t, idle.Stop)
}
