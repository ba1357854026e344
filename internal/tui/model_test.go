package tui

import (
	"path/filepath"
	"testing"
	"time"

	"imgview/internal/config"
	"imgview/internal/errors"
	"imgview/internal/navigator"
	"imgview/internal/watch"
	"imgview/pkg/testutils"

	alsrt "github.com/alecthomas/assert"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, names ...string) (*Model, string) {
	t.Helper()
	root := t.TempDir()
	testutils.CreateTree(t, root, names...)
	m := New(config.New())
	m.writeClipboard = func(string) error { return nil }
	return m, root
}

func send(m *Model, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func TestModelInitialization(t *testing.T) {
	m := New(nil)
	require.NotNil(t, m)
	assert.True(t, m.Frame().Empty())
	assert.Equal(t, navigator.NoImage, m.Controller().CurrentPath())
	assert.False(t, m.Prompting())
	assert.Nil(t, m.Init())

	b := m.Controller().Bounds()
	assert.Equal(t, defaultWidth-2, b.Width)
	assert.Equal(t, (defaultHeight-4)*2, b.Height)

	output := testutils.StripANSI(m.View())
	alsrt.Contains(t, output, "Image Viewer")
	alsrt.Contains(t, output, "Press o to open a directory")
}

func TestNavigationKeys(t *testing.T) {
	m, root := newTestModel(t, "a.png", "b.jpg", "sub/c.gif")
	m.Load(root)
	require.Equal(t, 3, m.Controller().Len())

	send(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, filepath.Join(root, "b.jpg"), m.Frame().Path)

	send(m, keyRunes("l"), keyRunes("l"), keyRunes("l"))
	assert.Equal(t, 2, m.Controller().Position(), "next saturates at the last image")
	assert.Equal(t, filepath.Join(root, "sub", "c.gif"), m.Frame().Path)

	send(m, keyRunes("h"), tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 0, m.Controller().Position(), "previous saturates at the first image")

	output := testutils.StripANSI(m.View())
	alsrt.Contains(t, output, "Image Viewer - a.png")
	alsrt.Contains(t, output, "1 / 3")
}

func TestQuit(t *testing.T) {
	for _, k := range []tea.KeyMsg{keyRunes("q"), {Type: tea.KeyCtrlC}, {Type: tea.KeyEsc}} {
		m := New(config.New())
		cmd := send(m, k)
		require.NotNil(t, cmd, k.String())
		assert.IsType(t, tea.QuitMsg{}, cmd(), k.String())
	}
}

func TestOpenPrompt(t *testing.T) {
	t.Run("confirm", func(t *testing.T) {
		m, root := newTestModel(t, "x.bmp")

		send(m, keyRunes("o"))
		require.True(t, m.Prompting())

		m.prompt.SetValue("  " + root + " ")
		send(m, tea.KeyMsg{Type: tea.KeyEnter})

		assert.False(t, m.Prompting())
		assert.Equal(t, root, m.Root())
		assert.Equal(t, filepath.Join(root, "x.bmp"), m.Frame().Path)
	})

	t.Run("typed", func(t *testing.T) {
		m, _ := newTestModel(t)
		dir := t.TempDir()

		send(m, keyRunes("o"))
		send(m, keyRunes(dir), tea.KeyMsg{Type: tea.KeyEnter})

		assert.Equal(t, dir, m.Root())
		alsrt.Contains(t, testutils.StripANSI(m.View()), "No images found in the directory")
	})

	t.Run("cancel keeps the current set", func(t *testing.T) {
		m, root := newTestModel(t, "a.png")
		m.Load(root)

		send(m, keyRunes("o"))
		send(m, keyRunes("zzz"), tea.KeyMsg{Type: tea.KeyEsc})

		assert.False(t, m.Prompting())
		assert.Equal(t, root, m.Root())
		assert.Equal(t, 1, m.Controller().Len())
	})

	t.Run("keys go to the prompt", func(t *testing.T) {
		m, root := newTestModel(t, "a.png", "b.png")
		m.Load(root)

		send(m, keyRunes("o"), keyRunes("l"), keyRunes("q"))

		assert.True(t, m.Prompting())
		assert.Equal(t, 0, m.Controller().Position())
		assert.Equal(t, root+"lq", m.prompt.Value())
	})
}

func TestCopyPath(t *testing.T) {
	t.Run("copied", func(t *testing.T) {
		m, root := newTestModel(t, "a.png")
		var got string
		m.writeClipboard = func(s string) error { got = s; return nil }
		m.Load(root)

		send(m, keyRunes("c"))

		want := filepath.Join(root, "a.png")
		assert.Equal(t, want, got)
		assert.Equal(t, "Copied: "+want, m.Status())
	})

	t.Run("empty set", func(t *testing.T) {
		m, root := newTestModel(t)
		called := false
		m.writeClipboard = func(string) error { called = true; return nil }
		m.Load(root)

		send(m, keyRunes("c"))

		assert.False(t, called)
		assert.Empty(t, m.Status())
	})

	t.Run("clipboard failure", func(t *testing.T) {
		m, root := newTestModel(t, "a.png")
		m.writeClipboard = func(string) error { return errors.ErrClipboard }
		m.Load(root)

		send(m, keyRunes("c"))

		assert.Equal(t, "Copy failed: clipboard unavailable", m.Status())
	})

	t.Run("status clears on navigation", func(t *testing.T) {
		m, root := newTestModel(t, "a.png", "b.png")
		m.Load(root)

		send(m, keyRunes("c"), keyRunes("l"))

		assert.Empty(t, m.Status())
	})
}

func TestWindowSize(t *testing.T) {
	m, root := newTestModel(t, "a.png")
	m.Load(root)

	send(m, tea.WindowSizeMsg{Width: 42, Height: 30})
	assert.Equal(t, 40, m.Controller().Bounds().Width)
	assert.Equal(t, 52, m.Controller().Bounds().Height)

	send(m, keyRunes("?"))
	assert.True(t, m.help.ShowAll)
	assert.Equal(t, 50, m.Controller().Bounds().Height)

	send(m, tea.WindowSizeMsg{Width: 1, Height: 1})
	assert.Equal(t, 1, m.Controller().Bounds().Width)
	assert.Equal(t, 2, m.Controller().Bounds().Height)
}

func TestWatchRescan(t *testing.T) {
	cfg := config.New()
	cfg.Watch.Enabled = true
	cfg.Watch.DebounceMS = 20

	root := t.TempDir()
	testutils.CreateTree(t, root, "a.png")
	m := New(cfg)
	m.Load(root)
	defer m.Close()

	cmd := m.Init()
	require.NotNil(t, cmd)

	testutils.WriteImage(t, filepath.Join(root, "b.png"), 2, 2)

	msgs := make(chan tea.Msg, 1)
	go func() { msgs <- cmd() }()

	select {
	case msg := <-msgs:
		require.IsType(t, changedMsg{}, msg)
		next := send(m, msg)
		assert.NotNil(t, next)
	case <-time.After(5 * time.Second):
		t.Fatal("no change delivered")
	}
	assert.Equal(t, testutils.Abs(root, "a.png", "b.png"), m.Controller().Images())

	stale := changedMsg{source: make(chan watch.Change)}
	assert.Nil(t, send(m, stale))
}
