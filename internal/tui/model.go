// Package tui is the terminal frontend of the viewer. Pictures are drawn
// with coloured half blocks, two pixel rows per terminal line.
package tui

import (
	"strings"
	"time"

	"imgview/internal/config"
	"imgview/internal/errors"
	"imgview/internal/log"
	"imgview/internal/navigator"
	"imgview/internal/render"
	"imgview/internal/tui/styles"
	"imgview/internal/tui/views"
	"imgview/internal/watch"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Terminal size assumed until the first tea.WindowSizeMsg arrives.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

// changedMsg reports a filesystem change from the watcher that owns source.
type changedMsg struct {
	change watch.Change
	source <-chan watch.Change
}

type Model struct {
	cfg        *config.Config
	controller *navigator.Controller
	frame      navigator.Frame

	keys    KeyMap
	actions navigator.Keymap
	help    help.Model
	prompt  textinput.Model

	// pickDone is set while the open prompt is active.
	pickDone func(path string)
	status   string

	width  int
	height int

	writeClipboard func(string) error

	watcher     *watch.Watcher
	watchedRoot string
	changes     <-chan watch.Change
}

// New creates the model. Extra controller options are applied after the
// defaults.
func New(cfg *config.Config, opts ...navigator.Option) *Model {
	if cfg == nil {
		cfg = config.New()
	}

	prompt := textinput.New()
	prompt.Prompt = styles.Theme.Prompt.Render("Directory: ")
	prompt.Placeholder = "/path/to/pictures"
	prompt.CharLimit = 4096
	prompt.Blur()

	m := &Model{
		cfg:            cfg,
		keys:           DefaultKeyMap,
		actions:        DefaultKeyMap.Actions(),
		help:           help.New(),
		prompt:         prompt,
		width:          defaultWidth,
		height:         defaultHeight,
		writeClipboard: writeSystemClipboard,
		frame:          navigator.Frame{Path: navigator.NoImage},
	}

	defaults := []navigator.Option{
		navigator.WithBounds(m.previewBounds()),
		navigator.WithPicker(m),
		navigator.WithClipboard(m),
	}
	m.controller = navigator.New(m, append(defaults, opts...)...)
	return m
}

// Load scans dir and shows its first image.
func (m *Model) Load(dir string) {
	m.controller.LoadDirectory(dir)
}

// Controller exposes the navigation controller driving this model.
func (m *Model) Controller() *navigator.Controller {
	return m.controller
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return m.syncWatcher()
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.controller.SetBounds(m.previewBounds())
		return m, nil

	case changedMsg:
		if msg.source != m.changes {
			return m, nil
		}
		log.LogWithFields(log.F("paths", len(msg.change.Paths))).Debug("Directory changed")
		m.controller.Rescan()
		return m, waitForChange(m.changes)

	case tea.KeyMsg:
		if m.pickDone != nil {
			return m.updatePrompt(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		m.controller.SetBounds(m.previewBounds())
		return m, nil
	}

	action := m.actions.Lookup(msg.String())
	switch action {
	case navigator.ActionNone:
		return m, nil
	case navigator.ActionQuit:
		m.Close()
		return m, tea.Quit
	case navigator.ActionOpen:
		m.status = ""
		m.controller.Dispatch(action)
		return m, textinput.Blink
	case navigator.ActionCopyPath:
		// SetContent reports the outcome through the status line.
		m.controller.Dispatch(action)
		return m, nil
	default:
		m.status = ""
		m.controller.Dispatch(action)
		return m, nil
	}
}

func (m *Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.finishPrompt("")
		m.Close()
		return m, tea.Quit
	case tea.KeyEsc:
		m.finishPrompt("")
		return m, nil
	case tea.KeyEnter:
		m.finishPrompt(strings.TrimSpace(m.prompt.Value()))
		return m, m.syncWatcher()
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) finishPrompt(path string) {
	done := m.pickDone
	m.pickDone = nil
	m.prompt.Blur()
	m.prompt.Reset()
	done(path)
}

// PickDirectory implements navigator.Picker by opening the path prompt.
// done runs once the prompt is confirmed or cancelled.
func (m *Model) PickDirectory(done func(path string)) {
	m.pickDone = done
	m.prompt.SetValue(m.controller.Root())
	m.prompt.CursorEnd()
	m.prompt.Focus()
}

// SetContent implements navigator.Clipboard on the system clipboard.
func (m *Model) SetContent(content string) {
	if err := m.writeClipboard(content); err != nil {
		log.LogWithError(err).Warn("Copy to clipboard failed")
		m.status = "Copy failed: " + err.Error()
		return
	}
	m.status = "Copied: " + content
}

func writeSystemClipboard(content string) error {
	if clipboard.Unsupported {
		return errors.ErrClipboard
	}
	if err := clipboard.WriteAll(content); err != nil {
		return errors.Wrap(err, errors.ErrClipboard.Error())
	}
	return nil
}

// Show implements navigator.Display.
func (m *Model) Show(f navigator.Frame) {
	m.frame = f
}

// View implements tea.Model
func (m *Model) View() string {
	return views.RenderMainView(m)
}

// Frame returns the frame on screen.
func (m *Model) Frame() navigator.Frame { return m.frame }

// Root returns the loaded directory.
func (m *Model) Root() string { return m.controller.Root() }

// Status returns the transient status line.
func (m *Model) Status() string { return m.status }

// Prompting reports whether the open prompt is active.
func (m *Model) Prompting() bool { return m.pickDone != nil }

func (m *Model) PromptView() string { return m.prompt.View() }

func (m *Model) HelpView() string { return m.help.View(m.keys) }

// previewBounds is the pixel area left for the picture by the terminal size.
func (m *Model) previewBounds() render.Bounds {
	helpLines := 1
	if m.help.ShowAll {
		helpLines = len(m.keys.FullHelp()[0])
	}
	rows := m.height - views.ChromeLines - helpLines + 1
	return render.Bounds{
		Width:  max(m.width-2, 1),
		Height: max(rows, 1) * 2,
	}
}

// syncWatcher moves the watcher to the loaded directory when watch mode is
// on. The returned command delivers the first change.
func (m *Model) syncWatcher() tea.Cmd {
	root := m.controller.Root()
	if !m.cfg.Watch.Enabled || root == "" || root == m.watchedRoot {
		return nil
	}
	m.stopWatching()
	m.watchedRoot = root

	w, err := watch.New(time.Duration(m.cfg.Watch.DebounceMS) * time.Millisecond)
	if err != nil {
		log.LogWithFields(log.F("error", err.Error())).Warn("Watch mode unavailable")
		return nil
	}
	if err := w.AddTree(root); err != nil {
		log.LogWithFields(log.F("root", root), log.F("error", err.Error())).Debug("Not watching root")
		w.Stop()
		return nil
	}
	if err := w.Start(); err != nil {
		log.LogWithFields(log.F("error", err.Error())).Warn("Watch mode unavailable")
		w.Stop()
		return nil
	}
	m.watcher = w
	m.changes = w.Changes()
	return waitForChange(m.changes)
}

func waitForChange(ch <-chan watch.Change) tea.Cmd {
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return changedMsg{change: c, source: ch}
	}
}

func (m *Model) stopWatching() {
	if m.watcher != nil {
		m.watcher.Stop()
		m.watcher = nil
	}
	m.changes = nil
}

// Close stops the directory watcher, if any.
func (m *Model) Close() {
	m.stopWatching()
	m.watchedRoot = ""
}

// Run starts the terminal viewer on initialDir and blocks until the user
// quits.
func Run(cfg *config.Config, initialDir string) error {
	m := New(cfg)
	if initialDir != "" {
		m.Load(initialDir)
	}
	defer m.Close()

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return errors.Wrap(err, "terminal viewer failed")
	}
	return nil
}
