package tui

import (
	"imgview/internal/navigator"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the keybindings for the viewer
type KeyMap struct {
	Prev key.Binding
	Next key.Binding
	Open key.Binding
	Copy key.Binding
	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap is the keymap used by New.
var DefaultKeyMap = KeyMap{
	Prev: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "prev"),
	),
	Next: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "next"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open directory"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy path"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c", "esc"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Open, k.Quit, k.Help}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next},
		{k.Open, k.Copy},
		{k.Help, k.Quit},
	}
}

// Actions flattens the bindings into a navigator.Keymap keyed by the
// strings bubbletea reports for key presses.
func (k KeyMap) Actions() navigator.Keymap {
	km := navigator.Keymap{}
	bind := func(b key.Binding, a navigator.Action) {
		for _, name := range b.Keys() {
			km[name] = a
		}
	}
	bind(k.Prev, navigator.ActionPrevious)
	bind(k.Next, navigator.ActionNext)
	bind(k.Open, navigator.ActionOpen)
	bind(k.Copy, navigator.ActionCopyPath)
	bind(k.Quit, navigator.ActionQuit)
	return km
}
