//go:build nogui
// +build nogui

package gui

import (
	"imgview/internal/config"
	"imgview/internal/errors"
)

// ErrGUIUnavailable is returned by StartGUI in builds without a GUI.
var ErrGUIUnavailable = errors.New("GUI not available in this build, use 'imgview tui' instead")

// StartGUI is a stub implementation for builds with GUI disabled
func StartGUI(cfg *config.Config, initialDir string) error {
	return ErrGUIUnavailable
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return false
}
