package config

import (
	"fmt"
	"os"
	"path/filepath"

	"imgview/internal/errors"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration structure.
// It holds display bounds, window geometry, watch mode and logging settings.
type Config struct {
	Display struct {
		MaxWidth  int `yaml:"max_width"`  // Largest rendered width in pixels
		MaxHeight int `yaml:"max_height"` // Largest rendered height in pixels
	} `yaml:"display"`
	Window struct {
		Title  string `yaml:"title"`  // Base window title
		Width  int    `yaml:"width"`  // Initial window width
		Height int    `yaml:"height"` // Initial window height
	} `yaml:"window"`
	Watch struct {
		Enabled    bool `yaml:"enabled"`     // Rescan when the loaded tree changes
		DebounceMS int  `yaml:"debounce_ms"` // Quiet period before a rescan fires
	} `yaml:"watch"`
	Log struct {
		Level  string `yaml:"level"`  // debug, info, warn, error
		Format string `yaml:"format"` // text or json
		File   string `yaml:"file"`   // Optional log file
	} `yaml:"log"`
}

// DefaultPath returns ~/.config/imgview/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "imgview", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location
// (~/.config/imgview/config.yaml).
func LoadConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Unmarshal into a temporary config to preserve defaults for unset fields
	var tempCfg Config
	if err := yaml.Unmarshal(data, &tempCfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if tempCfg.Display.MaxWidth != 0 {
		cfg.Display.MaxWidth = tempCfg.Display.MaxWidth
	}
	if tempCfg.Display.MaxHeight != 0 {
		cfg.Display.MaxHeight = tempCfg.Display.MaxHeight
	}
	if tempCfg.Window.Title != "" {
		cfg.Window.Title = tempCfg.Window.Title
	}
	if tempCfg.Window.Width != 0 {
		cfg.Window.Width = tempCfg.Window.Width
	}
	if tempCfg.Window.Height != 0 {
		cfg.Window.Height = tempCfg.Window.Height
	}

	cfg.Watch.Enabled = tempCfg.Watch.Enabled
	if tempCfg.Watch.DebounceMS != 0 {
		cfg.Watch.DebounceMS = tempCfg.Watch.DebounceMS
	}

	if tempCfg.Log.Level != "" {
		cfg.Log.Level = tempCfg.Log.Level
	}
	if tempCfg.Log.Format != "" {
		cfg.Log.Format = tempCfg.Log.Format
	}
	cfg.Log.File = tempCfg.Log.File

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns the default configuration.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Display.MaxWidth = 800
	cfg.Display.MaxHeight = 600

	cfg.Window.Title = "Image Viewer"
	cfg.Window.Width = 1024
	cfg.Window.Height = 768

	cfg.Watch.Enabled = false
	cfg.Watch.DebounceMS = 250

	cfg.Log.Level = "info"
	cfg.Log.Format = "text"

	return cfg
}

// Validate checks if the configuration is valid.
// Returns a ConfigError naming the offending setting.
func (c *Config) Validate() error {
	if c == nil {
		return errors.NewConfigError("nil config", "", errors.InvalidConfig, nil)
	}

	checks := []struct {
		param string
		ok    bool
	}{
		{"display.max_width", c.Display.MaxWidth > 0},
		{"display.max_height", c.Display.MaxHeight > 0},
		{"window.width", c.Window.Width > 0},
		{"window.height", c.Window.Height > 0},
		{"watch.debounce_ms", c.Watch.DebounceMS >= 0},
		{"log.level", validLevels[c.Log.Level]},
		{"log.format", c.Log.Format == "text" || c.Log.Format == "json"},
	}
	for _, check := range checks {
		if !check.ok {
			return errors.NewConfigError("invalid setting", check.param, errors.InvalidConfig, nil)
		}
	}

	return nil
}

var validLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "warning": true, "error": true,
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}
