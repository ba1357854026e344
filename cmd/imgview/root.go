package main

import (
	"io"
	"os"
	"strings"

	"imgview/internal/config"
	"imgview/internal/gui"
	"imgview/internal/log"

	"github.com/spf13/cobra"
)

var cfg *config.Config

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "imgview [directory]",
		Short: "A minimal image browser",
		Long: `imgview browses the PNG, JPEG, GIF and BMP images beneath a directory,
one at a time, scaled to fit the window.

Without a directory the window opens empty; use "Open Directory" to pick one.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			loadSettings(cmd.ErrOrStderr(), cmd.Name() == "tui")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return gui.StartGUI(cfg, initialDirectory(args))
		},
	}

	rootCmd.AddCommand(NewTUICmd())
	rootCmd.AddCommand(NewListCmd())

	return rootCmd
}

// loadSettings reads the config file and sets up logging. The terminal
// viewer owns the screen, so its log output only goes to the configured file.
func loadSettings(stderr io.Writer, quiet bool) {
	loaded, loadErr := config.LoadConfig()
	if loadErr != nil {
		loaded = config.New()
	}
	cfg = loaded

	opts := []log.Option{log.WithLevel(cfg.Log.Level), log.WithOutput(stderr)}
	if strings.EqualFold(cfg.Log.Format, "json") {
		opts = append(opts, log.WithJSON())
	}
	if quiet {
		opts = append(opts, log.WithOutput(io.Discard))
	}
	if cfg.Log.File != "" {
		opts = append(opts, log.WithFile(cfg.Log.File))
	}
	log.Configure(opts...)

	if loadErr != nil {
		log.LogWithFields(log.F("error", loadErr.Error())).Warn("Using default settings")
	}
}

// initialDirectory returns the positional argument when it names a
// directory. Anything else starts the viewer empty.
func initialDirectory(args []string) string {
	if len(args) == 0 {
		return ""
	}
	info, err := os.Stat(args[0])
	if err != nil || !info.IsDir() {
		log.LogWithFields(log.F("path", args[0])).Warn("Not a directory, starting empty")
		return ""
	}
	return args[0]
}
