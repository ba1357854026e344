package main

import (
	"imgview/internal/tui"

	"github.com/spf13/cobra"
)

// NewTUICmd creates the terminal viewer command
func NewTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui [directory]",
		Short: "Browse images in the terminal",
		Long: `Browse images in the terminal. Pictures are drawn with coloured half
blocks and fitted to the terminal size.

Keys: ←/h previous, →/l next, o open directory, c copy path, q quit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(cfg, initialDirectory(args))
		},
	}
}
