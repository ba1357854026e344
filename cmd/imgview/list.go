package main

import (
	"fmt"

	"imgview/internal/errors"
	"imgview/internal/log"
	"imgview/internal/scan"

	"github.com/spf13/cobra"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [directory]",
		Short: "Print the images the viewer would browse",
		Long: `Print the images beneath a directory, one absolute path per line, in
the order the viewer shows them. Defaults to the current directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			images, err := scan.Directory(dir)
			if err != nil {
				if errors.IsDirectoryNotFound(err) || errors.KindOf(err) == errors.NotADirectory {
					return err
				}
				log.LogWithError(err).Warn("Scan incomplete")
			}

			out := cmd.OutOrStdout()
			for _, p := range images {
				fmt.Fprintln(out, p)
			}
			return nil
		},
	}
}
