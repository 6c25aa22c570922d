package commands

import (
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove the generation manifest",
		Long:  "Remove the generation manifest so the next run regenerates every file. Declaration files are left in place.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return zerr.Wrap(err, "failed to determine working directory")
			}

			return c.app.Clean(cmd.Context(), cwd)
		},
	}
}
