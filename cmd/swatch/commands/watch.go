package commands

import (
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Regenerate declaration files as style sheets change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return zerr.Wrap(err, "failed to determine working directory")
			}

			return c.app.Watch(cmd.Context(), cwd)
		},
	}
}
