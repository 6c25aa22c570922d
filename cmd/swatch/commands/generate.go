package commands

import (
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/swatch/internal/app"
	"go.trai.ch/zerr"
)

func (c *CLI) newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate declaration files for all matching style sheets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			force, _ := cmd.Flags().GetBool("force")

			cwd, err := os.Getwd()
			if err != nil {
				return zerr.Wrap(err, "failed to determine working directory")
			}

			return c.app.Generate(cmd.Context(), cwd, app.GenerateOptions{
				Force: force,
			})
		},
	}

	cmd.Flags().BoolP("force", "f", false, "Regenerate every file, ignoring the manifest")

	return cmd
}
