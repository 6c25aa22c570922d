package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/swatch/internal/build"
	"go.trai.ch/swatch/internal/ui/style"
)

func (c *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the application version",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "%s version %s (commit: %s, date: %s)\n",
				style.Header.Render("swatch"), build.Version, build.Commit, build.Date)
		},
	}
}
