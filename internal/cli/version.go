package cli

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/docclient/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("docfetch version %s\n", version.GetFullVersion())
		},
	}
}
