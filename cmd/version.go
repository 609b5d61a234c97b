package cmd

import (
	"github.com/crytic/selectors/version"
	"github.com/spf13/cobra"
)

// versionCmd represents the version command that displays build information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and build information",
	Long: `Print the version and build information of selectors: the release version, the commit it was built from
and the Go version used to compile it.`,
	Args: cmdValidateNoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Print(version.GetInfo().String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
