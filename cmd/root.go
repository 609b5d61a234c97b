package cmd

import (
	"os"

	"github.com/crytic/selectors/logging"
	"github.com/crytic/selectors/version"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// cmdLogger is the logger used by every command to report progress and errors.
var cmdLogger = logging.NewLogger(zerolog.InfoLevel).NewSubLogger("module", logging.CLI_SERVICE)

var rootCmd = &cobra.Command{
	Use:     "selectors",
	Short:   "A function selector exporter for smart contract projects",
	Long:    "selectors extracts, filters, orders and writes the function selectors of compiled smart contracts",
	Version: version.GetInfo().Short(),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Values from a .env file in the working directory never override the real environment
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			cmdLogger.Warn("Failed to load the .env file", err)
		}
		return nil
	},
}

func init() {
	cmdLogger.AddWriter(os.Stdout, logging.UNSTRUCTURED, true)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
