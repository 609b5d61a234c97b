package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/crytic/selectors/cmd/exitcodes"
	"github.com/crytic/selectors/selectors"
	"github.com/spf13/cobra"
)

// exportCmd represents the command provider for exporting function selectors
var exportCmd = &cobra.Command{
	Use:               "export",
	Short:             "Exports the function selectors of every configured group",
	Long:              `Exports the function selectors of every configured group from the project's existing build artifacts`,
	Args:              cmdValidateNoArgs,
	ValidArgsFunction: cmdValidFlagArgs,
	RunE:              cmdRunExport,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	// Add all the flags allowed for the export command
	err := addExportFlags()
	if err != nil {
		cmdLogger.Panic("Failed to initialize the export command", err)
	}

	// Add the export command and its associated flags to the root command
	rootCmd.AddCommand(exportCmd)
}

// cmdRunExport executes the CLI export command. The configuration is read and validated, the artifacts of the
// compilation platform are discovered and every group is exported.
func cmdRunExport(cmd *cobra.Command, args []string) error {
	projectConfig, _, err := readProjectConfig(cmd)
	if err != nil {
		cmdLogger.Error("Failed to run the export command", err)
		return exitcodes.NewHandledError(err)
	}

	// Update the project configuration given whatever flags were set using the CLI
	err = updateProjectConfigWithExportFlags(cmd, projectConfig)
	if err != nil {
		cmdLogger.Error("Failed to run the export command", err)
		return exitcodes.NewHandledError(err)
	}
	if err = projectConfig.Validate(); err != nil {
		cmdLogger.Error("Failed to run the export command", err)
		return exitcodes.NewHandledError(err)
	}

	logCloser := configureLogging(projectConfig)
	if logCloser != nil {
		defer logCloser.Close()
	}

	store, err := discoverArtifacts(projectConfig)
	if err != nil {
		cmdLogger.Error("Failed to run the export command", err)
		return exitcodes.NewHandledError(err)
	}

	// Stop reading artifacts on keyboard interrupts
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	engine := selectors.NewEngine(store)
	if _, err = engine.ExportGroups(ctx, projectConfig.FunctionSelectors); err != nil {
		cmdLogger.Error("Failed to run the export command", err)
		return exitcodes.NewHandledError(err)
	}
	return nil
}
