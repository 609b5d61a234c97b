package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/crytic/selectors/cmd/exitcodes"
	"github.com/crytic/selectors/logging/colors"
	"github.com/crytic/selectors/selectors"
	"github.com/spf13/cobra"
)

// compileCmd represents the command provider for compiling a project and exporting selectors afterwards
var compileCmd = &cobra.Command{
	Use:               "compile",
	Short:             "Compiles the project, then exports the groups which run on compile",
	Long:              `Compiles the project with its compilation platform, then exports every group configured to run on compile unless coverage is running`,
	Args:              cmdValidateNoArgs,
	ValidArgsFunction: cmdValidFlagArgs,
	RunE:              cmdRunCompile,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	// Add all the flags allowed for the compile command
	err := addCompileFlags()
	if err != nil {
		cmdLogger.Panic("Failed to initialize the compile command", err)
	}

	// Add the compile command and its associated flags to the root command
	rootCmd.AddCommand(compileCmd)
}

// cmdRunCompile executes the CLI compile command
func cmdRunCompile(cmd *cobra.Command, args []string) error {
	projectConfig, _, err := readProjectConfig(cmd)
	if err != nil {
		cmdLogger.Error("Failed to run the compile command", err)
		return exitcodes.NewHandledError(err)
	}

	// Update the project configuration given whatever flags were set using the CLI
	err = updateCompilationTarget(cmd, projectConfig)
	if err != nil {
		cmdLogger.Error("Failed to run the compile command", err)
		return exitcodes.NewHandledError(err)
	}
	if err = projectConfig.Validate(); err != nil {
		cmdLogger.Error("Failed to run the compile command", err)
		return exitcodes.NewHandledError(err)
	}

	logCloser := configureLogging(projectConfig)
	if logCloser != nil {
		defer logCloser.Close()
	}

	coverageRunning, err := isCoverageRunning(cmd)
	if err != nil {
		cmdLogger.Error("Failed to run the compile command", err)
		return exitcodes.NewHandledError(err)
	}

	// Compile the project
	cmdLogger.Info("Compiling the project with ", colors.Bold, projectConfig.Compilation.Platform, colors.Reset)
	output, err := projectConfig.Compilation.Compile()
	if err != nil {
		cmdLogger.Error("Failed to run the compile command", err)
		return exitcodes.NewHandledError(err)
	}
	cmdLogger.Debug(output)
	cmdLogger.Info("Finished compiling the project")

	store, err := discoverArtifacts(projectConfig)
	if err != nil {
		cmdLogger.Error("Failed to run the compile command", err)
		return exitcodes.NewHandledError(err)
	}

	// Stop reading artifacts on keyboard interrupts
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	engine := selectors.NewEngine(store)
	if _, err = engine.ExportOnCompile(ctx, projectConfig.FunctionSelectors, coverageRunning); err != nil {
		cmdLogger.Error("Failed to run the compile command", err)
		return exitcodes.NewHandledError(err)
	}
	return nil
}
