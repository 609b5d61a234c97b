package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/crytic/selectors/compilation/types"
	"github.com/crytic/selectors/logging"
	"github.com/crytic/selectors/logging/colors"
	"github.com/crytic/selectors/selectors"
	"github.com/crytic/selectors/selectors/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// cmdValidFlagArgs will return which flags are valid for dynamic completion for a command taking no positional
// arguments
func cmdValidFlagArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	// Gather a list of flags that are available to be used in the current command but have not been used yet
	var unusedFlags []string

	// Examine all the flags, and add any flags that have not been set in the current command line
	// to a list of unused flags
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		if !flag.Changed {
			unusedFlags = append(unusedFlags, "--"+flag.Name)
		}
	})
	return unusedFlags, cobra.ShellCompDirectiveNoFileComp
}

// cmdValidateNoArgs makes sure that there are no positional arguments provided to a command
func cmdValidateNoArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		err = fmt.Errorf("%s does not accept any positional arguments, only flags and their associated values", cmd.Name())
		cmdLogger.Error("Failed to validate args to the ", cmd.Name(), " command", err)
		return err
	}
	return nil
}

// updateCompilationTarget will update the compilation target in the projectConfig if the --target flag is used in the
// command
func updateCompilationTarget(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	// If --target was used
	if cmd.Flags().Changed("target") {
		// Get the new target
		newTarget, err := cmd.Flags().GetString("target")
		if err != nil {
			return err
		}

		// A target may only be set on an existing compilation config
		if projectConfig.Compilation == nil {
			return &config.ConfigurationError{Group: config.ProjectScope, Field: "compilation", Err: fmt.Errorf("--target requires a compilation configuration")}
		}
		return projectConfig.Compilation.SetTarget(newTarget)
	}
	return nil
}

// readProjectConfig resolves the configuration file from the --config flag, or the default file in the working
// directory, and reads it. The working directory is then changed to the directory of the configuration file, since
// paths in the configuration are relative to it. The absolute configuration path is returned along with the config.
func readProjectConfig(cmd *cobra.Command) (*config.ProjectConfig, string, error) {
	// Check to see if --config flag was used and store the value of --config flag
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, "", err
	}
	if configPath == "" {
		workingDirectory, err := os.Getwd()
		if err != nil {
			return nil, "", err
		}
		configPath = filepath.Join(workingDirectory, DefaultProjectConfigFilename)
	}
	if absolutePath, err := filepath.Abs(configPath); err == nil {
		configPath = absolutePath
	}

	cmdLogger.Info("Reading the configuration file at: ", colors.Bold, configPath, colors.Reset)
	projectConfig, err := config.ReadProjectConfigFromFile(configPath)
	if err != nil {
		return nil, "", err
	}

	// Change our working directory to the parent directory of the project configuration file
	err = os.Chdir(filepath.Dir(configPath))
	if err != nil {
		return nil, "", err
	}
	return projectConfig, configPath, nil
}

// configureLogging sets up the global logger as the project configuration describes. The returned closer must be
// closed once the command is done, it is nil when no log file is kept.
func configureLogging(projectConfig *config.ProjectConfig) io.Closer {
	if projectConfig.Logging.NoColor {
		colors.DisableColor()
	}
	cmdLogger.SetLevel(projectConfig.Logging.Level)

	logging.GlobalLogger = logging.NewLogger(projectConfig.Logging.Level)
	logging.GlobalLogger.AddWriter(os.Stdout, logging.UNSTRUCTURED, !projectConfig.Logging.NoColor)
	if projectConfig.Logging.LogDirectory != "" {
		return logging.GlobalLogger.AddFileWriter(projectConfig.Logging.LogDirectory)
	}
	return nil
}

// discoverArtifacts indexes the artifacts of the configured compilation platform. Failures are reported as a
// *selectors.ArtifactReadError.
func discoverArtifacts(projectConfig *config.ProjectConfig) (*types.ArtifactStore, error) {
	store, err := projectConfig.Compilation.Artifacts()
	if err != nil {
		return nil, &selectors.ArtifactReadError{Err: err}
	}
	cmdLogger.Debug("Discovered ", store.Len(), " contract artifacts")
	return store, nil
}

// isCoverageRunning indicates whether contracts are being compiled for coverage instrumentation, either because the
// --coverage flag was set or because the coverage environment variable is truthy.
func isCoverageRunning(cmd *cobra.Command) (bool, error) {
	coverage, err := cmd.Flags().GetBool("coverage")
	if err != nil {
		return false, err
	}
	if coverage {
		return true, nil
	}
	return isTruthy(os.Getenv(CoverageEnvironmentVariable)), nil
}

// isTruthy interprets an environment variable value as a boolean. Unset, empty and false-like values are false, and
// any other value is true.
func isTruthy(value string) bool {
	if value == "" {
		return false
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return true
	}
	return parsed
}
