package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/crytic/selectors/cmd/exitcodes"
	"github.com/crytic/selectors/compilation"
	"github.com/crytic/selectors/logging/colors"
	"github.com/crytic/selectors/selectors/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// supportedPlatforms caches the compilation platforms accepted by init, for argument validation and completion.
var supportedPlatforms = compilation.GetSupportedCompilationPlatforms()

// initCmd represents the command provider for init
var initCmd = &cobra.Command{
	Use:               "init [platform]",
	Short:             "Initializes a project configuration",
	Long:              `Initializes a project configuration with one function selector group using default settings`,
	Args:              cmdValidateInitArgs,
	ValidArgsFunction: cmdValidInitArgs,
	RunE:              cmdRunInit,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	// Add flags to init command
	err := addInitFlags()
	if err != nil {
		cmdLogger.Panic("Failed to initialize the init command", err)
	}

	// Add the init command and its associated flags to the root command
	rootCmd.AddCommand(initCmd)
}

// cmdValidInitArgs returns the unused flags and, when no platform was given yet, the supported platforms for completion
func cmdValidInitArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var suggestions []string
	flagUsed := false
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		if flag.Changed {
			flagUsed = true
			return
		}
		suggestions = append(suggestions, "--"+flag.Name)
	})

	// Once any flag is set, the platform argument can no longer follow
	if len(args) == 0 && !flagUsed {
		suggestions = append(suggestions, supportedPlatforms...)
	}
	return suggestions, cobra.ShellCompDirectiveNoFileComp
}

// cmdValidateInitArgs validates CLI arguments
func cmdValidateInitArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.RangeArgs(0, 1)(cmd, args); err != nil {
		err = fmt.Errorf("init accepts at most 1 platform argument (options: %s), the default platform is %v",
			strings.Join(supportedPlatforms, ", "), DefaultCompilationPlatform)
		cmdLogger.Error("Failed to validate args to the init command", err)
		return err
	}

	if len(args) == 1 && !compilation.IsSupportedCompilationPlatform(args[0]) {
		err := fmt.Errorf("init was provided invalid platform argument '%s' (options: %s)", args[0], strings.Join(supportedPlatforms, ", "))
		cmdLogger.Error("Failed to validate args to the init command", err)
		return err
	}
	return nil
}

// cmdRunInit executes the init CLI command, writing a default project configuration
func cmdRunInit(cmd *cobra.Command, args []string) error {
	outputPath, err := initOutputPath(cmd)
	if err != nil {
		cmdLogger.Error("Failed to run the init command", err)
		return exitcodes.NewHandledError(err)
	}

	platform := DefaultCompilationPlatform
	if len(args) == 1 {
		platform = args[0]
	}
	projectConfig, err := config.GetDefaultProjectConfig(platform)
	if err != nil {
		cmdLogger.Error("Failed to run the init command", err)
		return exitcodes.NewHandledError(err)
	}
	projectConfig.FunctionSelectors = config.GroupConfigs{config.GetDefaultSelectorGroupConfig()}

	err = updateCompilationTarget(cmd, projectConfig)
	if err != nil {
		cmdLogger.Error("Failed to run the init command", err)
		return exitcodes.NewHandledError(err)
	}

	if _, err = os.Stat(outputPath); err == nil {
		overwrite, err := confirmOverwrite(cmd)
		if err != nil {
			cmdLogger.Error("Failed to scan input", err)
			return exitcodes.NewHandledError(err)
		}
		if !overwrite {
			cmd.Println("Operation canceled.")
			return nil
		}
	}

	err = projectConfig.WriteToFile(outputPath)
	if err != nil {
		cmdLogger.Error("Failed to run the init command", err)
		return exitcodes.NewHandledError(err)
	}
	cmdLogger.Info("Project configuration successfully output to: ", colors.Bold, outputPath, colors.Reset)
	return nil
}

// initOutputPath resolves the --out flag, defaulting to the default configuration file in the working directory.
func initOutputPath(cmd *cobra.Command) (string, error) {
	outputPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return "", err
	}
	if !cmd.Flags().Changed("out") || outputPath == "" {
		outputPath = DefaultProjectConfigFilename
	}
	absolutePath, err := filepath.Abs(outputPath)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return absolutePath, nil
}

// confirmOverwrite asks whether an existing configuration file may be replaced.
func confirmOverwrite(cmd *cobra.Command) (bool, error) {
	cmd.Print("The file already exists. Overwrite? (y/n): ")
	var response string
	if _, err := fmt.Fscan(cmd.InOrStdin(), &response); err != nil {
		return false, errors.WithStack(err)
	}
	return response == "y" || response == "Y", nil
}
