package cmd

import (
	"fmt"

	"github.com/crytic/selectors/selectors/config"
	"github.com/spf13/cobra"
)

// addExportFlags adds the various flags for the export command
func addExportFlags() error {
	// Get the default group config to describe defaults
	defaultGroup := config.GetDefaultSelectorGroupConfig()

	// Prevent alphabetical sorting of usage message
	exportCmd.Flags().SortFlags = false

	// Config file
	exportCmd.Flags().String("config", "", fmt.Sprintf("path to config file (default is %s in the working directory)", DefaultProjectConfigFilename))

	// Target
	exportCmd.Flags().String("target", "", TargetFlagDescription)

	// Output directory for every group
	exportCmd.Flags().String("group-output", "",
		fmt.Sprintf("directory every group writes its output file to (unless a config file sets it, default is %q)", defaultGroup.OutputPath))

	// Pretty / compact output
	exportCmd.Flags().Bool("pretty", false, "indent the output of every group")
	exportCmd.Flags().Bool("compact", false, "write the output of every group without indentation")
	exportCmd.MarkFlagsMutuallyExclusive("pretty", "compact")
	return nil
}

// updateProjectConfigWithExportFlags will update the given projectConfig with any CLI arguments that were provided to
// the export command
func updateProjectConfigWithExportFlags(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	var err error

	// Update target if necessary
	err = updateCompilationTarget(cmd, projectConfig)
	if err != nil {
		return err
	}

	// Update the output directory of every group
	if cmd.Flags().Changed("group-output") {
		outputPath, err := cmd.Flags().GetString("group-output")
		if err != nil {
			return err
		}
		for _, group := range projectConfig.FunctionSelectors {
			if group != nil {
				group.OutputPath = outputPath
			}
		}
	}

	// Update the indentation of every group
	for flagName, pretty := range map[string]bool{"pretty": true, "compact": false} {
		if !cmd.Flags().Changed(flagName) {
			continue
		}
		enabled, err := cmd.Flags().GetBool(flagName)
		if err != nil {
			return err
		}
		if !enabled {
			continue
		}
		for _, group := range projectConfig.FunctionSelectors {
			if group != nil {
				group.Pretty = pretty
			}
		}
	}
	return nil
}
