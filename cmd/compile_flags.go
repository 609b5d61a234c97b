package cmd

import (
	"fmt"
)

// addCompileFlags adds the various flags for the compile command
func addCompileFlags() error {
	// Prevent alphabetical sorting of usage message
	compileCmd.Flags().SortFlags = false

	// Config file
	compileCmd.Flags().String("config", "", fmt.Sprintf("path to config file (default is %s in the working directory)", DefaultProjectConfigFilename))

	// Target
	compileCmd.Flags().String("target", "", TargetFlagDescription)

	// Coverage
	compileCmd.Flags().Bool("coverage", false,
		fmt.Sprintf("compile for coverage instrumentation and skip the export (also enabled by the %s environment variable)", CoverageEnvironmentVariable))
	return nil
}
