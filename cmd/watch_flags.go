package cmd

import (
	"fmt"
)

// addWatchFlags adds the various flags for the watch command
func addWatchFlags() error {
	// Prevent alphabetical sorting of usage message
	watchCmd.Flags().SortFlags = false

	// Config file
	watchCmd.Flags().String("config", "", fmt.Sprintf("path to config file (default is %s in the working directory)", DefaultProjectConfigFilename))

	// Target
	watchCmd.Flags().String("target", "", TargetFlagDescription)

	// Debounce delay
	watchCmd.Flags().Int("debounce", 500, "milliseconds without artifact changes to wait for before exporting")
	return nil
}
