package logging

// These constants are used to identify the various services that may do some logging
const (
	// SELECTORS_SERVICE is the constant used to identify the selectors package
	SELECTORS_SERVICE = "selectors"
	// CLI_SERVICE is the constant used to identify the cmd package
	CLI_SERVICE = "cli"
)

const (
	// DefaultLogFileName is the name of the rotated structured log file kept in a configured log directory.
	DefaultLogFileName = "selectors.log"
)
