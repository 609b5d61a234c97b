package exitcodes

const (
	// ================================
	// Platform-universal exit codes
	// ================================

	// ExitCodeSuccess indicates no errors or failures had occurred.
	ExitCodeSuccess = 0

	// ExitCodeGeneralError indicates some type of general error occurred.
	ExitCodeGeneralError = 1

	// ================================
	// Application-specific exit codes
	// ================================
	// Note: Despite not being standardized, exit codes 2-5 are often used for common use cases, so we avoid them.

	// ExitCodeConfigurationError indicates the project configuration was missing or invalid.
	ExitCodeConfigurationError = 6

	// ExitCodeArtifactReadError indicates a contract artifact could not be located or parsed.
	ExitCodeArtifactReadError = 7

	// ExitCodeWriteError indicates an output file could not be written.
	ExitCodeWriteError = 8

	// ExitCodeCollisionError indicates two different functions claimed the same selector.
	ExitCodeCollisionError = 9
)
