package cmd

import "github.com/crytic/selectors/selectors/config"

// DefaultProjectConfigFilename describes the default config filename for a given project folder.
const DefaultProjectConfigFilename = config.DefaultConfigFileName

// DefaultCompilationPlatform describes the default compilation platform to use if one is not provided
const DefaultCompilationPlatform = "hardhat"

// CoverageEnvironmentVariable describes the environment variable set by coverage tooling while it compiles
// instrumented contracts.
const CoverageEnvironmentVariable = "SOLIDITY_COVERAGE"

// TargetFlagDescription describes the flag description for the target flag
const TargetFlagDescription = "target project directory to compile and read artifacts from"
