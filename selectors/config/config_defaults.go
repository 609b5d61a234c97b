package config

import (
	"encoding/json"

	"github.com/crytic/selectors/compilation"
	"github.com/rs/zerolog"
)

// DefaultConfigFileName is the configuration file read when none is provided.
const DefaultConfigFileName = "selectors.config.json"

// CurrentConfigVersion is the configuration schema version written to new configuration files.
const CurrentConfigVersion = "1.0.0"

// GetDefaultSelectorGroupConfig obtains the configuration every function selector group is merged over.
func GetDefaultSelectorGroupConfig() *SelectorGroupConfig {
	return &SelectorGroupConfig{
		SeparateByContract:           false,
		OrderedByValue:               false,
		OutputPath:                   ".",
		OutputFilename:               "selectors.json",
		Pretty:                       true,
		RunOnCompile:                 true,
		IncludeParameterTypesInLabel: true,
		IncludePatterns:              []string{},
		ExcludePatterns:              []string{},
		SkipSelectors:                []string{},
		CollisionPolicy:              CollisionPolicyError,
		SelectorEncoding:             SelectorEncodingAbiEncoded,
		CompilerVersion:              "",
	}
}

// GetDefaultProjectConfig obtains a default configuration for a project. It populates a default compilation config
// based on the provided platform, or a nil one if an empty string is provided.
func GetDefaultProjectConfig(platform string) (*ProjectConfig, error) {
	var (
		compilationConfig *compilation.CompilationConfig
		err               error
	)
	if platform != "" {
		compilationConfig, err = compilation.NewCompilationConfig(platform)
		if err != nil {
			return nil, err
		}
	}

	// Create a project configuration
	projectConfig := &ProjectConfig{
		Version:           CurrentConfigVersion,
		FunctionSelectors: GroupConfigs{},
		Compilation:       compilationConfig,
		Logging: LoggingConfig{
			Level:        zerolog.InfoLevel,
			NoColor:      false,
			LogDirectory: "",
		},
	}

	// Return the project configuration
	return projectConfig, nil
}

// ExampleConfiguration returns a complete example configuration for a Hardhat project with one default group.
func ExampleConfiguration() string {
	projectConfig, err := GetDefaultProjectConfig("hardhat")
	if err != nil {
		return ""
	}
	projectConfig.FunctionSelectors = GroupConfigs{GetDefaultSelectorGroupConfig()}

	b, err := json.MarshalIndent(projectConfig, "", "\t")
	if err != nil {
		return ""
	}
	return string(b)
}
