package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver"
	"github.com/crytic/selectors/compilation"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// supportedConfigVersions describes the configuration schema versions this build understands.
const supportedConfigVersions = "^1.0.0"

// ProjectConfig describes the configuration of a project: how it is compiled and which selector files it exports.
type ProjectConfig struct {
	// Version describes the configuration schema version. An empty version is treated as the current one.
	Version string `json:"version,omitempty"`

	// FunctionSelectors describes every function selector group to export.
	FunctionSelectors GroupConfigs `json:"functionSelectors"`

	// Compilation describes the configuration used to compile the project and locate its artifacts.
	Compilation *compilation.CompilationConfig `json:"compilation"`

	// Logging describes the configuration used for logging to file and console
	Logging LoggingConfig `json:"logging"`
}

// LoggingConfig describes the configuration options used for logging
type LoggingConfig struct {
	// Level describes whether logs of certain severity levels (eg info, warning, etc.) will be emitted or discarded.
	// Increasing level values represent more severe logs
	Level zerolog.Level `json:"level"`

	// NoColor describes whether console output is left uncolored
	NoColor bool `json:"noColor"`

	// LogDirectory describes the directory where structured log _files_ will be outputted. If the string is empty, then
	// no log files are kept
	LogDirectory string `json:"logDirectory"`
}

// isYamlPath indicates whether a configuration path should be treated as YAML.
func isYamlPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// ReadProjectConfigFromFile reads a JSON or YAML-serialized ProjectConfig from a provided file path. A missing file is
// reported as a *ConfigurationError carrying an example configuration.
// Returns the ProjectConfig if it succeeds, or an error if one occurs.
func ReadProjectConfigFromFile(path string) (*ProjectConfig, error) {
	// Read our project configuration file data
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewMissingConfigurationError(path)
		}
		return nil, errors.WithStack(err)
	}

	// YAML documents are converted to JSON so both formats share the same decoding and defaults
	if isYamlPath(path) {
		var document map[string]any
		if err = yaml.Unmarshal(b, &document); err != nil {
			return nil, newGroupError(ProjectScope, "", path, errors.WithStack(err))
		}
		if b, err = json.Marshal(document); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	// Parse the project configuration
	projectConfig, err := GetDefaultProjectConfig("")
	if err != nil {
		return nil, err
	}
	err = json.Unmarshal(b, projectConfig)
	if err != nil {
		return nil, newGroupError(ProjectScope, "", path, errors.WithStack(err))
	}

	return projectConfig, nil
}

// WriteToFile writes the ProjectConfig to a provided file path, in YAML if the path has a YAML extension and in JSON
// otherwise.
// Returns an error if one occurs.
func (p *ProjectConfig) WriteToFile(path string) error {
	// Serialize the configuration
	b, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return errors.WithStack(err)
	}

	if isYamlPath(path) {
		var document map[string]any
		if err = json.Unmarshal(b, &document); err != nil {
			return errors.WithStack(err)
		}
		if b, err = yaml.Marshal(document); err != nil {
			return errors.WithStack(err)
		}
	}

	// Save it to the provided output path and return the result
	err = os.WriteFile(path, b, 0644)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// Validate validates that the ProjectConfig meets certain requirements. Every returned error is a
// *ConfigurationError.
func (p *ProjectConfig) Validate() error {
	// Verify the configuration schema is one we understand
	if p.Version != "" {
		version, err := semver.NewVersion(p.Version)
		if err != nil {
			return newGroupError(ProjectScope, "version", p.Version, errors.WithStack(err))
		}
		constraint, err := semver.NewConstraint(supportedConfigVersions)
		if err != nil {
			return errors.WithStack(err)
		}
		if !constraint.Check(version) {
			return newGroupError(ProjectScope, "version", p.Version, errors.Errorf("supported versions are '%s'", supportedConfigVersions))
		}
	}

	// Verify the compilation platform is one we support
	if p.Compilation == nil {
		return newGroupError(ProjectScope, "compilation", "", errors.New("a compilation configuration is required"))
	}
	if !compilation.IsSupportedCompilationPlatform(p.Compilation.Platform) {
		return newGroupError(ProjectScope, "compilation.platform", p.Compilation.Platform,
			errors.Errorf("supported platforms are %v", compilation.GetSupportedCompilationPlatforms()))
	}
	if _, err := p.Compilation.GetPlatformConfig(); err != nil {
		return newGroupError(ProjectScope, "compilation.platformConfig", "", err)
	}

	return p.FunctionSelectors.Validate()
}

// NewMissingConfigurationError creates the *ConfigurationError raised when no configuration exists at the provided
// path. Its message carries an example configuration.
func NewMissingConfigurationError(path string) *ConfigurationError {
	return &ConfigurationError{
		Group: ProjectScope,
		Value: path,
		Err:   errors.Errorf("no configuration was found, create one (or run 'selectors init') such as:\n%s", ExampleConfiguration()),
	}
}
