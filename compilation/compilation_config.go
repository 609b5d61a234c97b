package compilation

import (
	"encoding/json"
	"fmt"

	"github.com/crytic/selectors/compilation/platforms"
	"github.com/crytic/selectors/compilation/types"
	"github.com/pkg/errors"
)

// CompilationConfig describes the configuration options used to compile a smart contract project and locate the
// artifacts it produces.
type CompilationConfig struct {
	// Platform references an identifier indicating which compilation platform to use.
	// PlatformConfig is a structure dependent on the defined Platform.
	Platform string `json:"platform"`

	// PlatformConfig describes the Platform-specific configuration needed to compile.
	PlatformConfig *json.RawMessage `json:"platformConfig"`
}

// NewCompilationConfig returns a CompilationConfig with default values for a given platform identifier.
// If an error occurs, it is returned instead.
func NewCompilationConfig(platform string) (*CompilationConfig, error) {
	// Verify the platform is valid
	if !IsSupportedCompilationPlatform(platform) {
		return nil, fmt.Errorf("could not get default compilation configs: platform '%s' is unsupported", platform)
	}

	// Switch on our platform to deserialize our platform compilation configs
	platformConfig := GetDefaultPlatformConfig(platform)
	return NewCompilationConfigFromPlatformConfig(platformConfig)
}

// NewCompilationConfigFromPlatformConfig takes a platforms.PlatformConfig and wraps it in a generic
// CompilationConfig. This allows many platform config types to be serialized/deserialized to their appropriate
// types and supported generally.
func NewCompilationConfigFromPlatformConfig(platformConfig platforms.PlatformConfig) (*CompilationConfig, error) {
	// Marshal our config to a raw message
	b, err := json.Marshal(platformConfig)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	platformConfigMsg := (*json.RawMessage)(&b)

	// Return the compilation configs containing our platform-specific configs
	return &CompilationConfig{Platform: platformConfig.Platform(), PlatformConfig: platformConfigMsg}, nil
}

// GetPlatformConfig deserializes the inner platform-specific configuration over the platform defaults.
func (c *CompilationConfig) GetPlatformConfig() (platforms.PlatformConfig, error) {
	// Verify the platform is valid
	if !IsSupportedCompilationPlatform(c.Platform) {
		return nil, fmt.Errorf("compilation platform '%s' is unsupported", c.Platform)
	}

	// Allocate a platform config given our platform string in our compilation config
	// It is necessary to do so as json.Unmarshal needs a concrete structure to populate
	platformConfig := GetDefaultPlatformConfig(c.Platform)
	if c.PlatformConfig != nil {
		err := json.Unmarshal(*c.PlatformConfig, platformConfig)
		if err != nil {
			return nil, errors.Wrapf(err, "could not parse the '%s' platform configuration", c.Platform)
		}
	}
	return platformConfig, nil
}

// SetTarget updates the target of the inner platform-specific configuration.
func (c *CompilationConfig) SetTarget(newTarget string) error {
	platformConfig, err := c.GetPlatformConfig()
	if err != nil {
		return err
	}
	platformConfig.SetTarget(newTarget)

	updated, err := NewCompilationConfigFromPlatformConfig(platformConfig)
	if err != nil {
		return err
	}
	c.PlatformConfig = updated.PlatformConfig
	return nil
}

// Compile deserializes the inner platforms.PlatformConfig and runs its build command. Command-line output is returned
// in either case.
func (c *CompilationConfig) Compile() (string, error) {
	platformConfig, err := c.GetPlatformConfig()
	if err != nil {
		return "", err
	}
	return platformConfig.Compile()
}

// Artifacts deserializes the inner platforms.PlatformConfig and discovers the artifacts it has produced.
func (c *CompilationConfig) Artifacts() (*types.ArtifactStore, error) {
	platformConfig, err := c.GetPlatformConfig()
	if err != nil {
		return nil, err
	}
	return platformConfig.Artifacts()
}
