package compilation

import (
	"fmt"

	"github.com/crytic/selectors/compilation/platforms"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// platformGenerators maps each supported platform identifier to a function creating its default configuration, which
// targets the working directory.
var platformGenerators = make(map[string]func() platforms.PlatformConfig)

func init() {
	registerPlatform(func() platforms.PlatformConfig { return platforms.NewHardhatCompilationConfig(".") })
	registerPlatform(func() platforms.PlatformConfig { return platforms.NewFoundryCompilationConfig(".") })
}

// registerPlatform adds a platform under the identifier its configuration reports. Identifiers must be unique.
func registerPlatform(generator func() platforms.PlatformConfig) {
	platform := generator().Platform()
	if _, exists := platformGenerators[platform]; exists {
		panic(fmt.Errorf("the compilation platform '%s' is registered with more than one provider", platform))
	}
	platformGenerators[platform] = generator
}

// GetSupportedCompilationPlatforms returns the sorted identifiers of every supported platform.
func GetSupportedCompilationPlatforms() []string {
	platformIds := maps.Keys(platformGenerators)
	slices.Sort(platformIds)
	return platformIds
}

// IsSupportedCompilationPlatform indicates whether a platform identifier is supported.
func IsSupportedCompilationPlatform(platform string) bool {
	_, ok := platformGenerators[platform]
	return ok
}

// GetDefaultPlatformConfig returns the default configuration of a supported platform.
func GetDefaultPlatformConfig(platform string) platforms.PlatformConfig {
	return platformGenerators[platform]()
}
