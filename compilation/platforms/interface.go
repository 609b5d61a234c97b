package platforms

import "github.com/crytic/selectors/compilation/types"

// PlatformConfig describes the interface all compilation platform configs must implement.
type PlatformConfig interface {
	// Platform returns the unique identifier of the platform.
	Platform() string

	// GetTarget returns the project directory the platform operates in.
	GetTarget() string

	// SetTarget sets the project directory the platform operates in.
	SetTarget(string)

	// Compile runs the platform's build command, returning its combined output.
	Compile() (string, error)

	// ArtifactsDirectory returns the directory the platform writes its contract artifacts to.
	ArtifactsDirectory() string

	// Artifacts discovers the contract artifacts currently present in ArtifactsDirectory.
	Artifacts() (*types.ArtifactStore, error)
}
