package platforms

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/crytic/selectors/compilation/types"
	"github.com/crytic/selectors/utils"
	"github.com/pkg/errors"
)

// HardhatCompilationConfig describes the configuration used to compile a Hardhat project and locate its artifacts.
type HardhatCompilationConfig struct {
	// Target describes the Hardhat project directory.
	Target string `json:"target"`

	// UseNpx describes whether the build command should be run through npx.
	UseNpx bool `json:"useNpx"`

	// Command describes an override for the base command, which defaults to "hardhat".
	Command string `json:"command,omitempty"`

	// Args describes additional arguments provided to the compile command.
	Args []string `json:"args,omitempty"`

	// ArtifactsDir describes the artifacts directory, relative to Target unless absolute. Defaults to "artifacts".
	ArtifactsDir string `json:"artifactsDir,omitempty"`
}

// hardhatArtifact describes the subset of a Hardhat artifact file which is read.
type hardhatArtifact struct {
	Format           string           `json:"_format"`
	ContractName     string           `json:"contractName"`
	SourceName       string           `json:"sourceName"`
	Abi              []types.AbiEntry `json:"abi"`
	DeployedBytecode string           `json:"deployedBytecode"`
}

// NewHardhatCompilationConfig returns a HardhatCompilationConfig with default values for the provided target.
func NewHardhatCompilationConfig(target string) *HardhatCompilationConfig {
	return &HardhatCompilationConfig{
		Target:       target,
		UseNpx:       true,
		Command:      "",
		Args:         []string{},
		ArtifactsDir: "artifacts",
	}
}

// Platform returns the platform identifier for Hardhat.
func (s *HardhatCompilationConfig) Platform() string {
	return "hardhat"
}

// GetTarget returns the target for compilation
func (s *HardhatCompilationConfig) GetTarget() string {
	return s.Target
}

// SetTarget sets the new target for compilation
func (s *HardhatCompilationConfig) SetTarget(newTarget string) {
	s.Target = newTarget
}

// ArtifactsDirectory returns the resolved Hardhat artifacts directory.
func (s *HardhatCompilationConfig) ArtifactsDirectory() string {
	artifactsDir := s.ArtifactsDir
	if artifactsDir == "" {
		artifactsDir = "artifacts"
	}
	return resolvePath(s.Target, artifactsDir)
}

// Compile runs `hardhat compile` in the target directory.
func (s *HardhatCompilationConfig) Compile() (string, error) {
	// Determine the base command to use.
	baseCommandStr := "hardhat"
	if s.Command != "" {
		baseCommandStr = s.Command
	}

	// Build the command, optionally through npx
	args := append([]string{"compile"}, s.Args...)
	var cmd *exec.Cmd
	if s.UseNpx {
		cmd = exec.Command("npx", append([]string{baseCommandStr}, args...)...)
	} else {
		cmd = exec.Command(baseCommandStr, args...)
	}
	cmd.Dir = s.Target

	_, _, combined, err := utils.RunCommandWithOutputAndError(cmd)
	if err != nil {
		return string(combined), fmt.Errorf("error while executing hardhat:\nOUTPUT:\n%s\nERROR: %s\n", string(combined), err.Error())
	}
	return string(combined), nil
}

// Artifacts indexes every contract artifact under the artifacts directory. Hardhat stores each contract at
// "<sourceName>/<contractName>.json", so fully-qualified names are derived from the file layout. Debug files and
// build-info are skipped.
func (s *HardhatCompilationConfig) Artifacts() (*types.ArtifactStore, error) {
	artifactsDir := s.ArtifactsDirectory()
	store := types.NewArtifactStore(parseHardhatArtifact)

	err := filepath.WalkDir(artifactsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".json" || strings.HasSuffix(path, ".dbg.json") {
			return nil
		}

		// Only files inside a source unit directory (e.g. "Token.sol/") are contract artifacts
		sourceDir, err := filepath.Rel(artifactsDir, filepath.Dir(path))
		if err != nil || sourceDir == "." || !isSourceUnitDirectory(sourceDir) {
			return nil
		}

		qualifiedName := filepath.ToSlash(sourceDir) + ":" + utils.GetFileNameWithoutExtension(path)
		return store.Add(qualifiedName, path)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "could not discover hardhat artifacts in '%s'", artifactsDir)
	}
	return store, nil
}

// isSourceUnitDirectory indicates whether an artifact directory is named after a source unit.
func isSourceUnitDirectory(dir string) bool {
	ext := filepath.Ext(dir)
	return ext == ".sol" || ext == ".vy"
}

// parseHardhatArtifact parses a Hardhat artifact file.
func parseHardhatArtifact(path string, data []byte) (*types.ContractArtifact, error) {
	var artifact hardhatArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, errors.WithStack(err)
	}
	if artifact.ContractName == "" {
		return nil, errors.Errorf("artifact '%s' does not declare a contract name", path)
	}

	return &types.ContractArtifact{
		QualifiedName:    artifact.SourceName + ":" + artifact.ContractName,
		SourceName:       artifact.SourceName,
		ContractName:     artifact.ContractName,
		Abi:              artifact.Abi,
		DeployedBytecode: decodeBytecode(artifact.DeployedBytecode),
	}, nil
}
