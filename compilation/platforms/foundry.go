package platforms

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/crytic/selectors/compilation/types"
	"github.com/crytic/selectors/utils"
	"github.com/pkg/errors"
)

// FoundryCompilationConfig describes the configuration used to compile a Foundry project and locate its artifacts.
type FoundryCompilationConfig struct {
	// Target describes the Foundry project directory.
	Target string `json:"target"`

	// Command describes an override for the base command, which defaults to "forge".
	Command string `json:"command,omitempty"`

	// Args describes additional arguments provided to the build command.
	Args []string `json:"args,omitempty"`

	// OutDir describes the artifacts directory, relative to Target unless absolute. Defaults to "out".
	OutDir string `json:"outDir,omitempty"`
}

// foundryArtifact describes the subset of a Foundry artifact file which is read.
type foundryArtifact struct {
	Abi              []types.AbiEntry `json:"abi"`
	DeployedBytecode struct {
		Object string `json:"object"`
	} `json:"deployedBytecode"`
	Metadata struct {
		Settings struct {
			CompilationTarget map[string]string `json:"compilationTarget"`
		} `json:"settings"`
	} `json:"metadata"`
}

// NewFoundryCompilationConfig returns a FoundryCompilationConfig with default values for the provided target.
func NewFoundryCompilationConfig(target string) *FoundryCompilationConfig {
	return &FoundryCompilationConfig{
		Target:  target,
		Command: "",
		Args:    []string{},
		OutDir:  "out",
	}
}

// Platform returns the platform identifier for Foundry.
func (s *FoundryCompilationConfig) Platform() string {
	return "foundry"
}

// GetTarget returns the target for compilation
func (s *FoundryCompilationConfig) GetTarget() string {
	return s.Target
}

// SetTarget sets the new target for compilation
func (s *FoundryCompilationConfig) SetTarget(newTarget string) {
	s.Target = newTarget
}

// ArtifactsDirectory returns the resolved Foundry output directory.
func (s *FoundryCompilationConfig) ArtifactsDirectory() string {
	outDir := s.OutDir
	if outDir == "" {
		outDir = "out"
	}
	return resolvePath(s.Target, outDir)
}

// Compile runs `forge build` in the target directory.
func (s *FoundryCompilationConfig) Compile() (string, error) {
	baseCommandStr := "forge"
	if s.Command != "" {
		baseCommandStr = s.Command
	}

	cmd := exec.Command(baseCommandStr, append([]string{"build"}, s.Args...)...)
	cmd.Dir = s.Target

	_, _, combined, err := utils.RunCommandWithOutputAndError(cmd)
	if err != nil {
		return string(combined), fmt.Errorf("error while executing forge:\nOUTPUT:\n%s\nERROR: %s\n", string(combined), err.Error())
	}
	return string(combined), nil
}

// Artifacts indexes every contract artifact under the output directory. Foundry lays artifacts out by source file
// name only, so the fully-qualified name is taken from the compilation target recorded in each artifact's metadata.
func (s *FoundryCompilationConfig) Artifacts() (*types.ArtifactStore, error) {
	outDir := s.ArtifactsDirectory()
	store := types.NewArtifactStore(parseFoundryArtifact)

	err := filepath.WalkDir(outDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".json" || !isSourceUnitDirectory(filepath.Dir(path)) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return errors.WithStack(err)
		}
		var artifact foundryArtifact
		if err := json.Unmarshal(data, &artifact); err != nil {
			return errors.Wrapf(err, "could not parse artifact '%s'", path)
		}
		return store.Add(foundryQualifiedName(path, &artifact), path)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "could not discover foundry artifacts in '%s'", outDir)
	}
	return store, nil
}

// foundryQualifiedName determines the fully-qualified name of a Foundry artifact, preferring the compilation target
// from its metadata and falling back to "<file>.sol:<artifact name>".
func foundryQualifiedName(path string, artifact *foundryArtifact) string {
	for sourceName, contractName := range artifact.Metadata.Settings.CompilationTarget {
		return sourceName + ":" + contractName
	}
	return filepath.Base(filepath.Dir(path)) + ":" + utils.GetFileNameWithoutExtension(path)
}

// parseFoundryArtifact parses a Foundry artifact file.
func parseFoundryArtifact(path string, data []byte) (*types.ContractArtifact, error) {
	var artifact foundryArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, errors.WithStack(err)
	}

	qualifiedName := foundryQualifiedName(path, &artifact)
	sourceName, contractName := splitQualifiedName(qualifiedName)

	return &types.ContractArtifact{
		QualifiedName:    qualifiedName,
		SourceName:       sourceName,
		ContractName:     contractName,
		Abi:              artifact.Abi,
		DeployedBytecode: decodeBytecode(artifact.DeployedBytecode.Object),
	}, nil
}

// splitQualifiedName splits "<sourceName>:<contractName>" at its last colon.
func splitQualifiedName(qualifiedName string) (string, string) {
	i := strings.LastIndex(qualifiedName, ":")
	if i < 0 {
		return "", qualifiedName
	}
	return qualifiedName[:i], qualifiedName[i+1:]
}
