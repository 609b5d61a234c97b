package testutils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// ExecuteInDirectory executes the given method in a given test directory. It changes the current working directory
// to the directory specified, runs the provided method, then restores the working directory. This wraps tests so
// any file artifacts generated do not end up in the codebase directories.
func ExecuteInDirectory(t *testing.T, testDirectory string, method func()) {
	// Backup our old working directory
	cwd, err := os.Getwd()
	require.NoError(t, err)

	// Change our working directory to the test directory
	err = os.Chdir(testDirectory)
	require.NoError(t, err)

	// Restore the working directory whatever the method does
	defer func() {
		require.NoError(t, os.Chdir(cwd))
	}()
	method()
}

// FunctionAbi returns a minimal ABI entry for a function with the given name and input types.
func FunctionAbi(name string, inputTypes ...string) map[string]any {
	inputs := make([]map[string]any, 0, len(inputTypes))
	for _, inputType := range inputTypes {
		inputs = append(inputs, map[string]any{"name": "", "type": inputType, "internalType": inputType})
	}
	return map[string]any{
		"type":            "function",
		"name":            name,
		"inputs":          inputs,
		"outputs":         []any{},
		"stateMutability": "nonpayable",
	}
}

// WriteHardhatArtifact writes a Hardhat-layout artifact for the given contract beneath artifactsDir, along with the
// debug file Hardhat places next to it. The artifact path is returned.
func WriteHardhatArtifact(t *testing.T, artifactsDir string, sourceName string, contractName string, abi []map[string]any) string {
	sourceDir := filepath.Join(artifactsDir, filepath.FromSlash(sourceName))
	require.NoError(t, os.MkdirAll(sourceDir, 0755))

	artifact := map[string]any{
		"_format":          "hh-sol-artifact-1",
		"contractName":     contractName,
		"sourceName":       sourceName,
		"abi":              abi,
		"bytecode":         "0x",
		"deployedBytecode": "0x",
	}
	path := filepath.Join(sourceDir, contractName+".json")
	writeJSON(t, path, artifact)
	writeJSON(t, filepath.Join(sourceDir, contractName+".dbg.json"), map[string]any{"_format": "hh-sol-dbg-1"})
	return path
}

// WriteFoundryArtifact writes a Foundry-layout artifact for the given contract beneath outDir. The artifact path is
// returned.
func WriteFoundryArtifact(t *testing.T, outDir string, sourceName string, contractName string, abi []map[string]any) string {
	sourceDir := filepath.Join(outDir, filepath.Base(sourceName))
	require.NoError(t, os.MkdirAll(sourceDir, 0755))

	artifact := map[string]any{
		"abi":              abi,
		"deployedBytecode": map[string]any{"object": "0x"},
		"metadata": map[string]any{
			"settings": map[string]any{
				"compilationTarget": map[string]string{sourceName: contractName},
			},
		},
	}
	path := filepath.Join(sourceDir, contractName+".json")
	writeJSON(t, path, artifact)
	return path
}

// writeJSON serializes a value to the provided path.
func writeJSON(t *testing.T, path string, value any) {
	b, err := json.Marshal(value)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0644))
}
