package platforms

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/crytic/selectors/utils/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHardhatArtifacts verifies artifacts are discovered in directory order, debug files and build-info are skipped,
// and each artifact reads back with its ABI.
func TestHardhatArtifacts(t *testing.T) {
	project := t.TempDir()
	artifactsDir := filepath.Join(project, "artifacts")
	testutils.WriteHardhatArtifact(t, artifactsDir, "contracts/Token.sol", "Token", []map[string]any{
		testutils.FunctionAbi("transfer", "address", "uint256"),
		testutils.FunctionAbi("approve", "address", "uint256"),
	})
	testutils.WriteHardhatArtifact(t, artifactsDir, "contracts/Token.sol", "TokenLib", nil)
	testutils.WriteHardhatArtifact(t, artifactsDir, "@openzeppelin/contracts/access/Ownable.sol", "Ownable", []map[string]any{
		testutils.FunctionAbi("owner"),
	})

	// Build info is not a contract artifact
	buildInfoDir := filepath.Join(artifactsDir, "build-info")
	require.NoError(t, os.MkdirAll(buildInfoDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(buildInfoDir, "abc.json"), []byte(`{}`), 0644))

	config := NewHardhatCompilationConfig(project)
	store, err := config.Artifacts()
	require.NoError(t, err)

	names, err := store.FullyQualifiedNames()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"@openzeppelin/contracts/access/Ownable.sol:Ownable",
		"contracts/Token.sol:Token",
		"contracts/Token.sol:TokenLib",
	}, names)

	artifact, err := store.ReadArtifact("contracts/Token.sol:Token")
	require.NoError(t, err)
	assert.Equal(t, "contracts/Token.sol", artifact.SourceName)
	assert.Equal(t, "Token", artifact.ContractName)
	require.Len(t, artifact.Functions(), 2)
	assert.Equal(t, "transfer", artifact.Functions()[0].Name)
	assert.Equal(t, "address", artifact.Functions()[0].Inputs[0].Type)

	_, err = store.ReadArtifact("contracts/Missing.sol:Missing")
	assert.Error(t, err)
}

// TestHardhatMissingArtifactsDirectory verifies an uncompiled project is reported as an error.
func TestHardhatMissingArtifactsDirectory(t *testing.T) {
	config := NewHardhatCompilationConfig(t.TempDir())
	_, err := config.Artifacts()
	assert.Error(t, err)
}

// TestHardhatArtifactsDirectory verifies relative artifact directories resolve against the target.
func TestHardhatArtifactsDirectory(t *testing.T) {
	config := NewHardhatCompilationConfig("project")
	assert.Equal(t, filepath.Join("project", "artifacts"), config.ArtifactsDirectory())

	config.ArtifactsDir = ""
	assert.Equal(t, filepath.Join("project", "artifacts"), config.ArtifactsDirectory())

	absolute, err := filepath.Abs("build")
	require.NoError(t, err)
	config.ArtifactsDir = absolute
	assert.Equal(t, absolute, config.ArtifactsDirectory())
}

// TestDecodeBytecode verifies unlinked bytecode still decodes with zeroed library addresses.
func TestDecodeBytecode(t *testing.T) {
	assert.Nil(t, decodeBytecode(""))
	assert.Equal(t, []byte{0x60, 0x80}, decodeBytecode("0x6080"))
	assert.Equal(t, []byte{0x60, 0x80}, decodeBytecode("6080"))

	linked := decodeBytecode("0x73__$1234567890abcdef1234567890abcdef12$__63")
	require.Len(t, linked, 22)
	assert.Equal(t, byte(0x73), linked[0])
	assert.Equal(t, byte(0x63), linked[21])

	assert.Nil(t, decodeBytecode("0xzz"))
}
