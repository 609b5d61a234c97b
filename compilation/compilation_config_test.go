package compilation

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/crytic/selectors/compilation/platforms"
	"github.com/crytic/selectors/utils/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSupportedPlatforms verifies every registered platform produces a default config that round-trips through a
// CompilationConfig.
func TestSupportedPlatforms(t *testing.T) {
	platformIds := GetSupportedCompilationPlatforms()
	assert.Equal(t, []string{"foundry", "hardhat"}, platformIds)

	for _, platformId := range platformIds {
		config, err := NewCompilationConfig(platformId)
		require.NoError(t, err)
		assert.Equal(t, platformId, config.Platform)

		platformConfig, err := config.GetPlatformConfig()
		require.NoError(t, err)
		assert.Equal(t, platformId, platformConfig.Platform())
		assert.Equal(t, ".", platformConfig.GetTarget())
	}

	_, err := NewCompilationConfig("truffle")
	assert.Error(t, err)
	assert.False(t, IsSupportedCompilationPlatform("truffle"))
}

// TestPlatformConfigOverridesDefaults verifies a partial platform config keeps the defaults for omitted fields.
func TestPlatformConfigOverridesDefaults(t *testing.T) {
	raw := json.RawMessage(`{"target": "contracts-project", "useNpx": false}`)
	config := &CompilationConfig{Platform: "hardhat", PlatformConfig: &raw}

	platformConfig, err := config.GetPlatformConfig()
	require.NoError(t, err)

	hardhatConfig, ok := platformConfig.(*platforms.HardhatCompilationConfig)
	require.True(t, ok)
	assert.Equal(t, "contracts-project", hardhatConfig.Target)
	assert.False(t, hardhatConfig.UseNpx)
	assert.Equal(t, "artifacts", hardhatConfig.ArtifactsDir)

	// Malformed platform configs are reported
	bad := json.RawMessage(`{"target": 5}`)
	config.PlatformConfig = &bad
	_, err = config.GetPlatformConfig()
	assert.Error(t, err)
}

// TestCompilationConfigArtifacts verifies the target can be updated and artifacts are discovered from it.
func TestCompilationConfigArtifacts(t *testing.T) {
	project := t.TempDir()
	testutils.WriteFoundryArtifact(t, filepath.Join(project, "out"), "src/Vault.sol", "Vault",
		[]map[string]any{testutils.FunctionAbi("deposit", "uint256")})

	config, err := NewCompilationConfig("foundry")
	require.NoError(t, err)
	require.NoError(t, config.SetTarget(project))

	store, err := config.Artifacts()
	require.NoError(t, err)
	names, err := store.FullyQualifiedNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"src/Vault.sol:Vault"}, names)
}
