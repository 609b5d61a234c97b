package selectors

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/crytic/selectors/compilation/platforms"
	"github.com/crytic/selectors/compilation/types"
	"github.com/crytic/selectors/selectors/config"
	"github.com/crytic/selectors/utils/testutils"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memorySource is an in-memory ArtifactSource.
type memorySource struct {
	names     []string
	artifacts map[string]*types.ContractArtifact

	// failing describes a contract whose artifact cannot be read.
	failing string

	mu    sync.Mutex
	reads []string
}

// newMemorySource returns an empty memorySource.
func newMemorySource() *memorySource {
	return &memorySource{artifacts: make(map[string]*types.ContractArtifact)}
}

// add registers a contract declaring the provided functions, each written as "name(type1,type2)".
func (s *memorySource) add(qualifiedName string, functions ...string) *types.ContractArtifact {
	sourceName, contractName := qualifiedName, qualifiedName
	for i := len(qualifiedName) - 1; i >= 0; i-- {
		if qualifiedName[i] == ':' {
			sourceName, contractName = qualifiedName[:i], qualifiedName[i+1:]
			break
		}
	}

	artifact := &types.ContractArtifact{
		QualifiedName: qualifiedName,
		SourceName:    sourceName,
		ContractName:  contractName,
		Abi:           []types.AbiEntry{{Type: "constructor"}, {Type: "event", Name: "Transfer"}},
	}
	for _, function := range functions {
		artifact.Abi = append(artifact.Abi, parseFunction(function))
	}
	s.names = append(s.names, qualifiedName)
	s.artifacts[qualifiedName] = artifact
	return artifact
}

func (s *memorySource) FullyQualifiedNames() ([]string, error) {
	return append([]string{}, s.names...), nil
}

func (s *memorySource) ReadArtifact(qualifiedName string) (*types.ContractArtifact, error) {
	s.mu.Lock()
	s.reads = append(s.reads, qualifiedName)
	s.mu.Unlock()

	if qualifiedName == s.failing {
		return nil, fmt.Errorf("artifact of %s is corrupted", qualifiedName)
	}
	artifact, ok := s.artifacts[qualifiedName]
	if !ok {
		return nil, fmt.Errorf("unknown contract %s", qualifiedName)
	}
	return artifact, nil
}

// parseFunction turns "name(type1,type2)" into a function ABI entry.
func parseFunction(signature string) types.AbiEntry {
	open := 0
	for open < len(signature) && signature[open] != '(' {
		open++
	}
	entry := types.AbiEntry{Type: types.AbiEntryTypeFunction, Name: signature[:open]}
	params := signature[open+1 : len(signature)-1]
	start := 0
	for i := 0; i <= len(params); i++ {
		if i == len(params) || params[i] == ',' {
			if i > start {
				entry.Inputs = append(entry.Inputs, types.AbiParameter{Type: params[start:i]})
			}
			start = i + 1
		}
	}
	return entry
}

// testGroup returns a default group using dispatch selectors which writes to a fresh directory.
func testGroup(t *testing.T) *config.SelectorGroupConfig {
	group := config.GetDefaultSelectorGroupConfig()
	group.OutputPath = filepath.Join(t.TempDir(), "out")
	group.SelectorEncoding = config.SelectorEncodingCanonical
	return group
}

// readOutput reads a group's output file.
func readOutput(t *testing.T, group *config.SelectorGroupConfig) string {
	b, err := os.ReadFile(group.OutputFile())
	require.NoError(t, err)
	return string(b)
}

// TestExportGrouping verifies the flat and per-contract output shapes.
func TestExportGrouping(t *testing.T) {
	source := newMemorySource()
	source.add("contracts/A.sol:A", "foo()")
	source.add("contracts/B.sol:B", "bar()")
	engine := NewEngine(source)

	group := testGroup(t)
	group.Pretty = false
	_, err := engine.ExportGroup(context.Background(), group)
	require.NoError(t, err)
	assert.Equal(t, `{"0xc2985578":"foo()","0xfebb0f7e":"bar()"}`, readOutput(t, group))

	group.SeparateByContract = true
	_, err = engine.ExportGroup(context.Background(), group)
	require.NoError(t, err)
	assert.Equal(t, `{"A":{"0xc2985578":"foo()"},"B":{"0xfebb0f7e":"bar()"}}`, readOutput(t, group))
}

// TestExportPrettyOrdered verifies sorted keys and the two-space indented rendering.
func TestExportPrettyOrdered(t *testing.T) {
	source := newMemorySource()
	source.add("contracts/Token.sol:Token", "transferFrom(address,address,uint256)", "approve(address,uint256)")
	engine := NewEngine(source)

	group := testGroup(t)
	group.OrderedByValue = true
	result, err := engine.ExportGroup(context.Background(), group)
	require.NoError(t, err)
	assert.Equal(t, []string{"0x095ea7b3", "0x23b872dd"}, result.Flat.Keys())

	expected := "{\n" +
		"  \"0x095ea7b3\": \"approve(address,uint256)\",\n" +
		"  \"0x23b872dd\": \"transferFrom(address,address,uint256)\"\n" +
		"}"
	assert.Equal(t, expected, readOutput(t, group))

	// Without ordering, declaration order is kept
	group.OrderedByValue = false
	result, err = engine.ExportGroup(context.Background(), group)
	require.NoError(t, err)
	assert.Equal(t, []string{"0x23b872dd", "0x095ea7b3"}, result.Flat.Keys())
}

// TestExportFiltering verifies include and exclude patterns, and that excluded contracts are never read.
func TestExportFiltering(t *testing.T) {
	source := newMemorySource()
	source.add("contracts/Token.sol:Token", "transfer(address,uint256)")
	source.add("contracts/mocks/TokenMock.sol:TokenMock", "mint(address,uint256)")
	source.add("contracts/Vault.sol:Vault", "deposit(uint256)")
	engine := NewEngine(source)

	group := testGroup(t)
	group.SeparateByContract = true
	group.IncludePatterns = []string{"Token"}
	result, err := engine.ExportGroup(context.Background(), group)
	require.NoError(t, err)
	assert.Equal(t, []string{"Token", "TokenMock"}, result.ByContract.Names())

	source.reads = nil
	group.ExcludePatterns = []string{"TokenMock"}
	result, err = engine.ExportGroup(context.Background(), group)
	require.NoError(t, err)
	assert.Equal(t, []string{"Token"}, result.ByContract.Names())
	assert.Equal(t, []string{"contracts/Token.sol:Token"}, source.reads)
}

// TestExportSkipsContractsWithoutFunctions verifies interfaces of events alone produce no entry.
func TestExportSkipsContractsWithoutFunctions(t *testing.T) {
	source := newMemorySource()
	source.add("contracts/Events.sol:Events")
	source.add("contracts/Token.sol:Token", "transfer(address,uint256)")
	engine := NewEngine(source)

	group := testGroup(t)
	group.SeparateByContract = true
	_, err := engine.ExportGroup(context.Background(), group)
	require.NoError(t, err)
	assert.Equal(t, `{
  "Token": {
    "0xa9059cbb": "transfer(address,uint256)"
  }
}`, readOutput(t, group))
}

// TestExportSkipList verifies skipped selectors never appear, in any shape, whatever their case.
func TestExportSkipList(t *testing.T) {
	source := newMemorySource()
	source.add("contracts/Token.sol:Token", "transfer(address,uint256)", "approve(address,uint256)")
	engine := NewEngine(source)

	for _, separate := range []bool{false, true} {
		group := testGroup(t)
		group.SeparateByContract = separate
		group.SkipSelectors = []string{"0xA9059CBB"}
		_, err := engine.ExportGroup(context.Background(), group)
		require.NoError(t, err)

		output := readOutput(t, group)
		assert.NotContains(t, output, "0xa9059cbb")
		assert.Contains(t, output, "0x095ea7b3")
	}
}

// TestExportSkipListKeepsEmptyContracts verifies a contract whose selectors are all skipped keeps an empty entry.
func TestExportSkipListKeepsEmptyContracts(t *testing.T) {
	source := newMemorySource()
	source.add("contracts/A.sol:A", "foo()")
	source.add("contracts/B.sol:B", "bar()")
	engine := NewEngine(source)

	group := testGroup(t)
	group.SeparateByContract = true
	group.Pretty = false
	group.SkipSelectors = []string{"0xfebb0f7e"}
	_, err := engine.ExportGroup(context.Background(), group)
	require.NoError(t, err)
	assert.Equal(t, `{"A":{"0xc2985578":"foo()"},"B":{}}`, readOutput(t, group))

	group.SeparateByContract = false
	_, err = engine.ExportGroup(context.Background(), group)
	require.NoError(t, err)
	assert.Equal(t, `{"0xc2985578":"foo()"}`, readOutput(t, group))
}

// TestExportDefaultEncoding verifies the default group hashes the ABI encoding of each signature.
func TestExportDefaultEncoding(t *testing.T) {
	source := newMemorySource()
	source.add("contracts/A.sol:A", "foo()")
	engine := NewEngine(source)

	group := config.GetDefaultSelectorGroupConfig()
	group.OutputPath = filepath.Join(t.TempDir(), "out")
	group.Pretty = false
	result, err := engine.ExportGroup(context.Background(), group)
	require.NoError(t, err)

	resolver, err := NewAbiEncodedResolver()
	require.NoError(t, err)
	expected, err := resolver.Resolve("foo()")
	require.NoError(t, err)
	assert.Equal(t, "0x62ee2a63", expected)
	assert.Equal(t, []string{expected}, result.Flat.Keys())
	assert.Equal(t, `{"0x62ee2a63":"foo()"}`, readOutput(t, group))
}

// TestExportBareLabels verifies bare-name labels keep every overload under its own selector.
func TestExportBareLabels(t *testing.T) {
	source := newMemorySource()
	source.add("contracts/Token.sol:Token", "safeTransferFrom(address,address,uint256)", "safeTransferFrom(address,address,uint256,bytes)")
	engine := NewEngine(source)

	group := testGroup(t)
	group.Pretty = false
	group.IncludeParameterTypesInLabel = false
	_, err := engine.ExportGroup(context.Background(), group)
	require.NoError(t, err)
	assert.Equal(t, `{"0x42842e0e":"safeTransferFrom","0xb88d4fde":"safeTransferFrom"}`, readOutput(t, group))
}

// TestExportRoundTripAndIdempotence verifies the written file parses back to the in-memory result and a second run
// writes identical bytes.
func TestExportRoundTripAndIdempotence(t *testing.T) {
	source := newMemorySource()
	source.add("contracts/Token.sol:Token", "transfer(address,uint256)", "approve(address,uint256)", "totalSupply()")
	source.add("contracts/Vault.sol:Vault", "deposit(uint256)", "withdraw(uint256)")
	for i := 0; i < 32; i++ {
		source.add(fmt.Sprintf("contracts/gen/C%02d.sol:C%02d", i, i), fmt.Sprintf("f%02d(uint256)", i))
	}
	engine := NewEngine(source)

	for _, separate := range []bool{false, true} {
		group := testGroup(t)
		group.SelectorEncoding = config.SelectorEncodingAbiEncoded
		group.SeparateByContract = separate

		result, err := engine.ExportGroup(context.Background(), group)
		require.NoError(t, err)
		first := readOutput(t, group)

		decoded := &Result{Separated: separate}
		require.NoError(t, json.Unmarshal([]byte(first), decoded))
		assert.Equal(t, result, decoded)

		_, err = engine.ExportGroup(context.Background(), group)
		require.NoError(t, err)
		assert.Equal(t, first, readOutput(t, group))
	}
}

// TestExportCompilerVersion verifies contracts outside the version constraint are skipped while contracts without
// metadata are kept.
func TestExportCompilerVersion(t *testing.T) {
	metadata := func(major, minor, patch byte) []byte {
		trailer := []byte{0xa2, 0x64, 'i', 'p', 'f', 's', 0x58, 0x22}
		for i := 0; i < 34; i++ {
			trailer = append(trailer, 0x12)
		}
		return append(trailer, 0x64, 's', 'o', 'l', 'c', 0x43, major, minor, patch, 0x00, 0x33)
	}

	source := newMemorySource()
	source.add("contracts/Old.sol:Old", "foo()").DeployedBytecode = metadata(0, 7, 6)
	source.add("contracts/New.sol:New", "bar()").DeployedBytecode = metadata(0, 8, 19)
	source.add("contracts/IFace.sol:IFace", "baz()")
	engine := NewEngine(source)

	group := testGroup(t)
	group.SeparateByContract = true
	group.CompilerVersion = ">=0.8.0"
	result, err := engine.ExportGroup(context.Background(), group)
	require.NoError(t, err)
	assert.Equal(t, []string{"New", "IFace"}, result.ByContract.Names())
}

// TestExportErrors verifies each failure is surfaced with its type and no output is written.
func TestExportErrors(t *testing.T) {
	source := newMemorySource()
	source.add("contracts/Token.sol:Token", "transfer(address,uint256)")
	source.add("contracts/Broken.sol:Broken", "foo()")
	source.failing = "contracts/Broken.sol:Broken"
	engine := NewEngine(source)

	// Unreadable artifact
	group := testGroup(t)
	_, err := engine.ExportGroup(context.Background(), group)
	var readErr *ArtifactReadError
	require.True(t, errors.As(err, &readErr))
	assert.Equal(t, "contracts/Broken.sol:Broken", readErr.Name)
	assert.NoFileExists(t, group.OutputFile())

	// Invalid configuration
	source.reads = nil
	group = testGroup(t)
	group.SkipSelectors = []string{"a9059cbb"}
	_, err = engine.ExportGroup(context.Background(), group)
	var configErr *ConfigurationError
	require.True(t, errors.As(err, &configErr))
	assert.Equal(t, "skipSelectors", configErr.Field)
	assert.Empty(t, source.reads)

	// Unwritable output path
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	group = testGroup(t)
	group.ExcludePatterns = []string{"Broken"}
	group.OutputPath = blocker
	_, err = engine.ExportGroup(context.Background(), group)
	var writeErr *WriteError
	require.True(t, errors.As(err, &writeErr))
	assert.Equal(t, filepath.Join(blocker, "selectors.json"), writeErr.Path)

	// Cancelled context
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = engine.ExportGroup(ctx, testGroup(t))
	assert.ErrorIs(t, err, context.Canceled)
}

// TestExportGroups verifies groups are validated up front and a failing group leaves the others' output intact.
func TestExportGroups(t *testing.T) {
	source := newMemorySource()
	source.add("contracts/Token.sol:Token", "transfer(address,uint256)")
	source.add("contracts/Broken.sol:Broken", "foo()")
	source.failing = "contracts/Broken.sol:Broken"
	engine := NewEngine(source)

	healthy := testGroup(t)
	healthy.IncludePatterns = []string{"Token"}
	failing := testGroup(t)

	results, err := engine.ExportGroups(context.Background(), config.GroupConfigs{healthy, failing})
	var readErr *ArtifactReadError
	require.True(t, errors.As(err, &readErr))
	require.Len(t, results, 2)
	assert.NotNil(t, results[0])
	assert.Nil(t, results[1])
	assert.FileExists(t, healthy.OutputFile())

	// A single invalid group prevents every group from running
	invalid := testGroup(t)
	invalid.IncludePatterns = []string{"Token"}
	invalid.ExcludePatterns = []string{"Token"}
	untouched := testGroup(t)
	_, err = engine.ExportGroups(context.Background(), config.GroupConfigs{untouched, invalid})
	var configErr *ConfigurationError
	require.True(t, errors.As(err, &configErr))
	assert.Equal(t, 1, configErr.Group)
	assert.NoFileExists(t, untouched.OutputFile())
}

// TestExportOnCompile verifies only groups running on compile are exported, and none while coverage is running.
func TestExportOnCompile(t *testing.T) {
	source := newMemorySource()
	source.add("contracts/Token.sol:Token", "transfer(address,uint256)")
	engine := NewEngine(source)

	onCompile := testGroup(t)
	manual := testGroup(t)
	manual.RunOnCompile = false
	groups := config.GroupConfigs{onCompile, manual}

	results, err := engine.ExportOnCompile(context.Background(), groups, true)
	require.NoError(t, err)
	assert.Nil(t, results)
	assert.NoFileExists(t, onCompile.OutputFile())

	results, err = engine.ExportOnCompile(context.Background(), groups, false)
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.FileExists(t, onCompile.OutputFile())
	assert.NoFileExists(t, manual.OutputFile())
}

// TestExportFromHardhatArtifacts verifies the engine reads artifacts discovered on disk.
func TestExportFromHardhatArtifacts(t *testing.T) {
	project := t.TempDir()
	testutils.WriteHardhatArtifact(t, filepath.Join(project, "artifacts"), "contracts/Token.sol", "Token", []map[string]any{
		testutils.FunctionAbi("transfer", "address", "uint256"),
	})
	store, err := platforms.NewHardhatCompilationConfig(project).Artifacts()
	require.NoError(t, err)

	group := testGroup(t)
	group.Pretty = false
	_, err = NewEngine(store).ExportGroup(context.Background(), group)
	require.NoError(t, err)
	assert.Equal(t, `{"0xa9059cbb":"transfer(address,uint256)"}`, readOutput(t, group))
}
