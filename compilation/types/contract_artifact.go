package types

import (
	"github.com/Masterminds/semver"
)

// ContractArtifact represents the compiled output of a single contract as it is persisted by a compilation platform.
type ContractArtifact struct {
	// QualifiedName describes the fully-qualified name of the contract, "<sourceName>:<contractName>".
	QualifiedName string

	// SourceName describes the path of the source unit the contract was declared in, relative to the project root.
	SourceName string

	// ContractName describes the bare name of the contract.
	ContractName string

	// Abi describes every entry of the contract's JSON ABI in declaration order.
	Abi []AbiEntry

	// DeployedBytecode describes the runtime bytecode of the contract. It is empty for interfaces and abstract
	// contracts.
	DeployedBytecode []byte
}

// Functions returns the function entries of the contract ABI in declaration order.
func (c *ContractArtifact) Functions() []AbiEntry {
	functions := make([]AbiEntry, 0, len(c.Abi))
	for _, entry := range c.Abi {
		if entry.IsFunction() {
			functions = append(functions, entry)
		}
	}
	return functions
}

// HasFunctions indicates whether the contract ABI contains at least one function entry.
func (c *ContractArtifact) HasFunctions() bool {
	for _, entry := range c.Abi {
		if entry.IsFunction() {
			return true
		}
	}
	return false
}

// CompilerVersion returns the solc version recorded in the metadata appended to the deployed bytecode, or nil if the
// contract has no bytecode or the metadata does not carry a version.
func (c *ContractArtifact) CompilerVersion() *semver.Version {
	metadata := ExtractContractMetadata(c.DeployedBytecode)
	if metadata == nil {
		return nil
	}
	return metadata.ExtractCompilerVersion()
}
