package types

import (
	"bytes"
	"fmt"

	"github.com/Masterminds/semver"
	"github.com/fxamacker/cbor"
)

// ContractMetadata is an CBOR-encoded structure describing contract information which is embedded within smart contract
// bytecode by the Solidity compiler (unless explicitly directed not to).
// Reference: https://docs.soliditylang.org/en/v0.8.16/metadata.html
type ContractMetadata map[string]any

// metadataHashPrefixes defines patterns to use in search for CBOR-encoded contract metadata appended to the end of
// bytecode.
var metadataHashPrefixes = [][]byte{
	{0xa1, 0x65, 98, 122, 122, 114, 48, 0x58, 0x20},  // a1 65 "bzzr0" 0x58 0x20 (solc <= 0.5.8)
	{0xa2, 0x65, 98, 122, 122, 114, 48, 0x58, 0x20},  // a2 65 "bzzr0" 0x58 0x20 (solc >= 0.5.9)
	{0xa2, 0x65, 98, 122, 122, 114, 49, 0x58, 0x20},  // a2 65 "bzzr1" 0x58 0x20 (solc >= 0.5.11)
	{0xa2, 0x64, 0x69, 0x70, 0x66, 0x73, 0x58, 0x22}, // a2 64 "ipfs" 0x58 0x22 (solc >= 0.6.0)
}

// compilerVersionMetadataKey is the metadata key holding the three-byte solc version.
const compilerVersionMetadataKey = "solc"

// ExtractContractMetadata extracts contract metadata from provided byte code and returns it. If contract metadata
// could not be extracted, nil is returned.
func ExtractContractMetadata(bytecode []byte) *ContractMetadata {
	// Try matching each metadata hash prefix in the file. Metadata is appended to the end of the file.
	for _, metadataHashPrefix := range metadataHashPrefixes {
		metadataOffset := bytes.LastIndex(bytecode, metadataHashPrefix)

		// If we found a match, decode the embedded metadata and return it.
		if metadataOffset != -1 {
			// The final two bytes are the big-endian length of the CBOR payload, not part of it.
			payload := bytecode[metadataOffset:]
			if len(payload) > 2 {
				payload = payload[:len(payload)-2]
			}

			var metadata ContractMetadata
			err := cbor.Unmarshal(payload, &metadata)
			if err != nil {
				continue
			}
			return &metadata
		}
	}
	return nil
}

// ExtractCompilerVersion extracts the solc version from given contract metadata. Release builds encode it as three
// bytes (major, minor, patch). If the key is absent or malformed, nil is returned.
func (m ContractMetadata) ExtractCompilerVersion() *semver.Version {
	versionData, ok := m[compilerVersionMetadataKey]
	if !ok {
		return nil
	}

	switch v := versionData.(type) {
	case []byte:
		if len(v) != 3 {
			return nil
		}
		version, err := semver.NewVersion(fmt.Sprintf("%d.%d.%d", v[0], v[1], v[2]))
		if err != nil {
			return nil
		}
		return version
	case string:
		// Prerelease compilers store the full version string instead.
		version, err := semver.NewVersion(v)
		if err != nil {
			return nil
		}
		return version
	}
	return nil
}
