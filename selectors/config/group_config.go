package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Masterminds/semver"
	"github.com/pkg/errors"
)

const (
	// CollisionPolicyError fails the group when two different labels claim the same selector.
	CollisionPolicyError = "error"
	// CollisionPolicyFirst keeps the first label seen for a selector.
	CollisionPolicyFirst = "first"
	// CollisionPolicyLast keeps the last label seen for a selector.
	CollisionPolicyLast = "last"
)

const (
	// SelectorEncodingAbiEncoded hashes the ABI encoding of the signature as a single string parameter.
	SelectorEncodingAbiEncoded = "abi-encoded"
	// SelectorEncodingCanonical hashes the raw signature bytes, yielding the selector used for EVM dispatch.
	SelectorEncodingCanonical = "canonical"
)

// skipSelectorPattern describes a well-formed entry of the skip list: "0x" followed by eight hex digits.
var skipSelectorPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{8}$`)

// SelectorGroupConfig describes one independent unit of work producing one output file from a filtered and ordered
// subset of the available contracts.
type SelectorGroupConfig struct {
	// SeparateByContract describes whether selectors are grouped per contract name rather than flattened.
	SeparateByContract bool `json:"separateContractSelectors"`

	// OrderedByValue describes whether keys are sorted lexicographically instead of kept in discovery order.
	OrderedByValue bool `json:"orderedByValue"`

	// OutputPath describes the directory the output file is written to.
	OutputPath string `json:"outputPath"`

	// OutputFilename describes the name of the output file within OutputPath.
	OutputFilename string `json:"outputFilename"`

	// Pretty describes whether the output is indented.
	Pretty bool `json:"pretty"`

	// RunOnCompile describes whether the group runs automatically after compilation.
	RunOnCompile bool `json:"runOnCompile"`

	// IncludeParameterTypesInLabel describes whether labels are full signatures ("name(type1,type2)") or bare
	// function names.
	IncludeParameterTypesInLabel bool `json:"includeParams"`

	// IncludePatterns describes the patterns a fully-qualified contract name must match one of, if any are given.
	IncludePatterns []string `json:"only"`

	// ExcludePatterns describes the patterns which exclude any fully-qualified contract name they match.
	ExcludePatterns []string `json:"except"`

	// SkipSelectors describes selectors which never appear in the output.
	SkipSelectors []string `json:"skipSelectors"`

	// CollisionPolicy describes how two different labels claiming the same selector are resolved.
	CollisionPolicy string `json:"collisionPolicy"`

	// SelectorEncoding describes how a signature is turned into the bytes which are hashed.
	SelectorEncoding string `json:"selectorEncoding"`

	// CompilerVersion describes an optional semver constraint on the solc version recorded in contract metadata.
	CompilerVersion string `json:"compilerVersion"`
}

// UnmarshalJSON decodes a group over the default group configuration, so omitted fields keep their defaults.
func (g *SelectorGroupConfig) UnmarshalJSON(b []byte) error {
	type groupAlias SelectorGroupConfig
	merged := groupAlias(*GetDefaultSelectorGroupConfig())
	if err := json.Unmarshal(b, &merged); err != nil {
		return errors.WithStack(err)
	}
	*g = SelectorGroupConfig(merged)
	return nil
}

// OutputFile returns the path of the file the group writes.
func (g *SelectorGroupConfig) OutputFile() string {
	return filepath.Join(g.OutputPath, g.OutputFilename)
}

// NormalizedSkipSelectors returns the skip list in lowercase. It should only be called on a validated group.
func (g *SelectorGroupConfig) NormalizedSkipSelectors() []string {
	normalized := make([]string, 0, len(g.SkipSelectors))
	for _, selector := range g.SkipSelectors {
		normalized = append(normalized, strings.ToLower(selector))
	}
	return normalized
}

// CompilerVersionConstraint returns the parsed CompilerVersion constraint, or nil if none is configured.
func (g *SelectorGroupConfig) CompilerVersionConstraint() (*semver.Constraints, error) {
	if g.CompilerVersion == "" {
		return nil, nil
	}
	constraint, err := semver.NewConstraint(g.CompilerVersion)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return constraint, nil
}

// Validate verifies the group at the provided index is well-formed. Every returned error is a *ConfigurationError.
func (g *SelectorGroupConfig) Validate(index int) error {
	if g.OutputFilename == "" {
		return newGroupError(index, "outputFilename", "", errors.New("an output filename is required"))
	}

	// Patterns must compile, and no literal pattern may both include and exclude
	for _, pattern := range g.IncludePatterns {
		if _, err := regexp.Compile(pattern); err != nil {
			return newGroupError(index, "only", pattern, errors.WithStack(err))
		}
	}
	excluded := make(map[string]struct{}, len(g.ExcludePatterns))
	for _, pattern := range g.ExcludePatterns {
		if _, err := regexp.Compile(pattern); err != nil {
			return newGroupError(index, "except", pattern, errors.WithStack(err))
		}
		excluded[pattern] = struct{}{}
	}
	for _, pattern := range g.IncludePatterns {
		if _, ok := excluded[pattern]; ok {
			return newGroupError(index, "only", pattern, errors.New("pattern is also listed in 'except'"))
		}
	}

	for _, selector := range g.SkipSelectors {
		if !skipSelectorPattern.MatchString(selector) {
			return newGroupError(index, "skipSelectors", selector, errors.New("selectors must be '0x' followed by 8 hex digits"))
		}
	}

	switch g.CollisionPolicy {
	case CollisionPolicyError, CollisionPolicyFirst, CollisionPolicyLast:
	default:
		return newGroupError(index, "collisionPolicy", g.CollisionPolicy,
			fmt.Errorf("expected one of '%s', '%s' or '%s'", CollisionPolicyError, CollisionPolicyFirst, CollisionPolicyLast))
	}

	switch g.SelectorEncoding {
	case SelectorEncodingAbiEncoded, SelectorEncodingCanonical:
	default:
		return newGroupError(index, "selectorEncoding", g.SelectorEncoding,
			fmt.Errorf("expected '%s' or '%s'", SelectorEncodingAbiEncoded, SelectorEncodingCanonical))
	}

	if _, err := g.CompilerVersionConstraint(); err != nil {
		return newGroupError(index, "compilerVersion", g.CompilerVersion, err)
	}
	return nil
}

// GroupConfigs describes every configured function selector group. In a configuration file it may be written as a
// single group object or as an array of groups.
type GroupConfigs []*SelectorGroupConfig

// UnmarshalJSON decodes either a single group object or an array of groups.
func (g *GroupConfigs) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if bytes.Equal(trimmed, []byte("null")) {
		*g = nil
		return nil
	}

	if len(trimmed) > 0 && trimmed[0] == '{' {
		group := GetDefaultSelectorGroupConfig()
		if err := json.Unmarshal(trimmed, group); err != nil {
			return errors.WithStack(err)
		}
		*g = GroupConfigs{group}
		return nil
	}

	var groups []*SelectorGroupConfig
	if err := json.Unmarshal(trimmed, &groups); err != nil {
		return errors.WithStack(err)
	}
	*g = groups
	return nil
}

// Validate verifies every group. The first invalid group is reported.
func (g GroupConfigs) Validate() error {
	if len(g) == 0 {
		return newGroupError(ProjectScope, "functionSelectors", "", errors.New("at least one function selector group is required"))
	}
	for i, group := range g {
		if group == nil {
			return newGroupError(i, "", "", errors.New("group is empty"))
		}
		if err := group.Validate(i); err != nil {
			return err
		}
	}
	return nil
}
