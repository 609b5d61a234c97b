package selectors

import (
	"regexp"

	"github.com/pkg/errors"
)

// Matcher describes a compiled contract name pattern. Patterns use RE2 syntax and match anywhere in the name, so a
// plain substring is a valid pattern.
type Matcher struct {
	// expression describes the compiled pattern.
	expression *regexp.Regexp
}

// NewMatcher compiles a pattern into a Matcher.
func NewMatcher(pattern string) (*Matcher, error) {
	expression, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid contract pattern '%s'", pattern)
	}
	return &Matcher{expression: expression}, nil
}

// Matches indicates whether the pattern matches anywhere in the provided name.
func (m *Matcher) Matches(name string) bool {
	return m.expression.MatchString(name)
}

// compileMatchers compiles every pattern in order.
func compileMatchers(patterns []string) ([]*Matcher, error) {
	matchers := make([]*Matcher, 0, len(patterns))
	for _, pattern := range patterns {
		matcher, err := NewMatcher(pattern)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, matcher)
	}
	return matchers, nil
}

// ContractFilter decides which fully-qualified contract names take part in a group.
type ContractFilter struct {
	// include describes the matchers of which at least one must match, if any are given.
	include []*Matcher

	// exclude describes the matchers which exclude any name they match. Exclusion takes precedence.
	exclude []*Matcher
}

// NewContractFilter compiles the include and exclude patterns of a group into a ContractFilter.
func NewContractFilter(includePatterns []string, excludePatterns []string) (*ContractFilter, error) {
	include, err := compileMatchers(includePatterns)
	if err != nil {
		return nil, err
	}
	exclude, err := compileMatchers(excludePatterns)
	if err != nil {
		return nil, err
	}
	return &ContractFilter{include: include, exclude: exclude}, nil
}

// Includes indicates whether a fully-qualified contract name passes the filter.
func (f *ContractFilter) Includes(qualifiedName string) bool {
	for _, matcher := range f.exclude {
		if matcher.Matches(qualifiedName) {
			return false
		}
	}
	if len(f.include) == 0 {
		return true
	}
	for _, matcher := range f.include {
		if matcher.Matches(qualifiedName) {
			return true
		}
	}
	return false
}

// SelectorFilter drops selectors listed in a group's skip list.
type SelectorFilter struct {
	// skipped describes the lowercase selectors to drop.
	skipped map[string]struct{}
}

// NewSelectorFilter returns a SelectorFilter dropping the provided lowercase selectors.
func NewSelectorFilter(skipSelectors []string) *SelectorFilter {
	skipped := make(map[string]struct{}, len(skipSelectors))
	for _, selector := range skipSelectors {
		skipped[selector] = struct{}{}
	}
	return &SelectorFilter{skipped: skipped}
}

// Skips indicates whether the provided selector is dropped.
func (f *SelectorFilter) Skips(selector string) bool {
	_, ok := f.skipped[selector]
	return ok
}
