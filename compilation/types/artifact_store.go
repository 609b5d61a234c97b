package types

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
)

// ArtifactParser parses the raw contents of an artifact file into a ContractArtifact.
type ArtifactParser func(path string, data []byte) (*ContractArtifact, error)

// ArtifactStore indexes the artifact files produced by a compilation platform by fully-qualified contract name and
// lazily reads them on request. Names are kept in discovery order.
type ArtifactStore struct {
	// names describes the fully-qualified contract names in the order they were discovered.
	names []string

	// paths maps each fully-qualified contract name to the artifact file describing it.
	paths map[string]string

	// parser converts artifact file contents into ContractArtifact objects.
	parser ArtifactParser
}

// NewArtifactStore returns a new, empty ArtifactStore which uses the provided parser to read artifacts.
func NewArtifactStore(parser ArtifactParser) *ArtifactStore {
	return &ArtifactStore{
		names:  make([]string, 0),
		paths:  make(map[string]string),
		parser: parser,
	}
}

// Add registers an artifact file under a fully-qualified contract name. Registering the same name twice is an error,
// as two artifacts would claim the same contract.
func (s *ArtifactStore) Add(qualifiedName string, path string) error {
	if existing, ok := s.paths[qualifiedName]; ok {
		return fmt.Errorf("contract '%s' is described by more than one artifact ('%s' and '%s')", qualifiedName, existing, path)
	}
	s.names = append(s.names, qualifiedName)
	s.paths[qualifiedName] = path
	return nil
}

// FullyQualifiedNames returns every registered fully-qualified contract name in discovery order.
func (s *ArtifactStore) FullyQualifiedNames() ([]string, error) {
	return append([]string{}, s.names...), nil
}

// ReadArtifact reads and parses the artifact registered for the provided fully-qualified contract name.
func (s *ArtifactStore) ReadArtifact(qualifiedName string) (*ContractArtifact, error) {
	path, ok := s.paths[qualifiedName]
	if !ok {
		return nil, errors.Errorf("no artifact is known for contract '%s'", qualifiedName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	artifact, err := s.parser(path, data)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse artifact '%s'", path)
	}
	return artifact, nil
}

// Path returns the artifact file registered for the provided fully-qualified contract name.
func (s *ArtifactStore) Path(qualifiedName string) (string, bool) {
	path, ok := s.paths[qualifiedName]
	return path, ok
}

// Len returns the number of registered artifacts.
func (s *ArtifactStore) Len() int {
	return len(s.names)
}
