package selectors

import (
	"fmt"

	"github.com/crytic/selectors/selectors/config"
)

// ConfigurationError describes an invalid or missing configuration, detected before any artifact is read.
type ConfigurationError = config.ConfigurationError

// ArtifactReadError describes an artifact which could not be located or parsed. It fails only the group reading it.
type ArtifactReadError struct {
	// Name describes the fully-qualified name of the contract whose artifact failed, or is empty if the artifacts
	// could not be enumerated at all.
	Name string

	// Err describes the underlying cause.
	Err error
}

// Error returns the error message naming the offending contract.
func (e *ArtifactReadError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("could not enumerate contract artifacts: %v", e.Err)
	}
	return fmt.Sprintf("could not read the artifact of contract '%s': %v", e.Name, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ArtifactReadError) Unwrap() error { return e.Err }

// Cause returns the underlying cause, for github.com/pkg/errors compatibility.
func (e *ArtifactReadError) Cause() error { return e.Err }

// HashPrimitiveError describes a failure to encode or hash a well-formed signature.
type HashPrimitiveError struct {
	// Signature describes the signature which could not be hashed.
	Signature string

	// Err describes the underlying cause.
	Err error
}

// Error returns the error message naming the offending signature.
func (e *HashPrimitiveError) Error() string {
	return fmt.Sprintf("could not compute the selector of '%s': %v", e.Signature, e.Err)
}

// Unwrap returns the underlying cause.
func (e *HashPrimitiveError) Unwrap() error { return e.Err }

// Cause returns the underlying cause, for github.com/pkg/errors compatibility.
func (e *HashPrimitiveError) Cause() error { return e.Err }

// WriteError describes a filesystem failure while creating the output directory or writing the output file.
type WriteError struct {
	// Path describes the path which could not be written.
	Path string

	// Err describes the underlying cause.
	Err error
}

// Error returns the error message naming the offending path.
func (e *WriteError) Error() string {
	return fmt.Sprintf("could not write function selectors to '%s': %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *WriteError) Unwrap() error { return e.Err }

// Cause returns the underlying cause, for github.com/pkg/errors compatibility.
func (e *WriteError) Cause() error { return e.Err }

// CollisionError describes two different labels claiming the same selector under the "error" collision policy.
type CollisionError struct {
	// Contract describes the contract the incoming label was read from.
	Contract string

	// Selector describes the contested selector.
	Selector string

	// Existing describes the label already recorded for the selector.
	Existing string

	// Incoming describes the label which collided with it.
	Incoming string
}

// Error returns the error message naming both labels.
func (e *CollisionError) Error() string {
	return fmt.Sprintf("selector %s of '%s' in contract '%s' collides with '%s'", e.Selector, e.Incoming, e.Contract, e.Existing)
}
