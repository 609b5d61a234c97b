package config

import (
	"fmt"
)

// ProjectScope is the group index used by a ConfigurationError which does not concern a single function selector
// group.
const ProjectScope = -1

// ConfigurationError describes an invalid or missing configuration. It is raised before any artifact is read, so no
// output is written when it occurs.
type ConfigurationError struct {
	// Group describes the index of the offending function selector group, or ProjectScope.
	Group int

	// Field describes the JSON name of the offending field, if any.
	Field string

	// Value describes the offending value, if any.
	Value string

	// Err describes the underlying cause.
	Err error
}

// Error returns the error message describing the offending group, field and value.
func (e *ConfigurationError) Error() string {
	location := "project configuration"
	if e.Group != ProjectScope {
		location = fmt.Sprintf("function selector group %d", e.Group)
	}
	if e.Field != "" {
		location = fmt.Sprintf("%s, field '%s'", location, e.Field)
	}
	if e.Value != "" {
		location = fmt.Sprintf("%s, value '%s'", location, e.Value)
	}
	if e.Err == nil {
		return "invalid " + location
	}
	return fmt.Sprintf("invalid %s: %v", location, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Cause returns the underlying cause, for github.com/pkg/errors compatibility.
func (e *ConfigurationError) Cause() error {
	return e.Err
}

// newGroupError creates a ConfigurationError for a field of the function selector group at the provided index.
func newGroupError(group int, field string, value string, err error) *ConfigurationError {
	return &ConfigurationError{Group: group, Field: field, Value: value, Err: err}
}
