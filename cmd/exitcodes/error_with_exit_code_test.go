package exitcodes

import (
	"fmt"
	"testing"

	"github.com/crytic/selectors/selectors"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		err      error
		exitCode int
	}{
		{nil, ExitCodeSuccess},
		{errors.New("boom"), ExitCodeGeneralError},
		{&selectors.ConfigurationError{Group: 0, Field: "only"}, ExitCodeConfigurationError},
		{&selectors.ArtifactReadError{Name: "contracts/Token.sol:Token"}, ExitCodeArtifactReadError},
		{&selectors.WriteError{Path: "selectors.json"}, ExitCodeWriteError},
		{&selectors.CollisionError{Selector: "0x42966c68"}, ExitCodeCollisionError},
		{&selectors.HashPrimitiveError{Signature: "foo()"}, ExitCodeGeneralError},
		{fmt.Errorf("wrapped: %w", &selectors.WriteError{Path: "selectors.json"}), ExitCodeWriteError},
		{errors.Wrap(&selectors.ArtifactReadError{}, "wrapped"), ExitCodeArtifactReadError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.exitCode, ExitCodeForError(tt.err), fmt.Sprintf("%v", tt.err))
	}
}

func TestGetInnerErrorAndExitCode(t *testing.T) {
	err, exitCode := GetInnerErrorAndExitCode(nil)
	assert.NoError(t, err)
	assert.Equal(t, ExitCodeSuccess, exitCode)

	inner := &selectors.WriteError{Path: "out/selectors.json", Err: errors.New("permission denied")}
	err, exitCode = GetInnerErrorAndExitCode(NewHandledError(inner))
	assert.Same(t, inner, err)
	assert.Equal(t, ExitCodeWriteError, exitCode)

	generic := errors.New("boom")
	err, exitCode = GetInnerErrorAndExitCode(generic)
	assert.Equal(t, generic, err)
	assert.Equal(t, ExitCodeGeneralError, exitCode)
}
