package utils

import (
	"os/exec"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCommandWithOutputAndError(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	stdout, stderr, combined, err := RunCommandWithOutputAndError(exec.Command("sh", "-c", "echo out; echo err 1>&2"))
	require.NoError(t, err)
	assert.Equal(t, "out\n", string(stdout))
	assert.Equal(t, "err\n", string(stderr))
	assert.Contains(t, string(combined), "out\n")
	assert.Contains(t, string(combined), "err\n")

	_, _, _, err = RunCommandWithOutputAndError(exec.Command("sh", "-c", "exit 3"))
	assert.Error(t, err)
}
