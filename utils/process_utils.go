package utils

import (
	"bytes"
	"io"
	"os/exec"
	"sync"
)

// RunCommandWithOutputAndError runs a command and returns its stdout, stderr and interleaved combined output. The
// error is the one returned by exec.Cmd.Run.
func RunCommandWithOutputAndError(command *exec.Cmd) ([]byte, []byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	combined := &lockedBuffer{}

	command.Stdout = io.MultiWriter(&stdout, combined)
	command.Stderr = io.MultiWriter(&stderr, combined)
	err := command.Run()
	return stdout.Bytes(), stderr.Bytes(), combined.buf.Bytes(), err
}

// lockedBuffer is a bytes.Buffer which stdout and stderr may write to concurrently.
type lockedBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}
