package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"runtime"
	"strings"
	"testing"

	"github.com/crytic/selectors/logging/colors"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAddAndRemoveWriter will test to Logger.AddWriter and Logger.RemoveWriter functions to ensure that they work as expected.
func TestAddAndRemoveWriter(t *testing.T) {
	// Create a base logger
	logger := NewLogger(zerolog.InfoLevel)

	// Add three types of writers
	logger.AddWriter(os.Stdout, UNSTRUCTURED, true)
	logger.AddWriter(os.Stderr, UNSTRUCTURED, false)
	logger.AddWriter(os.Stdin, STRUCTURED, false)

	// We should expect the underlying data structures are correctly updated
	assert.Equal(t, 1, len(logger.unstructuredWriters))
	assert.Equal(t, 1, len(logger.unstructuredColorWriters))
	assert.Equal(t, 1, len(logger.structuredWriters))

	// Try to add duplicate writers
	logger.AddWriter(os.Stdout, UNSTRUCTURED, true)
	logger.AddWriter(os.Stderr, UNSTRUCTURED, false)
	logger.AddWriter(os.Stdin, STRUCTURED, false)

	// Ensure that the lengths of the lists have not changed
	assert.Equal(t, 1, len(logger.unstructuredWriters))
	assert.Equal(t, 1, len(logger.unstructuredColorWriters))
	assert.Equal(t, 1, len(logger.structuredWriters))

	// Remove each writer
	logger.RemoveWriter(os.Stdout, UNSTRUCTURED, true)
	logger.RemoveWriter(os.Stderr, UNSTRUCTURED, false)
	logger.RemoveWriter(os.Stdin, STRUCTURED, false)

	// We should expect the underlying data structures are correctly updated
	assert.Equal(t, 0, len(logger.unstructuredWriters))
	assert.Equal(t, 0, len(logger.unstructuredColorWriters))
	assert.Equal(t, 0, len(logger.structuredWriters))
}

// TestDisabledColors verifies that the colorized writer prints plain text once colors are disabled.
func TestDisabledColors(t *testing.T) {
	logger := NewLogger(zerolog.InfoLevel)

	var buf bytes.Buffer
	logger.AddWriter(&buf, UNSTRUCTURED, true)

	colors.DisableColor()
	defer colors.EnableColor()
	logger.Info("foo")
	logger.Warn("bar ", colors.Bold, "baz", colors.Reset, StructuredLogInfo{"group": 1})
	logger.Error("qux", errors.New("boom"))

	output := buf.String()
	assert.Contains(t, output, colors.LEFT_ARROW+" foo\n")
	assert.Contains(t, output, "bar baz")
	assert.Contains(t, output, "error=boom")
	assert.NotContains(t, output, "\x1b[")
}

// TestColoredOutput verifies the colorized writer emits ANSI codes while colors are enabled.
func TestColoredOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("ANSI support depends on the console")
	}
	logger := NewLogger(zerolog.InfoLevel)

	var buf bytes.Buffer
	logger.AddWriter(&buf, UNSTRUCTURED, true)

	colors.EnableColor()
	logger.Error("qux", errors.New("boom"))
	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "qux")
}

// TestStructuredOutputCarriesContext ensures sub-logger context, errors and structured info reach JSON writers.
func TestStructuredOutputCarriesContext(t *testing.T) {
	logger := NewLogger(zerolog.InfoLevel)

	var buf bytes.Buffer
	logger.AddWriter(&buf, STRUCTURED, false)
	subLogger := logger.NewSubLogger("module", SELECTORS_SERVICE)

	subLogger.Warn("wrote ", colors.Bold, 3, colors.Reset, " files", errors.New("boom"), StructuredLogInfo{"group": 1})

	var event map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	assert.Equal(t, "warn", event["level"])
	assert.Equal(t, SELECTORS_SERVICE, event["module"])
	assert.Equal(t, "wrote 3 files", event["message"])
	assert.Equal(t, "boom", event["error"])
	assert.Equal(t, map[string]any{"group": float64(1)}, event["info"])
}

// TestLevelFiltering ensures events below the logger level are dropped.
func TestLevelFiltering(t *testing.T) {
	logger := NewLogger(zerolog.WarnLevel)

	var buf bytes.Buffer
	logger.AddWriter(&buf, UNSTRUCTURED, false)

	logger.Info("hidden")
	logger.Error("visible")
	assert.False(t, strings.Contains(buf.String(), "hidden"))
	assert.True(t, strings.Contains(buf.String(), "visible"))

	logger.SetLevel(zerolog.InfoLevel)
	logger.Info("now shown")
	assert.True(t, strings.Contains(buf.String(), "now shown"))
}
