package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerboseToggle(t *testing.T) {
	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestDebugSuppressedWhenNotVerbose(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stderr) })

	SetVerbose(false)
	Debug("hidden %s", "message")
	assert.Empty(t, buf.String())

	SetVerbose(true)
	Debug("visible %s", "message")
	assert.Contains(t, buf.String(), "visible message")
	SetVerbose(false)
}

func TestWarnAlwaysPrinted(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stderr) })

	SetVerbose(false)
	Warn("source %s unavailable", "connectors")
	assert.Contains(t, buf.String(), "source connectors unavailable")
}

func TestSection(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stderr) })

	SetVerbose(true)
	Section("Search Execution")
	assert.Contains(t, buf.String(), "=== Search Execution ===")
	SetVerbose(false)
}
