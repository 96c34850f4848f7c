package ui

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetColor(false)
	SetQuietMode(false)
	t.Cleanup(func() {
		SetOutput(os.Stdout)
		SetQuietMode(false)
	})
	return &buf
}

func TestPrintWithoutColor(t *testing.T) {
	buf := capture(t)

	PrintInfo("Output", "./downloads")
	PrintError("Failed to open portal", "timeout")
	PrintSuccess("done")

	assert.Equal(t, "Output: ./downloads\nFailed to open portal: timeout\ndone\n", buf.String())
}

func TestColorWrapsText(t *testing.T) {
	capture(t)
	SetColor(true)
	defer SetColor(false)

	assert.Equal(t, "\033[32mok\033[0m", Green("ok"))
}

func TestQuietModeKeepsErrors(t *testing.T) {
	buf := capture(t)
	SetQuietMode(true)

	PrintInfo("Output", "./downloads")
	PrintWarning("careful")
	PrintError("boom")

	assert.Equal(t, "boom\n", buf.String())
}

func TestPrintSummary(t *testing.T) {
	buf := capture(t)

	PrintSummary(3, 10, 2, 1)

	out := buf.String()
	assert.Contains(t, out, "Categories: 3")
	assert.Contains(t, out, "Exports triggered: 10")
	assert.Contains(t, out, "Already downloaded: 2")
	assert.Contains(t, out, "Failed exports: 1")
}
