package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runHeadless(t *testing.T, args ...string) string {
	t.Helper()
	headless, clicks, useScript, debugMode = false, 0, false, false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append([]string{"--headless"}, args...))
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestHeadless(t *testing.T) {
	assert.Equal(t, "3\n", runHeadless(t, "--clicks", "3"))
}

func TestHeadlessNoClicks(t *testing.T) {
	assert.Equal(t, "0\n", runHeadless(t), "the display keeps its page content")
}

func TestHeadlessScript(t *testing.T) {
	assert.Equal(t, "4\n", runHeadless(t, "--script", "--clicks", "4"))
}

func TestNegativeClicks(t *testing.T) {
	headless, clicks = false, 0
	rootCmd.SetArgs([]string{"--headless", "--clicks", "-1"})
	assert.Error(t, rootCmd.Execute())
}
