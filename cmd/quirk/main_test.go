package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	transforms, attackFile = nil, ""
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestList(t *testing.T) {
	out := execute(t, "list")
	for _, name := range []string{"delete", "redact", "reduplicate", "spongecase", "swap", "zerowidth"} {
		assert.Contains(t, out, name)
	}
}

func TestPlan(t *testing.T) {
	out := execute(t, "plan", "-t", "redact", "-t", "spongecase", "-t", "swap(rate=0.1)", "--seed", "3")
	assert.Contains(t, out, "seed 3\n")
	assert.Contains(t, out, "2 steps, all pipeline: false")
	assert.Contains(t, out, "fallback")
}
