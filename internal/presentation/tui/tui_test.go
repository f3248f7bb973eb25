package tui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.2.3")
	assert.Contains(t, buf.String(), "v1.2.3")
	assert.Contains(t, buf.String(), "| (_| (_| \\__ \\")
}

func TestNewRenderer(t *testing.T) {
	render, err := NewRenderer(60)
	require.NoError(t, err)

	out, err := render("### open (e2)\n\n| attribute | value |\n|---|---|\n| display | display(none) |\n")
	require.NoError(t, err)
	assert.Contains(t, out, "open (e2)")
	assert.Contains(t, out, "display(none)")
}
