package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const menuScene = `
name: menu
entities:
  - name: menu
    rules:
      - on: clicked
        relationship: child
        change: change_visible
  - name: open
    parent: menu
    groups: display
    display: flex
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeScene(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "menu.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", writeScene(t, menuScene))
	require.NoError(t, err)
	assert.Contains(t, out, `Scene "menu" is valid`)
	assert.Contains(t, out, "2 entities, 1 rules")

	_, err = execute(t, "validate", writeScene(t, "entities:\n  - name: a\n    parent: ghost\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown parent 'ghost'")
}

func TestGraphCommand_WithScript(t *testing.T) {
	scene := writeScene(t, menuScene)
	script := filepath.Join(t.TempDir(), "click.yaml")
	require.NoError(t, os.WriteFile(script, []byte("steps:\n  - click menu\n"), 0o644))

	out, err := execute(t, "graph", scene, "--script", script)
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, "class e2 changed;")
}

func TestSimulateCommand_JSON(t *testing.T) {
	scene := writeScene(t, menuScene)
	script := filepath.Join(t.TempDir(), "click.yaml")
	require.NoError(t, os.WriteFile(script, []byte("auto_tick: true\nsteps:\n  - click menu\n  - inspect open\n"), 0o644))

	out, err := execute(t, "simulate", scene, "--script", script, "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"type":"trigger"`)
	assert.Contains(t, out, `"type":"tick"`)
	assert.Contains(t, out, `"display":"display(none)"`)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "cascade version 0.1.0")
}
