package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/cascade/internal/logging"
	"github.com/aretw0/cascade/internal/testutils"
	"github.com/aretw0/cascade/pkg/domain"
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

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSpec_File(t *testing.T) {
	path := writeFile(t, t.TempDir(), "menu.yaml", menuScene)

	spec, err := LoadSpec(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "menu", spec.Name)
	assert.Len(t, spec.Entities, 2)
}

func TestLoadSpec_Directory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "panel")
	testutils.WriteFiles(t, dir, map[string]string{
		"panel.md": "---\nrules:\n  - on: clicked\n    relationship: child\n    change: change_visible\n---\n",
		"row.md":   "---\nparent: panel\ngroups: display\ndisplay: flex\n---\n",
	})

	spec, err := LoadSpec(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "panel", spec.Name)
	assert.Len(t, spec.Entities, 2)
}

func TestLoadSpec_Missing(t *testing.T) {
	_, err := LoadSpec(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoScene)

	_, err = LoadSpec(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestNewStack_RejectsInvalidScene(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.yaml", "entities:\n  - name: a\n    parent: ghost\n")

	_, err := NewStack(context.Background(), Config{Scene: path}, logging.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestNewStack_InMemory(t *testing.T) {
	ctx := context.Background()
	path := writeFile(t, t.TempDir(), "menu.yaml", menuScene)

	st, err := NewStack(ctx, Config{Scene: path, Name: "renamed"}, logging.NewNop())
	require.NoError(t, err)
	defer st.Close()
	assert.Equal(t, "renamed", st.Spec.Name)

	menu, ok := st.Engine.Resolve("menu")
	require.True(t, ok)
	_, err = st.Engine.Trigger(ctx, domain.Signal{Entity: menu, Kind: domain.Clicked})
	require.NoError(t, err)
	report, err := st.Engine.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Applied())

	families, err := st.Registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNewStack_Redis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	ctx := context.Background()
	path := writeFile(t, t.TempDir(), "menu.yaml", menuScene)
	cfg, err := LoadConfig()
	require.NoError(t, err)
	cfg.Scene = path
	cfg.RedisAddr = mr.Addr()

	st, err := NewStack(ctx, cfg, logging.NewNop())
	require.NoError(t, err)
	defer st.Close()

	menu, _ := st.Engine.Resolve("menu")
	_, err = st.Engine.Trigger(ctx, domain.Signal{Entity: menu, Kind: domain.Clicked})
	require.NoError(t, err)
	assert.True(t, mr.Exists("cascade:queue:menu"))

	report, err := st.Engine.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Batches)
	assert.False(t, mr.Exists("cascade:queue:menu"))
}

func TestNewStack_RedisUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	path := writeFile(t, t.TempDir(), "menu.yaml", menuScene)
	_, err = NewStack(context.Background(), Config{Scene: path, RedisAddr: addr}, logging.NewNop())
	assert.Error(t, err)
}
