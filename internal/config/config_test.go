package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"culiflow/internal/config"
)

func TestDefaultValidates(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "current-user", cfg.Actor)
	assert.Equal(t, 20, cfg.Board.SnapshotTasks)
	assert.Equal(t, "garde", cfg.Aliases.Stations["garde"])
}

func TestFromYAMLLayersOverDefaults(t *testing.T) {
	cfg, err := config.FromYAML([]byte(`
actor: chef-mike
aliases:
  stations:
    expo: hot-line
`))
	require.NoError(t, err)
	assert.Equal(t, "chef-mike", cfg.Actor)
	// defaults survive a partial file
	assert.Equal(t, 20, cfg.Board.SnapshotTasks)

	p := cfg.NewParser()
	assert.Equal(t, "hot-line", p.Stations["expo"])
	assert.Equal(t, "garde", p.Stations["garde"])
}

func TestFromYAMLRejectsBadConfig(t *testing.T) {
	_, err := config.FromYAML([]byte(`actor: ""`))
	require.Error(t, err)

	_, err = config.FromYAML([]byte(`board: {snapshot_tasks: -1}`))
	require.Error(t, err)

	_, err = config.FromYAML([]byte("actor: [not a string"))
	require.Error(t, err)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "current-user", cfg.Actor)
}

func TestLoadReadsWorkspaceFile(t *testing.T) {
	dir := t.TempDir()
	data := "actor: chef-sara\nboard:\n  snapshot_tasks: 5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "culiflow.yml"), []byte(data), 0o644))

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "chef-sara", cfg.Actor)
	assert.Equal(t, 5, cfg.Board.SnapshotTasks)
}
