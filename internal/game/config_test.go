package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tileweave.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv(ConfigEnv, "")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, "dungeon", cfg.Tileset)
	assert.Equal(t, 100, cfg.CheckpointInterval)
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
seed: 77
width: 30
tileset: overworld
checkpoint_interval: 0
log_level: debug
telemetry: false
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, int64(77), cfg.Seed)
	assert.Equal(t, 30, cfg.Width)
	assert.Equal(t, DefaultConfig().Height, cfg.Height)
	assert.Equal(t, "overworld", cfg.Tileset)
	assert.Equal(t, 0, cfg.CheckpointInterval)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.Telemetry)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv(ConfigEnv, writeConfig(t, "seed: 5\n"))

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, int64(5), cfg.Seed)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "width: [1"},
		{"zero width", "width: 0"},
		{"negative interval", "checkpoint_interval: -3"},
		{"empty tileset", "tileset: \"\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
