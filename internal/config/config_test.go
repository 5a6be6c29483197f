package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hexworld/internal/world"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hexworld.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultMatchesGenerator(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, world.DefaultGenConfig(), cfg.GenConfig())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "data/hexworld.db", cfg.Storage.Path)
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.Map.Width)
	assert.Equal(t, 18, cfg.Map.Regions)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
map:
  width: 20
  height: 10
  seed: 7
  obstacle_source: simplex
server:
  port: 9090
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	gen := cfg.GenConfig()
	assert.Equal(t, 20, gen.Width)
	assert.Equal(t, 10, gen.Height)
	assert.Equal(t, int64(7), gen.Seed)
	assert.Equal(t, world.SimplexObstacles, gen.ObstacleSource)
	assert.Equal(t, 18, gen.Regions, "keys missing from the file keep their defaults")
	assert.Equal(t, 0.58, gen.ObstacleThreshold)
	assert.Equal(t, 9090, cfg.Server.Port)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadZeroedDefaults(t *testing.T) {
	path := writeConfig(t, "map:\n  regions: 0\n  hex_size: 0\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, world.DefaultRegions, cfg.Map.Regions)
	assert.Equal(t, 72, cfg.Map.HexSize)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HEXWORLD_SEED", "12345")
	t.Setenv("HEXWORLD_PORT", "7000")
	t.Setenv("HEXWORLD_DB", "/tmp/runs.db")
	t.Setenv("HEXWORLD_LOG_LEVEL", "warn")
	t.Setenv("RANDOM_ORG_API_KEY", "key")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(12345), cfg.Map.Seed)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "/tmp/runs.db", cfg.Storage.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "key", cfg.Entropy.RandomOrgKey)
}

func TestEnvBadSeed(t *testing.T) {
	t.Setenv("HEXWORLD_SEED", "abc")
	_, err := Load("")
	assert.ErrorContains(t, err, "HEXWORLD_SEED")
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")

	_, err = Load(writeConfig(t, "map: [not, a, map]"))
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Map.Width = 0
	cfg.Map.ObstacleThreshold = 2
	cfg.Map.ObstacleSource = "perlin"
	cfg.Log.Level = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "map size")
	assert.Contains(t, err.Error(), "obstacle_threshold")
	assert.Contains(t, err.Error(), "perlin")
	assert.Contains(t, err.Error(), "log level")

	_, err = Load(writeConfig(t, "map:\n  relaxation_rounds: -1\n"))
	assert.ErrorContains(t, err, "invalid config")
}
