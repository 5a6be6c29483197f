package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDeterministic(t *testing.T) {
	cfg := SmallTestConfig()
	a := Generate(cfg)
	b := Generate(cfg)

	assert.Equal(t, a.regions, b.regions)
	assert.Equal(t, a.centers, b.centers)
	assert.Equal(t, a.terrain, b.terrain)
	assert.Equal(t, a.obstacles, b.obstacles)
	assert.Equal(t, a.WalkableGraph(), b.WalkableGraph())
	assert.Equal(t, int64(42), a.Seed())
}

func TestGenerateSeedsDiffer(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Seed = 1
	a := Generate(cfg)
	cfg.Seed = 2
	b := Generate(cfg)
	assert.NotEqual(t, a.regions, b.regions)
}

func TestGenerateRandomSeed(t *testing.T) {
	cfg := SmallTestConfig()
	cfg.Seed = 0
	m := Generate(cfg)
	assert.NotZero(t, m.Seed())
	assert.Equal(t, m.Seed(), m.Stats.Seed)
}

func TestGenerateStats(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Seed = 1234
	m := Generate(cfg)
	s := m.Stats

	size := cfg.Width * cfg.Height
	assert.Equal(t, cfg.Width, s.Width)
	assert.Equal(t, cfg.Height, s.Height)
	assert.Equal(t, DefaultRegions, s.Regions)
	assert.Equal(t, DefaultRegions, m.NumRegions())
	assert.Equal(t, m.WalkableCount(), s.Walkable)
	assert.Equal(t, size, s.Walkable+s.Obstacles())
	assert.Len(t, m.Obstacles(), s.Obstacles())
	assert.Equal(t, len(m.EmptyRegions()), s.EmptyRegions)
	assert.Positive(t, s.ObstaclesPlaced, "0.58 over a 32x24 map blocks something")
	assert.Positive(t, s.Elapsed)
}

func TestGenerateZeroRegionsUsesDefault(t *testing.T) {
	cfg := SmallTestConfig()
	cfg.Regions = 0
	m := Generate(cfg)
	assert.Equal(t, DefaultRegions, m.NumRegions())
}

func TestGenerateZeroThresholdAndRoundsAreLiteral(t *testing.T) {
	cfg := GenConfig{Width: 10, Height: 8, Regions: 4, Seed: 7}
	m := Generate(cfg)

	assert.Equal(t, 80, m.Stats.ObstaclesPlaced, "threshold 0 blocks every hex with a positive mean")
	assert.Positive(t, m.Stats.LinkCleared)
	assert.Equal(t, m.WalkableCount(), 80-m.Stats.Obstacles())
	requireRegionsConnected(t, m)

	def := DefaultGenConfig()
	def.Width, def.Height, def.Regions, def.Seed = 10, 8, 4, 7
	assert.Less(t, Generate(def).Stats.ObstaclesPlaced, 80)
}

func TestGenerateHexSize(t *testing.T) {
	cfg := SmallTestConfig()
	cfg.HexSize = 36
	assert.Equal(t, 36, Generate(cfg).Layout().HexSize)
}

func TestTerrainCounts(t *testing.T) {
	m := Generate(SmallTestConfig())
	counts := TerrainCounts(m)

	total := 0
	for terrain, n := range counts {
		require.True(t, terrain.Valid(), "%v", terrain)
		total += n
	}
	assert.Equal(t, m.Grid().Size(), total)
}

func TestMapString(t *testing.T) {
	m := Generate(SmallTestConfig())
	assert.Equal(t, "Map(12x10, regions=5, seed=42)", m.String())
}
