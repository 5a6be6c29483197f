// Map generation: Voronoi regions, clustered obstacles, connectivity repair,
// then region graphs and terrain coloring.
package world

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/talgya/hexworld/internal/entropy"
	"github.com/talgya/hexworld/internal/hexgrid"
)

// GenConfig holds map generation parameters. Only Regions, Seed and HexSize
// treat zero as "use the default"; start from DefaultGenConfig rather than a
// bare literal.
type GenConfig struct {
	Width             int            // Columns
	Height            int            // Rows
	Regions           int            // Region count (0 = DefaultRegions)
	Seed              int64          // Random seed (0 = fresh seed from entropy)
	RelaxRounds       int            // Voronoi relaxation rounds (0 = none, centers stay where sampled)
	ObstacleThreshold float64        // Relaxed sample above which a hex is blocked (0.0–1.0; 0 blocks nearly everything before repair)
	ObstacleSource    ObstacleSource // How raw obstacle samples are drawn ("" = uniform)
	HexSize           int            // Tile size in pixels (0 = hexgrid.DefaultHexSize)
}

// DefaultGenConfig returns a reasonable starting configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Width:             32,
		Height:            24,
		Regions:           DefaultRegions,
		Seed:              0,
		RelaxRounds:       DefaultRelaxRounds,
		ObstacleThreshold: DefaultObstacleThreshold,
		ObstacleSource:    UniformObstacles,
		HexSize:           hexgrid.DefaultHexSize,
	}
}

// SmallTestConfig returns a tiny, fixed-seed map for rapid iteration.
func SmallTestConfig() GenConfig {
	return GenConfig{
		Width:             12,
		Height:            10,
		Regions:           5,
		Seed:              42,
		RelaxRounds:       DefaultRelaxRounds,
		ObstacleThreshold: DefaultObstacleThreshold,
		ObstacleSource:    UniformObstacles,
		HexSize:           hexgrid.DefaultHexSize,
	}
}

// GenStats summarizes one Generate call.
type GenStats struct {
	Seed            int64         `json:"seed"`
	Width           int           `json:"width"`
	Height          int           `json:"height"`
	Regions         int           `json:"regions"`
	EmptyRegions    int           `json:"empty_regions"`
	ObstaclesPlaced int           `json:"obstacles_placed"`
	LinkCleared     int           `json:"link_cleared"`
	RepairCleared   int           `json:"repair_cleared"`
	Walkable        int           `json:"walkable"`
	Elapsed         time.Duration `json:"elapsed_ns"`
}

// Obstacles returns the obstacles left after linking and repair.
func (s GenStats) Obstacles() int {
	return s.ObstaclesPlaced - s.LinkCleared - s.RepairCleared
}

// Generate creates a complete map. The same config and non-zero seed always
// produce the same map.
func Generate(cfg GenConfig) *Map {
	start := time.Now()

	seed := cfg.Seed
	if seed == 0 {
		seed = entropy.SeedFromSource(nil)
	}
	regions := cfg.Regions
	if regions == 0 {
		regions = DefaultRegions
	}

	rng := rand.New(rand.NewSource(seed))
	g := hexgrid.New(cfg.Width, cfg.Height)

	m := NewMap(g, regions, cfg.RelaxRounds, rng)
	m.seed = seed
	m.layout = hexgrid.NewLayout(cfg.HexSize)

	var samples []float64
	switch cfg.ObstacleSource {
	case SimplexObstacles:
		samples = simplexSamples(g, m.layout, seed)
	default:
		samples = uniformSamples(g, rng)
	}
	placed := m.placeObstacles(samples, cfg.ObstacleThreshold)

	linked, repaired := m.Repair()
	m.Rebuild()

	m.Stats = GenStats{
		Seed:            seed,
		Width:           g.Width(),
		Height:          g.Height(),
		Regions:         regions,
		EmptyRegions:    len(m.EmptyRegions()),
		ObstaclesPlaced: placed,
		LinkCleared:     linked,
		RepairCleared:   repaired,
		Walkable:        m.WalkableCount(),
		Elapsed:         time.Since(start),
	}
	slog.Debug("map generated",
		"seed", seed,
		"size", g.String(),
		"obstacles", m.Stats.Obstacles(),
		"link_cleared", linked,
		"repair_cleared", repaired,
		"elapsed", m.Stats.Elapsed,
	)

	return m
}

// TerrainCounts returns a summary of terrain type distribution over the
// logical grid.
func TerrainCounts(m *Map) map[Terrain]int {
	counts := make(map[Terrain]int)
	for i := 0; i < m.grid.Size(); i++ {
		counts[m.TerrainAt(m.grid.HexFromIndex(i))]++
	}
	return counts
}
