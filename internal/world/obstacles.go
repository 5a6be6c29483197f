package world

import (
	"fmt"
	"log/slog"
	"math/rand"
	"slices"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/hexworld/internal/hexgrid"
	"github.com/talgya/hexworld/internal/pathfind"
)

// DefaultObstacleThreshold is the relaxed sample value above which a hex
// gets an obstacle.
const DefaultObstacleThreshold = 0.58

// ObstacleSource selects how raw per-hex obstacle samples are drawn.
type ObstacleSource string

const (
	// UniformObstacles draws an independent uniform value per hex.
	UniformObstacles ObstacleSource = "uniform"
	// SimplexObstacles samples OpenSimplex noise at each hex's pixel center.
	SimplexObstacles ObstacleSource = "simplex"
)

// ParseObstacleSource maps a config string to a source. Empty means uniform.
func ParseObstacleSource(s string) (ObstacleSource, error) {
	switch ObstacleSource(s) {
	case "", UniformObstacles:
		return UniformObstacles, nil
	case SimplexObstacles:
		return SimplexObstacles, nil
	default:
		return "", fmt.Errorf("unknown obstacle source %q", s)
	}
}

// uniformSamples draws one value in [0,1) per hex.
func uniformSamples(g hexgrid.Grid, rng *rand.Rand) []float64 {
	samples := make([]float64, g.Size())
	for i := range samples {
		samples[i] = rng.Float64()
	}
	return samples
}

// simplexSamples evaluates layered noise at the pixel center of each hex, so
// the clumps follow the drawn map rather than the staggered index space.
func simplexSamples(g hexgrid.Grid, layout hexgrid.Layout, seed int64) []float64 {
	noise := opensimplex.NewNormalized(seed)
	size := float64(layout.HexSize)

	samples := make([]float64, g.Size())
	for i := range samples {
		cx, cy := layout.CenterOf(g.HexFromIndex(i))
		samples[i] = octaveNoise(noise, float64(cx)/size, float64(cy)/size, 3, 0.35, 0.5)
	}
	return samples
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

// placeObstacles relaxes the samples once, replacing each hex's value with
// the mean of its neighbors' original values, and marks every hex whose
// relaxed value exceeds threshold. Returns the number of obstacles placed.
func (m *Map) placeObstacles(samples []float64, threshold float64) int {
	if threshold < 0 || threshold > 1 {
		panic(fmt.Sprintf("world: obstacle threshold %v outside [0,1]", threshold))
	}

	placed := 0
	for i := range samples {
		neighbors := m.grid.Neighbors(i)
		value := samples[i]
		if len(neighbors) > 0 {
			sum := 0.0
			for _, n := range neighbors {
				sum += samples[n]
			}
			value = sum / float64(len(neighbors))
		}
		if value > threshold {
			m.obstacles[m.tIndexOf(i)] = true
			placed++
		}
	}
	return placed
}

// clear removes the obstacle on hex i. Reports whether there was one.
func (m *Map) clear(i int) bool {
	t := m.tIndexOf(i)
	if !m.obstacles[t] {
		return false
	}
	m.obstacles[t] = false
	return true
}

// linkRegions clears obstacles until every non-empty region can reach every
// other through walkable boundary crossings. Starting from the first
// non-empty region, it repeatedly opens the first boundary hex pair (lowest
// hex index, then direction order) between a reached and an unreached region.
// Returns the number of obstacles removed.
func (m *Map) linkRegions() int {
	sizes := regionSizes(m.regions, m.numRegions)
	root := slices.IndexFunc(sizes, func(n int) bool { return n > 0 })
	if root < 0 {
		return 0
	}

	cleared := 0
	for {
		_, walk := buildRegionGraphs(m.grid, m.regions, m.numRegions, m.walkable)
		reached := reachable(walk, root)

		a, b := m.firstCrossing(reached)
		if a == hexgrid.InvalidIndex {
			return cleared
		}
		if m.clear(a) {
			cleared++
		}
		if m.clear(b) {
			cleared++
		}
		slog.Debug("linked regions",
			"from", m.regions[a], "to", m.regions[b],
			"hex", m.grid.HexFromIndex(a), "neighbor", m.grid.HexFromIndex(b))
	}
}

// firstCrossing finds the first pair of neighboring hexes where the first is
// in a reached region and the second is not.
func (m *Map) firstCrossing(reached []bool) (int, int) {
	for i, r := range m.regions {
		if !reached[r] {
			continue
		}
		for _, n := range m.grid.Neighbors(i) {
			if !reached[m.regions[n]] {
				return i, n
			}
		}
	}
	return hexgrid.InvalidIndex, hexgrid.InvalidIndex
}

// reachable marks every region reachable from root in g.
func reachable(g RegionGraph, root int) []bool {
	seen := make([]bool, len(g))
	seen[root] = true
	queue := []int{root}
	for len(queue) > 0 {
		r := queue[0]
		queue = queue[1:]
		for _, n := range g[r] {
			if !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	return seen
}

// sameRegionNeighbors lists the neighbors of i that share its region,
// obstacles included.
func (m *Map) sameRegionNeighbors(i int) []int {
	reg := m.regions[i]
	out := make([]int, 0, 6)
	for _, n := range m.grid.Neighbors(i) {
		if m.regions[n] == reg {
			out = append(out, n)
		}
	}
	return out
}

// repairRegions makes the walkable hexes of every region mutually reachable
// without leaving the region. Returns the number of obstacles removed.
func (m *Map) repairRegions() int {
	visited := make([]bool, m.grid.Size())
	queued := make([]bool, m.numRegions)
	var queue []int
	for r := 0; r < m.numRegions; r++ {
		queue = append(queue, r)
		queued[r] = true
	}

	cleared := 0
	for len(queue) > 0 {
		r := queue[0]
		queue = queue[1:]
		queued[r] = false

		n, touched := m.repairRegion(r, visited)
		cleared += n
		// A bridge out of a detached fragment may have opened hexes in
		// regions that were already repaired.
		for _, t := range touched {
			if !queued[t] {
				queue = append(queue, t)
				queued[t] = true
			}
		}
	}
	return cleared
}

// repairRegion connects the walkable hexes of region r. It floods from one
// walkable hex, then repeatedly takes the first hex the flood missed, searches
// from it to the visited set through same-region hexes, and clears the path.
// Returns the obstacles removed and any other regions whose hexes were
// cleared while bridging a detached fragment.
func (m *Map) repairRegion(r int, visited []bool) (int, []int) {
	var hexes []int
	for i, reg := range m.regions {
		if reg != r {
			continue
		}
		visited[i] = false
		if m.walkable(i) {
			hexes = append(hexes, i)
		}
	}
	if len(hexes) <= 1 {
		for _, h := range hexes {
			visited[h] = true
		}
		return 0, nil
	}

	inRegion := func(n int) bool {
		return m.regions[n] == r && visited[n] && m.walkable(n)
	}

	cleared := 0
	var touched []int
	start := hexes[0]
	for {
		m.flood(start, visited)

		idx := slices.IndexFunc(hexes, func(h int) bool { return !visited[h] })
		if idx < 0 {
			return cleared, touched
		}
		lost := hexes[idx]

		pf := pathfind.Pathfinder{Neighbors: m.sameRegionNeighbors, Goal: inRegion}
		path := pf.PathFrom(lost)
		if len(path) == 0 {
			slog.Warn("region fragment is detached, bridging through neighbors",
				"region", r, "hex", m.grid.HexFromIndex(lost))
			pf.Neighbors = m.grid.Neighbors
			path = pf.PathFrom(lost)
		}

		for _, h := range path {
			if m.clear(h) {
				cleared++
				if reg := m.regions[h]; reg != r && !slices.Contains(touched, reg) {
					touched = append(touched, reg)
				}
			}
			if m.regions[h] == r {
				visited[h] = true
			}
		}
		start = lost
	}
}

// flood marks every walkable hex reachable from start without leaving its
// region.
func (m *Map) flood(start int, visited []bool) {
	visited[start] = true
	queue := []int{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range m.sameRegionNeighbors(cur) {
			if m.walkable(n) && !visited[n] {
				visited[n] = true
				queue = append(queue, n)
			}
		}
	}
}
