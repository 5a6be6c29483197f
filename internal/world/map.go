// Package world builds and queries procedurally generated hex maps: regions,
// terrain, obstacles, and paths across them.
package world

import (
	"fmt"
	"math/rand"

	"github.com/talgya/hexworld/internal/hexgrid"
)

// Map holds the complete state of one generated map. It is not safe for
// concurrent use.
type Map struct {
	grid   hexgrid.Grid   // logical grid
	border hexgrid.Grid   // logical grid plus a one-hex ring on every side
	layout hexgrid.Layout // pixel geometry for renderers and noise sampling
	seed   int64

	numRegions    int
	regions       []int           // region id per logical hex
	centers       []hexgrid.Point // relaxed center per region, Invalid if absorbed
	graph         RegionGraph
	walkGraph     RegionGraph
	regionTerrain []Terrain

	// Indexed by border grid.
	terrain   []Terrain
	obstacles []bool

	selected    hexgrid.Point
	highlighted []int

	Stats GenStats
}

// NewMap partitions g into numRegions regions using rng and builds an
// obstacle-free map on top of them.
func NewMap(g hexgrid.Grid, numRegions, relaxRounds int, rng *rand.Rand) *Map {
	regions, centers := generateRegions(g, numRegions, relaxRounds, rng)
	return newMap(g, regions, centers)
}

// newMap wraps an existing region assignment. len(centers) is the region count.
func newMap(g hexgrid.Grid, regions []int, centers []hexgrid.Point) *Map {
	if len(regions) != g.Size() {
		panic(fmt.Sprintf("world: %d region ids for %s", len(regions), g))
	}
	border := hexgrid.New(g.Width()+2, g.Height()+2)
	m := &Map{
		grid:       g,
		border:     border,
		layout:     hexgrid.NewLayout(0),
		numRegions: len(centers),
		regions:    regions,
		centers:    centers,
		terrain:    make([]Terrain, border.Size()),
		obstacles:  make([]bool, border.Size()),
		selected:   hexgrid.Invalid,
	}
	for _, r := range regions {
		if r < 0 || r >= m.numRegions {
			panic(fmt.Sprintf("world: region id %d outside [0,%d)", r, m.numRegions))
		}
	}
	m.Rebuild()
	return m
}

// Grid returns the logical grid.
func (m *Map) Grid() hexgrid.Grid { return m.grid }

// BorderGrid returns the terrain grid, one hex larger than Grid on every side.
// Its hex (x+1, y+1) corresponds to logical hex (x, y).
func (m *Map) BorderGrid() hexgrid.Grid { return m.border }

// Layout returns the pixel layout used for this map.
func (m *Map) Layout() hexgrid.Layout { return m.layout }

// Seed returns the seed the map was generated from, 0 for hand-built maps.
func (m *Map) Seed() int64 { return m.seed }

// NumRegions returns the number of region ids, including empty regions.
func (m *Map) NumRegions() int { return m.numRegions }

// tIndex maps a logical hex (or a hex on the border ring) to its border grid
// index. InvalidIndex outside the border grid.
func (m *Map) tIndex(p hexgrid.Point) int {
	if p == hexgrid.Invalid {
		return hexgrid.InvalidIndex
	}
	return m.border.Index(p.Add(hexgrid.Point{X: 1, Y: 1}))
}

func (m *Map) tIndexOf(i int) int {
	return m.tIndex(m.grid.HexFromIndex(i))
}

// walkable reports whether logical hex i exists and has no obstacle.
func (m *Map) walkable(i int) bool {
	if i < 0 || i >= m.grid.Size() {
		return false
	}
	return !m.obstacles[m.tIndexOf(i)]
}

// TerrainAt returns the terrain drawn at p. Border ring positions (x in
// [-1,width], y in [-1,height]) are valid; anything further out is TerrainNone.
func (m *Map) TerrainAt(p hexgrid.Point) Terrain {
	t := m.tIndex(p)
	if t == hexgrid.InvalidIndex {
		return TerrainNone
	}
	return m.terrain[t]
}

// IsObstacle reports whether p holds an obstacle. Like TerrainAt it accepts
// border ring positions; positions beyond the ring count as obstacles.
func (m *Map) IsObstacle(p hexgrid.Point) bool {
	t := m.tIndex(p)
	if t == hexgrid.InvalidIndex {
		return true
	}
	return m.obstacles[t]
}

// IsWalkable reports whether p is on the logical grid and free of obstacles.
func (m *Map) IsWalkable(p hexgrid.Point) bool {
	return m.walkable(m.grid.Index(p))
}

// EdgeTransition returns the edge drawn on p's tile where it borders its
// neighbor in direction d, or TerrainNone.
func (m *Map) EdgeTransition(p hexgrid.Point, d hexgrid.Dir) Terrain {
	return EdgeTransition(m.TerrainAt(p), m.TerrainAt(hexgrid.Adjacent(p, d)))
}

// SetObstacle adds or removes the obstacle on a logical hex. Region graphs
// are stale until Rebuild is called. Reports false for off-grid hexes.
func (m *Map) SetObstacle(p hexgrid.Point, obstacle bool) bool {
	i := m.grid.Index(p)
	if i == hexgrid.InvalidIndex {
		return false
	}
	m.obstacles[m.tIndexOf(i)] = obstacle
	return true
}

// RegionAt returns the region of p, or -1 off the grid.
func (m *Map) RegionAt(p hexgrid.Point) int {
	i := m.grid.Index(p)
	if i == hexgrid.InvalidIndex {
		return -1
	}
	return m.regions[i]
}

// RegionCenter returns the relaxed center of region r. Invalid for absorbed
// regions and unknown ids.
func (m *Map) RegionCenter(r int) hexgrid.Point {
	if r < 0 || r >= m.numRegions {
		return hexgrid.Invalid
	}
	return m.centers[r]
}

// RegionTerrain returns the terrain assigned to region r.
func (m *Map) RegionTerrain(r int) Terrain {
	if r < 0 || r >= m.numRegions {
		return TerrainNone
	}
	return m.regionTerrain[r]
}

// RegionHexes returns the indices of every hex in region r.
func (m *Map) RegionHexes(r int) []int {
	var out []int
	for i, reg := range m.regions {
		if reg == r {
			out = append(out, i)
		}
	}
	return out
}

// RegionSizes returns the number of hexes in each region.
func (m *Map) RegionSizes() []int {
	return regionSizes(m.regions, m.numRegions)
}

// RegionGraph returns the adjacency of regions sharing a boundary.
func (m *Map) RegionGraph() RegionGraph { return m.graph }

// WalkableGraph returns the adjacency of regions joined by at least one pair
// of neighboring walkable hexes.
func (m *Map) WalkableGraph() RegionGraph { return m.walkGraph }

// WalkableCount returns the number of walkable logical hexes.
func (m *Map) WalkableCount() int {
	n := 0
	for i := 0; i < m.grid.Size(); i++ {
		if m.walkable(i) {
			n++
		}
	}
	return n
}

// Repair links every region into the walkable region graph and then
// reconnects the walkable hexes inside each region, clearing obstacles as
// needed. Returns the obstacles cleared by each step. Call Rebuild afterwards.
func (m *Map) Repair() (linked, repaired int) {
	linked = m.linkRegions()
	repaired = m.repairRegions()
	return linked, repaired
}

// Rebuild recomputes the region graphs, terrain colors and border ring from
// the current regions and obstacles.
func (m *Map) Rebuild() {
	m.graph, m.walkGraph = buildRegionGraphs(m.grid, m.regions, m.numRegions, m.walkable)
	m.regionTerrain = colorRegions(m.graph)
	for i, r := range m.regions {
		m.terrain[m.tIndexOf(i)] = m.regionTerrain[r]
	}
	m.mirrorBorder()
}

// mirrorBorder copies interior terrain and obstacles onto the border ring so
// edges render seamlessly. Corners mirror the grid's corners, the top and
// bottom rows mirror the hex directly inside, the left column mirrors its NE
// neighbor and the right column its SW neighbor.
func (m *Map) mirrorBorder() {
	copyCell := func(dst, src hexgrid.Point) {
		d, s := m.tIndex(dst), m.tIndex(src)
		m.terrain[d] = m.terrain[s]
		m.obstacles[d] = m.obstacles[s]
	}

	for _, d := range []hexgrid.Dir{hexgrid.NW, hexgrid.NE, hexgrid.SE, hexgrid.SW} {
		corner := m.border.HexCorner(d).Sub(hexgrid.Point{X: 1, Y: 1})
		copyCell(corner, m.grid.HexCorner(d))
	}

	w, h := m.grid.Width(), m.grid.Height()
	for x := 0; x < w; x++ {
		top := hexgrid.Point{X: x, Y: -1}
		copyCell(top, hexgrid.Adjacent(top, hexgrid.S))
		bottom := hexgrid.Point{X: x, Y: h}
		copyCell(bottom, hexgrid.Adjacent(bottom, hexgrid.N))
	}
	for y := 0; y < h; y++ {
		left := hexgrid.Point{X: -1, Y: y}
		copyCell(left, hexgrid.Adjacent(left, hexgrid.NE))
		right := hexgrid.Point{X: w, Y: y}
		copyCell(right, hexgrid.Adjacent(right, hexgrid.SW))
	}
}

// Obstacles returns the logical hexes holding obstacles, in index order.
func (m *Map) Obstacles() []hexgrid.Point {
	var out []hexgrid.Point
	for i := 0; i < m.grid.Size(); i++ {
		if !m.walkable(i) {
			out = append(out, m.grid.HexFromIndex(i))
		}
	}
	return out
}

// EmptyRegions returns the ids of regions absorbed during relaxation.
func (m *Map) EmptyRegions() []int {
	var out []int
	for r, n := range m.RegionSizes() {
		if n == 0 {
			out = append(out, r)
		}
	}
	return out
}

// String returns a summary of the map.
func (m *Map) String() string {
	return fmt.Sprintf("Map(%dx%d, regions=%d, seed=%d)", m.grid.Width(), m.grid.Height(), m.numRegions, m.seed)
}
