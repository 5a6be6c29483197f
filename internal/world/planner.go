package world

import (
	"github.com/talgya/hexworld/internal/hexgrid"
	"github.com/talgya/hexworld/internal/pathfind"
)

// RegionPath returns a shortest chain of regions from a to b over the
// walkable region graph, both ends included. Empty if b cannot be reached.
func (m *Map) RegionPath(a, b int) []int {
	if a < 0 || a >= m.numRegions || b < 0 || b >= m.numRegions {
		return nil
	}
	pf := pathfind.Pathfinder{
		Neighbors: m.walkGraph.Neighbors,
		Goal:      pathfind.GoalNode(b),
	}
	return pf.PathFrom(a)
}

// FindPath returns a walkable route of hex indices from src to dst, both
// included, or nil when either end is blocked or no route exists.
//
// Routes inside one region come from a single search. Otherwise the route
// first follows RegionPath, then walks it one leg at a time: each leg stays in
// the current and next region and ends on the first hex of the next region,
// except the last leg, which ends on dst. When a leg finds nothing, as in a
// region split into separate pieces, the route falls back to one search over
// every walkable hex.
func (m *Map) FindPath(src, dst int) []int {
	if !m.walkable(src) || !m.walkable(dst) {
		return nil
	}
	if src == dst {
		return []int{src}
	}

	from, to := m.regions[src], m.regions[dst]
	if from == to {
		if path := m.leg(src, from, to, pathfind.GoalNode(dst), m.distanceTo(dst)); len(path) > 0 {
			return path
		}
		// A region whose hexes do not touch can only be crossed through its
		// neighbors.
		return m.openPath(src, dst)
	}

	chain := m.RegionPath(from, to)
	if len(chain) == 0 {
		return nil
	}

	path := []int{src}
	cur := src
	for k := 0; k+1 < len(chain); k++ {
		here, next := chain[k], chain[k+1]

		var leg []int
		if k+2 == len(chain) {
			leg = m.leg(cur, here, next, pathfind.GoalNode(dst), m.distanceTo(dst))
		} else {
			entered := func(n int) bool { return m.regions[n] == next }
			leg = m.leg(cur, here, next, entered, nil)
		}
		if len(leg) == 0 {
			return m.openPath(src, dst)
		}
		path = append(path, leg[1:]...)
		cur = leg[len(leg)-1]
	}
	return path
}

// FindHexPath is FindPath in hex coordinates.
func (m *Map) FindHexPath(src, dst hexgrid.Point) []hexgrid.Point {
	idx := m.FindPath(m.grid.Index(src), m.grid.Index(dst))
	if len(idx) == 0 {
		return nil
	}
	out := make([]hexgrid.Point, len(idx))
	for i, n := range idx {
		out[i] = m.grid.HexFromIndex(n)
	}
	return out
}

// openPath searches the whole map, ignoring regions.
func (m *Map) openPath(src, dst int) []int {
	pf := pathfind.Pathfinder{
		Neighbors: func(n int) []int {
			out := make([]int, 0, 6)
			for _, nb := range m.grid.Neighbors(n) {
				if m.walkable(nb) {
					out = append(out, nb)
				}
			}
			return out
		},
		Goal:     pathfind.GoalNode(dst),
		Estimate: m.distanceTo(dst),
	}
	return pf.PathFrom(src)
}

// leg searches from start over walkable hexes belonging to region a or b.
func (m *Map) leg(start, a, b int, goal func(int) bool, estimate func(int) int) []int {
	pf := pathfind.Pathfinder{
		Neighbors: func(n int) []int {
			out := make([]int, 0, 6)
			for _, nb := range m.grid.Neighbors(n) {
				if r := m.regions[nb]; (r == a || r == b) && m.walkable(nb) {
					out = append(out, nb)
				}
			}
			return out
		},
		Goal:     goal,
		Estimate: estimate,
	}
	return pf.PathFrom(start)
}

func (m *Map) distanceTo(dst int) func(int) int {
	target := m.grid.HexFromIndex(dst)
	return func(n int) int {
		return hexgrid.Distance(m.grid.HexFromIndex(n), target)
	}
}
