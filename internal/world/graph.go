package world

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/talgya/hexworld/internal/hexgrid"
)

// RegionGraph is an adjacency list over region ids. Entry r lists the
// distinct regions bordering r, in the order they were discovered.
type RegionGraph [][]int

// Neighbors returns the regions adjacent to r, or nil for an unknown id.
func (g RegionGraph) Neighbors(r int) []int {
	if r < 0 || r >= len(g) {
		return nil
	}
	return g[r]
}

// Adjacent reports whether a and b share an edge.
func (g RegionGraph) Adjacent(a, b int) bool {
	for _, n := range g.Neighbors(a) {
		if n == b {
			return true
		}
	}
	return false
}

// Edges returns the number of undirected edges.
func (g RegionGraph) Edges() int {
	total := 0
	for _, ns := range g {
		total += len(ns)
	}
	return total / 2
}

// graphBuilder accumulates a RegionGraph without duplicate entries.
type graphBuilder struct {
	graph RegionGraph
	seen  []mapset.Set[int]
}

func newGraphBuilder(n int) *graphBuilder {
	b := &graphBuilder{
		graph: make(RegionGraph, n),
		seen:  make([]mapset.Set[int], n),
	}
	for r := range b.seen {
		b.seen[r] = mapset.New[int]()
		b.graph[r] = []int{}
	}
	return b
}

func (b *graphBuilder) add(from, to int) {
	if b.seen[from].Has(to) {
		return
	}
	b.seen[from].Put(to)
	b.graph[from] = append(b.graph[from], to)
}

// buildRegionGraphs derives the plain and walkable region graphs. Every pair
// of neighboring hexes in different regions links their regions in plain;
// the link also goes into walk when neither hex is an obstacle. Both sides of
// each pair are visited, so the graphs come out symmetric.
func buildRegionGraphs(g hexgrid.Grid, regions []int, n int, walkable func(int) bool) (plain, walk RegionGraph) {
	pb := newGraphBuilder(n)
	wb := newGraphBuilder(n)

	for i, reg := range regions {
		for _, nb := range g.Neighbors(i) {
			other := regions[nb]
			if other == reg {
				continue
			}
			pb.add(reg, other)
			if walkable(i) && walkable(nb) {
				wb.add(reg, other)
			}
		}
	}
	return pb.graph, wb.graph
}
