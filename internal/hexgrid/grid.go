package hexgrid

import "fmt"

// Intner is the slice of a random source RandomHex needs. *rand.Rand satisfies it.
type Intner interface {
	Intn(n int) int
}

// Grid is a logical width x height hex grid. It is a small value type and
// cheap to copy.
type Grid struct {
	width  int
	height int
}

// New creates a grid. Panics on a non-positive dimension.
func New(width, height int) Grid {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("hexgrid: invalid grid size %dx%d", width, height))
	}
	return Grid{width: width, height: height}
}

// Width returns the number of columns.
func (g Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g Grid) Height() int { return g.height }

// Size returns the number of hexes.
func (g Grid) Size() int { return g.width * g.height }

// HexFromIndex converts an array index to a hex. Invalid when out of range.
func (g Grid) HexFromIndex(i int) Point {
	if i < 0 || i >= g.Size() {
		return Invalid
	}
	return Point{X: i % g.width, Y: i / g.width}
}

// Index converts a hex to an array index. InvalidIndex when off the grid.
func (g Grid) Index(p Point) int {
	if g.OffGrid(p) {
		return InvalidIndex
	}
	return p.Y*g.width + p.X
}

// IndexXY is Index for a bare coordinate pair.
func (g Grid) IndexXY(x, y int) int {
	return g.Index(Point{X: x, Y: y})
}

// OffGrid reports whether p lies outside the grid.
func (g Grid) OffGrid(p Point) bool {
	return p.X < 0 || p.Y < 0 || p.X >= g.width || p.Y >= g.height
}

// RandomHex picks a hex uniformly.
func (g Grid) RandomHex(rng Intner) Point {
	return g.HexFromIndex(rng.Intn(g.Size()))
}

// Neighbor returns the index of the hex next to i in direction d, or
// InvalidIndex if that hex would be off the grid.
func (g Grid) Neighbor(i int, d Dir) int {
	p := g.HexFromIndex(i)
	if p == Invalid {
		return InvalidIndex
	}
	return g.Index(Adjacent(p, d))
}

// HexNeighbor is Neighbor in hex coordinates.
func (g Grid) HexNeighbor(p Point, d Dir) Point {
	if g.OffGrid(p) {
		return Invalid
	}
	n := Adjacent(p, d)
	if g.OffGrid(n) {
		return Invalid
	}
	return n
}

// Neighbors returns every on-grid neighbor of i in direction order. Edge and
// corner hexes have fewer than six.
func (g Grid) Neighbors(i int) []int {
	out := make([]int, 0, 6)
	for _, d := range Directions {
		if n := g.Neighbor(i, d); n != InvalidIndex {
			out = append(out, n)
		}
	}
	return out
}

// HexNeighbors is Neighbors in hex coordinates.
func (g Grid) HexNeighbors(p Point) []Point {
	out := make([]Point, 0, 6)
	for _, n := range g.Neighbors(g.Index(p)) {
		out = append(out, g.HexFromIndex(n))
	}
	return out
}

// Corner returns the index of one of the four grid corners. Only NW, NE, SE
// and SW name a corner; other directions panic.
func (g Grid) Corner(d Dir) int {
	switch d {
	case NW:
		return 0
	case NE:
		return g.width - 1
	case SE:
		return g.Size() - 1
	case SW:
		return g.Size() - g.width
	default:
		panic(fmt.Sprintf("hexgrid: %s is not a corner", d))
	}
}

// HexCorner is Corner in hex coordinates.
func (g Grid) HexCorner(d Dir) Point {
	return g.HexFromIndex(g.Corner(d))
}

// String returns a summary of the grid.
func (g Grid) String() string {
	return fmt.Sprintf("Grid(%dx%d)", g.width, g.height)
}
