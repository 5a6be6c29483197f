// Package hexgrid provides the offset-coordinate hex grid used by the map.
// Hexes are laid out in columns; odd columns sit half a hex lower than even ones.
package hexgrid

import (
	"fmt"
	"math"
)

// Point is a hex position in offset coordinates.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Invalid marks "no hex". It is returned instead of an error for off-grid lookups.
var Invalid = Point{X: math.MinInt32, Y: math.MinInt32}

// InvalidIndex is the array index counterpart of Invalid.
const InvalidIndex = -1

// MaxDistance is returned by Distance when either operand is Invalid.
const MaxDistance = math.MaxInt32

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// String formats the point as (x,y).
func (p Point) String() string {
	if p == Invalid {
		return "(invalid)"
	}
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Dir is one of the six hex directions.
type Dir uint8

const (
	N Dir = iota
	NE
	SE
	S
	SW
	NW
)

// Directions lists all six directions in neighbor order.
var Directions = [6]Dir{N, NE, SE, S, SW, NW}

func (d Dir) String() string {
	switch d {
	case N:
		return "N"
	case NE:
		return "NE"
	case SE:
		return "SE"
	case S:
		return "S"
	case SW:
		return "SW"
	case NW:
		return "NW"
	default:
		return "Dir(?)"
	}
}

// Offsets for even and odd columns, indexed by Dir.
var (
	evenOffsets = [6]Point{{0, -1}, {1, -1}, {1, 0}, {0, 1}, {-1, 0}, {-1, -1}}
	oddOffsets  = [6]Point{{0, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}}
)

// Adjacent returns the hex next to p in direction d. No bounds checking.
func Adjacent(p Point, d Dir) Point {
	if p.X&1 == 0 {
		return p.Add(evenOffsets[d])
	}
	return p.Add(oddOffsets[d])
}

// Distance returns the number of steps between two hexes.
// Adapted from the Wesnoth distance_between formula: the x axis is staggered,
// so moving down from an even to an odd column (or up from odd to even) costs
// an extra vertical step.
func Distance(a, b Point) int {
	if a == Invalid || b == Invalid {
		return MaxDistance
	}

	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)

	penalty := 0
	if (a.Y < b.Y && a.X%2 == 0 && b.X%2 == 1) ||
		(a.Y > b.Y && a.X%2 == 1 && b.X%2 == 0) {
		penalty = 1
	}

	return max(dx, dy+penalty+dx/2)
}

// FindClosest returns the index of the point nearest to target. Ties go to
// the lowest index. Returns -1 for an empty list.
func FindClosest(target Point, points []Point) int {
	best := -1
	bestDist := 0
	for i, p := range points {
		d := Distance(target, p)
		if best == -1 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
