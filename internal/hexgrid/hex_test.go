package hexgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceIdentityAndSymmetry(t *testing.T) {
	g := New(7, 6)
	for i := 0; i < g.Size(); i++ {
		a := g.HexFromIndex(i)
		assert.Equal(t, 0, Distance(a, a))
		for j := 0; j < g.Size(); j++ {
			b := g.HexFromIndex(j)
			assert.Equal(t, Distance(a, b), Distance(b, a), "%v %v", a, b)
		}
	}
}

func TestDistanceStagger(t *testing.T) {
	cases := []struct {
		a, b Point
		want int
	}{
		{Point{0, 0}, Point{0, 3}, 3},
		{Point{0, 0}, Point{3, 0}, 3},
		{Point{0, 0}, Point{1, 1}, 2}, // even -> odd going down pays the stagger
		{Point{1, 0}, Point{2, 1}, 1}, // odd -> even going down does not
		{Point{1, 1}, Point{0, 0}, 2},
		{Point{0, 0}, Point{4, 0}, 4},
		{Point{0, 0}, Point{4, 4}, 6},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Distance(c.a, c.b), "%v -> %v", c.a, c.b)
	}
}

func TestDistanceMatchesNeighborSteps(t *testing.T) {
	// Distance must agree with breadth-first step counts on the grid.
	g := New(8, 8)
	start := g.IndexXY(3, 4)
	dist := map[int]int{start: 0}
	queue := []int{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range g.Neighbors(cur) {
			if _, ok := dist[n]; !ok {
				dist[n] = dist[cur] + 1
				queue = append(queue, n)
			}
		}
	}
	for i, steps := range dist {
		assert.Equal(t, steps, Distance(g.HexFromIndex(start), g.HexFromIndex(i)), "%v", g.HexFromIndex(i))
	}
}

func TestDistanceInvalid(t *testing.T) {
	assert.Equal(t, MaxDistance, Distance(Invalid, Point{1, 1}))
	assert.Equal(t, MaxDistance, Distance(Point{1, 1}, Invalid))
	assert.Equal(t, MaxDistance, Distance(Invalid, Invalid))
}

func TestFindClosest(t *testing.T) {
	centers := []Point{Invalid, {0, 0}, {5, 5}, {0, 0}}
	assert.Equal(t, 1, FindClosest(Point{1, 1}, centers), "ties go to the lowest index")
	assert.Equal(t, 2, FindClosest(Point{5, 4}, centers))
	assert.Equal(t, -1, FindClosest(Point{0, 0}, nil))
}

func TestAdjacentUnchecked(t *testing.T) {
	assert.Equal(t, Point{0, 0}, Adjacent(Point{-1, 0}, NE))
	assert.Equal(t, Point{0, -2}, Adjacent(Point{0, -1}, N))
}

func TestDirString(t *testing.T) {
	assert.Equal(t, "SW", SW.String())
	assert.Equal(t, "(2,3)", Point{2, 3}.String())
	assert.Equal(t, "(invalid)", Invalid.String())
}
