package world

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hexworld/internal/hexgrid"
)

func TestGenerateRegionsCoversGrid(t *testing.T) {
	for _, seed := range []int64{1, 2, 3, 99} {
		g := hexgrid.New(20, 15)
		regions, centers := generateRegions(g, DefaultRegions, DefaultRelaxRounds, rand.New(rand.NewSource(seed)))

		require.Len(t, regions, g.Size())
		require.Len(t, centers, DefaultRegions)
		for i, r := range regions {
			require.True(t, r >= 0 && r < DefaultRegions, "hex %d region %d", i, r)
		}

		total := 0
		sizes := regionSizes(regions, DefaultRegions)
		for r, n := range sizes {
			total += n
			if centers[r] == hexgrid.Invalid {
				assert.Zero(t, n, "absorbed region %d still owns hexes", r)
			}
		}
		assert.Equal(t, g.Size(), total)
	}
}

func TestGenerateRegionsDeterministic(t *testing.T) {
	g := hexgrid.New(16, 12)
	a, ca := generateRegions(g, 8, 4, rand.New(rand.NewSource(5)))
	b, cb := generateRegions(g, 8, 4, rand.New(rand.NewSource(5)))
	assert.Equal(t, a, b)
	assert.Equal(t, ca, cb)
}

func TestGenerateRegionsAreContiguous(t *testing.T) {
	// Every non-empty region is one connected patch of hexes.
	for _, seed := range []int64{4, 8, 15, 16, 23, 42} {
		g := hexgrid.New(18, 14)
		regions, _ := generateRegions(g, 12, DefaultRelaxRounds, rand.New(rand.NewSource(seed)))
		sizes := regionSizes(regions, 12)

		for r, size := range sizes {
			if size == 0 {
				continue
			}
			start := -1
			for i, reg := range regions {
				if reg == r {
					start = i
					break
				}
			}
			seen := map[int]bool{start: true}
			queue := []int{start}
			for len(queue) > 0 {
				cur := queue[0]
				queue = queue[1:]
				for _, n := range g.Neighbors(cur) {
					if regions[n] == r && !seen[n] {
						seen[n] = true
						queue = append(queue, n)
					}
				}
			}
			assert.Len(t, seen, size, "seed %d region %d", seed, r)
		}
	}
}

func TestSingleRegion(t *testing.T) {
	g := hexgrid.New(5, 4)
	regions, centers := generateRegions(g, 1, 4, rand.New(rand.NewSource(1)))
	for _, r := range regions {
		assert.Zero(t, r)
	}
	assert.Equal(t, hexgrid.Point{X: 2, Y: 1}, centers[0], "mean of a 5x4 grid, truncated")
}

func TestRecalcCentersMarksEmptyRegions(t *testing.T) {
	g := hexgrid.New(2, 2)
	regions := []int{0, 0, 2, 2}
	centers := []hexgrid.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 1}}
	recalcCenters(g, regions, centers)

	assert.Equal(t, hexgrid.Point{X: 0, Y: 0}, centers[0])
	assert.Equal(t, hexgrid.Invalid, centers[1])
	assert.Equal(t, hexgrid.Point{X: 0, Y: 1}, centers[2])
}

func TestDuplicateCentersLeaveRegionEmpty(t *testing.T) {
	g := hexgrid.New(6, 6)
	regions := make([]int, g.Size())
	centers := []hexgrid.Point{{X: 1, Y: 1}, {X: 1, Y: 1}, {X: 4, Y: 4}}
	assignClosest(g, regions, centers)

	sizes := regionSizes(regions, len(centers))
	assert.Zero(t, sizes[1], "ties go to the lower region id")
	assert.Equal(t, g.Size(), sizes[0]+sizes[2])
}

func TestGenerateRegionsPanics(t *testing.T) {
	g := hexgrid.New(3, 3)
	rng := rand.New(rand.NewSource(1))
	assert.Panics(t, func() { generateRegions(g, 0, 4, rng) })
	assert.Panics(t, func() { generateRegions(g, 3, -1, rng) })
}
