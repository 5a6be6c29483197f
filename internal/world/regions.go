package world

import (
	"fmt"
	"math/rand"

	"github.com/talgya/hexworld/internal/hexgrid"
)

// DefaultRegions and DefaultRelaxRounds are the partition parameters used
// when a GenConfig leaves them at zero.
const (
	DefaultRegions     = 18
	DefaultRelaxRounds = 4
)

// generateRegions partitions g into n Voronoi-like regions. It seeds n random
// centers (duplicates allowed), then rounds times assigns every hex to its
// closest center and moves each center to the mean of its hexes. A final
// assignment pass against the relaxed centers is the result.
//
// A region can be absorbed by its neighbors during relaxation. Its center
// becomes hexgrid.Invalid, it never wins a nearest-center test again, and its
// id stays reserved so ids remain dense in [0,n).
func generateRegions(g hexgrid.Grid, n, rounds int, rng *rand.Rand) (regions []int, centers []hexgrid.Point) {
	if n < 1 {
		panic(fmt.Sprintf("world: region count must be positive, got %d", n))
	}
	if rounds < 0 {
		panic(fmt.Sprintf("world: negative relaxation rounds %d", rounds))
	}

	centers = make([]hexgrid.Point, n)
	for i := range centers {
		centers[i] = g.RandomHex(rng)
	}

	regions = make([]int, g.Size())
	for round := 0; round < rounds; round++ {
		assignClosest(g, regions, centers)
		recalcCenters(g, regions, centers)
	}
	assignClosest(g, regions, centers)

	return regions, centers
}

func assignClosest(g hexgrid.Grid, regions []int, centers []hexgrid.Point) {
	for i := range regions {
		regions[i] = hexgrid.FindClosest(g.HexFromIndex(i), centers)
	}
}

// recalcCenters moves each center to the truncated mean position of its hexes.
func recalcCenters(g hexgrid.Grid, regions []int, centers []hexgrid.Point) {
	sums := make([]hexgrid.Point, len(centers))
	counts := make([]int, len(centers))
	for i, r := range regions {
		sums[r] = sums[r].Add(g.HexFromIndex(i))
		counts[r]++
	}

	for r := range centers {
		if counts[r] == 0 {
			centers[r] = hexgrid.Invalid
			continue
		}
		centers[r] = hexgrid.Point{X: sums[r].X / counts[r], Y: sums[r].Y / counts[r]}
	}
}

// regionSizes counts the hexes assigned to each of n regions.
func regionSizes(regions []int, n int) []int {
	sizes := make([]int, n)
	for _, r := range regions {
		sizes[r]++
	}
	return sizes
}
