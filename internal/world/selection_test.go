package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hexworld/internal/hexgrid"
)

func TestSelectHex(t *testing.T) {
	m := singleRegionMap(5, 5)
	assert.Equal(t, hexgrid.Invalid, m.Selection())

	assert.True(t, m.SelectHex(hexgrid.Point{X: 2, Y: 3}))
	assert.Equal(t, hexgrid.Point{X: 2, Y: 3}, m.Selection())

	assert.False(t, m.SelectHex(hexgrid.Point{X: 7, Y: 0}))
	assert.Equal(t, hexgrid.Invalid, m.Selection())
}

func TestHighlightPath(t *testing.T) {
	m := singleRegionMap(5, 5)
	src, dst := hexgrid.Point{X: 0, Y: 0}, hexgrid.Point{X: 4, Y: 4}

	path := m.HighlightPath(src, dst)
	require.NotEmpty(t, path)
	assert.Equal(t, path, m.HighlightedPath())
	hexes := m.HighlightedHexes()
	assert.Equal(t, src, hexes[0])
	assert.Equal(t, dst, hexes[len(hexes)-1])

	m.SetObstacle(dst, true)
	m.Rebuild()
	assert.Empty(t, m.HighlightPath(src, dst), "no route, no highlight")
	assert.Empty(t, m.HighlightedPath())
}

func TestHoverFollowsSelection(t *testing.T) {
	m := singleRegionMap(5, 5)
	assert.Nil(t, m.HoverHex(hexgrid.Point{X: 1, Y: 1}), "nothing selected")

	m.SelectHex(hexgrid.Point{X: 0, Y: 0})
	path := m.HoverHex(hexgrid.Point{X: 3, Y: 2})
	require.NotEmpty(t, path)
	assert.Equal(t, 0, path[0])
	assert.Equal(t, m.Grid().IndexXY(3, 2), path[len(path)-1])

	m.SelectHex(hexgrid.Point{X: 1, Y: 1})
	assert.Empty(t, m.HighlightedPath(), "a new selection drops the old highlight")

	m.HoverHex(hexgrid.Point{X: 4, Y: 4})
	require.NotEmpty(t, m.HighlightedPath())
	m.ClearHighlight()
	assert.Empty(t, m.HighlightedPath())
	assert.Equal(t, hexgrid.Point{X: 1, Y: 1}, m.Selection())
}
