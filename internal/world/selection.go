package world

import "github.com/talgya/hexworld/internal/hexgrid"

// SelectHex makes p the selected hex and drops any highlighted path. An
// off-grid p clears the selection. Reports whether a hex is now selected.
func (m *Map) SelectHex(p hexgrid.Point) bool {
	m.highlighted = nil
	if m.grid.OffGrid(p) {
		m.selected = hexgrid.Invalid
		return false
	}
	m.selected = p
	return true
}

// Selection returns the selected hex, or hexgrid.Invalid.
func (m *Map) Selection() hexgrid.Point { return m.selected }

// HighlightPath plans a route from src to dst and stores it as the
// highlighted path. The stored path is empty when no route exists.
func (m *Map) HighlightPath(src, dst hexgrid.Point) []int {
	m.highlighted = m.FindPath(m.grid.Index(src), m.grid.Index(dst))
	return m.highlighted
}

// HoverHex highlights the route from the selected hex to p. Without a
// selection it clears the highlight.
func (m *Map) HoverHex(p hexgrid.Point) []int {
	if m.selected == hexgrid.Invalid {
		m.highlighted = nil
		return nil
	}
	return m.HighlightPath(m.selected, p)
}

// HighlightedPath returns the current highlighted path as hex indices.
func (m *Map) HighlightedPath() []int { return m.highlighted }

// HighlightedHexes returns the highlighted path in hex coordinates.
func (m *Map) HighlightedHexes() []hexgrid.Point {
	out := make([]hexgrid.Point, len(m.highlighted))
	for i, n := range m.highlighted {
		out[i] = m.grid.HexFromIndex(n)
	}
	return out
}

// ClearHighlight drops the highlighted path, keeping the selection.
func (m *Map) ClearHighlight() { m.highlighted = nil }
