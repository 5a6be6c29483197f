package hexgrid

// DefaultHexSize is the tile size in pixels used when none is configured.
const DefaultHexSize = 72

// Layout converts between hexes and map pixels for a flat-topped tiling with
// staggered columns. Renderers use it for drawing and mouse picking.
type Layout struct {
	HexSize int // width and height of one tile image in pixels
}

// NewLayout returns a layout with the given tile size (DefaultHexSize if <= 0).
func NewLayout(size int) Layout {
	if size <= 0 {
		size = DefaultHexSize
	}
	return Layout{HexSize: size}
}

// PixelFromHex returns the top-left map pixel of the tile drawn for p.
func (l Layout) PixelFromHex(p Point) (x, y int) {
	x = p.X * l.HexSize * 3 / 4
	y = p.Y*l.HexSize + abs(p.X%2)*l.HexSize/2
	return x, y
}

// CenterOf returns the map pixel at the middle of p's tile.
func (l Layout) CenterOf(p Point) (x, y int) {
	x, y = l.PixelFromHex(p)
	return x + l.HexSize/2, y + l.HexSize/2
}

// HexAtPixel returns the hex under a map pixel, or Invalid for negative
// pixels. The result may be off any particular grid; callers check bounds.
// Follows Wesnoth's pixel_position_to_hex tiling.
func (l Layout) HexAtPixel(px, py int) Point {
	if px < 0 || py < 0 {
		return Invalid
	}

	s := l.HexSize
	tilingWidth := s * 3 / 2
	tilingHeight := s

	hx := px / tilingWidth * 2
	xMod := px % tilingWidth
	hy := py / tilingHeight
	yMod := py % tilingHeight

	if yMod < tilingHeight/2 {
		switch {
		case xMod*2+yMod < s/2:
			hx--
			hy--
		case xMod*2-yMod < s*3/2:
		default:
			hx++
			hy--
		}
	} else {
		switch {
		case xMod*2-(yMod-s/2) < 0:
			hx--
		case xMod*2+(yMod-s/2) < s*2:
		default:
			hx++
		}
	}

	return Point{X: hx, Y: hy}
}

// MapPixelSize returns the pixel dimensions needed to draw every hex of g.
func (l Layout) MapPixelSize(g Grid) (width, height int) {
	width = l.HexSize*3/4*g.Width() + l.HexSize/4
	height = l.HexSize*g.Height() + l.HexSize/2
	return width, height
}
