package tank

import "fishtank/shared"

// ViewCell is one cell of a mini-map. Visible distinguishes an empty
// in-bounds cell from a cell outside the tank: an invisible cell carries no
// glyph at all.
type ViewCell struct {
	Glyph   string `json:"glyph"`
	Visible bool   `json:"visible"`
}

// MiniMap generates a square window of side 2*radius+1 centered on the
// given position. In-bounds cells show the occupant glyph (a fish wins over
// a decoration) or the empty glyph; out-of-bounds cells are marked not
// visible. The center cell reflects whatever occupies the center position.
func (t *Tank) MiniMap(center shared.Position, radius int) [][]ViewCell {
	if radius < 0 {
		radius = DefaultViewRadius
	}
	side := radius*2 + 1
	window := make([][]ViewCell, 0, side)
	for dy := -radius; dy <= radius; dy++ {
		row := make([]ViewCell, 0, side)
		for dx := -radius; dx <= radius; dx++ {
			pos := shared.Position{X: center.X + dx, Y: center.Y + dy}
			if !t.IsWithinBounds(pos) {
				row = append(row, ViewCell{})
				continue
			}
			row = append(row, ViewCell{Glyph: t.GlyphAt(pos), Visible: true})
		}
		window = append(window, row)
	}
	t.logger.Printf("Mini-map for position (%d, %d) generated.", center.X, center.Y)
	return window
}
