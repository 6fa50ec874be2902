package tank

import (
	"fmt"
	"strings"

	"fishtank/shared"
)

// Render produces the full board as a plain multi-line text block: one row
// per grid row flanked by the side border glyph, framed above and below by
// the top and bottom border glyphs repeated width+2 times.
func (t *Tank) Render() string {
	var b strings.Builder
	b.WriteString(strings.Repeat(t.topBorder, t.width+2))
	b.WriteByte('\n')
	for y := 0; y < t.height; y++ {
		b.WriteString(t.sideBorder)
		for x := 0; x < t.width; x++ {
			b.WriteString(t.GlyphAt(shared.Position{X: x, Y: y}))
		}
		b.WriteString(t.sideBorder)
		b.WriteByte('\n')
	}
	b.WriteString(strings.Repeat(t.bottomBorder, t.width+2))
	b.WriteByte('\n')
	return b.String()
}

// Layout returns the board as a glyph grid, row-major, without borders.
// Unoccupied cells hold the open water glyph.
func (t *Tank) Layout() [][]string {
	layout := make([][]string, t.height)
	for y := 0; y < t.height; y++ {
		layout[y] = make([]string, t.width)
		for x := 0; x < t.width; x++ {
			glyph := t.GlyphAt(shared.Position{X: x, Y: y})
			if glyph == EmptyGlyph {
				glyph = OpenWaterGlyph
			}
			layout[y][x] = glyph
		}
	}
	return layout
}

// BoardText returns the borderless board representation sent to the
// narrator, one line per row.
func (t *Tank) BoardText() string {
	var b strings.Builder
	for _, row := range t.Layout() {
		b.WriteString(strings.Join(row, ""))
		b.WriteByte('\n')
	}
	return b.String()
}

// DiffLayouts describes the cells that changed between two layouts of the
// same dimensions. Used for logging what a narrator round did to the board.
func DiffLayouts(before, after [][]string) []string {
	var changes []string
	for y := range before {
		if y >= len(after) {
			break
		}
		for x := range before[y] {
			if x >= len(after[y]) {
				break
			}
			if before[y][x] != after[y][x] {
				changes = append(changes, fmt.Sprintf("(%d, %d): %s -> %s", x, y, before[y][x], after[y][x]))
			}
		}
	}
	return changes
}
