package canvas

import "github.com/mattn/go-runewidth"

// Font measures text the way the canvas lays it out: one cell per column of
// display width, one cell high.
type Font struct{}

// TextWidth returns the rendered width of s in pixels.
func (Font) TextWidth(s string) int {
	return runewidth.StringWidth(s) * CellWidth
}

// Height returns the line height in pixels.
func (Font) Height() int { return CellHeight }
