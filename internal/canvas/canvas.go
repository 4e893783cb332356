// Package canvas maps the pixel-addressed drawing model of both front-ends
// onto a grid of terminal cells.
//
// Each cell covers CellWidth x CellHeight pixels. Drawing operations are
// queued with a layer tag and composited by layer, then by submission order,
// when the canvas is rendered.
package canvas

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
	"github.com/tunecast/tunecast/internal/geom"
)

// Typical terminal cell metrics.
const (
	CellWidth  = 10
	CellHeight = 20
)

// Layer is the z-order tag of a drawing operation. Higher layers are drawn
// later.
type Layer int

// TextStyle describes how text runes are drawn.
type TextStyle struct {
	Color color.Color
	Bold  bool
}

// Cell is one terminal cell. A zero Ch marks the right half of a wide rune.
type Cell struct {
	Ch    rune
	FG    color.RGBA
	BG    color.RGBA
	HasFG bool
	HasBG bool
	Bold  bool
}

// Pixel is the content of one sprite cell: the colours of its upper and
// lower half. Halves with alpha below 128 are transparent.
type Pixel struct {
	Top    color.RGBA
	Bottom color.RGBA
}

// Sprite is an image already reduced to cells, indexed [row][col].
type Sprite [][]Pixel

// Cols returns the sprite width in cells.
func (s Sprite) Cols() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}

// Rows returns the sprite height in cells.
func (s Sprite) Rows() int { return len(s) }

type op struct {
	layer Layer
	seq   int
	draw  func(c *Canvas)
}

// Canvas collects drawing operations for one frame.
type Canvas struct {
	cols    int
	rows    int
	cells   [][]Cell
	ops     []op
	noColor bool
}

// New creates a canvas for a window of the given pixel size.
func New(widthPx, heightPx int) *Canvas {
	cols, rows := CellsFor(widthPx, heightPx)
	return &Canvas{cols: cols, rows: rows}
}

// SetNoColor makes Render emit plain runes only.
func (c *Canvas) SetNoColor(noColor bool) { c.noColor = noColor }

func (c *Canvas) Cols() int { return c.cols }
func (c *Canvas) Rows() int { return c.rows }

// CellsFor returns how many cells are needed to cover a pixel area.
func CellsFor(widthPx, heightPx int) (cols, rows int) {
	return ceilDiv(widthPx, CellWidth), ceilDiv(heightPx, CellHeight)
}

// CellArea returns the pixels covered by a cell. Mouse events arrive in
// cells and are hit-tested against this area.
func CellArea(col, row int) geom.Dimension {
	return geom.Rect(col*CellWidth, row*CellHeight, CellWidth, CellHeight)
}

// Span returns the cells [col0, col1) x [row0, row1) holding a pixel strictly
// inside d. These are exactly the cells whose CellArea d overlaps, so
// anything drawn over a span is clickable everywhere it shows.
func Span(d geom.Dimension) (col0, row0, col1, row1 int) {
	col0, row0 = floorDiv(d.LeftX+1, CellWidth), floorDiv(d.TopY+1, CellHeight)
	col1, row1 = floorDiv(d.RightX-1, CellWidth)+1, floorDiv(d.BottomY-1, CellHeight)+1
	if d.RightX-d.LeftX < 2 {
		col1 = col0
	}
	if d.BottomY-d.TopY < 2 {
		row1 = row0
	}
	return col0, row0, col1, row1
}

func (c *Canvas) push(layer Layer, draw func(c *Canvas)) {
	c.ops = append(c.ops, op{layer: layer, seq: len(c.ops), draw: draw})
}

// Fill covers a pixel rectangle with a solid colour, hiding anything drawn
// below it.
func (c *Canvas) Fill(r geom.Dimension, col color.Color, layer Layer) {
	bg := toRGBA(col)
	c.push(layer, func(c *Canvas) {
		c0, r0, c1, r1 := Span(r)
		for y := r0; y < r1; y++ {
			for x := c0; x < c1; x++ {
				if cell := c.at(x, y); cell != nil {
					*cell = Cell{Ch: ' ', BG: bg, HasBG: true}
				}
			}
		}
	})
}

// HGradient fills the whole canvas with a horizontal gradient running from
// left to right.
func (c *Canvas) HGradient(left, right color.Color, layer Layer) {
	from, _ := colorful.MakeColor(left)
	to, _ := colorful.MakeColor(right)
	c.push(layer, func(c *Canvas) {
		for x := 0; x < c.cols; x++ {
			t := (float64(x) + 0.5) / float64(c.cols)
			r, g, b := from.BlendRgb(to, t).RGB255()
			bg := color.RGBA{R: r, G: g, B: b, A: 0xFF}
			for y := 0; y < c.rows; y++ {
				c.cells[y][x] = Cell{Ch: ' ', BG: bg, HasBG: true}
			}
		}
	})
}

// Text draws s with its top-left corner at pixel (x, y). The background of
// the covered cells is kept.
func (c *Canvas) Text(x, y int, s string, style TextStyle, layer Layer) {
	fg := toRGBA(style.Color)
	hasFG := style.Color != nil
	c.push(layer, func(c *Canvas) {
		col, row := floorDiv(x, CellWidth), floorDiv(y, CellHeight)
		for _, r := range s {
			w := runewidth.RuneWidth(r)
			if w == 0 {
				continue
			}
			if cell := c.at(col, row); cell != nil {
				cell.Ch, cell.FG, cell.HasFG, cell.Bold = r, fg, hasFG, style.Bold
			}
			if w == 2 {
				if cell := c.at(col+1, row); cell != nil {
					cell.Ch = 0
				}
			}
			col += w
		}
	})
}

// TextRel draws s positioned relative to (x, y): relX and relY pick the
// anchor inside the text box, 0 being left/top and 1 right/bottom.
func (c *Canvas) TextRel(x, y int, s string, relX, relY float64, style TextStyle, layer Layer) {
	var font Font
	left := x - int(math.Round(relX*float64(font.TextWidth(s))))
	top := y - int(math.Round(relY*float64(font.Height())))
	c.Text(left, top, s, style, layer)
}

// Sprite draws an image from the first cell of the span of at. Transparent
// halves show the background beneath them.
func (c *Canvas) Sprite(at geom.Dimension, s Sprite, layer Layer) {
	c.push(layer, func(c *Canvas) {
		col, row, _, _ := Span(at)
		for ry, line := range s {
			for rx, px := range line {
				cell := c.at(col+rx, row+ry)
				if cell == nil {
					continue
				}
				topOK, bottomOK := px.Top.A >= 128, px.Bottom.A >= 128
				if !topOK && !bottomOK {
					continue
				}
				top, bottom := px.Top, px.Bottom
				if !topOK {
					top = cell.BG
				}
				if !bottomOK {
					bottom = cell.BG
				}
				if c.noColor {
					*cell = Cell{Ch: shade(top, bottom), BG: cell.BG, HasBG: cell.HasBG}
					continue
				}
				*cell = Cell{Ch: '▀', FG: opaque(top), HasFG: true, BG: opaque(bottom), HasBG: true}
			}
		}
	})
}

// Render composites the queued operations and returns the frame.
func (c *Canvas) Render() string {
	c.cells = make([][]Cell, c.rows)
	for y := range c.cells {
		c.cells[y] = make([]Cell, c.cols)
		for x := range c.cells[y] {
			c.cells[y][x].Ch = ' '
		}
	}
	ops := make([]op, len(c.ops))
	copy(ops, c.ops)
	sort.SliceStable(ops, func(i, j int) bool {
		if ops[i].layer != ops[j].layer {
			return ops[i].layer < ops[j].layer
		}
		return ops[i].seq < ops[j].seq
	})
	for _, o := range ops {
		o.draw(c)
	}

	lines := make([]string, c.rows)
	for y, row := range c.cells {
		lines[y] = c.renderRow(row)
	}
	return strings.Join(lines, "\n")
}

func (c *Canvas) renderRow(row []Cell) string {
	var b strings.Builder
	var run strings.Builder
	var runStyle Cell
	flush := func() {
		if run.Len() == 0 {
			return
		}
		b.WriteString(c.style(runStyle).Render(run.String()))
		run.Reset()
	}
	for i, cell := range row {
		if cell.Ch == 0 {
			continue
		}
		if i == 0 || !sameStyle(cell, runStyle) {
			flush()
			runStyle = cell
		}
		run.WriteRune(cell.Ch)
	}
	flush()
	return b.String()
}

func (c *Canvas) style(cell Cell) lipgloss.Style {
	st := lipgloss.NewStyle().Bold(cell.Bold)
	if c.noColor {
		return st
	}
	if cell.HasFG {
		st = st.Foreground(lipgloss.Color(hex(cell.FG)))
	}
	if cell.HasBG {
		st = st.Background(lipgloss.Color(hex(cell.BG)))
	}
	return st
}

func sameStyle(a, b Cell) bool {
	return a.FG == b.FG && a.BG == b.BG && a.HasFG == b.HasFG && a.HasBG == b.HasBG && a.Bold == b.Bold
}

// CellAt returns the composited cell after Render.
func (c *Canvas) CellAt(col, row int) (Cell, bool) {
	if cell := c.at(col, row); cell != nil {
		return *cell, true
	}
	return Cell{}, false
}

func (c *Canvas) at(col, row int) *Cell {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return nil
	}
	return &c.cells[row][col]
}

// shade approximates a cell's brightness with block runes for NO_COLOR
// terminals.
func shade(top, bottom color.RGBA) rune {
	lum := (luminance(top) + luminance(bottom)) / 2
	switch {
	case lum > 0.8:
		return '█'
	case lum > 0.6:
		return '▓'
	case lum > 0.4:
		return '▒'
	case lum > 0.2:
		return '░'
	default:
		return ' '
	}
}

func luminance(c color.RGBA) float64 {
	return (0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)) / 255
}

func opaque(c color.RGBA) color.RGBA {
	c.A = 0xFF
	return c
}

func toRGBA(c color.Color) color.RGBA {
	if c == nil {
		return color.RGBA{}
	}
	return color.RGBAModel.Convert(c).(color.RGBA)
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	return -floorDiv(-a, b)
}
