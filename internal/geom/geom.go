// Package geom holds the pixel geometry shared by both front-ends.
package geom

// Point is a position on the logical pixel canvas.
type Point struct {
	X int
	Y int
}

// Dimension is a clickable rectangle in canvas pixels.
type Dimension struct {
	LeftX   int
	TopY    int
	RightX  int
	BottomY int
}

// Rect builds a Dimension from an origin and a size.
func Rect(leftX, topY, width, height int) Dimension {
	return Dimension{LeftX: leftX, TopY: topY, RightX: leftX + width, BottomY: topY + height}
}

func (d Dimension) Width() int  { return d.RightX - d.LeftX }
func (d Dimension) Height() int { return d.BottomY - d.TopY }

// Contains reports whether p lies strictly inside d. Points on an edge are
// not inside.
func (d Dimension) Contains(p Point) bool {
	return p.X > d.LeftX && p.X < d.RightX && p.Y > d.TopY && p.Y < d.BottomY
}

// Area is the one pixel box at p.
func (p Point) Area() Dimension {
	return Dimension{LeftX: p.X, TopY: p.Y, RightX: p.X + 1, BottomY: p.Y + 1}
}

// Overlaps reports whether a pixel strictly inside d falls within area.
// area is half-open: it holds pixels from LeftX up to but not including
// RightX. For a one pixel area this is the same test as Contains.
func (d Dimension) Overlaps(area Dimension) bool {
	return max(d.LeftX+1, area.LeftX) < min(d.RightX, area.RightX) &&
		max(d.TopY+1, area.TopY) < min(d.BottomY, area.BottomY)
}
