package geom

import "testing"

func TestContains(t *testing.T) {
	d := Dimension{LeftX: 10, TopY: 20, RightX: 110, BottomY: 70}

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"inside", Point{X: 50, Y: 40}, true},
		{"just inside corner", Point{X: 11, Y: 21}, true},
		{"on left edge", Point{X: 10, Y: 40}, false},
		{"on right edge", Point{X: 110, Y: 40}, false},
		{"on top edge", Point{X: 50, Y: 20}, false},
		{"on bottom edge", Point{X: 50, Y: 70}, false},
		{"left of", Point{X: 0, Y: 40}, false},
		{"below", Point{X: 50, Y: 90}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestRect(t *testing.T) {
	d := Rect(530, 10, 100, 50)
	if d.RightX != 630 || d.BottomY != 60 {
		t.Fatalf("unexpected rect %+v", d)
	}
	if d.Width() != 100 || d.Height() != 50 {
		t.Errorf("size = %dx%d, want 100x50", d.Width(), d.Height())
	}
}

func TestOverlapsPointArea(t *testing.T) {
	d := Dimension{LeftX: 10, TopY: 20, RightX: 110, BottomY: 70}
	for _, p := range []Point{{50, 40}, {11, 21}, {10, 40}, {110, 40}, {50, 20}, {50, 70}, {109, 69}} {
		if got, want := d.Overlaps(p.Area()), d.Contains(p); got != want {
			t.Errorf("Overlaps(%v.Area()) = %v, Contains = %v", p, got, want)
		}
	}
}

func TestOverlapsCell(t *testing.T) {
	button := Rect(530, 10, 100, 50)

	tests := []struct {
		name string
		area Dimension
		want bool
	}{
		{"top row straddles edge", Rect(580, 0, 10, 20), true},
		{"left neighbour", Rect(520, 20, 10, 20), false},
		{"first column", Rect(530, 20, 10, 20), true},
		{"last column", Rect(620, 40, 10, 20), true},
		{"right neighbour", Rect(630, 20, 10, 20), false},
		{"below bottom edge", Rect(570, 60, 10, 20), false},
		{"one pixel sliver", Rect(525, 20, 6, 20), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := button.Overlaps(tt.area); got != tt.want {
				t.Errorf("Overlaps(%+v) = %v, want %v", tt.area, got, tt.want)
			}
		})
	}
}
