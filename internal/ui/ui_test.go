package ui

import (
	"reflect"
	"testing"

	"github.com/tunecast/tunecast/internal/geom"
)

func TestGet(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"dark", "dark"},
		{"light", "light"},
		{"invalid", "dark"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Get(tt.name).Name; got != tt.expected {
				t.Errorf("Get(%q).Name = %q, want %q", tt.name, got, tt.expected)
			}
		})
	}
}

func TestSchemesAreInverse(t *testing.T) {
	dark, light := Get(Dark), Get(Light)
	if dark.Background != light.Foreground || dark.Foreground != light.Background {
		t.Fatalf("dark %+v and light %+v should swap colours", dark, light)
	}
	if dark.Background.R != 46 || dark.Background.G != 40 || dark.Background.B != 42 {
		t.Fatalf("dark background = %+v", dark.Background)
	}
}

func TestNamesAndValid(t *testing.T) {
	if got := Names(); !reflect.DeepEqual(got, []string{"dark", "light"}) {
		t.Fatalf("Names() = %v", got)
	}
	if !Valid("light") || Valid("rainbow") {
		t.Fatal("Valid mismatch")
	}
}

func TestManagerClick(t *testing.T) {
	tests := []struct {
		name    string
		p       geom.Point
		toggled bool
	}{
		{"centre", geom.Point{X: 580, Y: 35}, true},
		{"just inside", geom.Point{X: 531, Y: 11}, true},
		{"left edge", geom.Point{X: 530, Y: 35}, false},
		{"right edge", geom.Point{X: 630, Y: 35}, false},
		{"top edge", geom.Point{X: 580, Y: 10}, false},
		{"bottom edge", geom.Point{X: 580, Y: 60}, false},
		{"elsewhere", geom.Point{X: 10, Y: 10}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(Dark)
			before := m.Current()
			if got := m.Click(tt.p); got != tt.toggled {
				t.Fatalf("Click(%v) = %v, want %v", tt.p, got, tt.toggled)
			}
			after := m.Current()
			if tt.toggled {
				if after.Name != Light || after.Background != before.Foreground || after.Foreground != before.Background {
					t.Fatalf("after toggle = %+v", after)
				}
			} else if after != before {
				t.Fatalf("scheme changed on a miss: %+v", after)
			}
		})
	}
}

func TestManagerToggleTwice(t *testing.T) {
	m := NewManager("light")
	m.Toggle()
	m.Toggle()
	if m.Current().Name != Light {
		t.Fatalf("Current() = %q", m.Current().Name)
	}
}

func TestManagerClickAreaEdgeCells(t *testing.T) {
	tests := []struct {
		name    string
		cell    geom.Dimension
		toggled bool
	}{
		{"top row", geom.Rect(580, 0, 10, 20), true},
		{"bottom row", geom.Rect(530, 40, 10, 20), true},
		{"below", geom.Rect(580, 60, 10, 20), false},
		{"left neighbour", geom.Rect(520, 20, 10, 20), false},
		{"right neighbour", geom.Rect(630, 20, 10, 20), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(Dark)
			if got := m.ClickArea(tt.cell); got != tt.toggled {
				t.Fatalf("ClickArea(%+v) = %v, want %v", tt.cell, got, tt.toggled)
			}
		})
	}
}
