package ui

import (
	"image/color"

	"github.com/tunecast/tunecast/internal/geom"
)

// Toggle button geometry on the 640x480 dashboard.
const (
	WindowWidth  = 640
	WindowHeight = 480
	ButtonWidth  = 100
	ButtonHeight = 50
)

var ButtonColor = color.RGBA{R: 255, G: 107, B: 107, A: 255}

// ButtonRect is the toggle button, top right with a 10px margin.
var ButtonRect = geom.Rect(WindowWidth-ButtonWidth-10, 10, ButtonWidth, ButtonHeight)

// Manager tracks the active scheme. It is not persisted.
type Manager struct {
	current Scheme
}

func NewManager(initial string) *Manager {
	return &Manager{current: Get(initial)}
}

func (m *Manager) Current() Scheme { return m.current }

// Toggle flips between dark and light.
func (m *Manager) Toggle() {
	if m.current.Name == Dark {
		m.current = Get(Light)
		return
	}
	m.current = Get(Dark)
}

// Click toggles the scheme when p is strictly inside the button.
func (m *Manager) Click(p geom.Point) bool { return m.ClickArea(p.Area()) }

// ClickArea toggles the scheme when area holds a pixel strictly inside the
// button.
func (m *Manager) ClickArea(area geom.Dimension) bool {
	if !ButtonRect.Overlaps(area) {
		return false
	}
	m.Toggle()
	return true
}
