// Package ui holds the colour schemes of both programs and the theme toggle
// of the forecast dashboard.
package ui

import (
	"image/color"
	"sort"
)

// Scheme is a named background/foreground pair.
type Scheme struct {
	Name       string
	Background color.RGBA
	Foreground color.RGBA
}

const (
	Dark  = "dark"
	Light = "light"
)

var (
	charcoal = color.RGBA{R: 46, G: 40, B: 42, A: 255}
	mist     = color.RGBA{R: 230, G: 230, B: 230, A: 255}
)

// registry maps scheme names to schemes.
var registry = map[string]Scheme{
	Dark:  {Name: Dark, Background: charcoal, Foreground: mist},
	Light: {Name: Light, Background: mist, Foreground: charcoal},
}

// Get returns a scheme by name. Returns Dark if name not found.
func Get(name string) Scheme {
	if s, ok := registry[name]; ok {
		return s
	}
	return registry[Dark]
}

// Valid returns true if the scheme name is known.
func Valid(name string) bool {
	_, ok := registry[name]
	return ok
}

// Names returns the sorted scheme names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
