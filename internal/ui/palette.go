package ui

import "image/color"

// Music player colours.
var (
	TopColor    = color.RGBA{R: 0x1E, G: 0xB1, B: 0xFA, A: 0xFF}
	BottomColor = color.RGBA{R: 0x1D, G: 0x4D, B: 0xB5, A: 0xFF}
	TrackColor  = color.RGBA{A: 0xFF}
	MarkerColor = color.RGBA{R: 0xFF, G: 0xFF, A: 0xFF}
	StatusColor = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	ErrorColor  = color.RGBA{R: 0xFF, G: 0x5F, B: 0x56, A: 0xFF}
)
