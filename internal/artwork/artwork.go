// Package artwork decodes album art and weather icons and reduces them to
// canvas sprites.
package artwork

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/tunecast/tunecast/internal/canvas"
	"github.com/tunecast/tunecast/internal/geom"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

var ErrInvalid = errors.New("invalid artwork data")

// Load decodes a PNG, JPEG or BMP image file.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrInvalid)
	}
	return img, nil
}

// Sprite scales img to the cells spanned by at and converts it to
// half-block cells.
func Sprite(img image.Image, at geom.Dimension) canvas.Sprite {
	col0, row0, col1, row1 := canvas.Span(at)
	cols, rows := col1-col0, row1-row0
	if img == nil || cols <= 0 || rows <= 0 {
		return nil
	}

	// Two vertical samples per cell.
	scaled := image.NewNRGBA(image.Rect(0, 0, cols, rows*2))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)

	sprite := make(canvas.Sprite, rows)
	for y := 0; y < rows; y++ {
		sprite[y] = make([]canvas.Pixel, cols)
		for x := 0; x < cols; x++ {
			sprite[y][x] = canvas.Pixel{
				Top:    sample(scaled, x, y*2),
				Bottom: sample(scaled, x, y*2+1),
			}
		}
	}
	return sprite
}

func sample(img *image.NRGBA, x, y int) color.RGBA {
	c := img.NRGBAAt(x, y)
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
