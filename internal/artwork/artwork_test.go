package artwork

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/tunecast/tunecast/internal/canvas"
	"github.com/tunecast/tunecast/internal/geom"
)

func writePNG(t *testing.T, path string, w, h int, fill color.Color) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, fill)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cover.png")
	writePNG(t, path, 180, 160, color.RGBA{R: 200, A: 255})

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 180 || b.Dy() != 160 {
		t.Errorf("bounds = %v", b)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.png")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}

	garbage := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(garbage); err == nil {
		t.Error("expected decode error")
	}
}

func TestSpriteSize(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			img.Set(x, y, color.NRGBA{G: 255, A: 255})
		}
	}

	s := Sprite(img, geom.Rect(0, 0, 200, 200))
	if s.Cols() != 20 || s.Rows() != 10 {
		t.Fatalf("sprite = %dx%d cells, want 20x10", s.Cols(), s.Rows())
	}
	px := s[5][10]
	if px.Top.G != 255 || px.Top.A != 255 || px.Bottom.G != 255 {
		t.Errorf("unexpected pixel %+v", px)
	}
}

func TestSpriteKeepsTransparency(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	s := Sprite(img, geom.Rect(0, 0, 40, 40))
	for _, row := range s {
		for _, px := range row {
			if px.Top.A >= 128 || px.Bottom.A >= 128 {
				t.Fatalf("expected transparent pixel, got %+v", px)
			}
		}
	}
}

func TestSpriteNil(t *testing.T) {
	if s := Sprite(nil, geom.Rect(0, 0, 10, 10)); s != nil {
		t.Errorf("expected nil sprite")
	}
}

func TestSpriteFollowsSpan(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 200, 180))
	at := geom.Rect(30, 30, 200, 180)
	s := Sprite(img, at)
	col0, row0, col1, row1 := canvas.Span(at)
	if s.Cols() != col1-col0 || s.Rows() != row1-row0 {
		t.Fatalf("sprite = %dx%d cells, span = %dx%d", s.Cols(), s.Rows(), col1-col0, row1-row0)
	}
	if s.Rows() != 10 {
		t.Errorf("rows = %d, want 10 for y 30..210", s.Rows())
	}
}
