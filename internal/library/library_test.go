package library

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tunecast/tunecast/internal/geom"
)

type fixedFont struct{}

func (fixedFont) TextWidth(s string) int { return 10 * len(s) }
func (fixedFont) Height() int            { return 20 }

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 200, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func writeAlbums(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "albums.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 200, 190)
	writePNG(t, filepath.Join(dir, "b.png"), 180, 180)
	content := strings.Join([]string{
		"3",
		"Greatest Hits", "Queen", "a.png", "2",
		"Bohemian Rhapsody", "tracks/bohemian.mp3",
		"Under Pressure", "/music/pressure.mp3",
		"Thriller", "Michael Jackson", "b.png", "1",
		"Beat It", "beat.wav",
		"Silence", "Nobody", "a.png", "0",
	}, "\r\n") + "\n"

	albums, err := Load(writeAlbums(t, dir, content), fixedFont{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(albums) != 3 {
		t.Fatalf("albums = %d, want 3", len(albums))
	}

	a := albums[0]
	if a.Title != "Greatest Hits" || a.Artist != "Queen" {
		t.Fatalf("album 0 = %q/%q", a.Title, a.Artist)
	}
	if want := geom.Rect(30, 30, 200, 190); a.Artwork.Dim != want {
		t.Fatalf("album 0 dim = %+v, want %+v", a.Artwork.Dim, want)
	}
	if got, want := a.Tracks[0].Location, filepath.Join(dir, "tracks/bohemian.mp3"); got != want {
		t.Fatalf("relative location = %q, want %q", got, want)
	}
	if got := a.Tracks[1].Location; got != "/music/pressure.mp3" {
		t.Fatalf("absolute location = %q", got)
	}
	if want := (geom.Dimension{LeftX: 550, TopY: 140, RightX: 550 + 140, BottomY: 160}); a.Tracks[1].Dim != want {
		t.Fatalf("track 1 dim = %+v, want %+v", a.Tracks[1].Dim, want)
	}

	if want := geom.Rect(250, 30, 180, 180); albums[1].Artwork.Dim != want {
		t.Fatalf("album 1 dim = %+v, want %+v", albums[1].Artwork.Dim, want)
	}
	if len(albums[2].Tracks) != 0 {
		t.Fatalf("album 2 tracks = %d, want 0", len(albums[2].Tracks))
	}
	if _, top := AlbumOrigin(2); albums[2].Artwork.Dim.TopY != top || top != 240 {
		t.Fatalf("album 2 top = %d, want 240", albums[2].Artwork.Dim.TopY)
	}
}

func TestAlbumOrigin(t *testing.T) {
	tests := []struct {
		i         int
		left, top int
	}{
		{0, 30, 30},
		{1, 250, 30},
		{2, 30, 240},
		{3, 250, 240},
		{4, 30, 450},
	}
	for _, tt := range tests {
		left, top := AlbumOrigin(tt.i)
		if left != tt.left || top != tt.top {
			t.Errorf("AlbumOrigin(%d) = (%d,%d), want (%d,%d)", tt.i, left, top, tt.left, tt.top)
		}
	}
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 10, 10)
	if err := os.WriteFile(filepath.Join(dir, "broken.png"), []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		content   string
		malformed bool
	}{
		{"empty file", "", true},
		{"bad album count", "two\n", true},
		{"negative album count", "-1\n", true},
		{"missing artist", "1\nTitle\n", true},
		{"bad track count", "1\nT\nA\na.png\nx\n", true},
		{"missing track location", "1\nT\nA\na.png\n1\nSong\n", true},
		{"more albums than declared", "1\nT\nA\na.png\n0\nT2\nA2\na.png\n0\n", true},
		{"unreadable artwork", "1\nT\nA\nbroken.png\n0\n", false},
		{"missing artwork", "1\nT\nA\nmissing.png\n0\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeAlbums(t, dir, tt.content), fixedFont{})
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, ErrMalformed); got != tt.malformed {
				t.Fatalf("errors.Is(ErrMalformed) = %v for %v", got, err)
			}
		})
	}
}

func TestLoadTrailingBlankLines(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 10, 10)
	albums, err := Load(writeAlbums(t, dir, "1\nT\nA\na.png\n0\n\n\n"), fixedFont{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(albums) != 1 {
		t.Fatalf("albums = %d", len(albums))
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "none.txt"), fixedFont{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestReadTagsNoMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.mp3")
	if err := os.WriteFile(path, []byte("not really audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadTags(path); err == nil {
		t.Fatal("expected error for file without tags")
	}
	if _, err := ReadTags(filepath.Join(t.TempDir(), "missing.mp3")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
