// Package library loads the album catalogue of the music player and lays it
// out on the player canvas.
package library

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tunecast/tunecast/internal/artwork"
	"github.com/tunecast/tunecast/internal/geom"
)

// Layout of the player window, in canvas pixels.
const (
	AlbumLeftColumn  = 30
	AlbumRightColumn = 250
	AlbumRowHeight   = 190
	AlbumGutter      = 20
	AlbumTopMargin   = 30

	TracksPosition = 550
	TrackRowHeight = 40
	TracksTop      = 100
)

var ErrMalformed = errors.New("malformed album file")

// FontMetrics measures track labels.
type FontMetrics interface {
	TextWidth(s string) int
	Height() int
}

type Artwork struct {
	Path  string
	Image image.Image
	Dim   geom.Dimension
}

type Album struct {
	Title   string
	Artist  string
	Artwork Artwork
	Tracks  []Track
}

type Track struct {
	Name     string
	Location string
	Dim      geom.Dimension
}

// AlbumOrigin returns the top-left corner of the artwork of album i.
func AlbumOrigin(i int) (leftX, topY int) {
	leftX = AlbumLeftColumn
	if i%2 != 0 {
		leftX = AlbumRightColumn
	}
	row := i / 2
	return leftX, AlbumRowHeight*row + AlbumTopMargin + AlbumGutter*row
}

// TrackDim returns the label rectangle of track i.
func TrackDim(i int, name string, font FontMetrics) geom.Dimension {
	topY := TrackRowHeight*i + TracksTop
	return geom.Dimension{
		LeftX:   TracksPosition,
		TopY:    topY,
		RightX:  TracksPosition + font.TextWidth(name),
		BottomY: topY + font.Height(),
	}
}

// Load reads the album file at path. Relative artwork and audio paths are
// resolved against the directory of the file. Any short read or bad count is
// an error; nothing is partially loaded.
func Load(path string, font FontMetrics) ([]Album, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open album file: %w", err)
	}
	defer f.Close()

	r := &reader{scanner: bufio.NewScanner(f), base: filepath.Dir(path)}
	count, err := r.count()
	if err != nil {
		return nil, err
	}

	albums := make([]Album, 0, count)
	for i := 0; i < count; i++ {
		album, err := r.album(i, font)
		if err != nil {
			return nil, err
		}
		albums = append(albums, album)
	}
	if err := r.trailing(); err != nil {
		return nil, err
	}
	return albums, nil
}

type reader struct {
	scanner *bufio.Scanner
	base    string
	line    int
}

func (r *reader) next() (string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", fmt.Errorf("read album file: %w", err)
		}
		return "", fmt.Errorf("%w: unexpected end of file after line %d", ErrMalformed, r.line)
	}
	r.line++
	return strings.TrimRight(r.scanner.Text(), "\r\n"), nil
}

func (r *reader) count() (int, error) {
	s, err := r.next()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: line %d: invalid count %q", ErrMalformed, r.line, s)
	}
	return n, nil
}

func (r *reader) path() (string, error) {
	p, err := r.next()
	if err != nil {
		return "", err
	}
	if p == "" {
		return "", fmt.Errorf("%w: line %d: empty path", ErrMalformed, r.line)
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(r.base, p)
	}
	return p, nil
}

func (r *reader) album(i int, font FontMetrics) (Album, error) {
	title, err := r.next()
	if err != nil {
		return Album{}, err
	}
	artist, err := r.next()
	if err != nil {
		return Album{}, err
	}
	artPath, err := r.path()
	if err != nil {
		return Album{}, err
	}
	img, err := artwork.Load(artPath)
	if err != nil {
		return Album{}, fmt.Errorf("album %d artwork: %w", i+1, err)
	}
	leftX, topY := AlbumOrigin(i)
	b := img.Bounds()

	count, err := r.count()
	if err != nil {
		return Album{}, err
	}
	tracks := make([]Track, 0, count)
	for j := 0; j < count; j++ {
		name, err := r.next()
		if err != nil {
			return Album{}, err
		}
		location, err := r.path()
		if err != nil {
			return Album{}, err
		}
		tracks = append(tracks, Track{Name: name, Location: location, Dim: TrackDim(j, name, font)})
	}

	return Album{
		Title:  title,
		Artist: artist,
		Artwork: Artwork{
			Path:  artPath,
			Image: img,
			Dim:   geom.Rect(leftX, topY, b.Dx(), b.Dy()),
		},
		Tracks: tracks,
	}, nil
}

func (r *reader) trailing() error {
	for r.scanner.Scan() {
		r.line++
		if strings.TrimSpace(r.scanner.Text()) != "" {
			return fmt.Errorf("%w: line %d: data after the declared albums", ErrMalformed, r.line)
		}
	}
	return r.scanner.Err()
}
