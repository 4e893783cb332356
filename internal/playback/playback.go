// Package playback sequences tracks of the selected album: mouse clicks
// choose an album or a track, and every frame the sequencer advances to the
// next track once the current one has finished.
package playback

import (
	"fmt"
	"log/slog"

	"github.com/tunecast/tunecast/internal/geom"
	"github.com/tunecast/tunecast/internal/library"
)

// Sound is a started track.
type Sound interface {
	Playing() bool
}

// Backend starts audio files.
type Backend interface {
	Play(location string) (Sound, error)
}

// Sequencer holds the album/track selection. It is not safe for concurrent
// use; the UI goroutine owns it.
type Sequencer struct {
	albums  []library.Album
	backend Backend
	logger  *slog.Logger

	album      int
	track      int
	sound      Sound
	generation uint64
	err        error
}

func New(albums []library.Album, backend Backend, logger *slog.Logger) *Sequencer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sequencer{
		albums:  albums,
		backend: backend,
		logger:  logger,
		album:   -1,
		track:   -1,
	}
}

func (s *Sequencer) Albums() []library.Album { return s.albums }

// Album returns the selected album index, or -1.
func (s *Sequencer) Album() int { return s.album }

// Track returns the selected track index, or -1.
func (s *Sequencer) Track() int { return s.track }

// Sound returns the active sound, or nil.
func (s *Sequencer) Sound() Sound { return s.sound }

// Generation increases each time a track starts.
func (s *Sequencer) Generation() uint64 { return s.generation }

// Err returns the error of the last failed start and clears it.
func (s *Sequencer) Err() error {
	err := s.err
	s.err = nil
	return err
}

// Current returns the playing album and track.
func (s *Sequencer) Current() (library.Album, library.Track, bool) {
	if s.album < 0 || s.sound == nil {
		return library.Album{}, library.Track{}, false
	}
	a := s.albums[s.album]
	if s.track < 0 || s.track >= len(a.Tracks) {
		return library.Album{}, library.Track{}, false
	}
	return a, a.Tracks[s.track], true
}

// Tick runs once per frame.
func (s *Sequencer) Tick() {
	if s.album < 0 {
		return
	}
	tracks := s.albums[s.album].Tracks
	if len(tracks) == 0 {
		return
	}
	if s.sound == nil {
		s.track = 0
		if !s.start(0) {
			return
		}
	}
	if !s.sound.Playing() {
		s.start((s.track + 1) % len(tracks))
	}
}

// Click handles a left click at p. Both passes run: a click on a track
// starts it, and a click on an album artwork selects that album from its
// first track.
func (s *Sequencer) Click(p geom.Point) { s.ClickArea(p.Area()) }

// ClickArea is Click for a click that covers an area, such as a terminal
// cell. A target is hit when a pixel strictly inside it lies in area.
func (s *Sequencer) ClickArea(area geom.Dimension) {
	if s.album >= 0 {
		for i, t := range s.albums[s.album].Tracks {
			if t.Dim.Overlaps(area) {
				s.logger.Debug("track clicked", slog.Int("album", s.album), slog.Int("track", i))
				s.start(i)
				break
			}
		}
	}
	for i, a := range s.albums {
		if a.Artwork.Dim.Overlaps(area) {
			s.logger.Debug("album clicked", slog.Int("album", i))
			s.album = i
			s.track = 0
			s.sound = nil
			break
		}
	}
}

func (s *Sequencer) start(i int) bool {
	t := s.albums[s.album].Tracks[i]
	sound, err := s.backend.Play(t.Location)
	if err != nil {
		s.logger.Error("failed to start track", slog.String("location", t.Location), slog.Any("err", err))
		s.err = fmt.Errorf("play %q: %w", t.Name, err)
		s.album = -1
		s.track = -1
		s.sound = nil
		return false
	}
	s.track = i
	s.sound = sound
	s.generation++
	return true
}
