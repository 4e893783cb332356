// Package musicapp is the bubbletea front-end of the music player.
package musicapp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tunecast/tunecast/internal/artwork"
	"github.com/tunecast/tunecast/internal/canvas"
	"github.com/tunecast/tunecast/internal/history"
	"github.com/tunecast/tunecast/internal/library"
	"github.com/tunecast/tunecast/internal/playback"
	"github.com/tunecast/tunecast/internal/player"
)

const (
	WindowWidth  = 800
	WindowHeight = 600
)

const (
	layerBackground canvas.Layer = iota
	layerPlayer
	layerUI
)

// Options wires the model to its collaborators. Events, History and
// ReadTags may be nil.
type Options struct {
	Albums   []library.Album
	Backend  playback.Backend
	Events   <-chan player.Event
	History  *history.Store
	ReadTags func(location string) (library.Tags, error)
	FPS      int
	NoColor  bool
	Logger   *slog.Logger
}

type Model struct {
	seq      *playback.Sequencer
	events   <-chan player.Event
	history  *history.Store
	readTags func(string) (library.Tags, error)
	logger   *slog.Logger
	frame    time.Duration
	noColor  bool
	sprites  []canvas.Sprite

	generation uint64
	tags       library.Tags
	timePos    float64
	duration   float64
	errorMsg   string
	width      int
	height     int
}

func New(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	sprites := make([]canvas.Sprite, len(opts.Albums))
	for i, a := range opts.Albums {
		sprites[i] = artwork.Sprite(a.Artwork.Image, a.Artwork.Dim)
	}
	return Model{
		seq:      playback.New(opts.Albums, opts.Backend, opts.Logger),
		events:   opts.Events,
		history:  opts.History,
		readTags: opts.ReadTags,
		logger:   opts.Logger,
		frame:    time.Second / time.Duration(opts.FPS),
		noColor:  opts.NoColor,
		sprites:  sprites,
	}
}

type frameMsg time.Time

type playerMsg player.Event

type tagsMsg struct {
	generation uint64
	play       history.Play
	tags       library.Tags
	err        error
}

type recordedMsg struct {
	err error
}

type clearErrorMsg struct{}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.frameCmd(), m.watchPlayerCmd())
}

func (m Model) frameCmd() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m Model) watchPlayerCmd() tea.Cmd {
	if m.events == nil {
		return nil
	}
	return func() tea.Msg {
		evt, ok := <-m.events
		if !ok {
			return nil
		}
		return playerMsg(evt)
	}
}

func (m Model) clearErrorCmd() tea.Cmd {
	return tea.Tick(3*time.Second, func(t time.Time) tea.Msg {
		return clearErrorMsg{}
	})
}

func (m Model) setError(err error) (Model, tea.Cmd) {
	m.errorMsg = err.Error()
	return m, m.clearErrorCmd()
}

// readTagsCmd reads the tags of a started track once. The result feeds both
// the now-playing line and the history row.
func (m Model) readTagsCmd(generation uint64, play history.Play) tea.Cmd {
	readTags := m.readTags
	return func() tea.Msg {
		tags, err := readTags(play.Location)
		return tagsMsg{generation: generation, play: play, tags: tags, err: err}
	}
}

func (m Model) recordCmd(play history.Play) tea.Cmd {
	if m.history == nil {
		return nil
	}
	store := m.history
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, err := store.Record(ctx, play)
		return recordedMsg{err: err}
	}
}

// afterStep reacts to sequencer changes made by Tick or Click.
func (m Model) afterStep() (Model, tea.Cmd) {
	var cmds []tea.Cmd
	if err := m.seq.Err(); err != nil {
		var cmd tea.Cmd
		m, cmd = m.setError(err)
		cmds = append(cmds, cmd)
	}
	if gen := m.seq.Generation(); gen != m.generation {
		m.generation = gen
		m.tags = library.Tags{}
		m.timePos, m.duration = 0, 0
		if album, track, ok := m.seq.Current(); ok {
			m.logger.Info("track started", slog.String("album", album.Title), slog.String("track", track.Name))
			play := history.Play{
				Album:    album.Title,
				Artist:   album.Artist,
				Track:    track.Name,
				Location: track.Location,
				PlayedAt: time.Now(),
			}
			if m.readTags != nil {
				cmds = append(cmds, m.readTagsCmd(gen, play))
			} else {
				cmds = append(cmds, m.recordCmd(play))
			}
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.seq.Tick()
		var cmd tea.Cmd
		m, cmd = m.afterStep()
		return m, tea.Batch(cmd, m.frameCmd())
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.seq.ClickArea(canvas.CellArea(msg.X, msg.Y))
			return m.afterStep()
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case playerMsg:
		if msg.Started != "" {
			m.timePos, m.duration = 0, 0
		}
		if msg.TimePos != nil {
			m.timePos = *msg.TimePos
		}
		if msg.Duration != nil {
			m.duration = *msg.Duration
		}
		if msg.Err != nil {
			m.logger.Warn("player error", slog.Any("err", msg.Err))
			var cmd tea.Cmd
			m, cmd = m.setError(msg.Err)
			return m, tea.Batch(cmd, m.watchPlayerCmd())
		}
		return m, m.watchPlayerCmd()
	case tagsMsg:
		if msg.err != nil {
			m.logger.Debug("no tags", slog.String("track", msg.play.Location), slog.Any("err", msg.err))
		} else {
			msg.play.Tags = msg.tags
			if msg.generation == m.generation {
				m.tags = msg.tags
			}
		}
		return m, m.recordCmd(msg.play)
	case recordedMsg:
		if msg.err != nil {
			m.logger.Warn("record history", slog.Any("err", msg.err))
		}
	case clearErrorMsg:
		m.errorMsg = ""
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

// nowPlaying describes the current track, preferring embedded tags.
func (m Model) nowPlaying() string {
	album, track, ok := m.seq.Current()
	if !ok {
		return ""
	}
	title, artist := track.Name, album.Artist
	if m.tags.Title != "" {
		title = m.tags.Title
	}
	if m.tags.Artist != "" {
		artist = m.tags.Artist
	}
	s := fmt.Sprintf("%s - %s (%s)", artist, title, album.Title)
	if m.duration > 0 {
		s += fmt.Sprintf(" %s/%s", clock(m.timePos), clock(m.duration))
	}
	return s
}

func clock(seconds float64) string {
	s := int(seconds)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

// ControllerBackend plays tracks through mpv.
type ControllerBackend struct {
	Controller *player.Controller
}

func (b ControllerBackend) Play(location string) (playback.Sound, error) {
	song, err := b.Controller.Play(location)
	if err != nil {
		return nil, err
	}
	return song, nil
}
