// Package forecastapp is the bubbletea front-end of the weather dashboard.
package forecastapp

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tunecast/tunecast/internal/artwork"
	"github.com/tunecast/tunecast/internal/canvas"
	"github.com/tunecast/tunecast/internal/geom"
	"github.com/tunecast/tunecast/internal/ui"
	"github.com/tunecast/tunecast/internal/weather"
)

const (
	layerBackground canvas.Layer = iota
	layerMiddle
	layerTop
)

type Options struct {
	Service    *weather.Service
	Theme      string
	FPS        int
	NoColor    bool
	Timeout    time.Duration
	RetryAfter time.Duration
	Logger     *slog.Logger
}

// Model mutates the weather service only from Update.
type Model struct {
	svc     *weather.Service
	themes  *ui.Manager
	logger  *slog.Logger
	frame   time.Duration
	timeout time.Duration
	retry   time.Duration
	noColor bool

	now             time.Time
	icon            canvas.Sprite
	iconAt          geom.Dimension
	fetchingLoc     bool
	fetchingWeather bool
	retryLocAt      time.Time
	retryWeatherAt  time.Time
	locationChanged bool
	errorMsg        string
	width           int
	height          int
}

func New(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.RetryAfter <= 0 {
		opts.RetryAfter = 30 * time.Second
	}
	return Model{
		svc:     opts.Service,
		themes:  ui.NewManager(opts.Theme),
		logger:  opts.Logger,
		frame:   time.Second / time.Duration(opts.FPS),
		timeout: opts.Timeout,
		retry:   opts.RetryAfter,
		noColor: opts.NoColor,
		now:     opts.Service.Now(),
	}
}

type frameMsg time.Time

type locationMsg struct {
	loc weather.Location
	err error
}

type weatherMsg struct {
	w   weather.Weather
	err error
}

type iconMsg struct {
	img image.Image
	err error
}

type clearErrorMsg struct{}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.frameCmd(), m.loadIconCmd())
}

func (m Model) frameCmd() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
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

func (m Model) fetchLocationCmd() tea.Cmd {
	svc, timeout := m.svc, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		loc, err := svc.FetchLocation(ctx)
		return locationMsg{loc: loc, err: err}
	}
}

func (m Model) fetchWeatherCmd(loc weather.Location) tea.Cmd {
	svc, timeout := m.svc, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		w, err := svc.FetchWeather(ctx, loc)
		return weatherMsg{w: w, err: err}
	}
}

func (m Model) loadIconCmd() tea.Cmd {
	path := m.svc.IconPath()
	return func() tea.Msg {
		img, err := artwork.Load(path)
		return iconMsg{img: img, err: err}
	}
}

// refresh starts the fetches the staleness rules ask for. A location fetch
// runs first; its result decides whether the weather is refetched.
func (m Model) refresh() (Model, tea.Cmd) {
	if m.fetchingLoc || m.fetchingWeather {
		return m, nil
	}
	if m.svc.LocationStale() && !m.now.Before(m.retryLocAt) {
		m.logger.Info("updating location", slog.Time("at", m.now))
		m.fetchingLoc = true
		return m, m.fetchLocationCmd()
	}
	loc := m.svc.Location()
	if loc != nil && m.svc.WeatherStale(m.locationChanged) && !m.now.Before(m.retryWeatherAt) {
		m.logger.Info("updating weather", slog.Time("at", m.now))
		m.fetchingWeather = true
		return m, m.fetchWeatherCmd(*loc)
	}
	return m, nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.now = m.svc.Now()
		var cmd tea.Cmd
		m, cmd = m.refresh()
		return m, tea.Batch(cmd, m.frameCmd())
	case locationMsg:
		m.fetchingLoc = false
		if msg.err != nil {
			m.logger.Warn("location refresh failed", slog.Any("err", msg.err))
			m.retryLocAt = m.now.Add(m.retry)
			return m.setError(msg.err)
		}
		if m.svc.SetLocation(msg.loc) {
			m.locationChanged = true
		}
		return m, nil
	case weatherMsg:
		m.fetchingWeather = false
		if msg.err != nil && !errors.Is(msg.err, weather.ErrIcon) {
			m.logger.Warn("weather refresh failed", slog.Any("err", msg.err))
			m.retryWeatherAt = m.now.Add(m.retry)
			return m.setError(msg.err)
		}
		m.svc.SetWeather(msg.w)
		m.locationChanged = false
		if msg.err != nil {
			var cmd tea.Cmd
			m, cmd = m.setError(msg.err)
			return m, tea.Batch(cmd, m.loadIconCmd())
		}
		return m, m.loadIconCmd()
	case iconMsg:
		if msg.err != nil {
			m.logger.Debug("weather icon unavailable", slog.Any("err", msg.err))
			m.icon = nil
			return m, nil
		}
		w, h := msg.img.Bounds().Dx()*2, msg.img.Bounds().Dy()*2
		m.iconAt = geom.Rect(width/2-w/2, height/2-h/2, w, h)
		m.icon = artwork.Sprite(msg.img, m.iconAt)
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if m.themes.ClickArea(canvas.CellArea(msg.X, msg.Y)) {
				m.logger.Debug("theme toggled", slog.String("scheme", m.themes.Current().Name))
			}
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q", "ctrl+c":
			return m, tea.Quit
		}
	case clearErrorMsg:
		m.errorMsg = ""
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}
