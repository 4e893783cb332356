package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
	"github.com/tunecast/tunecast/internal/ui"
)

// Config holds the settings of both programs loaded from TOML.
type Config struct {
	UI      UIConfig      `toml:"ui"`
	Music   MusicConfig   `toml:"music"`
	Player  PlayerConfig  `toml:"player"`
	Weather WeatherConfig `toml:"weather"`
}

type UIConfig struct {
	FPS     int  `toml:"fps"`
	NoColor bool `toml:"no_color"`
}

type MusicConfig struct {
	AlbumsFile string `toml:"albums_file" env:"TUNECAST_ALBUMS_FILE"`
	History    *bool  `toml:"history"`
	HistoryDB  string `toml:"history_db"`
}

// HistoryEnabled reports whether plays are recorded. Defaults to true.
func (m MusicConfig) HistoryEnabled() bool { return m.History == nil || *m.History }

type PlayerConfig struct {
	MPVPath string `toml:"mpv_path" env:"TUNECAST_MPV_PATH"`
	IPC     string `toml:"ipc"`
}

type WeatherConfig struct {
	APIKey         string `toml:"api_key" env:"TUNECAST_WEATHER_API_KEY"`
	LocationURL    string `toml:"location_url"`
	WeatherURL     string `toml:"weather_url"`
	IconURL        string `toml:"icon_url"`
	DataDir        string `toml:"data_dir" env:"TUNECAST_DATA_DIR"`
	NetworkTimeout int    `toml:"network_timeout_ms"`
	RetrySeconds   int    `toml:"retry_seconds"`
	Theme          string `toml:"theme"`
}

// Timeout returns the HTTP timeout.
func (w WeatherConfig) Timeout() time.Duration {
	return time.Duration(w.NetworkTimeout) * time.Millisecond
}

// RetryAfter is the wait after a failed refresh.
func (w WeatherConfig) RetryAfter() time.Duration {
	return time.Duration(w.RetrySeconds) * time.Second
}

// Load reads configuration from disk. If path is empty, a default OS-specific
// location is used and a missing file means defaults. Environment variables
// override file values.
func Load(path string) (*Config, string, error) {
	cfgPath := path
	if cfgPath == "" {
		var err error
		cfgPath, err = DefaultPath()
		if err != nil {
			return nil, "", fmt.Errorf("resolve config path: %w", err)
		}
	}

	var cfg Config
	data, err := os.ReadFile(cfgPath)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, cfgPath, fmt.Errorf("parse config: %w", err)
		}
	case path == "" && errors.Is(err, fs.ErrNotExist):
	default:
		return nil, cfgPath, fmt.Errorf("read config: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, cfgPath, fmt.Errorf("parse environment: %w", err)
	}
	if os.Getenv("NO_COLOR") != "" {
		cfg.UI.NoColor = true
	}

	applyDefaults(&cfg, filepath.Dir(cfgPath))
	if err := Validate(cfg); err != nil {
		return nil, cfgPath, err
	}
	return &cfg, cfgPath, nil
}

// DefaultPath is config.toml in the tunecast config directory.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Dir is the tunecast directory under the user config dir.
func Dir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tunecast"), nil
}

func applyDefaults(cfg *Config, base string) {
	if cfg.UI.FPS == 0 {
		cfg.UI.FPS = 30
	}
	if cfg.Music.AlbumsFile == "" {
		cfg.Music.AlbumsFile = "albums.txt"
	}
	if cfg.Music.HistoryDB == "" {
		cfg.Music.HistoryDB = filepath.Join(base, "history.db")
	}
	if cfg.Player.MPVPath == "" {
		cfg.Player.MPVPath = "mpv"
	}
	if cfg.Weather.LocationURL == "" {
		cfg.Weather.LocationURL = "https://freegeoip.app/json/"
	}
	if cfg.Weather.WeatherURL == "" {
		cfg.Weather.WeatherURL = "https://api.openweathermap.org/data/2.5/weather"
	}
	if cfg.Weather.IconURL == "" {
		cfg.Weather.IconURL = "https://openweathermap.org/img/wn/{icon}@2x.png"
	}
	if cfg.Weather.DataDir == "" {
		cfg.Weather.DataDir = filepath.Join(base, "weather")
	}
	if cfg.Weather.NetworkTimeout == 0 {
		cfg.Weather.NetworkTimeout = 8000
	}
	if cfg.Weather.RetrySeconds == 0 {
		cfg.Weather.RetrySeconds = 30
	}
	if cfg.Weather.Theme == "" {
		cfg.Weather.Theme = ui.Dark
	}
	cfg.Music.AlbumsFile = expandHome(cfg.Music.AlbumsFile)
	cfg.Music.HistoryDB = expandHome(cfg.Music.HistoryDB)
	cfg.Weather.DataDir = expandHome(cfg.Weather.DataDir)
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// Validate performs semantic validation shared by both programs.
func Validate(cfg Config) error {
	if cfg.UI.FPS <= 0 || cfg.UI.FPS > 120 {
		return fmt.Errorf("ui.fps must be 1-120")
	}
	if cfg.Music.AlbumsFile == "" {
		return errors.New("music.albums_file is required")
	}
	if !ui.Valid(cfg.Weather.Theme) {
		return fmt.Errorf("weather.theme %q is not one of %s", cfg.Weather.Theme, strings.Join(ui.Names(), ", "))
	}
	for name, raw := range map[string]string{
		"weather.location_url": cfg.Weather.LocationURL,
		"weather.weather_url":  cfg.Weather.WeatherURL,
		"weather.icon_url":     cfg.Weather.IconURL,
	} {
		if err := validateURL(raw); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if !strings.Contains(cfg.Weather.IconURL, "{icon}") {
		return errors.New("weather.icon_url must contain {icon}")
	}
	if cfg.Weather.NetworkTimeout < 0 || cfg.Weather.RetrySeconds < 0 {
		return errors.New("weather timeouts must not be negative")
	}
	return nil
}

func validateURL(raw string) error {
	if raw == "" {
		return errors.New("is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	return nil
}

// CheckMPV resolves the mpv binary.
func (c Config) CheckMPV() (string, error) {
	if _, err := os.Stat(c.Player.MPVPath); err == nil {
		return c.Player.MPVPath, nil
	}
	p, err := execLookPath(c.Player.MPVPath)
	if err != nil {
		return "", fmt.Errorf("mpv not found (%s): %w", c.Player.MPVPath, err)
	}
	return p, nil
}

// StartupContext bounds the initial forecast: location, weather and icon
// requests each get one network timeout.
func (c Config) StartupContext() (context.Context, context.CancelFunc) {
	d := c.Weather.Timeout()
	if d == 0 {
		d = 8 * time.Second
	}
	return context.WithTimeout(context.Background(), 3*d)
}

// execLookPath is a test seam.
var execLookPath = func(file string) (string, error) {
	return exec.LookPath(file)
}
