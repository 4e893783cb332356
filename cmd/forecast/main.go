package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tunecast/tunecast/internal/config"
	"github.com/tunecast/tunecast/internal/forecastapp"
	"github.com/tunecast/tunecast/internal/logging"
	"github.com/tunecast/tunecast/internal/weather"
)

var version = "0.1.0"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `forecast - local weather dashboard

Usage: forecast [options]

Options:
  -config string
        Path to config file (default: ~/.config/tunecast/config.toml)
  -version
        Print version and exit

Environment:
  TUNECAST_WEATHER_API_KEY   OpenWeatherMap API key
  TUNECAST_DATA_DIR          Directory for cached snapshots and the icon

Controls:
  click Toggle to switch between dark and light, esc or q to quit

`)
	}

	cfgPath := flag.String("config", "", "")
	showVersion := flag.Bool("version", false, "")
	flag.Parse()

	if *showVersion {
		fmt.Println("forecast", version)
		return
	}

	cfg, resolvedPath, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, logFile, err := logging.Setup("forecast", slog.LevelInfo)
	if err != nil {
		log.Fatalf("setup logging: %v", err)
	}
	defer logFile.Close()
	logger.Info("starting forecast", slog.String("config", resolvedPath))

	store, err := weather.NewStore(cfg.Weather.DataDir)
	if err != nil {
		log.Fatalf("weather data dir: %v", err)
	}
	client := weather.NewClient(weather.ClientOptions{
		APIKey:      cfg.Weather.APIKey,
		LocationURL: cfg.Weather.LocationURL,
		WeatherURL:  cfg.Weather.WeatherURL,
		IconURL:     cfg.Weather.IconURL,
		Timeout:     cfg.Weather.Timeout(),
		Logger:      logger,
	})
	svc := weather.NewService(client, store, logger)

	ctx, cancel := cfg.StartupContext()
	err = svc.Start(ctx)
	cancel()
	if err != nil {
		logger.Error("initial forecast", slog.Any("err", err))
		if errors.Is(err, weather.ErrNoAPIKey) {
			log.Fatalf("forecast: %v (set weather.api_key or TUNECAST_WEATHER_API_KEY)", err)
		}
		log.Fatalf("forecast: %v", err)
	}
	if cfg.Weather.APIKey == "" {
		logger.Warn("no weather api key, showing cached forecast only")
	}

	model := forecastapp.New(forecastapp.Options{
		Service:    svc,
		Theme:      cfg.Weather.Theme,
		FPS:        cfg.UI.FPS,
		NoColor:    cfg.UI.NoColor,
		Timeout:    cfg.Weather.Timeout(),
		RetryAfter: cfg.Weather.RetryAfter(),
		Logger:     logger,
	})
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run(); err != nil {
		logger.Error("run tui", slog.Any("err", err))
		log.Fatalf("tui: %v", err)
	}
}
