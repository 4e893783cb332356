package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tunecast/tunecast/internal/canvas"
	"github.com/tunecast/tunecast/internal/config"
	"github.com/tunecast/tunecast/internal/history"
	"github.com/tunecast/tunecast/internal/library"
	"github.com/tunecast/tunecast/internal/logging"
	"github.com/tunecast/tunecast/internal/musicapp"
	"github.com/tunecast/tunecast/internal/player"
)

var version = "0.1.0"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `musicplayer - album browser and player

Usage: musicplayer [options]

Options:
  -config string
        Path to config file (default: ~/.config/tunecast/config.toml)
  -version
        Print version and exit

Diagnostics:
  -doctor
        Check configuration, mpv and the album list
  -history
        Print the most recent plays and exit
  -history-clear
        Delete all recorded plays and exit

Controls:
  click an album to play it, click a track to jump to it, q to quit

`)
	}

	cfgPath := flag.String("config", "", "")
	doctor := flag.Bool("doctor", false, "")
	showHistory := flag.Bool("history", false, "")
	clearHistory := flag.Bool("history-clear", false, "")
	showVersion := flag.Bool("version", false, "")
	flag.Parse()

	if *showVersion {
		fmt.Println("musicplayer", version)
		return
	}

	cfg, resolvedPath, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, logFile, err := logging.Setup("musicplayer", slog.LevelInfo)
	if err != nil {
		log.Fatalf("setup logging: %v", err)
	}
	defer logFile.Close()
	logger.Info("starting musicplayer", slog.String("config", resolvedPath))

	if *doctor {
		runDoctor(cfg, logger)
		return
	}
	if *clearHistory {
		if err := clearPlays(cfg); err != nil {
			log.Fatalf("history: %v", err)
		}
		logger.Info("play history cleared", slog.String("db", cfg.Music.HistoryDB))
		fmt.Println("Play history cleared")
		return
	}
	if *showHistory {
		if err := printHistory(cfg); err != nil {
			log.Fatalf("history: %v", err)
		}
		return
	}

	albums, err := library.Load(cfg.Music.AlbumsFile, canvas.Font{})
	if err != nil {
		logger.Error("load albums", slog.Any("err", err))
		log.Fatalf("load albums: %v", err)
	}
	logger.Info("albums loaded", slog.Int("count", len(albums)), slog.String("file", cfg.Music.AlbumsFile))

	ctrl := player.New(player.Options{
		MPVPath: cfg.Player.MPVPath,
		IPCPath: cfg.Player.IPC,
		Logger:  logger,
	})
	if err := ctrl.Start(context.Background()); err != nil {
		logger.Error("start player", slog.Any("err", err))
		log.Fatalf("start player: %v", err)
	}
	defer ctrl.Stop()

	var store *history.Store
	if cfg.Music.HistoryEnabled() {
		store, err = history.Open(cfg.Music.HistoryDB)
		if err != nil {
			logger.Warn("play history unavailable", slog.Any("err", err))
		} else {
			defer store.Close()
		}
	}

	model := musicapp.New(musicapp.Options{
		Albums:   albums,
		Backend:  musicapp.ControllerBackend{Controller: ctrl},
		Events:   ctrl.Events(),
		History:  store,
		ReadTags: library.ReadTags,
		FPS:      cfg.UI.FPS,
		NoColor:  cfg.UI.NoColor,
		Logger:   logger,
	})
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run(); err != nil {
		logger.Error("run tui", slog.Any("err", err))
		log.Fatalf("tui: %v", err)
	}
}

func printHistory(cfg *config.Config) error {
	store, err := history.Open(cfg.Music.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	plays, err := store.Recent(context.Background(), 20)
	if err != nil {
		return err
	}
	if len(plays) == 0 {
		fmt.Println("No plays recorded yet")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PLAYED\tARTIST\tALBUM\tTRACK")
	for _, p := range plays {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.PlayedAt.Local().Format(time.DateTime), p.Artist, p.Album, p.Track)
	}
	return w.Flush()
}

func clearPlays(cfg *config.Config) error {
	store, err := history.Open(cfg.Music.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Clear(context.Background())
}

func runDoctor(cfg *config.Config, logger *slog.Logger) {
	fmt.Println("musicplayer doctor")
	fmt.Println("Config file: OK")

	if path, err := cfg.CheckMPV(); err != nil {
		fmt.Printf("mpv (%s): NOT FOUND\n", cfg.Player.MPVPath)
	} else {
		fmt.Printf("mpv: OK (%s)\n", path)
	}

	albums, err := library.Load(cfg.Music.AlbumsFile, canvas.Font{})
	if err != nil {
		fmt.Printf("Albums (%s): ERROR - %v\n", cfg.Music.AlbumsFile, err)
		return
	}
	tracks := 0
	for _, a := range albums {
		tracks += len(a.Tracks)
	}
	fmt.Printf("Albums: OK (%d albums, %d tracks)\n", len(albums), tracks)

	if cfg.Music.HistoryEnabled() {
		fmt.Printf("History: %s\n", cfg.Music.HistoryDB)
	} else {
		fmt.Println("History: disabled")
	}
	logger.Info("doctor complete")
}
