package weather

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	LocationFile = "location.json"
	ForecastFile = "forecast.json"
	IconFile     = "weather_symbol.png"
)

// Store keeps snapshot files in one directory. Every save replaces the
// whole file.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Load returns ErrNoSnapshot when the file does not exist.
func (s *Store) Load(name string) (Snapshot, error) {
	b, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	snap, err := DecodeSnapshot(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return snap, nil
}

func (s *Store) Save(name string, snap Snapshot) error {
	b, err := snap.Marshal()
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (s *Store) SaveIcon(data []byte) error {
	if err := os.WriteFile(s.IconPath(), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", IconFile, err)
	}
	return nil
}

func (s *Store) IconPath() string { return filepath.Join(s.dir, IconFile) }

func (s *Store) HasIcon() bool {
	_, err := os.Stat(s.IconPath())
	return err == nil
}
