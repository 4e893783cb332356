// Package history records started tracks in SQLite.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tunecast/tunecast/internal/library"
	_ "modernc.org/sqlite"
)

// Play is one started track.
type Play struct {
	ID       int64
	Album    string
	Artist   string
	Track    string
	Location string
	Tags     library.Tags
	PlayedAt time.Time
}

// Store handles play history persistence to SQLite.
type Store struct {
	db *sql.DB
}

// Open creates or opens the history database at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	// One connection keeps writes from concurrent commands serialised.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS plays (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			album TEXT NOT NULL,
			artist TEXT NOT NULL,
			track TEXT NOT NULL,
			location TEXT NOT NULL,
			tags_json TEXT NOT NULL DEFAULT '{}',
			played_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS plays_played_at ON plays (played_at);`,
	}
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate history schema: %w", err)
		}
	}
	return nil
}

// Record appends a play and returns its id.
func (s *Store) Record(ctx context.Context, p Play) (int64, error) {
	tagsJSON, err := json.Marshal(p.Tags)
	if err != nil {
		return 0, fmt.Errorf("marshal tags: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO plays (album, artist, track, location, tags_json, played_at) VALUES (?, ?, ?, ?, ?, ?)`,
		p.Album, p.Artist, p.Track, p.Location, string(tagsJSON), p.PlayedAt.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("insert play: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit plays, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Play, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, album, artist, track, location, tags_json, played_at FROM plays ORDER BY played_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("load plays: %w", err)
	}
	defer rows.Close()

	var plays []Play
	for rows.Next() {
		var (
			p        Play
			tagsJSON string
			ms       int64
		)
		if err := rows.Scan(&p.ID, &p.Album, &p.Artist, &p.Track, &p.Location, &tagsJSON, &ms); err != nil {
			return nil, fmt.Errorf("scan play: %w", err)
		}
		// Tags are informational; a corrupt column leaves them empty.
		_ = json.Unmarshal([]byte(tagsJSON), &p.Tags)
		p.PlayedAt = time.UnixMilli(ms)
		plays = append(plays, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plays: %w", err)
	}
	return plays, nil
}

// Clear removes all recorded plays.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM plays`)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
