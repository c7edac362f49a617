// Package markers persists the local fallback like-markers. The engagement
// core reads them exactly once per story, at first paint, to pre-seed the UI
// before the server has answered; after that the store is write-only from
// the core's point of view.
package markers

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const dbFile = "markers.db"

// Store wraps the marker database connection.
type Store struct {
	conn *sql.DB
}

// Open opens (creating if needed) the marker database under baseDir.
func Open(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create marker dir: %w", err)
	}

	conn, err := sql.Open("sqlite", filepath.Join(baseDir, dbFile))
	if err != nil {
		return nil, fmt.Errorf("open marker db: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=500"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	_, err = conn.Exec(`
		CREATE TABLE IF NOT EXISTS like_markers (
			story_id   TEXT PRIMARY KEY,
			liked      INTEGER NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create marker schema: %w", err)
	}

	return &Store{conn: conn}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Get returns the persisted like marker for a story. ok is false when no
// marker has ever been written for the story.
func (s *Store) Get(storyID string) (liked bool, ok bool, err error) {
	var v int
	err = s.conn.QueryRow(`SELECT liked FROM like_markers WHERE story_id = ?`, storyID).Scan(&v)
	if err == sql.ErrNoRows {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("read marker %s: %w", storyID, err)
	}
	return v != 0, true, nil
}

// Set writes the like marker for a story, replacing any previous value.
func (s *Store) Set(storyID string, liked bool) error {
	v := 0
	if liked {
		v = 1
	}
	_, err := s.conn.Exec(`
		INSERT INTO like_markers (story_id, liked, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(story_id) DO UPDATE SET liked = excluded.liked, updated_at = CURRENT_TIMESTAMP`,
		storyID, v)
	if err != nil {
		return fmt.Errorf("write marker %s: %w", storyID, err)
	}
	return nil
}
