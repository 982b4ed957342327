package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"stickynotes/internal/config"
	"stickynotes/internal/domain"
	"stickynotes/internal/ports"

	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

// Store implements ports.NoteStore using SQLite
type Store struct {
	db   *sql.DB
	path string
}

// Ensure Store implements NoteStore
var _ ports.NoteStore = (*Store)(nil)

// Open opens (creating if needed) the note database at path.
// The special path ":memory:" keeps everything in process.
func Open(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		path = config.ExpandHome(path)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps :memory: databases shared and writes serialized
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA temp_store = MEMORY;

		CREATE TABLE IF NOT EXISTS notes (
			page_key TEXT NOT NULL,
			position INTEGER NOT NULL,
			id TEXT NOT NULL,
			x REAL NOT NULL DEFAULT 0,
			y REAL NOT NULL DEFAULT 0,
			width REAL NOT NULL DEFAULT 0,
			height REAL NOT NULL DEFAULT 0,
			text TEXT NOT NULL DEFAULT '',
			minimized INTEGER NOT NULL DEFAULT 0,
			anchor TEXT,
			updated_at INTEGER NOT NULL,
			PRIMARY KEY (page_key, position)
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_notes_id ON notes(id);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	if _, err := db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to update metadata: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the resolved database path
func (s *Store) Path() string {
	return s.path
}

// Load returns the notes of a page in their stored order
func (s *Store) Load(ctx context.Context, pageKey string) ([]domain.Note, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, x, y, width, height, text, minimized, anchor
		FROM notes WHERE page_key = ?
		ORDER BY position
	`, pageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	notes := []domain.Note{}
	for rows.Next() {
		var n domain.Note
		var minimized int
		var anchorJSON sql.NullString
		if err := rows.Scan(&n.ID, &n.X, &n.Y, &n.Width, &n.Height, &n.Text, &minimized, &anchorJSON); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		n.Minimized = minimized != 0
		if anchorJSON.Valid && anchorJSON.String != "" {
			var a domain.AnchorRecord
			// An unreadable anchor degrades to an unanchored note
			if err := json.Unmarshal([]byte(anchorJSON.String), &a); err == nil && a.Valid() {
				n.Anchor = &a
			}
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// Save replaces the notes of a page in a single transaction
func (s *Store) Save(ctx context.Context, pageKey string, notes []domain.Note) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM notes WHERE page_key = ?`, pageKey); err != nil {
		return fmt.Errorf("failed to clear notes: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO notes (page_key, position, id, x, y, width, height, text, minimized, anchor, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for i, n := range notes {
		var anchorJSON sql.NullString
		if n.Anchor != nil {
			data, err := json.Marshal(n.Anchor)
			if err != nil {
				return fmt.Errorf("failed to encode anchor for %s: %w", n.ID, err)
			}
			anchorJSON = sql.NullString{String: string(data), Valid: true}
		}
		minimized := 0
		if n.Minimized {
			minimized = 1
		}
		if _, err := stmt.ExecContext(ctx, pageKey, i, n.ID, n.X, n.Y, n.Width, n.Height, n.Text, minimized, anchorJSON, now); err != nil {
			return fmt.Errorf("failed to insert note %s: %w", n.ID, err)
		}
	}

	return tx.Commit()
}

// Pages lists every page key with stored notes
func (s *Store) Pages(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT page_key FROM notes ORDER BY page_key`)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()

	var pages []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		pages = append(pages, key)
	}
	return pages, rows.Err()
}
