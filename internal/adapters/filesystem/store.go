package filesystem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"stickynotes/internal/config"
	"stickynotes/internal/domain"
	"stickynotes/internal/ports"
)

const ext = ".json"

// Store implements ports.NoteStore as one JSON document per page key,
// the same shape a browser's local storage would hold.
type Store struct {
	dir string
}

var _ ports.NoteStore = (*Store)(nil)

// NewStore creates a store rooted at dir, creating it if needed
func NewStore(dir string) (*Store, error) {
	dir = config.ExpandHome(dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory holding the page files
func (s *Store) Dir() string {
	return s.dir
}

// Load returns the notes stored under pageKey. A missing file is an empty page.
func (s *Store) Load(ctx context.Context, pageKey string) ([]domain.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(pageKey))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", pageKey, err)
	}

	var notes []domain.Note
	if err := json.Unmarshal(data, &notes); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", pageKey, err)
	}
	return notes, nil
}

// Save replaces the notes stored under pageKey. The file is written to a
// temporary name and renamed so readers never see a partial list.
func (s *Store) Save(ctx context.Context, pageKey string, notes []domain.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target := s.path(pageKey)
	if len(notes) == 0 {
		if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", pageKey, err)
		}
		return nil
	}

	data, err := json.MarshalIndent(notes, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", pageKey, err)
	}
	tmp, err := os.CreateTemp(s.dir, ".save-*")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", pageKey, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", pageKey, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", pageKey, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", pageKey, err)
	}
	return nil
}

// Pages returns the keys of every stored page, sorted
func (s *Store) Pages(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read store directory: %w", err)
	}

	var keys []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ext) {
			continue
		}
		key, err := url.PathUnescape(strings.TrimSuffix(name, ext))
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) path(pageKey string) string {
	return filepath.Join(s.dir, url.PathEscape(pageKey)+ext)
}
