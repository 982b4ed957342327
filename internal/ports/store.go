package ports

import (
	"context"

	"stickynotes/internal/domain"
)

// NoteStore persists the ordered note list of each page.
// Save replaces the whole list for the page; it never merges.
type NoteStore interface {
	// Load returns the notes for pageKey, or an empty list when none exist
	Load(ctx context.Context, pageKey string) ([]domain.Note, error)

	// Save overwrites the notes stored for pageKey
	Save(ctx context.Context, pageKey string, notes []domain.Note) error

	// Pages lists the keys of every page holding at least one note
	Pages(ctx context.Context) ([]string, error)
}
