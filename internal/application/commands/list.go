package commands

import (
	"context"

	"stickynotes/internal/application"
	"stickynotes/internal/domain"
	"stickynotes/internal/ports"
)

// ListNotesCommand lists the stored notes of one page
type ListNotesCommand struct {
	store   ports.NoteStore
	PageURL string
}

// NewListNotesCommand creates a new ListNotesCommand
func NewListNotesCommand(store ports.NoteStore, pageURL string) *ListNotesCommand {
	return &ListNotesCommand{
		store:   store,
		PageURL: pageURL,
	}
}

// Validate checks if the list operation is valid
func (c *ListNotesCommand) Validate() error {
	return application.ValidateRequired("pageURL", c.PageURL)
}

// Execute runs the list notes command
func (c *ListNotesCommand) Execute(ctx context.Context) ([]domain.Note, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c.store.Load(ctx, domain.PageKey(c.PageURL))
}

// ListPagesCommand lists every page holding notes
type ListPagesCommand struct {
	store ports.NoteStore
}

// NewListPagesCommand creates a new ListPagesCommand
func NewListPagesCommand(store ports.NoteStore) *ListPagesCommand {
	return &ListPagesCommand{store: store}
}

// Execute runs the list pages command and returns page URLs
func (c *ListPagesCommand) Execute(ctx context.Context) ([]string, error) {
	keys, err := c.store.Pages(ctx)
	if err != nil {
		return nil, err
	}
	urls := make([]string, len(keys))
	for i, k := range keys {
		urls[i] = domain.PageURL(k)
	}
	return urls, nil
}
