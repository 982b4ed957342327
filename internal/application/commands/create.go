package commands

import (
	"context"
	"fmt"

	"stickynotes/internal/application"
	"stickynotes/internal/domain"
)

// CreateNoteResult contains the result of creating a note
type CreateNoteResult struct {
	Note    domain.Note
	Message string
}

// CreateNoteCommand adds a note to the session's page. Zero geometry takes
// the default card placement.
type CreateNoteCommand struct {
	session *application.Session
	Text    string
	X       float64
	Y       float64
	Width   float64
	Height  float64
}

// NewCreateNoteCommand creates a new CreateNoteCommand
func NewCreateNoteCommand(session *application.Session, text string) *CreateNoteCommand {
	return &CreateNoteCommand{
		session: session,
		Text:    text,
		X:       domain.DefaultX,
		Y:       domain.DefaultY,
		Width:   domain.DefaultWidth,
		Height:  domain.DefaultHeight,
	}
}

// Validate checks if the create operation is valid
func (c *CreateNoteCommand) Validate() error {
	if c.Width < 0 || c.Height < 0 {
		return &application.ValidationError{
			Field:   "size",
			Message: fmt.Sprintf("size cannot be negative, got: %gx%g", c.Width, c.Height),
		}
	}
	return nil
}

// Execute runs the create note command
func (c *CreateNoteCommand) Execute(ctx context.Context) (*CreateNoteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	n, err := c.session.AddNote(ctx, domain.Note{
		X:      c.X,
		Y:      c.Y,
		Width:  c.Width,
		Height: c.Height,
		Text:   c.Text,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	if err := c.session.Flush(ctx); err != nil {
		return nil, err
	}

	return &CreateNoteResult{
		Note:    n,
		Message: fmt.Sprintf("Created note %s", n.ID),
	}, nil
}
