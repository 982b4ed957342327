package commands

import (
	"context"
	"fmt"

	"stickynotes/internal/application"
)

// DeleteNoteResult contains the result of deleting a note
type DeleteNoteResult struct {
	NoteID  string
	Message string
}

// DeleteNoteCommand removes a note and restores its anchored text
type DeleteNoteCommand struct {
	session *application.Session
	NoteID  string
}

// NewDeleteNoteCommand creates a new DeleteNoteCommand
func NewDeleteNoteCommand(session *application.Session, noteID string) *DeleteNoteCommand {
	return &DeleteNoteCommand{
		session: session,
		NoteID:  noteID,
	}
}

// Validate checks if the delete operation is valid
func (c *DeleteNoteCommand) Validate() error {
	return application.ValidateRequired("noteID", c.NoteID)
}

// Execute runs the delete note command
func (c *DeleteNoteCommand) Execute(ctx context.Context) (*DeleteNoteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := c.session.DeleteNote(ctx, c.NoteID); err != nil {
		return nil, err
	}
	if err := c.session.Flush(ctx); err != nil {
		return nil, err
	}

	return &DeleteNoteResult{
		NoteID:  c.NoteID,
		Message: fmt.Sprintf("Deleted note %s", c.NoteID),
	}, nil
}
