package commands

import (
	"context"
	"fmt"

	"stickynotes/internal/application"
)

// EditNoteCommand replaces the text of a note and writes it out at once
type EditNoteCommand struct {
	session *application.Session
	NoteID  string
	Text    string
}

// NewEditNoteCommand creates a new EditNoteCommand
func NewEditNoteCommand(session *application.Session, noteID, text string) *EditNoteCommand {
	return &EditNoteCommand{session: session, NoteID: noteID, Text: text}
}

// Validate checks if the edit operation is valid
func (c *EditNoteCommand) Validate() error {
	return application.ValidateRequired("noteID", c.NoteID)
}

// Execute runs the edit note command
func (c *EditNoteCommand) Execute(ctx context.Context) (*UpdateNoteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := c.session.EditText(c.NoteID, c.Text); err != nil {
		return nil, err
	}
	if err := c.session.Flush(ctx); err != nil {
		return nil, err
	}
	return &UpdateNoteResult{
		NoteID:  c.NoteID,
		Message: fmt.Sprintf("Updated note %s", c.NoteID),
	}, nil
}
