package commands

import (
	"context"
	"fmt"

	"stickynotes/internal/application"
)

// UpdateNoteResult contains the result of changing a note
type UpdateNoteResult struct {
	NoteID  string
	Message string
}

// MoveNoteCommand stores a new card position
type MoveNoteCommand struct {
	session *application.Session
	NoteID  string
	X       float64
	Y       float64
}

// NewMoveNoteCommand creates a new MoveNoteCommand
func NewMoveNoteCommand(session *application.Session, noteID string, x, y float64) *MoveNoteCommand {
	return &MoveNoteCommand{session: session, NoteID: noteID, X: x, Y: y}
}

// Validate checks if the move operation is valid
func (c *MoveNoteCommand) Validate() error {
	return application.ValidateRequired("noteID", c.NoteID)
}

// Execute runs the move note command
func (c *MoveNoteCommand) Execute(ctx context.Context) (*UpdateNoteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := c.session.Move(ctx, c.NoteID, c.X, c.Y); err != nil {
		return nil, err
	}
	if err := c.session.Flush(ctx); err != nil {
		return nil, err
	}
	return &UpdateNoteResult{
		NoteID:  c.NoteID,
		Message: fmt.Sprintf("Moved note %s to (%g, %g)", c.NoteID, c.X, c.Y),
	}, nil
}

// ResizeNoteCommand stores new card dimensions
type ResizeNoteCommand struct {
	session *application.Session
	NoteID  string
	Width   float64
	Height  float64
}

// NewResizeNoteCommand creates a new ResizeNoteCommand
func NewResizeNoteCommand(session *application.Session, noteID string, width, height float64) *ResizeNoteCommand {
	return &ResizeNoteCommand{session: session, NoteID: noteID, Width: width, Height: height}
}

// Validate checks if the resize operation is valid
func (c *ResizeNoteCommand) Validate() error {
	if err := application.ValidateRequired("noteID", c.NoteID); err != nil {
		return err
	}
	if err := application.ValidateSize("width", c.Width); err != nil {
		return err
	}
	return application.ValidateSize("height", c.Height)
}

// Execute runs the resize note command
func (c *ResizeNoteCommand) Execute(ctx context.Context) (*UpdateNoteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := c.session.Resize(ctx, c.NoteID, c.Width, c.Height); err != nil {
		return nil, err
	}
	if err := c.session.Flush(ctx); err != nil {
		return nil, err
	}
	return &UpdateNoteResult{
		NoteID:  c.NoteID,
		Message: fmt.Sprintf("Resized note %s to %gx%g", c.NoteID, c.Width, c.Height),
	}, nil
}

// ToggleNoteCommand minimizes or restores a note
type ToggleNoteCommand struct {
	session *application.Session
	NoteID  string
}

// NewToggleNoteCommand creates a new ToggleNoteCommand
func NewToggleNoteCommand(session *application.Session, noteID string) *ToggleNoteCommand {
	return &ToggleNoteCommand{session: session, NoteID: noteID}
}

// Validate checks if the toggle operation is valid
func (c *ToggleNoteCommand) Validate() error {
	return application.ValidateRequired("noteID", c.NoteID)
}

// Execute runs the toggle note command
func (c *ToggleNoteCommand) Execute(ctx context.Context) (*UpdateNoteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	minimized, err := c.session.ToggleMinimized(ctx, c.NoteID)
	if err != nil {
		return nil, err
	}
	if err := c.session.Flush(ctx); err != nil {
		return nil, err
	}
	state := "Restored"
	if minimized {
		state = "Minimized"
	}
	return &UpdateNoteResult{
		NoteID:  c.NoteID,
		Message: fmt.Sprintf("%s note %s", state, c.NoteID),
	}, nil
}
