package commands

import (
	"context"
	"fmt"

	"golang.org/x/net/html"

	"stickynotes/internal/application"
	"stickynotes/internal/dom"
	"stickynotes/internal/domain"
)

// AttachNoteResult contains the result of anchoring a note
type AttachNoteResult struct {
	NoteID  string
	Anchor  domain.AnchorRecord
	Wrapped bool
	Message string
}

// AttachNoteCommand anchors a note to the n-th occurrence of some text in
// the session's document, as if the user had selected it.
type AttachNoteCommand struct {
	session    *application.Session
	NoteID     string
	Text       string
	Occurrence int
}

// NewAttachNoteCommand creates a new AttachNoteCommand
func NewAttachNoteCommand(session *application.Session, noteID, text string, occurrence int) *AttachNoteCommand {
	return &AttachNoteCommand{
		session:    session,
		NoteID:     noteID,
		Text:       text,
		Occurrence: occurrence,
	}
}

// Validate checks if the attach operation is valid
func (c *AttachNoteCommand) Validate() error {
	if err := application.ValidateRequired("noteID", c.NoteID); err != nil {
		return err
	}
	if err := application.ValidateRequired("text", c.Text); err != nil {
		return err
	}
	return application.ValidateOccurrence(c.Occurrence)
}

// Execute runs the attach note command
func (c *AttachNoteCommand) Execute(ctx context.Context) (*AttachNoteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	doc := c.session.Document()
	if doc == nil {
		return nil, fmt.Errorf("%w: no document open", application.ErrInvalidOperation)
	}

	var sel *dom.Range
	var err error
	doc.Read(func(root *html.Node) {
		sel, err = dom.SelectText(root, c.Text, c.Occurrence)
	})
	if err != nil {
		return nil, fmt.Errorf("cannot select %q: %w", c.Text, err)
	}

	res, err := c.session.AttachToSelection(ctx, c.NoteID, sel)
	if err != nil {
		return nil, err
	}
	if err := c.session.Flush(ctx); err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Anchored note %s to %q", c.NoteID, res.Anchor.Quote)
	if !res.Wrapped {
		msg += " (stored, could not be marked in this document)"
	}
	return &AttachNoteResult{
		NoteID:  c.NoteID,
		Anchor:  res.Anchor,
		Wrapped: res.Wrapped,
		Message: msg,
	}, nil
}

// DetachNoteCommand removes a note's anchor
type DetachNoteCommand struct {
	session *application.Session
	NoteID  string
}

// NewDetachNoteCommand creates a new DetachNoteCommand
func NewDetachNoteCommand(session *application.Session, noteID string) *DetachNoteCommand {
	return &DetachNoteCommand{session: session, NoteID: noteID}
}

// Validate checks if the detach operation is valid
func (c *DetachNoteCommand) Validate() error {
	return application.ValidateRequired("noteID", c.NoteID)
}

// Execute runs the detach note command
func (c *DetachNoteCommand) Execute(ctx context.Context) (*UpdateNoteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := c.session.DetachAnchor(ctx, c.NoteID); err != nil {
		return nil, err
	}
	if err := c.session.Flush(ctx); err != nil {
		return nil, err
	}
	return &UpdateNoteResult{
		NoteID:  c.NoteID,
		Message: fmt.Sprintf("Detached note %s", c.NoteID),
	}, nil
}
