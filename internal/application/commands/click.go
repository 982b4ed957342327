package commands

import (
	"context"
	"fmt"

	"golang.org/x/net/html"

	"stickynotes/internal/anchor"
	"stickynotes/internal/application"
	"stickynotes/internal/dom"
)

// ClickTextResult contains the result of clicking on page text
type ClickTextResult struct {
	Consumed  bool
	NoteID    string
	Minimized bool
	Message   string
}

// ClickTextCommand delivers a click on the n-th occurrence of some text.
// A click inside a note's marker toggles that note; any other click is
// left to the page.
type ClickTextCommand struct {
	session    *application.Session
	Text       string
	Occurrence int
}

// NewClickTextCommand creates a new ClickTextCommand
func NewClickTextCommand(session *application.Session, text string, occurrence int) *ClickTextCommand {
	return &ClickTextCommand{
		session:    session,
		Text:       text,
		Occurrence: occurrence,
	}
}

// Validate checks if the click is valid
func (c *ClickTextCommand) Validate() error {
	if err := application.ValidateRequired("text", c.Text); err != nil {
		return err
	}
	return application.ValidateOccurrence(c.Occurrence)
}

// Execute runs the click text command
func (c *ClickTextCommand) Execute(ctx context.Context) (*ClickTextResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	doc := c.session.Document()
	if doc == nil {
		return nil, fmt.Errorf("%w: no document open", application.ErrInvalidOperation)
	}

	var target *html.Node
	var noteID string
	var err error
	doc.Read(func(root *html.Node) {
		var sel *dom.Range
		sel, err = dom.SelectText(root, c.Text, c.Occurrence)
		if err != nil {
			return
		}
		target = sel.StartContainer
		if m := anchor.EnclosingMarker(target); m != nil {
			noteID, _ = anchor.MarkerNoteID(m)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("cannot select %q: %w", c.Text, err)
	}

	if !c.session.HandleClick(ctx, target) {
		return &ClickTextResult{Message: fmt.Sprintf("No note marker at %q", c.Text)}, nil
	}
	if err := c.session.Flush(ctx); err != nil {
		return nil, err
	}

	result := &ClickTextResult{Consumed: true, NoteID: noteID}
	n, ok := c.session.Note(noteID)
	if !ok {
		result.Message = fmt.Sprintf("Marker at %q belongs to no note", c.Text)
		return result, nil
	}
	result.Minimized = n.Minimized
	if n.Minimized {
		result.Message = fmt.Sprintf("Minimized note %s", noteID)
	} else {
		result.Message = fmt.Sprintf("Restored note %s", noteID)
	}
	return result, nil
}
