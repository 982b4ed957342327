package commands

import (
	"context"
	"fmt"

	"stickynotes/internal/application"
)

// RenderPageResult contains the marked-up document
type RenderPageResult struct {
	HTML     string
	Anchored int
	Total    int
	Message  string
}

// RenderPageCommand re-anchors every note and serializes the document
type RenderPageCommand struct {
	session *application.Session
}

// NewRenderPageCommand creates a new RenderPageCommand
func NewRenderPageCommand(session *application.Session) *RenderPageCommand {
	return &RenderPageCommand{session: session}
}

// Execute runs the render page command
func (c *RenderPageCommand) Execute(ctx context.Context) (*RenderPageResult, error) {
	doc := c.session.Document()
	if doc == nil {
		return nil, fmt.Errorf("%w: no document open", application.ErrInvalidOperation)
	}

	c.session.ReanchorAll()
	out, err := doc.Render()
	if err != nil {
		return nil, err
	}

	total := 0
	for _, n := range c.session.Notes() {
		if n.HasAnchor() {
			total++
		}
	}
	anchored := len(c.session.Anchored())

	return &RenderPageResult{
		HTML:     out,
		Anchored: anchored,
		Total:    total,
		Message:  fmt.Sprintf("Anchored %d of %d notes", anchored, total),
	}, nil
}
